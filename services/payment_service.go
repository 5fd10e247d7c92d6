package services

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
	"gorm.io/gorm"

	"github.com/dinesync/dinesync/models"
	"github.com/dinesync/dinesync/utils"
)

// Payment methods accepted at settlement.
const (
	MethodCash = "cash"
	MethodQRIS = "qris"
)

// PaymentService settles billed sessions, either in cash verified by staff
// or through a Midtrans Snap transaction.
type PaymentService struct {
	db   *gorm.DB
	snap *snap.Client
	core *coreapi.Client
}

func NewPaymentService(db *gorm.DB) *PaymentService {
	env := midtrans.Sandbox
	if os.Getenv("MIDTRANS_ENV") == "production" {
		env = midtrans.Production
	}
	serverKey := os.Getenv("MIDTRANS_SERVER_KEY")

	snapClient := &snap.Client{}
	snapClient.New(serverKey, env)
	coreClient := &coreapi.Client{}
	coreClient.New(serverKey, env)

	return &PaymentService{db: db, snap: snapClient, core: coreClient}
}

// OpenSettlement creates a pending payment for a billed session over its
// current total. QRIS settlements open a Midtrans Snap transaction and carry
// back the payment page; cash settlements wait for staff verification.
func (ps *PaymentService) OpenSettlement(sessionID, method string) (*models.Payment, error) {
	var session models.Session
	if err := ps.db.Where("id = ?", sessionID).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
		}
		return nil, storeErr(err)
	}
	if session.Status != models.SessionBilled {
		return nil, fmt.Errorf("session %s is %s, settlement needs a billed session: %w",
			sessionID, session.Status, ErrInvalidState)
	}

	var existing models.Payment
	err := ps.db.Where("session_id = ? AND status = ?", sessionID, models.PaymentPending).
		First(&existing).Error
	if err == nil {
		return nil, fmt.Errorf("session %s already has a pending payment: %w", sessionID, ErrConflict)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storeErr(err)
	}

	payment := models.Payment{
		SessionID:     session.ID,
		Amount:        session.TotalAmount,
		Status:        models.PaymentPending,
		PaymentMethod: method,
		ReferenceID:   fmt.Sprintf("SET-%s-%d", session.ID[:8], time.Now().Unix()),
	}

	if method == MethodQRIS {
		resp, midErr := ps.snap.CreateTransaction(&snap.Request{
			TransactionDetails: midtrans.TransactionDetails{
				OrderID: payment.ReferenceID,
				// midtrans takes major currency units
				GrossAmt: session.TotalAmount / 100,
			},
			Items: &[]midtrans.ItemDetails{
				{
					ID:    session.ID,
					Price: session.TotalAmount / 100,
					Qty:   1,
					Name:  "Table bill",
				},
			},
		})
		if midErr != nil {
			return nil, fmt.Errorf("%w: midtrans transaction: %v", ErrStoreUnavailable, midErr)
		}
		payment.SnapToken = resp.Token
		payment.PaymentURL = resp.RedirectURL
		expiry := time.Now().Add(15 * time.Minute)
		payment.ExpiredAt = &expiry
	}

	if err := ps.db.Create(&payment).Error; err != nil {
		return nil, storeErr(err)
	}

	utils.InfoLogger.Printf("Settlement opened for session %s (%s, amount=%d)",
		session.ID, method, payment.Amount)
	return &payment, nil
}

// VerifyCashPayment marks a pending cash payment as received by a staff
// member.
func (ps *PaymentService) VerifyCashPayment(paymentID, staffID uint) (*models.Payment, error) {
	var payment models.Payment
	if err := ps.db.First(&payment, paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("payment %d: %w", paymentID, ErrNotFound)
		}
		return nil, storeErr(err)
	}
	if payment.Status != models.PaymentPending || payment.PaymentMethod != MethodCash {
		return nil, fmt.Errorf("payment %d is not a pending cash payment: %w", paymentID, ErrInvalidState)
	}

	now := time.Now()
	payment.Status = models.PaymentSuccess
	payment.PaymentTime = &now
	payment.VerifiedBy = &staffID
	if err := ps.db.Save(&payment).Error; err != nil {
		return nil, storeErr(err)
	}

	utils.InfoLogger.Printf("Payment %d verified by staff %d", paymentID, staffID)
	return &payment, nil
}

// HandleNotification applies a Midtrans transaction status callback to the
// matching payment.
func (ps *PaymentService) HandleNotification(referenceID, transactionStatus string) (*models.Payment, error) {
	var payment models.Payment
	if err := ps.db.Where("reference_id = ?", referenceID).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("payment ref %s: %w", referenceID, ErrNotFound)
		}
		return nil, storeErr(err)
	}

	switch transactionStatus {
	case "settlement", "capture":
		now := time.Now()
		payment.Status = models.PaymentSuccess
		payment.PaymentTime = &now
	case "expire":
		payment.Status = models.PaymentExpired
	case "deny", "cancel", "failure":
		payment.Status = models.PaymentFailed
	default:
		// pending and intermediate statuses leave the payment untouched
		return &payment, nil
	}

	if err := ps.db.Save(&payment).Error; err != nil {
		return nil, storeErr(err)
	}

	utils.InfoLogger.Printf("Payment %d (%s) -> %s", payment.ID, referenceID, payment.Status)
	return &payment, nil
}

// CheckStatus queries Midtrans for the live status of a QRIS payment and
// reconciles the local record.
func (ps *PaymentService) CheckStatus(paymentID uint) (*models.Payment, error) {
	var payment models.Payment
	if err := ps.db.First(&payment, paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("payment %d: %w", paymentID, ErrNotFound)
		}
		return nil, storeErr(err)
	}
	if payment.PaymentMethod != MethodQRIS {
		return &payment, nil
	}

	resp, midErr := ps.core.CheckTransaction(payment.ReferenceID)
	if midErr != nil {
		return nil, fmt.Errorf("%w: midtrans status: %v", ErrStoreUnavailable, midErr)
	}

	return ps.HandleNotification(payment.ReferenceID, resp.TransactionStatus)
}

// GetSessionPayments lists all payments recorded for a session.
func (ps *PaymentService) GetSessionPayments(sessionID string) ([]models.Payment, error) {
	var payments []models.Payment
	err := ps.db.Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Find(&payments).Error
	if err != nil {
		return nil, storeErr(err)
	}
	return payments, nil
}
