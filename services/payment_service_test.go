package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dinesync/dinesync/models"
	"github.com/dinesync/dinesync/utils"
)

// billedSession opens a session with one order and closes it, leaving a
// billed session ready for settlement.
func billedSession(t *testing.T, svc *SessionService, tableID, restaurantID uint) *models.Session {
	session, err := svc.CreateSession(tableID, restaurantID)
	assert.NoError(t, err)

	svc.db.Create(&models.Order{
		SessionID: &session.ID, TableID: tableID,
		Status: models.OrderPending, TotalAmount: 4200,
	})
	_, err = svc.UpdateSessionTotal(session.ID)
	assert.NoError(t, err)
	assert.NoError(t, svc.CloseSession(session.ID))

	reloaded, err := svc.GetSessionByID(session.ID)
	assert.NoError(t, err)
	return reloaded
}

func TestOpenSettlementRequiresBilledSession(t *testing.T) {
	utils.InitLogger()
	db := setupSessionTestDB(t, "pay_billed_only")
	sessions := NewSessionService(db)
	payments := NewPaymentService(db)
	table := seedTable(db)

	session, err := sessions.CreateSession(table.ID, table.RestaurantID)
	assert.NoError(t, err)

	// still active: not settleable
	_, err = payments.OpenSettlement(session.ID, MethodCash)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = payments.OpenSettlement("no-such-session", MethodCash)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpenSettlementCash(t *testing.T) {
	utils.InitLogger()
	db := setupSessionTestDB(t, "pay_cash")
	sessions := NewSessionService(db)
	payments := NewPaymentService(db)
	table := seedTable(db)

	session := billedSession(t, sessions, table.ID, table.RestaurantID)

	payment, err := payments.OpenSettlement(session.ID, MethodCash)
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentPending, payment.Status)
	assert.Equal(t, MethodCash, payment.PaymentMethod)
	assert.Equal(t, session.TotalAmount, payment.Amount)
	assert.NotEmpty(t, payment.ReferenceID)

	// one pending settlement at a time
	_, err = payments.OpenSettlement(session.ID, MethodCash)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestVerifyCashPayment(t *testing.T) {
	utils.InitLogger()
	db := setupSessionTestDB(t, "pay_verify")
	sessions := NewSessionService(db)
	payments := NewPaymentService(db)
	table := seedTable(db)

	session := billedSession(t, sessions, table.ID, table.RestaurantID)
	payment, err := payments.OpenSettlement(session.ID, MethodCash)
	assert.NoError(t, err)

	verified, err := payments.VerifyCashPayment(payment.ID, 7)
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentSuccess, verified.Status)
	assert.NotNil(t, verified.PaymentTime)
	assert.Equal(t, uint(7), *verified.VerifiedBy)

	// verifying twice is rejected
	_, err = payments.VerifyCashPayment(payment.ID, 7)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = payments.VerifyCashPayment(99999, 7)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHandleNotificationStatusMapping(t *testing.T) {
	utils.InitLogger()
	db := setupSessionTestDB(t, "pay_notify")
	sessions := NewSessionService(db)
	payments := NewPaymentService(db)
	table := seedTable(db)

	session := billedSession(t, sessions, table.ID, table.RestaurantID)

	cases := []struct {
		transactionStatus string
		want              string
	}{
		{"settlement", models.PaymentSuccess},
		{"capture", models.PaymentSuccess},
		{"expire", models.PaymentExpired},
		{"deny", models.PaymentFailed},
		{"cancel", models.PaymentFailed},
		{"pending", models.PaymentPending},
	}
	for i, tc := range cases {
		ref := "REF-" + tc.transactionStatus
		db.Create(&models.Payment{
			SessionID:     session.ID,
			Amount:        session.TotalAmount,
			Status:        models.PaymentPending,
			PaymentMethod: MethodQRIS,
			ReferenceID:   ref,
			CreatedAt:     time.Now().Add(time.Duration(i) * time.Second),
		})

		payment, err := payments.HandleNotification(ref, tc.transactionStatus)
		assert.NoError(t, err)
		assert.Equal(t, tc.want, payment.Status, "status %q", tc.transactionStatus)

		if tc.want == models.PaymentSuccess {
			assert.NotNil(t, payment.PaymentTime)
		}
	}

	_, err := payments.HandleNotification("REF-missing", "settlement")
	assert.ErrorIs(t, err, ErrNotFound)
}
