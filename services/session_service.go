package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/dinesync/dinesync/models"
	"github.com/dinesync/dinesync/utils"
)

// SessionService holds the business rules for the group-ordering session
// lifecycle: creation, OTP joins, total recomputation, close and clear. It
// keeps no state of its own; everything lives in the database.
type SessionService struct {
	db *gorm.DB
}

func NewSessionService(db *gorm.DB) *SessionService {
	return &SessionService{db: db}
}

// storeErr wraps database failures so callers can tell them apart from a
// plain "row does not exist".
func storeErr(err error) error {
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}

// CreateSession opens a new active session for a table. The existence check
// and the insert run in one transaction so two racing calls cannot both
// succeed for the same table.
func (s *SessionService) CreateSession(tableID, restaurantID uint) (*models.Session, error) {
	var session models.Session

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var table models.Table
		if err := tx.First(&table, tableID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("table %d: %w", tableID, ErrNotFound)
			}
			return storeErr(err)
		}
		if table.RestaurantID != restaurantID {
			return fmt.Errorf("table %d does not belong to restaurant %d: %w", tableID, restaurantID, ErrNotFound)
		}

		var existing models.Session
		err := tx.Where("table_id = ? AND status = ?", tableID, models.SessionActive).
			First(&existing).Error
		if err == nil {
			return fmt.Errorf("table %d already has an active session: %w", tableID, ErrConflict)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return storeErr(err)
		}

		session = models.Session{
			ID:           utils.GenerateSessionID(),
			TableID:      tableID,
			RestaurantID: restaurantID,
			OTP:          utils.GenerateOTP(),
			Status:       models.SessionActive,
			TotalAmount:  0,
		}
		if err := tx.Create(&session).Error; err != nil {
			return storeErr(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Session %s created for table %d (otp=%s)", session.ID, tableID, session.OTP)
	return &session, nil
}

// GetActiveSession returns the newest non-deleted active session for the
// table. Billed and cleared sessions are never returned.
func (s *SessionService) GetActiveSession(tableID uint) (*models.Session, error) {
	var session models.Session
	err := s.db.Where("table_id = ? AND status = ?", tableID, models.SessionActive).
		Order("created_at DESC").
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no active session for table %d: %w", tableID, ErrNotFound)
		}
		return nil, storeErr(err)
	}
	return &session, nil
}

// GetSessionByID returns a session regardless of status, excluding
// soft-deleted ones.
func (s *SessionService) GetSessionByID(sessionID string) (*models.Session, error) {
	var session models.Session
	err := s.db.Where("id = ?", sessionID).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
		}
		return nil, storeErr(err)
	}
	return &session, nil
}

// JoinSession adds a diner to the roster of the table's active session. The
// OTP must match the session's current one; a regenerated OTP invalidates
// joins still in flight with the old code. Rejoining with the same phone
// creates a second roster entry.
func (s *SessionService) JoinSession(otp string, tableID uint, name, phone string) (*models.Session, *models.SessionCustomer, error) {
	session, err := s.GetActiveSession(tableID)
	if err != nil {
		return nil, nil, err
	}

	if session.OTP != otp {
		return nil, nil, fmt.Errorf("otp does not match session %s: %w", session.ID, ErrInvalidCredential)
	}

	customer := models.SessionCustomer{
		ID:        utils.GenerateSessionID(),
		SessionID: session.ID,
		Name:      name,
		Phone:     phone,
		JoinedAt:  time.Now(),
	}
	if err := s.db.Create(&customer).Error; err != nil {
		return nil, nil, storeErr(err)
	}

	utils.InfoLogger.Printf("Customer %s (%s) joined session %s", customer.Name, customer.ID, session.ID)
	return session, &customer, nil
}

// RegenerateOTP issues a fresh join code for an active session, invalidating
// the old one immediately.
func (s *SessionService) RegenerateOTP(sessionID string) (string, error) {
	session, err := s.GetSessionByID(sessionID)
	if err != nil {
		return "", err
	}
	if session.Status != models.SessionActive {
		return "", fmt.Errorf("session %s is %s: %w", sessionID, session.Status, ErrInvalidState)
	}

	newOTP := utils.GenerateOTP()
	if err := s.db.Model(session).Update("otp", newOTP).Error; err != nil {
		return "", storeErr(err)
	}

	utils.InfoLogger.Printf("Session %s OTP regenerated", sessionID)
	return newOTP, nil
}

// GetSessionCustomers returns the non-deleted roster in join order.
func (s *SessionService) GetSessionCustomers(sessionID string) ([]models.SessionCustomer, error) {
	var customers []models.SessionCustomer
	err := s.db.Where("session_id = ?", sessionID).
		Order("joined_at ASC").
		Find(&customers).Error
	if err != nil {
		return nil, storeErr(err)
	}
	return customers, nil
}

// GetSessionOrders returns the session's non-deleted orders. Cancelled
// orders are excluded, matching UpdateSessionTotal, so summing the result
// always reproduces the stored total_amount.
func (s *SessionService) GetSessionOrders(sessionID string) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.Preload("OrderItems").
		Where("session_id = ? AND status <> ?", sessionID, models.OrderCancelled).
		Order("created_at ASC").
		Find(&orders).Error
	if err != nil {
		return nil, storeErr(err)
	}
	return orders, nil
}

// UpdateSessionTotal recomputes total_amount as the sum over the session's
// non-deleted, non-cancelled orders and persists it. The sum and the write
// share one transaction so a racing order placement cannot be dropped from
// the stored total.
func (s *SessionService) UpdateSessionTotal(sessionID string) (int64, error) {
	var total int64

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var session models.Session
		if err := tx.Where("id = ?", sessionID).First(&session).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
			}
			return storeErr(err)
		}

		err := tx.Model(&models.Order{}).
			Where("session_id = ? AND status <> ?", sessionID, models.OrderCancelled).
			Select("COALESCE(SUM(total_amount), 0)").
			Scan(&total).Error
		if err != nil {
			return storeErr(err)
		}

		if err := tx.Model(&session).Update("total_amount", total).Error; err != nil {
			return storeErr(err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return total, nil
}

// CloseSession bills an active session. The status check and update run as
// one statement, so closing twice succeeds exactly once.
func (s *SessionService) CloseSession(sessionID string) error {
	res := s.db.Model(&models.Session{}).
		Where("id = ? AND status = ?", sessionID, models.SessionActive).
		Update("status", models.SessionBilled)
	if res.Error != nil {
		return storeErr(res.Error)
	}
	if res.RowsAffected == 0 {
		// tell the caller whether the session is missing or just not active
		if _, err := s.GetSessionByID(sessionID); err != nil {
			return err
		}
		return fmt.Errorf("session %s is not active: %w", sessionID, ErrInvalidState)
	}

	utils.InfoLogger.Printf("Session %s billed", sessionID)
	return nil
}

// ClearSession marks the session cleared and soft-deletes it, whatever its
// current status. Cleared sessions drop out of all active lookups.
func (s *SessionService) ClearSession(sessionID string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var session models.Session
		if err := tx.Where("id = ?", sessionID).First(&session).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
			}
			return storeErr(err)
		}

		if err := tx.Model(&session).Update("status", models.SessionCleared).Error; err != nil {
			return storeErr(err)
		}
		if err := tx.Delete(&session).Error; err != nil {
			return storeErr(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	utils.InfoLogger.Printf("Session %s cleared", sessionID)
	return nil
}

// GetAllActiveSessions lists every active session across restaurants.
func (s *SessionService) GetAllActiveSessions() ([]models.Session, error) {
	var sessions []models.Session
	err := s.db.Where("status = ?", models.SessionActive).
		Order("created_at DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, storeErr(err)
	}
	return sessions, nil
}

// GetRestaurantSessions lists all non-deleted sessions of one restaurant,
// whatever their status.
func (s *SessionService) GetRestaurantSessions(restaurantID uint) ([]models.Session, error) {
	var sessions []models.Session
	err := s.db.Where("restaurant_id = ?", restaurantID).
		Order("created_at DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, storeErr(err)
	}
	return sessions, nil
}

// GetAllSessionCustomers lists every non-deleted roster entry.
func (s *SessionService) GetAllSessionCustomers() ([]models.SessionCustomer, error) {
	var customers []models.SessionCustomer
	err := s.db.Order("joined_at ASC").Find(&customers).Error
	if err != nil {
		return nil, storeErr(err)
	}
	return customers, nil
}
