package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dinesync/dinesync/live"
	"github.com/dinesync/dinesync/models"
	"github.com/dinesync/dinesync/services"
	"github.com/dinesync/dinesync/utils"
)

type SessionController struct {
	DB  *gorm.DB
	svc *services.SessionService
}

func NewSessionController(db *gorm.DB) *SessionController {
	return &SessionController{
		DB:  db,
		svc: services.NewSessionService(db),
	}
}

// CreateSession -> open a group-ordering session for a table (QR scan flow)
func (sc *SessionController) CreateSession(c *gin.Context) {
	tableID, err := strconv.ParseUint(c.Param("table_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid table_id"))
		return
	}

	var req struct {
		RestaurantID uint `json:"restaurant_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	session, err := sc.svc.CreateSession(uint(tableID), req.RestaurantID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	live.BroadcastSessionUpdate(*session)

	utils.RespondJSON(c, http.StatusCreated, "Session created", session)
}

// GetActiveSession -> the table's current active session, 404 when absent
func (sc *SessionController) GetActiveSession(c *gin.Context) {
	tableID, err := strconv.ParseUint(c.Param("table_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid table_id"))
		return
	}

	session, err := sc.svc.GetActiveSession(uint(tableID))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Active session", session)
}

// ScanTable -> table detail plus its active session, if any
func (sc *SessionController) ScanTable(c *gin.Context) {
	tableID := c.Param("table_id")

	var table models.Table
	if err := sc.DB.First(&table, tableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	session, err := sc.svc.GetActiveSession(table.ID)
	if err != nil && !errors.Is(err, services.ErrNotFound) {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Table scanned", gin.H{
		"table":   table,
		"session": session, // nil when the table has no active session
	})
}

// JoinSession -> add a diner to the table's active session using the OTP
func (sc *SessionController) JoinSession(c *gin.Context) {
	var req struct {
		TableID uint   `json:"table_id" binding:"required"`
		OTP     string `json:"otp" binding:"required,otp"`
		Name    string `json:"name" binding:"required"`
		Phone   string `json:"phone" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	session, customer, err := sc.svc.JoinSession(req.OTP, req.TableID, req.Name, req.Phone)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	live.BroadcastCustomerJoined(*session, *customer)

	utils.RespondJSON(c, http.StatusCreated, "Joined session", gin.H{
		"session":  session,
		"customer": customer,
	})
}

// RegenerateOTP -> issue a fresh join code. The router gates this behind
// admin/waiter/owner.
func (sc *SessionController) RegenerateOTP(c *gin.Context) {
	sessionID := c.Param("session_id")
	newOTP, err := sc.svc.RegenerateOTP(sessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "OTP regenerated", gin.H{
		"session_id": sessionID,
		"otp":        newOTP,
	})
}

// GetSessionCustomers -> the roster in join order
func (sc *SessionController) GetSessionCustomers(c *gin.Context) {
	sessionID := c.Param("session_id")

	if _, err := sc.svc.GetSessionByID(sessionID); err != nil {
		respondServiceError(c, err)
		return
	}

	customers, err := sc.svc.GetSessionCustomers(sessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Session customers", customers)
}

// GetSessionOrders -> all orders tagged with the session
func (sc *SessionController) GetSessionOrders(c *gin.Context) {
	sessionID := c.Param("session_id")

	if _, err := sc.svc.GetSessionByID(sessionID); err != nil {
		respondServiceError(c, err)
		return
	}

	orders, err := sc.svc.GetSessionOrders(sessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Session orders", orders)
}

// GetSessionBill -> running total plus the per-customer breakdown
func (sc *SessionController) GetSessionBill(c *gin.Context) {
	sessionID := c.Param("session_id")

	session, err := sc.svc.GetSessionByID(sessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	orders, err := sc.svc.GetSessionOrders(sessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	customers, err := sc.svc.GetSessionCustomers(sessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Session bill", gin.H{
		"session":         session,
		"total_amount":    services.SumOrders(orders),
		"total_formatted": utils.FormatMinorUnits(services.SumOrders(orders)),
		"breakdown":       services.PerCustomerBreakdown(orders, customers),
	})
}

// RecomputeTotal -> re-derive total_amount from the session's orders
func (sc *SessionController) RecomputeTotal(c *gin.Context) {
	sessionID := c.Param("session_id")

	total, err := sc.svc.UpdateSessionTotal(sessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	live.BroadcastTotalUpdate(sessionID, total)

	utils.RespondJSON(c, http.StatusOK, "Session total updated", gin.H{
		"session_id":   sessionID,
		"total_amount": total,
	})
}

// CloseSession -> bill an active session (role-gated in the router)
func (sc *SessionController) CloseSession(c *gin.Context) {
	sessionID := c.Param("session_id")
	if err := sc.svc.CloseSession(sessionID); err != nil {
		respondServiceError(c, err)
		return
	}

	session, err := sc.svc.GetSessionByID(sessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	live.BroadcastSessionBilled(*session)

	utils.RespondJSON(c, http.StatusOK, "Session billed", session)
}

// ClearSession -> soft-delete the session once the table is settled
// (role-gated in the router)
func (sc *SessionController) ClearSession(c *gin.Context) {
	sessionID := c.Param("session_id")
	if err := sc.svc.ClearSession(sessionID); err != nil {
		respondServiceError(c, err)
		return
	}

	live.BroadcastSessionCleared(sessionID)

	utils.RespondJSON(c, http.StatusOK, "Session cleared", gin.H{
		"session_id": sessionID,
	})
}

// GetAllActiveSessions -> every active session, for the staff dashboard
func (sc *SessionController) GetAllActiveSessions(c *gin.Context) {
	sessions, err := sc.svc.GetAllActiveSessions()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Active sessions", sessions)
}

// GetRestaurantSessions -> all sessions of one restaurant
func (sc *SessionController) GetRestaurantSessions(c *gin.Context) {
	restaurantID, err := strconv.ParseUint(c.Param("restaurant_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid restaurant_id"))
		return
	}

	sessions, err := sc.svc.GetRestaurantSessions(uint(restaurantID))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Restaurant sessions", sessions)
}

// GetAllSessionCustomers -> every roster entry across sessions
func (sc *SessionController) GetAllSessionCustomers(c *gin.Context) {
	customers, err := sc.svc.GetAllSessionCustomers()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All session customers", customers)
}
