package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dinesync/dinesync/live"
	"github.com/dinesync/dinesync/services"
	"github.com/dinesync/dinesync/utils"
)

type PaymentController struct {
	DB  *gorm.DB
	svc *services.PaymentService
}

func NewPaymentController(db *gorm.DB) *PaymentController {
	return &PaymentController{
		DB:  db,
		svc: services.NewPaymentService(db),
	}
}

// OpenSettlement -> open a payment for a billed session (role-gated in the
// router)
func (pc *PaymentController) OpenSettlement(c *gin.Context) {
	sessionID := c.Param("session_id")

	var req struct {
		Method string `json:"method" binding:"required,oneof=cash qris"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	payment, err := pc.svc.OpenSettlement(sessionID, req.Method)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	live.BroadcastPaymentUpdate(*payment)

	utils.RespondJSON(c, http.StatusCreated, "Settlement opened", payment)
}

// VerifyCashPayment -> staff confirm the cash has been received
func (pc *PaymentController) VerifyCashPayment(c *gin.Context) {
	paymentID, err := strconv.ParseUint(c.Param("payment_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid payment_id"))
		return
	}

	userIDInterface, _ := c.Get("userID")
	staffID, _ := userIDInterface.(uint)

	payment, err := pc.svc.VerifyCashPayment(uint(paymentID), staffID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	live.BroadcastPaymentUpdate(*payment)

	utils.RespondJSON(c, http.StatusOK, "Payment verified", payment)
}

// HandleCallback -> Midtrans notification webhook
func (pc *PaymentController) HandleCallback(c *gin.Context) {
	var notif struct {
		OrderID           string `json:"order_id" binding:"required"`
		TransactionStatus string `json:"transaction_status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&notif); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	payment, err := pc.svc.HandleNotification(notif.OrderID, notif.TransactionStatus)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	live.BroadcastPaymentUpdate(*payment)

	utils.RespondJSON(c, http.StatusOK, "Notification processed", payment)
}

// CheckStatus -> reconcile a QRIS payment against Midtrans
func (pc *PaymentController) CheckStatus(c *gin.Context) {
	paymentID, err := strconv.ParseUint(c.Param("payment_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid payment_id"))
		return
	}

	payment, err := pc.svc.CheckStatus(uint(paymentID))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Payment status", payment)
}

// GetSessionPayments -> all settlement attempts for a session
func (pc *PaymentController) GetSessionPayments(c *gin.Context) {
	sessionID := c.Param("session_id")

	payments, err := pc.svc.GetSessionPayments(sessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Session payments", payments)
}
