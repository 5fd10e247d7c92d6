package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dinesync/dinesync/live"
	"github.com/dinesync/dinesync/models"
	"github.com/dinesync/dinesync/services"
	"github.com/dinesync/dinesync/utils"
)

type OrderController struct {
	DB  *gorm.DB
	svc *services.SessionService
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{
		DB:  db,
		svc: services.NewSessionService(db),
	}
}

// GetAllOrders -> list orders with their items
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	var orders []models.Order
	if err := oc.DB.Preload("OrderItems").Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// CreateOrder -> place an order, optionally tagged with a group session.
// Session orders must come from a diner on the roster and trigger a total
// recompute.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	type ItemReq struct {
		MenuID   uint   `json:"menu_id" binding:"required"`
		Quantity int    `json:"quantity" binding:"required,gt=0"`
		Notes    string `json:"notes"`
	}

	var req struct {
		TableID    uint      `json:"table_id" binding:"required"`
		SessionID  *string   `json:"session_id"`
		CustomerID *string   `json:"customer_id"`
		Items      []ItemReq `json:"items" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.SessionID != nil {
		session, err := oc.svc.GetSessionByID(*req.SessionID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		if session.Status != models.SessionActive {
			respondServiceError(c, fmt.Errorf("session %s is %s: %w",
				session.ID, session.Status, services.ErrInvalidState))
			return
		}
		if session.TableID != req.TableID {
			utils.RespondError(c, http.StatusBadRequest,
				errors.New("session does not belong to this table"))
			return
		}
		if req.CustomerID != nil {
			var customer models.SessionCustomer
			err := oc.DB.Where("id = ? AND session_id = ?", *req.CustomerID, session.ID).
				First(&customer).Error
			if err != nil {
				utils.RespondError(c, http.StatusNotFound,
					errors.New("customer is not on the session roster"))
				return
			}
		}
	}

	var order models.Order
	err := oc.DB.Transaction(func(tx *gorm.DB) error {
		order = models.Order{
			TableID:    req.TableID,
			SessionID:  req.SessionID,
			CustomerID: req.CustomerID,
			Status:     models.OrderPending,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		var total int64
		for _, item := range req.Items {
			var menu models.Menu
			if err := tx.First(&menu, item.MenuID).Error; err != nil {
				return fmt.Errorf("menu %d not found", item.MenuID)
			}
			if !menu.Available {
				return fmt.Errorf("menu %q is not available", menu.Name)
			}

			orderItem := models.OrderItem{
				OrderID:  order.ID,
				MenuID:   menu.ID,
				Quantity: item.Quantity,
				Price:    menu.Price,
				Notes:    item.Notes,
				Status:   "pending",
			}
			if err := tx.Create(&orderItem).Error; err != nil {
				return err
			}
			total += int64(item.Quantity) * menu.Price
			order.OrderItems = append(order.OrderItems, orderItem)
		}

		order.TotalAmount = total
		return tx.Save(&order).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	// keep the session's stored total in step with its orders
	if req.SessionID != nil {
		total, err := oc.svc.UpdateSessionTotal(*req.SessionID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		live.BroadcastTotalUpdate(*req.SessionID, total)
	}

	live.BroadcastOrderUpdate(order)

	utils.InfoLogger.Printf("Order %d created for table %d (total=%d)",
		order.ID, order.TableID, order.TotalAmount)
	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

// GetOrderByID -> one order with its items
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	idStr := c.Param("order_id")
	id, _ := strconv.Atoi(idStr)

	var order models.Order
	if err := oc.DB.Preload("OrderItems").First(&order, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// UpdateOrderStatus -> staff move an order through the kitchen flow
// (role-gated in the router)
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	orderID := c.Param("order_id")

	var req struct {
		Status string `json:"status" binding:"required,oneof=pending preparing ready served cancelled"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var order models.Order
	if err := oc.DB.First(&order, orderID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	order.Status = req.Status
	if err := oc.DB.Save(&order).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	// cancelled orders no longer count toward the session total
	if order.SessionID != nil && req.Status == models.OrderCancelled {
		if total, err := oc.svc.UpdateSessionTotal(*order.SessionID); err == nil {
			live.BroadcastTotalUpdate(*order.SessionID, total)
		}
	}

	live.BroadcastOrderUpdate(order)

	utils.RespondJSON(c, http.StatusOK, "Order updated", order)
}

// DeleteOrder -> staff remove an order entirely (soft delete, role-gated in
// the router)
func (oc *OrderController) DeleteOrder(c *gin.Context) {
	orderID := c.Param("order_id")

	var order models.Order
	if err := oc.DB.First(&order, orderID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if err := oc.DB.Delete(&order).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if order.SessionID != nil {
		if total, err := oc.svc.UpdateSessionTotal(*order.SessionID); err == nil {
			live.BroadcastTotalUpdate(*order.SessionID, total)
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Order deleted", gin.H{"order_id": order.ID})
}
