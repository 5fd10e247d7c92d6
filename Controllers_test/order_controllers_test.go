package Controllers_test

import (
	"encoding/json"
	"net/http"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/dinesync/dinesync/controllers"
	"github.com/dinesync/dinesync/middlewares"
	"github.com/dinesync/dinesync/models"
	"github.com/dinesync/dinesync/services"
	"github.com/dinesync/dinesync/utils"
)

func setupOrderRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	orderCtrl := controllers.NewOrderController(db)
	router.POST("/orders", orderCtrl.CreateOrder)
	router.GET("/orders/:order_id", orderCtrl.GetOrderByID)

	staff := router.Group("/admin")
	staff.Use(fakeStaff("waiter"))
	staff.PATCH("/orders/:order_id",
		middlewares.RequireRoles(models.RoleWaiter, models.RoleChef), orderCtrl.UpdateOrderStatus)
	staff.DELETE("/orders/:order_id",
		middlewares.RequireRoles(models.RoleWaiter, models.RoleOwner), orderCtrl.DeleteOrder)
	return router
}

func seedMenu(db *gorm.DB, name string, price int64) models.Menu {
	category := models.MenuCategory{Name: name + " category"}
	db.Create(&category)
	menu := models.Menu{
		RestaurantID: 1, CategoryID: category.ID,
		Name: name, Price: price, Stock: 100, Available: true,
	}
	db.Create(&menu)
	return menu
}

func TestCreateSessionOrderUpdatesTotal(t *testing.T) {
	utils.InitLogger()
	utils.RegisterValidators()
	db := setupTestDBForSessions(t, "ord_create")
	menu := seedMenu(db, "Nasi Goreng", 750)
	router := setupOrderRouter(db)

	svc := services.NewSessionService(db)
	session, err := svc.CreateSession(1, 1)
	assert.NoError(t, err)
	_, customer, err := svc.JoinSession(session.OTP, 1, "Alice", "5550001")
	assert.NoError(t, err)

	w := doJSON(router, "POST", "/orders", map[string]interface{}{
		"table_id":    1,
		"session_id":  session.ID,
		"customer_id": customer.ID,
		"items": []map[string]interface{}{
			{"menu_id": menu.ID, "quantity": 2},
		},
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, float64(1500), data["total_amount"])

	// the session total follows the order
	reloaded, err := svc.GetSessionByID(session.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(1500), reloaded.TotalAmount)
}

func TestCreateOrderUnknownCustomerRejected(t *testing.T) {
	utils.InitLogger()
	utils.RegisterValidators()
	db := setupTestDBForSessions(t, "ord_unknown_cust")
	menu := seedMenu(db, "Sate Ayam", 1200)
	router := setupOrderRouter(db)

	svc := services.NewSessionService(db)
	session, _ := svc.CreateSession(1, 1)

	stranger := "not-on-the-roster"
	w := doJSON(router, "POST", "/orders", map[string]interface{}{
		"table_id":    1,
		"session_id":  session.ID,
		"customer_id": stranger,
		"items": []map[string]interface{}{
			{"menu_id": menu.ID, "quantity": 1},
		},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateWalkInOrder(t *testing.T) {
	utils.InitLogger()
	utils.RegisterValidators()
	db := setupTestDBForSessions(t, "ord_walkin")
	menu := seedMenu(db, "Es Teh", 300)
	router := setupOrderRouter(db)

	// no session_id: a plain walk-in order
	w := doJSON(router, "POST", "/orders", map[string]interface{}{
		"table_id": 1,
		"items": []map[string]interface{}{
			{"menu_id": menu.ID, "quantity": 3},
		},
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, float64(900), data["total_amount"])
	assert.Nil(t, data["session_id"])
}

func TestCancelOrderRecomputesSessionTotal(t *testing.T) {
	utils.InitLogger()
	utils.RegisterValidators()
	db := setupTestDBForSessions(t, "ord_cancel")
	menu := seedMenu(db, "Ayam Bakar", 2000)
	router := setupOrderRouter(db)

	svc := services.NewSessionService(db)
	session, _ := svc.CreateSession(1, 1)
	_, customer, _ := svc.JoinSession(session.OTP, 1, "Alice", "5550001")

	w := doJSON(router, "POST", "/orders", map[string]interface{}{
		"table_id":    1,
		"session_id":  session.ID,
		"customer_id": customer.ID,
		"items": []map[string]interface{}{
			{"menu_id": menu.ID, "quantity": 1},
		},
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	orderID := decodeData(t, w)["id"].(float64)

	reloaded, _ := svc.GetSessionByID(session.ID)
	assert.Equal(t, int64(2000), reloaded.TotalAmount)

	w = doJSON(router, "PATCH", "/admin/orders/"+jsonNumber(orderID), map[string]interface{}{
		"status": "cancelled",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	reloaded, _ = svc.GetSessionByID(session.ID)
	assert.Equal(t, int64(0), reloaded.TotalAmount)
}

func TestGetOrderByIDEndpoint(t *testing.T) {
	utils.InitLogger()
	utils.RegisterValidators()
	db := setupTestDBForSessions(t, "ord_get")
	menu := seedMenu(db, "Bakso", 1000)
	router := setupOrderRouter(db)

	w := doJSON(router, "POST", "/orders", map[string]interface{}{
		"table_id": 1,
		"items": []map[string]interface{}{
			{"menu_id": menu.ID, "quantity": 1, "notes": "extra pedas"},
		},
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	orderID := decodeData(t, w)["id"].(float64)

	w = doJSON(router, "GET", "/orders/"+jsonNumber(orderID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &resp)
	data := resp["data"].(map[string]interface{})
	items := data["order_items"].([]interface{})
	assert.Len(t, items, 1)
}

func jsonNumber(f float64) string {
	return strconv.Itoa(int(f))
}
