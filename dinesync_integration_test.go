package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dinesync/dinesync/models"
	"github.com/dinesync/dinesync/router"
	"github.com/dinesync/dinesync/utils"
)

func setupIntegrationDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:integration?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{}, &models.Restaurant{}, &models.Table{},
		&models.Session{}, &models.SessionCustomer{},
		&models.MenuCategory{}, &models.Menu{},
		&models.Order{}, &models.OrderItem{}, &models.Payment{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func request(r *gin.Engine, method, url, token string, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		data, _ := json.Marshal(payload)
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req, _ := http.NewRequest(method, url, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func dataOf(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	data, _ := response["data"].(map[string]interface{})
	return data
}

// The whole table-side flow: staff set up the restaurant, a diner scans the
// QR code, opens a session, friends join with the OTP, orders accumulate
// into the session total, and staff bill and settle the table.
func TestGroupOrderingLifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)
	utils.InitLogger()
	utils.RegisterValidators()

	db := setupIntegrationDB(t)
	r := router.SetupRouter(db)

	// -- staff onboarding --
	w := request(r, "POST", "/register", "", map[string]interface{}{
		"restaurant_id": 1,
		"name":          "Dewi",
		"email":         "dewi@example.com",
		"password":      "supersecret1",
		"role":          "admin",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = request(r, "POST", "/login", "", map[string]interface{}{
		"email":    "dewi@example.com",
		"password": "supersecret1",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	token := dataOf(t, w)["token"].(string)

	w = request(r, "POST", "/admin/restaurants", token, map[string]interface{}{
		"name": "Warung Dewi",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = request(r, "POST", "/admin/tables", token, map[string]interface{}{
		"restaurant_id": 1,
		"table_number":  "T1",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = request(r, "POST", "/admin/categories", token, map[string]interface{}{
		"name": "Mains",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = request(r, "POST", "/admin/menus", token, map[string]interface{}{
		"restaurant_id": 1,
		"category_id":   1,
		"name":          "Nasi Goreng",
		"price":         1500,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	// -- diner opens a session --
	w = request(r, "GET", "/tables/1/scan", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, dataOf(t, w)["session"])

	w = request(r, "POST", "/tables/1/sessions", "", map[string]interface{}{
		"restaurant_id": 1,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	session := dataOf(t, w)
	sessionID := session["id"].(string)
	otp := session["otp"].(string)
	assert.Equal(t, "active", session["status"])
	assert.Equal(t, float64(0), session["total_amount"])

	// a second session on the same table conflicts
	w = request(r, "POST", "/tables/1/sessions", "", map[string]interface{}{
		"restaurant_id": 1,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// -- Alice joins with the OTP --
	w = request(r, "POST", "/sessions/join", "", map[string]interface{}{
		"table_id": 1, "otp": otp, "name": "Alice", "phone": "5550001",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	customerID := dataOf(t, w)["customer"].(map[string]interface{})["id"].(string)

	// -- Alice orders --
	w = request(r, "POST", "/orders", "", map[string]interface{}{
		"table_id":    1,
		"session_id":  sessionID,
		"customer_id": customerID,
		"items": []map[string]interface{}{
			{"menu_id": 1, "quantity": 1},
		},
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = request(r, "GET", fmt.Sprintf("/sessions/%s/bill", sessionID), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	bill := dataOf(t, w)
	assert.Equal(t, float64(1500), bill["total_amount"])
	breakdown := bill["breakdown"].([]interface{})
	assert.Len(t, breakdown, 1)

	// -- staff bill the table --
	w = request(r, "POST", fmt.Sprintf("/admin/sessions/%s/close", sessionID), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "billed", dataOf(t, w)["status"])

	w = request(r, "POST", fmt.Sprintf("/admin/sessions/%s/close", sessionID), token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// joining a billed session fails
	w = request(r, "POST", "/sessions/join", "", map[string]interface{}{
		"table_id": 1, "otp": otp, "name": "Tardy", "phone": "5550009",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// -- cash settlement --
	w = request(r, "POST", fmt.Sprintf("/admin/sessions/%s/settlement", sessionID), token, map[string]interface{}{
		"method": "cash",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	payment := dataOf(t, w)
	assert.Equal(t, float64(1500), payment["amount"])
	assert.Equal(t, "pending", payment["status"])
	paymentID := payment["id"].(float64)

	w = request(r, "POST", fmt.Sprintf("/admin/payments/%d/verify", int(paymentID)), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", dataOf(t, w)["status"])

	// -- clear the table --
	w = request(r, "DELETE", fmt.Sprintf("/admin/sessions/%s", sessionID), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = request(r, "GET", "/tables/1/session", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
