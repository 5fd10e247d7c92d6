package Controllers_test

import (
	"encoding/json"
	"net/http"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dinesync/dinesync/controllers"
	"github.com/dinesync/dinesync/models"
	"github.com/dinesync/dinesync/utils"
)

func setupTestDBForTables(t *testing.T, name string) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(&models.Restaurant{}, &models.Table{}, &models.Session{})
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	restaurant := models.Restaurant{Name: "Testaurant"}
	db.Create(&restaurant)
	return db
}

func setupTableRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	tableCtrl := controllers.NewTableController(db)
	router.GET("/tables", tableCtrl.GetAllTables)
	router.POST("/tables", tableCtrl.CreateTable)
	router.PATCH("/tables/:table_id", tableCtrl.UpdateTableStatus)
	router.DELETE("/tables/:table_id", tableCtrl.DeleteTable)
	return router
}

func TestGetAllTables(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTables(t, "tbl_all")

	table1 := models.Table{RestaurantID: 1, TableNumber: "A1", Status: "available"}
	table2 := models.Table{RestaurantID: 1, TableNumber: "B1", Status: "occupied"}
	db.Create(&table1)
	db.Create(&table2)

	router := setupTableRouter(db)
	w := doJSON(router, "GET", "/tables", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "List of tables", response["message"])

	data := response["data"].([]interface{})
	assert.GreaterOrEqual(t, len(data), 2)
}

func TestCreateTable(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTables(t, "tbl_create")
	router := setupTableRouter(db)

	w := doJSON(router, "POST", "/tables", map[string]interface{}{
		"restaurant_id": 1,
		"table_number":  "C1",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "available", data["status"])
}

func TestUpdateTableStatus(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTables(t, "tbl_update")

	table := models.Table{RestaurantID: 1, TableNumber: "C1", Status: "available"}
	db.Create(&table)

	router := setupTableRouter(db)

	url := "/tables/" + strconv.Itoa(int(table.ID))
	w := doJSON(router, "PATCH", url, map[string]string{"status": "occupied"})
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "Table status updated", response["message"])
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "occupied", data["status"])
}

func TestDeleteTableWithActiveSessionRefused(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTables(t, "tbl_delete")

	table := models.Table{RestaurantID: 1, TableNumber: "D1", Status: "occupied"}
	db.Create(&table)
	db.Create(&models.Session{
		ID: utils.GenerateSessionID(), TableID: table.ID, RestaurantID: 1,
		OTP: "123456", Status: models.SessionActive,
	})

	router := setupTableRouter(db)

	url := "/tables/" + strconv.Itoa(int(table.ID))
	w := doJSON(router, "DELETE", url, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}
