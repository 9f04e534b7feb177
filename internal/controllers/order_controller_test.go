package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danuarta/cafe-order-api/internal/database"
	"github.com/danuarta/cafe-order-api/internal/models"
	"github.com/danuarta/cafe-order-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupOrderRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	gin.SetMode(gin.TestMode)
	router := gin.New()

	controller := NewOrderController(services.NewOrderService(db))
	router.GET("/api/orders", controller.GetOrders)
	router.POST("/api/orders", controller.CreateOrder)
	router.PATCH("/api/orders/:id", controller.UpdateOrder)
	router.DELETE("/api/orders/:id", controller.RejectOrder)

	return router, db
}

func seedItem(t *testing.T, db *gorm.DB, name string, price float64, available bool) models.MenuItem {
	item := models.MenuItem{Name: name, Price: price, IsAvailable: available}
	require.NoError(t, db.Create(&item).Error)
	return item
}

func postJSON(router *gin.Engine, method, path string, payload interface{}) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if payload != nil {
		json.NewEncoder(&body).Encode(payload)
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) models.APIResponse {
	var envelope models.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope
}

func TestCreateOrderEndpointIgnoresClientPrices(t *testing.T) {
	router, db := setupOrderRouter(t)
	kopi := seedItem(t, db, "Es Kopi Susu", 20000, true)
	roti := seedItem(t, db, "Roti Bakar", 15000, true)

	body := map[string]interface{}{
		"customer_name": "Budi",
		"items": []map[string]interface{}{
			{"menu_item_id": kopi.ID, "quantity": 2, "price": 100},
			{"menu_item_id": roti.ID, "quantity": 1, "price": 100},
		},
	}
	w := postJSON(router, http.MethodPost, "/api/orders", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	envelope := decodeEnvelope(t, w)
	assert.True(t, envelope.Success)

	var order models.Order
	raw, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &order))
	assert.Equal(t, float64(55000), order.TotalPrice)
	assert.Equal(t, models.StatusPending, order.Status)
}

func TestCreateOrderEndpointRejectsUnavailableItem(t *testing.T) {
	router, db := setupOrderRouter(t)
	soldOut := seedItem(t, db, "Croissant", 18000, false)

	w := postJSON(router, http.MethodPost, "/api/orders", map[string]interface{}{
		"items": []map[string]interface{}{{"menu_item_id": soldOut.ID, "quantity": 1}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	envelope := decodeEnvelope(t, w)
	assert.False(t, envelope.Success)
	assert.NotEmpty(t, envelope.Error)
}

func TestCreateOrderEndpointRejectsEmptyItems(t *testing.T) {
	router, _ := setupOrderRouter(t)

	w := postJSON(router, http.MethodPost, "/api/orders", map[string]interface{}{
		"items": []map[string]interface{}{},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateOrderEndpointMissingItem(t *testing.T) {
	router, _ := setupOrderRouter(t)

	w := postJSON(router, http.MethodPost, "/api/orders", map[string]interface{}{
		"items": []map[string]interface{}{
			{"menu_item_id": "9b2f8a3e-1c4d-4f6a-8b2e-3d5c7e9f1a2b", "quantity": 1},
		},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPatchMissingOrderReturns404(t *testing.T) {
	router, _ := setupOrderRouter(t)

	w := postJSON(router, http.MethodPatch,
		"/api/orders/9b2f8a3e-1c4d-4f6a-8b2e-3d5c7e9f1a2b",
		map[string]interface{}{"status": "preparing"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	envelope := decodeEnvelope(t, w)
	assert.False(t, envelope.Success)
}

func TestPatchOrderMalformedID(t *testing.T) {
	router, _ := setupOrderRouter(t)

	w := postJSON(router, http.MethodPatch, "/api/orders/not-a-uuid",
		map[string]interface{}{"status": "preparing"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPatchOrderRequiresStatus(t *testing.T) {
	router, db := setupOrderRouter(t)
	kopi := seedItem(t, db, "Espresso", 18000, true)

	created := postJSON(router, http.MethodPost, "/api/orders", map[string]interface{}{
		"items": []map[string]interface{}{{"menu_item_id": kopi.ID, "quantity": 1}},
	})
	require.Equal(t, http.StatusOK, created.Code)

	var order models.Order
	raw, err := json.Marshal(decodeEnvelope(t, created).Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &order))

	w := postJSON(router, http.MethodPatch, "/api/orders/"+order.ID, map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAcceptFlowOverHTTP(t *testing.T) {
	router, db := setupOrderRouter(t)
	kopi := seedItem(t, db, "Espresso", 18000, true)

	created := postJSON(router, http.MethodPost, "/api/orders", map[string]interface{}{
		"items": []map[string]interface{}{{"menu_item_id": kopi.ID, "quantity": 1}},
	})
	require.Equal(t, http.StatusOK, created.Code)

	var order models.Order
	raw, err := json.Marshal(decodeEnvelope(t, created).Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &order))

	w := postJSON(router, http.MethodPatch, "/api/orders/"+order.ID, map[string]interface{}{
		"status":        "accepted",
		"customer_name": "Sari",
		"table_number":  "A3",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated models.Order
	raw, err = json.Marshal(decodeEnvelope(t, w).Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &updated))
	assert.Equal(t, models.StatusPreparing, updated.Status)
	assert.NotNil(t, updated.AcceptedAt)
}

func TestRejectOrderOverHTTP(t *testing.T) {
	router, db := setupOrderRouter(t)
	kopi := seedItem(t, db, "Espresso", 18000, true)

	created := postJSON(router, http.MethodPost, "/api/orders", map[string]interface{}{
		"items": []map[string]interface{}{{"menu_item_id": kopi.ID, "quantity": 1}},
	})
	require.Equal(t, http.StatusOK, created.Code)

	var order models.Order
	raw, err := json.Marshal(decodeEnvelope(t, created).Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &order))

	w := postJSON(router, http.MethodDelete, "/api/orders/"+order.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Row survives and is filterable by the rejected status
	list := postJSON(router, http.MethodGet, fmt.Sprintf("/api/orders?status=%s", models.StatusRejected), nil)
	require.Equal(t, http.StatusOK, list.Code)

	var orders []models.Order
	raw, err = json.Marshal(decodeEnvelope(t, list).Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)
}

func TestGetOrdersInvalidStatusFilter(t *testing.T) {
	router, _ := setupOrderRouter(t)

	w := postJSON(router, http.MethodGet, "/api/orders?status=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
