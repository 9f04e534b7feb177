package services

import (
	"testing"

	"github.com/danuarta/cafe-order-api/internal/database"
	"github.com/danuarta/cafe-order-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = database.Migrate(db)
	require.NoError(t, err)

	return db
}

func createTestItem(t *testing.T, db *gorm.DB, name string, price float64, available bool) models.MenuItem {
	item := models.MenuItem{Name: name, Price: price, IsAvailable: available}
	require.NoError(t, db.Create(&item).Error)
	return item
}

func TestCreateOrderComputesTotalFromServerPrices(t *testing.T) {
	db := setupTestDB(t)
	service := NewOrderService(db)

	kopi := createTestItem(t, db, "Es Kopi Susu", 20000, true)
	roti := createTestItem(t, db, "Roti Bakar", 15000, true)

	// Client-submitted prices are lowballed; they must be ignored
	order, err := service.CreateOrder(CreateOrderRequest{
		CustomerName: "Budi",
		TableNumber:  "7",
		Items: []OrderLineRequest{
			{MenuItemID: kopi.ID, Quantity: 2, Price: 1},
			{MenuItemID: roti.ID, Quantity: 1, Price: 1},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, float64(55000), order.TotalPrice)
	assert.Equal(t, models.StatusPending, order.Status)
	require.Len(t, order.OrderItems, 2)
	for _, line := range order.OrderItems {
		switch line.MenuItemID {
		case kopi.ID:
			assert.Equal(t, float64(20000), line.PriceAtOrderTime)
			assert.Equal(t, 2, line.Quantity)
		case roti.ID:
			assert.Equal(t, float64(15000), line.PriceAtOrderTime)
			assert.Equal(t, 1, line.Quantity)
		default:
			t.Fatalf("unexpected line for item %s", line.MenuItemID)
		}
	}
}

func TestCreateOrderPriceSnapshotSurvivesMenuChange(t *testing.T) {
	db := setupTestDB(t)
	service := NewOrderService(db)

	kopi := createTestItem(t, db, "Cafe Latte", 25000, true)
	order, err := service.CreateOrder(CreateOrderRequest{
		Items: []OrderLineRequest{{MenuItemID: kopi.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	// Menu price changes after the order; the frozen copy must not move
	require.NoError(t, db.Model(&models.MenuItem{}).Where("id = ?", kopi.ID).Update("price", 99000).Error)

	reloaded, err := service.GetOrderByID(order.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.OrderItems, 1)
	assert.Equal(t, float64(25000), reloaded.OrderItems[0].PriceAtOrderTime)
	assert.Equal(t, float64(25000), reloaded.TotalPrice)
}

func TestCreateOrderRejectsUnavailableItem(t *testing.T) {
	db := setupTestDB(t)
	service := NewOrderService(db)

	soldOut := createTestItem(t, db, "Pisang Goreng", 12000, false)

	_, err := service.CreateOrder(CreateOrderRequest{
		Items: []OrderLineRequest{{MenuItemID: soldOut.ID, Quantity: 1}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrItemUnavailable)
}

func TestCreateOrderRejectsMissingItem(t *testing.T) {
	db := setupTestDB(t)
	service := NewOrderService(db)

	_, err := service.CreateOrder(CreateOrderRequest{
		Items: []OrderLineRequest{{MenuItemID: "9b2f8a3e-1c4d-4f6a-8b2e-3d5c7e9f1a2b", Quantity: 1}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMenuItemNotFound)
}

func TestCreateOrderQuantityBounds(t *testing.T) {
	db := setupTestDB(t)
	service := NewOrderService(db)
	kopi := createTestItem(t, db, "Espresso", 18000, true)

	for _, quantity := range []float64{0, -1, 1001, 2.5} {
		_, err := service.CreateOrder(CreateOrderRequest{
			Items: []OrderLineRequest{{MenuItemID: kopi.ID, Quantity: quantity}},
		})
		assert.ErrorIs(t, err, ErrInvalidInput, "quantity %v should be rejected", quantity)
	}

	order, err := service.CreateOrder(CreateOrderRequest{
		Items: []OrderLineRequest{{MenuItemID: kopi.ID, Quantity: 1000}},
	})
	require.NoError(t, err)
	assert.Equal(t, float64(18000*1000), order.TotalPrice)
}

func TestCreateOrderItemListBounds(t *testing.T) {
	db := setupTestDB(t)
	service := NewOrderService(db)
	kopi := createTestItem(t, db, "Espresso", 18000, true)

	_, err := service.CreateOrder(CreateOrderRequest{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	lines := make([]OrderLineRequest, MaxOrderLines+1)
	for i := range lines {
		lines[i] = OrderLineRequest{MenuItemID: kopi.ID, Quantity: 1}
	}
	_, err = service.CreateOrder(CreateOrderRequest{Items: lines})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateOrderSanitizesCustomerFields(t *testing.T) {
	db := setupTestDB(t)
	service := NewOrderService(db)
	kopi := createTestItem(t, db, "Espresso", 18000, true)

	order, err := service.CreateOrder(CreateOrderRequest{
		CustomerName: "  <b>Budi</b>  ",
		TableNumber:  "not a table!",
		OrderNotes:   "javascript:alert(1) tanpa gula",
		Items:        []OrderLineRequest{{MenuItemID: kopi.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	require.NotNil(t, order.CustomerName)
	assert.Equal(t, "bBudi/b", *order.CustomerName)
	// Invalid table number is dropped, not an error, on creation
	assert.Nil(t, order.TableNumber)
	require.NotNil(t, order.OrderNotes)
	assert.Equal(t, "alert(1) tanpa gula", *order.OrderNotes)
}

func TestAcceptLandsOnPreparing(t *testing.T) {
	db := setupTestDB(t)
	service := NewOrderService(db)
	kopi := createTestItem(t, db, "Espresso", 18000, true)

	order, err := service.CreateOrder(CreateOrderRequest{
		Items: []OrderLineRequest{{MenuItemID: kopi.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	updated, err := service.UpdateOrderStatus(order.ID, UpdateOrderRequest{
		Status:       models.StatusAccepted,
		CustomerName: "Sari",
		TableNumber:  "A3",
	})
	require.NoError(t, err)

	// The accepted label is transient; the stored status must be preparing
	assert.Equal(t, models.StatusPreparing, updated.Status)
	require.NotNil(t, updated.AcceptedAt)
	require.NotNil(t, updated.CustomerName)
	assert.Equal(t, "Sari", *updated.CustomerName)
	require.NotNil(t, updated.TableNumber)
	assert.Equal(t, "A3", *updated.TableNumber)
}

func TestAcceptRequiresCustomerNameAndTable(t *testing.T) {
	db := setupTestDB(t)
	service := NewOrderService(db)
	kopi := createTestItem(t, db, "Espresso", 18000, true)

	order, err := service.CreateOrder(CreateOrderRequest{
		Items: []OrderLineRequest{{MenuItemID: kopi.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = service.UpdateOrderStatus(order.ID, UpdateOrderRequest{Status: models.StatusAccepted})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = service.UpdateOrderStatus(order.ID, UpdateOrderRequest{
		Status:       models.StatusAccepted,
		CustomerName: "Sari",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCompleteStampsCompletedAt(t *testing.T) {
	db := setupTestDB(t)
	service := NewOrderService(db)
	kopi := createTestItem(t, db, "Espresso", 18000, true)

	order, err := service.CreateOrder(CreateOrderRequest{
		Items: []OrderLineRequest{{MenuItemID: kopi.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	updated, err := service.UpdateOrderStatus(order.ID, UpdateOrderRequest{Status: models.StatusCompleted})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, updated.Status)
	require.NotNil(t, updated.CompletedAt)
}

func TestUpdateStatusInvalidValue(t *testing.T) {
	db := setupTestDB(t)
	service := NewOrderService(db)
	kopi := createTestItem(t, db, "Espresso", 18000, true)

	order, err := service.CreateOrder(CreateOrderRequest{
		Items: []OrderLineRequest{{MenuItemID: kopi.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = service.UpdateOrderStatus(order.ID, UpdateOrderRequest{Status: "done"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateStatusMissingOrder(t *testing.T) {
	db := setupTestDB(t)
	service := NewOrderService(db)

	_, err := service.UpdateOrderStatus("9b2f8a3e-1c4d-4f6a-8b2e-3d5c7e9f1a2b",
		UpdateOrderRequest{Status: models.StatusPreparing})
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestRejectKeepsRowQueryable(t *testing.T) {
	db := setupTestDB(t)
	service := NewOrderService(db)
	kopi := createTestItem(t, db, "Espresso", 18000, true)

	order, err := service.CreateOrder(CreateOrderRequest{
		Items: []OrderLineRequest{{MenuItemID: kopi.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	rejected, err := service.RejectOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, rejected.Status)

	// The row has to survive the rejection
	var count int64
	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", order.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	listed, err := service.GetOrders(models.StatusRejected)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, order.ID, listed[0].ID)
}

func TestGetOrdersNewestFirstWithFilter(t *testing.T) {
	db := setupTestDB(t)
	service := NewOrderService(db)
	kopi := createTestItem(t, db, "Espresso", 18000, true)

	first, err := service.CreateOrder(CreateOrderRequest{
		Items: []OrderLineRequest{{MenuItemID: kopi.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	second, err := service.CreateOrder(CreateOrderRequest{
		Items: []OrderLineRequest{{MenuItemID: kopi.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	_, err = service.RejectOrder(first.ID)
	require.NoError(t, err)

	pending, err := service.GetOrders(models.StatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second.ID, pending[0].ID)

	all, err := service.GetOrders("")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
