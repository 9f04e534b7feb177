package services

import (
	"fmt"
	"time"

	"github.com/danuarta/cafe-order-api/internal/models"
	"github.com/danuarta/cafe-order-api/internal/validation"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// MaxOrderLines caps the number of distinct lines in a single order
const MaxOrderLines = 50

// CreateOrderRequest is the inbound payload for order creation. A client may
// send a price per line; it is deliberately ignored and prices always come
// from the stored menu.
type CreateOrderRequest struct {
	CustomerName string             `json:"customer_name"`
	TableNumber  string             `json:"table_number"`
	OrderNotes   string             `json:"order_notes"`
	Items        []OrderLineRequest `json:"items"`
}

// OrderLineRequest is a single requested order line
type OrderLineRequest struct {
	MenuItemID string  `json:"menu_item_id"`
	Quantity   float64 `json:"quantity"`
	Price      float64 `json:"price,omitempty"` // client-supplied, never trusted
}

// UpdateOrderRequest is the inbound payload for a status transition
type UpdateOrderRequest struct {
	Status       string `json:"status"`
	CustomerName string `json:"customer_name"`
	TableNumber  string `json:"table_number"`
}

// OrderService provides order creation, listing and lifecycle transitions
type OrderService interface {
	// CreateOrder validates the request, recomputes all prices from the
	// stored menu and persists the order with its lines in one transaction
	CreateOrder(req CreateOrderRequest) (*models.Order, error)
	// GetOrders lists orders newest first, optionally filtered by status
	GetOrders(status string) ([]models.Order, error)
	// GetOrderByID fetches a single order with its lines
	GetOrderByID(id string) (*models.Order, error)
	// UpdateOrderStatus applies a status transition with its timestamps
	UpdateOrderStatus(id string, req UpdateOrderRequest) (*models.Order, error)
	// RejectOrder flips the order to rejected without deleting the row
	RejectOrder(id string) (*models.Order, error)
}

type orderService struct {
	db *gorm.DB
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(db *gorm.DB) OrderService {
	return &orderService{db: db}
}

func (s *orderService) CreateOrder(req CreateOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: order items are required", ErrInvalidInput)
	}
	if len(req.Items) > MaxOrderLines {
		return nil, fmt.Errorf("%w: too many order items (max %d)", ErrInvalidInput, MaxOrderLines)
	}

	order := &models.Order{Status: models.StatusPending}

	if name, ok := validation.SanitizeString(req.CustomerName, 100); ok {
		order.CustomerName = &name
	}
	if table, ok := validation.ValidateTableNumber(req.TableNumber); ok {
		order.TableNumber = &table
	}
	if notes, ok := validation.SanitizeString(req.OrderNotes, 1000); ok {
		order.OrderNotes = &notes
	}

	type orderLine struct {
		menuItemID string
		quantity   int
	}
	itemIDs := make([]string, 0, len(req.Items))
	requested := make([]orderLine, 0, len(req.Items))
	for _, line := range req.Items {
		id, ok := validation.ValidateUUID(line.MenuItemID)
		if !ok {
			return nil, fmt.Errorf("%w: invalid menu item id %q", ErrInvalidInput, line.MenuItemID)
		}
		qty, ok := validation.ValidateQuantity(line.Quantity)
		if !ok {
			return nil, fmt.Errorf("%w: invalid quantity for item %s", ErrInvalidInput, id)
		}
		itemIDs = append(itemIDs, id)
		requested = append(requested, orderLine{menuItemID: id, quantity: qty})
	}

	// One batch lookup for every referenced item
	var menuItems []models.MenuItem
	if err := s.db.Where("id IN ?", itemIDs).Find(&menuItems).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]models.MenuItem, len(menuItems))
	for _, item := range menuItems {
		byID[item.ID] = item
	}

	// Prices come exclusively from the stored menu, never from the client
	var total float64
	lines := make([]models.OrderItem, 0, len(requested))
	for _, line := range requested {
		item, found := byID[line.menuItemID]
		if !found {
			return nil, fmt.Errorf("%w: %s", ErrMenuItemNotFound, line.menuItemID)
		}
		if !item.IsAvailable {
			return nil, fmt.Errorf("%w: %s", ErrItemUnavailable, item.Name)
		}
		total += item.Price * float64(line.quantity)
		lines = append(lines, models.OrderItem{
			MenuItemID:       line.menuItemID,
			Quantity:         line.quantity,
			PriceAtOrderTime: item.Price,
		})
	}
	order.TotalPrice = total

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		for i := range lines {
			lines[i].OrderID = order.ID
		}
		return tx.Create(&lines).Error
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"order_id":    order.ID,
		"total_price": order.TotalPrice,
		"lines":       len(lines),
	}).Info("Order created")

	return s.GetOrderByID(order.ID)
}

func (s *orderService) GetOrders(status string) ([]models.Order, error) {
	query := s.db.Preload("OrderItems").Preload("OrderItems.MenuItem").
		Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *orderService) GetOrderByID(id string) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("OrderItems").Preload("OrderItems.MenuItem").
		First(&order, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (s *orderService) UpdateOrderStatus(id string, req UpdateOrderRequest) (*models.Order, error) {
	status, ok := validation.ValidateOrderStatus(req.Status)
	if !ok {
		return nil, fmt.Errorf("%w: invalid status %q", ErrInvalidInput, req.Status)
	}

	var order models.Order
	if err := s.db.First(&order, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{"status": status}
	now := time.Now().UTC()

	if status == models.StatusAccepted {
		// Accepting requires a customer name and table number. The accepted
		// label is transient: the stored status goes straight to preparing
		// for the kitchen, stamping accepted_at.
		name, okName := validation.SanitizeString(req.CustomerName, 100)
		table, okTable := validation.ValidateTableNumber(req.TableNumber)
		if !okName || !okTable {
			return nil, fmt.Errorf("%w: accepting an order requires customer_name and table_number", ErrInvalidInput)
		}
		updates["status"] = models.StatusPreparing
		updates["customer_name"] = name
		updates["table_number"] = table
		updates["accepted_at"] = now
	}

	if status == models.StatusCompleted {
		updates["completed_at"] = now
	}

	if err := s.db.Model(&order).Updates(updates).Error; err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"order_id": id,
		"status":   updates["status"],
	}).Info("Order status updated")

	return s.GetOrderByID(id)
}

func (s *orderService) RejectOrder(id string) (*models.Order, error) {
	var order models.Order
	if err := s.db.First(&order, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	// Soft delete: the row stays queryable with status=rejected
	if err := s.db.Model(&order).Update("status", models.StatusRejected).Error; err != nil {
		return nil, err
	}

	log.WithField("order_id", id).Info("Order rejected")
	return s.GetOrderByID(id)
}
