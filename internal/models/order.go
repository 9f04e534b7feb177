package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order status values
const (
	StatusPending   = "pending"
	StatusAccepted  = "accepted"
	StatusPreparing = "preparing"
	StatusReady     = "ready"
	StatusCompleted = "completed"
	StatusRejected  = "rejected"
)

// Order represents a customer order
type Order struct {
	ID           string      `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerName *string     `gorm:"size:100" json:"customer_name"`
	TableNumber  *string     `gorm:"size:20" json:"table_number"`
	OrderNotes   *string     `gorm:"size:1000" json:"order_notes"`
	Status       string      `gorm:"size:20;not null;default:'pending'" json:"status"`
	TotalPrice   float64     `gorm:"not null" json:"total_price"`
	CreatedAt    time.Time   `json:"created_at"`
	AcceptedAt   *time.Time  `json:"accepted_at"`
	CompletedAt  *time.Time  `json:"completed_at"`
	OrderItems   []OrderItem `gorm:"foreignKey:OrderID" json:"order_items"`
}

// TableName specifies the table name for Order
func (Order) TableName() string {
	return "orders"
}

// BeforeCreate assigns a UUID primary key when none is set
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// OrderItem is a single order line. PriceAtOrderTime is a frozen copy of the
// menu price when the order was placed and is never rewritten afterwards.
type OrderItem struct {
	ID               string    `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID          string    `gorm:"type:uuid;not null;index" json:"order_id"`
	MenuItemID       string    `gorm:"type:uuid;not null" json:"menu_item_id"`
	Quantity         int       `gorm:"not null" json:"quantity"`
	PriceAtOrderTime float64   `gorm:"not null" json:"price_at_order_time"`
	CreatedAt        time.Time `json:"created_at"`

	MenuItem *MenuItem `gorm:"foreignKey:MenuItemID" json:"menu_item,omitempty"`
}

// TableName specifies the table name for OrderItem
func (OrderItem) TableName() string {
	return "order_items"
}

// BeforeCreate assigns a UUID primary key when none is set
func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
