package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MenuCategory represents a menu section (e.g. Coffee, Pastry)
type MenuCategory struct {
	ID          string     `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string     `gorm:"size:200;not null" json:"name"`
	Description *string    `json:"description"`
	IsActive    bool       `gorm:"default:true" json:"is_active"`
	SortOrder   int        `gorm:"default:0" json:"sort_order"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Items       []MenuItem `gorm:"-" json:"items,omitempty"`
}

// TableName specifies the table name for MenuCategory
func (MenuCategory) TableName() string {
	return "menu_categories"
}

// BeforeCreate assigns a UUID primary key when none is set
func (c *MenuCategory) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// MenuItem represents a single orderable product
type MenuItem struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:200;not null" json:"name"`
	Description *string   `json:"description"`
	Price       float64   `gorm:"not null" json:"price"`
	ImageURL    *string   `gorm:"size:500" json:"image_url"`
	IsAvailable bool      `gorm:"default:true" json:"is_available"`
	SortOrder   int       `gorm:"default:0" json:"sort_order"`
	// Legacy single-category column, kept nullable; grouping goes through the
	// menu_item_categories junction table.
	CategoryID *string   `gorm:"type:uuid" json:"category_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	CategoryIDs []string `gorm:"-" json:"category_ids,omitempty"`
}

// TableName specifies the table name for MenuItem
func (MenuItem) TableName() string {
	return "menu_items"
}

// BeforeCreate assigns a UUID primary key when none is set
func (i *MenuItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// MenuItemCategory is the junction row linking items to categories.
// The composite primary key makes the pair unique.
type MenuItemCategory struct {
	MenuItemID string `gorm:"type:uuid;primaryKey" json:"menu_item_id"`
	CategoryID string `gorm:"type:uuid;primaryKey" json:"category_id"`
}

// TableName specifies the table name for MenuItemCategory
func (MenuItemCategory) TableName() string {
	return "menu_item_categories"
}
