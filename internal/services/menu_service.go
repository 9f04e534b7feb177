package services

import (
	"fmt"

	"github.com/danuarta/cafe-order-api/internal/models"
	"github.com/danuarta/cafe-order-api/internal/validation"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Menu is the public menu payload: active categories with their items
// resolved through the junction table, plus a flat list of every item.
type Menu struct {
	Categories []models.MenuCategory `json:"categories"`
	AllItems   []models.MenuItem     `json:"allItems"`
}

// CategoryRequest carries category fields for create and partial update.
// Nil pointers mean "field not supplied".
type CategoryRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	IsActive    *bool    `json:"is_active"`
	SortOrder   *float64 `json:"sort_order"`
}

// MenuItemRequest carries menu item fields for create and partial update.
// Nil pointers mean "field not supplied".
type MenuItemRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Price       *float64  `json:"price"`
	ImageURL    *string   `json:"image_url"`
	IsAvailable *bool     `json:"is_available"`
	SortOrder   *float64  `json:"sort_order"`
	CategoryIDs *[]string `json:"category_ids"`
}

// MenuService provides the public menu view and the admin CRUD surface for
// categories, items and their associations
type MenuService interface {
	// GetMenu returns active categories with nested items plus all items
	GetMenu() (*Menu, error)

	// ListCategories returns every category, inactive included
	ListCategories() ([]models.MenuCategory, error)
	// CreateCategory validates and inserts a new category
	CreateCategory(req CategoryRequest) (*models.MenuCategory, error)
	// UpdateCategory applies a partial update; only supplied fields are written
	UpdateCategory(id string, req CategoryRequest) (*models.MenuCategory, error)
	// DeleteCategory removes a category and cascades its junction rows
	DeleteCategory(id string) error

	// ListMenuItems returns every item, unavailable included, with category ids
	ListMenuItems() ([]models.MenuItem, error)
	// CreateMenuItem validates and inserts a new item with optional associations
	CreateMenuItem(req MenuItemRequest) (*models.MenuItem, error)
	// UpdateMenuItem applies a partial update; a supplied category_ids list
	// replaces all associations atomically after every id is verified
	UpdateMenuItem(id string, req MenuItemRequest) (*models.MenuItem, error)
	// DeleteMenuItem removes an item and cascades its junction rows
	DeleteMenuItem(id string) error

	// GetItemCategories lists the category ids associated with an item
	GetItemCategories(itemID string) ([]string, error)
	// AddItemCategory links an item to a category; duplicates are ignored
	AddItemCategory(itemID, categoryID string) error
	// RemoveItemCategory unlinks an item from a category
	RemoveItemCategory(itemID, categoryID string) error
}

type menuService struct {
	db *gorm.DB
}

// NewMenuService creates a new instance of MenuService
func NewMenuService(db *gorm.DB) MenuService {
	return &menuService{db: db}
}

func (s *menuService) GetMenu() (*Menu, error) {
	var categories []models.MenuCategory
	if err := s.db.Where("is_active = ?", true).Order("sort_order ASC").Find(&categories).Error; err != nil {
		return nil, err
	}

	// Unavailable items are included so clients can show them as sold out
	var items []models.MenuItem
	if err := s.db.Order("sort_order ASC").Find(&items).Error; err != nil {
		return nil, err
	}

	itemIDs := make([]string, len(items))
	for i, item := range items {
		itemIDs[i] = item.ID
	}

	var junctions []models.MenuItemCategory
	if len(itemIDs) > 0 {
		if err := s.db.Where("menu_item_id IN ?", itemIDs).Find(&junctions).Error; err != nil {
			return nil, err
		}
	}

	categoryIDsByItem := make(map[string][]string, len(items))
	for _, j := range junctions {
		categoryIDsByItem[j.MenuItemID] = append(categoryIDsByItem[j.MenuItemID], j.CategoryID)
	}
	for i := range items {
		ids := categoryIDsByItem[items[i].ID]
		if ids == nil {
			ids = []string{}
		}
		items[i].CategoryIDs = ids
	}

	for i := range categories {
		grouped := []models.MenuItem{}
		for _, item := range items {
			for _, catID := range item.CategoryIDs {
				if catID == categories[i].ID {
					grouped = append(grouped, item)
					break
				}
			}
		}
		categories[i].Items = grouped
	}

	return &Menu{Categories: categories, AllItems: items}, nil
}

func (s *menuService) ListCategories() ([]models.MenuCategory, error) {
	var categories []models.MenuCategory
	if err := s.db.Order("sort_order ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *menuService) CreateCategory(req CategoryRequest) (*models.MenuCategory, error) {
	if req.Name == nil {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	name, ok := validation.ValidateName(*req.Name)
	if !ok {
		return nil, fmt.Errorf("%w: invalid name", ErrInvalidInput)
	}

	category := models.MenuCategory{
		Name:     name,
		IsActive: true,
	}
	if req.Description != nil {
		if desc, ok := validation.ValidateDescription(*req.Description); ok {
			category.Description = &desc
		}
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}
	if req.SortOrder != nil {
		category.SortOrder = validation.ValidateSortOrder(*req.SortOrder)
	}

	if err := s.db.Create(&category).Error; err != nil {
		return nil, err
	}
	log.WithField("category_id", category.ID).Info("Category created")
	return &category, nil
}

func (s *menuService) UpdateCategory(id string, req CategoryRequest) (*models.MenuCategory, error) {
	var category models.MenuCategory
	if err := s.db.First(&category, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		name, ok := validation.ValidateName(*req.Name)
		if !ok {
			return nil, fmt.Errorf("%w: invalid name", ErrInvalidInput)
		}
		updates["name"] = name
	}
	if req.Description != nil {
		if desc, ok := validation.ValidateDescription(*req.Description); ok {
			updates["description"] = desc
		} else {
			updates["description"] = nil
		}
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.SortOrder != nil {
		updates["sort_order"] = validation.ValidateSortOrder(*req.SortOrder)
	}

	if len(updates) > 0 {
		if err := s.db.Model(&category).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return &category, nil
}

func (s *menuService) DeleteCategory(id string) error {
	var category models.MenuCategory
	if err := s.db.First(&category, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrCategoryNotFound
		}
		return err
	}

	// Junction rows cascade; item rows survive unassociated
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", id).Delete(&models.MenuItemCategory{}).Error; err != nil {
			return err
		}
		return tx.Delete(&category).Error
	})
	if err != nil {
		return err
	}
	log.WithField("category_id", id).Info("Category deleted")
	return nil
}

func (s *menuService) ListMenuItems() ([]models.MenuItem, error) {
	var items []models.MenuItem
	if err := s.db.Order("sort_order ASC").Find(&items).Error; err != nil {
		return nil, err
	}

	var junctions []models.MenuItemCategory
	if err := s.db.Find(&junctions).Error; err != nil {
		return nil, err
	}
	categoryIDsByItem := make(map[string][]string, len(items))
	for _, j := range junctions {
		categoryIDsByItem[j.MenuItemID] = append(categoryIDsByItem[j.MenuItemID], j.CategoryID)
	}
	for i := range items {
		ids := categoryIDsByItem[items[i].ID]
		if ids == nil {
			ids = []string{}
		}
		items[i].CategoryIDs = ids
	}
	return items, nil
}

func (s *menuService) CreateMenuItem(req MenuItemRequest) (*models.MenuItem, error) {
	if req.Name == nil || req.Price == nil {
		return nil, fmt.Errorf("%w: name and price are required", ErrInvalidInput)
	}
	name, ok := validation.ValidateName(*req.Name)
	if !ok {
		return nil, fmt.Errorf("%w: invalid name", ErrInvalidInput)
	}
	price, ok := validation.ValidatePrice(*req.Price)
	if !ok {
		return nil, fmt.Errorf("%w: invalid price", ErrInvalidInput)
	}

	item := models.MenuItem{
		Name:        name,
		Price:       price,
		IsAvailable: true,
	}
	if req.Description != nil {
		if desc, ok := validation.ValidateDescription(*req.Description); ok {
			item.Description = &desc
		}
	}
	if req.ImageURL != nil {
		if url, ok := validation.ValidateImageURL(*req.ImageURL); ok {
			item.ImageURL = &url
		}
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}
	if req.SortOrder != nil {
		item.SortOrder = validation.ValidateSortOrder(*req.SortOrder)
	}

	var categoryIDs []string
	if req.CategoryIDs != nil {
		validated, ok := validation.ValidateUUIDArray(*req.CategoryIDs, validation.MaxUUIDArray)
		if !ok {
			return nil, fmt.Errorf("%w: invalid category_ids", ErrInvalidInput)
		}
		if err := s.verifyCategoriesExist(validated); err != nil {
			return nil, err
		}
		categoryIDs = validated
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		return replaceItemCategories(tx, item.ID, categoryIDs)
	})
	if err != nil {
		return nil, err
	}

	if categoryIDs == nil {
		categoryIDs = []string{}
	}
	item.CategoryIDs = categoryIDs
	log.WithField("menu_item_id", item.ID).Info("Menu item created")
	return &item, nil
}

func (s *menuService) UpdateMenuItem(id string, req MenuItemRequest) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := s.db.First(&item, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrMenuItemNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		name, ok := validation.ValidateName(*req.Name)
		if !ok {
			return nil, fmt.Errorf("%w: invalid name", ErrInvalidInput)
		}
		updates["name"] = name
	}
	if req.Description != nil {
		if desc, ok := validation.ValidateDescription(*req.Description); ok {
			updates["description"] = desc
		} else {
			updates["description"] = nil
		}
	}
	if req.Price != nil {
		price, ok := validation.ValidatePrice(*req.Price)
		if !ok {
			return nil, fmt.Errorf("%w: invalid price", ErrInvalidInput)
		}
		updates["price"] = price
	}
	if req.ImageURL != nil {
		if url, ok := validation.ValidateImageURL(*req.ImageURL); ok {
			updates["image_url"] = url
		} else {
			updates["image_url"] = nil
		}
	}
	if req.IsAvailable != nil {
		updates["is_available"] = *req.IsAvailable
	}
	if req.SortOrder != nil {
		updates["sort_order"] = validation.ValidateSortOrder(*req.SortOrder)
	}

	// Every referenced category is verified before any row is touched, so an
	// invalid set aborts with no mutation at all
	var newCategoryIDs []string
	replaceCategories := false
	if req.CategoryIDs != nil {
		validated, ok := validation.ValidateUUIDArray(*req.CategoryIDs, validation.MaxUUIDArray)
		if !ok {
			return nil, fmt.Errorf("%w: invalid category_ids", ErrInvalidInput)
		}
		if err := s.verifyCategoriesExist(validated); err != nil {
			return nil, err
		}
		newCategoryIDs = validated
		replaceCategories = true
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&item).Updates(updates).Error; err != nil {
				return err
			}
		}
		if replaceCategories {
			if err := tx.Where("menu_item_id = ?", id).Delete(&models.MenuItemCategory{}).Error; err != nil {
				return err
			}
			return replaceItemCategories(tx, id, newCategoryIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	categoryIDs, err := s.GetItemCategories(id)
	if err != nil {
		return nil, err
	}
	item.CategoryIDs = categoryIDs
	return &item, nil
}

func (s *menuService) DeleteMenuItem(id string) error {
	var item models.MenuItem
	if err := s.db.First(&item, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrMenuItemNotFound
		}
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("menu_item_id = ?", id).Delete(&models.MenuItemCategory{}).Error; err != nil {
			return err
		}
		return tx.Delete(&item).Error
	})
	if err != nil {
		return err
	}
	log.WithField("menu_item_id", id).Info("Menu item deleted")
	return nil
}

func (s *menuService) GetItemCategories(itemID string) ([]string, error) {
	var junctions []models.MenuItemCategory
	if err := s.db.Where("menu_item_id = ?", itemID).Find(&junctions).Error; err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(junctions))
	for _, j := range junctions {
		ids = append(ids, j.CategoryID)
	}
	return ids, nil
}

func (s *menuService) AddItemCategory(itemID, categoryID string) error {
	var item models.MenuItem
	if err := s.db.First(&item, "id = ?", itemID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrMenuItemNotFound
		}
		return err
	}
	if err := s.verifyCategoriesExist([]string{categoryID}); err != nil {
		return err
	}

	// Duplicate pairs are ignored, insert stays idempotent
	junction := models.MenuItemCategory{MenuItemID: itemID, CategoryID: categoryID}
	return s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&junction).Error
}

func (s *menuService) RemoveItemCategory(itemID, categoryID string) error {
	return s.db.Where("menu_item_id = ? AND category_id = ?", itemID, categoryID).
		Delete(&models.MenuItemCategory{}).Error
}

// verifyCategoriesExist fails with ErrCategoryNotFound unless every id
// references an existing category row
func (s *menuService) verifyCategoriesExist(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	var count int64
	if err := s.db.Model(&models.MenuCategory{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(ids)) {
		return fmt.Errorf("%w: one or more category ids do not exist", ErrCategoryNotFound)
	}
	return nil
}

// replaceItemCategories inserts junction rows for the given category ids
func replaceItemCategories(tx *gorm.DB, itemID string, categoryIDs []string) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	junctions := make([]models.MenuItemCategory, len(categoryIDs))
	for i, catID := range categoryIDs {
		junctions[i] = models.MenuItemCategory{MenuItemID: itemID, CategoryID: catID}
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&junctions).Error
}
