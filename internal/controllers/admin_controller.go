package controllers

import (
	"crypto/subtle"
	"net/http"

	"github.com/danuarta/cafe-order-api/internal/auth"
	"github.com/danuarta/cafe-order-api/internal/models"
	"github.com/danuarta/cafe-order-api/internal/services"
	"github.com/danuarta/cafe-order-api/internal/validation"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// AdminController handles the admin surface: category and menu item CRUD,
// item-category associations and session login
type AdminController interface {
	Login(c *gin.Context)

	ListCategories(c *gin.Context)
	CreateCategory(c *gin.Context)
	UpdateCategory(c *gin.Context)
	DeleteCategory(c *gin.Context)

	ListMenuItems(c *gin.Context)
	CreateMenuItem(c *gin.Context)
	UpdateMenuItem(c *gin.Context)
	DeleteMenuItem(c *gin.Context)

	GetItemCategories(c *gin.Context)
	AddItemCategory(c *gin.Context)
	RemoveItemCategory(c *gin.Context)
}

type adminController struct {
	service      services.MenuService
	issuer       *auth.TokenIssuer
	password     string
	passwordHash string
}

// NewAdminController creates a new instance of AdminController
func NewAdminController(service services.MenuService, issuer *auth.TokenIssuer, password, passwordHash string) *adminController {
	return &adminController{
		service:      service,
		issuer:       issuer,
		password:     password,
		passwordHash: passwordHash,
	}
}

type loginRequest struct {
	Password string `json:"password"`
}

// Login godoc
// @Summary Admin login
// @Description Exchange the shared admin password for a short-lived session token
// @Tags admin
// @Accept json
// @Produce json
// @Param credentials body loginRequest true "Admin password"
// @Success 200 {object} models.APIResponse
// @Failure 401 {object} models.APIResponse
// @Router /api/admin/login [post]
func (c *adminController) Login(ctx *gin.Context) {
	var req loginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || req.Password == "" {
		ctx.JSON(http.StatusUnauthorized, models.ErrorResponse("Invalid admin credentials"))
		return
	}

	if !c.passwordMatches(req.Password) {
		ctx.JSON(http.StatusUnauthorized, models.ErrorResponse("Invalid admin credentials"))
		return
	}

	token, err := c.issuer.IssueAdminToken()
	if err != nil {
		log.WithError(err).Error("Failed to issue admin token")
		ctx.JSON(http.StatusInternalServerError, models.ErrorResponse("Failed to issue token"))
		return
	}
	ctx.JSON(http.StatusOK, models.SuccessResponse(gin.H{
		"token":      token,
		"token_type": "Bearer",
		"expires_in": int(auth.DefaultTokenTTL.Seconds()),
	}))
}

func (c *adminController) passwordMatches(password string) bool {
	if c.passwordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(c.passwordHash), []byte(password)) == nil
	}
	if c.password == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(c.password), []byte(password)) == 1
}

// ListCategories godoc
// @Summary List categories
// @Description List every category, inactive included
// @Tags admin
// @Produce json
// @Success 200 {object} models.APIResponse
// @Failure 500 {object} models.APIResponse
// @Router /api/admin/categories [get]
func (c *adminController) ListCategories(ctx *gin.Context) {
	categories, err := c.service.ListCategories()
	if err != nil {
		respondServiceError(ctx, err, "Failed to fetch categories")
		return
	}
	ctx.JSON(http.StatusOK, models.SuccessResponse(categories))
}

// CreateCategory godoc
// @Summary Create a category
// @Tags admin
// @Accept json
// @Produce json
// @Param category body services.CategoryRequest true "Category payload"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Failure 401 {object} models.APIResponse
// @Security BearerAuth
// @Router /api/admin/categories [post]
func (c *adminController) CreateCategory(ctx *gin.Context) {
	var req services.CategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, models.ErrorResponse("Invalid request body"))
		return
	}

	category, err := c.service.CreateCategory(req)
	if err != nil {
		respondServiceError(ctx, err, "Failed to create category")
		return
	}
	ctx.JSON(http.StatusOK, models.SuccessResponse(category))
}

// UpdateCategory godoc
// @Summary Update a category
// @Description Partial update; only supplied fields are validated and written
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Category ID"
// @Param category body services.CategoryRequest true "Fields to update"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Failure 401 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Security BearerAuth
// @Router /api/admin/categories/{id} [patch]
func (c *adminController) UpdateCategory(ctx *gin.Context) {
	id, ok := validateIDParam(ctx)
	if !ok {
		return
	}

	var req services.CategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, models.ErrorResponse("Invalid request body"))
		return
	}

	category, err := c.service.UpdateCategory(id, req)
	if err != nil {
		respondServiceError(ctx, err, "Failed to update category")
		return
	}
	ctx.JSON(http.StatusOK, models.SuccessResponse(category))
}

// DeleteCategory godoc
// @Summary Delete a category
// @Description Deletes the category and cascades its item associations; items survive unassociated
// @Tags admin
// @Produce json
// @Param id path string true "Category ID"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Failure 401 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Security BearerAuth
// @Router /api/admin/categories/{id} [delete]
func (c *adminController) DeleteCategory(ctx *gin.Context) {
	id, ok := validateIDParam(ctx)
	if !ok {
		return
	}

	if err := c.service.DeleteCategory(id); err != nil {
		respondServiceError(ctx, err, "Failed to delete category")
		return
	}
	ctx.JSON(http.StatusOK, models.SuccessMessageResponse(nil, "Category deleted successfully"))
}

// ListMenuItems godoc
// @Summary List menu items
// @Description List every item, unavailable included, with category associations
// @Tags admin
// @Produce json
// @Success 200 {object} models.APIResponse
// @Failure 500 {object} models.APIResponse
// @Router /api/admin/menu-items [get]
func (c *adminController) ListMenuItems(ctx *gin.Context) {
	items, err := c.service.ListMenuItems()
	if err != nil {
		respondServiceError(ctx, err, "Failed to fetch menu items")
		return
	}
	ctx.JSON(http.StatusOK, models.SuccessResponse(items))
}

// CreateMenuItem godoc
// @Summary Create a menu item
// @Tags admin
// @Accept json
// @Produce json
// @Param item body services.MenuItemRequest true "Menu item payload"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Failure 401 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Security BearerAuth
// @Router /api/admin/menu-items [post]
func (c *adminController) CreateMenuItem(ctx *gin.Context) {
	var req services.MenuItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, models.ErrorResponse("Invalid request body"))
		return
	}

	item, err := c.service.CreateMenuItem(req)
	if err != nil {
		respondServiceError(ctx, err, "Failed to create menu item")
		return
	}
	ctx.JSON(http.StatusOK, models.SuccessResponse(item))
}

// UpdateMenuItem godoc
// @Summary Update a menu item
// @Description Partial update; a supplied category_ids list replaces all associations after every id is verified
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Menu item ID"
// @Param item body services.MenuItemRequest true "Fields to update"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Failure 401 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Security BearerAuth
// @Router /api/admin/menu-items/{id} [patch]
func (c *adminController) UpdateMenuItem(ctx *gin.Context) {
	id, ok := validateIDParam(ctx)
	if !ok {
		return
	}

	var req services.MenuItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, models.ErrorResponse("Invalid request body"))
		return
	}

	item, err := c.service.UpdateMenuItem(id, req)
	if err != nil {
		respondServiceError(ctx, err, "Failed to update menu item")
		return
	}
	ctx.JSON(http.StatusOK, models.SuccessResponse(item))
}

// DeleteMenuItem godoc
// @Summary Delete a menu item
// @Tags admin
// @Produce json
// @Param id path string true "Menu item ID"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Failure 401 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Security BearerAuth
// @Router /api/admin/menu-items/{id} [delete]
func (c *adminController) DeleteMenuItem(ctx *gin.Context) {
	id, ok := validateIDParam(ctx)
	if !ok {
		return
	}

	if err := c.service.DeleteMenuItem(id); err != nil {
		respondServiceError(ctx, err, "Failed to delete menu item")
		return
	}
	ctx.JSON(http.StatusOK, models.SuccessMessageResponse(nil, "Menu item deleted successfully"))
}

// GetItemCategories godoc
// @Summary List an item's categories
// @Tags admin
// @Produce json
// @Param id path string true "Menu item ID"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Router /api/admin/menu-items/{id}/categories [get]
func (c *adminController) GetItemCategories(ctx *gin.Context) {
	id, ok := validateIDParam(ctx)
	if !ok {
		return
	}

	ids, err := c.service.GetItemCategories(id)
	if err != nil {
		respondServiceError(ctx, err, "Failed to fetch categories")
		return
	}
	ctx.JSON(http.StatusOK, models.SuccessResponse(ids))
}

type itemCategoryRequest struct {
	CategoryID string `json:"category_id"`
}

// AddItemCategory godoc
// @Summary Associate a category with an item
// @Description Adds one junction row; adding an existing pair is a no-op success
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Menu item ID"
// @Param association body itemCategoryRequest true "Category to add"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Failure 401 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Security BearerAuth
// @Router /api/admin/menu-items/{id}/categories [post]
func (c *adminController) AddItemCategory(ctx *gin.Context) {
	id, ok := validateIDParam(ctx)
	if !ok {
		return
	}

	var req itemCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || req.CategoryID == "" {
		ctx.JSON(http.StatusBadRequest, models.ErrorResponse("category_id is required"))
		return
	}
	categoryID, ok := validation.ValidateUUID(req.CategoryID)
	if !ok {
		ctx.JSON(http.StatusBadRequest, models.ErrorResponse("Invalid category_id format"))
		return
	}

	if err := c.service.AddItemCategory(id, categoryID); err != nil {
		respondServiceError(ctx, err, "Failed to add category")
		return
	}
	ctx.JSON(http.StatusOK, models.SuccessResponse(gin.H{
		"menu_item_id": id,
		"category_id":  categoryID,
	}))
}

// RemoveItemCategory godoc
// @Summary Remove a category association from an item
// @Tags admin
// @Produce json
// @Param id path string true "Menu item ID"
// @Param category_id query string true "Category ID to remove"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Failure 401 {object} models.APIResponse
// @Security BearerAuth
// @Router /api/admin/menu-items/{id}/categories [delete]
func (c *adminController) RemoveItemCategory(ctx *gin.Context) {
	id, ok := validateIDParam(ctx)
	if !ok {
		return
	}

	categoryID, ok := validation.ValidateUUID(ctx.Query("category_id"))
	if !ok {
		ctx.JSON(http.StatusBadRequest, models.ErrorResponse("category_id query parameter is required"))
		return
	}

	if err := c.service.RemoveItemCategory(id, categoryID); err != nil {
		respondServiceError(ctx, err, "Failed to remove category")
		return
	}
	ctx.JSON(http.StatusOK, models.SuccessMessageResponse(nil, "Category removed from item"))
}
