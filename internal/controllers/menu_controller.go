package controllers

import (
	"errors"
	"net/http"

	"github.com/danuarta/cafe-order-api/internal/models"
	"github.com/danuarta/cafe-order-api/internal/services"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// MenuController handles the public menu endpoint
type MenuController interface {
	// GetMenu returns the customer-facing menu
	GetMenu(c *gin.Context)
}

type menuController struct {
	service services.MenuService
}

// NewMenuController creates a new instance of MenuController
func NewMenuController(service services.MenuService) *menuController {
	return &menuController{service: service}
}

// GetMenu godoc
// @Summary Get the menu
// @Description Get active categories with their items resolved through the junction table, plus a flat item list
// @Tags menu
// @Accept json
// @Produce json
// @Success 200 {object} models.APIResponse
// @Failure 500 {object} models.APIResponse
// @Router /api/menu [get]
func (c *menuController) GetMenu(ctx *gin.Context) {
	menu, err := c.service.GetMenu()
	if err != nil {
		log.WithError(err).Error("Failed to load menu")
		ctx.JSON(http.StatusInternalServerError, models.ErrorResponse("Failed to fetch menu"))
		return
	}
	ctx.JSON(http.StatusOK, models.SuccessResponse(menu))
}

// respondServiceError maps service-layer sentinel errors onto the HTTP error
// taxonomy; anything unrecognized becomes a 500 with a generic message.
func respondServiceError(ctx *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		ctx.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
	case errors.Is(err, services.ErrItemUnavailable):
		ctx.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
	case errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrMenuItemNotFound),
		errors.Is(err, services.ErrCategoryNotFound):
		ctx.JSON(http.StatusNotFound, models.ErrorResponse(err.Error()))
	default:
		log.WithError(err).Error(fallback)
		ctx.JSON(http.StatusInternalServerError, models.ErrorResponse(fallback))
	}
}
