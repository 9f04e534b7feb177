package controllers

import (
	"net/http"

	"github.com/danuarta/cafe-order-api/internal/models"
	"github.com/danuarta/cafe-order-api/internal/services"
	"github.com/danuarta/cafe-order-api/internal/validation"
	"github.com/gin-gonic/gin"
)

// OrderController handles HTTP requests for the order lifecycle
type OrderController interface {
	// CreateOrder creates a new order with server-side pricing
	CreateOrder(c *gin.Context)
	// GetOrders lists orders, optionally filtered by status
	GetOrders(c *gin.Context)
	// UpdateOrder applies a status transition to an order
	UpdateOrder(c *gin.Context)
	// RejectOrder soft-deletes an order by flipping it to rejected
	RejectOrder(c *gin.Context)
}

type orderController struct {
	service services.OrderService
}

// NewOrderController creates a new instance of OrderController
func NewOrderController(service services.OrderService) *orderController {
	return &orderController{service: service}
}

// CreateOrder godoc
// @Summary Create a new order
// @Description Create an order from menu item references; prices are recomputed server-side
// @Tags orders
// @Accept json
// @Produce json
// @Param order body services.CreateOrderRequest true "Order payload"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Failure 500 {object} models.APIResponse
// @Router /api/orders [post]
func (c *orderController) CreateOrder(ctx *gin.Context) {
	var req services.CreateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, models.ErrorResponse("Invalid request body"))
		return
	}

	order, err := c.service.CreateOrder(req)
	if err != nil {
		respondServiceError(ctx, err, "Failed to create order")
		return
	}
	ctx.JSON(http.StatusOK, models.SuccessMessageResponse(order, "Order created successfully"))
}

// GetOrders godoc
// @Summary List orders
// @Description List orders newest first, optionally filtered by status
// @Tags orders
// @Accept json
// @Produce json
// @Param status query string false "Order status filter (pending, accepted, preparing, ready, completed, rejected)"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Failure 500 {object} models.APIResponse
// @Router /api/orders [get]
func (c *orderController) GetOrders(ctx *gin.Context) {
	status := ctx.Query("status")
	if status != "" {
		validated, ok := validation.ValidateOrderStatus(status)
		if !ok {
			ctx.JSON(http.StatusBadRequest, models.ErrorResponse("Invalid status filter"))
			return
		}
		status = validated
	}

	orders, err := c.service.GetOrders(status)
	if err != nil {
		respondServiceError(ctx, err, "Failed to fetch orders")
		return
	}
	ctx.JSON(http.StatusOK, models.SuccessResponse(orders))
}

// UpdateOrder godoc
// @Summary Update order status
// @Description Apply a status transition; accepting requires customer_name and table_number and lands on preparing
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param order body services.UpdateOrderRequest true "Transition payload"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Failure 500 {object} models.APIResponse
// @Router /api/orders/{id} [patch]
func (c *orderController) UpdateOrder(ctx *gin.Context) {
	id, ok := validateIDParam(ctx)
	if !ok {
		return
	}

	var req services.UpdateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, models.ErrorResponse("Invalid request body"))
		return
	}
	if req.Status == "" {
		ctx.JSON(http.StatusBadRequest, models.ErrorResponse("Status is required"))
		return
	}

	order, err := c.service.UpdateOrderStatus(id, req)
	if err != nil {
		respondServiceError(ctx, err, "Failed to update order")
		return
	}
	ctx.JSON(http.StatusOK, models.SuccessResponse(order))
}

// RejectOrder godoc
// @Summary Reject an order
// @Description Flip the order to rejected; the row is kept, not deleted
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Failure 500 {object} models.APIResponse
// @Router /api/orders/{id} [delete]
func (c *orderController) RejectOrder(ctx *gin.Context) {
	id, ok := validateIDParam(ctx)
	if !ok {
		return
	}

	order, err := c.service.RejectOrder(id)
	if err != nil {
		respondServiceError(ctx, err, "Failed to reject order")
		return
	}
	ctx.JSON(http.StatusOK, models.SuccessResponse(order))
}

// validateIDParam checks the :id path parameter for UUID shape and writes the
// 400 response itself when invalid
func validateIDParam(ctx *gin.Context) (string, bool) {
	id, ok := validation.ValidateUUID(ctx.Param("id"))
	if !ok {
		ctx.JSON(http.StatusBadRequest, models.ErrorResponse("Invalid id format"))
		return "", false
	}
	return id, true
}
