package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-booking/internal/httperr"
	"github.com/BruksfildServices01/salon-booking/internal/httpresp"
	"github.com/BruksfildServices01/salon-booking/internal/middleware"
	"github.com/BruksfildServices01/salon-booking/internal/models"
	ucOrder "github.com/BruksfildServices01/salon-booking/internal/usecase/order"
)

type OrderHandler struct {
	db           *gorm.DB
	checkout     *ucOrder.Checkout
	changeStatus *ucOrder.ChangeOrderStatus
}

func NewOrderHandler(db *gorm.DB, checkout *ucOrder.Checkout, changeStatus *ucOrder.ChangeOrderStatus) *OrderHandler {
	return &OrderHandler{db: db, checkout: checkout, changeStatus: changeStatus}
}

type CheckoutRequest struct {
	ShippingAddress string `json:"shipping_address" binding:"max=255"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *OrderHandler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.BadRequest(c, "invalid_request", err.Error())
			return
		}
	}

	order, err := h.checkout.Execute(c.Request.Context(), middleware.UserID(c), req.ShippingAddress)
	if err != nil {
		httperr.FromError(c, err, "checkout_failed", "Could not place the order.")
		return
	}
	httpresp.Created(c, order)
}

func (h *OrderHandler) ListMine(c *gin.Context) {
	var orders []models.Order
	if err := h.db.WithContext(c.Request.Context()).
		Where("user_id = ?", middleware.UserID(c)).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		httperr.Internal(c, "failed_to_list_orders", "Could not list orders.")
		return
	}
	httpresp.List(c, orders)
}

func (h *OrderHandler) ListAll(c *gin.Context) {
	page, limit, offset := pagination(c, 50, 200)

	q := h.db.WithContext(c.Request.Context()).Model(&models.Order{})
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "failed_to_list_orders", "Could not list orders.")
		return
	}

	var orders []models.Order
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&orders).Error; err != nil {
		httperr.Internal(c, "failed_to_list_orders", "Could not list orders.")
		return
	}
	httpresp.Page(c, orders, page, limit, total)
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	order, err := h.changeStatus.Execute(c.Request.Context(), middleware.UserID(c), id, req.Status)
	if err != nil {
		httperr.FromError(c, err, "order_update_failed", "Could not update the order.")
		return
	}
	httpresp.OK(c, order)
}
