package handlers

import (
	"errors"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/salon-booking/internal/httperr"
	"github.com/BruksfildServices01/salon-booking/internal/middleware"
	"github.com/BruksfildServices01/salon-booking/internal/models"
)

type CartHandler struct {
	db *gorm.DB
}

func NewCartHandler(db *gorm.DB) *CartHandler {
	return &CartHandler{db: db}
}

const maxCartQuantity = 99

type AddCartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1,max=99"`
}

type SetCartItemRequest struct {
	Quantity int `json:"quantity" binding:"min=0,max=99"`
}

type cartView struct {
	Items []models.CartItem `json:"items"`
	Total float64           `json:"total"`
}

func (h *CartHandler) Get(c *gin.Context) {
	h.respond(c, middleware.UserID(c))
}

// Add upserts the line, incrementing the quantity when the product is
// already in the cart.
func (h *CartHandler) Add(c *gin.Context) {
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if !h.productAvailable(c, req.ProductID) {
		return
	}

	userID := middleware.UserID(c)
	item := models.CartItem{UserID: userID, ProductID: req.ProductID, Quantity: req.Quantity}

	err := h.db.WithContext(c.Request.Context()).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"quantity": gorm.Expr(
				"CASE WHEN cart_items.quantity + excluded.quantity > ? THEN ? ELSE cart_items.quantity + excluded.quantity END",
				maxCartQuantity, maxCartQuantity,
			),
			"updated_at": gorm.Expr("excluded.updated_at"),
		}),
	}).Create(&item).Error
	if err != nil {
		httperr.Internal(c, "failed_to_update_cart", "Could not update the cart.")
		return
	}

	h.respond(c, userID)
}

func (h *CartHandler) Set(c *gin.Context) {
	productID, ok := uintParam(c, "productId")
	if !ok {
		return
	}

	var req SetCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	userID := middleware.UserID(c)
	db := h.db.WithContext(c.Request.Context())

	var res *gorm.DB
	if req.Quantity == 0 {
		res = db.Where("user_id = ? AND product_id = ?", userID, productID).Delete(&models.CartItem{})
	} else {
		res = db.Model(&models.CartItem{}).
			Where("user_id = ? AND product_id = ?", userID, productID).
			Update("quantity", req.Quantity)
	}
	if res.Error != nil {
		httperr.Internal(c, "failed_to_update_cart", "Could not update the cart.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "cart_item_not_found", "That product is not in your cart.")
		return
	}

	h.respond(c, userID)
}

func (h *CartHandler) Remove(c *gin.Context) {
	productID, ok := uintParam(c, "productId")
	if !ok {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).
		Where("user_id = ? AND product_id = ?", middleware.UserID(c), productID).
		Delete(&models.CartItem{}).Error; err != nil {
		httperr.Internal(c, "failed_to_update_cart", "Could not update the cart.")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CartHandler) productAvailable(c *gin.Context, id uint) bool {
	var product models.Product
	err := h.db.WithContext(c.Request.Context()).Where("active = ?", true).First(&product, id).Error
	switch {
	case err == nil:
		return true
	case errors.Is(err, gorm.ErrRecordNotFound):
		httperr.NotFound(c, "product_not_found", "Product not found.")
	default:
		httperr.Internal(c, "internal_error", "Could not load the product.")
	}
	return false
}

func (h *CartHandler) respond(c *gin.Context, userID uint) {
	var items []models.CartItem
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&items).Error; err != nil {
		httperr.Internal(c, "failed_to_load_cart", "Could not load the cart.")
		return
	}

	var total float64
	for _, it := range items {
		if it.Product != nil {
			total += it.Product.Price * float64(it.Quantity)
		}
	}
	if items == nil {
		items = []models.CartItem{}
	}

	c.JSON(http.StatusOK, cartView{Items: items, Total: math.Round(total*100) / 100})
}
