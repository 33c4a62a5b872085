package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-booking/internal/audit"
	"github.com/BruksfildServices01/salon-booking/internal/httperr"
	"github.com/BruksfildServices01/salon-booking/internal/httpresp"
	"github.com/BruksfildServices01/salon-booking/internal/middleware"
	"github.com/BruksfildServices01/salon-booking/internal/models"
)

type ProductHandler struct {
	db     *gorm.DB
	images ImageUploader
	audit  *audit.Dispatcher
	log    *zap.Logger
}

func NewProductHandler(db *gorm.DB, images ImageUploader, audit *audit.Dispatcher, log *zap.Logger) *ProductHandler {
	return &ProductHandler{db: db, images: images, audit: audit, log: log}
}

// --------- Requests ---------

type CreateProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Stock       int     `json:"stock" binding:"min=0"`
	Category    string  `json:"category"`
}

type UpdateProductRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Stock       *int     `json:"stock,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Active      *bool    `json:"active,omitempty"`
}

var productSorts = map[string]string{
	"":           "id ASC",
	"price_asc":  "price ASC",
	"price_desc": "price DESC",
	"name":       "name ASC",
	"newest":     "created_at DESC",
}

// --------- Public ---------

func (h *ProductHandler) List(c *gin.Context) {
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))
	category := strings.ToLower(strings.TrimSpace(c.Query("category")))

	order, ok := productSorts[c.Query("sort")]
	if !ok {
		httperr.BadRequest(c, "invalid_request", "Unknown sort.")
		return
	}

	q := h.db.WithContext(c.Request.Context()).Where("active = ?", true)

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if category != "" {
		q = q.Where("LOWER(category) = ?", category)
	}
	if v := c.Query("min_price"); v != "" {
		lo, err := strconv.ParseFloat(v, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_request", "Invalid min_price.")
			return
		}
		q = q.Where("price >= ?", lo)
	}
	if v := c.Query("max_price"); v != "" {
		hi, err := strconv.ParseFloat(v, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_request", "Invalid max_price.")
			return
		}
		q = q.Where("price <= ?", hi)
	}

	var products []models.Product
	if err := q.Order(order).Find(&products).Error; err != nil {
		httperr.Internal(c, "failed_to_list_products", "Could not list products.")
		return
	}
	httpresp.List(c, products)
}

func (h *ProductHandler) Get(c *gin.Context) {
	product, ok := h.load(c, true)
	if !ok {
		return
	}
	httpresp.OK(c, product)
}

// --------- Admin ---------

func (h *ProductHandler) Create(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	product := models.Product{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    strings.ToLower(strings.TrimSpace(req.Category)),
		Active:      true,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&product).Error; err != nil {
		httperr.Internal(c, "failed_to_create_product", "Could not create the product.")
		return
	}

	h.record(c, "product_created", product.ID)
	httpresp.Created(c, product)
}

func (h *ProductHandler) Update(c *gin.Context) {
	product, ok := h.load(c, false)
	if !ok {
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			httperr.BadRequest(c, "invalid_request", "price must be positive.")
			return
		}
		product.Price = *req.Price
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			httperr.BadRequest(c, "invalid_request", "stock cannot be negative.")
			return
		}
		product.Stock = *req.Stock
	}
	if req.Category != nil {
		product.Category = strings.ToLower(strings.TrimSpace(*req.Category))
	}
	if req.Active != nil {
		product.Active = *req.Active
	}

	if err := h.db.WithContext(c.Request.Context()).Save(product).Error; err != nil {
		httperr.Internal(c, "failed_to_update_product", "Could not update the product.")
		return
	}

	h.record(c, "product_updated", product.ID)
	httpresp.OK(c, product)
}

// Delete hides the product; order snapshots keep their own copy of it.
func (h *ProductHandler) Delete(c *gin.Context) {
	product, ok := h.load(c, false)
	if !ok {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Model(product).Update("active", false).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_product", "Could not delete the product.")
		return
	}

	h.record(c, "product_deleted", product.ID)
	c.Status(http.StatusNoContent)
}

func (h *ProductHandler) UploadImage(c *gin.Context) {
	product, ok := h.load(c, false)
	if !ok {
		return
	}

	url, ok := receiveImage(c, h.images, h.log, "products")
	if !ok {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Model(product).Update("image_url", url).Error; err != nil {
		httperr.Internal(c, "failed_to_update_product", "Could not save the image.")
		return
	}
	product.ImageURL = url

	h.record(c, "product_image_updated", product.ID)
	httpresp.OK(c, product)
}

func (h *ProductHandler) load(c *gin.Context, activeOnly bool) (*models.Product, bool) {
	id, ok := uintParam(c, "id")
	if !ok {
		return nil, false
	}

	q := h.db.WithContext(c.Request.Context())
	if activeOnly {
		q = q.Where("active = ?", true)
	}

	var product models.Product
	if err := q.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "product_not_found", "Product not found.")
			return nil, false
		}
		httperr.Internal(c, "internal_error", "Could not load the product.")
		return nil, false
	}
	return &product, true
}

func (h *ProductHandler) record(c *gin.Context, action string, id uint) {
	actor := middleware.UserID(c)
	h.audit.Dispatch(audit.Event{UserID: &actor, Action: action, Entity: "product", EntityID: &id})
}
