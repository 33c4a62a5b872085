package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-booking/internal/audit"
	"github.com/BruksfildServices01/salon-booking/internal/httperr"
	"github.com/BruksfildServices01/salon-booking/internal/httpresp"
	"github.com/BruksfildServices01/salon-booking/internal/middleware"
	"github.com/BruksfildServices01/salon-booking/internal/models"
)

type StylistHandler struct {
	db     *gorm.DB
	images ImageUploader
	audit  *audit.Dispatcher
	log    *zap.Logger
}

func NewStylistHandler(db *gorm.DB, images ImageUploader, audit *audit.Dispatcher, log *zap.Logger) *StylistHandler {
	return &StylistHandler{db: db, images: images, audit: audit, log: log}
}

// --------- Requests ---------

type CreateStylistRequest struct {
	Name            string   `json:"name" binding:"required"`
	Bio             string   `json:"bio"`
	Specializations []string `json:"specializations"`
	UserID          *uint    `json:"user_id"`
}

type UpdateStylistRequest struct {
	Name            *string   `json:"name,omitempty"`
	Bio             *string   `json:"bio,omitempty"`
	Specializations *[]string `json:"specializations,omitempty"`
	UserID          *uint     `json:"user_id,omitempty"`
	Active          *bool     `json:"active,omitempty"`
}

// --------- Public ---------

func (h *StylistHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Where("active = ?", true)

	if spec := strings.ToLower(strings.TrimSpace(c.Query("specialization"))); spec != "" {
		// specializations is a JSON array; a substring match is enough here.
		q = q.Where("LOWER(CAST(specializations AS TEXT)) LIKE ?", "%\""+spec+"\"%")
	}

	var stylists []models.Stylist
	if err := q.Order("name ASC").Find(&stylists).Error; err != nil {
		httperr.Internal(c, "failed_to_list_stylists", "Could not list stylists.")
		return
	}
	httpresp.List(c, stylists)
}

func (h *StylistHandler) Get(c *gin.Context) {
	stylist, ok := h.load(c, true)
	if !ok {
		return
	}
	httpresp.OK(c, stylist)
}

// --------- Admin ---------

func (h *StylistHandler) Create(c *gin.Context) {
	var req CreateStylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if req.UserID != nil && !h.linkable(c, *req.UserID) {
		return
	}

	stylist := models.Stylist{
		Name:            strings.TrimSpace(req.Name),
		Bio:             req.Bio,
		Specializations: datatypes.NewJSONSlice(normalizeTags(req.Specializations)),
		UserID:          req.UserID,
		Active:          true,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&stylist).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			httperr.Conflict(c, "user_already_linked", "That user is already linked to a stylist.")
			return
		}
		httperr.Internal(c, "failed_to_create_stylist", "Could not create the stylist.")
		return
	}

	h.record(c, "stylist_created", stylist.ID)
	httpresp.Created(c, stylist)
}

func (h *StylistHandler) Update(c *gin.Context) {
	stylist, ok := h.load(c, false)
	if !ok {
		return
	}

	var req UpdateStylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if req.Name != nil {
		stylist.Name = strings.TrimSpace(*req.Name)
	}
	if req.Bio != nil {
		stylist.Bio = *req.Bio
	}
	if req.Specializations != nil {
		stylist.Specializations = datatypes.NewJSONSlice(normalizeTags(*req.Specializations))
	}
	if req.UserID != nil {
		if !h.linkable(c, *req.UserID) {
			return
		}
		stylist.UserID = req.UserID
	}
	if req.Active != nil {
		stylist.Active = *req.Active
	}

	if err := h.db.WithContext(c.Request.Context()).Save(stylist).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			httperr.Conflict(c, "user_already_linked", "That user is already linked to a stylist.")
			return
		}
		httperr.Internal(c, "failed_to_update_stylist", "Could not update the stylist.")
		return
	}

	h.record(c, "stylist_updated", stylist.ID)
	httpresp.OK(c, stylist)
}

func (h *StylistHandler) UploadImage(c *gin.Context) {
	stylist, ok := h.load(c, false)
	if !ok {
		return
	}

	url, ok := receiveImage(c, h.images, h.log, "stylists")
	if !ok {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Model(stylist).Update("image_url", url).Error; err != nil {
		httperr.Internal(c, "failed_to_update_stylist", "Could not save the image.")
		return
	}
	stylist.ImageURL = url

	h.record(c, "stylist_image_updated", stylist.ID)
	httpresp.OK(c, stylist)
}

// --------- helpers ---------

func (h *StylistHandler) load(c *gin.Context, activeOnly bool) (*models.Stylist, bool) {
	id, ok := uintParam(c, "id")
	if !ok {
		return nil, false
	}

	q := h.db.WithContext(c.Request.Context())
	if activeOnly {
		q = q.Where("active = ?", true)
	}

	var stylist models.Stylist
	if err := q.First(&stylist, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "stylist_not_found", "Stylist not found.")
			return nil, false
		}
		httperr.Internal(c, "internal_error", "Could not load the stylist.")
		return nil, false
	}
	return &stylist, true
}

// linkable checks that userID exists and has the stylist role.
func (h *StylistHandler) linkable(c *gin.Context, userID uint) bool {
	var user models.User
	if err := h.db.WithContext(c.Request.Context()).First(&user, userID).Error; err != nil {
		httperr.BadRequest(c, "invalid_request", "Linked user does not exist.")
		return false
	}
	if user.Role != models.RoleStylist {
		httperr.BadRequest(c, "invalid_request", "Linked user must have the stylist role.")
		return false
	}
	return true
}

func (h *StylistHandler) record(c *gin.Context, action string, id uint) {
	actor := middleware.UserID(c)
	h.audit.Dispatch(audit.Event{UserID: &actor, Action: action, Entity: "stylist", EntityID: &id})
}

func normalizeTags(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
