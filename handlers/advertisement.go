package handlers

import (
	"context"
	"net/http"
	"time"

	"storefront-backend/dtos"
	"storefront-backend/merch"
	"storefront-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AdSlots is the number of display slots per advertisement kind. Zero values
// fall back to the defaults.
type AdSlots struct {
	Horizontal int
	Vertical   int
}

func (s AdSlots) class(kind models.AdKind) merch.Class {
	capacity := s.Vertical
	if capacity <= 0 {
		capacity = merch.DefaultVerticalSlots
	}
	if kind == models.AdKindHorizontal {
		capacity = s.Horizontal
		if capacity <= 0 {
			capacity = merch.DefaultHorizontalSlots
		}
	}

	return merch.Class{
		Name:     string(kind) + " advertisement",
		Table:    "advertisements",
		Scope:    map[string]interface{}{"kind": string(kind)},
		Capacity: capacity,
	}
}

type AdvertisementHandler struct {
	DB        *gorm.DB
	Allocator *merch.Allocator
	Slots     AdSlots
	Log       logrus.FieldLogger
	Clock     Clock
}

// activeAds returns ads whose status is active at now, by kind then position.
// An empty kind returns both kinds.
func activeAds(ctx context.Context, db *gorm.DB, kind models.AdKind, now time.Time) ([]models.Advertisement, error) {
	var ads []models.Advertisement
	query := db.WithContext(ctx).Where("is_active = ?", true)
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}
	if err := query.Order("kind ASC").Order("position ASC").Find(&ads).Error; err != nil {
		return nil, err
	}

	live := make([]models.Advertisement, 0, len(ads))
	for _, a := range ads {
		if a.Window().Status(now) == merch.StatusActive {
			live = append(live, a)
		}
	}
	return live, nil
}

// kindQuery reads ?kind=. ok is false after a 400 has been written.
func kindQuery(c *gin.Context) (models.AdKind, bool) {
	raw := c.Query("kind")
	if raw == "" {
		return "", true
	}
	kind, ok := models.ParseAdKind(raw)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid advertisement kind"})
		return "", false
	}
	return kind, true
}

func (h *AdvertisementHandler) GetAdvertisements(c *gin.Context) {
	kind, ok := kindQuery(c)
	if !ok {
		return
	}

	now := h.Clock.now()
	ads, err := activeAds(c.Request.Context(), h.DB, kind, now)
	if err != nil {
		respondError(c, h.Log, err, "Failed to fetch advertisements")
		return
	}
	c.JSON(http.StatusOK, dtos.NewAdvertisementViews(ads, now))
}

// GetAllAdvertisements returns every advertisement with its derived status for admin use.
func (h *AdvertisementHandler) GetAllAdvertisements(c *gin.Context) {
	kind, ok := kindQuery(c)
	if !ok {
		return
	}

	views, err := h.allAdvertisements(c.Request.Context(), kind)
	if err != nil {
		respondError(c, h.Log, err, "Failed to fetch advertisements")
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *AdvertisementHandler) allAdvertisements(ctx context.Context, kind models.AdKind) ([]dtos.AdvertisementView, error) {
	var ads []models.Advertisement
	query := h.DB.WithContext(ctx)
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}
	if err := query.Order("kind ASC").Order("position ASC").Find(&ads).Error; err != nil {
		return nil, err
	}
	return dtos.NewAdvertisementViews(ads, h.Clock.now()), nil
}

func adColumns(a *models.Advertisement) map[string]interface{} {
	return map[string]interface{}{
		"title":               a.Title,
		"subtitle":            a.Subtitle,
		"image_url":           a.ImageURL,
		"start_date":          a.StartDate,
		"end_date":            a.EndDate,
		"is_active":           a.IsActive,
		"price":               a.Price,
		"compare_price":       a.ComparePrice,
		"cta_label":           a.CTA.Label,
		"cta_url":             a.CTA.URL,
		"cta_open_in_new_tab": a.CTA.OpenInNewTab,
	}
}

// CreateAdvertisement refuses with 409 once every slot of the kind is taken.
func (h *AdvertisementHandler) CreateAdvertisement(c *gin.Context) {
	var req dtos.AdvertisementRequest
	if !bindJSON(c, &req) {
		return
	}

	ad := models.Advertisement{ID: uuid.New()}
	req.Apply(&ad)
	class := h.Slots.class(ad.Kind)

	ctx := c.Request.Context()
	_, err := h.Allocator.Place(ctx, class, req.Position, func(tx *gorm.DB, position int) error {
		var count int64
		if err := tx.Model(&models.Advertisement{}).Where("kind = ?", ad.Kind).Count(&count).Error; err != nil {
			return err
		}
		if int(count) >= class.Capacity {
			return &slotsFullError{class: class}
		}
		ad.Position = position
		return tx.Create(&ad).Error
	})
	if err != nil {
		respondError(c, h.Log, err, "Failed to create advertisement")
		return
	}

	var created models.Advertisement
	if err := h.DB.WithContext(ctx).First(&created, "id = ?", ad.ID).Error; err != nil {
		respondError(c, h.Log, err, "Failed to load advertisement")
		return
	}
	c.JSON(http.StatusCreated, dtos.NewAdvertisementView(created, h.Clock.now()))
}

// UpdateAdvertisement replaces the ad's fields and swaps slots when the
// position changes. The kind is fixed at creation.
func (h *AdvertisementHandler) UpdateAdvertisement(c *gin.Context) {
	id, ok := parseID(c, "advertisement")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	var existing models.Advertisement
	if err := h.DB.WithContext(ctx).First(&existing, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Advertisement not found"})
		return
	}

	var req dtos.AdvertisementRequest
	if !bindJSON(c, &req) {
		return
	}
	if models.AdKind(req.Kind) != existing.Kind {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Advertisement kind cannot be changed"})
		return
	}

	class := h.Slots.class(existing.Kind)
	err := h.Allocator.Move(ctx, class, id, req.Position, func(tx *gorm.DB) error {
		var ad models.Advertisement
		if err := tx.First(&ad, "id = ?", id).Error; err != nil {
			return notFoundAs(err, class.Name, id)
		}
		if req.Version != nil && *req.Version != ad.Version {
			return merch.ErrConflict
		}
		req.Apply(&ad)
		return updateVersioned(tx, &models.Advertisement{}, id, ad.Version, adColumns(&ad))
	})
	if err != nil {
		respondError(c, h.Log, err, "Failed to update advertisement")
		return
	}

	var updated models.Advertisement
	if err := h.DB.WithContext(ctx).First(&updated, "id = ?", id).Error; err != nil {
		respondError(c, h.Log, err, "Failed to load advertisement")
		return
	}
	c.JSON(http.StatusOK, dtos.NewAdvertisementView(updated, h.Clock.now()))
}

func (h *AdvertisementHandler) DeleteAdvertisement(c *gin.Context) {
	id, ok := parseID(c, "advertisement")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	var ad models.Advertisement
	if err := h.DB.WithContext(ctx).First(&ad, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Advertisement not found"})
		return
	}

	if err := h.Allocator.Remove(ctx, h.Slots.class(ad.Kind), id, nil); err != nil {
		respondError(c, h.Log, err, "Failed to delete advertisement")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Advertisement deleted successfully"})
}

// ReorderAdvertisements renumbers one kind's ads in the order given.
func (h *AdvertisementHandler) ReorderAdvertisements(c *gin.Context) {
	kind, ok := models.ParseAdKind(c.Param("kind"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid advertisement kind"})
		return
	}

	var req dtos.ReorderRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	if err := h.Allocator.Reorder(ctx, h.Slots.class(kind), req.IDs); err != nil {
		respondError(c, h.Log, err, "Failed to reorder advertisements")
		return
	}

	views, err := h.allAdvertisements(ctx, kind)
	if err != nil {
		respondError(c, h.Log, err, "Failed to fetch advertisements")
		return
	}
	c.JSON(http.StatusOK, views)
}
