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

// Events are positioned but not capped.
var eventClass = merch.Class{Name: "event", Table: "events"}

type EventHandler struct {
	DB        *gorm.DB
	Allocator *merch.Allocator
	Landing   *Landing
	Log       logrus.FieldLogger
	Clock     Clock
}

func (h *EventHandler) loadEvent(ctx context.Context, id uuid.UUID) (models.Event, error) {
	var event models.Event
	err := withEventProducts(h.DB.WithContext(ctx)).First(&event, "id = ?", id).Error
	return event, notFoundAs(err, eventClass.Name, id)
}

// GetEvents lists events whose status is active right now, in position order.
func (h *EventHandler) GetEvents(c *gin.Context) {
	now := h.Clock.now()

	var events []models.Event
	err := withEventProducts(h.DB.WithContext(c.Request.Context())).
		Where("is_active = ?", true).
		Order("position ASC").
		Find(&events).Error
	if err != nil {
		respondError(c, h.Log, err, "Failed to fetch events")
		return
	}

	live := make([]models.Event, 0, len(events))
	for _, e := range events {
		if e.Window().Status(now) == merch.StatusActive {
			live = append(live, e)
		}
	}

	c.JSON(http.StatusOK, dtos.NewEventViews(live, now))
}

func (h *EventHandler) GetLandingEvents(c *gin.Context) {
	views, err := h.Landing.Events(c.Request.Context(), h.Clock.now())
	if err != nil {
		respondError(c, h.Log, err, "Failed to fetch landing events")
		return
	}
	c.JSON(http.StatusOK, views)
}

// GetEvent returns one enabled event whatever its window, so storefront
// links to upcoming events resolve.
func (h *EventHandler) GetEvent(c *gin.Context) {
	id, ok := parseID(c, "event")
	if !ok {
		return
	}

	event, err := h.loadEvent(c.Request.Context(), id)
	if err != nil || !event.IsActive {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	c.JSON(http.StatusOK, dtos.NewEventView(event, h.Clock.now()))
}

// GetAllEvents returns all events (active + inactive) for admin use.
// ?status= narrows to one derived status.
func (h *EventHandler) GetAllEvents(c *gin.Context) {
	now := h.Clock.now()

	var status merch.Status
	if s := c.Query("status"); s != "" {
		status = merch.Status(s)
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
			return
		}
	}

	views, err := h.allEvents(c.Request.Context(), now)
	if err != nil {
		respondError(c, h.Log, err, "Failed to fetch events")
		return
	}

	if status != "" {
		filtered := make([]dtos.EventView, 0, len(views))
		for _, v := range views {
			if v.Status == status {
				filtered = append(filtered, v)
			}
		}
		views = filtered
	}

	c.JSON(http.StatusOK, views)
}

func (h *EventHandler) allEvents(ctx context.Context, now time.Time) ([]dtos.EventView, error) {
	var events []models.Event
	err := withEventProducts(h.DB.WithContext(ctx)).Order("position ASC").Find(&events).Error
	if err != nil {
		return nil, err
	}
	return dtos.NewEventViews(events, now), nil
}

// checkProducts rejects unknown or repeated product ids.
func checkProducts(tx *gorm.DB, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return &merch.ValidationError{Reason: "product " + id.String() + " is listed more than once"}
		}
		seen[id] = true
	}

	var count int64
	if err := tx.Model(&models.Product{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return err
	}
	if int(count) != len(ids) {
		return &merch.ValidationError{Reason: "product_ids references an unknown product"}
	}
	return nil
}

func replaceEventProducts(tx *gorm.DB, eventID uuid.UUID, ids []uuid.UUID) error {
	if err := tx.Where("event_id = ?", eventID).Delete(&models.EventProduct{}).Error; err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	items := make([]models.EventProduct, len(ids))
	for i, pid := range ids {
		items[i] = models.EventProduct{EventID: eventID, ProductID: pid, SortOrder: i}
	}
	return tx.Create(&items).Error
}

func eventColumns(e *models.Event) map[string]interface{} {
	return map[string]interface{}{
		"title":               e.Title,
		"subtitle":            e.Subtitle,
		"description":         e.Description,
		"image_url":           e.ImageURL,
		"start_date":          e.StartDate,
		"end_date":            e.EndDate,
		"is_active":           e.IsActive,
		"show_in_landing":     e.ShowInLanding,
		"cta_label":           e.CTA.Label,
		"cta_url":             e.CTA.URL,
		"cta_open_in_new_tab": e.CTA.OpenInNewTab,
	}
}

// CreateEvent places the event at the requested position, or the first free
// one when position is 0. A held position is handed over and its holder moves.
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req dtos.EventRequest
	if !bindJSON(c, &req) {
		return
	}

	event := models.Event{ID: uuid.New()}
	req.Apply(&event)

	ctx := c.Request.Context()
	_, err := h.Allocator.Place(ctx, eventClass, req.Position, func(tx *gorm.DB, position int) error {
		if err := checkProducts(tx, req.ProductIDs); err != nil {
			return err
		}
		event.Position = position
		if err := tx.Create(&event).Error; err != nil {
			return err
		}
		return replaceEventProducts(tx, event.ID, req.ProductIDs)
	})
	if err != nil {
		respondError(c, h.Log, err, "Failed to create event")
		return
	}
	h.Landing.Invalidate(ctx)

	created, err := h.loadEvent(ctx, event.ID)
	if err != nil {
		respondError(c, h.Log, err, "Failed to load event")
		return
	}
	c.JSON(http.StatusCreated, dtos.NewEventView(created, h.Clock.now()))
}

// UpdateEvent replaces the event's fields and, when position changes, swaps
// slots with the current holder. Omitted product_ids keep the product list.
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	id, ok := parseID(c, "event")
	if !ok {
		return
	}

	var req dtos.EventRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	err := h.Allocator.Move(ctx, eventClass, id, req.Position, func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.First(&event, "id = ?", id).Error; err != nil {
			return notFoundAs(err, eventClass.Name, id)
		}
		if req.Version != nil && *req.Version != event.Version {
			return merch.ErrConflict
		}
		if req.ProductIDs != nil {
			if err := checkProducts(tx, req.ProductIDs); err != nil {
				return err
			}
		}

		req.Apply(&event)
		if err := updateVersioned(tx, &models.Event{}, id, event.Version, eventColumns(&event)); err != nil {
			return err
		}

		if req.ProductIDs != nil {
			return replaceEventProducts(tx, id, req.ProductIDs)
		}
		return nil
	})
	if err != nil {
		respondError(c, h.Log, err, "Failed to update event")
		return
	}
	h.Landing.Invalidate(ctx)

	updated, err := h.loadEvent(ctx, id)
	if err != nil {
		respondError(c, h.Log, err, "Failed to load event")
		return
	}
	c.JSON(http.StatusOK, dtos.NewEventView(updated, h.Clock.now()))
}

func (h *EventHandler) DeleteEvent(c *gin.Context) {
	id, ok := parseID(c, "event")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	err := h.Allocator.Remove(ctx, eventClass, id, func(tx *gorm.DB) error {
		return tx.Where("event_id = ?", id).Delete(&models.EventProduct{}).Error
	})
	if err != nil {
		respondError(c, h.Log, err, "Failed to delete event")
		return
	}
	h.Landing.Invalidate(ctx)

	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully"})
}

// ReorderEvents renumbers all events in the order given. The list must
// contain every event exactly once.
func (h *EventHandler) ReorderEvents(c *gin.Context) {
	var req dtos.ReorderRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	if err := h.Allocator.Reorder(ctx, eventClass, req.IDs); err != nil {
		respondError(c, h.Log, err, "Failed to reorder events")
		return
	}
	h.Landing.Invalidate(ctx)

	views, err := h.allEvents(ctx, h.Clock.now())
	if err != nil {
		respondError(c, h.Log, err, "Failed to fetch events")
		return
	}
	c.JSON(http.StatusOK, views)
}
