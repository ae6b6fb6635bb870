package dtos

import (
	"time"

	"storefront-backend/models"

	"github.com/google/uuid"
)

type ProductRequest struct {
	Name         string  `json:"name" binding:"required,max=200"`
	Description  string  `json:"description"`
	ImageURL     string  `json:"image_url" binding:"omitempty,url"`
	Price        float64 `json:"price" binding:"gte=0"`
	ComparePrice float64 `json:"compare_price" binding:"gte=0"`
	Stock        int     `json:"stock" binding:"gte=0"`
	IsActive     bool    `json:"is_active"`
}

func (r ProductRequest) Apply(p *models.Product) {
	p.Name = r.Name
	p.Description = r.Description
	p.ImageURL = r.ImageURL
	p.Price = r.Price
	p.ComparePrice = r.ComparePrice
	p.Stock = r.Stock
	p.IsActive = r.IsActive
}

// EventRequest creates or replaces an event. Position 0 auto-assigns on
// create and keeps the current slot on update. Version, when set, must match
// the stored version or the update is rejected.
type EventRequest struct {
	Title         string               `json:"title" binding:"required,max=200"`
	Subtitle      string               `json:"subtitle"`
	Description   string               `json:"description"`
	ImageURL      string               `json:"image_url" binding:"omitempty,url"`
	StartDate     time.Time            `json:"start_date" binding:"required"`
	EndDate       time.Time            `json:"end_date" binding:"required"`
	IsActive      bool                 `json:"is_active"`
	ShowInLanding bool                 `json:"show_in_landing"`
	Position      int                  `json:"position" binding:"gte=0"`
	ProductIDs    []uuid.UUID          `json:"product_ids"`
	CTA           *models.CallToAction `json:"cta"`
	Version       *int                 `json:"version"`
}

func (r EventRequest) Apply(e *models.Event) {
	e.Title = r.Title
	e.Subtitle = r.Subtitle
	e.Description = r.Description
	e.ImageURL = r.ImageURL
	e.StartDate = r.StartDate
	e.EndDate = r.EndDate
	e.IsActive = r.IsActive
	e.ShowInLanding = r.ShowInLanding
	e.CTA = models.CallToAction{}
	if r.CTA != nil {
		e.CTA = *r.CTA
	}
}

type AdvertisementRequest struct {
	Kind         string               `json:"kind" binding:"required,oneof=horizontal vertical"`
	Title        string               `json:"title" binding:"required,max=200"`
	Subtitle     string               `json:"subtitle"`
	ImageURL     string               `json:"image_url" binding:"omitempty,url"`
	StartDate    time.Time            `json:"start_date" binding:"required"`
	EndDate      time.Time            `json:"end_date" binding:"required"`
	IsActive     bool                 `json:"is_active"`
	Position     int                  `json:"position" binding:"gte=0"`
	Price        float64              `json:"price" binding:"gte=0"`
	ComparePrice float64              `json:"compare_price" binding:"gte=0"`
	CTA          *models.CallToAction `json:"cta"`
	Version      *int                 `json:"version"`
}

func (r AdvertisementRequest) Apply(a *models.Advertisement) {
	a.Kind = models.AdKind(r.Kind)
	a.Title = r.Title
	a.Subtitle = r.Subtitle
	a.ImageURL = r.ImageURL
	a.StartDate = r.StartDate
	a.EndDate = r.EndDate
	a.IsActive = r.IsActive
	a.Price = r.Price
	a.ComparePrice = r.ComparePrice
	a.CTA = models.CallToAction{}
	if r.CTA != nil {
		a.CTA = *r.CTA
	}
}

// ReorderRequest lists every member of a class in its new display order.
type ReorderRequest struct {
	IDs []uuid.UUID `json:"ids" binding:"required"`
}

type AddToCartRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}
