package models

import (
	"time"

	"storefront-backend/merch"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Event struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Title         string         `gorm:"not null" json:"title"`
	Subtitle      string         `json:"subtitle"`
	Description   string         `json:"description"`
	ImageURL      string         `json:"image_url"`
	StartDate     time.Time      `gorm:"not null;index" json:"start_date"`
	EndDate       time.Time      `gorm:"not null" json:"end_date"`
	IsActive      bool           `json:"is_active"`
	ShowInLanding bool           `gorm:"index" json:"show_in_landing"`
	Position      int            `gorm:"not null;index" json:"position"`
	Version       int            `gorm:"not null;default:0" json:"version"`
	CTA           CallToAction   `gorm:"embedded;embeddedPrefix:cta_" json:"cta"`
	Items         []EventProduct `gorm:"foreignKey:EventID" json:"-"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

func (e *Event) Window() merch.Window {
	return merch.Window{IsActive: e.IsActive, StartDate: e.StartDate, EndDate: e.EndDate}
}

// ActiveProducts returns the event's products in sort order, skipping
// inactive or deleted ones. Items must be preloaded with their Product.
func (e *Event) ActiveProducts() []Product {
	products := make([]Product, 0, len(e.Items))
	for _, item := range e.Items {
		if item.Product.ID == uuid.Nil || !item.Product.IsActive {
			continue
		}
		products = append(products, item.Product)
	}
	return products
}

func (e *Event) LandingCandidate() merch.LandingCandidate {
	return merch.LandingCandidate{
		Window:         e.Window(),
		ShowInLanding:  e.ShowInLanding,
		ActiveProducts: len(e.ActiveProducts()),
	}
}

// EventProduct is one entry of an event's ordered product list.
type EventProduct struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	EventID   uuid.UUID `gorm:"type:uuid;not null;index" json:"event_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	SortOrder int       `gorm:"not null;default:0" json:"sort_order"`
	Product   Product   `gorm:"foreignKey:ProductID" json:"product"`
}

func (ep *EventProduct) BeforeCreate(tx *gorm.DB) error {
	if ep.ID == uuid.Nil {
		ep.ID = uuid.New()
	}
	return nil
}
