// Package dtos holds the JSON shapes served to storefront and admin clients.
// Derived fields (status, discount, counts) are computed per request and
// never stored.
package dtos

import (
	"time"

	"storefront-backend/merch"
	"storefront-backend/models"
)

type ProductView struct {
	models.Product
	merch.Discount
}

func NewProductView(p models.Product) ProductView {
	return ProductView{Product: p, Discount: p.Discount()}
}

func NewProductViews(products []models.Product) []ProductView {
	views := make([]ProductView, len(products))
	for i, p := range products {
		views[i] = NewProductView(p)
	}
	return views
}

type EventView struct {
	models.Event
	CTA           *models.CallToAction `json:"cta"`
	Status        merch.Status         `json:"status"`
	Products      []ProductView        `json:"products"`
	ProductsCount int                  `json:"products_count"`
}

// NewEventView lists only active products. The event's Items must be
// preloaded with their Product.
func NewEventView(e models.Event, now time.Time) EventView {
	products := NewProductViews(e.ActiveProducts())
	return EventView{
		Event:         e,
		CTA:           ctaOrNil(e.CTA),
		Status:        e.Window().Status(now),
		Products:      products,
		ProductsCount: len(products),
	}
}

func NewEventViews(events []models.Event, now time.Time) []EventView {
	views := make([]EventView, len(events))
	for i, e := range events {
		views[i] = NewEventView(e, now)
	}
	return views
}

type AdvertisementView struct {
	models.Advertisement
	merch.Discount
	CTA    *models.CallToAction `json:"cta"`
	Status merch.Status         `json:"status"`
}

func NewAdvertisementView(a models.Advertisement, now time.Time) AdvertisementView {
	return AdvertisementView{
		Advertisement: a,
		Discount:      a.Discount(),
		CTA:           ctaOrNil(a.CTA),
		Status:        a.Window().Status(now),
	}
}

func NewAdvertisementViews(ads []models.Advertisement, now time.Time) []AdvertisementView {
	views := make([]AdvertisementView, len(ads))
	for i, a := range ads {
		views[i] = NewAdvertisementView(a, now)
	}
	return views
}

func ctaOrNil(c models.CallToAction) *models.CallToAction {
	if c.IsZero() {
		return nil
	}
	return &c
}

type CartItemView struct {
	ID        string      `json:"id"`
	ProductID string      `json:"product_id"`
	Quantity  int         `json:"quantity"`
	Product   ProductView `json:"product"`
}

type CartView struct {
	Items   []CartItemView    `json:"items"`
	Summary merch.CartSummary `json:"summary"`
}

func NewCartView(items []models.CartItem) CartView {
	view := CartView{Items: make([]CartItemView, len(items))}
	lines := make([]merch.CartLine, len(items))
	for i, item := range items {
		view.Items[i] = CartItemView{
			ID:        item.ID.String(),
			ProductID: item.ProductID.String(),
			Quantity:  item.Quantity,
			Product:   NewProductView(item.Product),
		}
		lines[i] = merch.CartLine{
			Price:        item.Product.Price,
			ComparePrice: item.Product.ComparePrice,
			Quantity:     item.Quantity,
		}
	}
	view.Summary = merch.SummarizeCart(lines)
	return view
}

// Storefront is the home page payload.
type Storefront struct {
	Events        []EventView         `json:"events"`
	HorizontalAds []AdvertisementView `json:"horizontal_ads"`
	VerticalAds   []AdvertisementView `json:"vertical_ads"`
	GeneratedAt   time.Time           `json:"generated_at"`
}
