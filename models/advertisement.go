package models

import (
	"time"

	"storefront-backend/merch"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AdKind string

const (
	AdKindHorizontal AdKind = "horizontal"
	AdKindVertical   AdKind = "vertical"
)

func ParseAdKind(s string) (AdKind, bool) {
	switch AdKind(s) {
	case AdKindHorizontal, AdKindVertical:
		return AdKind(s), true
	}
	return "", false
}

type Advertisement struct {
	ID           uuid.UUID    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Kind         AdKind       `gorm:"type:varchar(20);not null;index" json:"kind"`
	Title        string       `gorm:"not null" json:"title"`
	Subtitle     string       `json:"subtitle"`
	ImageURL     string       `json:"image_url"`
	StartDate    time.Time    `gorm:"not null" json:"start_date"`
	EndDate      time.Time    `gorm:"not null" json:"end_date"`
	IsActive     bool         `json:"is_active"`
	Position     int          `gorm:"not null;index" json:"position"`
	Price        float64      `gorm:"default:0" json:"price"`
	ComparePrice float64      `gorm:"default:0" json:"compare_price"`
	Version      int          `gorm:"not null;default:0" json:"version"`
	CTA          CallToAction `gorm:"embedded;embeddedPrefix:cta_" json:"cta"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func (a *Advertisement) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

func (a *Advertisement) Window() merch.Window {
	return merch.Window{IsActive: a.IsActive, StartDate: a.StartDate, EndDate: a.EndDate}
}

func (a *Advertisement) Discount() merch.Discount {
	return merch.ComputeDiscount(a.Price, a.ComparePrice)
}
