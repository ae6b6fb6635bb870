package models

import (
	"testing"
	"time"

	"storefront-backend/merch"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}

	tables := []string{
		`CREATE TABLE IF NOT EXISTS "products" (
			"id" TEXT PRIMARY KEY, "name" TEXT NOT NULL, "description" TEXT, "image_url" TEXT,
			"price" REAL NOT NULL, "compare_price" REAL DEFAULT 0, "stock" INTEGER DEFAULT 0,
			"is_active" INTEGER DEFAULT 0,
			"created_at" DATETIME, "updated_at" DATETIME, "deleted_at" DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS "events" (
			"id" TEXT PRIMARY KEY, "title" TEXT NOT NULL, "subtitle" TEXT, "description" TEXT,
			"image_url" TEXT, "start_date" DATETIME NOT NULL, "end_date" DATETIME NOT NULL,
			"is_active" INTEGER DEFAULT 0, "show_in_landing" INTEGER DEFAULT 0,
			"position" INTEGER NOT NULL, "version" INTEGER NOT NULL DEFAULT 0,
			"cta_label" TEXT, "cta_url" TEXT, "cta_open_in_new_tab" INTEGER DEFAULT 0,
			"created_at" DATETIME, "updated_at" DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS "event_products" (
			"id" TEXT PRIMARY KEY, "event_id" TEXT NOT NULL, "product_id" TEXT NOT NULL,
			"sort_order" INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS "advertisements" (
			"id" TEXT PRIMARY KEY, "kind" TEXT NOT NULL, "title" TEXT NOT NULL, "subtitle" TEXT,
			"image_url" TEXT, "start_date" DATETIME NOT NULL, "end_date" DATETIME NOT NULL,
			"is_active" INTEGER DEFAULT 0, "position" INTEGER NOT NULL,
			"price" REAL DEFAULT 0, "compare_price" REAL DEFAULT 0, "version" INTEGER NOT NULL DEFAULT 0,
			"cta_label" TEXT, "cta_url" TEXT, "cta_open_in_new_tab" INTEGER DEFAULT 0,
			"created_at" DATETIME, "updated_at" DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS "cart_items" (
			"id" TEXT PRIMARY KEY, "user_id" TEXT NOT NULL, "product_id" TEXT NOT NULL,
			"quantity" INTEGER DEFAULT 1,
			"created_at" DATETIME, "updated_at" DATETIME, "deleted_at" DATETIME
		)`,
	}

	for _, sql := range tables {
		if err := db.Exec(sql).Error; err != nil {
			t.Fatal(err)
		}
	}
	return db
}

// ==================== BeforeCreate Hook Tests ====================

func TestProductBeforeCreate(t *testing.T) {
	db := setupTestDB(t)
	prod := Product{Name: "Tea", Price: 2}
	if err := db.Create(&prod).Error; err != nil {
		t.Fatal(err)
	}
	if prod.ID == uuid.Nil {
		t.Error("UUID should have been generated")
	}
}

func TestProductBeforeCreatePreservesUUID(t *testing.T) {
	db := setupTestDB(t)
	id := uuid.New()
	prod := Product{ID: id, Name: "Tea", Price: 2}
	if err := db.Create(&prod).Error; err != nil {
		t.Fatal(err)
	}
	if prod.ID != id {
		t.Error("UUID should have been preserved")
	}
}

func TestEventBeforeCreate(t *testing.T) {
	db := setupTestDB(t)
	ev := Event{Title: "Spring", StartDate: time.Now(), EndDate: time.Now().Add(time.Hour), Position: 1}
	if err := db.Create(&ev).Error; err != nil {
		t.Fatal(err)
	}
	if ev.ID == uuid.Nil {
		t.Error("UUID should have been generated")
	}
}

func TestEventProductBeforeCreate(t *testing.T) {
	db := setupTestDB(t)
	item := EventProduct{EventID: uuid.New(), ProductID: uuid.New()}
	if err := db.Create(&item).Error; err != nil {
		t.Fatal(err)
	}
	if item.ID == uuid.Nil {
		t.Error("UUID should have been generated")
	}
}

func TestAdvertisementBeforeCreate(t *testing.T) {
	db := setupTestDB(t)
	ad := Advertisement{Kind: AdKindVertical, Title: "Ad", StartDate: time.Now(), EndDate: time.Now(), Position: 1}
	if err := db.Create(&ad).Error; err != nil {
		t.Fatal(err)
	}
	if ad.ID == uuid.Nil {
		t.Error("UUID should have been generated")
	}
}

func TestCartItemBeforeCreate(t *testing.T) {
	db := setupTestDB(t)
	item := CartItem{UserID: uuid.New(), ProductID: uuid.New(), Quantity: 2}
	if err := db.Create(&item).Error; err != nil {
		t.Fatal(err)
	}
	if item.ID == uuid.Nil {
		t.Error("UUID should have been generated")
	}
}

// ==================== Embedded CTA ====================

func TestCallToActionColumns(t *testing.T) {
	db := setupTestDB(t)
	ev := Event{
		Title:     "Sale",
		StartDate: time.Now(),
		EndDate:   time.Now(),
		Position:  1,
		CTA:       CallToAction{Label: "Shop now", URL: "/sale", OpenInNewTab: true},
	}
	if err := db.Create(&ev).Error; err != nil {
		t.Fatal(err)
	}

	var label string
	db.Raw(`SELECT cta_label FROM events WHERE id = ?`, ev.ID).Scan(&label)
	if label != "Shop now" {
		t.Errorf("expected cta_label 'Shop now', got %q", label)
	}

	var loaded Event
	db.First(&loaded, "id = ?", ev.ID)
	if loaded.CTA != ev.CTA {
		t.Errorf("expected %+v, got %+v", ev.CTA, loaded.CTA)
	}
}

func TestCallToActionIsZero(t *testing.T) {
	if !(CallToAction{}).IsZero() {
		t.Error("empty CTA should be zero")
	}
	if (CallToAction{URL: "/x"}).IsZero() {
		t.Error("CTA with URL should not be zero")
	}
}

// ==================== Derived Fields ====================

func TestEventActiveProducts(t *testing.T) {
	live := Product{ID: uuid.New(), Name: "Live", IsActive: true}
	off := Product{ID: uuid.New(), Name: "Off"}
	ev := Event{Items: []EventProduct{{Product: off}, {Product: live}, {}}}

	got := ev.ActiveProducts()
	if len(got) != 1 || got[0].ID != live.ID {
		t.Errorf("expected only the active product, got %+v", got)
	}
	if ev.LandingCandidate().ActiveProducts != 1 {
		t.Error("landing candidate should count active products")
	}
}

func TestEventWindow(t *testing.T) {
	start := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
	ev := Event{IsActive: true, StartDate: start, EndDate: end}

	if got := ev.Window().Status(start.AddDate(0, 0, 5)); got != merch.StatusActive {
		t.Errorf("expected active, got %s", got)
	}
}

func TestAdvertisementDiscount(t *testing.T) {
	ad := Advertisement{Price: 100, ComparePrice: 150}
	d := ad.Discount()
	if !d.HasDiscount || d.Percentage != 33 || d.Savings != 50 {
		t.Errorf("unexpected discount %+v", d)
	}
}

func TestParseAdKind(t *testing.T) {
	if k, ok := ParseAdKind("horizontal"); !ok || k != AdKindHorizontal {
		t.Error("horizontal should parse")
	}
	if k, ok := ParseAdKind("vertical"); !ok || k != AdKindVertical {
		t.Error("vertical should parse")
	}
	if _, ok := ParseAdKind("banner"); ok {
		t.Error("unknown kind should not parse")
	}
}
