package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront-backend/cache"
	"storefront-backend/dtos"
	"storefront-backend/merch"
	"storefront-backend/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const landingCacheKey = "landing:events"

// Landing computes the home page event list and caches it. Any event or
// product write must call Invalidate.
type Landing struct {
	DB    *gorm.DB
	Cache cache.Cache
	Log   logrus.FieldLogger
	Limit int
	TTL   time.Duration
}

func withEventProducts(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("sort_order ASC") }).
		Preload("Items.Product")
}

func (l *Landing) logger() logrus.FieldLogger {
	if l.Log == nil {
		return logrus.StandardLogger()
	}
	return l.Log
}

// Events returns the landing list at now. The cache holds every event that
// could appear on the landing page; the window check, ordering and status run
// per call so a cached entry never outlives an event's start or end.
func (l *Landing) Events(ctx context.Context, now time.Time) ([]dtos.EventView, error) {
	candidates, err := l.candidates(ctx, now)
	if err != nil {
		return nil, err
	}

	limit := l.Limit
	if limit <= 0 {
		limit = merch.DefaultLandingLimit
	}
	selected := merch.SelectLanding(candidates, now, limit, func(v dtos.EventView) merch.LandingCandidate {
		return merch.LandingCandidate{
			Window:         v.Window(),
			ShowInLanding:  v.ShowInLanding,
			ActiveProducts: v.ProductsCount,
		}
	})
	for i := range selected {
		selected[i].Status = selected[i].Window().Status(now)
	}
	return selected, nil
}

// candidates are the enabled, landing-flagged events with at least one active
// product, whatever their window.
func (l *Landing) candidates(ctx context.Context, now time.Time) ([]dtos.EventView, error) {
	if l.Cache != nil {
		var cached []dtos.EventView
		err := l.Cache.Get(ctx, landingCacheKey, &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			l.logger().WithError(err).Warn("landing cache read failed")
		}
	}

	var events []models.Event
	err := withEventProducts(l.DB.WithContext(ctx)).
		Where("is_active = ? AND show_in_landing = ?", true, true).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("load landing events: %w", err)
	}

	views := make([]dtos.EventView, 0, len(events))
	for _, e := range events {
		if v := dtos.NewEventView(e, now); v.ProductsCount > 0 {
			views = append(views, v)
		}
	}

	if l.Cache != nil {
		if err := l.Cache.Set(ctx, landingCacheKey, views, l.TTL); err != nil {
			l.logger().WithError(err).Warn("landing cache write failed")
		}
	}
	return views, nil
}

func (l *Landing) Invalidate(ctx context.Context) {
	if l == nil || l.Cache == nil {
		return
	}
	if err := l.Cache.Delete(ctx, landingCacheKey); err != nil {
		l.logger().WithError(err).Warn("landing cache invalidation failed")
	}
}
