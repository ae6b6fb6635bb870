package handlers

import (
	"net/http"

	"storefront-backend/dtos"
	"storefront-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// StorefrontHandler serves the home page payload in one round trip.
type StorefrontHandler struct {
	DB      *gorm.DB
	Landing *Landing
	Slots   AdSlots
	Log     logrus.FieldLogger
	Clock   Clock
}

func (h *StorefrontHandler) GetStorefront(c *gin.Context) {
	now := h.Clock.now()
	sf := dtos.Storefront{GeneratedAt: now}

	g, ctx := errgroup.WithContext(c.Request.Context())

	g.Go(func() error {
		events, err := h.Landing.Events(ctx, now)
		sf.Events = events
		return err
	})

	// Each kind shows at most as many ads as it has slots.
	placement := func(kind models.AdKind, dst *[]dtos.AdvertisementView) func() error {
		return func() error {
			ads, err := activeAds(ctx, h.DB, kind, now)
			if err != nil {
				return err
			}
			if capacity := h.Slots.class(kind).Capacity; len(ads) > capacity {
				ads = ads[:capacity]
			}
			*dst = dtos.NewAdvertisementViews(ads, now)
			return nil
		}
	}
	g.Go(placement(models.AdKindHorizontal, &sf.HorizontalAds))
	g.Go(placement(models.AdKindVertical, &sf.VerticalAds))

	if err := g.Wait(); err != nil {
		respondError(c, h.Log, err, "Failed to load storefront")
		return
	}

	c.JSON(http.StatusOK, sf)
}
