package merch

import (
	"sort"
	"time"
)

// DefaultLandingLimit is how many events the storefront home page shows.
const DefaultLandingLimit = 5

// LandingCandidate is what the landing filter needs to know about an event.
// ActiveProducts must already exclude inactive products.
type LandingCandidate struct {
	Window         Window
	ShowInLanding  bool
	ActiveProducts int
}

// LandingEligible is stricter than an active status: the event must also be
// flagged for the landing page and still have at least one active product.
func LandingEligible(c LandingCandidate, now time.Time) bool {
	return c.Window.IsActive &&
		c.ShowInLanding &&
		c.Window.Contains(now) &&
		c.ActiveProducts > 0
}

// SelectLanding keeps the eligible items, most recently started first, and caps
// the result at limit. A limit of zero or less means no cap.
func SelectLanding[T any](items []T, now time.Time, limit int, view func(T) LandingCandidate) []T {
	type entry struct {
		item  T
		start time.Time
	}

	eligible := make([]entry, 0, len(items))
	for _, it := range items {
		c := view(it)
		if LandingEligible(c, now) {
			eligible = append(eligible, entry{item: it, start: c.Window.StartDate})
		}
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].start.After(eligible[j].start)
	})

	if limit > 0 && len(eligible) > limit {
		eligible = eligible[:limit]
	}

	out := make([]T, len(eligible))
	for i, e := range eligible {
		out[i] = e.item
	}
	return out
}
