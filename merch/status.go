// Package merch holds the merchandising rules shared by events and advertisements:
// schedule status, compare-price discounts, landing-page selection and display slots.
package merch

import "time"

type Status string

const (
	StatusUpcoming Status = "upcoming"
	StatusActive   Status = "active"
	StatusExpired  Status = "expired"
	StatusInactive Status = "inactive"
)

func (s Status) Valid() bool {
	switch s {
	case StatusUpcoming, StatusActive, StatusExpired, StatusInactive:
		return true
	}
	return false
}

// ResolveStatus derives the display status of a scheduled entity at now.
// The kill switch wins over the schedule. A window whose start is after its
// end is accepted and can never be active.
func ResolveStatus(isActive bool, start, end, now time.Time) Status {
	switch {
	case !isActive:
		return StatusInactive
	case now.Before(start):
		return StatusUpcoming
	case now.After(end):
		return StatusExpired
	default:
		return StatusActive
	}
}

// Window is the scheduling part of an event or advertisement.
type Window struct {
	IsActive  bool
	StartDate time.Time
	EndDate   time.Time
}

func (w Window) Status(now time.Time) Status {
	return ResolveStatus(w.IsActive, w.StartDate, w.EndDate, now)
}

// Contains reports whether now falls inside [StartDate, EndDate], ignoring IsActive.
func (w Window) Contains(now time.Time) bool {
	return !now.Before(w.StartDate) && !now.After(w.EndDate)
}
