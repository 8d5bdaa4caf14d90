package activity

import "time"

// Registration statuses the backend reports for an activity.
const (
	StatusUpcoming = "upcoming"
	StatusOpen     = "open"
	StatusClosed   = "closed"
	StatusFinished = "finished"
)

// Activity mirrors the backend's activity resource. Description is markdown.
type Activity struct {
	ID          int64
	Name        string
	Description string
	Category    string
	Location    string
	StartDate   time.Time
	EndDate     time.Time
	Quota       int
	Registered  int
	Points      int
	ImageURL    string
	Status      string
}

// AcceptsRegistration reports whether the register button should show.
func (a Activity) AcceptsRegistration() bool {
	if a.Status != StatusOpen {
		return false
	}
	return a.Quota == 0 || a.Registered < a.Quota
}

// SlotsLeft returns remaining capacity, or -1 when the quota is unlimited.
func (a Activity) SlotsLeft() int {
	if a.Quota == 0 {
		return -1
	}
	left := a.Quota - a.Registered
	if left < 0 {
		return 0
	}
	return left
}
