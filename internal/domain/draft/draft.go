package draft

import (
	"errors"
	"fmt"
	"time"

	"portal/internal/domain/form"
	"portal/internal/domain/registration"
)

// TTL is the fixed lifetime of a draft. A draft read at or past its expiry is
// treated as absent and deleted.
const TTL = 2 * time.Hour

// Domain errors
var (
	ErrMissingVisitor = errors.New("draft key requires a visitor id")
)

// Key scopes a draft to one visitor and one feature, so concurrent unrelated
// forms never collide. Built explicitly here instead of by string
// concatenation at call sites.
type Key struct {
	VisitorID string
	Target    registration.Target
}

// NewKey builds a draft key.
// PRE: visitorID is non-empty, target validates
func NewKey(visitorID string, target registration.Target) (Key, error) {
	if visitorID == "" {
		return Key{}, ErrMissingVisitor
	}
	if err := target.Validate(); err != nil {
		return Key{}, err
	}
	return Key{VisitorID: visitorID, Target: target}, nil
}

// StorageKey renders the per-feature part of the key in the
// customForm_<featureType>_<featureId|independent> convention.
func (k Key) StorageKey() string {
	if k.Target.FeatureID <= 0 {
		return fmt.Sprintf("customForm_%s_independent", k.Target.Type)
	}
	return fmt.Sprintf("customForm_%s_%d", k.Target.Type, k.Target.FeatureID)
}

// Draft is a time-limited snapshot of in-progress form values plus the
// wizard position, persisted on every autosave and step transition.
type Draft struct {
	Key         Key
	Data        form.ValueRecord
	CurrentStep int
	ExpiresAt   time.Time
	UpdatedAt   time.Time
}

// New stamps a fresh draft with the fixed TTL.
func New(key Key, data form.ValueRecord, currentStep int, now time.Time) Draft {
	return Draft{
		Key:         key,
		Data:        data,
		CurrentStep: currentStep,
		ExpiresAt:   now.Add(TTL),
		UpdatedAt:   now,
	}
}

// Expired reports whether the draft must be treated as absent.
func (d Draft) Expired(now time.Time) bool {
	return !now.Before(d.ExpiresAt)
}
