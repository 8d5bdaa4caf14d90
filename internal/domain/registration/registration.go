package registration

import (
	"errors"
	"time"

	"portal/internal/domain/form"
)

// Feature types: the kind of entity a registration form is attached to.
const (
	FeatureActivity    = "activity_registration"
	FeatureClub        = "club_registration"
	FeatureIndependent = "independent_form"
)

// ValidFeatureTypes contains all valid feature types.
var ValidFeatureTypes = []string{FeatureActivity, FeatureClub, FeatureIndependent}

// Domain errors
var (
	ErrInvalidFeatureType = errors.New("feature type must be one of: activity_registration, club_registration, independent_form")
	ErrMissingFeatureID   = errors.New("feature id is required for activity and club registrations")
	// ErrAlreadyRegistered is a softer failure: the user is registered for
	// this feature already and should see a notice, not a hard error.
	ErrAlreadyRegistered = errors.New("sudah terdaftar untuk fitur ini")
)

// Target identifies what a submission registers for. FeatureID 0 means
// absent, which is only legal for independent forms (they are addressed by
// their form id instead).
type Target struct {
	Type      string
	FeatureID int64
}

// Validate checks that the target is well-formed.
// POST: returns nil iff the type is known and an id is present when required
func (t Target) Validate() error {
	valid := false
	for _, ft := range ValidFeatureTypes {
		if t.Type == ft {
			valid = true
			break
		}
	}
	if !valid {
		return ErrInvalidFeatureType
	}
	if t.FeatureID <= 0 && t.Type != FeatureIndependent {
		return ErrMissingFeatureID
	}
	return nil
}

// ParseFeatureType validates a raw feature type string from a URL.
func ParseFeatureType(s string) (string, error) {
	for _, ft := range ValidFeatureTypes {
		if s == ft {
			return ft, nil
		}
	}
	return "", ErrInvalidFeatureType
}

// Submission is the accumulated wizard output handed to the backend.
// ProfileData is empty when the profile step already persisted its values
// through the profile endpoint; the backend reads them from its own store.
type Submission struct {
	Target          Target
	ProfileData     form.ValueRecord
	CustomFormData  form.ValueRecord
	ClientRequestID string
	SubmittedAt     time.Time
}

// Confirmation is what the backend returns on success; the id only picks the
// redirect destination, post-submission content is rendered by the caller.
type Confirmation struct {
	SubmissionID string
	Message      string
}
