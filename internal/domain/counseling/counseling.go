package counseling

import (
	"errors"
	"time"
)

// Session modes
const (
	ModeOnline = "online"
	ModeOnsite = "onsite"
)

// ValidModes contains all valid session modes.
var ValidModes = []string{ModeOnline, ModeOnsite}

// Domain errors
var (
	ErrEmptyTopic      = errors.New("topik konseling wajib diisi")
	ErrInvalidMode     = errors.New("mode sesi harus online atau onsite")
	ErrMissingSchedule = errors.New("jadwal yang diinginkan wajib diisi")
)

// Request is a peer counseling session request the portal forwards to the
// backend; counselor matching and scheduling live there.
type Request struct {
	Topic         string
	Mode          string
	PreferredDate time.Time
	Notes         string
}

// Validate checks the request before it leaves the portal.
// POST: returns nil iff topic, mode, and preferred date are usable
func (r Request) Validate() error {
	if r.Topic == "" {
		return ErrEmptyTopic
	}
	valid := false
	for _, m := range ValidModes {
		if r.Mode == m {
			valid = true
			break
		}
	}
	if !valid {
		return ErrInvalidMode
	}
	if r.PreferredDate.IsZero() {
		return ErrMissingSchedule
	}
	return nil
}
