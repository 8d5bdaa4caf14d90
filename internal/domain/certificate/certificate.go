package certificate

import "time"

// Certificate mirrors a backend-generated certificate. The portal only
// lists and prints them; generation and signing live in the backend.
type Certificate struct {
	ID            int64
	Number        string
	Title         string
	RecipientName string
	ActivityName  string
	IssuedAt      time.Time
	FileURL       string
	Verified      bool
}
