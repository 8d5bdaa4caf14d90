package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// Error taxonomy. Everything network-facing is converted to one of these at
// this boundary so a single notification mechanism can render them; nothing
// here is ever fatal to the process.
var (
	// ErrNetwork marks transport-level failures (timeout, refused
	// connection). The message is what the user sees.
	ErrNetwork = errors.New("terjadi kesalahan jaringan")

	// ErrSchemaUnavailable means the custom form could not be fetched or is
	// inactive; callers render a full-page message, never a partial form.
	ErrSchemaUnavailable = errors.New("formulir tidak tersedia")
)

// StatusError is a non-2xx response from the backend: the transport worked
// but the API rejected the request.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("permintaan ditolak oleh server (%d)", e.Code)
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}

// UserMessage maps any error from this package to the notification text the
// portal shows. Unknown errors get the generic message rather than leaking
// internals.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrNetwork) {
		return ErrNetwork.Error()
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Error()
	}
	return "terjadi kesalahan, silakan coba lagi"
}
