package web

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"time"

	"portal/internal/adapters/backend"
	"portal/internal/adapters/email"
	"portal/internal/adapters/http/middleware"
	draftStore "portal/internal/adapters/storage/draft"
	"portal/internal/application/debounce"
	"portal/internal/domain/activity"
	"portal/internal/domain/certificate"
	"portal/internal/domain/club"
	"portal/internal/domain/counseling"
	"portal/internal/domain/form"
	"portal/internal/domain/leaderboard"
	"portal/internal/domain/profile"
	"portal/internal/domain/registration"
)

// Backend is the slice of the API client the handlers use. *backend.Client
// satisfies it; tests substitute a mock.
type Backend interface {
	ListActivities(ctx context.Context, query backend.ActivityQuery) ([]activity.Activity, error)
	GetActivity(ctx context.Context, id int64) (activity.Activity, bool, error)
	ListClubs(ctx context.Context) ([]club.Club, error)
	GetClub(ctx context.Context, id int64) (club.Club, bool, error)
	ListIndependentForms(ctx context.Context) ([]backend.CustomForm, error)
	GetIndependentForm(ctx context.Context, formID int64) (backend.CustomForm, bool, error)
	FetchCustomForm(ctx context.Context, target registration.Target) (backend.CustomForm, bool, error)
	Register(ctx context.Context, sub registration.Submission) (registration.Confirmation, error)
	GetMyProfile(ctx context.Context) (profile.Profile, error)
	UpdateProfile(ctx context.Context, rec form.ValueRecord) error
	GetLeaderboard(ctx context.Context, period string) (leaderboard.Board, error)
	ListCertificates(ctx context.Context) ([]certificate.Certificate, error)
	GetCertificate(ctx context.Context, id int64) (certificate.Certificate, bool, error)
	RequestCounseling(ctx context.Context, req counseling.Request) (string, error)
}

// Services holds the handler dependencies.
type Services struct {
	Backend Backend
	Drafts  draftStore.Store
	Email   email.Sender

	// EmailFrom is the sender address for registration receipts. Empty
	// disables receipts.
	EmailFrom string
}

// loadCSRFKey reads the CSRF secret from PORTAL_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("PORTAL_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("PORTAL_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("PORTAL_ENV") == "production" {
		log.Fatal("PORTAL_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (tokens won't survive restart). Set PORTAL_CSRF_KEY for production.")
	return key
}

// Global services instance (set by NewMux)
var services *Services

// Autosave coalescer (set by NewMux). Flush on shutdown so the last edits
// are not lost.
var autosaver *debounce.Debouncer

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// NewMux wires HTTP handlers for the app.
func NewMux(staticDir string, svc *Services) http.Handler {
	services = svc
	autosaver = debounce.New(debounce.DefaultWindow)
	middleware.SecureCookies = os.Getenv("PORTAL_ENV") == "production"

	mux := http.NewServeMux()
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	registerRoutes(mux)

	csrfKey := loadCSRFKey()
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: Visitor -> CSRF -> SecurityHeaders -> RateLimit -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey),
		middleware.Visitor,
		middleware.RateLimit(limiter),
	)
}

// Shutdown flushes pending autosaves.
func Shutdown() {
	if autosaver != nil {
		autosaver.Flush()
	}
}
