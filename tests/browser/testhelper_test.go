package browser_test

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"

	_ "modernc.org/sqlite"

	"portal/internal/adapters/backend"
	web "portal/internal/adapters/http"
	"portal/internal/adapters/http/middleware"
	"portal/internal/adapters/storage"
	draftStore "portal/internal/adapters/storage/draft"
)

// stubAPI is a minimal in-process stand-in for the backend API. Tests load
// it with forms and inspect what the portal sent.
type stubAPI struct {
	mu            sync.Mutex
	forms         map[string]map[string]any // feature_type -> custom form envelope
	profile       map[string]any
	registrations []map[string]any
	registerCode  int
	registerBody  map[string]any
}

func newStubAPI() *stubAPI {
	return &stubAPI{
		forms: make(map[string]map[string]any),
		profile: map[string]any{
			"full_name": "Siti Rahma",
			"email":     "siti@example.ac.id",
		},
		registerCode: http.StatusOK,
		registerBody: map[string]any{
			"message": "Pendaftaran berhasil",
			"data":    map[string]any{"id": "sub-0001"},
		},
	}
}

func (s *stubAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/custom-forms/by-feature", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		form, ok := s.forms[r.URL.Query().Get("feature_type")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]any{"message": "not found"})
			return
		}
		json.NewEncoder(w).Encode(form)
	})
	mux.HandleFunc("/profiles/me", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		json.NewEncoder(w).Encode(s.profile)
	})
	mux.HandleFunc("/profiles", func(w http.ResponseWriter, r *http.Request) {
		var rec map[string]any
		json.NewDecoder(r.Body).Decode(&rec)
		s.mu.Lock()
		for k, v := range rec {
			s.profile[k] = v
		}
		s.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/custom-forms/register", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		s.mu.Lock()
		s.registrations = append(s.registrations, body)
		code := s.registerCode
		resp := s.registerBody
		s.mu.Unlock()
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(resp)
	})
	mux.HandleFunc("/activities", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
	})
	return mux
}

func (s *stubAPI) lastRegistration(t *testing.T) map[string]any {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.registrations) == 0 {
		t.Fatal("no registration reached the stub API")
	}
	return s.registrations[len(s.registrations)-1]
}

// testApp holds the running portal, the stub API, and Playwright handles.
type testApp struct {
	BaseURL string
	API     *stubAPI
	DB      *sql.DB
	Drafts  *draftStore.SQLiteStore
	Server  *http.Server
	PW      *playwright.Playwright
	Browser playwright.Browser
}

// newTestApp wires the portal against a stub backend and starts everything.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("failed to open test DB: %v", err)
	}
	if err := storage.MigrateDB(db); err != nil {
		t.Fatalf("failed to migrate test DB: %v", err)
	}
	drafts := draftStore.NewSQLiteStore(db)

	api := newStubAPI()
	apiServer := httptest.NewServer(api.handler())

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	// Change to project root so relative template/static paths work
	projectRoot := findProjectRoot(t)
	origDir, _ := os.Getwd()
	if err := os.Chdir(projectRoot); err != nil {
		t.Fatalf("failed to chdir to project root: %v", err)
	}
	t.Cleanup(func() { os.Chdir(origDir) })

	middleware.ExtraTrustedOrigins = append(middleware.ExtraTrustedOrigins,
		fmt.Sprintf("127.0.0.1:%d", port),
		fmt.Sprintf("localhost:%d", port),
	)

	mux := web.NewMux("static", &web.Services{
		Backend: backend.NewClient(apiServer.URL),
		Drafts:  drafts,
	})
	srv := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", port),
		Handler: mux,
	}
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("test server error: %v", err)
		}
	}()

	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	for i := 0; i < 50; i++ {
		resp, err := http.Get(baseURL + "/activities")
		if err == nil {
			resp.Body.Close()
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	pw, err := playwright.Run()
	if err != nil {
		t.Fatalf("failed to start Playwright: %v", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		t.Fatalf("failed to launch browser: %v", err)
	}

	app := &testApp{
		BaseURL: baseURL,
		API:     api,
		DB:      db,
		Drafts:  drafts,
		Server:  srv,
		PW:      pw,
		Browser: browser,
	}

	t.Cleanup(func() {
		browser.Close()
		pw.Stop()
		srv.Close()
		apiServer.Close()
		db.Close()
	})

	return app
}

// newPage creates a new browser page (tab).
func (a *testApp) newPage(t *testing.T) playwright.Page {
	t.Helper()
	page, err := a.Browser.NewPage()
	if err != nil {
		t.Fatalf("failed to create page: %v", err)
	}
	t.Cleanup(func() { page.Close() })
	return page
}

// findProjectRoot walks up from the working directory to find the project root (contains go.mod).
func findProjectRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (no go.mod)")
		}
		dir = parent
	}
}

// twoStepForm is the standard wizard fixture: a profile section plus one
// custom section.
func twoStepForm() map[string]any {
	return map[string]any{
		"id":           1,
		"form_name":    "Pendaftaran Pelatihan",
		"feature_type": "activity_registration",
		"feature_id":   7,
		"is_active":    true,
		"form_schema": map[string]any{
			"sections": []any{
				map[string]any{
					"name": "Data Diri",
					"fields": []any{
						map[string]any{"key": "full_name", "label": "Nama Lengkap", "type": "text", "required": true},
						map[string]any{"key": "email", "label": "Email", "type": "text", "required": true},
					},
				},
				map[string]any{
					"name": "Motivasi",
					"fields": []any{
						map[string]any{"key": "reason", "label": "Alasan", "type": "textarea", "required": true},
					},
				},
			},
		},
	}
}
