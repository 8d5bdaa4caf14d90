package web

import (
	"bytes"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// templatesDir resolves relative to the process working directory: the repo
// root in production, the package dir under `go test`.
var templatesDir = func() string {
	if _, err := os.Stat("templates"); err == nil {
		return "templates"
	}
	return "internal/adapters/http/templates"
}()

func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	funcMap := template.FuncMap{
		"csrfToken": func() string { return csrf.Token(r) },
		"renderMarkdown": func(md string) template.HTML {
			var buf bytes.Buffer
			if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
				return template.HTML(template.HTMLEscapeString(md))
			}
			return template.HTML(buf.String())
		},
		"renderField": renderField,
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return "-"
			}
			return t.Format("2 January 2006")
		},
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
		"itoa": func(n int64) string { return strconv.FormatInt(n, 10) },
	}

	layoutPath := filepath.Join(templatesDir, "layout.html")
	pagePath := filepath.Join(templatesDir, templateName)
	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFiles(layoutPath, pagePath)
	if err != nil {
		http.Error(w, "Template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tpl.Execute(w, data); err != nil {
		http.Error(w, "Render error: "+err.Error(), http.StatusInternalServerError)
		return
	}
}

// renderError shows the full-page error message with a retry link.
func renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	w.WriteHeader(status)
	renderTemplate(w, r, "error.html", map[string]any{
		"Title":   "Terjadi Kesalahan",
		"Message": message,
		"Back":    r.Header.Get("Referer"),
	})
}

// queryID parses the `id` query parameter.
func queryID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	return id, err == nil && id > 0
}

func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/", handleHome)
	mux.HandleFunc("/activities", handleActivityList)
	mux.HandleFunc("/activity", handleActivityDetail)
	mux.HandleFunc("/clubs", handleClubList)
	mux.HandleFunc("/club", handleClubDetail)
	mux.HandleFunc("/forms", handleIndependentFormList)
	mux.HandleFunc("/leaderboard", handleLeaderboard)
	mux.HandleFunc("/certificates", handleCertificateList)
	mux.HandleFunc("/certificate", handleCertificatePrint)
	mux.HandleFunc("/counseling", handleCounseling)
	mux.HandleFunc("/profile", handleProfile)
	mux.HandleFunc("/register", handleWizard)
	mux.HandleFunc("/register/step", handleWizardStep)
	mux.HandleFunc("/register/back", handleWizardBack)
	mux.HandleFunc("/register/autosave", handleWizardAutosave)
	mux.HandleFunc("/register/confirm", handleDirectRegistration)
	mux.HandleFunc("/register/success", handleWizardSuccess)
}
