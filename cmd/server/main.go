package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	"portal/internal/adapters/backend"
	emailPkg "portal/internal/adapters/email"
	web "portal/internal/adapters/http"
	"portal/internal/adapters/storage"
	draftStore "portal/internal/adapters/storage/draft"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Draft database with WAL mode, foreign keys, and busy timeout
	dbPath := envOrDefault("PORTAL_DB", "portal.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}
	if err := storage.MigrateDB(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	timedDB := storage.NewTimedDB(db)
	drafts := draftStore.NewSQLiteStore(timedDB)

	// Drop drafts that expired while the server was down
	if n, err := drafts.PurgeExpired(context.Background(), time.Now()); err != nil {
		log.Printf("draft purge failed: %v", err)
	} else if n > 0 {
		log.Printf("purged %d expired drafts", n)
	}

	apiBase := envOrDefault("PORTAL_API_BASE", "http://localhost:9000/api/v1")
	client := backend.NewClient(apiBase)

	// Configure email sender for registration receipts
	resendKey := os.Getenv("PORTAL_RESEND_KEY")
	emailFrom := envOrDefault("PORTAL_RESEND_FROM", "Portal Kemahasiswaan <noreply@portal.ac.id>")
	var sender emailPkg.Sender
	if resendKey != "" {
		sender = emailPkg.NewResendSender(resendKey, emailFrom)
		log.Println("Email sender configured (Resend)")
	} else {
		sender = emailPkg.NewNoopSender()
		if os.Getenv("PORTAL_ENV") == "production" {
			log.Println("WARNING: PORTAL_RESEND_KEY is not set; receipt delivery is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop; set PORTAL_RESEND_KEY for real delivery)")
		}
	}

	mux := web.NewMux("static", &web.Services{
		Backend:   client,
		Drafts:    drafts,
		Email:     sender,
		EmailFrom: emailFrom,
	})

	addr := envOrDefault("PORTAL_ADDR", ":8080")
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		log.Printf("Portal %s starting on %s (env=%s, api=%s, schema=%d)",
			version, addr, envOrDefault("PORTAL_ENV", "development"), apiBase, storage.LatestSchemaVersion())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	// Flush pending autosaves before closing the draft database
	web.Shutdown()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
