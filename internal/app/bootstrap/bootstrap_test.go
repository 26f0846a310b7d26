package bootstrap

import (
	"context"
	"net/http/httptest"
	"testing"

	"arcology/site/internal/config"
	"arcology/site/internal/db"
	applog "arcology/site/internal/log"
)

func TestBuildWiresLocalCatalog(t *testing.T) {
	t.Parallel()

	result, err := Build(context.Background(), Dependencies{
		Config: config.Config{DBPath: db.MemoryPath, SiteTheme: "arcology"},
		Logger: applog.Discard(),
	})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	t.Cleanup(func() {
		if err := result.Cleanup(); err != nil {
			t.Errorf("cleanup: %v", err)
		}
	})

	rec := httptest.NewRecorder()
	result.HTTPServer.ServeHTTP(rec, httptest.NewRequest("GET", "/api/faqs", nil))
	if rec.Code != 200 {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if rec.Body.String() != "[]\n" && rec.Body.String() != "[]" {
		t.Fatalf("expected empty FAQ list, got %q", rec.Body.String())
	}
}

func TestBuildRejectsUnknownTheme(t *testing.T) {
	t.Parallel()

	_, err := Build(context.Background(), Dependencies{
		Config: config.Config{DBPath: db.MemoryPath, SiteTheme: "brutalist"},
		Logger: applog.Discard(),
	})
	if err == nil {
		t.Fatalf("expected error for unknown theme")
	}
}

func TestBuildRejectsBadConsultationEndpoint(t *testing.T) {
	t.Parallel()

	_, err := Build(context.Background(), Dependencies{
		Config: config.Config{DBPath: db.MemoryPath, SiteTheme: "arcology", ConsultationEndpoint: "ftp://bookings"},
		Logger: applog.Discard(),
	})
	if err == nil {
		t.Fatalf("expected error for non-http endpoint")
	}
}
