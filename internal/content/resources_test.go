package content

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rotisserie/eris"
)

func TestResourceLoaderServesCollections(t *testing.T) {
	t.Parallel()

	repo := &stubRepository{
		services: []Service{{ID: 1, Title: "Design", Slug: "design", Icon: "bx-bulb"}},
		faqs:     []Faq{{ID: 1, Question: "Q?", Answer: "A", Order: 1}},
	}
	loader := newTestLoader(t, repo)

	body, err := loader.Load(context.Background(), KeyServices)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	var services []Service
	if err := json.Unmarshal(body, &services); err != nil {
		t.Fatalf("decoding services failed: %v", err)
	}
	if len(services) != 1 || services[0].Slug != "design" {
		t.Fatalf("unexpected services payload: %s", body)
	}

	body, err = loader.Load(context.Background(), KeyTestimonials)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if string(body) != "[]" {
		t.Fatalf("expected empty testimonials to encode as [], got %s", body)
	}
}

func TestResourceLoaderServesDetailKeys(t *testing.T) {
	t.Parallel()

	repo := &stubRepository{projects: []Project{{ID: 7, Title: "Villa", Slug: "villa", Category: "residential"}}}
	loader := newTestLoader(t, repo)

	body, err := loader.Load(context.Background(), ProjectKey("villa"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	var project Project
	if err := json.Unmarshal(body, &project); err != nil {
		t.Fatalf("decoding project failed: %v", err)
	}
	if project.ID != 7 || project.Category != "residential" {
		t.Fatalf("unexpected project payload: %s", body)
	}
}

func TestResourceLoaderReportsMissingResources(t *testing.T) {
	t.Parallel()

	loader := newTestLoader(t, &stubRepository{})

	keys := []string{BlogKey("missing"), "/api/unknown", "/elsewhere", "/api/faqs/1", "/api/services/a/b"}
	for _, key := range keys {
		if _, err := loader.Load(context.Background(), key); !eris.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound for %q, got %v", key, err)
		}
	}
}

func TestResourceLoaderPropagatesRepositoryErrors(t *testing.T) {
	t.Parallel()

	boom := eris.New("database unavailable")
	loader := newTestLoader(t, &stubRepository{listErr: boom})

	_, err := loader.Load(context.Background(), KeyBlogs)
	if !eris.Is(err, boom) {
		t.Fatalf("expected repository error to propagate, got %v", err)
	}
}

func TestIsResourceKey(t *testing.T) {
	t.Parallel()

	cases := map[string]bool{
		KeyServices:               true,
		KeyFaqs:                   true,
		ProjectKey("brick-house"): true,
		BlogKey("timber"):         true,
		"/api/faqs/1":             false,
		"/api/testimonials/jane":  false,
		"/api/widgets":            false,
		"/api/services/a/b":       false,
		"/etc/passwd":             false,
		"":                        false,
	}
	for key, want := range cases {
		if got := IsResourceKey(key); got != want {
			t.Fatalf("IsResourceKey(%q) = %v, want %v", key, got, want)
		}
	}
}

func newTestLoader(t *testing.T, repo Repository) *ResourceLoader {
	t.Helper()

	loader, err := NewResourceLoader(newTestCatalog(t, repo))
	if err != nil {
		t.Fatalf("NewResourceLoader returned error: %v", err)
	}
	return loader
}
