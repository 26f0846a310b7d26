package seed

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"arcology/site/internal/content"
	"arcology/site/internal/db"
)

func TestLoadDefaultDataset(t *testing.T) {
	t.Parallel()

	data := loadDefault(t)

	if len(data.Services) != 6 || len(data.Projects) != 6 || len(data.Testimonials) != 4 || len(data.Faqs) != 5 {
		t.Fatalf("unexpected dataset sizes: %d services, %d projects, %d testimonials, %d faqs",
			len(data.Services), len(data.Projects), len(data.Testimonials), len(data.Faqs))
	}
	if len(data.Blogs) != 3 {
		t.Fatalf("expected three blog posts, got %d", len(data.Blogs))
	}

	bySlug := map[string]content.InsertBlog{}
	for _, blog := range data.Blogs {
		bySlug[blog.Slug] = blog
	}

	daylight, ok := bySlug["designing-with-daylight"]
	if !ok {
		t.Fatalf("expected slug derived from title, got %v", bySlug)
	}
	if daylight.PublishedDate.Format("2006-01-02") != "2024-03-12" {
		t.Fatalf("unexpected published date: %s", daylight.PublishedDate)
	}
	if daylight.Content == "" || daylight.Content[0] == '-' {
		t.Fatalf("expected markdown body without front matter, got %q", daylight.Content)
	}
}

func TestLoadRejectsBadBlogDate(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"site.yaml":      {Data: []byte("services: []\n")},
		"blog/broken.md": {Data: []byte("---\ntitle: Broken\npublishedDate: yesterday\n---\nbody\n")},
	}

	if _, err := Load(fsys); err == nil {
		t.Fatalf("expected error for invalid publishedDate")
	}
}

func TestLoadRequiresSiteFile(t *testing.T) {
	t.Parallel()

	if _, err := Load(fstest.MapFS{}); err == nil {
		t.Fatalf("expected error when site.yaml is missing")
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	t.Parallel()

	repo := setupRepository(t)
	data := loadDefault(t)
	ctx := context.Background()

	first, err := Apply(ctx, repo, data, silentLogger())
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if first.Total() != 25 {
		t.Fatalf("expected 25 records written, got %d (%+v)", first.Total(), first)
	}

	if _, err := Apply(ctx, repo, data, silentLogger()); err != nil {
		t.Fatalf("second Apply returned error: %v", err)
	}

	services, err := repo.ListServices(ctx)
	if err != nil {
		t.Fatalf("ListServices returned error: %v", err)
	}
	if len(services) != 6 {
		t.Fatalf("expected 6 services after reseeding, got %d", len(services))
	}

	faqs, err := repo.ListFaqs(ctx)
	if err != nil {
		t.Fatalf("ListFaqs returned error: %v", err)
	}
	if len(faqs) != 5 || faqs[0].Order != 1 {
		t.Fatalf("expected 5 ordered faqs, got %d", len(faqs))
	}

	blogs, err := repo.ListBlogs(ctx)
	if err != nil {
		t.Fatalf("ListBlogs returned error: %v", err)
	}
	if len(blogs) != 3 || blogs[0].Slug != "planning-your-first-home-build" {
		t.Fatalf("expected latest blog first, got %d blogs", len(blogs))
	}
}

func TestApplyHashesPasswords(t *testing.T) {
	t.Parallel()

	store := &recordingStore{}
	data := &Dataset{Users: []content.InsertUser{{Username: "editor", Password: "correct-horse"}}}

	if _, err := Apply(context.Background(), store, data, nil); err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}

	if len(store.users) != 1 {
		t.Fatalf("expected one user, got %d", len(store.users))
	}
	hash := store.users[0].Password
	if hash == "correct-horse" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("correct-horse")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestApplyStopsOnInvalidRecord(t *testing.T) {
	t.Parallel()

	store := &recordingStore{}
	data := &Dataset{Testimonials: []content.InsertTestimonial{{Name: "A", Role: "B", Content: "C", ImageURL: "https://example.com/a.jpg", Rating: 9}}}

	if _, err := Apply(context.Background(), store, data, nil); err == nil {
		t.Fatalf("expected validation error for rating out of range")
	}
	if len(store.testimonials) != 0 {
		t.Fatalf("expected invalid testimonial not to be stored")
	}
}

func loadDefault(t *testing.T) *Dataset {
	t.Helper()

	fsys, err := Default()
	if err != nil {
		t.Fatalf("Default returned error: %v", err)
	}
	data, err := Load(fsys)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	return data
}

func setupRepository(t *testing.T) *content.GormRepository {
	t.Helper()

	gormDB, err := db.Open(db.Options{Path: filepath.Join(t.TempDir(), "seed.db")})
	if err != nil {
		t.Fatalf("db.Open returned error: %v", err)
	}
	t.Cleanup(func() {
		if closeErr := db.Close(gormDB); closeErr != nil {
			t.Fatalf("closing database failed: %v", closeErr)
		}
	})

	if err := content.Migrate(context.Background(), gormDB, silentLogger()); err != nil {
		t.Fatalf("Migrate returned error: %v", err)
	}

	repo, err := content.NewRepository(gormDB, silentLogger())
	if err != nil {
		t.Fatalf("NewRepository returned error: %v", err)
	}
	return repo
}

func silentLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type recordingStore struct {
	users        []content.User
	testimonials []content.Testimonial
}

func (s *recordingStore) UpsertUser(_ context.Context, user *content.User) error {
	s.users = append(s.users, *user)
	return nil
}

func (s *recordingStore) UpsertService(context.Context, *content.Service) error { return nil }

func (s *recordingStore) UpsertProject(context.Context, *content.Project) error { return nil }

func (s *recordingStore) UpsertTestimonial(_ context.Context, testimonial *content.Testimonial) error {
	s.testimonials = append(s.testimonials, *testimonial)
	return nil
}

func (s *recordingStore) UpsertBlog(context.Context, *content.Blog) error { return nil }

func (s *recordingStore) UpsertFaq(context.Context, *content.Faq) error { return nil }
