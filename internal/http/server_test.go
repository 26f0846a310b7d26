package http

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/net/html"
	"gorm.io/gorm"

	"arcology/site/internal/consultation"
	"arcology/site/internal/content"
	"arcology/site/internal/db"
	"arcology/site/internal/fetch"
	applog "arcology/site/internal/log"
	"arcology/site/internal/site"
)

func TestHomeRouteRendersSections(t *testing.T) {
	t.Parallel()

	env := newTestServer(t)
	rec := env.do(t, "GET", "/", "")

	if rec.Code != 200 {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != htmlContentType {
		t.Fatalf("expected content type %q, got %q", htmlContentType, ct)
	}

	body := rec.Body.String()
	for _, want := range []string{"Shaping Spaces, Defining Tomorrow", "Residential Design", "Harbour House", "View All Projects", "Designing with Daylight"} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected body to contain %q", want)
		}
	}
	if strings.Contains(body, `data-state="loading"`) || strings.Contains(body, `http-equiv="refresh"`) {
		t.Fatalf("expected every section to be ready")
	}

	filled, empty := countStars(t, body)
	if filled != 4 || empty != 1 {
		t.Fatalf("expected 4 filled and 1 empty star, got %d and %d", filled, empty)
	}

	if !strings.Contains(body, `id="newsletter-popup" hidden`) {
		t.Fatalf("expected the newsletter popup to start hidden on the home page")
	}

	rec = env.do(t, "GET", "/about", "")
	if strings.Contains(rec.Body.String(), "newsletter-popup") {
		t.Fatalf("expected the newsletter popup only on the home page")
	}
}

func TestHomeRouteRendersSkeletonsWhileLoading(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	env := newTestServer(t, withRenderWait(20*time.Millisecond), withLoaderGate(release))
	defer close(release)

	rec := env.do(t, "GET", "/", "")

	if rec.Code != 200 {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `data-state="loading"`) {
		t.Fatalf("expected loading sections, got %q", body)
	}
	if got := strings.Count(body, `class="skeleton-card"`); got != 4*defaultSkeletons+faqSkeletons {
		t.Fatalf("unexpected skeleton count %d", got)
	}
	if !strings.Contains(body, `http-equiv="refresh"`) {
		t.Fatalf("expected loading page to refresh itself")
	}
}

func TestProjectsListingFiltersByCategory(t *testing.T) {
	t.Parallel()

	env := newTestServer(t)
	rec := env.do(t, "GET", "/projects?category=commercial", "")

	if rec.Code != 200 {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Glass Exchange") {
		t.Fatalf("expected commercial project in body")
	}
	if strings.Contains(body, "Harbour House") {
		t.Fatalf("expected residential project to be filtered out")
	}
	if !strings.Contains(body, `class="category-pill active"`) {
		t.Fatalf("expected active category pill")
	}
}

func TestProjectsListingShowsEmptyState(t *testing.T) {
	t.Parallel()

	env := newTestServer(t)
	rec := env.do(t, "GET", "/projects?search=zeppelin", "")

	body := rec.Body.String()
	if !strings.Contains(body, "No projects found.") {
		t.Fatalf("expected empty message, got %q", body)
	}
	if !strings.Contains(body, `href="/projects"`) {
		t.Fatalf("expected reset link to the unfiltered listing")
	}
}

func TestFailedSectionStaysFailedUntilRetried(t *testing.T) {
	t.Parallel()

	env := newTestServer(t)
	env.loader.fail(content.KeyServices, eris.New("upstream unavailable"))

	rec := env.do(t, "GET", "/services", "")
	body := rec.Body.String()
	if !strings.Contains(body, "Failed to load services. Please try again later.") {
		t.Fatalf("expected failure message, got %q", body)
	}
	if !strings.Contains(body, `action="`+"/sections/retry"+`"`) {
		t.Fatalf("expected retry form")
	}

	env.loader.heal(content.KeyServices)

	rec = env.do(t, "GET", "/services", "")
	if !strings.Contains(rec.Body.String(), `data-state="error"`) {
		t.Fatalf("expected cached failure to persist until retried")
	}

	form := url.Values{"key": {content.KeyServices}, "return": {"/services"}}
	rec = env.postForm(t, "/sections/retry", form)
	if rec.Code != 303 {
		t.Fatalf("expected status 303, got %d", rec.Code)
	}
	if location := rec.Header().Get("Location"); location != "/services" {
		t.Fatalf("expected redirect to /services, got %q", location)
	}

	rec = env.do(t, "GET", "/services", "")
	if !strings.Contains(rec.Body.String(), "Residential Design") {
		t.Fatalf("expected services after retry, got %q", rec.Body.String())
	}
}

func TestRetryRejectsForeignKeysAndReturns(t *testing.T) {
	t.Parallel()

	env := newTestServer(t)

	rec := env.postForm(t, "/sections/retry", url.Values{"key": {"/etc/passwd"}})
	if rec.Code != 400 {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	rec = env.postForm(t, "/sections/retry", url.Values{"key": {"/api/widgets"}})
	if rec.Code != 400 {
		t.Fatalf("expected status 400 for an unknown collection, got %d", rec.Code)
	}

	rec = env.postForm(t, "/sections/retry", url.Values{"key": {content.KeyFaqs}, "return": {"//evil.example"}})
	if location := rec.Header().Get("Location"); location != "/" {
		t.Fatalf("expected off-site return to fall back to /, got %q", location)
	}
}

func TestRetryIgnoresKeysWithoutCachedFailure(t *testing.T) {
	t.Parallel()

	env := newTestServer(t)
	key := content.ServiceKey("never-requested")

	for i := 0; i < 3; i++ {
		rec := env.postForm(t, "/sections/retry", url.Values{"key": {key}, "return": {"/services"}})
		if rec.Code != 303 {
			t.Fatalf("expected status 303, got %d", rec.Code)
		}
	}

	// Give any load that was wrongly started time to reach the loader.
	time.Sleep(20 * time.Millisecond)
	if got := env.loader.count(key); got != 0 {
		t.Fatalf("expected no load for a key that never failed, got %d", got)
	}
	if _, ok := env.server.fetch.Peek(key); ok {
		t.Fatalf("expected retry to leave no cached state for %s", key)
	}
}

func TestServiceDetailRenders(t *testing.T) {
	t.Parallel()

	env := newTestServer(t)
	rec := env.do(t, "GET", "/services/residential-design", "")

	if rec.Code != 200 {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<title>Residential Design • Arcology</title>") {
		t.Fatalf("expected detail title, got %q", body)
	}
	if !strings.Contains(body, `class="bx bx-home`) {
		t.Fatalf("expected service icon class")
	}
}

func TestDetailReturns404ForUnknownSlug(t *testing.T) {
	t.Parallel()

	env := newTestServer(t)

	for _, path := range []string{"/services/missing", "/projects/missing", "/blog/missing"} {
		rec := env.do(t, "GET", path, "")
		if rec.Code != 404 {
			t.Fatalf("%s: expected status 404, got %d", path, rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != htmlContentType {
			t.Fatalf("%s: expected content type %q, got %q", path, htmlContentType, ct)
		}
	}
}

func TestBlogDetailRendersMarkdown(t *testing.T) {
	t.Parallel()

	env := newTestServer(t)
	rec := env.do(t, "GET", "/blog/designing-with-daylight", "")

	if rec.Code != 200 {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<strong>light</strong>") {
		t.Fatalf("expected rendered markdown, got %q", body)
	}
	if !strings.Contains(body, "1 min read") {
		t.Fatalf("expected reading time")
	}
	if !strings.Contains(body, "March 12, 2024") {
		t.Fatalf("expected published date label")
	}
}

func TestUnknownPathRendersNotFoundPage(t *testing.T) {
	t.Parallel()

	env := newTestServer(t)
	rec := env.do(t, "GET", "/no/such/page", "")

	if rec.Code != 404 {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "404 Not Found") {
		t.Fatalf("expected not found page, got %q", rec.Body.String())
	}
}

func TestStaticAssetsAreServed(t *testing.T) {
	t.Parallel()

	env := newTestServer(t)

	rec := env.do(t, "GET", "/static/site.css", "")
	if rec.Code != 200 {
		t.Fatalf("expected stylesheet, got %d", rec.Code)
	}

	rec = env.do(t, "GET", "/favicon.ico", "")
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Fatalf("expected svg favicon, got %q", ct)
	}
}

func TestAPIListsAndResolvesContent(t *testing.T) {
	t.Parallel()

	env := newTestServer(t)

	rec := env.do(t, "GET", "/api/services", "")
	if rec.Code != 200 {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var services []content.Service
	if err := json.Unmarshal(rec.Body.Bytes(), &services); err != nil {
		t.Fatalf("decode services: %v", err)
	}
	if len(services) != 2 {
		t.Fatalf("expected 2 services, got %d", len(services))
	}

	rec = env.do(t, "GET", "/api/blogs/missing", "")
	if rec.Code != 404 {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestAPIContactSubmission(t *testing.T) {
	t.Parallel()

	env := newTestServer(t)

	rec := env.do(t, "POST", "/api/contact", `{"name":"Ada","email":"ada@example.com","message":"We would like a new studio."}`)
	if rec.Code != 201 {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		ID uint `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil || created.ID == 0 {
		t.Fatalf("expected created id, got %s (%v)", rec.Body.String(), err)
	}

	rec = env.do(t, "POST", "/api/contact", `{"name":"Ada","email":"not-an-email","message":"Hello there"}`)
	if rec.Code != 422 {
		t.Fatalf("expected status 422, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "body.email") {
		t.Fatalf("expected email detail, got %s", rec.Body.String())
	}
}

func TestAPINewsletterRejectsDuplicates(t *testing.T) {
	t.Parallel()

	env := newTestServer(t)

	rec := env.do(t, "POST", "/api/newsletter", `{"email":"reader@example.com"}`)
	if rec.Code != 201 {
		t.Fatalf("expected status 201, got %d", rec.Code)
	}

	rec = env.do(t, "POST", "/api/newsletter", `{"email":"Reader@Example.com"}`)
	if rec.Code != 409 {
		t.Fatalf("expected status 409, got %d", rec.Code)
	}
}

func TestContactFormReportsFieldErrors(t *testing.T) {
	t.Parallel()

	env := newTestServer(t)
	rec := env.postForm(t, "/contact", url.Values{"phone": {"555"}})

	if rec.Code != 422 {
		t.Fatalf("expected status 422, got %d", rec.Code)
	}
	body := rec.Body.String()
	if got := strings.Count(body, `class="field-error"`); got != 3 {
		t.Fatalf("expected 3 field errors, got %d", got)
	}
	if !strings.Contains(body, "Message must be at least 10 characters") {
		t.Fatalf("expected message error")
	}
	if !strings.Contains(body, `value="555"`) {
		t.Fatalf("expected submitted values to be kept")
	}
}

func TestContactFormStoresSubmission(t *testing.T) {
	t.Parallel()

	env := newTestServer(t)
	rec := env.postForm(t, "/contact", url.Values{
		"name":    {"Grace"},
		"email":   {"grace@example.com"},
		"service": {"residential-design"},
		"message": {"Please call me about an extension."},
	})

	if rec.Code != 200 {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Message sent!") {
		t.Fatalf("expected confirmation")
	}

	var count int64
	if err := env.db.Model(&content.Contact{}).Count(&count).Error; err != nil {
		t.Fatalf("count contacts: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one stored contact, got %d", count)
	}
}

func TestNewsletterFormDuplicateShowsFailure(t *testing.T) {
	t.Parallel()

	env := newTestServer(t)
	form := url.Values{"email": {"reader@example.com"}, "return": {"/blog"}}

	rec := env.postForm(t, "/newsletter", form)
	if rec.Code != 200 || !strings.Contains(rec.Body.String(), "Thank you for subscribing!") {
		t.Fatalf("expected confirmation, got %d", rec.Code)
	}

	rec = env.postForm(t, "/newsletter", form)
	if rec.Code != 409 {
		t.Fatalf("expected status 409, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `class="form-failure"`) || !strings.Contains(body, "already subscribed.") {
		t.Fatalf("expected already-subscribed failure banner, got %q", body)
	}
	if strings.Contains(body, "sending your message") {
		t.Fatalf("expected newsletter copy rather than the contact form failure text")
	}
}

func TestScheduleFormBooksConsultation(t *testing.T) {
	t.Parallel()

	env := newTestServer(t)
	rec := env.postForm(t, "/schedule", url.Values{
		"name":   {"Lin"},
		"mobile": {"5551234"},
		"email":  {"lin@example.com"},
		"date":   {"2026-11-02"},
		"time":   {"10:00 AM"},
	})

	if rec.Code != 200 {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Consultation scheduled!") {
		t.Fatalf("expected confirmation")
	}

	requests := env.booker.requests()
	if len(requests) != 1 || requests[0].Time != "10:00 AM" || requests[0].Date != "2026-11-02" {
		t.Fatalf("unexpected booking requests: %+v", requests)
	}
}

func TestScheduleFormRejectsUnknownSlot(t *testing.T) {
	t.Parallel()

	env := newTestServer(t)
	rec := env.postForm(t, "/schedule", url.Values{
		"name":   {"Lin"},
		"mobile": {"5551234"},
		"email":  {"lin@example.com"},
		"date":   {"2026-11-02"},
		"time":   {"03:30 AM"},
	})

	if rec.Code != 422 {
		t.Fatalf("expected status 422, got %d", rec.Code)
	}
	if len(env.booker.requests()) != 0 {
		t.Fatalf("expected no booking for invalid input")
	}
}

func TestScheduleFormWithoutEndpoint(t *testing.T) {
	t.Parallel()

	env := newTestServer(t, withBookerError(consultation.ErrNotConfigured))
	rec := env.postForm(t, "/schedule", url.Values{
		"name":   {"Lin"},
		"mobile": {"5551234"},
		"email":  {"lin@example.com"},
		"date":   {"2026-11-02"},
		"time":   {"10:00 AM"},
	})

	if rec.Code != 503 {
		t.Fatalf("expected status 503, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Online scheduling is currently unavailable.") {
		t.Fatalf("expected not configured message")
	}
}

func TestHealthReportsDatabase(t *testing.T) {
	t.Parallel()

	env := newTestServer(t)
	rec := env.do(t, "GET", "/healthz", "")

	if rec.Code != 200 {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var health struct {
		Status   string `json:"status"`
		Database string `json:"database"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &health); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if health.Status != "ok" || health.Database != "ok" {
		t.Fatalf("unexpected health %+v", health)
	}
}

func TestRateLimitAppliesToSubmissionsOnly(t *testing.T) {
	t.Parallel()

	env := newTestServer(t, withRateLimit(RateLimiterSettings{RequestsPerSecond: 0.001, Burst: 1, ClientTTL: time.Minute}))

	rec := env.do(t, "POST", "/api/newsletter", `{"email":"first@example.com"}`)
	if rec.Code != 201 {
		t.Fatalf("expected status 201, got %d", rec.Code)
	}

	rec = env.do(t, "POST", "/api/newsletter", `{"email":"second@example.com"}`)
	if rec.Code != 429 {
		t.Fatalf("expected status 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}

	for range 3 {
		if rec = env.do(t, "GET", "/faq", ""); rec.Code != 200 {
			t.Fatalf("expected page reads to pass, got %d", rec.Code)
		}
	}
}

func TestNewServerValidatesOptions(t *testing.T) {
	t.Parallel()

	env := newTestServer(t)
	theme, _ := site.Builtin("arcology")

	valid := Options{
		Catalog:  env.server.catalog,
		Fetch:    env.server.fetch,
		Database: env.db,
		Theme:    theme,
		Booker:   env.booker,
	}

	cases := map[string]func(*Options){
		"catalog":  func(o *Options) { o.Catalog = nil },
		"fetch":    func(o *Options) { o.Fetch = nil },
		"database": func(o *Options) { o.Database = nil },
		"booker":   func(o *Options) { o.Booker = nil },
		"theme":    func(o *Options) { o.Theme.Brand = "" },
		"limiter":  func(o *Options) { o.RateLimiter = RateLimiterSettings{Burst: 1} },
	}

	for name, mutate := range cases {
		opts := valid
		mutate(&opts)
		if _, err := NewServer(opts); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}

	srv, err := NewServer(valid)
	if err != nil {
		t.Fatalf("expected valid options to pass: %v", err)
	}
	if srv.rateLimiter != nil {
		t.Fatalf("expected zero limiter settings to disable limiting")
	}
}

type testEnv struct {
	server *Server
	db     *gorm.DB
	loader *flakyLoader
	booker *stubBooker
}

type testOption func(*testConfig)

type testConfig struct {
	renderWait time.Duration
	gate       <-chan struct{}
	bookerErr  error
	limiter    RateLimiterSettings
}

func withRenderWait(wait time.Duration) testOption {
	return func(c *testConfig) { c.renderWait = wait }
}

func withLoaderGate(gate <-chan struct{}) testOption {
	return func(c *testConfig) { c.gate = gate }
}

func withBookerError(err error) testOption {
	return func(c *testConfig) { c.bookerErr = err }
}

func withRateLimit(settings RateLimiterSettings) testOption {
	return func(c *testConfig) { c.limiter = settings }
}

func newTestServer(t *testing.T, options ...testOption) *testEnv {
	t.Helper()

	var cfg testConfig
	for _, option := range options {
		option(&cfg)
	}

	ctx := context.Background()
	logger := applog.Discard()

	database, err := db.Open(db.Options{Path: db.MemoryPath})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close(database)
	})

	if err := content.Migrate(ctx, database, logger); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	repo, err := content.NewRepository(database, logger)
	if err != nil {
		t.Fatalf("repository: %v", err)
	}
	seedContent(t, repo)

	catalog, err := content.NewCatalog(repo, logger, nil)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}

	resources, err := content.NewResourceLoader(catalog)
	if err != nil {
		t.Fatalf("resource loader: %v", err)
	}
	loader := &flakyLoader{next: resources, gate: cfg.gate, failures: map[string]error{}, loads: map[string]int{}}

	client, err := fetch.New(fetch.Options{Loader: loader, Logger: logger})
	if err != nil {
		t.Fatalf("fetch client: %v", err)
	}

	theme, err := site.Builtin("arcology")
	if err != nil {
		t.Fatalf("theme: %v", err)
	}

	booker := &stubBooker{err: cfg.bookerErr}
	srv, err := NewServer(Options{
		Catalog:     catalog,
		Fetch:       client,
		Database:    database,
		Theme:       theme,
		Booker:      booker,
		Logger:      logger,
		RateLimiter: cfg.limiter,
		RenderWait:  cfg.renderWait,
		Now:         func() time.Time { return time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}
	t.Cleanup(srv.Close)

	return &testEnv{server: srv, db: database, loader: loader, booker: booker}
}

func seedContent(t *testing.T, repo *content.GormRepository) {
	t.Helper()
	ctx := context.Background()

	services := []content.Service{
		{Title: "Residential Design", Description: "Homes shaped around the people who live in them.", Icon: "bx-home", Slug: "residential-design"},
		{Title: "Urban Planning", Description: "Neighbourhoods that work at every scale.", Icon: "bx-map", Slug: "urban-planning"},
	}
	for i := range services {
		if err := repo.UpsertService(ctx, &services[i]); err != nil {
			t.Fatalf("seed service: %v", err)
		}
	}

	projects := []content.Project{
		{Title: "Harbour House", Description: "A timber home above the bay.", ImageURL: "https://example.com/harbour.jpg", Category: "residential", Slug: "harbour-house"},
		{Title: "Glass Exchange", Description: "A trading floor flooded with light.", ImageURL: "https://example.com/exchange.jpg", Category: "commercial", Slug: "glass-exchange"},
	}
	for i := range projects {
		if err := repo.UpsertProject(ctx, &projects[i]); err != nil {
			t.Fatalf("seed project: %v", err)
		}
	}

	testimonial := content.Testimonial{Name: "Mara Quinn", Role: "Homeowner", Content: "They listened.", ImageURL: "https://example.com/mara.jpg", Rating: 4}
	if err := repo.UpsertTestimonial(ctx, &testimonial); err != nil {
		t.Fatalf("seed testimonial: %v", err)
	}

	blog := content.Blog{
		Title:         "Designing with Daylight",
		Excerpt:       "How orientation changes a plan.",
		Content:       "## Orientation\n\nGood rooms follow the **light**.",
		ImageURL:      "https://example.com/daylight.jpg",
		Category:      "design",
		Slug:          "designing-with-daylight",
		PublishedDate: time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC),
	}
	if err := repo.UpsertBlog(ctx, &blog); err != nil {
		t.Fatalf("seed blog: %v", err)
	}

	faq := content.Faq{Question: "How long does design take?", Answer: "Usually three to six months.", Order: 1}
	if err := repo.UpsertFaq(ctx, &faq); err != nil {
		t.Fatalf("seed faq: %v", err)
	}
}

func (e *testEnv) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.server.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) postForm(t *testing.T, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest("POST", target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	e.server.ServeHTTP(rec, req)
	return rec
}

// countStars walks the rendered document and counts rating icons.
func countStars(t *testing.T, body string) (filled, empty int) {
	t.Helper()

	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "i" {
			for _, attr := range n.Attr {
				if attr.Key != "class" {
					continue
				}
				classes := strings.Fields(attr.Val)
				for _, class := range classes {
					switch class {
					case "star-filled":
						filled++
					case "star-empty":
						empty++
					}
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return filled, empty
}

type flakyLoader struct {
	next fetch.Loader
	gate <-chan struct{}

	mu       sync.Mutex
	failures map[string]error
	loads    map[string]int
}

func (l *flakyLoader) count(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loads[key]
}

func (l *flakyLoader) fail(key string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failures[key] = err
}

func (l *flakyLoader) heal(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.failures, key)
}

func (l *flakyLoader) Load(ctx context.Context, key string) ([]byte, error) {
	if l.gate != nil {
		select {
		case <-l.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	l.mu.Lock()
	err := l.failures[key]
	l.loads[key]++
	l.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return l.next.Load(ctx, key)
}

type stubBooker struct {
	err error

	mu   sync.Mutex
	seen []consultation.Request
}

func (b *stubBooker) Book(_ context.Context, req consultation.Request) (*consultation.Response, error) {
	if b.err != nil {
		return nil, b.err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seen = append(b.seen, req)
	return &consultation.Response{Success: true, Message: "booked"}, nil
}

func (b *stubBooker) requests() []consultation.Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]consultation.Request(nil), b.seen...)
}
