package content

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
)

// Resource keys address collections the same way the JSON API routes do.
const (
	KeyServices     = "/api/services"
	KeyProjects     = "/api/projects"
	KeyTestimonials = "/api/testimonials"
	KeyBlogs        = "/api/blogs"
	KeyFaqs         = "/api/faqs"
)

// CollectionKeys lists every collection key, in the order the home page shows them.
func CollectionKeys() []string {
	return []string{KeyServices, KeyProjects, KeyTestimonials, KeyFaqs, KeyBlogs}
}

func ServiceKey(slug string) string { return KeyServices + "/" + slug }

func ProjectKey(slug string) string { return KeyProjects + "/" + slug }

func BlogKey(slug string) string { return KeyBlogs + "/" + slug }

// ResourceLoader resolves resource keys against a Catalog in-process and returns the
// JSON body the matching API route would serve.
type ResourceLoader struct {
	catalog Catalog
}

// NewResourceLoader constructs a loader over the catalog.
func NewResourceLoader(catalog Catalog) (*ResourceLoader, error) {
	if catalog == nil {
		return nil, eris.New("content catalog is required")
	}
	return &ResourceLoader{catalog: catalog}, nil
}

// Load returns the JSON payload for key. Unknown keys and missing slugs wrap ErrNotFound.
func (l *ResourceLoader) Load(ctx context.Context, key string) ([]byte, error) {
	collection, slug, err := splitKey(key)
	if err != nil {
		return nil, err
	}

	var payload any
	switch {
	case collection == KeyServices && slug == "":
		payload, err = l.catalog.Services(ctx)
	case collection == KeyServices:
		payload, err = l.catalog.Service(ctx, slug)
	case collection == KeyProjects && slug == "":
		payload, err = l.catalog.Projects(ctx)
	case collection == KeyProjects:
		payload, err = l.catalog.Project(ctx, slug)
	case collection == KeyBlogs && slug == "":
		payload, err = l.catalog.Blogs(ctx)
	case collection == KeyBlogs:
		payload, err = l.catalog.Blog(ctx, slug)
	case collection == KeyTestimonials && slug == "":
		payload, err = l.catalog.Testimonials(ctx)
	case collection == KeyFaqs && slug == "":
		payload, err = l.catalog.Faqs(ctx)
	default:
		return nil, eris.Wrapf(ErrNotFound, "unknown resource key %s", key)
	}
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, eris.Wrapf(err, "encoding resource %s", key)
	}
	return body, nil
}

// IsResourceKey reports whether Load serves key: a collection, or a detail slug of a
// collection that has detail pages.
func IsResourceKey(key string) bool {
	collection, slug, err := splitKey(key)
	if err != nil {
		return false
	}
	switch collection {
	case KeyServices, KeyProjects, KeyBlogs:
		return true
	case KeyTestimonials, KeyFaqs:
		return slug == ""
	default:
		return false
	}
}

func splitKey(key string) (string, string, error) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(key), "/")
	if !strings.HasPrefix(trimmed, "/api/") {
		return "", "", eris.Wrapf(ErrNotFound, "unknown resource key %s", key)
	}

	parts := strings.Split(strings.TrimPrefix(trimmed, "/api/"), "/")
	switch len(parts) {
	case 1:
		return "/api/" + parts[0], "", nil
	case 2:
		if parts[1] == "" {
			return "", "", eris.Wrapf(ErrNotFound, "unknown resource key %s", key)
		}
		return "/api/" + parts[0], parts[1], nil
	default:
		return "", "", eris.Wrapf(ErrNotFound, "unknown resource key %s", key)
	}
}
