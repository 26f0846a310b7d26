package seed

import (
	"bytes"
	"context"
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/goccy/go-yaml"
	"github.com/goliatone/go-slug"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"arcology/site/internal/content"
)

const (
	siteFile = "site.yaml"
	blogDir  = "blog"
)

//go:embed data
var embedded embed.FS

// Default returns the dataset shipped with the binary.
func Default() (fs.FS, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, eris.Wrap(err, "opening embedded seed data")
	}
	return sub, nil
}

// Dataset is the parsed seed content.
type Dataset struct {
	Users        []content.InsertUser        `yaml:"users"`
	Services     []content.InsertService     `yaml:"services"`
	Projects     []content.InsertProject     `yaml:"projects"`
	Testimonials []content.InsertTestimonial `yaml:"testimonials"`
	Faqs         []content.InsertFaq         `yaml:"faqs"`
	Blogs        []content.InsertBlog        `yaml:"-"`
}

type blogFrontMatter struct {
	Title         string `yaml:"title"`
	Slug          string `yaml:"slug"`
	Excerpt       string `yaml:"excerpt"`
	Category      string `yaml:"category"`
	ImageURL      string `yaml:"imageUrl"`
	PublishedDate string `yaml:"publishedDate"`
}

// Load reads site.yaml and every blog/*.md file from fsys. Missing slugs are derived
// from titles.
func Load(fsys fs.FS) (*Dataset, error) {
	if fsys == nil {
		return nil, eris.New("seed filesystem is required")
	}

	raw, err := fs.ReadFile(fsys, siteFile)
	if err != nil {
		return nil, eris.Wrapf(err, "reading %s", siteFile)
	}

	var data Dataset
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, eris.Wrapf(err, "parsing %s", siteFile)
	}

	for i := range data.Services {
		if data.Services[i].Slug, err = slugFor(data.Services[i].Slug, data.Services[i].Title); err != nil {
			return nil, eris.Wrapf(err, "service %q", data.Services[i].Title)
		}
	}
	for i := range data.Projects {
		if data.Projects[i].Slug, err = slugFor(data.Projects[i].Slug, data.Projects[i].Title); err != nil {
			return nil, eris.Wrapf(err, "project %q", data.Projects[i].Title)
		}
	}

	blogs, err := loadBlogs(fsys)
	if err != nil {
		return nil, err
	}
	data.Blogs = blogs

	return &data, nil
}

func loadBlogs(fsys fs.FS) ([]content.InsertBlog, error) {
	paths, err := fs.Glob(fsys, path.Join(blogDir, "*.md"))
	if err != nil {
		return nil, eris.Wrap(err, "listing blog files")
	}
	sort.Strings(paths)

	blogs := make([]content.InsertBlog, 0, len(paths))
	for _, p := range paths {
		source, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, eris.Wrapf(err, "reading %s", p)
		}

		var meta blogFrontMatter
		body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
		if err != nil {
			return nil, eris.Wrapf(err, "parsing front matter of %s", p)
		}

		published, err := time.Parse("2006-01-02", strings.TrimSpace(meta.PublishedDate))
		if err != nil {
			return nil, eris.Wrapf(err, "invalid publishedDate in %s", p)
		}

		blogSlug, err := slugFor(meta.Slug, meta.Title)
		if err != nil {
			return nil, eris.Wrapf(err, "deriving slug for %s", p)
		}

		blogs = append(blogs, content.InsertBlog{
			Title:         meta.Title,
			Excerpt:       meta.Excerpt,
			Content:       strings.TrimSpace(string(body)),
			ImageURL:      meta.ImageURL,
			Category:      meta.Category,
			Slug:          blogSlug,
			PublishedDate: published,
		})
	}
	return blogs, nil
}

func slugFor(explicit, title string) (string, error) {
	if s := strings.TrimSpace(explicit); s != "" {
		return s, nil
	}
	if strings.TrimSpace(title) == "" {
		return "", eris.New("a title or slug is required")
	}
	return slug.Normalize(title)
}

// Store is the persistence the seeder writes through.
type Store interface {
	UpsertUser(ctx context.Context, user *content.User) error
	UpsertService(ctx context.Context, service *content.Service) error
	UpsertProject(ctx context.Context, project *content.Project) error
	UpsertTestimonial(ctx context.Context, testimonial *content.Testimonial) error
	UpsertBlog(ctx context.Context, blog *content.Blog) error
	UpsertFaq(ctx context.Context, faq *content.Faq) error
}

// Report counts the records written by Apply.
type Report struct {
	Users        int
	Services     int
	Projects     int
	Testimonials int
	Blogs        int
	Faqs         int
}

// Total sums every count.
func (r Report) Total() int {
	return r.Users + r.Services + r.Projects + r.Testimonials + r.Blogs + r.Faqs
}

// Apply validates every record and upserts it by natural key, so running it twice leaves
// the database unchanged. The first invalid record aborts the run.
func Apply(ctx context.Context, store Store, data *Dataset, logger *logrus.Logger) (Report, error) {
	var report Report
	if store == nil {
		return report, eris.New("seed store is required")
	}
	if data == nil {
		return report, eris.New("seed dataset is required")
	}

	for _, in := range data.Users {
		if err := in.Validate(); err != nil {
			return report, eris.Wrapf(err, "user %q", in.Username)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return report, eris.Wrapf(err, "hashing password for %q", in.Username)
		}
		if err := store.UpsertUser(ctx, &content.User{Username: strings.TrimSpace(in.Username), Password: string(hash)}); err != nil {
			return report, err
		}
		report.Users++
	}

	for _, in := range data.Services {
		if err := in.Validate(); err != nil {
			return report, eris.Wrapf(err, "service %q", in.Slug)
		}
		if err := store.UpsertService(ctx, in.Record()); err != nil {
			return report, err
		}
		report.Services++
	}

	for _, in := range data.Projects {
		if err := in.Validate(); err != nil {
			return report, eris.Wrapf(err, "project %q", in.Slug)
		}
		if err := store.UpsertProject(ctx, in.Record()); err != nil {
			return report, err
		}
		report.Projects++
	}

	for _, in := range data.Testimonials {
		if err := in.Validate(); err != nil {
			return report, eris.Wrapf(err, "testimonial %q", in.Name)
		}
		if err := store.UpsertTestimonial(ctx, in.Record()); err != nil {
			return report, err
		}
		report.Testimonials++
	}

	for _, in := range data.Blogs {
		if err := in.Validate(); err != nil {
			return report, eris.Wrapf(err, "blog %q", in.Slug)
		}
		if err := store.UpsertBlog(ctx, in.Record()); err != nil {
			return report, err
		}
		report.Blogs++
	}

	for _, in := range data.Faqs {
		if err := in.Validate(); err != nil {
			return report, eris.Wrapf(err, "faq %q", in.Question)
		}
		if err := store.UpsertFaq(ctx, in.Record()); err != nil {
			return report, err
		}
		report.Faqs++
	}

	if logger != nil {
		logger.WithFields(logrus.Fields{
			"component":    "seed",
			"users":        report.Users,
			"services":     report.Services,
			"projects":     report.Projects,
			"testimonials": report.Testimonials,
			"blogs":        report.Blogs,
			"faqs":         report.Faqs,
		}).Info("seed data applied")
	}

	return report, nil
}
