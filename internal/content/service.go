package content

import (
	"context"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	applog "arcology/site/internal/log"
)

// Catalog defines the reads and submissions the site performs against its content.
type Catalog interface {
	Services(ctx context.Context) ([]Service, error)
	Service(ctx context.Context, slug string) (*Service, error)
	Projects(ctx context.Context) ([]Project, error)
	Project(ctx context.Context, slug string) (*Project, error)
	Testimonials(ctx context.Context) ([]Testimonial, error)
	Blogs(ctx context.Context) ([]Blog, error)
	Blog(ctx context.Context, slug string) (*Blog, error)
	Faqs(ctx context.Context) ([]Faq, error)
	SubmitContact(ctx context.Context, input InsertContact) (*Contact, error)
	Subscribe(ctx context.Context, input InsertNewsletter) (*NewsletterSubscriber, error)
}

var (
	// ErrNotFound indicates a slug lookup matched no record.
	ErrNotFound = eris.New("content not found")
	// ErrAlreadySubscribed indicates the newsletter already holds the email address.
	ErrAlreadySubscribed = eris.New("email already subscribed")
)

type catalog struct {
	repo     Repository
	reporter applog.Reporter
}

var _ Catalog = (*catalog)(nil)

// NewCatalog wires the catalog with its repository.
func NewCatalog(repo Repository, logger *logrus.Logger, hub *sentry.Hub) (Catalog, error) {
	if repo == nil {
		return nil, eris.New("content repository is required")
	}

	return &catalog{
		repo:     repo,
		reporter: applog.Reporter{Logger: logger, Hub: hub},
	}, nil
}

func (c *catalog) Services(ctx context.Context) ([]Service, error) {
	services, err := c.repo.ListServices(ctx)
	if err != nil {
		c.recordError(ctx, nil, err, "listing services")
		return nil, eris.Wrap(err, "listing services")
	}
	return nonNil(services), nil
}

func (c *catalog) Service(ctx context.Context, slug string) (*Service, error) {
	trimmed := strings.TrimSpace(slug)
	service, err := c.repo.ServiceBySlug(ctx, trimmed)
	if err != nil {
		c.recordError(ctx, logrus.Fields{"slug": trimmed}, err, "retrieving service")
		return nil, eris.Wrapf(err, "retrieving service: %s", trimmed)
	}
	if service == nil {
		return nil, eris.Wrapf(ErrNotFound, "service %s", trimmed)
	}
	return service, nil
}

func (c *catalog) Projects(ctx context.Context) ([]Project, error) {
	projects, err := c.repo.ListProjects(ctx)
	if err != nil {
		c.recordError(ctx, nil, err, "listing projects")
		return nil, eris.Wrap(err, "listing projects")
	}
	return nonNil(projects), nil
}

func (c *catalog) Project(ctx context.Context, slug string) (*Project, error) {
	trimmed := strings.TrimSpace(slug)
	project, err := c.repo.ProjectBySlug(ctx, trimmed)
	if err != nil {
		c.recordError(ctx, logrus.Fields{"slug": trimmed}, err, "retrieving project")
		return nil, eris.Wrapf(err, "retrieving project: %s", trimmed)
	}
	if project == nil {
		return nil, eris.Wrapf(ErrNotFound, "project %s", trimmed)
	}
	return project, nil
}

func (c *catalog) Testimonials(ctx context.Context) ([]Testimonial, error) {
	testimonials, err := c.repo.ListTestimonials(ctx)
	if err != nil {
		c.recordError(ctx, nil, err, "listing testimonials")
		return nil, eris.Wrap(err, "listing testimonials")
	}
	return nonNil(testimonials), nil
}

func (c *catalog) Blogs(ctx context.Context) ([]Blog, error) {
	blogs, err := c.repo.ListBlogs(ctx)
	if err != nil {
		c.recordError(ctx, nil, err, "listing blogs")
		return nil, eris.Wrap(err, "listing blogs")
	}
	return nonNil(blogs), nil
}

func (c *catalog) Blog(ctx context.Context, slug string) (*Blog, error) {
	trimmed := strings.TrimSpace(slug)
	blog, err := c.repo.BlogBySlug(ctx, trimmed)
	if err != nil {
		c.recordError(ctx, logrus.Fields{"slug": trimmed}, err, "retrieving blog")
		return nil, eris.Wrapf(err, "retrieving blog: %s", trimmed)
	}
	if blog == nil {
		return nil, eris.Wrapf(ErrNotFound, "blog %s", trimmed)
	}
	return blog, nil
}

func (c *catalog) Faqs(ctx context.Context) ([]Faq, error) {
	faqs, err := c.repo.ListFaqs(ctx)
	if err != nil {
		c.recordError(ctx, nil, err, "listing faqs")
		return nil, eris.Wrap(err, "listing faqs")
	}
	return nonNil(faqs), nil
}

// SubmitContact validates and stores a contact submission.
func (c *catalog) SubmitContact(ctx context.Context, input InsertContact) (*Contact, error) {
	input.Email = NormalizeEmail(input.Email)
	if err := input.Validate(); err != nil {
		return nil, err
	}

	contact := input.Record()
	if err := c.repo.CreateContact(ctx, contact); err != nil {
		c.recordError(ctx, logrus.Fields{"email": contact.Email}, err, "persisting contact")
		return nil, eris.Wrap(err, "persisting contact")
	}
	return contact, nil
}

// Subscribe adds the address to the newsletter. Duplicates return ErrAlreadySubscribed.
func (c *catalog) Subscribe(ctx context.Context, input InsertNewsletter) (*NewsletterSubscriber, error) {
	input.Email = NormalizeEmail(input.Email)
	if err := input.Validate(); err != nil {
		return nil, err
	}

	subscriber := input.Record()
	if err := c.repo.CreateSubscriber(ctx, subscriber); err != nil {
		if eris.Is(err, ErrAlreadySubscribed) {
			return nil, err
		}
		c.recordError(ctx, logrus.Fields{"email": subscriber.Email}, err, "persisting newsletter subscriber")
		return nil, eris.Wrap(err, "persisting newsletter subscriber")
	}
	return subscriber, nil
}

func (c *catalog) recordError(ctx context.Context, fields logrus.Fields, err error, message string) {
	merged := logrus.Fields{"component": "content.catalog"}
	for k, v := range fields {
		merged[k] = v
	}
	c.reporter.Record(ctx, merged, err, message)
}

// nonNil keeps empty collections encoding as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
