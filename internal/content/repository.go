package content

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository defines persistence operations for site content.
type Repository interface {
	ListServices(ctx context.Context) ([]Service, error)
	ServiceBySlug(ctx context.Context, slug string) (*Service, error)
	ListProjects(ctx context.Context) ([]Project, error)
	ProjectBySlug(ctx context.Context, slug string) (*Project, error)
	ListTestimonials(ctx context.Context) ([]Testimonial, error)
	ListBlogs(ctx context.Context) ([]Blog, error)
	BlogBySlug(ctx context.Context, slug string) (*Blog, error)
	ListFaqs(ctx context.Context) ([]Faq, error)
	CreateContact(ctx context.Context, contact *Contact) error
	CreateSubscriber(ctx context.Context, subscriber *NewsletterSubscriber) error
	CountSubscribers(ctx context.Context) (int64, error)
}

// GormRepository persists content using a Gorm database connection.
type GormRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewRepository constructs a Gorm-backed repository implementation.
func NewRepository(db *gorm.DB, logger *logrus.Logger) (*GormRepository, error) {
	if db == nil {
		return nil, eris.New("gorm DB is required")
	}

	return &GormRepository{db: db, logger: logger}, nil
}

var _ Repository = (*GormRepository)(nil)

func (r *GormRepository) ListServices(ctx context.Context) ([]Service, error) {
	var services []Service
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&services).Error; err != nil {
		r.logError(nil, err, "listing services")
		return nil, eris.Wrap(err, "listing services")
	}
	return services, nil
}

// ServiceBySlug returns the service for the provided slug or nil when not found.
func (r *GormRepository) ServiceBySlug(ctx context.Context, slug string) (*Service, error) {
	var service Service
	found, err := r.firstBySlug(ctx, &service, "service", slug)
	if err != nil || !found {
		return nil, err
	}
	return &service, nil
}

func (r *GormRepository) ListProjects(ctx context.Context) ([]Project, error) {
	var projects []Project
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&projects).Error; err != nil {
		r.logError(nil, err, "listing projects")
		return nil, eris.Wrap(err, "listing projects")
	}
	return projects, nil
}

func (r *GormRepository) ProjectBySlug(ctx context.Context, slug string) (*Project, error) {
	var project Project
	found, err := r.firstBySlug(ctx, &project, "project", slug)
	if err != nil || !found {
		return nil, err
	}
	return &project, nil
}

func (r *GormRepository) ListTestimonials(ctx context.Context) ([]Testimonial, error) {
	var testimonials []Testimonial
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&testimonials).Error; err != nil {
		r.logError(nil, err, "listing testimonials")
		return nil, eris.Wrap(err, "listing testimonials")
	}
	return testimonials, nil
}

// ListBlogs returns every post, latest first.
func (r *GormRepository) ListBlogs(ctx context.Context) ([]Blog, error) {
	var blogs []Blog
	if err := r.db.WithContext(ctx).Order("published_date DESC").Order("id DESC").Find(&blogs).Error; err != nil {
		r.logError(nil, err, "listing blogs")
		return nil, eris.Wrap(err, "listing blogs")
	}
	return blogs, nil
}

func (r *GormRepository) BlogBySlug(ctx context.Context, slug string) (*Blog, error) {
	var blog Blog
	found, err := r.firstBySlug(ctx, &blog, "blog", slug)
	if err != nil || !found {
		return nil, err
	}
	return &blog, nil
}

// ListFaqs returns the FAQ entries by ascending order.
func (r *GormRepository) ListFaqs(ctx context.Context) ([]Faq, error) {
	var faqs []Faq
	err := r.db.WithContext(ctx).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "order"}}).
		Order("id ASC").
		Find(&faqs).Error
	if err != nil {
		r.logError(nil, err, "listing faqs")
		return nil, eris.Wrap(err, "listing faqs")
	}
	return faqs, nil
}

func (r *GormRepository) CreateContact(ctx context.Context, contact *Contact) error {
	if contact == nil {
		return eris.New("contact is nil")
	}

	if err := r.db.WithContext(ctx).Create(contact).Error; err != nil {
		r.logError(logrus.Fields{"email": contact.Email}, err, "saving contact")
		return eris.Wrap(err, "saving contact")
	}
	return nil
}

// CreateSubscriber inserts a newsletter sign-up. A known email yields ErrAlreadySubscribed.
func (r *GormRepository) CreateSubscriber(ctx context.Context, subscriber *NewsletterSubscriber) error {
	if subscriber == nil {
		return eris.New("subscriber is nil")
	}

	subscriber.Email = NormalizeEmail(subscriber.Email)
	if subscriber.Email == "" {
		return eris.New("subscriber email is required")
	}

	var existing int64
	if err := r.db.WithContext(ctx).Model(&NewsletterSubscriber{}).Where("email = ?", subscriber.Email).Count(&existing).Error; err != nil {
		r.logError(logrus.Fields{"email": subscriber.Email}, err, "checking newsletter subscriber")
		return eris.Wrap(err, "checking newsletter subscriber")
	}
	if existing > 0 {
		return eris.Wrapf(ErrAlreadySubscribed, "subscribing %s", subscriber.Email)
	}

	if err := r.db.WithContext(ctx).Create(subscriber).Error; err != nil {
		// Lost a race with a concurrent sign-up for the same address.
		if isUniqueViolation(err) {
			return eris.Wrapf(ErrAlreadySubscribed, "subscribing %s", subscriber.Email)
		}
		r.logError(logrus.Fields{"email": subscriber.Email}, err, "saving newsletter subscriber")
		return eris.Wrap(err, "saving newsletter subscriber")
	}
	return nil
}

func (r *GormRepository) CountSubscribers(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&NewsletterSubscriber{}).Count(&count).Error; err != nil {
		r.logError(nil, err, "counting newsletter subscribers")
		return 0, eris.Wrap(err, "counting newsletter subscribers")
	}
	return count, nil
}

// UpsertService inserts the service or updates the row sharing its slug.
func (r *GormRepository) UpsertService(ctx context.Context, service *Service) error {
	if service == nil {
		return eris.New("service is nil")
	}
	return r.upsertBySlug(ctx, service, "service", service.Slug, "title", "description", "icon")
}

func (r *GormRepository) UpsertProject(ctx context.Context, project *Project) error {
	if project == nil {
		return eris.New("project is nil")
	}
	return r.upsertBySlug(ctx, project, "project", project.Slug, "title", "description", "image_url", "category")
}

func (r *GormRepository) UpsertBlog(ctx context.Context, blog *Blog) error {
	if blog == nil {
		return eris.New("blog is nil")
	}
	return r.upsertBySlug(ctx, blog, "blog", blog.Slug, "title", "excerpt", "content", "image_url", "category", "published_date")
}

// UpsertTestimonial keys testimonials on the client name.
func (r *GormRepository) UpsertTestimonial(ctx context.Context, testimonial *Testimonial) error {
	if testimonial == nil {
		return eris.New("testimonial is nil")
	}

	var existing Testimonial
	err := r.db.WithContext(ctx).Where("name = ?", testimonial.Name).First(&existing).Error
	switch {
	case err == nil:
		testimonial.ID = existing.ID
	case !eris.Is(err, gorm.ErrRecordNotFound):
		r.logError(logrus.Fields{"name": testimonial.Name}, err, "looking up testimonial")
		return eris.Wrapf(err, "looking up testimonial: %s", testimonial.Name)
	}

	if err := r.db.WithContext(ctx).Save(testimonial).Error; err != nil {
		r.logError(logrus.Fields{"name": testimonial.Name}, err, "saving testimonial")
		return eris.Wrapf(err, "saving testimonial: %s", testimonial.Name)
	}
	return nil
}

// UpsertFaq keys FAQ entries on the question text.
func (r *GormRepository) UpsertFaq(ctx context.Context, faq *Faq) error {
	if faq == nil {
		return eris.New("faq is nil")
	}

	var existing Faq
	err := r.db.WithContext(ctx).Where("question = ?", faq.Question).First(&existing).Error
	switch {
	case err == nil:
		faq.ID = existing.ID
	case !eris.Is(err, gorm.ErrRecordNotFound):
		r.logError(logrus.Fields{"question": faq.Question}, err, "looking up faq")
		return eris.Wrap(err, "looking up faq")
	}

	if err := r.db.WithContext(ctx).Save(faq).Error; err != nil {
		r.logError(logrus.Fields{"question": faq.Question}, err, "saving faq")
		return eris.Wrap(err, "saving faq")
	}
	return nil
}

// UpsertUser stores the user keyed on username. The password must already be hashed.
func (r *GormRepository) UpsertUser(ctx context.Context, user *User) error {
	if user == nil {
		return eris.New("user is nil")
	}
	user.Username = strings.TrimSpace(user.Username)
	if user.Username == "" {
		return eris.New("username is required")
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoUpdates: clause.AssignmentColumns([]string{"password"}),
	}).Create(user).Error
	if err != nil {
		r.logError(logrus.Fields{"username": user.Username}, err, "saving user")
		return eris.Wrapf(err, "saving user: %s", user.Username)
	}
	return nil
}

func (r *GormRepository) firstBySlug(ctx context.Context, dest any, kind, slug string) (bool, error) {
	trimmed := strings.TrimSpace(slug)
	if trimmed == "" {
		return false, eris.New("slug is required")
	}

	err := r.db.WithContext(ctx).First(dest, "slug = ?", trimmed).Error
	if err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		r.logError(logrus.Fields{"slug": trimmed}, err, "fetching "+kind+" by slug")
		return false, eris.Wrapf(err, "fetching %s by slug: %s", kind, trimmed)
	}
	return true, nil
}

func (r *GormRepository) upsertBySlug(ctx context.Context, record any, kind, slug string, columns ...string) error {
	if strings.TrimSpace(slug) == "" {
		return eris.Errorf("%s slug is required", kind)
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(record).Error
	if err != nil {
		r.logError(logrus.Fields{"slug": slug}, err, "saving "+kind)
		return eris.Wrapf(err, "saving %s: %s", kind, slug)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if eris.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func (r *GormRepository) logError(fields logrus.Fields, err error, message string) {
	if r.logger == nil {
		return
	}

	entry := r.logger.WithField("error", err.Error())
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	entry.Error(message)
}
