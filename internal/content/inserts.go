package content

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/goliatone/go-slug"
)

// MaxRating is the top of the testimonial rating scale.
const MaxRating = 5

var slugRule = validation.By(func(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if !slug.IsValid(s) {
		return validation.NewError("content.slug_invalid", "must be a lowercase, hyphen separated slug")
	}
	return nil
})

// NormalizeEmail trims and lower-cases an address before it is validated or stored.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// InsertService is the validated insert shape for services.
type InsertService struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Icon        string `json:"icon" yaml:"icon"`
	Slug        string `json:"slug" yaml:"slug"`
}

func (in InsertService) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&in.Description, validation.Required),
		validation.Field(&in.Icon, validation.Required),
		validation.Field(&in.Slug, validation.Required, slugRule),
	)
}

// Record converts the insert shape into a persistable Service.
func (in InsertService) Record() *Service {
	return &Service{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Icon:        strings.TrimSpace(in.Icon),
		Slug:        in.Slug,
	}
}

// InsertProject is the validated insert shape for projects.
type InsertProject struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	ImageURL    string `json:"imageUrl" yaml:"imageUrl"`
	Category    string `json:"category" yaml:"category"`
	Slug        string `json:"slug" yaml:"slug"`
}

func (in InsertProject) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&in.Description, validation.Required),
		validation.Field(&in.ImageURL, validation.Required, is.URL),
		validation.Field(&in.Category, validation.Required, validation.Length(1, 100)),
		validation.Field(&in.Slug, validation.Required, slugRule),
	)
}

func (in InsertProject) Record() *Project {
	return &Project{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		ImageURL:    strings.TrimSpace(in.ImageURL),
		Category:    strings.ToLower(strings.TrimSpace(in.Category)),
		Slug:        in.Slug,
	}
}

// InsertTestimonial is the validated insert shape for testimonials.
type InsertTestimonial struct {
	Name     string `json:"name" yaml:"name"`
	Role     string `json:"role" yaml:"role"`
	Content  string `json:"content" yaml:"content"`
	ImageURL string `json:"imageUrl" yaml:"imageUrl"`
	Rating   int    `json:"rating" yaml:"rating"`
}

func (in InsertTestimonial) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required),
		validation.Field(&in.Role, validation.Required),
		validation.Field(&in.Content, validation.Required),
		validation.Field(&in.ImageURL, validation.Required, is.URL),
		validation.Field(&in.Rating, validation.Min(0), validation.Max(MaxRating)),
	)
}

func (in InsertTestimonial) Record() *Testimonial {
	return &Testimonial{
		Name:     strings.TrimSpace(in.Name),
		Role:     strings.TrimSpace(in.Role),
		Content:  strings.TrimSpace(in.Content),
		ImageURL: strings.TrimSpace(in.ImageURL),
		Rating:   in.Rating,
	}
}

// InsertBlog is the validated insert shape for blog posts.
type InsertBlog struct {
	Title         string    `json:"title" yaml:"title"`
	Excerpt       string    `json:"excerpt" yaml:"excerpt"`
	Content       string    `json:"content" yaml:"-"`
	ImageURL      string    `json:"imageUrl" yaml:"imageUrl"`
	Category      string    `json:"category" yaml:"category"`
	Slug          string    `json:"slug" yaml:"slug"`
	PublishedDate time.Time `json:"publishedDate" yaml:"publishedDate"`
}

func (in InsertBlog) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&in.Excerpt, validation.Required),
		validation.Field(&in.Content, validation.Required),
		validation.Field(&in.ImageURL, validation.Required, is.URL),
		validation.Field(&in.Category, validation.Required, validation.Length(1, 100)),
		validation.Field(&in.Slug, validation.Required, slugRule),
		validation.Field(&in.PublishedDate, validation.Required),
	)
}

func (in InsertBlog) Record() *Blog {
	return &Blog{
		Title:         strings.TrimSpace(in.Title),
		Excerpt:       strings.TrimSpace(in.Excerpt),
		Content:       strings.TrimSpace(in.Content),
		ImageURL:      strings.TrimSpace(in.ImageURL),
		Category:      strings.ToLower(strings.TrimSpace(in.Category)),
		Slug:          in.Slug,
		PublishedDate: in.PublishedDate.UTC(),
	}
}

// InsertFaq is the validated insert shape for FAQ entries.
type InsertFaq struct {
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
	Order    int    `json:"order" yaml:"order"`
}

func (in InsertFaq) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Question, validation.Required),
		validation.Field(&in.Answer, validation.Required),
	)
}

func (in InsertFaq) Record() *Faq {
	return &Faq{
		Question: strings.TrimSpace(in.Question),
		Answer:   strings.TrimSpace(in.Answer),
		Order:    in.Order,
	}
}

// InsertContact is the validated insert shape for contact submissions.
type InsertContact struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   *string `json:"phone,omitempty"`
	Service *string `json:"service,omitempty"`
	Message string  `json:"message"`
}

func (in InsertContact) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&in.Email, validation.Required, is.EmailFormat),
		validation.Field(&in.Phone, validation.Length(0, 64)),
		validation.Field(&in.Message, validation.Required),
	)
}

func (in InsertContact) Record() *Contact {
	return &Contact{
		Name:    strings.TrimSpace(in.Name),
		Email:   NormalizeEmail(in.Email),
		Phone:   optional(in.Phone),
		Service: optional(in.Service),
		Message: strings.TrimSpace(in.Message),
	}
}

// InsertNewsletter is the validated insert shape for newsletter sign-ups.
type InsertNewsletter struct {
	Email string `json:"email"`
}

func (in InsertNewsletter) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Email, validation.Required, is.EmailFormat),
	)
}

func (in InsertNewsletter) Record() *NewsletterSubscriber {
	return &NewsletterSubscriber{Email: NormalizeEmail(in.Email)}
}

// InsertUser carries a plain-text password; callers hash it before persisting.
type InsertUser struct {
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
}

func (in InsertUser) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Username, validation.Required, validation.Length(3, 64), is.PrintableASCII),
		validation.Field(&in.Password, validation.Required, validation.Length(8, 72)),
	)
}

func optional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
