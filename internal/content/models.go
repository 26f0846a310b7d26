package content

import "time"

// User is an administrative account. Passwords are stored as bcrypt hashes and never serialised.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"size:255;uniqueIndex:idx_users_username;not null" json:"username"`
	Password string `gorm:"size:255;not null" json:"-"`
}

// TableName defines the table name for the User model.
func (User) TableName() string { return "users" }

// Service is an architectural service offered by the firm.
type Service struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text;not null" json:"description"`
	Icon        string `gorm:"size:100;not null" json:"icon"`
	Slug        string `gorm:"size:255;uniqueIndex:idx_services_slug;not null" json:"slug"`
}

// TableName defines the table name for the Service model.
func (Service) TableName() string { return "services" }

// FilterKey returns the slug; services are refined by slug.
func (s Service) FilterKey() string { return s.Slug }

// SearchFields lists the text matched by free-text search.
func (s Service) SearchFields() []string { return []string{s.Title, s.Description} }

// Project is a portfolio entry.
type Project struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text;not null" json:"description"`
	ImageURL    string `gorm:"column:image_url;size:1024;not null" json:"imageUrl"`
	Category    string `gorm:"size:100;index:idx_projects_category;not null" json:"category"`
	Slug        string `gorm:"size:255;uniqueIndex:idx_projects_slug;not null" json:"slug"`
}

// TableName defines the table name for the Project model.
func (Project) TableName() string { return "projects" }

func (p Project) FilterKey() string { return p.Category }

func (p Project) SearchFields() []string { return []string{p.Title, p.Description} }

// Testimonial is a client quote with a star rating between 0 and 5.
type Testimonial struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:255;not null" json:"name"`
	Role     string `gorm:"size:255;not null" json:"role"`
	Content  string `gorm:"type:text;not null" json:"content"`
	ImageURL string `gorm:"column:image_url;size:1024;not null" json:"imageUrl"`
	Rating   int    `gorm:"not null" json:"rating"`
}

// TableName defines the table name for the Testimonial model.
func (Testimonial) TableName() string { return "testimonials" }

// FilterKey is empty; testimonials have no categories.
func (t Testimonial) FilterKey() string { return "" }

func (t Testimonial) SearchFields() []string { return []string{t.Name, t.Role, t.Content} }

// Blog is a published article. Content holds markdown.
type Blog struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"size:255;not null" json:"title"`
	Excerpt       string    `gorm:"type:text;not null" json:"excerpt"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	ImageURL      string    `gorm:"column:image_url;size:1024;not null" json:"imageUrl"`
	Category      string    `gorm:"size:100;index:idx_blogs_category;not null" json:"category"`
	Slug          string    `gorm:"size:255;uniqueIndex:idx_blogs_slug;not null" json:"slug"`
	PublishedDate time.Time `gorm:"column:published_date;index:idx_blogs_published_date;not null" json:"publishedDate"`
}

// TableName defines the table name for the Blog model.
func (Blog) TableName() string { return "blogs" }

func (b Blog) FilterKey() string { return b.Category }

func (b Blog) SearchFields() []string { return []string{b.Title, b.Excerpt} }

// Faq is a question/answer pair shown in ascending Order.
type Faq struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Question string `gorm:"type:text;not null" json:"question"`
	Answer   string `gorm:"type:text;not null" json:"answer"`
	Order    int    `gorm:"column:order;not null" json:"order"`
}

// TableName defines the table name for the Faq model.
func (Faq) TableName() string { return "faqs" }

func (f Faq) FilterKey() string { return "" }

func (f Faq) SearchFields() []string { return []string{f.Question, f.Answer} }

// Contact is an append-only contact form submission.
type Contact struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:320;not null" json:"email"`
	Phone     *string   `gorm:"size:64" json:"phone,omitempty"`
	Service   *string   `gorm:"size:255" json:"service,omitempty"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
}

// TableName defines the table name for the Contact model.
func (Contact) TableName() string { return "contacts" }

// NewsletterSubscriber is an append-only newsletter sign-up. Email is unique.
type NewsletterSubscriber struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"size:320;uniqueIndex:idx_newsletter_email;not null" json:"email"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
}

// TableName defines the table name for the NewsletterSubscriber model.
func (NewsletterSubscriber) TableName() string { return "newsletter" }
