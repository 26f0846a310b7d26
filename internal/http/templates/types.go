package templates

import (
	"github.com/a-h/templ"

	"arcology/site/internal/forms"
	"arcology/site/internal/site"
)

// LayoutData carries the values shared by every page shell.
type LayoutData struct {
	Title      string
	Theme      site.Theme
	ActivePath string
	// RefreshSeconds adds a meta refresh while sections are still loading.
	RefreshSeconds int
	Year           int
}

// SectionStatus is the render state of one fetched section.
type SectionStatus int

const (
	SectionLoading SectionStatus = iota
	SectionFailed
	SectionReady
)

func (s SectionStatus) String() string {
	switch s {
	case SectionFailed:
		return "error"
	case SectionReady:
		return "ready"
	default:
		return "loading"
	}
}

// Link is an anchor with a label.
type Link struct {
	Href  string
	Label string
}

// SectionView describes how a fetched section renders outside its data.
type SectionView struct {
	ID       string
	Title    string
	Subtitle string
	// Noun names the collection in loading, error and empty copy, e.g. "projects".
	Noun      string
	Status    SectionStatus
	Skeletons int
	// Key and ReturnTo feed the retry form.
	Key       string
	ReturnTo  string
	Empty     bool
	ResetPath string
	More      *Link
}

// SectionBlock pairs a section with the component drawn once it is ready.
type SectionBlock struct {
	View SectionView
	Body templ.Component
}

// FeatureView is an icon, title and description triple.
type FeatureView struct {
	Icon        site.Icon
	Title       string
	Description string
}

// ServiceCard is a service in a grid.
type ServiceCard struct {
	Icon        site.Icon
	Title       string
	Description string
	Href        string
}

// ProjectCard is a project in a grid.
type ProjectCard struct {
	Title         string
	Description   string
	ImageURL      string
	CategoryLabel string
	Href          string
}

// TestimonialCard is a client quote. Filled and Remainder always sum to site.MaxStars.
type TestimonialCard struct {
	Name      string
	Role      string
	Content   string
	ImageURL  string
	Filled    int
	Remainder int
}

// BlogCard is an article teaser.
type BlogCard struct {
	Title          string
	Excerpt        string
	ImageURL       string
	CategoryLabel  string
	PublishedLabel string
	Href           string
}

// FaqItem is a question and its answer.
type FaqItem struct {
	Question string
	Answer   string
}

// CategoryOption is one entry of a listing's category bar.
type CategoryOption struct {
	Label  string
	Href   string
	Active bool
}

// FilterView is the category bar and search box above a listing.
type FilterView struct {
	Action     string
	Category   string
	Search     string
	Categories []CategoryOption
	ShowSearch bool
}

// ListingPageData is a full-page listing of one collection.
type ListingPageData struct {
	Heading string
	Intro   string
	Filter  *FilterView
	Section SectionBlock
}

// HomePageData holds the hero, about copy and the fetched sections of the landing page.
type HomePageData struct {
	Theme    site.Theme
	Reasons  []FeatureView
	Sections []SectionBlock
	Contact  ContactFormData
}

// AboutPageData holds the about page copy.
type AboutPageData struct {
	Theme   site.Theme
	Reasons []FeatureView
}

// DetailPageData wraps a detail view that may still be loading or have failed.
type DetailPageData struct {
	Section SectionBlock
	Back    Link
}

// ServiceDetail is the body of a service page.
type ServiceDetail struct {
	Icon        site.Icon
	Title       string
	Description string
}

// ProjectDetail is the body of a project page.
type ProjectDetail struct {
	Title         string
	Description   string
	ImageURL      string
	CategoryLabel string
}

// BlogDetail is the body of an article page. HTML is rendered markdown.
type BlogDetail struct {
	Title          string
	ImageURL       string
	CategoryLabel  string
	PublishedLabel string
	ReadingMinutes int
	HTML           string
}

// Option is a select entry.
type Option struct {
	Value string
	Label string
}

// FormView is the render state of a submitted or fresh form.
type FormView struct {
	Action  string
	Phase   forms.Phase
	Values  map[string]string
	Errors  forms.FieldErrors
	Failure string
}

// ContactFormData is the contact form with its service choices.
type ContactFormData struct {
	Form     FormView
	Services []Option
}

// ContactPageData is the contact page.
type ContactPageData struct {
	Theme site.Theme
	Form  ContactFormData
}

// SchedulePageData is the consultation booking page.
type SchedulePageData struct {
	Theme     site.Theme
	Reasons   []FeatureView
	Form      FormView
	TimeSlots []string
	MinDate   string
}

// NewsletterPageData shows the result of a newsletter sign-up.
type NewsletterPageData struct {
	Form     FormView
	ReturnTo string
}

// ErrorPageData holds information for rendering an error view.
type ErrorPageData struct {
	StatusLabel string
	Message     string
}
