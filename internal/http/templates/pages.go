package templates

import (
	"strconv"

	"github.com/a-h/templ"

	"arcology/site/internal/site"
)

// HomePage renders the landing page: hero, about, the fetched sections and the contact
// form.
func HomePage(data HomePageData) templ.Component {
	return component(func(m *markup) {
		theme := data.Theme

		m.raw(`<section class="hero"`)
		if theme.HeroImage != "" {
			m.attr("style", "background-image:url('"+theme.HeroImage+"')")
		}
		m.raw(`><div class="hero-content">`)
		m.heading(1, "", theme.HeroTitle)
		m.paragraph("hero-subtitle", theme.HeroSubtitle)
		m.raw(`<div class="hero-actions">`)
		m.link("button button-primary", Link{Href: "/projects", Label: "Explore Our Projects"})
		m.link("button button-outline", Link{Href: "/contact", Label: "Get in Touch"})
		m.raw("</div></div></section>")

		about(m, data.Theme, data.Reasons)

		for _, block := range data.Sections {
			m.render(Section(block.View, block.Body))
		}

		m.raw(`<section id="contact" class="section section-contact"><div class="section-heading">`)
		m.heading(2, "", "Contact Us")
		m.paragraph("section-subtitle", "Have a project in mind? Reach out and let's create something remarkable together.")
		m.raw(`</div><div class="contact-layout">`)
		contactDetails(m, data.Theme)
		m.render(ContactForm(data.Contact))
		m.raw("</div></section>")

		m.render(NewsletterPopup("/"))
	})
}

func about(m *markup, theme site.Theme, reasons []FeatureView) {
	m.raw(`<section id="about" class="section section-about"><div class="about-layout"><div class="about-copy">`)
	m.heading(2, "", theme.AboutTitle)
	for _, paragraph := range theme.AboutBody {
		m.paragraph("", paragraph)
	}
	m.raw("</div>")
	m.image("about-image", theme.AboutImage, theme.AboutTitle)
	m.raw("</div>")
	if len(reasons) > 0 {
		m.heading(3, "reasons-title", "Why Choose Us")
		m.render(FeatureGrid(reasons))
	}
	m.raw("</section>")
}

func contactDetails(m *markup, theme site.Theme) {
	m.raw(`<div class="contact-details"><div class="contact-item"><i class="bx bx-map"></i><div><h4>Visit Us</h4><p>`)
	for i, line := range theme.Address {
		if i > 0 {
			m.raw("<br>")
		}
		m.text(line)
	}
	m.raw(`</p></div></div><div class="contact-item"><i class="bx bx-phone"></i><div><h4>Call Us</h4>`)
	m.paragraph("", theme.Phone)
	m.paragraph("", theme.Hours)
	m.raw(`</div></div><div class="contact-item"><i class="bx bx-envelope"></i><div><h4>Email Us</h4>`)
	m.paragraph("", theme.Email)
	m.raw("</div></div></div>")
}

// AboutPage renders the firm's story and its reasons to choose it.
func AboutPage(data AboutPageData) templ.Component {
	return component(func(m *markup) {
		pageHeader(m, data.Theme.AboutTitle, data.Theme.Tagline)
		about(m, data.Theme, data.Reasons)
	})
}

func pageHeader(m *markup, heading, intro string) {
	m.raw(`<section class="page-header">`)
	m.heading(1, "", heading)
	m.paragraph("", intro)
	m.raw("</section>")
}

// ListingPage renders a full collection page with its optional filters.
func ListingPage(data ListingPageData) templ.Component {
	return component(func(m *markup) {
		pageHeader(m, data.Heading, data.Intro)
		if data.Filter != nil && data.Section.View.Status == SectionReady {
			m.render(Filters(*data.Filter))
		}
		m.render(Section(data.Section.View, data.Section.Body))
	})
}

// DetailPage renders one record, or the loading and failure states of its section.
func DetailPage(data DetailPageData) templ.Component {
	return component(func(m *markup) {
		m.raw(`<div class="detail-page"><p class="back-link">`)
		m.link("", Link{Href: data.Back.Href, Label: "← " + data.Back.Label})
		m.raw("</p>")
		m.render(Section(data.Section.View, data.Section.Body))
		m.raw("</div>")
	})
}

// ServiceDetailView is the body of a service page.
func ServiceDetailView(detail ServiceDetail) templ.Component {
	return component(func(m *markup) {
		m.raw(`<article class="detail service-detail"><div class="service-icon"><i`)
		m.attr("class", detail.Icon.Class())
		m.raw("></i></div>")
		m.heading(1, "", detail.Title)
		m.paragraph("lead", detail.Description)
		m.link("button button-primary", Link{Href: "/schedule", Label: "Schedule a Consultation"})
		m.raw("</article>")
	})
}

// ProjectDetailView is the body of a project page.
func ProjectDetailView(detail ProjectDetail) templ.Component {
	return component(func(m *markup) {
		m.raw(`<article class="detail project-detail">`)
		m.image("detail-image", detail.ImageURL, detail.Title)
		m.paragraph("card-category", detail.CategoryLabel)
		m.heading(1, "", detail.Title)
		m.paragraph("lead", detail.Description)
		m.link("button button-primary", Link{Href: "/contact", Label: "Start a Similar Project"})
		m.raw("</article>")
	})
}

// BlogDetailView is the body of an article page.
func BlogDetailView(detail BlogDetail) templ.Component {
	return component(func(m *markup) {
		m.raw(`<article class="detail blog-detail">`)
		m.image("detail-image", detail.ImageURL, detail.Title)
		m.raw(`<div class="card-meta">`)
		m.paragraph("card-category", detail.CategoryLabel)
		m.paragraph("card-date", detail.PublishedLabel)
		m.paragraph("reading-time", strconv.Itoa(detail.ReadingMinutes)+" min read")
		m.raw("</div>")
		m.heading(1, "", detail.Title)
		m.raw(`<div class="prose">`)
		m.render(RawHTML(detail.HTML))
		m.raw("</div></article>")
	})
}

// ContactPage renders the contact details next to the contact form.
func ContactPage(data ContactPageData) templ.Component {
	return component(func(m *markup) {
		pageHeader(m, "Contact Us", "Have a project in mind? Reach out and let's create something remarkable together.")
		m.raw(`<section class="section section-contact"><div class="contact-layout">`)
		contactDetails(m, data.Theme)
		m.render(ContactForm(data.Form))
		m.raw("</div></section>")
	})
}

// SchedulePage renders the consultation booking form.
func SchedulePage(data SchedulePageData) templ.Component {
	return component(func(m *markup) {
		pageHeader(m, "Schedule a Consultation", "Book a meeting with our architects to discuss your project.")
		m.raw(`<section class="section section-schedule"><div class="schedule-layout">`)
		if len(data.Reasons) > 0 {
			m.render(FeatureGrid(data.Reasons))
		}
		m.render(ScheduleForm(data.Form, data.TimeSlots, data.MinDate))
		m.raw("</div></section>")
	})
}

// NewsletterPage renders the outcome of a newsletter sign-up.
func NewsletterPage(data NewsletterPageData) templ.Component {
	return component(func(m *markup) {
		pageHeader(m, "Newsletter", "Project news and design insights, a few times a year.")
		m.raw(`<section class="section section-newsletter">`)
		m.render(NewsletterForm(data.Form, data.ReturnTo))
		m.raw("</section>")
	})
}

// ErrorPage renders a status label and a visitor-facing message.
func ErrorPage(data ErrorPageData) templ.Component {
	return component(func(m *markup) {
		m.raw(`<section class="error-page">`)
		m.heading(1, "", data.StatusLabel)
		m.paragraph("", data.Message)
		m.link("button button-primary", Link{Href: "/", Label: "Back to home"})
		m.raw("</section>")
	})
}
