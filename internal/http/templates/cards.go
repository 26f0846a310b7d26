package templates

import "github.com/a-h/templ"

// ServiceGrid draws service cards.
func ServiceGrid(cards []ServiceCard) templ.Component {
	return component(func(m *markup) {
		m.raw(`<div class="card-grid services-grid">`)
		for _, card := range cards {
			m.raw(`<article class="card service-card"><div class="service-icon"><i`)
			m.attr("class", card.Icon.Class())
			m.raw("></i></div>")
			m.heading(3, "", card.Title)
			m.paragraph("", card.Description)
			if card.Href != "" {
				m.link("card-link", Link{Href: card.Href, Label: "Learn more"})
			}
			m.raw("</article>")
		}
		m.raw("</div>")
	})
}

// FeatureGrid draws icon features such as the reasons to choose the firm.
func FeatureGrid(features []FeatureView) templ.Component {
	return component(func(m *markup) {
		m.raw(`<div class="card-grid feature-grid">`)
		for _, feature := range features {
			m.raw(`<div class="feature"><i`)
			m.attr("class", feature.Icon.Class())
			m.raw("></i>")
			m.heading(3, "", feature.Title)
			m.paragraph("", feature.Description)
			m.raw("</div>")
		}
		m.raw("</div>")
	})
}

// ProjectGrid draws project cards.
func ProjectGrid(cards []ProjectCard) templ.Component {
	return component(func(m *markup) {
		m.raw(`<div class="card-grid projects-grid">`)
		for _, card := range cards {
			m.raw(`<article class="card project-card">`)
			m.image("card-image", card.ImageURL, card.Title)
			m.raw(`<div class="card-body">`)
			m.paragraph("card-category", card.CategoryLabel)
			m.heading(3, "", card.Title)
			m.paragraph("", card.Description)
			if card.Href != "" {
				m.link("card-link", Link{Href: card.Href, Label: "View project"})
			}
			m.raw("</div></article>")
		}
		m.raw("</div>")
	})
}

// TestimonialGrid draws client quotes with their ratings.
func TestimonialGrid(cards []TestimonialCard) templ.Component {
	return component(func(m *markup) {
		m.raw(`<div class="card-grid testimonials-grid">`)
		for _, card := range cards {
			m.raw(`<article class="card testimonial-card">`)
			m.render(Stars(card.Filled, card.Remainder))
			m.raw(`<blockquote>`)
			m.text(card.Content)
			m.raw(`</blockquote><div class="testimonial-author">`)
			m.image("avatar", card.ImageURL, card.Name)
			m.raw("<div>")
			m.paragraph("author-name", card.Name)
			m.paragraph("author-role", card.Role)
			m.raw("</div></div></article>")
		}
		m.raw("</div>")
	})
}

// BlogGrid draws article teasers.
func BlogGrid(cards []BlogCard) templ.Component {
	return component(func(m *markup) {
		m.raw(`<div class="card-grid blog-grid">`)
		for _, card := range cards {
			m.raw(`<article class="card blog-card">`)
			m.image("card-image", card.ImageURL, card.Title)
			m.raw(`<div class="card-body"><div class="card-meta">`)
			m.paragraph("card-category", card.CategoryLabel)
			m.paragraph("card-date", card.PublishedLabel)
			m.raw("</div>")
			m.heading(3, "", card.Title)
			m.paragraph("", card.Excerpt)
			if card.Href != "" {
				m.link("card-link", Link{Href: card.Href, Label: "Read more"})
			}
			m.raw("</div></article>")
		}
		m.raw("</div>")
	})
}

// FaqList draws questions as disclosure widgets.
func FaqList(items []FaqItem) templ.Component {
	return component(func(m *markup) {
		m.raw(`<div class="faq-list">`)
		for _, item := range items {
			m.raw(`<details class="faq-item"><summary>`)
			m.text(item.Question)
			m.raw("</summary>")
			m.paragraph("", item.Answer)
			m.raw("</details>")
		}
		m.raw("</div>")
	})
}
