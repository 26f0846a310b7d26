package templates

import (
	"strconv"

	"github.com/a-h/templ"
)

// RetryPath receives the retry form of a failed section.
const RetryPath = "/sections/retry"

// Section draws the heading of a fetched section followed by its skeletons, its failure
// banner, its empty state or body, depending on view.Status.
func Section(view SectionView, body templ.Component) templ.Component {
	return component(func(m *markup) {
		state := view.Status.String()
		if view.Status == SectionReady && view.Empty {
			state = "empty"
		}

		m.raw("<section")
		if view.ID != "" {
			m.attr("id", view.ID)
		}
		m.attr("class", "section section-"+view.ID)
		m.attr("data-state", state)
		m.raw(">")

		if view.Title != "" {
			m.raw(`<div class="section-heading">`)
			m.heading(2, "", view.Title)
			m.paragraph("section-subtitle", view.Subtitle)
			m.raw("</div>")
		}

		switch {
		case view.Status == SectionLoading:
			skeletons(m, view)
		case view.Status == SectionFailed:
			failure(m, view)
		case view.Empty:
			empty(m, view)
		default:
			m.render(body)
			if view.More != nil {
				m.raw(`<div class="section-more">`)
				m.link("button button-outline", *view.More)
				m.raw("</div>")
			}
		}

		m.raw("</section>")
	})
}

func skeletons(m *markup, view SectionView) {
	m.raw(`<div class="skeleton-grid" aria-busy="true"`)
	m.attr("aria-label", "Loading "+view.Noun)
	m.raw(">")
	for i := 0; i < view.Skeletons; i++ {
		m.raw(`<div class="skeleton-card"><div class="skeleton-block"></div><div class="skeleton-line"></div><div class="skeleton-line short"></div></div>`)
	}
	m.raw("</div>")
}

func failure(m *markup, view SectionView) {
	m.raw(`<div class="section-error" role="alert"><p>`)
	m.text("Failed to load " + view.Noun + ". Please try again later.")
	m.raw("</p>")
	if view.Key != "" {
		m.raw(`<form method="post" action="`, RetryPath, `">`)
		m.raw(`<input type="hidden" name="key"`)
		m.attr("value", view.Key)
		m.raw(`><input type="hidden" name="return"`)
		m.attr("value", view.ReturnTo)
		m.raw(`><button type="submit" class="button button-outline">Try again</button></form>`)
	}
	m.raw("</div>")
}

func empty(m *markup, view SectionView) {
	m.raw(`<div class="section-empty"><p>`)
	m.text("No " + view.Noun + " found.")
	m.raw("</p>")
	if view.ResetPath != "" {
		m.link("button button-outline", Link{Href: view.ResetPath, Label: "Reset filters"})
	}
	m.raw("</div>")
}

// Filters draws the category bar and the search box of a listing.
func Filters(view FilterView) templ.Component {
	return component(func(m *markup) {
		m.raw(`<div class="listing-filters">`)
		if len(view.Categories) > 1 {
			m.raw(`<nav class="category-bar" aria-label="Categories">`)
			for _, option := range view.Categories {
				class := "category-pill"
				if option.Active {
					class += " active"
				}
				m.link(class, Link{Href: option.Href, Label: option.Label})
			}
			m.raw("</nav>")
		}
		if view.ShowSearch {
			m.raw(`<form class="search-form" method="get"`)
			m.attr("action", view.Action)
			m.raw(`><input type="hidden" name="category"`)
			m.attr("value", view.Category)
			m.raw(`><input type="search" name="search" placeholder="Search..."`)
			m.attr("value", view.Search)
			m.raw(`><button type="submit" class="button button-primary"><i class="bx bx-search"></i> Search</button></form>`)
		}
		m.raw("</div>")
	})
}

// Stars draws filled glyphs followed by empty ones.
func Stars(filled, remainder int) templ.Component {
	return component(func(m *markup) {
		m.raw(`<div class="rating"`)
		m.attr("aria-label", "Rated "+strconv.Itoa(filled)+" out of "+strconv.Itoa(filled+remainder))
		m.raw(">")
		for i := 0; i < filled; i++ {
			m.raw(`<i class="bx bxs-star star-filled"></i>`)
		}
		for i := 0; i < remainder; i++ {
			m.raw(`<i class="bx bx-star star-empty"></i>`)
		}
		m.raw("</div>")
	})
}
