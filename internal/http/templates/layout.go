package templates

import (
	"strconv"

	"github.com/a-h/templ"

	"arcology/site/internal/site"
)

const boxiconsURL = "https://unpkg.com/boxicons@2.1.4/css/boxicons.min.css"

// Page wraps body in the document shell: head, header navigation and footer.
func Page(layout LayoutData, body templ.Component) templ.Component {
	return component(func(m *markup) {
		theme := layout.Theme
		title := layout.Title
		if title == "" {
			title = theme.Brand
		}

		m.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		m.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		if layout.RefreshSeconds > 0 {
			m.raw(`<meta http-equiv="refresh" content="`, strconv.Itoa(layout.RefreshSeconds), `">`)
		}
		m.raw("<title>")
		m.text(title)
		m.raw("</title>")
		m.raw(`<meta name="description"`)
		m.attr("content", theme.Tagline)
		m.raw(">")
		m.raw(`<link rel="icon" href="/favicon.svg" type="image/svg+xml">`)
		m.raw(`<link rel="stylesheet" href="`, boxiconsURL, `">`)
		m.raw(`<link rel="stylesheet" href="/static/site.css">`)
		paletteStyle(m, theme.Palette)
		m.raw(`<script src="/static/site.js" defer></script>`)
		m.raw("</head>")

		m.raw("<body")
		m.attr("class", "theme-"+theme.Key)
		m.raw(">")
		header(m, theme, layout.ActivePath)
		m.raw(`<main id="content">`)
		m.render(body)
		m.raw("</main>")
		footer(m, theme, layout)
		m.raw("</body></html>")
	})
}

func paletteStyle(m *markup, p site.Palette) {
	m.raw("<style>:root{")
	vars := []struct{ name, value string }{
		{"--color-primary", p.Primary},
		{"--color-secondary", p.Secondary},
		{"--color-surface", p.Surface},
		{"--color-text", p.Text},
		{"--color-muted", p.Muted},
	}
	for _, v := range vars {
		if v.value == "" {
			continue
		}
		m.raw(v.name, ":")
		m.text(v.value)
		m.raw(";")
	}
	m.raw("}</style>")
}

func header(m *markup, theme site.Theme, active string) {
	m.raw(`<header class="site-header"><a class="brand" href="/">`)
	m.text(theme.Brand)
	m.raw(`</a><nav class="site-nav"><ul>`)
	for _, item := range theme.Nav {
		m.raw("<li>")
		class := "nav-link"
		if isActive(item.Path, active) {
			class += " active"
		}
		m.link(class, Link{Href: item.Path, Label: item.Label})
		m.raw("</li>")
	}
	m.raw(`</ul></nav><a class="button button-primary" href="/schedule">Schedule a Consultation</a></header>`)
}

func isActive(path, active string) bool {
	if path == "/" {
		return active == "/"
	}
	return active == path || (len(active) > len(path) && active[:len(path)+1] == path+"/")
}

func footer(m *markup, theme site.Theme, layout LayoutData) {
	m.raw(`<footer class="site-footer"><div class="footer-grid">`)

	m.raw(`<div class="footer-brand">`)
	m.heading(3, "", theme.Brand)
	m.paragraph("", theme.Tagline)
	m.raw("</div>")

	m.raw(`<div class="footer-contact"><h4>Contact</h4><address>`)
	for _, line := range theme.Address {
		m.text(line)
		m.raw("<br>")
	}
	m.raw("</address>")
	m.raw(`<p><i class="bx bx-phone"></i> `)
	m.text(theme.Phone)
	m.raw(`</p><p><i class="bx bx-envelope"></i> <a`)
	m.attr("href", "mailto:"+theme.Email)
	m.raw(">")
	m.text(theme.Email)
	m.raw("</a></p>")
	m.paragraph("hours", theme.Hours)
	m.raw("</div>")

	m.raw(`<div class="footer-newsletter" id="newsletter"><h4>Newsletter</h4>`)
	m.raw("<p>Subscribe for project news and design insights.</p>")
	m.render(NewsletterForm(FormView{Action: "/newsletter"}, layout.ActivePath))
	m.raw("</div>")

	m.raw(`</div><p class="copyright">&copy; `)
	if layout.Year > 0 {
		m.raw(strconv.Itoa(layout.Year), " ")
	}
	m.text(theme.Brand)
	m.raw(". All rights reserved.</p></footer>")
}
