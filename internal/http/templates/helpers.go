package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// RawHTML returns a templ component that writes the provided HTML without escaping.
func RawHTML(html string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		_, err := io.WriteString(w, html)
		return err
	})
}

// markup accumulates writes and keeps the first error.
type markup struct {
	ctx context.Context
	w   io.Writer
	err error
}

func component(fn func(m *markup)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		m := &markup{ctx: ctx, w: w}
		fn(m)
		return m.err
	})
}

func (m *markup) raw(parts ...string) {
	for _, part := range parts {
		if m.err != nil {
			return
		}
		_, m.err = io.WriteString(m.w, part)
	}
}

// text writes escaped text. It is also safe inside double-quoted attributes.
func (m *markup) text(value string) {
	m.raw(templ.EscapeString(value))
}

func (m *markup) attr(name, value string) {
	m.raw(" ", name, `="`)
	m.text(value)
	m.raw(`"`)
}

func (m *markup) render(c templ.Component) {
	if m.err != nil || c == nil {
		return
	}
	m.err = c.Render(m.ctx, m.w)
}

func (m *markup) heading(level int, class, value string) {
	tag := "h" + strconv.Itoa(level)
	m.raw("<", tag)
	if class != "" {
		m.attr("class", class)
	}
	m.raw(">")
	m.text(value)
	m.raw("</", tag, ">")
}

func (m *markup) paragraph(class, value string) {
	if value == "" {
		return
	}
	m.raw("<p")
	if class != "" {
		m.attr("class", class)
	}
	m.raw(">")
	m.text(value)
	m.raw("</p>")
}

func (m *markup) link(class string, l Link) {
	m.raw("<a")
	m.attr("href", l.Href)
	if class != "" {
		m.attr("class", class)
	}
	m.raw(">")
	m.text(l.Label)
	m.raw("</a>")
}

func (m *markup) image(class, src, alt string) {
	if src == "" {
		return
	}
	m.raw("<img")
	m.attr("src", src)
	m.attr("alt", alt)
	if class != "" {
		m.attr("class", class)
	}
	m.raw(` loading="lazy">`)
}
