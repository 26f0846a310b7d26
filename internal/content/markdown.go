package content

import (
	"bytes"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"golang.org/x/net/html"
)

const wordsPerMinute = 200

// markdown renders blog bodies. Raw HTML in the source is dropped.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM, extension.Linkify),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// RenderMarkdown converts a markdown blog body into HTML.
func RenderMarkdown(source string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		return "", eris.Wrap(err, "rendering markdown")
	}
	return buf.String(), nil
}

// ReadingMinutes estimates reading time of rendered HTML, never less than one minute.
func ReadingMinutes(rendered string) int {
	words := 0
	tokenizer := html.NewTokenizer(strings.NewReader(rendered))
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			minutes := (words + wordsPerMinute - 1) / wordsPerMinute
			if minutes < 1 {
				return 1
			}
			return minutes
		case html.TextToken:
			words += len(strings.Fields(string(tokenizer.Text())))
		}
	}
}
