// Package content loads fixture documents into HTML the in-process browser
// can parse, and renders DOM snapshots for query error messages.
package content

import (
	"fmt"
	"log/slog"
	"mime"
	"path"
	"strings"
)

// Media types understood by [ToHTML].
const (
	TypeHTML     = "text/html"
	TypeMarkdown = "text/markdown"
	TypePlain    = "text/plain"
)

var (
	markdownToHTML = MarkdownToHTML()
	normalizeNBSP  = NormalizeNBSP()
)

// ToHTML converts a document of the given content type into UTF-8 HTML.
// Markdown is rendered with raw HTML passed through, so fixtures can embed
// form controls. Plain text is wrapped in a pre element.
func ToHTML(contentType string, input []byte, logger *slog.Logger) ([]byte, error) {
	mimeType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to parse content mime type %q: %w", contentType, err)
	}

	input, err = UTF8Transformer(contentType, logger)(input)
	if err != nil {
		return nil, err
	}

	switch mimeType {
	case TypeMarkdown, "text/x-markdown":
		return Chain(normalizeNBSP, markdownToHTML)(input)
	case TypePlain:
		return Chain(normalizeNBSP, WrapPreformatted())(input)
	default:
		return normalizeNBSP(input)
	}
}

// TypeByPath guesses a content type from a file name, defaulting to HTML.
func TypeByPath(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".md", ".markdown":
		return TypeMarkdown + "; charset=utf-8"
	case ".txt":
		return TypePlain
	default:
		if typ := mime.TypeByExtension(path.Ext(name)); typ != "" {
			return typ
		}
		return TypeHTML
	}
}
