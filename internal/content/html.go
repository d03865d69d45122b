package content

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultSnapshotLimit caps the DOM snapshot appended to query errors.
const DefaultSnapshotLimit = 7000

var (
	// nbspPattern matches both the HTML entity &nbsp; (case insensitive) and
	// the actual unicode non-breaking space character (U+00A0).
	nbspPattern = regexp.MustCompile("(?i)&nbsp;|\xc2\xa0")

	elementName = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

	// Attributes the queries read, so the snapshot shows why something did or
	// did not match.
	snapshotAttrs = []string{
		"class", "style", "name", "type", "value", "placeholder", "alt", "for",
		"role", "hidden", "checked", "selected", "disabled", "multiple",
		"aria-label", "aria-labelledby", "aria-describedby", "aria-hidden",
		"aria-level", "aria-checked", "aria-selected", "aria-pressed",
		"aria-expanded", "aria-disabled", "open", "colspan", "rowspan",
	}

	voidElements = map[string]bool{
		"area": true, "base": true, "br": true, "col": true, "embed": true,
		"hr": true, "img": true, "input": true, "link": true, "meta": true,
		"source": true, "track": true, "wbr": true,
	}
)

// NormalizeNBSP replaces non-breaking space entities and characters with
// regular spaces. Operates on raw input before HTML parsing.
func NormalizeNBSP() TransformerFunc {
	return func(input []byte) ([]byte, error) {
		return nbspPattern.ReplaceAll(input, []byte{' '}), nil
	}
}

// ExtractHTMLBody extracts just the body content from a full HTML document.
// If no body tag exists, returns the input unchanged.
func ExtractHTMLBody() TransformerFunc {
	return func(input []byte) ([]byte, error) {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(input))
		if err != nil {
			return nil, fmt.Errorf("failed to parse HTML document: %w", err)
		}
		body := doc.Find("body")
		if body.Length() == 0 {
			return input, nil
		}
		inner, err := body.Html()
		if err != nil {
			return nil, fmt.Errorf("failed to extract HTML body: %w", err)
		}
		return []byte(inner), nil
	}
}

// WrapPreformatted escapes plain text into a pre element.
func WrapPreformatted() TransformerFunc {
	return func(input []byte) ([]byte, error) {
		return []byte("<pre>" + html.EscapeString(string(input)) + "</pre>"), nil
	}
}

// SnapshotPolicy keeps the structure and the query-relevant attributes of a
// document while dropping scripts, styles and event handlers. Extra
// attributes, such as a custom test id attribute, are allowed globally.
func SnapshotPolicy(extraAttrs ...string) *bluemonday.Policy {
	policy := bluemonday.NewPolicy()
	policy.AllowElementsMatching(elementName)
	policy.AllowNoAttrs().OnElementsMatching(elementName)
	policy.AllowStandardAttributes()
	policy.AllowStandardURLs()
	policy.RequireNoFollowOnLinks(false)
	policy.AllowDataAttributes()
	policy.AllowAttrs(snapshotAttrs...).Globally()
	policy.AllowAttrs("href").OnElements("a", "area")
	policy.AllowAttrs("src").OnElements("img")
	if len(extraAttrs) > 0 {
		policy.AllowAttrs(extraAttrs...).Globally()
	}
	return policy
}

// Snapshotter renders indented, sanitized DOM snapshots.
type Snapshotter struct {
	policy *bluemonday.Policy
	limit  int
}

// NewSnapshotter returns a Snapshotter truncating output at limit characters.
// A limit of zero or less uses [DefaultSnapshotLimit].
func NewSnapshotter(limit int, extraAttrs ...string) *Snapshotter {
	if limit <= 0 {
		limit = DefaultSnapshotLimit
	}
	return &Snapshotter{policy: SnapshotPolicy(extraAttrs...), limit: limit}
}

// Snapshot renders n. Documents and the html element are rendered from their
// body.
func (s *Snapshotter) Snapshot(n *xhtml.Node) string {
	if n == nil {
		return ""
	}
	root := bodyOf(n)

	var rendered bytes.Buffer
	wrapBody := root.DataAtom == atom.Body
	if wrapBody {
		for c := root.FirstChild; c != nil; c = c.NextSibling {
			if err := xhtml.Render(&rendered, c); err != nil {
				return ""
			}
		}
	} else if err := xhtml.Render(&rendered, root); err != nil {
		return ""
	}

	context := &xhtml.Node{Type: xhtml.ElementNode, Data: "body", DataAtom: atom.Body}
	if !wrapBody && root.Parent != nil && root.Parent.Type == xhtml.ElementNode {
		context = &xhtml.Node{Type: xhtml.ElementNode, Data: root.Parent.Data, DataAtom: root.Parent.DataAtom}
	}
	nodes, err := xhtml.ParseFragment(bytes.NewReader(s.policy.SanitizeBytes(rendered.Bytes())), context)
	if err != nil {
		return ""
	}

	var out strings.Builder
	depth := 0
	if wrapBody {
		out.WriteString("<body>\n")
		depth = 1
	}
	for _, node := range nodes {
		writePretty(&out, node, depth)
	}
	if wrapBody {
		out.WriteString("</body>")
	}
	return truncate(strings.TrimRight(out.String(), "\n"), s.limit)
}

func bodyOf(n *xhtml.Node) *xhtml.Node {
	if n.Type != xhtml.DocumentNode && n.DataAtom != atom.Html {
		return n
	}
	var found *xhtml.Node
	var walk func(*xhtml.Node)
	walk = func(cur *xhtml.Node) {
		for c := cur.FirstChild; c != nil && found == nil; c = c.NextSibling {
			if c.DataAtom == atom.Body {
				found = c
				return
			}
			walk(c)
		}
	}
	walk(n)
	if found == nil {
		return n
	}
	return found
}

func writePretty(out *strings.Builder, n *xhtml.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	switch n.Type {
	case xhtml.TextNode:
		if text := strings.TrimSpace(n.Data); text != "" {
			out.WriteString(indent + html.EscapeString(text) + "\n")
		}
	case xhtml.ElementNode:
		out.WriteString(indent + "<" + n.Data)
		for _, attr := range n.Attr {
			fmt.Fprintf(out, ` %s="%s"`, attr.Key, html.EscapeString(attr.Val))
		}
		out.WriteString(">\n")
		if voidElements[n.Data] {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writePretty(out, c, depth+1)
		}
		out.WriteString(indent + "</" + n.Data + ">\n")
	default:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writePretty(out, c, depth)
		}
	}
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + "..."
}
