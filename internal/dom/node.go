package dom

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	whitespace   = regexp.MustCompile(`\s+`)
	displayNone  = regexp.MustCompile(`(?i)(^|;)\s*display\s*:\s*none\s*(;|$)`)
	visibilityNo = regexp.MustCompile(`(?i)(^|;)\s*visibility\s*:\s*(hidden|collapse)\s*(;|$)`)
)

// IsElement reports whether n is an element node.
func IsElement(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode
}

// Attr returns the value of the named attribute.
func Attr(n *html.Node, name string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, attr := range n.Attr {
		if attr.Namespace == "" && strings.EqualFold(attr.Key, name) {
			return attr.Val, true
		}
	}
	return "", false
}

// SetAttr sets or replaces the named attribute.
func SetAttr(n *html.Node, name, value string) {
	for i, attr := range n.Attr {
		if attr.Namespace == "" && strings.EqualFold(attr.Key, name) {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: name, Val: value})
}

// TextContent concatenates every descendant text node, like the DOM property
// of the same name.
func TextContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
		case html.CommentNode:
		default:
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				walk(c)
			}
		}
	}
	walk(n)
	return b.String()
}

// NodeText joins only the text nodes that are direct children of n, which is
// what text queries match against.
func NodeText(n *html.Node) string {
	if n == nil {
		return ""
	}
	if n.Type == html.ElementNode && n.Data == "input" {
		typ, _ := Attr(n, "type")
		if typ == "submit" || typ == "button" {
			value, _ := Attr(n, "value")
			return value
		}
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

// Normalize trims and collapses whitespace.
func Normalize(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

// Elements returns every element below root in document order. Root itself is
// included when includeRoot is set.
func Elements(root *html.Node, includeRoot bool) []*html.Node {
	var out []*html.Node
	if includeRoot && IsElement(root) {
		out = append(out, root)
	}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode {
				out = append(out, c)
			}
			walk(c)
		}
	}
	if root != nil {
		walk(root)
	}
	return out
}

// Document returns the topmost ancestor of n.
func Document(n *html.Node) *html.Node {
	for n != nil && n.Parent != nil {
		n = n.Parent
	}
	return n
}

// ByID finds the element with the given id in n's document.
func ByID(n *html.Node, id string) *html.Node {
	for _, el := range Elements(Document(n), true) {
		if v, ok := Attr(el, "id"); ok && v == id {
			return el
		}
	}
	return nil
}

// IsVisible approximates the automation framework's visibility check: an
// element is visible unless it or an ancestor is hidden by the hidden
// attribute, display:none or visibility:hidden, or it has no renderable
// content at all.
func IsVisible(n *html.Node) bool {
	if !IsElement(n) {
		return false
	}
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Type != html.ElementNode {
			continue
		}
		if hiddenByMarkup(cur) {
			return false
		}
	}
	switch n.Data {
	case "input", "img", "select", "textarea", "button", "svg", "canvas", "video", "iframe":
		return true
	}
	if strings.TrimSpace(TextContent(n)) != "" {
		return true
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if IsVisible(c) {
			return true
		}
	}
	return false
}

// IsInaccessible reports whether n is excluded from the accessibility tree,
// which additionally honors aria-hidden.
func IsInaccessible(n *html.Node) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Type != html.ElementNode {
			continue
		}
		if hiddenByMarkup(cur) {
			return true
		}
		if v, ok := Attr(cur, "aria-hidden"); ok && v == "true" {
			return true
		}
	}
	return false
}

func hiddenByMarkup(n *html.Node) bool {
	if _, ok := Attr(n, "hidden"); ok {
		return true
	}
	switch n.Data {
	case "head", "script", "style", "template", "noscript":
		return true
	}
	style, _ := Attr(n, "style")
	return displayNone.MatchString(style) || visibilityNo.MatchString(style)
}
