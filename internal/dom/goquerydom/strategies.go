package goquerydom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/stolasapp/rodtl/internal/dom"
)

func (l *Library) prepare(args []any, queryName string) (*textMatcher, options, error) {
	opts, err := parseOptions(args)
	if err != nil {
		return nil, opts, err
	}
	m, err := l.newMatcher(firstArg(args), opts, queryName)
	return m, opts, err
}

// byAttribute matches elements below root carrying attr.
func (l *Library) byAttribute(root *html.Node, attr string, m *textMatcher) ([]*html.Node, error) {
	candidates, err := querySelectorAll(root, "["+attr+"]")
	if err != nil {
		return nil, err
	}
	var out []*html.Node
	for _, el := range candidates {
		value, _ := dom.Attr(el, attr)
		if m.match(value, el) {
			out = append(out, el)
		}
	}
	return out, nil
}

func (l *Library) byText(root *html.Node, args []any, queryName string) ([]*html.Node, description, error) {
	m, opts, err := l.prepare(args, queryName)
	if err != nil {
		return nil, description{}, err
	}
	candidates, err := querySelectorAll(root, opts.selector)
	if err != nil {
		return nil, description{}, err
	}
	if self, err := matchesSelector(root, opts.selector); err == nil && self {
		candidates = append([]*html.Node{root}, candidates...)
	}

	var out []*html.Node
	for _, el := range candidates {
		if opts.ignore != "" {
			ignored, err := matchesSelector(el, opts.ignore)
			if err != nil {
				return nil, description{}, err
			}
			if ignored {
				continue
			}
		}
		if m.match(dom.NodeText(el), el) {
			out = append(out, el)
		}
	}
	return out, description{
		notFound: fmt.Sprintf("Unable to find an element with the text: %s. "+
			"This could be because the text is broken up by multiple elements. "+
			"In this case, you can provide a function for your text matcher to make your matcher more flexible.",
			m.display),
		multiple: "Found multiple elements with the text: " + m.display,
	}, nil
}

func (l *Library) byTestID(root *html.Node, args []any, queryName string) ([]*html.Node, description, error) {
	m, _, err := l.prepare(args, queryName)
	if err != nil {
		return nil, description{}, err
	}
	out, err := l.byAttribute(root, l.testIDAttribute, m)
	by := fmt.Sprintf("[%s=%q]", l.testIDAttribute, m.display)
	return out, description{
		notFound: "Unable to find an element by: " + by,
		multiple: "Found multiple elements by: " + by,
	}, err
}

func (l *Library) byPlaceholderText(root *html.Node, args []any, queryName string) ([]*html.Node, description, error) {
	m, _, err := l.prepare(args, queryName)
	if err != nil {
		return nil, description{}, err
	}
	out, err := l.byAttribute(root, "placeholder", m)
	return out, description{
		notFound: "Unable to find an element with the placeholder text of: " + m.display,
		multiple: "Found multiple elements with the placeholder text of: " + m.display,
	}, err
}

func (l *Library) byAltText(root *html.Node, args []any, queryName string) ([]*html.Node, description, error) {
	m, _, err := l.prepare(args, queryName)
	if err != nil {
		return nil, description{}, err
	}
	candidates, err := querySelectorAll(root, "img[alt], input[alt], area[alt]")
	if err != nil {
		return nil, description{}, err
	}
	var out []*html.Node
	for _, el := range candidates {
		alt, _ := dom.Attr(el, "alt")
		if m.match(alt, el) {
			out = append(out, el)
		}
	}
	return out, description{
		notFound: "Unable to find an element with the alt text: " + m.display,
		multiple: "Found multiple elements with the alt text: " + m.display,
	}, nil
}

func (l *Library) byTitle(root *html.Node, args []any, queryName string) ([]*html.Node, description, error) {
	m, _, err := l.prepare(args, queryName)
	if err != nil {
		return nil, description{}, err
	}
	candidates, err := querySelectorAll(root, "[title], svg > title")
	if err != nil {
		return nil, description{}, err
	}
	var out []*html.Node
	for _, el := range candidates {
		title, ok := dom.Attr(el, "title")
		if !ok && el.Data == "title" {
			title = dom.NodeText(el)
		}
		if m.match(title, el) {
			out = append(out, el)
		}
	}
	return out, description{
		notFound: "Unable to find an element with the title: " + m.display + ".",
		multiple: "Found multiple elements with the title: " + m.display,
	}, nil
}

func (l *Library) byDisplayValue(root *html.Node, args []any, queryName string) ([]*html.Node, description, error) {
	m, _, err := l.prepare(args, queryName)
	if err != nil {
		return nil, description{}, err
	}
	candidates, err := querySelectorAll(root, "input, select, textarea")
	if err != nil {
		return nil, description{}, err
	}
	var out []*html.Node
	for _, el := range candidates {
		if el.Data == "select" {
			for _, option := range selectedOptions(el) {
				if m.match(dom.TextContent(option), el) {
					out = append(out, el)
					break
				}
			}
			continue
		}
		if m.match(DisplayValue(el), el) {
			out = append(out, el)
		}
	}
	return out, description{
		notFound: "Unable to find an element with the display value: " + m.display + ".",
		multiple: "Found multiple elements with the display value: " + m.display + ".",
	}, nil
}

// DisplayValue returns the current value of a form control.
func DisplayValue(el *html.Node) string {
	switch el.Data {
	case "textarea":
		return dom.TextContent(el)
	case "select":
		selected := selectedOptions(el)
		if len(selected) == 0 {
			return ""
		}
		if value, ok := dom.Attr(selected[0], "value"); ok {
			return value
		}
		return dom.TextContent(selected[0])
	default:
		value, _ := dom.Attr(el, "value")
		return value
	}
}

func selectedOptions(sel *html.Node) []*html.Node {
	options := make([]*html.Node, 0)
	for _, el := range dom.Elements(sel, false) {
		if el.Data != "option" {
			continue
		}
		if _, ok := dom.Attr(el, "selected"); ok {
			options = append(options, el)
		}
	}
	_, multiple := dom.Attr(sel, "multiple")
	if len(options) == 0 && !multiple {
		for _, el := range dom.Elements(sel, false) {
			if el.Data == "option" {
				return []*html.Node{el}
			}
		}
	}
	return options
}

var labelable = map[string]bool{
	"button": true, "input": true, "meter": true, "output": true,
	"progress": true, "select": true, "textarea": true,
}

func (l *Library) byLabelText(root *html.Node, args []any, queryName string) ([]*html.Node, description, error) {
	m, opts, err := l.prepare(args, queryName)
	if err != nil {
		return nil, description{}, err
	}
	var out []*html.Node
	for _, el := range dom.Elements(root, false) {
		if !labelable[el.Data] && !hasAttr(el, "aria-labelledby") && !hasAttr(el, "aria-label") {
			continue
		}
		if typ, _ := dom.Attr(el, "type"); el.Data == "input" && typ == "hidden" {
			continue
		}
		for _, label := range labelsOf(el) {
			if m.match(label, el) {
				out = append(out, el)
				break
			}
		}
	}
	out, err = filterSelector(out, opts.selector)
	if err != nil {
		return nil, description{}, err
	}
	return out, description{
		notFound: "Unable to find a label with the text of: " + m.display,
		multiple: "Found multiple elements with the text of: " + m.display,
		extra: func(_ *Library, root *html.Node) string {
			for _, label := range dom.Elements(root, false) {
				if label.Data == "label" && m.match(labelContent(label), label) {
					return "Found a label with the text of: " + m.display +
						", however no form control was found associated to that label." +
						" Make sure you're using the \"for\" attribute or \"aria-labelledby\" attribute correctly."
				}
			}
			return ""
		},
	}, nil
}

// labelsOf lists the label texts of a control: aria-labelledby targets,
// aria-label, label[for] and an enclosing label.
func labelsOf(el *html.Node) []string {
	var labels []string
	if ids, ok := dom.Attr(el, "aria-labelledby"); ok {
		var parts []string
		for _, id := range strings.Fields(ids) {
			if target := dom.ByID(el, id); target != nil {
				parts = append(parts, dom.TextContent(target))
			}
		}
		labels = append(labels, joinNonEmpty(parts))
	}
	if label, ok := dom.Attr(el, "aria-label"); ok {
		labels = append(labels, label)
	}
	if !labelable[el.Data] {
		return labels
	}
	if id, ok := dom.Attr(el, "id"); ok && id != "" {
		for _, candidate := range dom.Elements(dom.Document(el), true) {
			if candidate.Data != "label" {
				continue
			}
			if target, _ := dom.Attr(candidate, "for"); target == id {
				labels = append(labels, labelContent(candidate))
			}
		}
	}
	for p := el.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.Data == "label" {
			if _, hasFor := dom.Attr(p, "for"); !hasFor {
				labels = append(labels, labelContent(p))
			}
			break
		}
	}
	return labels
}

func hasAttr(el *html.Node, name string) bool {
	_, ok := dom.Attr(el, name)
	return ok
}

// labelContent is the text of a label without the text of controls nested in
// it, such as the options of a wrapped select.
func labelContent(label *html.Node) string {
	var b strings.Builder
	for c := label.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && labelable[c.Data] {
			continue
		}
		b.WriteString(dom.TextContent(c))
	}
	return b.String()
}
