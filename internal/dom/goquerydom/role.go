package goquerydom

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/stolasapp/rodtl/internal/codec"
	"github.com/stolasapp/rodtl/internal/dom"
)

var implicitRoles = map[string]string{
	"article":  "article",
	"aside":    "complementary",
	"button":   "button",
	"datalist": "listbox",
	"details":  "group",
	"dialog":   "dialog",
	"fieldset": "group",
	"figure":   "figure",
	"footer":   "contentinfo",
	"form":     "form",
	"h1":       "heading",
	"h2":       "heading",
	"h3":       "heading",
	"h4":       "heading",
	"h5":       "heading",
	"h6":       "heading",
	"header":   "banner",
	"hr":       "separator",
	"li":       "listitem",
	"main":     "main",
	"menu":     "list",
	"meter":    "meter",
	"nav":      "navigation",
	"ol":       "list",
	"option":   "option",
	"output":   "status",
	"p":        "paragraph",
	"progress": "progressbar",
	"section":  "region",
	"table":    "table",
	"tbody":    "rowgroup",
	"td":       "cell",
	"textarea": "textbox",
	"tfoot":    "rowgroup",
	"th":       "columnheader",
	"thead":    "rowgroup",
	"tr":       "row",
	"ul":       "list",
}

var inputRoles = map[string]string{
	"button":   "button",
	"checkbox": "checkbox",
	"email":    "textbox",
	"image":    "button",
	"number":   "spinbutton",
	"radio":    "radio",
	"range":    "slider",
	"reset":    "button",
	"search":   "searchbox",
	"submit":   "button",
	"tel":      "textbox",
	"text":     "textbox",
	"url":      "textbox",
}

// Roles whose accessible name may come from their content.
var nameFromContent = map[string]bool{
	"button": true, "cell": true, "checkbox": true, "columnheader": true,
	"heading": true, "link": true, "menuitem": true, "option": true,
	"radio": true, "row": true, "switch": true, "tab": true, "tooltip": true,
	"treeitem": true, "listitem": true,
}

// Role returns the explicit or implicit ARIA role of el.
func Role(el *html.Node) string {
	if explicit, ok := dom.Attr(el, "role"); ok {
		if fields := strings.Fields(explicit); len(fields) > 0 {
			return fields[0]
		}
	}
	switch el.Data {
	case "a", "area":
		if hasAttr(el, "href") {
			return "link"
		}
		return ""
	case "img":
		if alt, ok := dom.Attr(el, "alt"); ok && alt == "" {
			return "presentation"
		}
		return "img"
	case "input":
		typ, _ := dom.Attr(el, "type")
		typ = strings.ToLower(typ)
		if typ == "" {
			typ = "text"
		}
		role := inputRoles[typ]
		if role == "textbox" && hasAttr(el, "list") {
			return "combobox"
		}
		return role
	case "select":
		size, _ := dom.Attr(el, "size")
		if n, err := strconv.Atoi(size); hasAttr(el, "multiple") || (err == nil && n > 1) {
			return "listbox"
		}
		return "combobox"
	}
	return implicitRoles[el.Data]
}

// AccessibleName approximates the accessible name computation for the
// common cases: aria-labelledby, aria-label, associated labels, alt and value
// attributes, content for roles that allow it, then title.
func AccessibleName(el *html.Node) string {
	if ids, ok := dom.Attr(el, "aria-labelledby"); ok {
		var parts []string
		for _, id := range strings.Fields(ids) {
			if target := dom.ByID(el, id); target != nil {
				parts = append(parts, dom.TextContent(target))
			}
		}
		if name := dom.Normalize(joinNonEmpty(parts)); name != "" {
			return name
		}
	}
	if label, ok := dom.Attr(el, "aria-label"); ok && strings.TrimSpace(label) != "" {
		return dom.Normalize(label)
	}
	if labelable[el.Data] {
		if name := dom.Normalize(joinNonEmpty(labelsOf(el))); name != "" {
			return name
		}
	}
	switch el.Data {
	case "img", "area":
		if alt, ok := dom.Attr(el, "alt"); ok {
			return dom.Normalize(alt)
		}
	case "input":
		typ, _ := dom.Attr(el, "type")
		switch typ {
		case "submit", "button", "reset":
			if value, ok := dom.Attr(el, "value"); ok {
				return dom.Normalize(value)
			}
			if typ == "submit" {
				return "Submit"
			}
		case "image":
			if alt, ok := dom.Attr(el, "alt"); ok {
				return dom.Normalize(alt)
			}
		}
	}
	if nameFromContent[Role(el)] {
		if name := dom.Normalize(dom.TextContent(el)); name != "" {
			return name
		}
	}
	if title, ok := dom.Attr(el, "title"); ok {
		return dom.Normalize(title)
	}
	return ""
}

func headingLevel(el *html.Node) int {
	if level, ok := dom.Attr(el, "aria-level"); ok {
		if n, err := strconv.Atoi(level); err == nil {
			return n
		}
	}
	if len(el.Data) == 2 && el.Data[0] == 'h' && el.Data[1] >= '1' && el.Data[1] <= '6' {
		return int(el.Data[1] - '0')
	}
	return 0
}

func ariaState(el *html.Node, aria, native string) bool {
	if v, ok := dom.Attr(el, aria); ok {
		return v == "true" || v == "mixed"
	}
	return native != "" && hasAttr(el, native)
}

func (l *Library) byRole(root *html.Node, args []any, queryName string) ([]*html.Node, description, error) {
	role, ok := firstArg(args).(string)
	if !ok || role == "" {
		return nil, description{}, fmt.Errorf("%s expects a role string, got %T", queryName, firstArg(args))
	}
	opts, err := parseOptions(args)
	if err != nil {
		return nil, description{}, err
	}

	var name *textMatcher
	nameDisplay := ""
	if raw, has := opts.raw["name"]; has && raw != nil {
		nameOpts := opts
		nameOpts.exact = true
		if name, err = l.newMatcher(raw, nameOpts, queryName); err != nil {
			return nil, description{}, err
		}
		if _, isRegexp := raw.(codec.Regexp); isRegexp {
			nameDisplay = fmt.Sprintf(" and name `%s`", name.display)
		} else {
			nameDisplay = fmt.Sprintf(" and name %q", name.display)
		}
	}
	hidden, _ := opts.bool("hidden")
	level, hasLevel := opts.int("level")
	checked, hasChecked := opts.bool("checked")
	selected, hasSelected := opts.bool("selected")
	pressed, hasPressed := opts.bool("pressed")
	expanded, hasExpanded := opts.bool("expanded")

	var out []*html.Node
	for _, el := range dom.Elements(root, false) {
		if Role(el) != role {
			continue
		}
		if !hidden && dom.IsInaccessible(el) {
			continue
		}
		if hasLevel && headingLevel(el) != level {
			continue
		}
		if hasChecked && ariaState(el, "aria-checked", "checked") != checked {
			continue
		}
		if hasSelected && ariaState(el, "aria-selected", "selected") != selected {
			continue
		}
		if hasPressed && ariaState(el, "aria-pressed", "") != pressed {
			continue
		}
		if hasExpanded && ariaState(el, "aria-expanded", "") != expanded {
			continue
		}
		if name != nil && !name.match(AccessibleName(el), el) {
			continue
		}
		out = append(out, el)
	}
	return out, description{
		notFound: fmt.Sprintf("Unable to find an accessible element with the role %q%s", role, nameDisplay),
		multiple: fmt.Sprintf("Found multiple elements with the role %q%s", role, nameDisplay),
	}, nil
}
