package dom

// MatcherOptions are accepted by every strategy except ByRole. The zero value
// asks for the library defaults.
type MatcherOptions struct {
	// Exact disables the case-insensitive substring match when false.
	Exact *bool `json:"exact,omitempty"`
	// Selector restricts candidates to elements matching a CSS selector.
	Selector string `json:"selector,omitempty"`
	// Ignore excludes elements matching a CSS selector from text queries.
	// Set it to false to disable the default of "script, style".
	Ignore any `json:"ignore,omitempty"`
	// Trim and CollapseWhitespace tune the default text normalizer.
	Trim               *bool `json:"trim,omitempty"`
	CollapseWhitespace *bool `json:"collapseWhitespace,omitempty"`
}

// RoleOptions are accepted by the ByRole strategy.
type RoleOptions struct {
	// Name filters on the accessible name. It may be a string, a regular
	// expression or a registered matcher.
	Name any `json:"name,omitempty"`
	// Hidden includes elements excluded from the accessibility tree.
	Hidden   bool  `json:"hidden,omitempty"`
	Level    int   `json:"level,omitempty"`
	Checked  *bool `json:"checked,omitempty"`
	Selected *bool `json:"selected,omitempty"`
	Pressed  *bool `json:"pressed,omitempty"`
	Expanded *bool `json:"expanded,omitempty"`
	Exact    *bool `json:"exact,omitempty"`
}

// Bool returns a pointer to b, for the optional fields above.
func Bool(b bool) *bool { return &b }
