package codec

import "encoding/json"

// MatcherRef refers to a matcher function registered ahead of time on both
// sides of the boundary. Only the ID crosses; the function body never does.
type MatcherRef struct {
	ID string
}

// MarshalJSON renders m as the proxy object recognized by [Codec.Encode].
func (m MatcherRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{matcherKey: m.ID})
}

// Expr is a data-only matcher predicate written in CEL. It is evaluated
// against the candidate's text content and element, so it can cross the
// boundary as plain text without carrying executable source.
type Expr struct {
	Source string
}

// MarshalJSON renders e as the proxy object recognized by [Codec.Encode].
func (e Expr) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{exprKey: e.Source})
}
