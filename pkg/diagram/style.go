package diagram

import "strings"

// ArrowKind is the normalised value of an edge's endArrow style key.
type ArrowKind string

const (
	ArrowUnset   ArrowKind = ""
	ArrowNone    ArrowKind = "none"
	ArrowBlock   ArrowKind = "block"
	ArrowDiamond ArrowKind = "diamond"
	ArrowOpen    ArrowKind = "open"
	ArrowOther   ArrowKind = "other"
)

// Style is a draw.io style string parsed once into bare tokens
// (e.g. "swimlane", "text") and key=value pairs (e.g. "endArrow=block").
type Style struct {
	raw    string
	tokens map[string]struct{}
	values map[string]string
}

// ParseStyle splits a semicolon separated style string. Empty segments are
// ignored, keys and tokens are kept case sensitive as draw.io writes them.
func ParseStyle(raw string) Style {
	s := Style{
		raw:    raw,
		tokens: make(map[string]struct{}),
		values: make(map[string]string),
	}

	for part := range strings.SplitSeq(raw, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			s.tokens[part] = struct{}{}
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		s.values[key] = strings.TrimSpace(value)
	}

	return s
}

// Raw returns the style string as found in the document.
func (s Style) Raw() string {
	return s.raw
}

// Has reports whether the bare token is present.
func (s Style) Has(token string) bool {
	_, ok := s.tokens[token]
	return ok
}

// Value returns the value of a key=value pair.
func (s Style) Value(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s Style) shape() string {
	return s.values["shape"]
}

// Swimlane reports whether the style marks a container shape, which is how
// class boxes are drawn.
func (s Style) Swimlane() bool {
	return s.Has("swimlane") || s.shape() == "swimlane"
}

// Text reports whether the style marks a plain text cell.
func (s Style) Text() bool {
	return s.Has("text") || s.shape() == "text"
}

// EdgeStyled reports whether the style carries connector routing.
func (s Style) EdgeStyled() bool {
	if s.Has("edgeStyle") {
		return true
	}
	_, ok := s.values["edgeStyle"]
	return ok
}

// EndArrow classifies the endArrow key. Thin variants collapse onto their
// base kind.
func (s Style) EndArrow() ArrowKind {
	v, ok := s.values["endArrow"]
	if !ok {
		return ArrowUnset
	}
	switch v {
	case "none", "":
		return ArrowNone
	case "block", "blockThin":
		return ArrowBlock
	case "diamond", "diamondThin":
		return ArrowDiamond
	case "open", "openThin", "openAsync":
		return ArrowOpen
	default:
		return ArrowOther
	}
}

// EndFill returns the endFill flag and whether it was set explicitly.
func (s Style) EndFill() (filled bool, set bool) {
	v, ok := s.values["endFill"]
	if !ok {
		return false, false
	}
	return v == "1", true
}

// Dashed reports dashed=1.
func (s Style) Dashed() bool {
	return s.values["dashed"] == "1"
}
