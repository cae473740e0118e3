package tagparser

import (
	"encoding/json"
	"strings"
)

// Kind identifies what a tag inflects. The value is the canonical tag
// letter used in error messages.
type Kind string

const (
	NounTag  Kind = "N" // {{N:word}} - noun inflected by count
	VerbTag  Kind = "V" // {{V:word}} - verb agreeing with count
	CountTag Kind = "#" // {{#:label}} - the count itself
)

// Modifier letters.
const (
	ModSingular rune = 's'
	ModPlural   rune = 'p'
	ModFuzzy    rune = 'f'
)

// allowedModifiers lists the modifier letters each kind accepts.
var allowedModifiers = map[Kind]string{
	NounTag:  string([]rune{ModSingular, ModPlural}),
	VerbTag:  "",
	CountTag: string(ModFuzzy),
}

// kindFromRune maps the first character of a tag head to its kind.
func kindFromRune(r rune) (Kind, bool) {
	switch r {
	case 'N', 'n':
		return NounTag, true
	case 'V', 'v':
		return VerbTag, true
	case '#':
		return CountTag, true
	}
	return "", false
}

// Allows reports whether mod is a valid modifier for the kind.
func (k Kind) Allows(mod rune) bool {
	return strings.ContainsRune(allowedModifiers[k], mod)
}

// Position represents a line and column position in the template.
type Position struct {
	Line int `json:"line"`
	Col  int `json:"col"`
}

// Span represents the start and end positions of a tag.
type Span struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// MarshalJSON implements custom JSON marshaling for Span.
func (s Span) MarshalJSON() ([]byte, error) {
	arr := [4]int{s.Start.Line, s.Start.Col, s.End.Line, s.End.Col}
	return json.Marshal(arr)
}

// UnmarshalJSON implements custom JSON unmarshaling for Span.
func (s *Span) UnmarshalJSON(data []byte) error {
	var arr [4]int
	if err := json.Unmarshal(data, &arr); err != nil {
		return err
	}
	s.Start = Position{Line: arr[0], Col: arr[1]}
	s.End = Position{Line: arr[2], Col: arr[3]}
	return nil
}

// Tag is one parsed {{...}} span.
type Tag struct {
	Text      string `json:"text"`
	Span      Span   `json:"span"`
	Kind      Kind   `json:"kind"`
	Modifiers string `json:"modifiers,omitempty"` // lower-cased, in the order first seen
	Payload   string `json:"payload"`
}

// Has reports whether the tag carries the modifier.
func (t *Tag) Has(mod rune) bool {
	return strings.ContainsRune(t.Modifiers, mod)
}

// numberModifier returns whichever of 's' or 'p' appeared first, or 0.
func (t *Tag) numberModifier() rune {
	for _, m := range t.Modifiers {
		if m == ModSingular || m == ModPlural {
			return m
		}
	}
	return 0
}
