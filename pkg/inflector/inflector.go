package inflector

import (
	"errors"
	"fmt"
)

// ErrInvalidCount is returned when a negative count is used to pick a form.
var ErrInvalidCount = errors.New("invalid count")

// Inflector applies a fixed set of rule tables to nouns and verbs. It has
// no mutable state and is safe for concurrent use.
type Inflector struct {
	rules *Rules
}

var defaultInflector = New(DefaultRules())

// New creates an inflector over the given rules. A nil rules value means
// the default rules.
func New(rules *Rules) *Inflector {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Inflector{rules: rules}
}

// Default returns the shared inflector built from the default rules.
func Default() *Inflector {
	return defaultInflector
}

// Rules returns the rule tables in use.
func (i *Inflector) Rules() *Rules {
	return i.rules
}

// Singularize returns the singular form of word. Uncountable and unknown
// words are returned unchanged.
func (i *Inflector) Singularize(word string) string {
	if word == "" || i.IsUncountable(word) {
		return word
	}
	return i.rules.NounSingulars.Apply(word)
}

// Pluralize returns the plural form of word. Uncountable and unknown
// words are returned unchanged.
func (i *Inflector) Pluralize(word string) string {
	if word == "" || i.IsUncountable(word) {
		return word
	}
	return i.rules.NounPlurals.Apply(word)
}

// IsSingular reports whether word is already in singular form.
func (i *Inflector) IsSingular(word string) bool {
	if word == "" {
		return false
	}
	return i.Singularize(word) == word
}

// IsPlural reports whether word is already in plural form.
func (i *Inflector) IsPlural(word string) bool {
	if word == "" {
		return false
	}
	return i.Pluralize(word) == word
}

// IsUncountable reports whether word is in the uncountable set. The check
// is case-sensitive.
func (i *Inflector) IsUncountable(word string) bool {
	return i.rules.Uncountables[word]
}

// Inflect picks the noun form for count: singular for exactly one, plural
// for anything else, including zero.
func (i *Inflector) Inflect(word string, count int) (string, error) {
	if err := ValidateCount(count); err != nil {
		return "", err
	}
	if count == 1 {
		return i.Singularize(word), nil
	}
	return i.Pluralize(word), nil
}

// ConjugateVerb picks the verb form agreeing with count. Agreement runs
// the other way from nouns: one thing "tries", two things "try".
func (i *Inflector) ConjugateVerb(word string, count int) (string, error) {
	if err := ValidateCount(count); err != nil {
		return "", err
	}
	if word == "" {
		return word, nil
	}
	if count == 1 {
		return i.rules.VerbSingulars.Apply(word), nil
	}
	return i.rules.VerbPlurals.Apply(word), nil
}

// ValidateCount returns an ErrInvalidCount error for negative counts.
func ValidateCount(count int) error {
	if count < 0 {
		return fmt.Errorf("%w: %d is negative", ErrInvalidCount, count)
	}
	return nil
}

// Singularize returns the singular form of word using the default rules.
func Singularize(word string) string {
	return defaultInflector.Singularize(word)
}

// Pluralize returns the plural form of word using the default rules.
func Pluralize(word string) string {
	return defaultInflector.Pluralize(word)
}

// IsSingular reports whether word is singular under the default rules.
func IsSingular(word string) bool {
	return defaultInflector.IsSingular(word)
}

// IsPlural reports whether word is plural under the default rules.
func IsPlural(word string) bool {
	return defaultInflector.IsPlural(word)
}

// IsUncountable reports whether word is a default uncountable.
func IsUncountable(word string) bool {
	return defaultInflector.IsUncountable(word)
}

// Inflect picks the noun form for count using the default rules.
func Inflect(word string, count int) (string, error) {
	return defaultInflector.Inflect(word, count)
}

// ConjugateVerb picks the verb form for count using the default rules.
func ConjugateVerb(word string, count int) (string, error) {
	return defaultInflector.ConjugateVerb(word, count)
}
