package inflector

import "strings"

type joinConfig struct {
	separator      string
	finalSeparator string
	conjunctive    bool
}

// JoinOption customises JoinWords.
type JoinOption func(*joinConfig)

// WithSeparator sets the separator placed between all but the last two words.
func WithSeparator(sep string) JoinOption {
	return func(c *joinConfig) { c.separator = sep }
}

// WithFinalSeparator sets the separator placed before the last word. It
// overrides the conjunction.
func WithFinalSeparator(sep string) JoinOption {
	return func(c *joinConfig) { c.finalSeparator = sep }
}

// Disjunctive joins the last word with "or" instead of "and".
func Disjunctive() JoinOption {
	return func(c *joinConfig) { c.conjunctive = false }
}

// JoinWords formats words as a phrase: "a, b and c".
func JoinWords(words []string, opts ...JoinOption) string {
	c := joinConfig{separator: ", ", conjunctive: true}
	for _, opt := range opts {
		opt(&c)
	}
	if c.finalSeparator == "" {
		if c.conjunctive {
			c.finalSeparator = " and "
		} else {
			c.finalSeparator = " or "
		}
	}

	switch len(words) {
	case 0:
		return ""
	case 1:
		return words[0]
	}

	var b strings.Builder
	last := len(words) - 1
	b.WriteString(strings.Join(words[:last], c.separator))
	b.WriteString(c.finalSeparator)
	b.WriteString(words[last])
	return b.String()
}
