package tagparser

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/spicery/nutmeg-inflector/pkg/inflector"
)

const (
	openDelimiter  = "{{"
	closeDelimiter = "}}"
	separator      = ':'
	escape         = '\\'
)

// Parser resolves the tags in a template against a count.
type Parser struct {
	input     string
	position  int
	line      int
	column    int
	count     int
	inflector *inflector.Inflector
	output    strings.Builder
}

// NewParser creates a parser that uses the default inflection rules.
func NewParser(input string, count int) *Parser {
	return NewParserWithInflector(input, count, inflector.Default())
}

// NewParserWithInflector creates a parser that uses custom inflection rules.
func NewParserWithInflector(input string, count int, inf *inflector.Inflector) *Parser {
	if inf == nil {
		inf = inflector.Default()
	}
	return &Parser{
		input:     input,
		line:      1,
		column:    1,
		count:     count,
		inflector: inf,
	}
}

// ParseTemplate resolves every tag in template against count using the
// default rules.
func ParseTemplate(template string, count int) (string, error) {
	return NewParser(template, count).Parse()
}

// Parse returns the template with every tag replaced by its inflected text.
// The first bad tag aborts the whole parse.
func (p *Parser) Parse() (string, error) {
	if err := inflector.ValidateCount(p.count); err != nil {
		return "", err
	}
	err := p.scan(func(tag *Tag) error {
		text, err := p.Resolve(tag)
		if err != nil {
			return err
		}
		p.output.WriteString(text)
		return nil
	})
	if err != nil {
		return "", err
	}
	return p.output.String(), nil
}

// Tags returns the parsed tags without resolving them.
func (p *Parser) Tags() ([]*Tag, error) {
	tags := make([]*Tag, 0)
	err := p.scan(func(tag *Tag) error {
		tags = append(tags, tag)
		return nil
	})
	return tags, err
}

// Resolve produces the replacement text for a single tag.
func (p *Parser) Resolve(tag *Tag) (string, error) {
	if err := inflector.ValidateCount(p.count); err != nil {
		return "", err
	}
	switch tag.Kind {
	case NounTag:
		switch tag.numberModifier() {
		case ModSingular:
			return p.inflector.Singularize(tag.Payload), nil
		case ModPlural:
			return p.inflector.Pluralize(tag.Payload), nil
		}
		return p.inflector.Inflect(tag.Payload, p.count)
	case VerbTag:
		return p.inflector.ConjugateVerb(tag.Payload, p.count)
	case CountTag:
		if tag.Has(ModFuzzy) {
			return inflector.FuzzyCount(p.count)
		}
		return strconv.Itoa(p.count), nil
	}
	return "", &MalformedTagError{Text: tag.Text, Position: tag.Span.Start, Reason: "unknown tag kind"}
}

// reset rewinds the parser to the start of the input with an empty output.
func (p *Parser) reset() {
	p.position = 0
	p.line = 1
	p.column = 1
	p.output.Reset()
}

// scan walks the input from the start, copying plain text to the output and
// handing each complete tag to emit.
func (p *Parser) scan(emit func(tag *Tag) error) error {
	p.reset()
	for p.hasMoreInput() {
		rest := p.input[p.position:]
		open := strings.Index(rest, openDelimiter)
		if open < 0 {
			p.copyText(len(rest))
			return nil
		}
		p.copyText(open)

		rest = p.input[p.position:]
		closing := strings.Index(rest[len(openDelimiter):], closeDelimiter)
		if closing < 0 {
			// An unterminated "{{" is plain text.
			p.copyText(len(rest))
			return nil
		}

		length := len(openDelimiter) + closing + len(closeDelimiter)
		text := rest[:length]
		inner := rest[len(openDelimiter) : len(openDelimiter)+closing]
		start := Position{Line: p.line, Col: p.column}

		tag, err := parseTag(inner, text, start)
		if err != nil {
			return err
		}
		p.advance(length)
		tag.Span = Span{Start: start, End: Position{Line: p.line, Col: p.column}}

		if err := emit(tag); err != nil {
			return err
		}
	}
	return nil
}

// ParseTag parses the text between the braces of a single tag, for
// example "N p : error".
func ParseTag(inner string) (*Tag, error) {
	text := openDelimiter + inner + closeDelimiter
	return parseTag(inner, text, Position{Line: 1, Col: 1})
}

func parseTag(inner, text string, pos Position) (*Tag, error) {
	malformed := func(reason string) error {
		return &MalformedTagError{Text: text, Position: pos, Reason: reason}
	}

	sep := findSeparator(inner)
	if sep < 0 {
		return nil, malformed("missing ':'")
	}

	tag, err := parseHead(inner[:sep], text, pos)
	if err != nil {
		return nil, err
	}

	tag.Payload = trimSpace(inner[sep+1:])
	if tag.Payload == "" {
		return nil, malformed("missing payload")
	}
	return tag, nil
}

// parseHead tokenizes the part of a tag before the ':' separator: one kind
// character followed by modifier letters, with spaces and tabs ignored
// throughout.
func parseHead(head, text string, pos Position) (*Tag, error) {
	tag := &Tag{Text: text}
	var mods strings.Builder
	seenKind := false

	for i := 0; i < len(head); {
		r, size := utf8.DecodeRuneInString(head[i:])
		i += size
		if isSpace(r) {
			continue
		}

		if !seenKind {
			kind, ok := kindFromRune(r)
			if !ok {
				return nil, &MalformedTagError{Text: text, Position: pos, Reason: "unknown tag kind '" + string(r) + "'"}
			}
			tag.Kind = kind
			seenKind = true
			continue
		}

		mod := unicode.ToLower(r)
		if !tag.Kind.Allows(mod) {
			return nil, &UnknownOptionError{Option: mod, Kind: tag.Kind, Position: pos}
		}
		if !strings.ContainsRune(mods.String(), mod) {
			mods.WriteRune(mod)
		}
	}

	if !seenKind {
		return nil, &MalformedTagError{Text: text, Position: pos, Reason: "missing tag kind"}
	}
	tag.Modifiers = mods.String()
	return tag, nil
}

// findSeparator returns the index of the first ':' not preceded by a
// backslash, or -1.
func findSeparator(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] == separator && (i == 0 || s[i-1] != escape) {
			return i
		}
	}
	return -1
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t'
}

func trimSpace(s string) string {
	return strings.Trim(s, " \t")
}

// copyText copies n bytes of plain text to the output.
func (p *Parser) copyText(n int) {
	p.output.WriteString(p.input[p.position : p.position+n])
	p.advance(n)
}

func (p *Parser) hasMoreInput() bool {
	return p.position < len(p.input)
}

// advance moves the position forward and updates line/column tracking.
func (p *Parser) advance(n int) {
	for i := 0; i < n && p.position < len(p.input); i++ {
		if p.input[p.position] == '\n' {
			p.line++
			p.column = 1
		} else {
			p.column++
		}
		p.position++
	}
}
