package tagparser

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/spicery/nutmeg-inflector/pkg/inflector"
)

func TestParseTemplate(t *testing.T) {
	tests := []struct {
		name     string
		template string
		count    int
		expected string
	}{
		{"Forced plural with spacing", "{{N  p :  error   }}", 1, "errors"},
		{"Forced singular uppercase", "{{N  S :  error   }}", 2, "error"},
		{"Verb agreement", "{{V:tries}}", 2, "try"},
		{"Verb singular", "{{V:try}}", 1, "tries"},
		{"Sentence with one", "There {{V:is}} {{#:n}} {{N:error}}", 1, "There is 1 error"},
		{"Sentence with three", "There {{V:are}} {{#:n}} {{N:error}}", 3, "There are 3 errors"},
		{"Sentence with zero", "There {{V:is}} {{#:n}} {{N:error}}", 0, "There are 0 errors"},
		{"Lowercase kind", "{{n:person}}", 2, "people"},
		{"Lowercase verb kind", "{{v:has}}", 4, "have"},
		{"Tabs everywhere", "\t{{\tN\tp\t:\terror\t}}", 1, "\terrors"},
		{"No tags", "plain text", 2, "plain text"},
		{"Empty template", "", 2, ""},
		{"Unterminated tag is text", "{{N:error", 2, "{{N:error"},
		{"Single braces are text", "{x} {{N:box}}", 2, "{x} boxes"},
		{"Singular wins when first", "{{Nsp:errors}}", 2, "error"},
		{"Plural wins when first", "{{Nps:error}}", 1, "errors"},
		{"Repeated modifier", "{{Npp:error}}", 1, "errors"},
		{"Uncountable", "{{#:n}} {{N:sheep}}", 4, "4 sheep"},
		{"Multiline", "{{#:n}} {{N:file}}\n{{V:was}} removed", 2, "2 files\nwere removed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTemplate(tt.template, tt.count)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestFuzzyCountTags(t *testing.T) {
	tests := []struct {
		count    int
		expected string
	}{
		{0, "no errors"},
		{1, "one error"},
		{2, "a couple of errors"},
		{3, "a couple of errors"},
		{5, "a few errors"},
		{8, "several errors"},
		{12, "many errors"},
	}

	for _, tt := range tests {
		got, err := ParseTemplate("{{#f:n}} {{N:error}}", tt.count)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if got != tt.expected {
			t.Errorf("count %d: expected %q, got %q", tt.count, tt.expected, got)
		}

		upper, err := ParseTemplate("{{# F :n}} {{N:error}}", tt.count)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if upper != got {
			t.Errorf("count %d: uppercase modifier gave %q, lowercase gave %q", tt.count, upper, got)
		}
	}
}

func TestModifierCaseInsensitive(t *testing.T) {
	pairs := [][2]string{
		{"{{Ns:errors}}", "{{NS:errors}}"},
		{"{{Np:error}}", "{{NP:error}}"},
		{"{{#f:n}}", "{{#F:n}}"},
	}
	for _, count := range []int{0, 1, 2} {
		for _, pair := range pairs {
			lower, err := ParseTemplate(pair[0], count)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			upper, err := ParseTemplate(pair[1], count)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if lower != upper {
				t.Errorf("%s gave %q but %s gave %q", pair[0], lower, pair[1], upper)
			}
		}
	}
}

func TestUnknownOption(t *testing.T) {
	tests := []struct {
		template string
		message  string
	}{
		{"{{Nu:error}}", "Unknown option 'u' in {{N:...}} tag"},
		{"{{NU:error}}", "Unknown option 'u' in {{N:...}} tag"},
		{"{{n  x :error}}", "Unknown option 'x' in {{N:...}} tag"},
		{"{{Nf:error}}", "Unknown option 'f' in {{N:...}} tag"},
		{"{{Vs:tries}}", "Unknown option 's' in {{V:...}} tag"},
		{"{{vp:tries}}", "Unknown option 'p' in {{V:...}} tag"},
		{"{{#s:n}}", "Unknown option 's' in {{#:...}} tag"},
		{"{{#!:n}}", "Unknown option '!' in {{#:...}} tag"},
	}

	for _, tt := range tests {
		t.Run(tt.template, func(t *testing.T) {
			got, err := ParseTemplate(tt.template, 2)
			if err == nil {
				t.Fatalf("Expected an error, got %q", got)
			}
			if err.Error() != tt.message {
				t.Errorf("Expected message %q, got %q", tt.message, err.Error())
			}
			if !errors.Is(err, ErrUnknownOption) {
				t.Errorf("Expected ErrUnknownOption, got %v", err)
			}
			if got != "" {
				t.Errorf("Expected no output, got %q", got)
			}
		})
	}
}

func TestMalformedTag(t *testing.T) {
	tests := []struct {
		name     string
		template string
	}{
		{"Missing separator", "{{N error}}"},
		{"Missing kind", "{{ :error}}"},
		{"Unknown kind", "{{X:error}}"},
		{"Empty payload", "{{N:   }}"},
		{"Empty tag", "{{}}"},
		{"Escaped separator only", `{{N\:error}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTemplate(tt.template, 2)
			if !errors.Is(err, ErrMalformedTag) {
				t.Errorf("Expected ErrMalformedTag, got %v", err)
			}
			if errors.Is(err, ErrUnknownOption) {
				t.Errorf("Did not expect ErrUnknownOption, got %v", err)
			}
		})
	}
}

func TestMalformedTagPosition(t *testing.T) {
	_, err := ParseTemplate("first line\n  {{N error}}", 2)

	var malformed *MalformedTagError
	if !errors.As(err, &malformed) {
		t.Fatalf("Expected a MalformedTagError, got %v", err)
	}
	if diff := cmp.Diff(Position{Line: 2, Col: 3}, malformed.Position); diff != "" {
		t.Errorf("Position mismatch (-want +got):\n%s", diff)
	}
	if malformed.Text != "{{N error}}" {
		t.Errorf("Expected text '{{N error}}', got %q", malformed.Text)
	}
}

func TestFailFast(t *testing.T) {
	got, err := ParseTemplate("{{N:error}} then {{Nq:error}} then {{N error}}", 2)
	if err == nil || err.Error() != "Unknown option 'q' in {{N:...}} tag" {
		t.Errorf("Expected the unknown option error, got %v", err)
	}
	if got != "" {
		t.Errorf("Expected no output, got %q", got)
	}
}

func TestNegativeCount(t *testing.T) {
	for _, template := range []string{"{{N:error}}", "{{#f:n}}", "{{#:n}}", "plain text"} {
		if _, err := ParseTemplate(template, -1); !errors.Is(err, inflector.ErrInvalidCount) {
			t.Errorf("%s: expected ErrInvalidCount, got %v", template, err)
		}
	}
}

func TestParseTag(t *testing.T) {
	tests := []struct {
		inner     string
		kind      Kind
		modifiers string
		payload   string
	}{
		{"N:error", NounTag, "", "error"},
		{"N p : error", NounTag, "p", "error"},
		{"  #  F  :  n  ", CountTag, "f", "n"},
		{"\tv\t:\ttries", VerbTag, "", "tries"},
		{"N S P:box", NounTag, "sp", "box"},
		{"N: a:b ", NounTag, "", "a:b"},
	}

	for _, tt := range tests {
		t.Run(tt.inner, func(t *testing.T) {
			tag, err := ParseTag(tt.inner)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if tag.Kind != tt.kind {
				t.Errorf("Expected kind %s, got %s", tt.kind, tag.Kind)
			}
			if tag.Modifiers != tt.modifiers {
				t.Errorf("Expected modifiers %q, got %q", tt.modifiers, tag.Modifiers)
			}
			if tag.Payload != tt.payload {
				t.Errorf("Expected payload %q, got %q", tt.payload, tag.Payload)
			}
		})
	}
}

func TestTags(t *testing.T) {
	tags, err := NewParser("a {{N:x}}\n{{#f:y}}", 2).Tags()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(tags) != 2 {
		t.Fatalf("Expected 2 tags, got %d", len(tags))
	}

	wantSpans := []Span{
		{Start: Position{1, 3}, End: Position{1, 10}},
		{Start: Position{2, 1}, End: Position{2, 9}},
	}
	gotSpans := []Span{tags[0].Span, tags[1].Span}
	if diff := cmp.Diff(wantSpans, gotSpans); diff != "" {
		t.Errorf("Span mismatch (-want +got):\n%s", diff)
	}

	jsonBytes, err := json.Marshal(tags[0])
	if err != nil {
		t.Fatalf("JSON encoding error: %v", err)
	}
	expected := `{"text":"{{N:x}}","span":[1,3,1,10],"kind":"N","payload":"x"}`
	if string(jsonBytes) != expected {
		t.Errorf("Expected JSON %s, got %s", expected, jsonBytes)
	}

	var decoded Tag
	if err := json.Unmarshal([]byte(`{"text":"{{#f:y}}","span":[2,1,2,9],"kind":"#","modifiers":"f","payload":"y"}`), &decoded); err != nil {
		t.Fatalf("JSON decoding error: %v", err)
	}
	if diff := cmp.Diff(*tags[1], decoded); diff != "" {
		t.Errorf("Decoded tag mismatch (-want +got):\n%s", diff)
	}
}

func TestParserIsReusable(t *testing.T) {
	p := NewParser("a {{N:box}} b", 2)

	if _, err := p.Tags(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	got, err := p.Parse()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got != "a boxes b" {
		t.Errorf("Parse after Tags: expected %q, got %q", "a boxes b", got)
	}

	again, err := p.Parse()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if again != got {
		t.Errorf("Second Parse: expected %q, got %q", got, again)
	}

	tags, err := p.Tags()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(tags) != 1 || tags[0].Span.Start != (Position{1, 3}) {
		t.Errorf("Tags after Parse: expected one tag at 1:3, got %+v", tags)
	}
}

func TestParserRecoversAfterError(t *testing.T) {
	p := NewParser("x {{Nq:box}}", 2)
	if _, err := p.Parse(); !errors.Is(err, ErrUnknownOption) {
		t.Fatalf("Expected ErrUnknownOption, got %v", err)
	}
	if _, err := p.Parse(); !errors.Is(err, ErrUnknownOption) {
		t.Errorf("Expected the same error on the second Parse, got %v", err)
	}
	tags, err := p.Tags()
	if !errors.Is(err, ErrUnknownOption) || len(tags) != 0 {
		t.Errorf("Expected no tags and ErrUnknownOption, got %d tags and %v", len(tags), err)
	}
}

func TestKindAllows(t *testing.T) {
	tests := []struct {
		kind    Kind
		mod     rune
		allowed bool
	}{
		{NounTag, 's', true},
		{NounTag, 'p', true},
		{NounTag, 'f', false},
		{VerbTag, 's', false},
		{CountTag, 'f', true},
		{CountTag, 'p', false},
	}
	for _, tt := range tests {
		if got := tt.kind.Allows(tt.mod); got != tt.allowed {
			t.Errorf("%s.Allows(%q): expected %v, got %v", tt.kind, tt.mod, tt.allowed, got)
		}
	}
}

func TestParserWithCustomRules(t *testing.T) {
	rules, err := inflector.ApplyRulesToDefaults(&inflector.RulesFile{
		Irregular: []inflector.IrregularRule{{Singular: "goose", Plural: "geese"}},
	})
	if err != nil {
		t.Fatalf("Failed to apply rules: %v", err)
	}

	got, err := NewParserWithInflector("{{#f:n}} {{N:goose}}", 3, inflector.New(rules)).Parse()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got != "a couple of geese" {
		t.Errorf("Expected 'a couple of geese', got %q", got)
	}

	got, err = ParseTemplate("{{#f:n}} {{N:goose}}", 3)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got != "a couple of gooses" {
		t.Errorf("Expected default rules to give 'a couple of gooses', got %q", got)
	}
}

func TestConcurrentParsing(t *testing.T) {
	var wg sync.WaitGroup
	results := make([]string, 50)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = ParseTemplate("{{#:n}} {{N:child}} {{V:plays}}", i%3)
		}(i)
	}
	wg.Wait()

	expected := map[int]string{0: "0 children play", 1: "1 child plays", 2: "2 children play"}
	for i, got := range results {
		if got != expected[i%3] {
			t.Errorf("goroutine %d: expected %q, got %q", i, expected[i%3], got)
		}
	}
}
