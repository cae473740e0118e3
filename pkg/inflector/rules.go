package inflector

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// RulesFile represents the structure of a YAML rules file
type RulesFile struct {
	Plural       []RuleSpec      `yaml:"plural"`
	Singular     []RuleSpec      `yaml:"singular"`
	Irregular    []IrregularRule `yaml:"irregular"`
	Uncountable  []string        `yaml:"uncountable"`
	VerbSingular []RuleSpec      `yaml:"verb_singular"`
	VerbPlural   []RuleSpec      `yaml:"verb_plural"`
}

// RuleSpec is the uncompiled form of a Rule
type RuleSpec struct {
	Pattern     string `yaml:"pattern"`
	Replacement string `yaml:"replacement"`
}

// IrregularRule pairs the two forms of a noun that no suffix rule covers
type IrregularRule struct {
	Singular string `yaml:"singular"`
	Plural   string `yaml:"plural"`
}

// Rules holds the compiled rule tables. A Rules value is never modified
// after it has been built, so it can be shared between goroutines.
type Rules struct {
	NounPlurals   RuleTable
	NounSingulars RuleTable

	// VerbSingulars produce the form agreeing with a single subject
	// (try -> tries), VerbPlurals the form for any other count.
	VerbSingulars RuleTable
	VerbPlurals   RuleTable

	Uncountables map[string]bool
}

// DefaultRules returns the default rule tables
func DefaultRules() *Rules {
	// Note: Default rules should never fail to compile, so we panic if there's an error
	rules, err := CompileRules(DefaultRulesFile())
	if err != nil {
		panic(fmt.Sprintf("Invalid default rules: %v", err))
	}
	return rules
}

// DefaultRulesFile returns the default rules in rules-file form.
func DefaultRulesFile() *RulesFile {
	return &RulesFile{
		Plural:       getDefaultPlurals(),
		Singular:     getDefaultSingulars(),
		Irregular:    getDefaultIrregulars(),
		Uncountable:  getDefaultUncountables(),
		VerbSingular: getDefaultVerbSingulars(),
		VerbPlural:   getDefaultVerbPlurals(),
	}
}

// LoadRulesFile loads and parses a YAML rules file
func LoadRulesFile(filename string) (*RulesFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file '%s': %w", filename, err)
	}

	rules, err := ParseRulesFile(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse YAML in rules file '%s': %w", filename, err)
	}
	return rules, nil
}

// ParseRulesFile decodes YAML rules from memory.
func ParseRulesFile(data []byte) (*RulesFile, error) {
	var rules RulesFile
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, err
	}
	return &rules, nil
}

// Marshal renders the rules file as YAML.
func (f *RulesFile) Marshal() ([]byte, error) {
	return yaml.Marshal(f)
}

// CompileRules turns a rules file into rule tables. Irregulars are placed
// ahead of the suffix rules, in declaration order, so "human" has to be
// declared before "man".
func CompileRules(f *RulesFile) (*Rules, error) {
	rules := &Rules{Uncountables: make(map[string]bool)}

	for _, irr := range f.Irregular {
		plurals, singulars, err := irregularRules(irr.Singular, irr.Plural)
		if err != nil {
			return nil, err
		}
		rules.NounPlurals = append(rules.NounPlurals, plurals...)
		rules.NounSingulars = append(rules.NounSingulars, singulars...)
	}

	var err error
	if rules.NounPlurals, err = appendSpecs(rules.NounPlurals, f.Plural); err != nil {
		return nil, err
	}
	if rules.NounSingulars, err = appendSpecs(rules.NounSingulars, f.Singular); err != nil {
		return nil, err
	}
	if rules.VerbSingulars, err = appendSpecs(nil, f.VerbSingular); err != nil {
		return nil, err
	}
	if rules.VerbPlurals, err = appendSpecs(nil, f.VerbPlural); err != nil {
		return nil, err
	}

	for _, word := range f.Uncountable {
		rules.Uncountables[word] = true
	}
	return rules, nil
}

// ApplyRulesToDefaults compiles a rules file and puts its rules in front of
// the defaults, so custom rules take precedence. Uncountables are merged.
func ApplyRulesToDefaults(f *RulesFile) (*Rules, error) {
	custom, err := CompileRules(f)
	if err != nil {
		return nil, err
	}
	defaults := DefaultRules()

	merged := &Rules{
		NounPlurals:   concat(custom.NounPlurals, defaults.NounPlurals),
		NounSingulars: concat(custom.NounSingulars, defaults.NounSingulars),
		VerbSingulars: concat(custom.VerbSingulars, defaults.VerbSingulars),
		VerbPlurals:   concat(custom.VerbPlurals, defaults.VerbPlurals),
		Uncountables:  defaults.Uncountables,
	}
	for word := range custom.Uncountables {
		merged.Uncountables[word] = true
	}
	return merged, nil
}

// UncountableWords lists the uncountable set in sorted order.
func (r *Rules) UncountableWords() []string {
	words := make([]string, 0, len(r.Uncountables))
	for word := range r.Uncountables {
		words = append(words, word)
	}
	sort.Strings(words)
	return words
}

func appendSpecs(table RuleTable, specs []RuleSpec) (RuleTable, error) {
	for _, spec := range specs {
		rule, err := NewRule(spec.Pattern, spec.Replacement)
		if err != nil {
			return nil, err
		}
		table = append(table, rule)
	}
	return table, nil
}

func concat(a, b RuleTable) RuleTable {
	out := make(RuleTable, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

// Helper functions to get default values. Order matters: the first rule
// that matches wins.

func getDefaultPlurals() []RuleSpec {
	return []RuleSpec{
		{`(quiz)`, "zes"},
		{`^(oxen)`, ""},
		{`^(ox)`, "en"},
		{`(m|l)ice`, "ice"},
		{`(m|l)ouse`, "ice"},
		{`(passer)s?by`, "sby"},
		{`(matr|vert|ind)(?:ix|ex)`, "ices"},
		{`(x|ch|ss|sh)`, "es"},
		{`([^aeiouy]|qu)y`, "ies"},
		{`(hive)`, "s"},
		{`([lr])f`, "ves"},
		{`([^f])fe`, "ves"},
		{`sis`, "ses"},
		{`([ti])a`, "a"},
		{`([ti])um`, "a"},
		{`(buffal|potat|tomat)o`, "oes"},
		{`(bu)s`, "ses"},
		{`(alias|status|bias)`, "es"},
		{`(octop|vir)i`, "i"},
		{`(octop|vir)us`, "i"},
		{`^(ax|test)is`, "es"},
		{`(s)`, ""},
		{``, "s"},
	}
}

func getDefaultSingulars() []RuleSpec {
	return []RuleSpec{
		{`(database)s`, ""},
		{`(quiz)zes`, ""},
		{`(matr)ices`, "ix"},
		{`(vert|ind)ices`, "ex"},
		{`(passer)sby`, "by"},
		{`^(ox)en`, ""},
		{`(alias|status|bias)(?:es)?`, ""},
		{`(octop|vir)(?:us|i)`, "us"},
		{`^(a)x[ie]s`, "xis"},
		{`(cris|test)(?:is|es)`, "is"},
		{`(shoe)s`, ""},
		{`(o)es`, ""},
		{`(bus)(?:es)?`, ""},
		{`(m|l)ice`, "ouse"},
		{`(x|ch|ss|sh)es`, ""},
		{`(m)ovies`, "ovie"},
		{`(s)eries`, "eries"},
		{`([^aeiouy]|qu)ies`, "y"},
		{`([lr])ves`, "f"},
		{`(tive)s`, ""},
		{`(hive)s`, ""},
		{`([^f])ves`, "fe"},
		{`(t)he(?:sis|ses)`, "hesis"},
		{`(s)ynop(?:sis|ses)`, "ynopsis"},
		{`(p)rogno(?:sis|ses)`, "rognosis"},
		{`(p)arenthe(?:sis|ses)`, "arenthesis"},
		{`(d)iagno(?:sis|ses)`, "iagnosis"},
		{`(b)a(?:sis|ses)`, "asis"},
		{`(a)naly(?:sis|ses)`, "nalysis"},
		{`([ti])a`, "um"},
		{`(n)ews`, "ews"},
		{`(ss)`, ""},
		{`s`, ""},
	}
}

func getDefaultIrregulars() []IrregularRule {
	return []IrregularRule{
		{"person", "people"},
		{"human", "humans"},
		{"man", "men"},
		{"child", "children"},
		{"sex", "sexes"},
		{"move", "moves"},
		{"zombie", "zombies"},
	}
}

func getDefaultUncountables() []string {
	return []string{
		"equipment",
		"fish",
		"information",
		"jeans",
		"money",
		"rice",
		"series",
		"sheep",
		"species",
	}
}

func getDefaultVerbSingulars() []RuleSpec {
	return []RuleSpec{
		{`^are`, "is"},
		{`^were`, "was"},
		{`^(h)ave`, "as"},
		{`^(d|g)o`, "oes"},
		{`(x|ch|ss|sh|zz)`, "es"},
		{`([^aeiouy]|qu)y`, "ies"},
		{`(s)`, ""},
		{``, "s"},
	}
}

func getDefaultVerbPlurals() []RuleSpec {
	return []RuleSpec{
		{`^is`, "are"},
		{`^was`, "were"},
		{`^(h)as`, "ave"},
		{`^(d|g)oes`, "o"},
		{`(x|ch|ss|sh|zz)es`, ""},
		{`([^aeiouy]|qu)ies`, "y"},
		{`(ss)`, ""},
		{`s`, ""},
	}
}
