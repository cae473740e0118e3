package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/spicery/nutmeg-inflector/pkg/inflector"
	"github.com/spicery/nutmeg-inflector/pkg/tagparser"
)

const (
	version = "0.1.0"
	usage   = `nutmeg-inflector - Resolves inflection tags in English text templates

Usage:
  nutmeg-inflector [options]

Options:
  -h, --help                Show this help message
  -v, --version             Show version information
  -n, --count <n>           Count the template is resolved against (default 1)
  --input <file>            Input file (defaults to stdin)
  --output <file>           Output file (defaults to stdout)
  --rules <file>            YAML rules file for custom inflection rules (optional)
  --make-rules              Generate default rules YAML to stdout
  --tags                    Print the parsed tags as JSON, one per line, instead of resolving them
  --pluralize <word>        Print the plural of a word
  --singularize <word>      Print the singular of a word
  --conjugate <verb>        Print the form of a verb agreeing with --count
  --fuzzy                   Print the fuzzy description of --count
  --exit0                   Exit with code 0 even on template errors (suppress stderr)
  --verbose                 Log diagnostics to stderr

Template tags:
  {{N:word}}   noun, singular when count is 1, otherwise plural ({{Ns:..}} / {{Np:..}} force a form)
  {{V:verb}}   verb agreeing with count
  {{#:label}}  the count ({{#f:..}} for "no", "one", "a couple of", "a few", "several", "many")

Examples:
  echo "{{#:n}} {{N:error}} {{V:was}} found" | nutmeg-inflector --count 3
  nutmeg-inflector --input message.txt --count 0 --output out.txt
  nutmeg-inflector --rules custom.yaml --pluralize cactus
  nutmeg-inflector --make-rules > rules.yaml
`
)

func main() {
	var showHelp, showVersion, exit0, makeRules, listTags, fuzzy, verbose bool
	var inputFile, outputFile, rulesFile string
	var pluralize, singularize, conjugate string
	var count int

	flags := pflag.NewFlagSet("nutmeg-inflector", pflag.ContinueOnError)
	flags.BoolVarP(&showHelp, "help", "h", false, "Show help")
	flags.BoolVarP(&showVersion, "version", "v", false, "Show version")
	flags.IntVarP(&count, "count", "n", 1, "Count the template is resolved against")
	flags.BoolVar(&exit0, "exit0", false, "Exit with code 0 even on errors")
	flags.BoolVar(&makeRules, "make-rules", false, "Generate default rules YAML")
	flags.BoolVar(&listTags, "tags", false, "Print parsed tags as JSON")
	flags.BoolVar(&fuzzy, "fuzzy", false, "Print the fuzzy description of the count")
	flags.BoolVar(&verbose, "verbose", false, "Log diagnostics to stderr")
	flags.StringVar(&inputFile, "input", "", "Input file (defaults to stdin)")
	flags.StringVar(&outputFile, "output", "", "Output file (defaults to stdout)")
	flags.StringVar(&rulesFile, "rules", "", "YAML rules file (optional)")
	flags.StringVar(&pluralize, "pluralize", "", "Print the plural of a word")
	flags.StringVar(&singularize, "singularize", "", "Print the singular of a word")
	flags.StringVar(&conjugate, "conjugate", "", "Print the verb form agreeing with --count")

	flags.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
	}

	if err := flags.Parse(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		flags.Usage()
		os.Exit(1)
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if showHelp {
		flags.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("nutmeg-inflector version %s\n", version)
		os.Exit(0)
	}

	if makeRules {
		if err := generateDefaultConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "Error generating default rules: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Reject any positional arguments
	if len(flags.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "Error: Unexpected positional arguments. Use --input and --output flags instead.\n\n")
		flags.Usage()
		os.Exit(1)
	}

	// Load rules if specified
	inf := inflector.Default()
	if rulesFile != "" {
		rules, err := inflector.LoadRulesFile(rulesFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading rules file '%s': %v\n", rulesFile, err)
			os.Exit(1)
		}

		compiled, err := inflector.ApplyRulesToDefaults(rules)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error applying rules: %v\n", err)
			os.Exit(1)
		}
		logger.Debug("loaded rules file",
			slog.String("file", rulesFile),
			slog.Int("plural_rules", len(compiled.NounPlurals)),
			slog.Int("singular_rules", len(compiled.NounSingulars)),
			slog.Int("uncountables", len(compiled.Uncountables)))
		inf = inflector.New(compiled)
	}

	// Single word modes
	if word, ok := wordMode(inf, count, pluralize, singularize, conjugate, fuzzy); ok {
		if word.err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", word.err)
			os.Exit(1)
		}
		fmt.Println(word.text)
		os.Exit(0)
	}

	var input string
	var err error

	// Read input
	if inputFile == "" {
		input, err = readFromStdin()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading from stdin: %v\n", err)
			os.Exit(1)
		}
	} else {
		input, err = readFromFile(inputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading file '%s': %v\n", inputFile, err)
			os.Exit(1)
		}
	}
	logger.Debug("read template", slog.Int("bytes", len(input)), slog.Int("count", count))

	// Prepare output destination
	var output io.Writer
	var outputCloser io.Closer

	if outputFile == "" {
		output = os.Stdout
	} else {
		file, err := os.Create(outputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating output file '%s': %v\n", outputFile, err)
			os.Exit(1)
		}
		output = file
		outputCloser = file
	}

	parser := tagparser.NewParserWithInflector(input, count, inf)
	var parseErr error
	if listTags {
		parseErr = writeTags(output, parser)
	} else {
		var resolved string
		resolved, parseErr = parser.Parse()
		if parseErr == nil {
			fmt.Fprint(output, resolved)
		}
	}

	// Close output file if we opened one
	if outputCloser != nil {
		if err := outputCloser.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing output file '%s': %v\n", outputFile, err)
			os.Exit(1)
		}
	}

	if parseErr != nil {
		logger.Debug("template failed", slog.String("error", parseErr.Error()))
		if exit0 {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Template error: %v\n", parseErr)
		os.Exit(1)
	}
}

type wordResult struct {
	text string
	err  error
}

// wordMode handles the single-word flags. It reports false when none is set.
func wordMode(inf *inflector.Inflector, count int, pluralize, singularize, conjugate string, fuzzy bool) (wordResult, bool) {
	switch {
	case pluralize != "":
		return wordResult{text: inf.Pluralize(pluralize)}, true
	case singularize != "":
		return wordResult{text: inf.Singularize(singularize)}, true
	case conjugate != "":
		text, err := inf.ConjugateVerb(conjugate, count)
		return wordResult{text: text, err: err}, true
	case fuzzy:
		text, err := inflector.FuzzyCount(count)
		return wordResult{text: text, err: err}, true
	}
	return wordResult{}, false
}

// writeTags outputs tags as JSON, one per line (even if there was an error).
func writeTags(output io.Writer, parser *tagparser.Parser) error {
	tags, tagErr := parser.Tags()
	for _, tag := range tags {
		jsonBytes, err := json.Marshal(tag)
		if err != nil {
			return fmt.Errorf("JSON encoding error: %w", err)
		}
		fmt.Fprintln(output, string(jsonBytes))
	}
	return tagErr
}

// readFromStdin reads all input from stdin.
func readFromStdin() (string, error) {
	bytes, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// readFromFile reads the contents of a file.
func readFromFile(filename string) (string, error) {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// generateDefaultConfig outputs the default configuration in YAML format to stdout.
func generateDefaultConfig() error {
	yamlBytes, err := inflector.DefaultRulesFile().Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal rules to YAML: %w", err)
	}

	fmt.Print(string(yamlBytes))
	return nil
}
