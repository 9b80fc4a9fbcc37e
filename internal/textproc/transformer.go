package textproc

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	minFlashcardLine = 10
	minFlowchartLine = 5
	maxLabelLength   = 50
)

// Transformer turns notes into flashcards, flowcharts, simplified text and concept maps.
type Transformer struct {
	flashcardRules []*compiledFlashcardRule
	flowchartRules []*compiledFlowchartRule
	dictionary     []*compiledSubstitution
	glossary       []GlossaryEntry
	indicators     Indicators
	relationships  []*regexp.Regexp
	layout         Layout
}

type compiledFlashcardRule struct {
	FlashcardRule
	regex *regexp.Regexp
}

type compiledFlowchartRule struct {
	FlowchartRule
	regex *regexp.Regexp
}

type compiledSubstitution struct {
	Substitution
	regex *regexp.Regexp
}

// NewTransformer compiles the rule tables in cfg.
func NewTransformer(cfg Config) (*Transformer, error) {
	flashcardRules := cfg.FlashcardRules
	if len(flashcardRules) == 0 {
		flashcardRules = DefaultFlashcardRules()
	}
	flowchartRules := cfg.FlowchartRules
	if len(flowchartRules) == 0 {
		flowchartRules = DefaultFlowchartRules()
	}
	dictionary := cfg.Dictionary
	if len(dictionary) == 0 {
		dictionary = DefaultSimplifyDictionary()
	}
	glossary := cfg.Glossary
	if len(glossary) == 0 {
		glossary = DefaultGlossary()
	}
	indicators := DefaultIndicators()
	if cfg.Indicators != nil {
		indicators = *cfg.Indicators
	}
	layout := cfg.Layout
	if layout.Columns <= 0 {
		layout = DefaultLayout()
	}

	t := &Transformer{
		flashcardRules: make([]*compiledFlashcardRule, 0, len(flashcardRules)),
		flowchartRules: make([]*compiledFlowchartRule, 0, len(flowchartRules)),
		dictionary:     make([]*compiledSubstitution, 0, len(dictionary)),
		glossary:       glossary,
		indicators:     indicators,
		layout:         layout,
	}

	for _, r := range flashcardRules {
		re, err := regexp.Compile(r.Regex)
		if err != nil {
			return nil, fmt.Errorf("compiling flashcard rule %q: %w", r.Name, err)
		}
		t.flashcardRules = append(t.flashcardRules, &compiledFlashcardRule{FlashcardRule: r, regex: re})
	}
	for _, r := range flowchartRules {
		re, err := regexp.Compile(r.Regex)
		if err != nil {
			return nil, fmt.Errorf("compiling flowchart rule %q: %w", r.Name, err)
		}
		t.flowchartRules = append(t.flowchartRules, &compiledFlowchartRule{FlowchartRule: r, regex: re})
	}
	for _, s := range dictionary {
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(s.Complex) + `\b`)
		if err != nil {
			return nil, fmt.Errorf("compiling substitution %q: %w", s.Complex, err)
		}
		t.dictionary = append(t.dictionary, &compiledSubstitution{Substitution: s, regex: re})
	}
	for _, ind := range indicators.Relationships {
		t.relationships = append(t.relationships, regexp.MustCompile(`(?i)`+regexp.QuoteMeta(ind)))
	}

	return t, nil
}

// DefaultTransformer returns a Transformer built from the default tables.
func DefaultTransformer() *Transformer {
	t, err := NewTransformer(Config{})
	if err != nil {
		panic(err)
	}
	return t
}

// splitLines returns the non-empty trimmed lines of text after normalisation.
func splitLines(text string) []string {
	raw := strings.Split(Normalize(text), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// captures returns the trimmed named groups of a match plus the implicit "line" group.
func captures(re *regexp.Regexp, match []string, line string) map[string]string {
	groups := map[string]string{"line": line}
	for i, name := range re.SubexpNames() {
		if name != "" && i < len(match) {
			groups[name] = strings.TrimSpace(match[i])
		}
	}
	return groups
}

func expand(template string, groups map[string]string) string {
	return strings.TrimSpace(os.Expand(template, func(key string) string {
		return groups[key]
	}))
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// truncate shortens s to max characters, ending in "..." when cut.
func truncate(s string, max int) string {
	if runeLen(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max-3]) + "..."
}
