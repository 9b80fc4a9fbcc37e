package textproc

import "strings"

// FlashcardRule maps a line pattern to a card template.
//
// Question, Answer and Concept are templates expanded with the rule's named
// capture groups (${name}); ${line} always holds the whole trimmed line.
// Groups listed in Lower are lower-cased before expansion. A non-empty
// Difficulty overrides the length-derived label.
type FlashcardRule struct {
	Name       string     `json:"name"`
	Regex      string     `json:"regex"`
	Question   string     `json:"question"`
	Answer     string     `json:"answer"`
	Concept    string     `json:"concept"`
	Difficulty Difficulty `json:"difficulty,omitempty"`
	Lower      []string   `json:"lower,omitempty"`
	MinLength  int        `json:"min_length,omitempty"`
}

// FlowchartRule maps a line pattern to a node label and type.
// Groups listed in Capitalize get their first letter upper-cased.
type FlowchartRule struct {
	Name       string   `json:"name"`
	Regex      string   `json:"regex"`
	Label      string   `json:"label"`
	Type       NodeType `json:"type"`
	Capitalize []string `json:"capitalize,omitempty"`
}

// Substitution is a complex-to-simple word replacement.
type Substitution struct {
	Complex string `json:"complex"`
	Simple  string `json:"simple"`
}

// GlossaryEntry explains a technical term in plain words.
type GlossaryEntry struct {
	Term        string `json:"term"`
	Explanation string `json:"explanation"`
}

// Indicators drive concept extraction.
type Indicators struct {
	Main          []string `json:"main"`
	Supporting    []string `json:"supporting"`
	Relationships []string `json:"relationships"`
	KeyPoint      []string `json:"key_point"`
}

// DefaultFlashcardRules returns the flashcard rules in priority order.
func DefaultFlashcardRules() []FlashcardRule {
	return []FlashcardRule{
		{
			Name:     "definition",
			Regex:    `^(?P<term>.+?)\s*[-:]\s*(?P<definition>.+)$`,
			Question: "What is ${term}?",
			Answer:   "${definition}",
			Concept:  "${term}",
		},
		{
			Name:     "concept",
			Regex:    `(?i)^(?P<subject>.+?)\s+(?P<verb>is|are|means?|refers? to)\s+(?P<explanation>.+)$`,
			Question: "What ${verb} ${subject}?",
			Answer:   "${explanation}",
			Concept:  "${subject}",
		},
		{
			Name:       "process",
			Regex:      `(?i)^(?P<indicator>step \d+|first|second|third|next|then|finally|lastly)[:\s]+(?P<content>.+)$`,
			Question:   "What happens in ${indicator}?",
			Answer:     "${content}",
			Concept:    "Process Step",
			Difficulty: DifficultyMedium,
			Lower:      []string{"indicator"},
		},
		{
			Name:     "fact",
			Regex:    `(?i)^(?P<subject>.+?)\s+(?P<verb>was|were|has|have|will|can|should|must)\s+(?P<predicate>.+)$`,
			Question: "What ${verb} ${subject}?",
			Answer:   "${predicate}",
			Concept:  "${subject}",
		},
		{
			Name:      "fallback",
			Regex:     `^(?P<head>\S+(?:\s+\S+){0,2})`,
			Question:  "Explain: ${head}...",
			Answer:    "${line}",
			Concept:   "${head}",
			MinLength: 21,
		},
	}
}

// actionVerbs start a process step in a flowchart.
var actionVerbs = []string{
	"analyze", "create", "develop", "establish", "identify", "implement",
	"improve", "increase", "maintain", "perform", "prepare", "provide",
	"reduce", "begin", "start", "end", "complete", "calculate",
	"determine", "evaluate", "execute", "process", "review", "update", "validate",
}

// decisionIndicators turn a line into a decision node.
var decisionIndicators = []string{
	"if", "when", "whether", "decide", "choose", "select", "check", "test", "verify", "confirm",
}

// DefaultFlowchartRules returns the flowchart classification rules in priority order.
// Lines no rule matches become process nodes labelled with the whole line.
func DefaultFlowchartRules() []FlowchartRule {
	return []FlowchartRule{
		{
			Name:  "numbered",
			Regex: `^\d+\.\s*(?P<text>.+)$`,
			Label: "${text}",
			Type:  NodeProcess,
		},
		{
			Name:  "step",
			Regex: `(?i)^(?:step \d+|first|second|third|next|then|finally|lastly)[:\s]+(?P<text>.+)$`,
			Label: "${text}",
			Type:  NodeProcess,
		},
		{
			Name:       "action",
			Regex:      `(?i)^(?P<verb>` + strings.Join(actionVerbs, "|") + `)\s+(?P<rest>.+)$`,
			Label:      "${verb} ${rest}",
			Type:       NodeProcess,
			Capitalize: []string{"verb"},
		},
		{
			Name:       "decision",
			Regex:      `(?i)^(?P<indicator>` + strings.Join(decisionIndicators, "|") + `)\s+(?P<rest>.+)$`,
			Label:      "${indicator} ${rest}?",
			Type:       NodeDecision,
			Capitalize: []string{"indicator"},
		},
	}
}

// DefaultSimplifyDictionary returns the plain-language substitutions in application order.
func DefaultSimplifyDictionary() []Substitution {
	return []Substitution{
		{"utilize", "use"}, {"implement", "use"}, {"facilitate", "help"},
		{"demonstrate", "show"}, {"subsequently", "then"}, {"prior to", "before"},
		{"commence", "start"}, {"terminate", "end"}, {"sufficient", "enough"},
		{"numerous", "many"}, {"optimal", "best"}, {"initiate", "start"},
		{"comprehend", "understand"}, {"ascertain", "find out"}, {"endeavor", "try"},
		{"fundamental", "basic"}, {"methodology", "method"}, {"paradigm", "model"},
		{"conceptualize", "think about"}, {"consequently", "so"}, {"additionally", "also"},
		{"furthermore", "also"}, {"moreover", "also"}, {"therefore", "so"},
		{"thus", "so"}, {"hence", "so"}, {"accordingly", "so"},
		{"substantial", "large"}, {"significant", "important"}, {"approximately", "about"},
		{"indicate", "show"}, {"establish", "set up"}, {"acquire", "get"},
		{"construct", "build"}, {"eliminate", "remove"}, {"emphasize", "stress"},
		{"examine", "look at"}, {"generate", "create"}, {"investigate", "study"},
		{"maintain", "keep"}, {"modify", "change"}, {"participate", "take part"},
		{"purchase", "buy"}, {"require", "need"}, {"respond", "answer"},
		{"select", "choose"}, {"transform", "change"},
	}
}

// DefaultGlossary returns the technical terms explained in simplified output.
func DefaultGlossary() []GlossaryEntry {
	return []GlossaryEntry{
		{"hypothesis", "An educated guess that scientists test"},
		{"theory", "A well-tested explanation for how something works"},
		{"correlation", "When two things tend to happen together"},
		{"algorithm", "A set of steps to solve a problem"},
		{"data", "Information or facts"},
		{"analysis", "Careful study of something"},
		{"synthesis", "Combining different ideas"},
		{"methodology", "The way something is done"},
		{"variable", "Something that can change"},
		{"control", "Something kept the same in an experiment"},
	}
}

// DefaultIndicators returns the concept extraction and key point indicators.
func DefaultIndicators() Indicators {
	return Indicators{
		Main:          []string{"main", "primary", "key", "important", "central", "core", "fundamental", "essential"},
		Supporting:    []string{"example", "instance", "such as", "including", "like", "for example", "e.g."},
		Relationships: []string{"because", "therefore", "thus", "hence", "leads to", "results in", "causes", "due to"},
		KeyPoint:      []string{"important", "key", "main", "significant"},
	}
}
