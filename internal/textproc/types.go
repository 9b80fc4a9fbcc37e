package textproc

// Difficulty is the coarse flashcard difficulty label.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Flashcard is a single question/answer pair.
type Flashcard struct {
	ID         string     `json:"id"`
	Question   string     `json:"question"`
	Answer     string     `json:"answer"`
	Concept    string     `json:"concept"`
	Difficulty Difficulty `json:"difficulty"`
}

// NodeType identifies the role of a flowchart node.
type NodeType string

const (
	NodeStart    NodeType = "start"
	NodeProcess  NodeType = "process"
	NodeDecision NodeType = "decision"
	NodeEnd      NodeType = "end"
)

// Position is a node's location on the layout grid.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// FlowchartNode is a single node of a generated flowchart.
type FlowchartNode struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Type     NodeType `json:"type"`
	Position Position `json:"position"`
}

// FlowchartEdge connects two nodes.
type FlowchartEdge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label,omitempty"`
}

// Flowchart is a linear chain of nodes starting at a start node.
type Flowchart struct {
	Nodes []FlowchartNode `json:"nodes"`
	Edges []FlowchartEdge `json:"edges"`
}

// SimplifiedContent is the result of a single simplification pass.
type SimplifiedContent struct {
	OriginalLength   int      `json:"original_length"`
	SimplifiedLength int      `json:"simplified_length"`
	ReadabilityScore float64  `json:"readability_score"`
	KeyPoints        []string `json:"key_points"`
	SimplifiedText   string   `json:"simplified_text"`
	Improvements     []string `json:"improvements"`
}

// ConceptConnection links two concepts through a relationship indicator.
type ConceptConnection struct {
	From         string `json:"from"`
	To           string `json:"to"`
	Relationship string `json:"relationship"`
}

// ConceptMap groups the concepts found in a text.
type ConceptMap struct {
	Main        []string            `json:"main"`
	Supporting  []string            `json:"supporting"`
	Connections []ConceptConnection `json:"connections"`
}

// Layout holds the flowchart grid constants.
type Layout struct {
	Columns  int `json:"columns"`
	SpacingX int `json:"spacing_x"`
	SpacingY int `json:"spacing_y"`
	StartX   int `json:"start_x"`
	StartY   int `json:"start_y"`
}

// DefaultLayout returns the standard 3-column grid.
func DefaultLayout() Layout {
	return Layout{
		Columns:  3,
		SpacingX: 250,
		SpacingY: 120,
		StartX:   100,
		StartY:   50,
	}
}

// Config holds the rule tables a Transformer is built from.
// Zero-valued fields fall back to the defaults.
type Config struct {
	FlashcardRules []FlashcardRule `json:"flashcard_rules,omitempty"`
	FlowchartRules []FlowchartRule `json:"flowchart_rules,omitempty"`
	Dictionary     []Substitution  `json:"dictionary,omitempty"`
	Glossary       []GlossaryEntry `json:"glossary,omitempty"`
	Indicators     *Indicators     `json:"indicators,omitempty"`
	Layout         Layout          `json:"layout"`
}
