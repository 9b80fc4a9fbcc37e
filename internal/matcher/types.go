// Package matcher scores candidate records against a free-text query.
//
// A Matcher is built from a Config holding every weight, threshold and cap it
// uses; candidates are passed to each Search call, so there is no shared
// collection and independent matchers can run side by side. Scores are
// integers in [0,100] and results are ordered by non-increasing score.
package matcher

// Candidate is a record that can be matched against a query.
// The matcher never mutates candidates.
type Candidate struct {
	ID string `json:"id"`

	// Text is the searchable free text of the record.
	Text string `json:"text"`

	Keywords []string `json:"keywords,omitempty"`

	// Fields holds named sub-texts that earn extra weight when a query token
	// hits them, e.g. "title" or "authors".
	Fields map[string]string `json:"fields,omitempty"`

	Year       string `json:"year,omitempty"`
	Popularity int    `json:"popularity,omitempty"`

	Payload any `json:"-"`
}

// Result is a scored candidate.
type Result struct {
	Candidate        Candidate `json:"candidate"`
	Score            int       `json:"score"`
	MatchingKeywords []string  `json:"matching_keywords"`
}

// Config holds the scoring constants of a Matcher.
type Config struct {
	// Name labels the preset in spans and metrics.
	Name string `json:"name" koanf:"name"`

	TextHitWeight int            `json:"text_hit_weight" koanf:"text_hit_weight"`
	FieldWeights  map[string]int `json:"field_weights,omitempty" koanf:"field_weights"`
	KeywordWeight int            `json:"keyword_weight" koanf:"keyword_weight"`
	SynonymWeight int            `json:"synonym_weight" koanf:"synonym_weight"`
	FuzzyWeight   int            `json:"fuzzy_weight" koanf:"fuzzy_weight"`
	PhraseWeight  int            `json:"phrase_weight" koanf:"phrase_weight"`
	YearWeight    int            `json:"year_weight" koanf:"year_weight"`

	// NameWeight is added for each capitalised query word found in
	// Fields[NameField].
	NameWeight int    `json:"name_weight" koanf:"name_weight"`
	NameField  string `json:"name_field,omitempty" koanf:"name_field"`

	// PerTokenMax is the per-token share of the theoretical maximum score.
	PerTokenMax int `json:"per_token_max" koanf:"per_token_max"`

	BoostPerExtraKeyword int `json:"boost_per_extra_keyword" koanf:"boost_per_extra_keyword"`

	Threshold int `json:"threshold" koanf:"threshold"`

	// MinTermRatio also keeps a candidate when at least this share of query
	// tokens hit its text. Zero disables the rule.
	MinTermRatio float64 `json:"min_term_ratio" koanf:"min_term_ratio"`

	// ScoreFloor raises the score of every kept result to at least this value.
	ScoreFloor int `json:"score_floor" koanf:"score_floor"`

	MaxKeywords int `json:"max_keywords" koanf:"max_keywords"`

	UsePopularityTiebreak bool `json:"use_popularity_tiebreak" koanf:"use_popularity_tiebreak"`

	// Synonyms maps a query word to phrases that earn SynonymWeight each
	// when present in the candidate text.
	Synonyms map[string][]string `json:"synonyms,omitempty" koanf:"synonyms"`
}

// ResearcherConfig returns the preset used to match researcher profiles.
func ResearcherConfig() Config {
	return Config{
		Name:                 "researcher",
		TextHitWeight:        1,
		KeywordWeight:        2,
		FuzzyWeight:          1,
		PerTokenMax:          3,
		BoostPerExtraKeyword: 5,
		Threshold:            30,
		MaxKeywords:          3,
	}
}

// CitationConfig returns the preset used to match papers.
func CitationConfig() Config {
	return Config{
		Name:          "citation",
		TextHitWeight: 5,
		FieldWeights: map[string]int{
			"title":   10,
			"authors": 8,
			"source":  6,
		},
		KeywordWeight:         4,
		SynonymWeight:         3,
		FuzzyWeight:           2,
		PhraseWeight:          40,
		YearWeight:            15,
		NameWeight:            12,
		NameField:             "authors",
		PerTokenMax:           15,
		BoostPerExtraKeyword:  3,
		Threshold:             20,
		MinTermRatio:          0.3,
		ScoreFloor:            25,
		MaxKeywords:           5,
		UsePopularityTiebreak: true,
		Synonyms:              AcademicSynonyms(),
	}
}

// AcademicSynonyms returns the fixed academic abbreviation table.
func AcademicSynonyms() map[string][]string {
	return map[string][]string{
		"ai":         {"artificial intelligence", "machine learning", "deep learning", "neural networks"},
		"ml":         {"machine learning", "artificial intelligence", "data mining", "predictive modeling"},
		"education":  {"learning", "teaching", "academic", "educational", "student"},
		"research":   {"study", "analysis", "investigation", "examination", "methodology"},
		"technology": {"digital", "computer", "software", "system", "platform"},
		"medicine":   {"medical", "healthcare", "clinical", "biomedical", "health"},
		"quantum":    {"quantum computing", "quantum mechanics", "quantum physics"},
		"blockchain": {"distributed ledger", "cryptocurrency", "decentralized"},
		"vr":         {"virtual reality", "augmented reality", "immersive technology"},
		"security":   {"cybersecurity", "encryption", "privacy", "cryptography"},
	}
}
