package matcher

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

const minFuzzyTokenLength = 4

var (
	yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	namePattern = regexp.MustCompile(`\b[A-Z][a-z]+\b`)
)

// Matcher ranks candidates against a query using a fixed Config.
// It holds no mutable state and is safe for concurrent use.
type Matcher struct {
	cfg      Config
	synonyms map[string][]string
}

// New creates a Matcher. Non-positive caps fall back to sensible minimums.
func New(cfg Config) *Matcher {
	if cfg.MaxKeywords <= 0 {
		cfg.MaxKeywords = 3
	}
	if cfg.PerTokenMax <= 0 {
		cfg.PerTokenMax = 1
	}

	synonyms := make(map[string][]string, len(cfg.Synonyms))
	for key, phrases := range cfg.Synonyms {
		lowered := make([]string, 0, len(phrases))
		for _, p := range phrases {
			lowered = append(lowered, strings.ToLower(p))
		}
		synonyms[strings.ToLower(key)] = lowered
	}

	return &Matcher{cfg: cfg, synonyms: synonyms}
}

// Config returns the matcher's scoring constants.
func (m *Matcher) Config() Config {
	return m.cfg
}

// query holds the parts of a query shared by every candidate.
type query struct {
	raw      string
	phrase   string
	tokens   []string
	words    []string
	year     string
	names    []string
	synonyms []string
}

func (m *Matcher) parse(raw string) query {
	q := query{
		raw:    raw,
		phrase: strings.Join(strings.Fields(strings.ToLower(raw)), " "),
		tokens: Tokenize(raw),
		words:  words(raw),
		year:   yearPattern.FindString(raw),
		names:  namePattern.FindAllString(raw, -1),
	}

	seen := make(map[string]bool)
	for _, w := range q.words {
		if _, ok := m.synonyms[w]; ok && !seen[w] {
			seen[w] = true
			q.synonyms = append(q.synonyms, w)
		}
	}
	return q
}

// Search scores every candidate against query and returns those at or above
// the threshold, best first. An empty or token-less query yields no results.
func (m *Matcher) Search(rawQuery string, candidates []Candidate) []Result {
	results := []Result{}
	q := m.parse(rawQuery)
	if len(q.tokens) == 0 {
		return results
	}

	for _, c := range candidates {
		if r, ok := m.score(q, c); ok {
			results = append(results, r)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if m.cfg.UsePopularityTiebreak {
			return results[i].Candidate.Popularity > results[j].Candidate.Popularity
		}
		return false
	})

	return results
}

// Score returns the score of a single candidate and whether it passes the threshold.
func (m *Matcher) Score(rawQuery string, c Candidate) (Result, bool) {
	q := m.parse(rawQuery)
	if len(q.tokens) == 0 {
		return Result{Candidate: c, MatchingKeywords: []string{}}, false
	}
	return m.score(q, c)
}

func (m *Matcher) score(q query, c Candidate) (Result, bool) {
	cfg := m.cfg
	text := strings.ToLower(c.Text)
	fields := make(map[string]string, len(c.Fields))
	for name, v := range c.Fields {
		fields[name] = strings.ToLower(v)
	}
	keywords, originals := uniqueKeywords(c.Keywords)

	raw := 0
	hits := 0
	matched := make([]string, 0, len(keywords))
	counted := make(map[int]bool, len(keywords))

	if cfg.PhraseWeight > 0 && q.phrase != "" && strings.Contains(text, q.phrase) {
		raw += cfg.PhraseWeight
	}

	for _, tok := range q.tokens {
		if strings.Contains(text, tok) {
			hits++
			raw += cfg.TextHitWeight
			for name, weight := range cfg.FieldWeights {
				if strings.Contains(fields[name], tok) {
					raw += weight
				}
			}
		}

		if cfg.KeywordWeight > 0 {
			for i, kw := range keywords {
				if counted[i] {
					continue
				}
				if strings.Contains(kw, tok) || (len(kw) >= minTokenLength && strings.Contains(tok, kw)) {
					counted[i] = true
					raw += cfg.KeywordWeight
					matched = append(matched, originals[i])
				}
			}
		}

		if cfg.FuzzyWeight > 0 && len([]rune(tok)) >= minFuzzyTokenLength {
			for i, kw := range keywords {
				if counted[i] {
					continue
				}
				for _, w := range strings.Fields(kw) {
					if sharesStem(tok, w) {
						counted[i] = true
						raw += cfg.FuzzyWeight
						matched = append(matched, originals[i])
						break
					}
				}
			}
		}
	}

	if cfg.SynonymWeight > 0 {
		for _, key := range q.synonyms {
			for _, phrase := range m.synonyms[key] {
				if strings.Contains(text, phrase) {
					raw += cfg.SynonymWeight
				}
			}
		}
	}

	if cfg.YearWeight > 0 && q.year != "" && q.year == c.Year {
		raw += cfg.YearWeight
	}

	if cfg.NameWeight > 0 && cfg.NameField != "" {
		target := fields[cfg.NameField]
		for _, name := range q.names {
			if strings.Contains(target, strings.ToLower(name)) {
				raw += cfg.NameWeight
			}
		}
	}

	maxScore := len(q.tokens)*cfg.PerTokenMax + cfg.PhraseWeight
	score := clamp(int(math.Round(float64(raw) / float64(maxScore) * 100)))
	if len(matched) > 2 && cfg.BoostPerExtraKeyword > 0 {
		score = clamp(score + cfg.BoostPerExtraKeyword*(len(matched)-2))
	}

	keep := score >= cfg.Threshold
	if !keep && cfg.MinTermRatio > 0 && hits > 0 {
		keep = hits >= int(math.Ceil(float64(len(q.tokens))*cfg.MinTermRatio))
	}
	if !keep {
		return Result{}, false
	}
	if score < cfg.ScoreFloor {
		score = clamp(cfg.ScoreFloor)
	}

	if len(matched) > cfg.MaxKeywords {
		matched = matched[:cfg.MaxKeywords]
	}
	return Result{Candidate: c, Score: score, MatchingKeywords: matched}, true
}

func clamp(score int) int {
	return max(0, min(100, score))
}

// uniqueKeywords returns the lower-cased keywords without duplicates, alongside
// their original spelling.
func uniqueKeywords(keywords []string) (lowered, originals []string) {
	seen := make(map[string]bool, len(keywords))
	for _, k := range keywords {
		l := strings.ToLower(strings.TrimSpace(k))
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		lowered = append(lowered, l)
		originals = append(originals, k)
	}
	return lowered, originals
}
