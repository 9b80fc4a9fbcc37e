package textproc

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

const (
	longSentenceWords  = 20
	shortSentenceWords = 5
	chunkWords         = 15
)

var sentenceSplit = regexp.MustCompile(`[.!?]+`)

// SimplifyText rewrites text in plainer words and estimates its readability.
func (t *Transformer) SimplifyText(text string) SimplifiedContent {
	normalized := Normalize(text)
	var (
		out          []string
		keyPoints    = []string{}
		improvements = newOrderedSet()
	)

	for _, line := range splitLines(normalized) {
		if t.isKeyPoint(line) {
			keyPoints = append(keyPoints, line)
		}

		simplified := line
		for _, s := range t.dictionary {
			if s.regex.MatchString(simplified) {
				simplified = s.regex.ReplaceAllLiteralString(simplified, s.Simple)
				improvements.add(fmt.Sprintf("Replaced %q with %q", s.Complex, s.Simple))
			}
		}

		for _, sentence := range sentenceSplit.Split(simplified, -1) {
			words := strings.Fields(sentence)
			switch {
			case len(words) > longSentenceWords:
				for i := 0; i < len(words); i += chunkWords {
					end := min(i+chunkWords, len(words))
					out = append(out, strings.Join(words[i:end], " ")+".")
				}
				improvements.add("Broke down long sentence into smaller parts")
			case len(words) > shortSentenceWords:
				out = append(out, strings.Join(words, " ")+".")
			}
		}
	}

	lower := strings.ToLower(normalized)
	for _, g := range t.glossary {
		if strings.Contains(lower, strings.ToLower(g.Term)) {
			out = append(out, fmt.Sprintf("(%s means: %s)", capitalize(g.Term), g.Explanation))
			improvements.add(fmt.Sprintf("Added explanation for %q", g.Term))
		}
	}

	simplifiedText := strings.Join(out, "\n\n")
	return SimplifiedContent{
		OriginalLength:   runeLen(text),
		SimplifiedLength: runeLen(simplifiedText),
		ReadabilityScore: readability(out),
		KeyPoints:        keyPoints,
		SimplifiedText:   simplifiedText,
		Improvements:     improvements.items,
	}
}

func (t *Transformer) isKeyPoint(line string) bool {
	lower := strings.ToLower(line)
	for _, ind := range t.indicators.KeyPoint {
		if strings.Contains(lower, ind) {
			return true
		}
	}
	return false
}

// readability is a Flesch-style estimate over average words per output line, clamped to [0,100].
func readability(lines []string) float64 {
	if len(lines) == 0 {
		return 100
	}
	words := 0
	for _, l := range lines {
		words += len(strings.Fields(l))
	}
	avg := float64(words) / float64(len(lines))
	score := 206.835 - 1.015*avg
	return math.Round(math.Max(0, math.Min(100, score))*10) / 10
}

type orderedSet struct {
	seen  map[string]struct{}
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{}), items: []string{}}
}

func (s *orderedSet) add(v string) {
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
}
