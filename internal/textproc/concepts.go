package textproc

import (
	"regexp"
	"strings"
)

const (
	minConceptLength = 3
	maxConceptLength = 100
	maxConceptWords  = 8
)

var (
	leadingBullet       = regexp.MustCompile(`^[-*•]\s*`)
	leadingNumber       = regexp.MustCompile(`^\d+\.\s*`)
	trailingPunctuation = regexp.MustCompile(`[.!?:;,]$`)
)

// ExtractConcepts collects main and supporting concepts plus cause/effect links.
func (t *Transformer) ExtractConcepts(text string) ConceptMap {
	cm := ConceptMap{
		Main:        []string{},
		Supporting:  []string{},
		Connections: []ConceptConnection{},
	}
	main, supporting := newOrderedSet(), newOrderedSet()

	for _, line := range splitLines(text) {
		lower := strings.ToLower(line)

		if containsAny(lower, t.indicators.Main) {
			if c := conceptFromLine(line); c != "" {
				main.add(c)
			}
		}
		if containsAny(lower, t.indicators.Supporting) {
			if c := conceptFromLine(line); c != "" {
				supporting.add(c)
			}
		}

		for i, ind := range t.indicators.Relationships {
			if !strings.Contains(lower, ind) {
				continue
			}
			parts := t.relationships[i].Split(line, -1)
			if len(parts) != 2 {
				continue
			}
			from, to := conceptFromLine(parts[0]), conceptFromLine(parts[1])
			if from == "" || to == "" {
				continue
			}
			cm.Connections = append(cm.Connections, ConceptConnection{From: from, To: to, Relationship: ind})
		}
	}

	cm.Main = main.items
	cm.Supporting = supporting.items
	return cm
}

// conceptFromLine returns the first few words of line, or "" when it is too short or too long.
func conceptFromLine(line string) string {
	cleaned := strings.TrimSpace(line)
	cleaned = leadingBullet.ReplaceAllString(cleaned, "")
	cleaned = leadingNumber.ReplaceAllString(cleaned, "")

	if n := runeLen(cleaned); n < minConceptLength || n > maxConceptLength {
		return ""
	}

	words := strings.Fields(cleaned)
	if len(words) > maxConceptWords {
		words = words[:maxConceptWords]
	}
	concept := trailingPunctuation.ReplaceAllString(strings.Join(words, " "), "")
	return strings.TrimSpace(concept)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
