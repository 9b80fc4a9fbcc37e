package textproc

import (
	"fmt"
	"strings"
)

// GenerateFlashcards emits at most one card per line, in line order.
// Lines shorter than 10 characters are ignored.
func (t *Transformer) GenerateFlashcards(text string) []Flashcard {
	cards := []Flashcard{}

	for i, line := range splitLines(text) {
		if runeLen(line) < minFlashcardLine {
			continue
		}
		card, ok := t.matchFlashcard(line)
		if !ok {
			continue
		}
		card.ID = fmt.Sprintf("card-%d", i)
		cards = append(cards, card)
	}

	return cards
}

// matchFlashcard applies the first rule whose pattern matches line.
func (t *Transformer) matchFlashcard(line string) (Flashcard, bool) {
	for _, r := range t.flashcardRules {
		if r.MinLength > 0 && runeLen(line) < r.MinLength {
			continue
		}
		m := r.regex.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		groups := captures(r.regex, m, line)
		for _, name := range r.Lower {
			groups[name] = strings.ToLower(groups[name])
		}

		card := Flashcard{
			Question:   expand(r.Question, groups),
			Answer:     expand(r.Answer, groups),
			Concept:    expand(r.Concept, groups),
			Difficulty: r.Difficulty,
		}
		if card.Question == "" || card.Answer == "" {
			continue
		}
		if card.Difficulty == "" {
			card.Difficulty = difficultyFor(card.Answer)
		}
		return card, true
	}
	return Flashcard{}, false
}

// difficultyFor derives a difficulty label from answer length.
func difficultyFor(answer string) Difficulty {
	switch n := runeLen(answer); {
	case n > 100:
		return DifficultyHard
	case n > 50:
		return DifficultyMedium
	default:
		return DifficultyEasy
	}
}
