// Package citation searches a catalog of papers and formats references.
package citation

import (
	"strings"

	"github.com/fyrsmithlabs/scholard/internal/matcher"
)

// Type is the kind of publication.
type Type string

const (
	TypeArticle    Type = "article"
	TypeBook       Type = "book"
	TypeJournal    Type = "journal"
	TypeConference Type = "conference"
	TypeThesis     Type = "thesis"
	TypeWebsite    Type = "website"
)

// ValidType reports whether t is a known publication type.
func ValidType(t Type) bool {
	switch t {
	case TypeArticle, TypeBook, TypeJournal, TypeConference, TypeThesis, TypeWebsite:
		return true
	}
	return false
}

// Paper is a catalog entry.
type Paper struct {
	ID            string   `json:"id" toml:"id"`
	Type          Type     `json:"type" toml:"type"`
	Title         string   `json:"title" toml:"title"`
	Authors       string   `json:"authors" toml:"authors"`
	Year          string   `json:"year" toml:"year"`
	Source        string   `json:"source" toml:"source"`
	Excerpt       string   `json:"excerpt" toml:"excerpt"`
	DOI           string   `json:"doi,omitempty" toml:"doi"`
	URL           string   `json:"url,omitempty" toml:"url"`
	Volume        string   `json:"volume,omitempty" toml:"volume"`
	Issue         string   `json:"issue,omitempty" toml:"issue"`
	Pages         string   `json:"pages,omitempty" toml:"pages"`
	Publisher     string   `json:"publisher,omitempty" toml:"publisher"`
	ISBN          string   `json:"isbn,omitempty" toml:"isbn"`
	Conference    string   `json:"conference,omitempty" toml:"conference"`
	Institution   string   `json:"institution,omitempty" toml:"institution"`
	CitationCount int      `json:"citation_count,omitempty" toml:"citation_count"`
	OpenAccess    bool     `json:"open_access,omitempty" toml:"open_access"`
	Keywords      []string `json:"keywords,omitempty" toml:"keywords"`
}

// Candidate converts p into a matcher candidate.
func (p Paper) Candidate() matcher.Candidate {
	return matcher.Candidate{
		ID:       p.ID,
		Text:     strings.Join([]string{p.Title, p.Authors, p.Excerpt, p.Source}, " "),
		Keywords: p.Keywords,
		Fields: map[string]string{
			"title":   p.Title,
			"authors": p.Authors,
			"source":  p.Source,
		},
		Year:       p.Year,
		Popularity: p.CitationCount,
		Payload:    p,
	}
}

// Match is a paper scored against a query.
type Match struct {
	Paper
	MatchPercentage  int      `json:"match_percentage"`
	MatchingKeywords []string `json:"matching_keywords"`
}
