// Package researcher keeps a store-backed directory of researcher profiles,
// matches them against interest queries and manages connection requests
// between researchers.
package researcher

import (
	"errors"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/fyrsmithlabs/scholard/internal/matcher"
)

var (
	// ErrNotFound is returned for an unknown researcher, request or notification.
	ErrNotFound = errors.New("not found")

	// ErrInvalidProfile is returned when required profile fields are missing.
	ErrInvalidProfile = errors.New("invalid researcher profile")
)

// Researcher is a public directory entry.
type Researcher struct {
	ID           string    `json:"id" toml:"id"`
	Name         string    `json:"name" toml:"name"`
	University   string    `json:"university" toml:"university"`
	Field        string    `json:"field" toml:"field"`
	Department   string    `json:"department,omitempty" toml:"department"`
	Keywords     []string  `json:"keywords" toml:"keywords"`
	Bio          string    `json:"bio" toml:"bio"`
	Publications int       `json:"publications" toml:"publications"`
	ProfileURL   string    `json:"profile_url" toml:"profile_url"`
	Email        string    `json:"email,omitempty" toml:"email"`
	Verified     bool      `json:"verified" toml:"verified"`
	GitHub       string    `json:"github,omitempty" toml:"github"`
	LinkedIn     string    `json:"linkedin,omitempty" toml:"linkedin"`
	DateAdded    time.Time `json:"date_added" toml:"date_added"`
}

// MatchableText is the text a researcher is searched by.
func (r Researcher) MatchableText() string {
	parts := []string{r.Field, r.Bio, strings.Join(r.Keywords, " "), r.University}
	return strings.ToLower(strings.Join(parts, " "))
}

// Candidate converts r into a matcher candidate.
func (r Researcher) Candidate() matcher.Candidate {
	return matcher.Candidate{
		ID:         r.ID,
		Text:       r.MatchableText(),
		Keywords:   r.Keywords,
		Fields:     map[string]string{"name": r.Name, "field": r.Field},
		Popularity: r.Publications,
		Payload:    r,
	}
}

// Validate checks the fields every directory entry needs.
func (r Researcher) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.Join(ErrInvalidProfile, errors.New("name is required"))
	}
	if strings.TrimSpace(r.Field) == "" {
		return errors.Join(ErrInvalidProfile, errors.New("field is required"))
	}
	return nil
}

// Match is a researcher scored against a query.
type Match struct {
	Researcher
	MatchScore       int      `json:"match_score"`
	MatchingKeywords []string `json:"matching_keywords"`
}

// Profile is the local user's own research profile.
type Profile struct {
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	University   string   `json:"university"`
	Field        string   `json:"field"`
	Keywords     []string `json:"keywords"`
	Bio          string   `json:"bio"`
	IsPublic     bool     `json:"is_public"`
	ResearcherID string   `json:"researcher_id,omitempty"`
}

// Validate checks the required profile fields.
func (p Profile) Validate() error {
	var missing []string
	for name, v := range map[string]string{
		"name":       p.Name,
		"email":      p.Email,
		"university": p.University,
		"field":      p.Field,
		"bio":        p.Bio,
	} {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return errors.Join(ErrInvalidProfile, errors.New("missing "+strings.Join(missing, ", ")))
	}
	return nil
}

var slugSeparators = regexp.MustCompile(`\s+`)

// profileURL derives the public profile path from a name.
func profileURL(name string) string {
	return "/profile/" + slugSeparators.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}

// ParseKeywords splits a comma-separated keyword list.
func ParseKeywords(s string) []string {
	out := []string{}
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}
