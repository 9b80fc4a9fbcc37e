package citation

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrUnknownFormat is returned by ParseStyle for an unsupported style name.
var ErrUnknownFormat = errors.New("unknown citation format")

// Style is a reference style.
type Style string

const (
	StyleAPA     Style = "APA"
	StyleMLA     Style = "MLA"
	StyleChicago Style = "Chicago"
	StyleIEEE    Style = "IEEE"
	StyleHarvard Style = "Harvard"
)

// Styles lists every supported style.
func Styles() []Style {
	return []Style{StyleAPA, StyleMLA, StyleChicago, StyleIEEE, StyleHarvard}
}

// ParseStyle resolves a style name case-insensitively.
func ParseStyle(name string) (Style, error) {
	for _, s := range Styles() {
		if strings.EqualFold(string(s), strings.TrimSpace(name)) {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// Format renders p as a reference in the given style. Unknown styles render as APA.
func Format(p Paper, style Style) string {
	if !slices.Contains(Styles(), style) {
		style = StyleAPA
	}
	authors := formatAuthors(p.Authors, style)
	link := ""
	switch {
	case p.DOI != "":
		link = "https://doi.org/" + p.DOI
	case p.URL != "":
		link = p.URL
	}

	switch style {
	case StyleMLA:
		return formatMLA(p, authors, link)
	case StyleChicago:
		return formatChicago(p, authors, link)
	case StyleIEEE:
		return formatIEEE(p, authors, link)
	case StyleHarvard:
		return formatHarvard(p, authors, link)
	default:
		return formatAPA(p, authors, link)
	}
}

// FormatAll renders p in every supported style.
func FormatAll(p Paper) map[Style]string {
	out := make(map[Style]string, len(Styles()))
	for _, s := range Styles() {
		out[s] = Format(p, s)
	}
	return out
}

func formatAPA(p Paper, authors, link string) string {
	suffix := optional(" ", link, "")
	switch p.Type {
	case TypeArticle, TypeJournal:
		return fmt.Sprintf("%s (%s). %s. *%s*%s%s, %s.%s",
			authors, p.Year, p.Title, p.Source,
			optional(", ", p.Volume, ""), optional("(", p.Issue, ")"), p.Pages, suffix)
	case TypeBook:
		return fmt.Sprintf("%s (%s). *%s*. %s.%s", authors, p.Year, p.Title, or(p.Publisher, p.Source), suffix)
	case TypeConference:
		return fmt.Sprintf("%s (%s). %s. In *%s*%s.%s",
			authors, p.Year, p.Title, p.Source, optional(" (pp. ", p.Pages, ")"), suffix)
	case TypeThesis:
		return fmt.Sprintf("%s (%s). *%s* [Doctoral dissertation, %s].%s",
			authors, p.Year, p.Title, or(p.Institution, p.Source), suffix)
	default:
		return fmt.Sprintf("%s (%s). %s. *%s*.%s", authors, p.Year, p.Title, p.Source, suffix)
	}
}

func formatMLA(p Paper, authors, link string) string {
	suffix := optional(" Web. ", link, "")
	switch p.Type {
	case TypeArticle, TypeJournal, TypeConference:
		return fmt.Sprintf(`%s. "%s." *%s*, %s%s.%s`,
			authors, p.Title, p.Source, p.Year, optional(", pp. ", p.Pages, ""), suffix)
	case TypeBook:
		return fmt.Sprintf("%s. *%s*. %s, %s.%s", authors, p.Title, or(p.Publisher, p.Source), p.Year, suffix)
	default:
		return fmt.Sprintf(`%s. "%s." *%s*, %s.%s`, authors, p.Title, p.Source, p.Year, suffix)
	}
}

func formatChicago(p Paper, authors, link string) string {
	suffix := optional(" ", link, "")
	switch p.Type {
	case TypeArticle, TypeJournal:
		return fmt.Sprintf(`%s. "%s." *%s* (%s)%s.%s`,
			authors, p.Title, p.Source, p.Year, optional(": ", p.Pages, ""), suffix)
	case TypeBook:
		return fmt.Sprintf("%s. *%s*. %s, %s.%s", authors, p.Title, or(p.Publisher, p.Source), p.Year, suffix)
	default:
		return fmt.Sprintf(`%s. "%s." *%s* (%s).%s`, authors, p.Title, p.Source, p.Year, suffix)
	}
}

func formatIEEE(p Paper, authors, link string) string {
	suffix := optional(" [Online]. Available: ", link, "")
	switch p.Type {
	case TypeArticle, TypeJournal:
		return fmt.Sprintf(`%s, "%s," *%s*%s%s%s, %s.%s`,
			authors, p.Title, p.Source,
			optional(", vol. ", p.Volume, ""), optional(", no. ", p.Issue, ""), optional(", pp. ", p.Pages, ""),
			p.Year, suffix)
	case TypeBook:
		return fmt.Sprintf("%s, *%s*. %s, %s.%s", authors, p.Title, or(p.Publisher, p.Source), p.Year, suffix)
	default:
		return fmt.Sprintf(`%s, "%s," *%s*, %s.%s`, authors, p.Title, p.Source, p.Year, suffix)
	}
}

func formatHarvard(p Paper, authors, link string) string {
	suffix := optional(" Available at: ", link, "")
	switch p.Type {
	case TypeArticle, TypeJournal:
		return fmt.Sprintf("%s %s, '%s', *%s*%s%s%s.%s",
			authors, p.Year, p.Title, p.Source,
			optional(", ", p.Volume, ""), optional("(", p.Issue, ")"), optional(", pp. ", p.Pages, ""), suffix)
	case TypeBook:
		return fmt.Sprintf("%s %s, *%s*, %s.%s", authors, p.Year, p.Title, or(p.Publisher, p.Source), suffix)
	default:
		return fmt.Sprintf("%s %s, '%s', *%s*.%s", authors, p.Year, p.Title, p.Source, suffix)
	}
}

// formatAuthors renders a ", "-separated author list for style.
func formatAuthors(list string, style Style) string {
	parts := strings.Split(list, ", ")
	out := make([]string, 0, len(parts))

	for i, author := range parts {
		author = strings.TrimSpace(author)
		names := strings.Split(author, " ")
		if len(names) < 2 {
			out = append(out, author)
			continue
		}
		last := names[len(names)-1]
		first := names[:len(names)-1]

		switch style {
		case StyleMLA:
			if i == 0 {
				out = append(out, last+", "+strings.Join(first, " "))
			} else {
				out = append(out, strings.Join(first, " ")+" "+last)
			}
		case StyleChicago:
			out = append(out, last+", "+strings.Join(first, " "))
		case StyleIEEE:
			out = append(out, initials(first)+" "+last)
		case StyleAPA, StyleHarvard:
			out = append(out, last+", "+initials(first))
		default:
			return list
		}
	}

	switch style {
	case StyleMLA:
		if len(out) > 1 {
			return strings.Join(out, ", and ")
		}
		return strings.Join(out, "")
	case StyleChicago:
		return strings.Join(out, ", and ")
	default:
		return strings.Join(out, ", ")
	}
}

func initials(names []string) string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		r, _ := utf8.DecodeRuneInString(n)
		if r == utf8.RuneError {
			continue
		}
		out = append(out, string(unicode.ToUpper(r))+".")
	}
	return strings.Join(out, " ")
}

// SourceURL returns where the paper can be viewed: its URL, its DOI link, or
// a Google Scholar search for it.
func SourceURL(p Paper) string {
	if p.URL != "" {
		return p.URL
	}
	if p.DOI != "" {
		return "https://doi.org/" + p.DOI
	}
	q := `"` + p.Title + `" ` + p.Authors + " " + p.Year
	return "https://scholar.google.com/scholar?q=" + url.QueryEscape(q)
}

// IsAccessible reports whether the paper can be opened directly.
func IsAccessible(p Paper) bool {
	return p.URL != "" || p.DOI != "" || p.OpenAccess
}

func optional(prefix, value, suffix string) string {
	if value == "" {
		return ""
	}
	return prefix + value + suffix
}

func or(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
