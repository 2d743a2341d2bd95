package services

import (
	"regexp"
	"strings"
)

var (
	trackNumberRe = regexp.MustCompile(`^\d+[.\-\s]+`)
	featRe        = regexp.MustCompile(`(?i)\s*[(\[]?\s*\b(feat\.?|ft\.?|featuring|w/)\s+[^)\]]*[)\]]?`)
	separatorRe   = regexp.MustCompile(`[_\-&.]`)
	bracketsRe    = regexp.MustCompile(`[()\[\]]`)
)

// Query is the cleaned form of a track's tags as sent to the lyrics service.
type Query struct {
	Artist   string
	Title    string
	Album    string
	Stripped string // Title without featured artists; equal to Title when there are none
}

// NewQuery cleans the raw tag values.
func NewQuery(artist, title, album string) Query {
	return Query{
		Artist:   cleanString(artist),
		Title:    cleanString(bracketsRe.ReplaceAllString(title, " ")),
		Album:    cleanString(album),
		Stripped: stripTitle(title),
	}
}

// HasFallback reports whether the stripped title differs from the cleaned one.
func (q Query) HasFallback() bool {
	return q.Stripped != "" && q.Stripped != q.Title
}

// cleanString drops a leading track number, turns separators into spaces, collapses whitespace and lowercases.
func cleanString(s string) string {
	s = trackNumberRe.ReplaceAllString(strings.TrimSpace(s), "")
	s = separatorRe.ReplaceAllString(s, " ")
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// stripTitle removes featured-artist clauses, keeping other bracketed text such as "Live" or "Remix".
func stripTitle(title string) string {
	title = featRe.ReplaceAllString(title, "")
	return cleanString(bracketsRe.ReplaceAllString(title, " "))
}
