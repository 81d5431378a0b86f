package dictionary

import "strings"

// Default dictionary hosts.
const (
	DefaultLongmanBaseURL = "https://www.ldoceonline.com"
	DefaultOxfordBaseURL  = "https://www.oxfordlearnersdictionaries.com"
)

// Slug lowercases the word and replaces spaces with hyphens. Nothing else is escaped.
func Slug(word string) string {
	return strings.ReplaceAll(strings.ToLower(word), " ", "-")
}

// LinkBuilder maps words to dictionary entry URLs.
type LinkBuilder struct {
	LongmanBase string
	OxfordBase  string
}

// NewLinkBuilder returns a LinkBuilder, using the public hosts for empty bases.
func NewLinkBuilder(longmanBase, oxfordBase string) LinkBuilder {
	if longmanBase == "" {
		longmanBase = DefaultLongmanBaseURL
	}
	if oxfordBase == "" {
		oxfordBase = DefaultOxfordBaseURL
	}
	return LinkBuilder{
		LongmanBase: strings.TrimRight(longmanBase, "/"),
		OxfordBase:  strings.TrimRight(oxfordBase, "/"),
	}
}

// Longman returns the Longman entry URL for word.
func (b LinkBuilder) Longman(word string) string {
	return b.LongmanBase + "/dictionary/" + Slug(word)
}

// Oxford returns the Oxford Learner's entry URL for word.
func (b LinkBuilder) Oxford(word string) string {
	return b.OxfordBase + "/definition/english/" + Slug(word)
}

// Build returns both links for word.
func (b LinkBuilder) Build(word string) Links {
	return Links{
		Longman: b.Longman(word),
		Oxford:  b.Oxford(word),
	}
}
