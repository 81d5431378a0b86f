package dictionary

import (
	"net/http"
	"strings"
)

// Accent identifies one of the two pronunciation dialects Longman publishes.
type Accent string

// Accent values double as the AudioMap keys.
const (
	AccentBritish  Accent = "british"
	AccentAmerican Accent = "american"
)

// Accents lists every tracked accent in delivery order.
var Accents = []Accent{AccentBritish, AccentAmerican}

// Title returns the accent name with its first letter upper-cased.
func (a Accent) Title() string {
	if a == "" {
		return ""
	}
	return strings.ToUpper(string(a[:1])) + string(a[1:])
}

// Links holds the dictionary URLs built for a word.
type Links struct {
	Longman string
	Oxford  string
}

// Phonetics is what the Longman page says about how a word is written and said.
// An empty field means the page did not carry it.
type Phonetics struct {
	Hyphenation string
	British     string
	American    string
}

// Empty reports whether no field was found.
func (p Phonetics) Empty() bool {
	return p.Hyphenation == "" && p.British == "" && p.American == ""
}

// IPA returns the transcription for the accent, or "" when absent or unknown.
func (p Phonetics) IPA(accent Accent) string {
	switch accent {
	case AccentBritish:
		return p.British
	case AccentAmerican:
		return p.American
	default:
		return ""
	}
}

// AudioMap maps an accent to the remote mp3 URL of its pronunciation.
// A missing key means the page has no audio for that accent.
type AudioMap map[Accent]string

// Page is a fetched HTTP resource, either an HTML entry page or an audio file.
type Page struct {
	URL        string
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// ContentType returns the response Content-Type header, if any.
func (p Page) ContentType() string {
	if p.Headers == nil {
		return ""
	}
	return p.Headers.Get("Content-Type")
}
