package dictionary

import "strings"

// Longman markup the extractors rely on.
const (
	classHyphenation = "HYPHENATION"
	classPron        = "PRON"
	classAmeVarPron  = "AMEVARPRON"
	classSpeaker     = "speaker"
	attrSourceMP3    = "data-src-mp3"
	tagSpan          = "span"
)

// ExtractPhonetics reads hyphenation and both IPA transcriptions from an entry page.
// The first matching element of each kind wins.
func ExtractPhonetics(doc Document) Phonetics {
	var p Phonetics
	if node, ok := doc.FindFirstByClass(tagSpan, classHyphenation); ok {
		p.Hyphenation = strings.TrimSpace(node.Text())
	}
	if node, ok := doc.FindFirstByClass(tagSpan, classPron); ok {
		p.British = strings.TrimSpace(node.Text())
	}
	if node, ok := doc.FindFirstByClass(tagSpan, classAmeVarPron); ok {
		p.American = cleanAmericanIPA(node.SpacedText())
	}
	return p
}

// cleanAmericanIPA drops the "$" variant marker Longman puts around American forms.
func cleanAmericanIPA(text string) string {
	return strings.TrimSpace(strings.ReplaceAll(text, "$", ""))
}
