// Package dictionary builds Longman/Oxford links for a word and scrapes the Longman
// entry page for hyphenation, IPA transcriptions and pronunciation audio URLs.
package dictionary
