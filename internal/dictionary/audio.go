package dictionary

import "strings"

// Path fragments Longman uses in its pronunciation mp3 URLs.
const (
	britishAudioMarker  = "breProns"
	americanAudioMarker = "ameProns"
)

// ExtractAudio collects pronunciation mp3 URLs from every speaker element.
// URLs matching neither accent marker are ignored; the last match per accent wins.
func ExtractAudio(doc Document) AudioMap {
	audio := AudioMap{}
	for _, node := range doc.FindAllByClass(tagSpan, classSpeaker) {
		src, ok := node.Attr(attrSourceMP3)
		if !ok {
			continue
		}
		switch {
		case strings.Contains(src, britishAudioMarker):
			audio[AccentBritish] = src
		case strings.Contains(src, americanAudioMarker):
			audio[AccentAmerican] = src
		}
	}
	return audio
}
