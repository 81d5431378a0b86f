package pronounce

import (
	"fmt"
	"strings"

	"github.com/akramEbadiDme/akinglish-bot/internal/dictionary"
)

func linksMessage(l lookup) string {
	return fmt.Sprintf("Word: %s\n\n📚 Longman: %s\n\n📖 Oxford: %s", l.word, l.links.Longman, l.links.Oxford)
}

// phoneticsMessage lists whichever fields were found, one per line.
func phoneticsMessage(l lookup) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Word: %s", l.word)
	if l.phonetics.Hyphenation != "" {
		fmt.Fprintf(&b, "\n🔸 %s", l.phonetics.Hyphenation)
	}
	if l.phonetics.British != "" {
		fmt.Fprintf(&b, "\n🇬🇧 BrE: /%s/", l.phonetics.British)
	}
	if l.phonetics.American != "" {
		fmt.Fprintf(&b, "\n🇺🇸 AmE: /%s/", l.phonetics.American)
	}
	return b.String()
}

func caption(l lookup, accent dictionary.Accent) string {
	c := fmt.Sprintf("🔉 %s (%s)", accent.Title(), l.word)
	if ipa := l.phonetics.IPA(accent); ipa != "" {
		c += "\n💡 " + ipa
	}
	return c
}

const noPronunciationMessage = "⚠️ No Longman pronunciation was found for this word."

func accentMissingMessage(accent dictionary.Accent) string {
	return fmt.Sprintf("⚠️ The %s pronunciation of this word is not available on Longman.", accent)
}

func downloadFailedMessage(l lookup, accent dictionary.Accent) string {
	return fmt.Sprintf("⚠️ The %s pronunciation for '%s' was not found or could not be downloaded.", accent, l.word)
}

func accentErrorMessage(accent dictionary.Accent, err error) string {
	return fmt.Sprintf("❌ Failed to download the %s pronunciation: %v", accent, err)
}
