// Package bionic implements the reading-aid text transform: the leading
// portion of each word is emphasized to guide the eye.
package bionic

import "regexp"

var wordRe = regexp.MustCompile(`[a-zA-Z]+`)

// BoldLength returns how many leading characters of a word of the given
// length get the emphasis. Ratios tuned for readability.
func BoldLength(wordLen int) int {
	switch {
	case wordLen <= 3:
		return 1
	case wordLen <= 4:
		return 2
	default:
		return (wordLen*2 + 4) / 5 // ceil(len * 0.4)
	}
}

// Transform applies the emphasis function to the leading portion of every
// ASCII word in text. The emphasis is caller-supplied so the core stays
// independent of any markup or styling scheme.
func Transform(text string, emphasize func(string) string) string {
	if text == "" {
		return ""
	}
	return wordRe.ReplaceAllStringFunc(text, func(word string) string {
		n := BoldLength(len(word))
		return emphasize(word[:n]) + word[n:]
	})
}
