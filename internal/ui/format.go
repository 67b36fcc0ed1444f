package ui

import (
	"fmt"
	"regexp"
	"time"

	"github.com/kmunkitt/skim/internal/bionic"
)

// FormatDate renders a published time relative to now.
func FormatDate(published, now time.Time) string {
	if published.IsZero() {
		return ""
	}
	age := now.Sub(published)
	switch {
	case age < time.Hour:
		return "Just now"
	case age < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(age.Hours()))
	case age < 48*time.Hour:
		return "Yesterday"
	default:
		return published.Format("Jan 2")
	}
}

// numberedRe matches an inline "1. item" continuation mid-sentence.
var numberedRe = regexp.MustCompile(`(\S)\s+(\d+)\.\s`)

// ReflowNumberedLists inserts line breaks before inline numbered list
// entries so "1. x 2. y 3. z" reads as a list.
func ReflowNumberedLists(text string) string {
	return numberedRe.ReplaceAllString(text, "$1\n$2. ")
}

// Bionify applies the reading-aid transform using terminal bold.
func Bionify(text string) string {
	return bionic.Transform(text, func(head string) string {
		return BionicBold.Render(head)
	})
}
