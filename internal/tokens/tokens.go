// Package tokens estimates prompt sizes and trims filler from prompts
// before they are sent to a model.
package tokens

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Normalize returns s in NFC form with surrounding space removed. Hangul
// typed on some keyboards arrives decomposed; counting and keyword checks
// run on the composed form.
func Normalize(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

// Estimate approximates the token count of s: one token per Hangul
// syllable and roughly four characters per token for everything else.
func Estimate(s string) int {
	s = norm.NFC.String(s)
	if s == "" {
		return 0
	}

	hangul, other := 0, 0
	for _, r := range s {
		if unicode.Is(unicode.Hangul, r) {
			hangul++
		} else {
			other++
		}
	}
	return hangul + (other+3)/4
}

var (
	spaceRun   = regexp.MustCompile(`[ \t]+`)
	blankLines = regexp.MustCompile(`\n{3,}`)
	fillers    = regexp.MustCompile(`(?i)\b(please|kindly|just|basically|actually|really)\b\s*|(혹시|정말|그냥|좀)\s+`)
)

// Compress removes filler words and redundant whitespace. The result keeps
// the prompt's meaning and is never longer than the input.
func Compress(s string) string {
	s = Normalize(s)
	s = fillers.ReplaceAllString(s, "")
	s = spaceRun.ReplaceAllString(s, " ")
	s = blankLines.ReplaceAllString(s, "\n\n")

	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// Savings reports how many estimated tokens Compress saves on s.
func Savings(s string) (original, compressed int) {
	return Estimate(s), Estimate(Compress(s))
}

// IsBlank reports whether s has no visible characters.
func IsBlank(s string) bool {
	return utf8.RuneCountInString(Normalize(s)) == 0
}
