package answer

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Separator splits accepted alternatives inside a correct value. An answer that
// legitimately contains an underscore cannot be told apart from two alternatives.
const Separator = "_"

// Judge reports whether userInput matches correctValue after trimming and
// lowercasing both. When correctValue contains Separator, any alternative matches.
func Judge(userInput, correctValue string) bool {
	input := normalize(userInput)
	for _, alt := range Alternatives(correctValue) {
		if input == alt {
			return true
		}
	}
	return false
}

// Alternatives returns the normalized accepted values of correctValue.
func Alternatives(correctValue string) []string {
	correct := normalize(correctValue)
	if !strings.Contains(correct, Separator) {
		return []string{correct}
	}
	parts := strings.Split(correct, Separator)
	for i, p := range parts {
		parts[i] = normalize(p)
	}
	return parts
}

func normalize(s string) string {
	// Casers keep state, so one per call.
	return cases.Lower(language.Und).String(strings.TrimSpace(s))
}
