package knowledge

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

var phrasePatterns = []*regexp.Regexp{
	// Capitalized multi-word phrases.
	regexp.MustCompile(`\b(?:[A-Z][a-z]+\s+){1,3}[A-Z][a-z]+\b`),
	// Technical measurements.
	regexp.MustCompile(`\b\d+\s*(?:PSI|RPM|GPM|CFM|Hz|mm|cm|inch|ft)\b`),
	// Technical codes.
	regexp.MustCompile(`\b[A-Z]{2,}-\d+\b`),
}

// ExtractKeyPhrases collects candidate phrases, scores them by length and
// capitalization, and keeps the top maxPhrases. Ties break on the phrase
// text so the ranking is stable.
func ExtractKeyPhrases(text string, maxPhrases int) []Phrase {
	seen := make(map[string]struct{})
	var phrases []Phrase

	for _, re := range phrasePatterns {
		for _, match := range re.FindAllString(text, -1) {
			if _, ok := seen[match]; ok {
				continue
			}
			seen[match] = struct{}{}
			phrases = append(phrases, Phrase{
				Text:  match,
				Score: scorePhrase(match),
			})
		}
	}

	sort.Slice(phrases, func(i, j int) bool {
		if phrases[i].Score != phrases[j].Score {
			return phrases[i].Score > phrases[j].Score
		}
		return phrases[i].Text < phrases[j].Text
	})

	if len(phrases) > maxPhrases {
		phrases = phrases[:maxPhrases]
	}
	return phrases
}

func scorePhrase(phrase string) float64 {
	score := float64(len(strings.Fields(phrase))) * 0.3
	r := []rune(phrase)
	if len(r) > 0 && unicode.IsUpper(r[0]) {
		score += 1.0
	} else {
		score += 0.5
	}
	return score
}
