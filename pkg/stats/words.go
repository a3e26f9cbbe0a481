package stats

import (
	"sort"
	"strings"
	"unicode"

	"github.com/orsinium-labs/stopwords"
)

// english backs TopWords. MustGet only panics for unknown languages,
// which "en" is not.
var english = stopwords.MustGet("en")

// WordFreq is one row of the stats panel's most-used-words list.
type WordFreq struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// TopWords returns the n most frequent non-stopword tokens in content,
// lowercased and stripped of surrounding punctuation. Ties break
// alphabetically so the panel is stable across renders.
func TopWords(content string, n int) []WordFreq {
	if n <= 0 {
		return nil
	}

	counts := make(map[string]int)
	for _, tok := range strings.Fields(strings.ToLower(content)) {
		tok = strings.TrimFunc(tok, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if tok == "" || english.Contains(tok) {
			continue
		}
		counts[tok]++
	}

	out := make([]WordFreq, 0, len(counts))
	for w, c := range counts {
		out = append(out, WordFreq{Word: w, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})

	if len(out) > n {
		out = out[:n]
	}
	return out
}
