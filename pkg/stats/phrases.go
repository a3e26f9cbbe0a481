package stats

import (
	"strings"
	"unicode"

	"github.com/coregx/ahocorasick"
)

// PhraseCounter counts occurrences of configured phrases in content.
// It backs the crutch-word panel: the writer lists phrases they lean on
// ("suddenly", "in the darkness") and the editor tallies them.
//
// Patterns and text are canonicalized the same way so matching is
// case-insensitive and tolerant of punctuation between words.
type PhraseCounter struct {
	ac      *ahocorasick.Automaton
	phrases []string // original phrase per pattern index
}

// NewPhraseCounter compiles the phrase list into a single automaton.
// Phrases that canonicalize to nothing are dropped.
func NewPhraseCounter(phrases []string) (*PhraseCounter, error) {
	c := &PhraseCounter{}

	patterns := make([]string, 0, len(phrases))
	for _, p := range phrases {
		key := canonicalize(p)
		if key == "" {
			continue
		}
		patterns = append(patterns, key)
		c.phrases = append(c.phrases, p)
	}
	if len(patterns) == 0 {
		return c, nil
	}

	automaton, err := ahocorasick.NewBuilder().
		AddStrings(patterns).
		SetMatchKind(ahocorasick.LeftmostLongest).
		SetPrefilter(true).
		Build()
	if err != nil {
		return nil, err
	}
	c.ac = automaton

	return c, nil
}

// Count scans content and returns a tally per original phrase. Every
// configured phrase appears in the result, zero-count included.
// Matches must sit on word boundaries: "very" inside "every" does not count.
func (c *PhraseCounter) Count(content string) map[string]int {
	out := make(map[string]int, len(c.phrases))
	for _, p := range c.phrases {
		out[p] = 0
	}
	if c.ac == nil {
		return out
	}

	canon := canonicalize(content)
	haystack := []byte(canon)

	for _, m := range c.ac.FindAllOverlapping(haystack) {
		if m.Start > 0 && canon[m.Start-1] != ' ' {
			continue
		}
		if m.End < len(canon) && canon[m.End] != ' ' {
			continue
		}
		out[c.phrases[m.PatternID]]++
	}
	return out
}

// canonicalize folds text for matching: lowercase, keep letters, digits,
// apostrophes and hyphens, collapse everything else into single spaces.
func canonicalize(s string) string {
	var out strings.Builder
	out.Grow(len(s))

	lastWasSpace := true
	for _, ch := range s {
		c := unicode.ToLower(ch)
		switch c {
		case '’', '‘':
			c = '\''
		case '–', '—':
			c = '-'
		}

		if unicode.IsLetter(c) || unicode.IsDigit(c) || c == '\'' || c == '-' {
			out.WriteRune(c)
			lastWasSpace = false
			continue
		}
		if !lastWasSpace {
			out.WriteByte(' ')
			lastWasSpace = true
		}
	}

	return strings.TrimRight(out.String(), " ")
}
