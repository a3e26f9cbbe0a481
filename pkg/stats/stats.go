// Package stats derives display statistics from document content.
// Everything here is a pure function; the UI panels recompute on render
// and the store calls WordCount when freezing snapshots.
package stats

import (
	"strings"
)

// wordsPerMinute is the reading-speed assumption behind ReadingTime.
const wordsPerMinute = 200

// WordCount counts whitespace-separated tokens. Empty or
// whitespace-only content counts zero.
func WordCount(content string) int {
	return len(strings.Fields(content))
}

// CharacterCount returns the length in UTF-16 code units, matching the
// String.length the JS side of the editor displays. Astral-plane
// characters such as emoji count as two units on purpose.
func CharacterCount(content string) int {
	n := 0
	for _, r := range content {
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}
	return n
}

// ReadingTime estimates minutes to read, rounded up. Zero words reads
// in zero minutes.
func ReadingTime(words int) int {
	if words <= 0 {
		return 0
	}
	return (words + wordsPerMinute - 1) / wordsPerMinute
}

// WordGoalProgress reports progress toward a word goal as a percentage
// clamped to [0, 100]. A nil or non-positive goal reads as zero.
func WordGoalProgress(words int, goal *int) float64 {
	if goal == nil || *goal <= 0 {
		return 0
	}
	p := float64(words) / float64(*goal) * 100
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
