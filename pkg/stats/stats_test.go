package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWordCount(t *testing.T) {
	cases := []struct {
		content string
		want    int
	}{
		{"", 0},
		{"   \t\n  ", 0},
		{"a  b", 2},
		{"hello world", 2},
		{"  leading and trailing  ", 3},
		{"line\nbreaks\ncount\ttoo", 4},
		{"ночь кладбища", 2},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, WordCount(tc.content), "content %q", tc.content)
	}
}

func TestCharacterCount(t *testing.T) {
	cases := []struct {
		content string
		want    int
	}{
		{"", 0},
		{"abc", 3},
		{"café", 4},
		// Astral-plane emoji are two UTF-16 code units, like JS String.length.
		{"🦇", 2},
		{"a🦇b", 4},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CharacterCount(tc.content), "content %q", tc.content)
	}
}

func TestReadingTime(t *testing.T) {
	cases := []struct {
		words int
		want  int
	}{
		{0, 0},
		{1, 1},
		{199, 1},
		{200, 1},
		{201, 2},
		{1000, 5},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ReadingTime(tc.words), "words %d", tc.words)
	}
}

func TestWordGoalProgress(t *testing.T) {
	goal := func(n int) *int { return &n }

	assert.Equal(t, 0.0, WordGoalProgress(500, nil))
	assert.Equal(t, 0.0, WordGoalProgress(500, goal(0)))
	assert.Equal(t, 0.0, WordGoalProgress(500, goal(-10)))
	assert.Equal(t, 50.0, WordGoalProgress(500, goal(1000)))
	assert.Equal(t, 100.0, WordGoalProgress(1000, goal(1000)))
	assert.Equal(t, 100.0, WordGoalProgress(1500, goal(1000)))
	assert.Equal(t, 0.0, WordGoalProgress(-5, goal(1000)))
}

func TestTopWords(t *testing.T) {
	content := "The night was dark. The night was long. Ravens circled the night."

	got := TopWords(content, 2)
	require.Len(t, got, 2)
	assert.Equal(t, WordFreq{Word: "night", Count: 3}, got[0])
	// "was", "the" are stopwords; "dark"/"long"/"ravens"/"circled" tie
	// at one and break alphabetically.
	assert.Equal(t, WordFreq{Word: "circled", Count: 1}, got[1])
}

func TestTopWordsEmpty(t *testing.T) {
	assert.Empty(t, TopWords("", 5))
	assert.Empty(t, TopWords("the and of a", 5))
	assert.Nil(t, TopWords("words here", 0))
}

func TestPhraseCounter(t *testing.T) {
	pc, err := NewPhraseCounter([]string{"suddenly", "in the darkness"})
	require.NoError(t, err)

	got := pc.Count("Suddenly, a noise. In the darkness it waited; suddenly it moved.")
	assert.Equal(t, 2, got["suddenly"])
	assert.Equal(t, 1, got["in the darkness"])
}

func TestPhraseCounterWordBoundaries(t *testing.T) {
	pc, err := NewPhraseCounter([]string{"very"})
	require.NoError(t, err)

	got := pc.Count("every very everything")
	assert.Equal(t, 1, got["very"])
}

func TestPhraseCounterEmpty(t *testing.T) {
	pc, err := NewPhraseCounter(nil)
	require.NoError(t, err)
	assert.Empty(t, pc.Count("anything at all"))

	pc, err = NewPhraseCounter([]string{"", "  ", "!!!"})
	require.NoError(t, err)
	assert.Empty(t, pc.Count("still nothing to match"))
}

func TestPhraseCounterZeroCountsListed(t *testing.T) {
	pc, err := NewPhraseCounter([]string{"banshee"})
	require.NoError(t, err)

	got := pc.Count("no match here")
	require.Contains(t, got, "banshee")
	assert.Equal(t, 0, got["banshee"])
}
