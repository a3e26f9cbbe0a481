package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	Name   string   `json:"name"`
	Folder *string  `json:"folder"`
	Tags   []string `json:"tags"`
	Count  int      `json:"count"`
}

func TestAdapterRoundTrip(t *testing.T) {
	folder := "crypts"
	cases := []struct {
		name  string
		value fixture
	}{
		{"empty strings and nil pointer", fixture{Name: "", Folder: nil, Tags: []string{}}},
		{"unicode", fixture{Name: "café 🦇 墓地", Folder: &folder, Tags: []string{"ночь", ""}, Count: 13}},
		{"duplicate tags", fixture{Name: "d", Tags: []string{"a", "a", "a"}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := NewAdapter(NewMemoryBackend(), nil)

			require.NoError(t, a.Save("k", tc.value))

			var got fixture
			found, err := a.Load("k", &got)
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, tc.value, got)
		})
	}
}

func TestAdapterLoadAbsent(t *testing.T) {
	a := NewAdapter(NewMemoryBackend(), nil)

	var got fixture
	found, err := a.Load("never-written", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestAdapterLoadCorrupt(t *testing.T) {
	b := NewMemoryBackend()
	require.NoError(t, b.Set("k", "{not json"))

	a := NewAdapter(b, nil)

	// Corruption is "nothing was there", never an error.
	var got fixture
	found, err := a.Load("k", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestAdapterDeleteIdempotent(t *testing.T) {
	a := NewAdapter(NewMemoryBackend(), nil)

	require.NoError(t, a.Save("k", fixture{Name: "x"}))
	require.NoError(t, a.Delete("k"))
	require.NoError(t, a.Delete("k"))

	var got fixture
	found, err := a.Load("k", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestAdapterIsAvailable(t *testing.T) {
	b := NewMemoryBackend()
	a := NewAdapter(b, nil)
	assert.True(t, a.IsAvailable())

	b.SetBroken(true)
	assert.False(t, a.IsAvailable())

	b.SetBroken(false)
	assert.True(t, a.IsAvailable())

	// The probe must not leave residue behind.
	assert.Equal(t, 0, b.Len())
}

func TestMemoryBackendQuota(t *testing.T) {
	b := NewMemoryBackend()
	b.SetQuota(32)

	require.NoError(t, b.Set("small", "value"))

	err := b.Set("big", "this payload does not fit in the budget")
	require.ErrorIs(t, err, ErrQuotaExceeded)

	// The prior value survives a failed write.
	v, ok, err := b.Get("small")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "value", v)

	// Overwriting within budget still works.
	require.NoError(t, b.Set("small", "other"))
}

func TestMemoryBackendBroken(t *testing.T) {
	b := NewMemoryBackend()
	b.SetBroken(true)

	require.ErrorIs(t, b.Set("k", "v"), ErrUnavailable)
	_, _, err := b.Get("k")
	require.ErrorIs(t, err, ErrUnavailable)
	require.ErrorIs(t, b.Remove("k"), ErrUnavailable)
}
