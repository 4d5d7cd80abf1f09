package topic

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Listicle(t *testing.T) {
	spec, err := Parse("12 cozy ideas", DefaultItemCount)
	require.NoError(t, err)

	assert.True(t, spec.IsListicle)
	assert.Equal(t, 12, spec.ItemCount)
	assert.Equal(t, "cozy ideas", spec.CleanTopic)
	assert.Equal(t, "12 cozy ideas", spec.RawTopic)
}

func TestParse_NotListicle(t *testing.T) {
	for _, raw := range []string{"cozy ideas", "cozy living room ideas", "ideas for 2025"} {
		spec, err := Parse(raw, 7)
		require.NoError(t, err)
		assert.False(t, spec.IsListicle, raw)
		assert.Equal(t, 7, spec.ItemCount, raw)
		assert.Equal(t, raw, spec.CleanTopic, raw)
	}
}

func TestParse_StripsWhitespace(t *testing.T) {
	spec, err := Parse("  5   best desk lamps  ", DefaultItemCount)
	require.NoError(t, err)

	assert.Equal(t, 5, spec.ItemCount)
	assert.Equal(t, "best desk lamps", spec.CleanTopic)
	assert.False(t, strings.HasPrefix(spec.CleanTopic, "5"))
}

func TestParse_InvalidInput(t *testing.T) {
	for _, raw := range []string{"", "   ", "\n\t"} {
		_, err := Parse(raw, DefaultItemCount)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestParse_NoUpperBound(t *testing.T) {
	spec, err := Parse("250 tiny habits", DefaultItemCount)
	require.NoError(t, err)
	assert.Equal(t, 250, spec.ItemCount)
}

func TestParse_ZeroCount(t *testing.T) {
	spec, err := Parse("0 reasons to wait", DefaultItemCount)
	require.NoError(t, err)
	assert.True(t, spec.IsListicle)
	assert.Equal(t, 0, spec.ItemCount)
}

func TestSpecSlug(t *testing.T) {
	spec, err := Parse("5 best desk lamps", DefaultItemCount)
	require.NoError(t, err)
	assert.Equal(t, "best-desk-lamps", spec.Slug())

	spec, err = Parse("42", DefaultItemCount)
	require.NoError(t, err)
	assert.Equal(t, "42", spec.Slug())
}

func TestSpecFirstToken(t *testing.T) {
	spec, err := Parse("7 Cozy, warm ideas", DefaultItemCount)
	require.NoError(t, err)
	assert.Equal(t, "cozy", spec.FirstToken())
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Hello World", "hello-world"},
		{"  --Leading and trailing--  ", "leading-and-trailing"},
		{"Go: the   good parts!!", "go-the-good-parts"},
		{"5 best desk lamps", "5-best-desk-lamps"},
		{"already-a-slug", "already-a-slug"},
		{"Ünïcödé café", "n-c-d-caf"},
		{"!!!", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, Slugify(tt.input), tt.input)
	}
}

func TestSlugify_Idempotent(t *testing.T) {
	inputs := []string{
		"Hello World", "--a--b--", "  x  ", "Ünïcödé café", "10 Tips & Tricks (2024)",
		"a__b..c", "-", "", "UPPER lower 123",
	}
	for _, in := range inputs {
		once := Slugify(in)
		assert.Equal(t, once, Slugify(once), in)
		assert.False(t, strings.HasPrefix(once, "-"), in)
		assert.False(t, strings.HasSuffix(once, "-"), in)
		assert.NotContains(t, once, "--", in)
	}
}
