package course

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	t.Run("inserts the missing space", func(t *testing.T) {
		assert.Equal(t, "CS 361", Normalize("CS361"))
		assert.Equal(t, "WR 121", Normalize("WR121"))
		assert.Equal(t, "MTH 231", Normalize("MTH231"))
	})

	t.Run("already normalized codes pass through", func(t *testing.T) {
		assert.Equal(t, "CS 361", Normalize("CS 361"))
		assert.Equal(t, "CS 261H", Normalize("CS 261H"))
	})

	t.Run("non-matching inputs are returned unchanged", func(t *testing.T) {
		// Lowercase fails the shape; normalization is best effort, no error.
		assert.Equal(t, "ece271", Normalize("ece271"))
		assert.Equal(t, "CS 36", Normalize("CS 36"))
		assert.Equal(t, "COMPSCI 361", Normalize("COMPSCI 361"))
		assert.Equal(t, "Writing 121", Normalize("Writing 121"))
		assert.Equal(t, "", Normalize(""))
	})

	t.Run("surrounding whitespace is tolerated", func(t *testing.T) {
		assert.Equal(t, "CS 361", Normalize("  CS361  "))
	})
}

func TestMatches(t *testing.T) {
	assert.True(t, Matches("CS 361"))
	assert.True(t, Matches("CS361"))
	assert.True(t, Matches("CS 261H"))
	assert.True(t, Matches("CHEM 121"))
	assert.False(t, Matches("cs 361"))
	assert.False(t, Matches("CS 36"))
	assert.False(t, Matches("Fall 2025"))
	assert.False(t, Matches(""))
}

func TestSplit(t *testing.T) {
	disc, num, ok := Split("CS 361")
	assert.True(t, ok)
	assert.Equal(t, "CS", disc)
	assert.Equal(t, "361", num)

	disc, num, ok = Split("ECE 271")
	assert.True(t, ok)
	assert.Equal(t, "ECE", disc)
	assert.Equal(t, "271", num)

	_, _, ok = Split("not a course")
	assert.False(t, ok)
}
