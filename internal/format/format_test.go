package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "0", FormatAmount(0))
	assert.Equal(t, "999", FormatAmount(999))
	assert.Equal(t, "12,000", FormatAmount(12000))
	assert.Equal(t, "4,000,000", FormatAmount(4000000))
}

func TestParseAmount(t *testing.T) {
	t.Run("should parse plain digits", func(t *testing.T) {
		n, err := ParseAmount("12000")
		assert.NoError(t, err)
		assert.Equal(t, int64(12000), n)
	})

	t.Run("should parse grouped digits", func(t *testing.T) {
		n, err := ParseAmount("4,000,000")
		assert.NoError(t, err)
		assert.Equal(t, int64(4000000), n)
	})

	t.Run("should trim surrounding whitespace", func(t *testing.T) {
		n, err := ParseAmount(" 350,000 ")
		assert.NoError(t, err)
		assert.Equal(t, int64(350000), n)
	})

	t.Run("should reject empty input", func(t *testing.T) {
		_, err := ParseAmount("  ")
		assert.Error(t, err)
	})

	t.Run("should reject non-numeric input", func(t *testing.T) {
		_, err := ParseAmount("12.5만")
		assert.Error(t, err)
	})
}
