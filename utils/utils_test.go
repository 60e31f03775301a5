package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeneratePromoCode(t *testing.T) {
	code := GeneratePromoCode()

	assert.True(t, strings.HasPrefix(code, "FB-"))
	assert.Len(t, code, 15)
	assert.Equal(t, code, strings.ToUpper(code))

	other := GeneratePromoCode()
	assert.NotEqual(t, code, other)
}

func TestNormalizePromoCode(t *testing.T) {
	assert.Equal(t, "FB-ABC123", NormalizePromoCode("  fb-abc123 "))
	assert.Equal(t, "", NormalizePromoCode("   "))
}
