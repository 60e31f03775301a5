package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GeneratePromoCode builds a redeemable code like "FB-9F86D081A3C4".
func GeneratePromoCode() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "FB-" + raw[:12]
}

// NormalizePromoCode upper-cases and trims a user-supplied code.
func NormalizePromoCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
