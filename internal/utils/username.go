package utils

import (
	"fmt"
	"math/rand"
	"strings"
	"unicode"
)

// BuildBaseUsername normalizes a full name into a lowercase alphanumeric
// username base. Falls back to a random userNNNN handle when nothing of the
// name survives normalization.
func BuildBaseUsername(fullName string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(fullName) {
		if unicode.IsLower(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}

	if b.Len() == 0 {
		return fmt.Sprintf("user%d", rand.Intn(10000))
	}

	return b.String()
}
