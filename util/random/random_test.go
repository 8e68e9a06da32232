package random

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		token := Token()
		assert.False(t, seen[token], "token collision")
		seen[token] = true
	}
}

func TestTokenURLSafe(t *testing.T) {
	for i := 0; i < 100; i++ {
		token := Token()
		assert.NotEmpty(t, token)
		assert.False(t, strings.ContainsAny(token, "+/= "), "token %q not URL safe", token)
	}
}

func TestSeq(t *testing.T) {
	s := Seq(32)
	assert.Len(t, s, 32)
	for _, r := range s {
		ok := (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		assert.True(t, ok, "unexpected rune %q", r)
	}
}
