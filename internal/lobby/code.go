package lobby

import (
	"crypto/rand"
	"math/big"
	"strings"
	"unicode/utf8"
)

const (
	// CodeAlphabet leaves out characters that are easy to misread: I, O, 0 and 1.
	CodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	CodeLength   = 4

	MaxNameLength = 16
	DefaultName   = "Player"
)

// NewCode returns a random room code drawn from CodeAlphabet.
func NewCode() string {
	b := make([]byte, CodeLength)
	max := big.NewInt(int64(len(CodeAlphabet)))
	for i := range b {
		idx, _ := rand.Int(rand.Reader, max)
		b[i] = CodeAlphabet[idx.Int64()]
	}
	return string(b)
}

// NormalizeCode makes user-typed codes match generated ones.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// NormalizeName trims a display name and caps its length, falling back to DefaultName.
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultName
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		name = strings.TrimSpace(string([]rune(name)[:MaxNameLength]))
	}
	return name
}
