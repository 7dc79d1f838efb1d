package lobby

import (
	"strings"
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestNewCode(t *testing.T) {
	for range 200 {
		code := NewCode()
		testutil.AssertEqual(t, "length", len(code), CodeLength)
		for _, c := range code {
			if !strings.ContainsRune(CodeAlphabet, c) {
				t.Fatalf("code %q has %q outside the alphabet", code, c)
			}
		}
	}
}

func TestNormalizeCode(t *testing.T) {
	tests := map[string]struct {
		code string
		exp  string
	}{
		"upper":  {code: "ABCD", exp: "ABCD"},
		"lower":  {code: "abcd", exp: "ABCD"},
		"spaced": {code: "  aB2d ", exp: "AB2D"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "code", NormalizeCode(tt.code), tt.exp)
		})
	}
}

func TestNormalizeName(t *testing.T) {
	tests := map[string]struct {
		name string
		exp  string
	}{
		"plain":     {name: "Ann", exp: "Ann"},
		"trimmed":   {name: "  Ann \t", exp: "Ann"},
		"empty":     {name: "", exp: DefaultName},
		"blank":     {name: "   ", exp: DefaultName},
		"too long":  {name: "abcdefghijklmnopqrstuvwxyz", exp: "abcdefghijklmnop"},
		"multibyte": {name: "ééééééééééééééééééé", exp: "éééééééééééééééé"},
		"cut space": {name: "abcdefghijklmno pq", exp: "abcdefghijklmno"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "name", NormalizeName(tt.name), tt.exp)
		})
	}
}
