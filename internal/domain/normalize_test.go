package domain

import (
	"strings"
	"testing"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain text unchanged", "hello world", "hello world"},
		{"nul bytes removed", "he\x00llo\x00", "hello"},
		{"only nul bytes", "\x00\x00", ""},
		{"invalid utf8 dropped", "ab\xffcd", "abcd"},
		{"multibyte preserved", "cláusula três", "cláusula três"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeText(tt.in)
			if got != tt.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if strings.ContainsRune(got, 0) {
				t.Errorf("NormalizeText(%q) still contains NUL bytes", tt.in)
			}
		})
	}
}

func TestNormalizeTextIdempotent(t *testing.T) {
	inputs := []string{"", "plain", "a\x00b", "bad\xfe\xffutf8", "café"}
	for _, in := range inputs {
		once := NormalizeText(in)
		twice := NormalizeText(once)
		if once != twice {
			t.Errorf("NormalizeText not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}
