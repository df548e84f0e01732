package domain

import "strings"

// NormalizeText strips embedded NUL bytes and invalid UTF-8 sequences from
// extracted document text. Idempotent; empty input is returned unchanged.
func NormalizeText(s string) string {
	if s == "" {
		return s
	}
	s = strings.ReplaceAll(s, "\x00", "")
	return strings.ToValidUTF8(s, "")
}
