// Package keyword turns raw semicolon-delimited keyword fields into normalized tokens.
package keyword

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Separator delimits keywords inside a raw keyword field.
const Separator = ";"

// Normalizer converts raw keyword fields into normalized tokens.
// The zero value trims and lower-cases only.
type Normalizer struct {
	// NFKC applies Unicode compatibility folding before lower-casing,
	// so full-width and ASCII spellings collapse into one token.
	NFKC bool
}

// Normalize splits a raw keyword field with the default Normalizer.
func Normalize(raw string) []string {
	return Normalizer{}.Normalize(raw)
}

// Normalize splits raw on ";", trims and lower-cases each fragment, and drops
// fragments that are empty after trimming. Order is first-seen order and
// duplicates are kept.
func (n Normalizer) Normalize(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, Separator)
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if tok := n.token(p); tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// Field normalizes a keyword field of unknown type. Absent values and values
// that are not strings contribute no tokens.
func (n Normalizer) Field(v any) []string {
	switch s := v.(type) {
	case string:
		return n.Normalize(s)
	case *string:
		if s == nil {
			return nil
		}
		return n.Normalize(*s)
	default:
		return nil
	}
}

// Token normalizes a single keyword fragment. It returns "" for blank input.
func (n Normalizer) Token(s string) string {
	return n.token(s)
}

func (n Normalizer) token(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if n.NFKC {
		s = strings.TrimSpace(norm.NFKC.String(s))
	}
	return strings.ToLower(s)
}

// Dedupe returns tokens with repeated values removed, keeping first occurrences.
func Dedupe(tokens []string) []string {
	if len(tokens) < 2 {
		return tokens
	}
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Contains reports whether tokens includes kw.
func Contains(tokens []string, kw string) bool {
	for _, t := range tokens {
		if t == kw {
			return true
		}
	}
	return false
}

// Tokens normalizes a list of user-supplied keywords, dropping blanks and
// repeats.
func (n Normalizer) Tokens(list []string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		if kw := n.token(s); kw != "" {
			out = append(out, kw)
		}
	}
	return Dedupe(out)
}
