package service

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// MinFragmentLength is the shortest fragment, in runes, the fragments tier
// searches for.
const MinFragmentLength = 2

// Tokenize splits a query on whitespace into NFC-normalised tokens. Case is
// left to the database; tokens differing only in case are kept once, in the
// form first seen.
func Tokenize(query string) []string {
	fold := cases.Fold()
	fields := strings.Fields(norm.NFC.String(query))

	tokens := make([]string, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		key := fold.String(f)
		if seen[key] {
			continue
		}
		seen[key] = true
		tokens = append(tokens, f)
	}

	return tokens
}

// SplitToken cuts a token at its rune midpoint. For odd lengths the first
// half is the shorter one.
func SplitToken(token string) (first, second string) {
	runes := []rune(token)
	mid := len(runes) / 2
	return string(runes[:mid]), string(runes[mid:])
}

// Fragments halves every token and flattens the halves, dropping fragments
// shorter than MinFragmentLength and case-insensitive duplicates.
func Fragments(tokens []string) []string {
	fold := cases.Fold()
	fragments := make([]string, 0, len(tokens)*2)
	seen := make(map[string]bool, len(tokens)*2)

	for _, tok := range tokens {
		first, second := SplitToken(tok)
		for _, frag := range []string{first, second} {
			key := fold.String(frag)
			if utf8.RuneCountInString(frag) < MinFragmentLength || seen[key] {
				continue
			}
			seen[key] = true
			fragments = append(fragments, frag)
		}
	}

	return fragments
}
