package service

import (
	"strings"
	"testing"
	"unicode"
	"unicode/utf8"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"Phone", "CASE"}, Tokenize("  Phone\tCASE \n"))
	assert.Equal(t, []string{"phone"}, Tokenize("phone PHONE phone"))
	assert.Empty(t, Tokenize("   "))

	t.Run("case is left to the database", func(t *testing.T) {
		assert.Equal(t, []string{"İstanbul"}, Tokenize("İstanbul"))
		assert.Equal(t, []string{"ÇAY"}, Tokenize("ÇAY çay"))
	})

	t.Run("input is NFC normalised", func(t *testing.T) {
		assert.Equal(t, []string{"caf\u00e9"}, Tokenize("cafe\u0301"))
	})
}

func TestSplitToken(t *testing.T) {
	tests := []struct {
		token         string
		first, second string
	}{
		{"phone", "ph", "one"},
		{"case", "ca", "se"},
		{"a", "", "a"},
		{"ab", "a", "b"},
		{"", "", ""},
		{"café", "ca", "fé"},
		{"日本語", "日", "本語"},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			first, second := SplitToken(tt.token)
			assert.Equal(t, tt.first, first)
			assert.Equal(t, tt.second, second)
		})
	}
}

func TestFragments(t *testing.T) {
	t.Run("halves of every token are flattened in order", func(t *testing.T) {
		assert.Equal(t, []string{"ph", "one", "ca", "se"}, Fragments([]string{"phone", "case"}))
	})

	t.Run("one character tokens produce no fragments", func(t *testing.T) {
		assert.Empty(t, Fragments([]string{"a"}))
	})

	t.Run("two character tokens produce no fragments", func(t *testing.T) {
		assert.Empty(t, Fragments([]string{"ab"}))
	})

	t.Run("odd length keeps the longer second half", func(t *testing.T) {
		assert.Equal(t, []string{"bc"}, Fragments([]string{"abc"}))
	})

	t.Run("duplicate fragments are dropped", func(t *testing.T) {
		assert.Equal(t, []string{"abab"}, Fragments([]string{"abababab"}))
		assert.Equal(t, []string{"abab"}, Fragments([]string{"ababABAB"}))
	})
}

// Feature: storefront-search, Property 9: fragments reassemble their token
func TestProperty_SplitTokenReassembles(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("first + second == token and halves differ by at most one rune", prop.ForAll(
		func(token string) bool {
			first, second := SplitToken(token)
			if first+second != token {
				return false
			}
			diff := utf8.RuneCountInString(second) - utf8.RuneCountInString(first)
			return diff == 0 || diff == 1
		},
		gen.UnicodeString(unicode.Latin),
	))

	properties.Property("no fragment is shorter than the minimum or empty", prop.ForAll(
		func(query string) bool {
			for _, frag := range Fragments(Tokenize(query)) {
				if utf8.RuneCountInString(frag) < MinFragmentLength || strings.TrimSpace(frag) == "" {
					return false
				}
			}
			return true
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
