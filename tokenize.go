package wordfreq

import (
	"regexp"
	"strings"
)

// tokenSeparator matches a maximal run of characters that are neither a
// Unicode letter, a digit, nor a literal '+'. The '+' inside the class
// mirrors the corpus' historical split pattern, so "c++" stays one token.
var tokenSeparator = regexp.MustCompile(`[^\p{L}\d+]+`)

// Tokenize splits text into lowercase word tokens. It is pure: no state is
// shared between calls and the same input always yields the same tokens.
func Tokenize(text string) []string {
	parts := tokenSeparator.Split(text, -1)
	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		tokens = append(tokens, strings.ToLower(part))
	}
	return tokens
}
