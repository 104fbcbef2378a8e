package analyzer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// containsWord reports whether needle occurs in text with a word boundary on
// both sides, the way \b works in a regular expression.
func containsWord(text, needle string) bool {
	if needle == "" {
		return false
	}
	offset := 0
	for {
		i := strings.Index(text[offset:], needle)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(needle)
		if boundaryAt(text, start) && boundaryAt(text, end) {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		offset = start + size
	}
}

func boundaryAt(text string, pos int) bool {
	before := false
	if pos > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:pos])
		before = isWordRune(r)
	}
	after := false
	if pos < len(text) {
		r, _ := utf8.DecodeRuneInString(text[pos:])
		after = isWordRune(r)
	}
	return before != after
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// runeIndex is strings.Index measured in characters.
func runeIndex(text, needle string) int {
	i := strings.Index(text, needle)
	if i < 0 {
		return -1
	}
	return utf8.RuneCountInString(text[:i])
}
