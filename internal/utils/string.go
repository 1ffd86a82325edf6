package utils

import (
	"unicode"
	"unicode/utf8"
)

// IsWordRune reports whether r continues a word when reopening committed
// text.
func IsWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsDigit(r) || r == '\'' || r == '-'
}

// TrailingWord returns the word at the end of text, or "" when text ends
// in a separator.
func TrailingWord(text string) string {
	end := len(text)
	start := end
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(text[:start])
		if !IsWordRune(r) {
			break
		}
		start -= size
	}
	return text[start:end]
}
