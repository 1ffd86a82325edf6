package suggest

import (
	"strings"
	"unicode"
)

// CaseMode is the case the engine applies to every candidate.
type CaseMode int

const (
	CaseAsTyped CaseMode = iota
	CaseCapitalize
	CaseUpper
	CaseLower
)

// Next cycles as typed, Capitalized, UPPER, lower.
func (m CaseMode) Next() CaseMode {
	return (m + 1) % 4
}

func (m CaseMode) String() string {
	switch m {
	case CaseAsTyped:
		return "as typed"
	case CaseCapitalize:
		return "capitalize"
	case CaseUpper:
		return "upper"
	case CaseLower:
		return "lower"
	}
	return "unknown"
}

// Apply converts text to the mode.
func (m CaseMode) Apply(text string) string {
	switch m {
	case CaseCapitalize:
		r := []rune(text)
		if len(r) > 0 {
			r[0] = unicode.ToTitle(r[0])
		}
		return string(r)
	case CaseUpper:
		return strings.ToUpper(text)
	case CaseLower:
		return strings.ToLower(text)
	}
	return text
}

// CapitalPositions marks the upper-case runes of typed.
func CapitalPositions(typed string) []bool {
	var pos []bool
	for _, r := range typed {
		pos = append(pos, unicode.IsUpper(r))
	}
	return pos
}

// ApplyCapitalization re-applies the typed upper-case letters to word at the
// same rune positions. Letters are never lowered. Typing two or more letters
// that are all upper case upper-cases the whole word.
func ApplyCapitalization(word string, typed string) string {
	letters, upper := 0, 0
	for _, r := range typed {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	if upper == 0 {
		return word
	}
	if letters > 1 && upper == letters {
		return strings.ToUpper(word)
	}

	capitalPositions := CapitalPositions(typed)
	wordRunes := []rune(word)
	for i := 0; i < len(wordRunes) && i < len(capitalPositions); i++ {
		if capitalPositions[i] {
			wordRunes[i] = unicode.ToUpper(wordRunes[i])
		}
	}
	return string(wordRunes)
}
