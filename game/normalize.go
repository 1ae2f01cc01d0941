package game

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeWord strips diacritics, upper-cases and collapses whitespace so that
// "  açaí " and "ACAI" compare equal.
func NormalizeWord(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return strings.Join(strings.Fields(strings.ToUpper(stripped)), " ")
}

// foldLetter maps a letter of a secret word onto the letter a player types to
// reveal it. Accented vowels fold onto their base letter, Ç stays distinct.
func foldLetter(r rune) rune {
	r = unicode.ToUpper(r)
	if r == 'Ç' {
		return r
	}
	d := norm.NFD.String(string(r))
	base, _ := utf8.DecodeRuneInString(d)
	return base
}

// ParseLetter validates a raw letter guess. Only A-Z, hyphen and Ç are accepted.
func ParseLetter(raw string) (rune, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if utf8.RuneCountInString(s) != 1 {
		return 0, ErrInvalidLetter
	}
	r, _ := utf8.DecodeRuneInString(s)
	if (r >= 'A' && r <= 'Z') || r == '-' || r == 'Ç' {
		return r, nil
	}
	return 0, ErrInvalidLetter
}
