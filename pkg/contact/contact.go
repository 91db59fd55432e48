// Package contact holds the formatting and validation rules for visitor
// contact data collected by the funnel forms. The rules intentionally match
// what the landing page applies while the visitor is typing, so a value that
// passed on the client passes here too.
package contact

import (
	"strings"
	"unicode"
)

// StandardizeName trims the name, lowercases it and upper-cases the first
// letter of every space-separated token. Internal runs of spaces are
// preserved as-is: the split produces empty tokens and the join restores
// them, so "joão  da silva" becomes "João  Da Silva".
func StandardizeName(name string) string {
	words := strings.Split(strings.ToLower(strings.TrimSpace(name)), " ")
	for i, word := range words {
		if word == "" {
			continue
		}
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// ValidateEmail is deliberately weak: anything containing "@" with a trimmed
// length above 3 is accepted. Full RFC validation rejects addresses that
// deliver fine, and the Leads API validates again on its side.
func ValidateEmail(email string) bool {
	return strings.Contains(email, "@") && len(strings.TrimSpace(email)) > 3
}

// DigitsOnly strips every non-digit rune. Phones are always normalized to
// digits-only before being sent to the Leads API or used as a lookup key.
func DigitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatPhone applies the Brazilian display mask to a phone number in any
// state of completeness:
//
//	up to 2 digits   -> "11"
//	up to 7 digits   -> "(11) 99999"
//	up to 11 digits  -> "(11) 99999-8888"
//
// Anything longer is truncated to the first 11 digits. The function is
// idempotent on its own output since the mask characters are stripped first.
func FormatPhone(phone string) string {
	numbers := DigitsOnly(phone)

	switch {
	case len(numbers) <= 2:
		return numbers
	case len(numbers) <= 7:
		return "(" + numbers[:2] + ") " + numbers[2:]
	case len(numbers) <= 11:
		return "(" + numbers[:2] + ") " + numbers[2:7] + "-" + numbers[7:]
	default:
		return "(" + numbers[:2] + ") " + numbers[2:7] + "-" + numbers[7:11]
	}
}

// ValidatePhone reports whether the phone is complete: 10 digits for a
// landline, 11 for a mobile with the leading 9.
func ValidatePhone(phone string) bool {
	n := len(DigitsOnly(phone))
	return n == 10 || n == 11
}

// FullNameTokens counts the space-separated tokens of a trimmed name.
// The capture form requires at least two.
func FullNameTokens(name string) int {
	return len(strings.Split(strings.TrimSpace(name), " "))
}
