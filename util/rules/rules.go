// Package rules holds the pure format checks shared by the lifecycle
// services: email shape, Canadian postal codes, password complexity and the
// username/title naming rule.
package rules

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	UsernameMinLen = 3
	UsernameMaxLen = 19
	TitleMaxLen    = 80
)

var (
	emailRx = regexp.MustCompile(
		`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]*[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]*[a-zA-Z0-9])?)*\.[a-zA-Z]{2,}$`)

	// A1A 1A1, uppercase only, single space in the middle.
	postalRx = regexp.MustCompile(`^[A-Z][0-9][A-Z] [0-9][A-Z][0-9]$`)
)

const specialChars = `!"#$%&'()*+,-./:;<=>?@[\]^_` + "`" + `{|}~`

// IsValidEmail reports whether s looks like an RFC 5322 address: local part,
// "@", then a dotted domain ending in a TLD of at least two letters.
func IsValidEmail(s string) bool {
	return emailRx.MatchString(s)
}

// IsValidPostalCode reports whether s is a Canadian postal code (A1A 1A1).
func IsValidPostalCode(s string) bool {
	return postalRx.MatchString(s)
}

// IsComplexPassword reports whether s is at least 6 characters long and
// contains an uppercase letter, a lowercase letter and a special character.
func IsComplexPassword(s string) bool {
	if utf8.RuneCountInString(s) < 6 {
		return false
	}
	var upper, lower, special bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case strings.ContainsRune(specialChars, r):
			special = true
		}
	}
	return upper && lower && special
}

// IsValidUsername reports whether s is a legal user name: 3 to 19
// characters, letters/digits/spaces only, and no leading or trailing space.
func IsValidUsername(s string) bool {
	if n := utf8.RuneCountInString(s); n < UsernameMinLen || n > UsernameMaxLen {
		return false
	}
	return isName(s)
}

// IsValidTitle reports whether s is a legal listing title: non-empty, at
// most 80 characters, letters/digits/spaces only, no edge spaces.
func IsValidTitle(s string) bool {
	if s == "" || utf8.RuneCountInString(s) > TitleMaxLen {
		return false
	}
	return isName(s)
}

func isName(s string) bool {
	if strings.HasPrefix(s, " ") || strings.HasSuffix(s, " ") {
		return false
	}
	for _, r := range s {
		if r == ' ' {
			continue
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
