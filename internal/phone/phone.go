// Package phone normalizes Brazilian mobile numbers into the canonical
// 13-digit form the messaging API expects: 55 + DDD + 9 + 8 digits.
package phone

import (
	"errors"
	"regexp"
)

// ErrInvalidNumber marks input that cannot be normalized into a valid
// Brazilian mobile number. Callers reject the recipient without sending.
var ErrInvalidNumber = errors.New("invalid brazilian mobile number, expected 5551999999999 (55 + DDD + 9 + 8 digits)")

var (
	nonDigits   = regexp.MustCompile(`\D`)
	mobileShape = regexp.MustCompile(`^55[1-9][0-9]9[0-9]{8}$`)
)

// Normalize strips formatting and fills in missing country code / mobile
// prefix digits:
//
//	11 digits with a '9' third digit  -> prefix country code 55
//	10 digits                         -> 55 + area code + '9' + number
//
// The result must match the canonical 13-digit shape or ErrInvalidNumber is
// returned.
func Normalize(raw string) (string, error) {
	clean := nonDigits.ReplaceAllString(raw, "")

	switch {
	case len(clean) == 11 && clean[2] == '9':
		clean = "55" + clean
	case len(clean) == 10:
		clean = "55" + clean[:2] + "9" + clean[2:]
	}

	if !mobileShape.MatchString(clean) {
		return "", ErrInvalidNumber
	}

	return clean, nil
}
