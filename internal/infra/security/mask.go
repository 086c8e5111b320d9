package security

import (
	"regexp"
	"strings"
)

var countryCodePattern = regexp.MustCompile(`^\+\d{2}`)

// MaskPhoneNumber hides the middle of a phone number for display and logging.
// A leading "+" followed by exactly two digits is kept as the country code
// (empty if absent), the last four characters stay literal, and everything in
// between becomes "X". Length is preserved: +5511999999999 -> +55XXXXXXX9999.
func MaskPhoneNumber(phoneNumber string) string {
	countryCode := countryCodePattern.FindString(phoneNumber)

	maskLength := len(phoneNumber) - len(countryCode) - 4
	if maskLength < 0 {
		return phoneNumber
	}

	lastFour := phoneNumber[len(phoneNumber)-4:]
	return countryCode + strings.Repeat("X", maskLength) + lastFour
}
