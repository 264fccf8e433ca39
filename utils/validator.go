// utils/validator.go - Input validation
package utils

import (
	"regexp"
	"strings"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	issnRegex  = regexp.MustCompile(`^\d{4}-\d{3}[\dX]$`)
	doiRegex   = regexp.MustCompile(`^10\.\d{4,9}/\S+$`)
)

// ValidateEmail checks if email is valid
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidateISSN checks the NNNN-NNNC ISSN format (C is a digit or X).
func ValidateISSN(issn string) bool {
	return issnRegex.MatchString(issn)
}

// ValidateDOI checks the 10.NNNN/suffix DOI format.
func ValidateDOI(doi string) bool {
	return doiRegex.MatchString(doi)
}

// ValidatePassword checks password strength
func ValidatePassword(password string) (bool, string) {
	if len(password) < 8 {
		return false, "Password must be at least 8 characters"
	}

	return true, ""
}

// SanitizeInput removes potentially harmful characters
func SanitizeInput(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")

	return input
}
