package utils

import (
	"strings"
)

// DocumentError represents a tax ID validation error
type DocumentError struct {
	Code    string
	Message string
}

func (e *DocumentError) Error() string {
	return e.Message
}

// NormalizeCNPJ strips formatting characters from a CNPJ, keeping digits only
func NormalizeCNPJ(cnpj string) string {
	var b strings.Builder
	for _, r := range cnpj {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidateCNPJ checks a CNPJ's length and verification digits. Formatting
// characters (dots, slash, dash) are accepted and ignored. This is local
// validation only; it does not consult any registry.
func ValidateCNPJ(cnpj string) error {
	digits := NormalizeCNPJ(cnpj)

	if len(digits) != 14 {
		return &DocumentError{
			Code:    "INVALID_CNPJ",
			Message: "CNPJ must contain 14 digits",
		}
	}

	// Sequences like 00000000000000 pass the digit check but are not valid
	allSame := true
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			allSame = false
			break
		}
	}
	if allSame {
		return &DocumentError{
			Code:    "INVALID_CNPJ",
			Message: "CNPJ verification digits do not match",
		}
	}

	if cnpjCheckDigit(digits, 12) != int(digits[12]-'0') ||
		cnpjCheckDigit(digits, 13) != int(digits[13]-'0') {
		return &DocumentError{
			Code:    "INVALID_CNPJ",
			Message: "CNPJ verification digits do not match",
		}
	}

	return nil
}

// cnpjCheckDigit computes the verification digit over the first n digits
// using the standard descending weight table (2..9 repeating).
func cnpjCheckDigit(digits string, n int) int {
	weight := 2
	sum := 0
	for i := n - 1; i >= 0; i-- {
		sum += int(digits[i]-'0') * weight
		weight++
		if weight > 9 {
			weight = 2
		}
	}
	rest := sum % 11
	if rest < 2 {
		return 0
	}
	return 11 - rest
}
