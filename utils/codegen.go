package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	// codeAlphabet excludes ambiguous characters (0/O, 1/I/L) so codes can
	// be read over the phone and printed on service orders
	codeAlphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

	// CodeLength is the length of the random portion of generated codes
	CodeLength = 8

	// TicketCodePrefix is the prefix for service order codes
	TicketCodePrefix = "OS"

	// EquipmentCodePrefix is the prefix for equipment codes
	EquipmentCodePrefix = "EQP"
)

// GenerateCode creates a system-assigned code in the format "PREFIX-XXXXXXXX".
// Codes are assigned on insert and overwrite whatever value the caller passed.
func GenerateCode(prefix string) (string, error) {
	result := make([]byte, CodeLength)
	alphabetLen := big.NewInt(int64(len(codeAlphabet)))

	for i := 0; i < CodeLength; i++ {
		num, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}
		result[i] = codeAlphabet[num.Int64()]
	}

	return fmt.Sprintf("%s-%s", prefix, string(result)), nil
}

// MustGenerateCode creates a code and panics on error. crypto/rand only fails
// when the OS entropy source is unavailable.
func MustGenerateCode(prefix string) string {
	code, err := GenerateCode(prefix)
	if err != nil {
		panic(err)
	}
	return code
}
