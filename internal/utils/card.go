package utils

import (
	"crypto/rand"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Dan9191/bank-cards/internal/models"
)

// CardNumberLength is the only card number length the service accepts
const CardNumberLength = 16

var maskPattern = regexp.MustCompile(`^(\d{4})(\d{4})(\d{4})(\d{4})$`)

// Mask formats a 16-digit number showing only its last group,
// e.g. "1234123412341234" becomes "**** **** **** 1234".
// Anything else is masked entirely.
func Mask(number string) string {
	if !maskPattern.MatchString(number) {
		return "**** **** **** ****"
	}
	return maskPattern.ReplaceAllString(number, "**** **** **** $4")
}

// ValidateCardNumber checks length, digits and the Luhn check digit
func ValidateCardNumber(number string) error {
	if len(number) != CardNumberLength {
		return models.ErrInvalidCardNumber
	}
	for _, r := range number {
		if r < '0' || r > '9' {
			return models.ErrInvalidCardNumber
		}
	}
	if !passesLuhn(number) {
		return models.ErrInvalidCardNumber
	}
	return nil
}

func passesLuhn(number string) bool {
	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		d := int(number[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// luhnCheckDigit computes the digit that makes partial+digit pass Luhn
func luhnCheckDigit(partial string) byte {
	sum := 0
	double := true
	for i := len(partial) - 1; i >= 0; i-- {
		d := int(partial[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return byte((10-sum%10)%10) + '0'
}

// GenerateCardNumber generates a 16-digit card number with the given prefix
// and a valid check digit
func GenerateCardNumber(prefix string) (string, error) {
	if len(prefix) == 0 || len(prefix) >= CardNumberLength {
		return "", fmt.Errorf("invalid card number prefix: %q", prefix)
	}
	for _, r := range prefix {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("invalid card number prefix: %q", prefix)
		}
	}

	// Random body between the prefix and the check digit
	digits := make([]byte, CardNumberLength-len(prefix)-1)
	if _, err := rand.Read(digits); err != nil {
		return "", fmt.Errorf("failed to generate random digits: %w", err)
	}

	var builder strings.Builder
	builder.WriteString(prefix)
	for _, b := range digits {
		builder.WriteByte(b%10 + '0')
	}
	builder.WriteByte(luhnCheckDigit(builder.String()))

	return builder.String(), nil
}

// DefaultExpiration returns the last day of the month three years from now
func DefaultExpiration(now time.Time) time.Time {
	firstOfMonth := time.Date(now.Year()+3, now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return firstOfMonth.AddDate(0, 1, -1)
}
