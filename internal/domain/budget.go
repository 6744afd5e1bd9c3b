package domain

import (
	"strconv"
	"strings"
)

type Budget int64

// ParseBudget accepts Western, Arabic-Indic and Extended Arabic-Indic digits.
// Every non-digit rune, separators and currency marks included, is dropped,
// and a leading minus sign is rejected. Every failure is ErrInvalidBudget.
func ParseBudget(text string) (Budget, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0, ErrInvalidBudget
	}

	var digits strings.Builder
	for _, r := range trimmed {
		if digits.Len() == 0 && isMinusSign(r) {
			return 0, ErrInvalidBudget
		}
		if d, ok := asciiDigit(r); ok {
			digits.WriteRune(d)
		}
	}

	if digits.Len() == 0 {
		return 0, ErrInvalidBudget
	}

	value, err := strconv.ParseInt(digits.String(), 10, 64)
	if err != nil {
		return 0, ErrInvalidBudget
	}

	return Budget(value), nil
}

func asciiDigit(r rune) (rune, bool) {
	switch {
	case r >= '0' && r <= '9':
		return r, true
	case r >= '٠' && r <= '٩':
		return '0' + (r - '٠'), true
	case r >= '۰' && r <= '۹':
		return '0' + (r - '۰'), true
	default:
		return 0, false
	}
}

func isMinusSign(r rune) bool {
	return r == '-' || r == '−'
}
