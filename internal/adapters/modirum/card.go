package modirum

import (
	"strconv"
	"strings"

	pkgerrors "github.com/kevin07696/vpos-gateway/pkg/errors"
)

// PayMethod values are the gateway's card-scheme vocabulary
const (
	PayMethodVisa       = "visa"
	PayMethodMastercard = "mastercard"
	PayMethodAmex       = "amex"
	PayMethodDiners     = "diners"
	PayMethodDiscover   = "discover"
	PayMethodJCB        = "jcb"
	PayMethodMaestro    = "maestro"
)

// SchemeOf derives the gateway's PayMethod tag from the PAN's leading digits.
// An unrecognized scheme is a caller error, not a protocol error.
func SchemeOf(pan string) (string, error) {
	digits := strings.TrimSpace(pan)
	if digits == "" {
		return "", pkgerrors.NewValidationError("pan", "card number is required")
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return "", pkgerrors.NewValidationError("pan", "card number must be numeric")
		}
	}

	switch {
	case strings.HasPrefix(digits, "4"):
		return PayMethodVisa, nil
	case inPrefixRange(digits, 51, 55) || inPrefixRange(digits, 2221, 2720):
		return PayMethodMastercard, nil
	case strings.HasPrefix(digits, "34") || strings.HasPrefix(digits, "37"):
		return PayMethodAmex, nil
	case inPrefixRange(digits, 300, 305) || strings.HasPrefix(digits, "36") || strings.HasPrefix(digits, "38"):
		return PayMethodDiners, nil
	case strings.HasPrefix(digits, "6011") || strings.HasPrefix(digits, "64") || strings.HasPrefix(digits, "65"):
		return PayMethodDiscover, nil
	case inPrefixRange(digits, 3528, 3589):
		return PayMethodJCB, nil
	case strings.HasPrefix(digits, "50") || inPrefixRange(digits, 56, 69):
		return PayMethodMaestro, nil
	}

	return "", pkgerrors.NewValidationError("pan", "unrecognized card scheme")
}

// inPrefixRange reports whether the PAN's leading digits, read to the width
// of the range bounds, fall within [lo, hi]
func inPrefixRange(digits string, lo, hi int) bool {
	width := len(strconv.Itoa(lo))
	if len(digits) < width {
		return false
	}
	prefix, err := strconv.Atoi(digits[:width])
	if err != nil {
		return false
	}
	return prefix >= lo && prefix <= hi
}
