package checkout

import "strings"

const (
	cardNumberLength = 16
	cvvLength        = 3
	expiryLength     = 5 // MM/YY
)

// CardDetails holds the card fields collected on the payment-info step.
type CardDetails struct {
	Number     string
	Expiry     string
	CVV        string
	HolderName string
}

// Valid reports whether every card field passes the payment-info gate:
// 16-digit number, MM/YY expiry, 3-digit CVV, non-empty holder name.
func (c CardDetails) Valid() bool {
	if len(c.Number) != cardNumberLength || !allDigits(c.Number) {
		return false
	}
	if !validExpiry(c.Expiry) {
		return false
	}
	if len(c.CVV) != cvvLength || !allDigits(c.CVV) {
		return false
	}
	return strings.TrimSpace(c.HolderName) != ""
}

// NormalizeCardNumber strips non-digit characters from raw input and caps
// the result at 16 digits.
func NormalizeCardNumber(raw string) string {
	digits := keepDigits(raw)
	if len(digits) > cardNumberLength {
		digits = digits[:cardNumberLength]
	}
	return digits
}

// FormatExpiry normalizes raw expiry input to MM/YY, inserting the slash
// after the second digit the way the payment-info field does on keystrokes.
func FormatExpiry(raw string) string {
	digits := keepDigits(raw)
	if len(digits) > 4 {
		digits = digits[:4]
	}
	if len(digits) <= 2 {
		return digits
	}
	return digits[:2] + "/" + digits[2:]
}

// NormalizeCVV strips non-digits and caps at 3 digits.
func NormalizeCVV(raw string) string {
	digits := keepDigits(raw)
	if len(digits) > cvvLength {
		digits = digits[:cvvLength]
	}
	return digits
}

func validExpiry(s string) bool {
	if len(s) != expiryLength || s[2] != '/' {
		return false
	}
	return allDigits(s[:2]) && allDigits(s[3:])
}

func keepDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
