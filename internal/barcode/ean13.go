// Package barcode derives and checks the EAN-13 codes printed on member
// licenses.
package barcode

import "strings"

// Normalize keeps the digits of seed and fits them to exactly 12 characters:
// the last 12 when longer, left-padded with zeros when shorter.
func Normalize(seed string) string {
	var b strings.Builder
	for _, r := range seed {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) > 12 {
		return digits[len(digits)-12:]
	}
	return strings.Repeat("0", 12-len(digits)) + digits
}

// CheckDigit computes the EAN-13 check digit of a 12-digit body.
// Positions are 1-indexed: odd ones weigh 1, even ones weigh 3.
func CheckDigit(body string) byte {
	sum := 0
	for i := 0; i < 12; i++ {
		d := int(body[i] - '0')
		if i%2 == 1 {
			d *= 3
		}
		sum += d
	}
	return byte('0' + (10-sum%10)%10)
}

// GenerateEAN13 returns the 13-digit code for seed.
func GenerateEAN13(seed string) string {
	body := Normalize(seed)
	return body + string(CheckDigit(body))
}

// ValidateEAN13 reports whether code is 13 digits with a correct check digit.
func ValidateEAN13(code string) bool {
	if len(code) != 13 {
		return false
	}
	for i := 0; i < 13; i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return CheckDigit(code[:12]) == code[12]
}
