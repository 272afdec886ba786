package utils

import "strings"

// Truncate shortens s to maxLength runes, ending with an ellipsis when cut
func Truncate(s string, maxLength int) string {
	runes := []rune(s)
	if len(runes) <= maxLength {
		return s
	}
	if maxLength <= 3 {
		return "..."
	}
	return string(runes[:maxLength-3]) + "..."
}

// MaskEmail masks the local part of an email address
func MaskEmail(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return email
	}

	localPart := parts[0]
	if len(localPart) > 2 {
		localPart = localPart[:2] + strings.Repeat("*", len(localPart)-2)
	}

	return localPart + "@" + parts[1]
}

// MaskAddress keeps the first and last four characters of a wallet address
func MaskAddress(address string) string {
	if len(address) <= 10 {
		return address
	}
	return address[:4] + strings.Repeat("*", len(address)-8) + address[len(address)-4:]
}
