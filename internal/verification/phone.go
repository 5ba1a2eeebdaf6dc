package verification

import (
	"regexp"
	"strings"

	"github.com/yaduvivaah/agent-portal-api/internal/apperror"
)

// Indian mobile numbers: 10 digits, leading digit 6-9.
var mobilePattern = regexp.MustCompile(`^[6-9]\d{9}$`)

// ValidateMobile checks that phone is a plausible 10-digit subscriber number.
func ValidateMobile(phone string) error {
	if !mobilePattern.MatchString(phone) {
		return apperror.New(apperror.KindValidation, "please enter a valid 10-digit mobile number")
	}
	return nil
}

// NormalizePhone converts phone to international format: all non-digits are
// stripped and the country code is prepended unless the cleaned value already
// starts with it.
func NormalizePhone(phone, countryCode string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()

	if !strings.HasPrefix(cleaned, countryCode) {
		return "+" + countryCode + cleaned
	}
	return "+" + cleaned
}
