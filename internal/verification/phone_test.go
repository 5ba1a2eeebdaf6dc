package verification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateMobile(t *testing.T) {
	valid := []string{"9876543210", "6000000000", "7123456789", "8999999999"}
	for _, phone := range valid {
		assert.NoError(t, ValidateMobile(phone), "phone %s", phone)
	}

	invalid := []string{
		"",
		"12345",
		"5876543210",  // leading digit below 6
		"98765432100", // 11 digits
		"987654321",   // 9 digits
		"98765a3210",
		"+919876543210", // already prefixed
	}
	for _, phone := range invalid {
		assert.Error(t, ValidateMobile(phone), "phone %s", phone)
	}
}

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		phone string
		want  string
	}{
		{"9876543210", "+919876543210"},
		{"+91 98765 43210", "+919876543210"},
		{"919876543210", "+919876543210"},
		{"(987) 654-3210", "+919876543210"},
		{"0123456789", "+910123456789"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizePhone(tc.phone, "91"), "phone %q", tc.phone)
	}
}
