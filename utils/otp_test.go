package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateOTPFormat(t *testing.T) {
	for i := 0; i < 100; i++ {
		otp := GenerateOTP()
		assert.Len(t, otp, 6)
		for _, r := range otp {
			assert.True(t, r >= '0' && r <= '9', "otp %q contains non-digit", otp)
		}
	}
}

func TestGenerateSessionIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := GenerateSessionID()
		assert.NotEmpty(t, id)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestFormatMinorUnits(t *testing.T) {
	assert.Equal(t, "0,00", FormatMinorUnits(0))
	assert.Equal(t, "15,00", FormatMinorUnits(1500))
	assert.Equal(t, "15.000,50", FormatMinorUnits(1500050))
	assert.Equal(t, "1.234.567,89", FormatMinorUnits(123456789))
	assert.Equal(t, "-15,00", FormatMinorUnits(-1500))
}
