package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

// GenerateSessionID returns a new opaque identifier for sessions and roster
// entries.
func GenerateSessionID() string {
	return uuid.NewString()
}

// GenerateOTP returns a 6-digit zero-padded join code. Codes are not unique
// across sessions; lookups are always scoped by table as well as OTP.
func GenerateOTP() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		// crypto/rand only fails if the OS entropy source is broken
		panic(err)
	}
	return fmt.Sprintf("%06d", n.Int64())
}
