package util

import (
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// HashSecret hashes a plain text secret (passwords, OTP codes)
func HashSecret(secret string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(secret), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// VerifySecret checks if a plain text secret matches a hash
func VerifySecret(hashed, secret string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(secret))
	return err == nil
}
