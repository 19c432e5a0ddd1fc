package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// confirmationTokenBytes - 128 бит энтропии, 32 hex-символа
const confirmationTokenBytes = 16

// GenerateConfirmationToken возвращает случайный токен подтверждения email
func GenerateConfirmationToken() (string, error) {
	b := make([]byte, confirmationTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate confirmation token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
