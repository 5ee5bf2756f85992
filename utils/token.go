package utils

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// GenerateSecureToken returns a hex token made of length random bytes.
func GenerateSecureToken(length int) (string, error) {
	if length <= 0 {
		return "", errors.New("invalid token length")
	}
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// BuildResetLink builds the frontend page link carrying the admin id and the
// plaintext reset secret.
func BuildResetLink(frontendURL string, adminID uint, token string) string {
	if frontendURL == "" {
		frontendURL = "http://localhost:5173"
	}
	frontendURL = strings.TrimRight(frontendURL, "/")
	return fmt.Sprintf("%s/admin/reset-password/%d/%s", frontendURL, adminID, url.PathEscape(token))
}
