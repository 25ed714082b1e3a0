package randcode

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateHexToken returns a lowercase hex string built from byteLen random
// bytes, so the result is 2*byteLen characters long.
func GenerateHexToken(byteLen int) (string, error) {
	if byteLen <= 0 {
		return "", fmt.Errorf("byte length must be positive, got %d", byteLen)
	}

	b := make([]byte, byteLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}
