package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"log"

	"github.com/google/uuid"
)

func GenerateID() string {
	id, err := uuid.NewUUID()
	if err != nil {
		log.Fatal("Failed to generate a unique ID", err)
	}
	return id.String()
}

// HashString returns the hex-encoded SHA-256 of s.
func HashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
