package services

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"

	"main/utils"

	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/argon2"
)

// Constants for Argon2 parameters
const (
	memory      = 64 * 1024
	iterations  = 3
	parallelism = 2
	keyLength   = 32
)

// StepUpGuard verifies the extra factor required for destructive
// administrative actions (audit delete). The TOTP secret is shared with the
// operator's authenticator app; hashed recovery codes cover a lost device.
type StepUpGuard struct {
	TOTPSecret     string
	RecoveryHashes []string
}

var GlobalStepUpGuard *StepUpGuard

func NewStepUpGuard(totpSecret string, recoveryCodes []string) *StepUpGuard {
	return &StepUpGuard{
		TOTPSecret:     totpSecret,
		RecoveryHashes: utils.HashRecoveryCodes(recoveryCodes),
	}
}

// Verify accepts either a current TOTP code or an unused-format recovery
// code. Recovery codes are compared by hash only.
func (g *StepUpGuard) Verify(code string) bool {
	if g == nil || g.TOTPSecret == "" {
		return false
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return false
	}

	if totp.Validate(code, g.TOTPSecret) {
		return true
	}

	hashed := utils.HashString(strings.ToUpper(code))
	for _, h := range g.RecoveryHashes {
		if h == hashed {
			return true
		}
	}
	return false
}

// HashSecret hashes a step-up or actor secret with Argon2 for storage.
func HashSecret(secret string) (string, error) {
	if secret == "" {
		return "", errors.New("secret cannot be empty")
	}

	// Generate a random salt
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", errors.New("failed to generate salt")
	}

	hash := argon2.IDKey([]byte(secret), salt, iterations, memory, parallelism, keyLength)

	// Encode salt and hash separately
	encodedSalt := base64.RawStdEncoding.EncodeToString(salt)
	encodedHash := base64.RawStdEncoding.EncodeToString(hash)

	// Combine with $ separator
	return encodedSalt + "$" + encodedHash, nil
}

// VerifySecret verifies a provided secret against a stored Argon2 hash.
func VerifySecret(storedSecret, providedSecret string) (bool, error) {
	parts := strings.Split(storedSecret, "$")
	if len(parts) != 2 {
		return false, errors.New("invalid stored secret format")
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[0])
	if err != nil {
		return false, err
	}

	storedHash, err := base64.RawStdEncoding.DecodeString(parts[1])
	if err != nil {
		return false, err
	}

	computedHash := argon2.IDKey([]byte(providedSecret), salt, iterations, memory, parallelism, keyLength)

	return bytes.Equal(computedHash, storedHash), nil
}
