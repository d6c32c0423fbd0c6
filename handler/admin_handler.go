package handler

import (
	"log"

	"main/services"
	"main/utils"

	"github.com/gin-gonic/gin"
)

type RevokeTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// RevokeTokenHandler puts a bearer token on the revocation list. This is the
// kill switch for a compromised operator credential; the token stays listed
// until its natural expiry, after which replay is impossible anyway.
func RevokeTokenHandler(c *gin.Context) {
	var req RevokeTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request")
		return
	}

	if services.TokenRevocation == nil {
		utils.ServiceUnavailable(c, "Token revocation is not configured")
		return
	}

	if err := services.RevokeToken(req.Token); err != nil {
		log.Printf("Warning: Failed to revoke token: %v", err)
		utils.BadRequest(c, "Failed to revoke token")
		return
	}

	utils.Success(c, gin.H{"revoked": true})
}

// GenerateRecoveryCodesHandler mints a fresh batch of step-up recovery
// codes. The plaintext codes are shown exactly once; only their hashes are
// kept for verification.
func GenerateRecoveryCodesHandler(c *gin.Context) {
	codes, err := utils.GenerateRecoveryCodes()
	if err != nil {
		utils.InternalError(c, "Failed to generate recovery codes")
		return
	}

	utils.Success(c, gin.H{
		"recovery_codes": codes,
		"hashed_codes":   utils.HashRecoveryCodes(codes),
	})
}
