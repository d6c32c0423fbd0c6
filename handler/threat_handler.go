package handler

import (
	"main/dto"
	"main/model"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

func DetectThreatHandler(c *gin.Context, threats *usecase.ThreatService) {
	var req dto.DetectThreatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request")
		return
	}

	threat, err := threats.Detect(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Created(c, gin.H{
		"threat": threat,
	})
}

func AdvanceThreatHandler(c *gin.Context, threats *usecase.ThreatService) {
	var req dto.AdvanceThreatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request")
		return
	}

	threat, err := threats.Advance(c.Request.Context(), c.Param("id"), model.ThreatStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, gin.H{
		"threat": threat,
	})
}

func GetThreatHandler(c *gin.Context, threats *usecase.ThreatService) {
	threat, err := threats.GetThreat(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, gin.H{
		"threat": threat,
	})
}

func ListThreatsHandler(c *gin.Context, threats *usecase.ThreatService) {
	list, err := threats.ListThreats(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, gin.H{
		"threats": list,
		"count":   len(list),
	})
}

func AutoMitigateHandler(c *gin.Context, threats *usecase.ThreatService) {
	results, err := threats.AutoMitigate(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, gin.H{
		"results": results,
	})
}

// CorrelateHandler runs one correlation sweep over sessions and the audit
// ledger. The request deadline bounds the scan.
func CorrelateHandler(c *gin.Context, threats *usecase.ThreatService) {
	detected, err := threats.CorrelateOnce(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, gin.H{
		"detected": detected,
		"count":    len(detected),
	})
}
