package handler

import (
	"strconv"

	"main/dto"
	"main/repository"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

func CreateAlertHandler(c *gin.Context, threats *usecase.ThreatService) {
	var req dto.CreateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request")
		return
	}

	alert, err := threats.CreateAlert(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Created(c, gin.H{
		"alert": alert,
	})
}

func ListAlertsHandler(c *gin.Context, threats *usecase.ThreatService) {
	filter := repository.AlertFilter{
		Severity: c.Query("severity"),
		UserID:   c.Query("user_id"),
	}
	if raw := c.Query("resolved"); raw != "" {
		resolved, err := strconv.ParseBool(raw)
		if err != nil {
			utils.BadRequest(c, "Invalid resolved filter")
			return
		}
		filter.Resolved = &resolved
	}

	alerts, err := threats.ListAlerts(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, gin.H{
		"alerts": alerts,
		"count":  len(alerts),
	})
}

func ResolveAlertHandler(c *gin.Context, threats *usecase.ThreatService) {
	if err := threats.ResolveAlert(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, gin.H{
		"message": "Alert resolved",
	})
}

func EscalateAlertHandler(c *gin.Context, threats *usecase.ThreatService) {
	if err := threats.EscalateAlert(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, gin.H{
		"message": "Alert escalated",
	})
}

func ResolveAllBelowCriticalHandler(c *gin.Context, threats *usecase.ThreatService) {
	results, err := threats.ResolveAllBelowCritical(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, gin.H{
		"results": results,
	})
}

func EscalateAllCriticalHandler(c *gin.Context, threats *usecase.ThreatService) {
	results, err := threats.EscalateAllCritical(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, gin.H{
		"results": results,
	})
}
