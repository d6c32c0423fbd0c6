package handler

import (
	"log"

	"main/model"
	"main/repository"
	"main/utils"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	sessionRepo *repository.SessionRepo
	auditRepo   *repository.AuditRepo
	threatRepo  *repository.ThreatRepo
	alertRepo   *repository.AlertRepo
}

func NewStatsHandler(
	sessionRepo *repository.SessionRepo,
	auditRepo *repository.AuditRepo,
	threatRepo *repository.ThreatRepo,
	alertRepo *repository.AlertRepo,
) *StatsHandler {
	return &StatsHandler{
		sessionRepo: sessionRepo,
		auditRepo:   auditRepo,
		threatRepo:  threatRepo,
		alertRepo:   alertRepo,
	}
}

// GetOpsStats reports counts across all three subsystems plus host CPU load.
func (h *StatsHandler) GetOpsStats(c *gin.Context) {
	ctx := c.Request.Context()

	var stats model.OpsStats

	activeSessions, err := h.sessionRepo.CountAllActive(ctx)
	if err != nil {
		log.Printf("Error counting active sessions: %v", err)
		utils.InternalError(c, "Failed to count active sessions")
		return
	}
	stats.SessionStats.Active = activeSessions

	threatCounts, err := h.threatRepo.CountByStatus(ctx)
	if err != nil {
		log.Printf("Error counting threats: %v", err)
		utils.InternalError(c, "Failed to count threats")
		return
	}
	stats.ThreatStats.ByStatus = threatCounts
	for status, n := range threatCounts {
		if status != string(model.ThreatResolved) {
			stats.ThreatStats.Open += n
		}
	}

	unresolvedAlerts, err := h.alertRepo.CountUnresolved(ctx)
	if err != nil {
		log.Printf("Error counting alerts: %v", err)
		utils.InternalError(c, "Failed to count alerts")
		return
	}
	stats.AlertStats.Unresolved = unresolvedAlerts

	totalEvents, err := h.auditRepo.CountEvents(ctx)
	if err != nil {
		log.Printf("Error counting audit events: %v", err)
		utils.InternalError(c, "Failed to count audit events")
		return
	}
	stats.LedgerStats.TotalEvents = totalEvents

	stats.SystemStats.CPUPercent = utils.GetCPUUsage()

	utils.Success(c, gin.H{
		"stats": stats,
	})
}
