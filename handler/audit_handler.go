package handler

import (
	"main/dto"
	"main/middleware"
	"main/model"
	"main/services"
	"main/usecase"
	"main/utils"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

func AppendAuditEventHandler(c *gin.Context, audit *usecase.AuditService) {
	var req dto.AppendEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request")
		return
	}

	event, err := audit.Append(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Created(c, gin.H{
		"event": event,
	})
}

func auditQueryOptions(c *gin.Context) (usecase.AuditQueryOptions, error) {
	opts := usecase.AuditQueryOptions{
		UserID:          c.Query("user_id"),
		UserIDPrefix:    c.Query("user_id_prefix"),
		Action:          c.Query("action"),
		IncludeArchived: c.Query("include_archived") == "true",
		IncludeDeleted:  c.Query("include_deleted") == "true",
	}

	if raw := c.Query("success"); raw != "" {
		success, err := strconv.ParseBool(raw)
		if err != nil {
			return opts, &model.ValidationError{Field: "success", Reason: "must be a boolean"}
		}
		opts.Success = &success
	}
	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return opts, &model.ValidationError{Field: "from", Reason: "must be RFC3339"}
		}
		opts.From = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return opts, &model.ValidationError{Field: "to", Reason: "must be RFC3339"}
		}
		opts.To = &to
	}

	opts.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	opts.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	return opts, nil
}

func QueryAuditEventsHandler(c *gin.Context, audit *usecase.AuditService) {
	opts, err := auditQueryOptions(c)
	if err != nil {
		respondError(c, err)
		return
	}

	page, err := audit.Query(c.Request.Context(), opts)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, page)
}

// AuditAdminActionHandler applies an administrative batch. Delete is the
// destructive one: it additionally demands a valid step-up code before the
// ledger will tombstone anything.
func AuditAdminActionHandler(c *gin.Context, audit *usecase.AuditService) {
	var req dto.AdminActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request")
		return
	}

	actorValue, exists := c.Get("actor")
	if !exists {
		utils.Unauthorized(c, "Actor not authenticated")
		return
	}
	actor := actorValue.(string)

	if req.Action == model.AuditActionDelete {
		if !services.GlobalStepUpGuard.Verify(req.StepUpCode) {
			middleware.TrackAuthAttempt("failure", "stepup")
			respondError(c, &model.PermissionDeniedError{Actor: actor, Action: "audit delete"})
			return
		}
		middleware.TrackAuthAttempt("success", "stepup")
	}

	results, err := audit.AdministrativeAction(c.Request.Context(), &req, actor)
	if err != nil && results == nil {
		respondError(c, err)
		return
	}
	if err != nil {
		// Batch applied but the self-referential record failed; surface both.
		utils.InternalError(c, err.Error())
		return
	}

	utils.Success(c, gin.H{
		"results": results,
	})
}

func ExportAuditEventsHandler(c *gin.Context, audit *usecase.AuditService) {
	opts, err := auditQueryOptions(c)
	if err != nil {
		respondError(c, err)
		return
	}

	data, err := audit.Export(c.Request.Context(), opts)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=audit_export.csv")
	c.Data(200, "text/csv", data)
}
