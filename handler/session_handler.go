package handler

import (
	"main/dto"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

func CreateSessionHandler(c *gin.Context, sessions *usecase.SessionService) {
	var req dto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request")
		return
	}

	session, err := sessions.CreateSession(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Created(c, gin.H{
		"session": session,
	})
}

func ListSessionsHandler(c *gin.Context, sessions *usecase.SessionService) {
	opts := usecase.SessionSearchOptions{
		UserID:    c.Query("user_id"),
		IPAddress: c.Query("ip_address"),
		Location:  c.Query("location"),
		Status:    c.Query("status"),
		SortBy:    c.DefaultQuery("sort_by", "login_time"),
		SortOrder: c.DefaultQuery("sort_order", "desc"),
	}

	views, err := sessions.ListSessions(c.Request.Context(), opts)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, gin.H{
		"sessions": views,
		"count":    len(views),
	})
}

func TouchSessionHandler(c *gin.Context, sessions *usecase.SessionService) {
	if err := sessions.TouchSession(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, gin.H{
		"message": "Session activity recorded",
	})
}

func TerminateSessionHandler(c *gin.Context, sessions *usecase.SessionService) {
	if err := sessions.Terminate(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, gin.H{
		"message": "Session terminated",
	})
}

// TerminateSessionsHandler fans out over the requested ids and always
// returns the per-id outcomes; a miss on one id is not a batch failure.
func TerminateSessionsHandler(c *gin.Context, sessions *usecase.SessionService) {
	var req dto.TerminateSessionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request")
		return
	}

	results := sessions.TerminateMany(c.Request.Context(), req.SessionIDs)
	utils.Success(c, gin.H{
		"results": results,
	})
}

func CountActiveSessionsHandler(c *gin.Context, sessions *usecase.SessionService) {
	userID := c.Param("userId")
	count, err := sessions.CountActiveSessions(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, gin.H{
		"user_id": userID,
		"count":   count,
	})
}
