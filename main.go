package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"main/config"
	"main/handler"
	"main/middleware"
	"main/repository"
	"main/services"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func init() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil && os.Getenv("GO_ENV") != "test" {
		log.Fatalf("Error loading .env file: %v", err)
	}

	// Check required environment variables
	requiredEnvVars := []string{
		"MONGO_URI",
		"MONGO_DB",
		"JWT_SECRET_KEY",
		"JWT_EXPIRATION_TIME",
		"PORT",
	}

	for _, envVar := range requiredEnvVars {
		if os.Getenv(envVar) == "" && os.Getenv("GO_ENV") != "test" {
			log.Fatalf("Required environment variable %s is not set", envVar)
		}
	}

	utils.InitValidator()
	utils.InitJWT()
	utils.InitMongoClient()
}

func setupRouter() *gin.Engine {
	router := gin.Default()

	sessionRepo := repository.GetSessionRepo(utils.MongoClient)
	auditRepo := repository.GetAuditRepo(utils.MongoClient)
	threatRepo := repository.GetThreatRepo(utils.MongoClient)
	alertRepo := repository.GetAlertRepo(utils.MongoClient)

	if err := repository.SetupIndexes(utils.MongoClient.Database(os.Getenv("MONGO_DB"))); err != nil {
		log.Printf("Warning: failed to create indexes: %v", err)
	}

	sessionService := &usecase.SessionService{
		SessionRepo: sessionRepo,
		Policy:      config.LoadSessionPolicy(),
	}
	auditService := &usecase.AuditService{
		AuditRepo: auditRepo,
	}
	threatService := usecase.NewThreatService(
		threatRepo,
		alertRepo,
		auditRepo,
		sessionService,
		setupPager(),
		config.LoadThreatPolicy(),
	)

	statsHandler := handler.NewStatsHandler(sessionRepo, auditRepo, threatRepo, alertRepo)

	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestTracingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestSizeLimiter(1 << 20))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware())
	{
		sessions := protected.Group("/sessions")
		{
			sessions.POST("/", func(c *gin.Context) {
				handler.CreateSessionHandler(c, sessionService)
			})
			sessions.GET("/", func(c *gin.Context) {
				handler.ListSessionsHandler(c, sessionService)
			})
			sessions.POST("/:id/touch", func(c *gin.Context) {
				handler.TouchSessionHandler(c, sessionService)
			})
			sessions.POST("/:id/terminate", func(c *gin.Context) {
				handler.TerminateSessionHandler(c, sessionService)
			})
			sessions.POST("/terminate", func(c *gin.Context) {
				handler.TerminateSessionsHandler(c, sessionService)
			})
			sessions.GET("/users/:userId/count", func(c *gin.Context) {
				handler.CountActiveSessionsHandler(c, sessionService)
			})
		}

		audit := protected.Group("/audit")
		{
			audit.POST("/", func(c *gin.Context) {
				handler.AppendAuditEventHandler(c, auditService)
			})
			audit.GET("/", func(c *gin.Context) {
				handler.QueryAuditEventsHandler(c, auditService)
			})
			audit.GET("/export", func(c *gin.Context) {
				handler.ExportAuditEventsHandler(c, auditService)
			})
			audit.POST("/admin", middleware.RequireAdmin(), func(c *gin.Context) {
				handler.AuditAdminActionHandler(c, auditService)
			})
		}

		threats := protected.Group("/threats")
		{
			threats.POST("/", func(c *gin.Context) {
				handler.DetectThreatHandler(c, threatService)
			})
			threats.GET("/", func(c *gin.Context) {
				handler.ListThreatsHandler(c, threatService)
			})
			threats.GET("/:id", func(c *gin.Context) {
				handler.GetThreatHandler(c, threatService)
			})
			threats.POST("/:id/advance", func(c *gin.Context) {
				handler.AdvanceThreatHandler(c, threatService)
			})
			threats.POST("/auto-mitigate", func(c *gin.Context) {
				handler.AutoMitigateHandler(c, threatService)
			})
			threats.POST("/correlate", func(c *gin.Context) {
				handler.CorrelateHandler(c, threatService)
			})
		}

		alerts := protected.Group("/alerts")
		{
			alerts.POST("/", func(c *gin.Context) {
				handler.CreateAlertHandler(c, threatService)
			})
			alerts.GET("/", func(c *gin.Context) {
				handler.ListAlertsHandler(c, threatService)
			})
			alerts.POST("/:id/resolve", func(c *gin.Context) {
				handler.ResolveAlertHandler(c, threatService)
			})
			alerts.POST("/:id/escalate", func(c *gin.Context) {
				handler.EscalateAlertHandler(c, threatService)
			})
			alerts.POST("/resolve-below-critical", func(c *gin.Context) {
				handler.ResolveAllBelowCriticalHandler(c, threatService)
			})
			alerts.POST("/escalate-critical", func(c *gin.Context) {
				handler.EscalateAllCriticalHandler(c, threatService)
			})
		}

		tokens := protected.Group("/tokens")
		{
			tokens.POST("/revoke", middleware.RequireAdmin(), handler.RevokeTokenHandler)
		}

		stepup := protected.Group("/stepup")
		{
			stepup.POST("/recovery-codes", middleware.RequireAdmin(), handler.GenerateRecoveryCodesHandler)
		}

		protected.GET("/stats", middleware.CacheControlMiddleware("15"), statsHandler.GetOpsStats)
	}

	return router
}

// setupPager wires the escalation signal. Without a broker URL pages only go
// to the log.
func setupPager() services.Pager {
	natsURL := os.Getenv("PAGER_NATS_URL")
	if natsURL == "" {
		return services.LogPager{}
	}
	pager, err := services.NewNATSPager(natsURL, os.Getenv("PAGER_NATS_SUBJECT"))
	if err != nil {
		log.Printf("Warning: pager broker unavailable, falling back to log: %v", err)
		return services.LogPager{}
	}
	return pager
}

func setupOptionalServices() {
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		ttl := utils.GetEnvAsDuration("SESSION_CACHE_TTL", 12*time.Hour)
		cache, err := services.NewSessionCache(redisURL, ttl)
		if err != nil {
			log.Printf("Warning: session cache unavailable: %v", err)
		} else {
			services.GlobalSessionCache = cache
		}

		revocation, err := services.NewTokenRevocation(redisURL)
		if err != nil {
			log.Printf("Warning: token revocation store unavailable: %v", err)
		} else {
			services.TokenRevocation = revocation
		}
	}

	if totpSecret := os.Getenv("STEPUP_TOTP_SECRET"); totpSecret != "" {
		var recoveryCodes []string
		if raw := os.Getenv("STEPUP_RECOVERY_CODES"); raw != "" {
			recoveryCodes = strings.Split(raw, ",")
		}
		services.GlobalStepUpGuard = services.NewStepUpGuard(totpSecret, recoveryCodes)
	}
}

func main() {
	setupOptionalServices()

	router := setupRouter()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	serverAddr := fmt.Sprintf(":%s", port)
	log.Printf("Server starting on %s", serverAddr)
	if err := router.Run(serverAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
