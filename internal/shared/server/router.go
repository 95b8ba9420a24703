package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	googleauth "coursefit-backend/internal/auth"
	"coursefit-backend/internal/services/health"
	"coursefit-backend/internal/shared/auth"
	"coursefit-backend/internal/shared/config"
	"coursefit-backend/internal/shared/metrics"
	"coursefit-backend/internal/shared/server/middleware"
	"coursefit-backend/internal/shared/server/respond"
	"coursefit-backend/internal/staff"
	"coursefit-backend/internal/submissions"
)

// RouterDeps carries the handlers and auth pieces the router mounts.
type RouterDeps struct {
	Config            config.Config
	Issuer            *auth.Issuer
	Revoker           auth.Revoker
	Health            *health.Service
	SubmissionHandler *submissions.Handler
	StaffHandler      *staff.Handler
	GoogleAuth        *googleauth.GoogleService
	RateLimiter       *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService()
	}

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		report := healthSvc.Status(c.Request.Context())
		status := http.StatusOK
		if !report.OK {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, report)
	})
	api.GET("/metrics", metrics.Handler())

	public := api.Group("", middleware.RateLimit(middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			"DEFAULT":                       middleware.PerMinute(120),
			middleware.SubmitRateLimitGroup: middleware.PerMinute(deps.Config.SubmitRatePerMin),
		},
		GroupFor: rateLimitGroup,
		Limiter:  deps.RateLimiter,
	}))
	if deps.SubmissionHandler != nil {
		deps.SubmissionHandler.RegisterPublicRoutes(public)
	}
	if deps.StaffHandler != nil {
		deps.StaffHandler.RegisterPublicRoutes(public)
	}
	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(public)
	}

	protected := api.Group("",
		middleware.StaffAuth(deps.Issuer, deps.Revoker),
		middleware.RequireRole(string(staff.RoleAdmin), string(staff.RoleTeacher)),
	)
	if deps.StaffHandler != nil {
		deps.StaffHandler.RegisterRoutes(protected)
	}
	if deps.SubmissionHandler != nil {
		deps.SubmissionHandler.RegisterStaffRoutes(protected)
	}

	return r
}

// rateLimitGroup puts submissions and logins into the stricter bucket.
func rateLimitGroup(c *gin.Context) string {
	if c.Request.Method != http.MethodPost {
		return ""
	}
	switch c.FullPath() {
	case "/api/v1/submissions", "/api/v1/auth/login":
		return middleware.SubmitRateLimitGroup
	default:
		return ""
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}

// NewHTTPServer wraps the router with the timeouts used by cmd/api and `coursefit serve`.
func NewHTTPServer(port string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              Addr(port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
