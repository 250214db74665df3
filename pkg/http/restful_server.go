package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kalaiprof897-eng/management/pkg/auth"
	"github.com/kalaiprof897-eng/management/pkg/common"
	"github.com/kalaiprof897-eng/management/pkg/dashboard"
)

const (
	sessionKey = "session"

	RouteSummary  = "summary"
	RouteTimeLogs = "time_logs"
)

type RestfulServer struct {
	Server *gin.Engine
	App    *dashboard.App
	// InitErr puts the server in configuration-error mode: every /api route
	// answers 503 with this message.
	InitErr error
}

func (rs *RestfulServer) logger() *zap.Logger {
	return common.GetLoggerWith(common.LoggerNameRestfulServer)
}

func (rs *RestfulServer) requireConfigured(c *gin.Context) {
	if rs.InitErr != nil || rs.App == nil || rs.App.Sessions == nil {
		msg := "the application is not configured"
		if rs.InitErr != nil {
			msg = rs.InitErr.Error()
		}
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": msg})
		return
	}
	c.Next()
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// identify resolves the bearer token when present. Without a token the
// request continues anonymously; an invalid token is rejected.
func (rs *RestfulServer) identify(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		c.Next()
		return
	}

	session, err := rs.App.Sessions.Current(c.Request.Context(), token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	c.Set(sessionKey, session)
	c.Next()
}

func (rs *RestfulServer) requireSession(c *gin.Context) {
	if _, ok := sessionFrom(c); !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrNoSession.Error()})
		return
	}
	c.Next()
}

func (rs *RestfulServer) limit(route string) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := sessionFrom(c)
		if ok && !rs.App.Limiters.Allow(session.User.ID, route) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}

func sessionFrom(c *gin.Context) (*auth.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil, false
	}
	session, ok := v.(*auth.Session)
	return session, ok && session != nil
}

// snapshot is the dataset the caller sees: their reconciled data, or the
// fallback dataset when signed out.
func (rs *RestfulServer) snapshot(c *gin.Context) dashboard.Snapshot {
	if session, ok := sessionFrom(c); ok {
		return rs.App.ReconcilerFor(session).Current(c.Request.Context())
	}
	return rs.App.AnonymousSnapshot()
}

func (rs *RestfulServer) reconciler(c *gin.Context) *dashboard.Reconciler {
	session, _ := sessionFrom(c)
	return rs.App.ReconcilerFor(session)
}

func statusForAuthError(err error) int {
	var authErr *auth.Error
	switch {
	case errors.Is(err, auth.ErrMissingAuthInput):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrSignupsDisabled):
		return http.StatusForbidden
	case errors.Is(err, auth.ErrNoSession), errors.Is(err, auth.ErrSessionExpired):
		return http.StatusUnauthorized
	case errors.As(err, &authErr) && authErr.Status >= 400 && authErr.Status < 500:
		return authErr.Status
	default:
		return http.StatusBadGateway
	}
}

func (rs *RestfulServer) Setup() {
	rs.Server.GET("/healthz", rs.HealthCheck)
	rs.Server.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := rs.Server.Group("/api", rs.requireConfigured)
	{
		api.GET("/setup/schema", rs.GetSetupSchema)

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/signup", rs.SignUp)
			authGroup.POST("/signin", rs.SignIn)
			authGroup.POST("/signout", rs.identify, rs.requireSession, rs.SignOut)
			authGroup.GET("/session", rs.identify, rs.requireSession, rs.GetSession)
		}

		data := api.Group("", rs.identify)
		{
			data.GET("/data", rs.GetData)
			data.GET("/machines", rs.GetMachines)
			data.GET("/tools", rs.GetTools)
			data.GET("/production-records", rs.GetProductionRecords)
			data.GET("/cnc-time-logs", rs.GetCncTimeLogs)
			data.GET("/stats", rs.GetStats)

			data.POST("/data/verify", rs.requireSession, rs.VerifyData)
			data.POST("/cnc-time-logs", rs.requireSession, rs.limit(RouteTimeLogs), rs.PostCncTimeLog)
			data.POST("/summary", rs.requireSession, rs.limit(RouteSummary), rs.PostSummary)
			data.DELETE("/notification", rs.requireSession, rs.DeleteNotification)
		}
	}
}
