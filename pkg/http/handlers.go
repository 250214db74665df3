package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"

	"github.com/kalaiprof897-eng/management/pkg/auth"
	"github.com/kalaiprof897-eng/management/pkg/dashboard"
	"github.com/kalaiprof897-eng/management/pkg/db"
	"github.com/kalaiprof897-eng/management/pkg/gateway"
	"github.com/kalaiprof897-eng/management/pkg/summary"
)

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

var credentialsRequestSchema = z.Struct(z.Shape{
	"Email":    z.String().Required(),
	"Password": z.String().Required(),
})

func parseCredentials(c *gin.Context) (CredentialsRequest, bool) {
	var req CredentialsRequest
	if issues := credentialsRequestSchema.Parse(zhttp.Request(c.Request), &req); len(issues) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": auth.ErrMissingAuthInput.Error()})
		return req, false
	}
	return req, true
}

func (rs *RestfulServer) SignUp(c *gin.Context) {
	req, ok := parseCredentials(c)
	if !ok {
		return
	}

	result, err := rs.App.Sessions.SignUp(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(statusForAuthError(err), gin.H{"error": err.Error()})
		return
	}

	body := gin.H{"user": result.User}
	if result.Session != nil {
		body["session"] = result.Session
	} else {
		body["message"] = "Registration successful! Please check your email to confirm your account."
	}
	c.JSON(http.StatusCreated, body)
}

func (rs *RestfulServer) SignIn(c *gin.Context) {
	req, ok := parseCredentials(c)
	if !ok {
		return
	}

	session, err := rs.App.Sessions.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(statusForAuthError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, session)
}

func (rs *RestfulServer) SignOut(c *gin.Context) {
	session, _ := sessionFrom(c)

	if err := rs.App.Sessions.SignOut(c.Request.Context(), session.AccessToken); err != nil {
		// the local session is gone either way
		rs.logger().Warn("Sign out reported an error", zap.Error(err))
	}
	c.Status(http.StatusNoContent)
}

func (rs *RestfulServer) GetSession(c *gin.Context) {
	session, _ := sessionFrom(c)
	c.JSON(http.StatusOK, session)
}

func (rs *RestfulServer) GetData(c *gin.Context) {
	c.JSON(http.StatusOK, rs.snapshot(c))
}

func (rs *RestfulServer) VerifyData(c *gin.Context) {
	c.JSON(http.StatusOK, rs.reconciler(c).Verify(c.Request.Context()))
}

func (rs *RestfulServer) GetMachines(c *gin.Context) {
	c.JSON(http.StatusOK, rs.snapshot(c).Machines)
}

func (rs *RestfulServer) GetTools(c *gin.Context) {
	c.JSON(http.StatusOK, rs.snapshot(c).Tools)
}

func (rs *RestfulServer) GetProductionRecords(c *gin.Context) {
	c.JSON(http.StatusOK, rs.snapshot(c).ProductionRecords)
}

func (rs *RestfulServer) GetCncTimeLogs(c *gin.Context) {
	s := rs.snapshot(c)
	c.JSON(http.StatusOK, gin.H{
		"cncTimeLogs":   s.CncTimeLogs,
		"canAdd":        s.CanAddTimeLog(),
		"setupRequired": s.SetupRequired,
	})
}

func (rs *RestfulServer) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, dashboard.ComputeStats(rs.snapshot(c)))
}

func (rs *RestfulServer) PostCncTimeLog(c *gin.Context) {
	var input dashboard.TimeLogInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": dashboard.MessageFillRequired})
		return
	}

	created, err := rs.reconciler(c).AddCncTimeLog(c.Request.Context(), input)
	if err != nil {
		var verr *dashboard.ValidationError
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message, "fields": verr.Fields})
		case dashboard.IsUnavailable(err):
			c.JSON(http.StatusConflict, gin.H{"error": dashboard.MessageDatabaseUpdateNeeds})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save: " + gateway.Message(err)})
		}
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (rs *RestfulServer) PostSummary(c *gin.Context) {
	if rs.App.Summarizer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Gemini API key is not configured."})
		return
	}

	records := rs.snapshot(c).ProductionRecords
	text, err := rs.App.Summarizer.GenerateSummary(c.Request.Context(), records)
	if err != nil {
		var genErr *summary.GenerationError
		msg := "An error occurred while generating the summary."
		if errors.As(err, &genErr) {
			msg = genErr.Message
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": text, "blocks": summary.Blocks(text)})
}

func (rs *RestfulServer) DeleteNotification(c *gin.Context) {
	rs.reconciler(c).HideNotification()
	c.Status(http.StatusNoContent)
}

func (rs *RestfulServer) GetSetupSchema(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"schema": db.SetupSQL, "seed": db.SeedNote})
}

func (rs *RestfulServer) HealthCheck(c *gin.Context) {
	if rs.InitErr != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "config_error", "error": rs.InitErr.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
