package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"pago-gateway/internal/core/domain"
	"pago-gateway/internal/core/ports"
	"pago-gateway/pkg/apperror"
	"pago-gateway/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// SessionCookie carries the ID token issued by POST /api/v1/me.
	SessionCookie = "session"

	HeaderRequestID = "X-Request-ID"

	// Context keys
	CtxAgent      = "agent"
	CtxAgentID    = "agent_id"
	CtxRequestID  = response.RequestIDKey
	CtxResourceID = "resource_id"
)

// BearerToken returns the token from an "Authorization: Bearer" header.
func BearerToken(c *gin.Context) (string, bool) {
	h := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(h, "Bearer ")
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// IdentityAuth resolves the calling agent from a bearer ID token or, failing
// that, the session cookie.
func IdentityAuth(sessions ports.SessionService, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c)
		if !ok {
			cookie, err := c.Cookie(SessionCookie)
			if err != nil || cookie == "" {
				response.Error(c, apperror.ErrInvalidToken())
				c.Abort()
				return
			}
			token = cookie
		}

		agent, err := sessions.Authenticate(c.Request.Context(), token)
		if err != nil {
			if apperror.KindOf(err) != apperror.KindCaller {
				log.Error().Err(err).Msg("identity resolution failed")
			}
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(CtxAgent, agent)
		c.Set(CtxAgentID, agent.ID)
		c.Next()
	}
}

// AgentFrom returns the agent set by IdentityAuth.
func AgentFrom(c *gin.Context) (*domain.Agent, bool) {
	v, ok := c.Get(CtxAgent)
	if !ok {
		return nil, false
	}
	a, ok := v.(*domain.Agent)
	return a, ok && a != nil
}

// RequestID propagates X-Request-ID or generates one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > 64 {
			id = uuid.New().String()
		}
		c.Set(CtxRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// RequestLogger creates a middleware that logs every HTTP request.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		event := log.Info()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		} else if status >= http.StatusBadRequest {
			event = log.Warn()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Str("request_id", c.GetString(CtxRequestID)).
			Msg("http request")
	}
}

// Recovery creates a panic recovery middleware.
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("path", c.Request.URL.Path).Msg("panic recovered")
				response.Error(c, apperror.InternalError(fmt.Errorf("panic: %v", r)))
				c.Abort()
			}
		}()
		c.Next()
	}
}

// MaxBodySize limits the request body. Reads past maxBytes fail, which
// binding reports as a 400.
func MaxBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
