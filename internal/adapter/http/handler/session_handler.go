package handler

import (
	"net/http"

	"pago-gateway/internal/adapter/http/dto"
	"pago-gateway/internal/adapter/http/middleware"
	"pago-gateway/internal/core/ports"
	"pago-gateway/pkg/apperror"
	"pago-gateway/pkg/response"

	"github.com/gin-gonic/gin"
)

// SessionHandler exchanges ID tokens for session cookies.
type SessionHandler struct {
	sessionSvc   ports.SessionService
	secureCookie bool
}

func NewSessionHandler(sessionSvc ports.SessionService, secureCookie bool) *SessionHandler {
	return &SessionHandler{sessionSvc: sessionSvc, secureCookie: secureCookie}
}

// Start handles POST /api/v1/me. A rejected token also clears any existing
// session cookie.
func (h *SessionHandler) Start(c *gin.Context) {
	token, ok := middleware.BearerToken(c)
	if !ok {
		response.Error(c, apperror.Validation("Authorization header must carry a Bearer ID token"))
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)

	sess, err := h.sessionSvc.Start(c.Request.Context(), token)
	if err != nil {
		if apperror.KindOf(err) == apperror.KindCaller {
			c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.secureCookie, true)
		}
		response.Error(c, err)
		return
	}

	c.SetCookie(middleware.SessionCookie, sess.Token, int(sess.MaxAge.Seconds()), "/", "", h.secureCookie, true)
	c.Set(middleware.CtxAgentID, sess.Agent.ID)
	c.Set(middleware.CtxResourceID, sess.Agent.ID)
	response.OK(c, dto.NewAgentResponse(sess.Agent))
}
