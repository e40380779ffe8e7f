package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"pago-gateway/internal/core/domain"
	"pago-gateway/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuditLog records successful writes. Checkout is a GET that may create an
// intent, so its redirect is audited too.
func AuditLog(auditSvc ports.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		action, resourceType := mapRouteToAction(c.FullPath(), c.Request.Method)
		if action == "" {
			return
		}
		ok := status >= 200 && status < 300
		if action == domain.AuditActionCheckout {
			ok = status == http.StatusFound
		}
		if !ok {
			return
		}

		var agentID *string
		if id := c.GetString(CtxAgentID); id != "" {
			agentID = &id
		}

		details, _ := json.Marshal(map[string]interface{}{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     status,
			"request_id": c.GetString(CtxRequestID),
		})

		auditSvc.Log(c.Request.Context(), &domain.AuditLog{
			ID:           uuid.New(),
			AgentID:      agentID,
			Action:       action,
			ResourceType: resourceType,
			ResourceID:   c.GetString(CtxResourceID),
			IPAddress:    c.ClientIP(),
			Details:      string(details),
			CreatedAt:    time.Now().UTC(),
		})
	}
}

func mapRouteToAction(route, method string) (domain.AuditAction, string) {
	switch {
	case route == "/api/v1/checkouts/:checkout" && method == http.MethodGet:
		return domain.AuditActionCheckout, "payment_intent"
	case route == "/api/v1/requests" && method == http.MethodPost:
		return domain.AuditActionCreateRequest, "payment_intent"
	case route == "/api/v1/me" && method == http.MethodPost:
		return domain.AuditActionSession, "session"
	}
	return "", ""
}
