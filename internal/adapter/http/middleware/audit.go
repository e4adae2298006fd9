package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"chappi-wallet/internal/core/domain"
	"chappi-wallet/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuditLog records successful write operations. Request bodies are never
// copied into the audit trail; handlers name the affected resource with
// SetAuditResource.
func AuditLog(auditSvc ports.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Status() < 200 || c.Writer.Status() >= 300 {
			return
		}
		if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut && c.Request.Method != http.MethodDelete {
			return
		}

		action, resourceType := mapRouteToAction(c.FullPath(), c.Request.Method)
		if action == "" {
			return
		}

		details, _ := json.Marshal(map[string]interface{}{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"request_id": c.GetString(CtxRequestID),
		})

		auditSvc.Log(c.Request.Context(), &domain.AuditLog{
			ID:           uuid.New(),
			Subject:      c.GetString(CtxSubject),
			Action:       action,
			ResourceType: resourceType,
			ResourceID:   c.GetString(CtxResourceID),
			IPAddress:    c.ClientIP(),
			Details:      string(details),
			CreatedAt:    time.Now(),
		})
	}
}

// SetAuditResource names the resource a handler acted on.
func SetAuditResource(c *gin.Context, id string) {
	c.Set(CtxResourceID, id)
}

func mapRouteToAction(route, method string) (domain.AuditAction, string) {
	if method != http.MethodPost {
		return "", ""
	}
	switch route {
	case "/api/v1/wallets":
		return domain.AuditActionWalletGenerate, "wallet"
	case "/api/v1/wallets/import":
		return domain.AuditActionWalletImport, "wallet"
	case "/api/v1/usernames":
		return domain.AuditActionUsernameRegister, "username"
	case "/federation/register":
		return domain.AuditActionFederationSync, "username"
	case "/api/v1/accounts/:id/fund":
		return domain.AuditActionAccountFund, "account"
	case "/api/v1/payments":
		return domain.AuditActionPayment, "payment"
	}
	return "", ""
}
