package middleware

import (
	"tabelionato_app_go/services"

	"github.com/labstack/echo/v4"
)

const ContextKeyAuditContext = "audit_context"

// AuditContext captures who is acting for the audit log
func AuditContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(ContextKeyAuditContext, BuildAuditContext(c))
			return next(c)
		}
	}
}

// BuildAuditContext reads the current user and request metadata
func BuildAuditContext(c echo.Context) services.AuditContext {
	ctx := services.AuditContext{
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	}
	if user := GetCurrentUser(c); user != nil {
		ctx.UserID = user.ID
		ctx.UserName = user.FullName()
		ctx.UserRole = user.Role
	}
	return ctx
}

// GetAuditContext retrieves the audit context from the request
func GetAuditContext(c echo.Context) services.AuditContext {
	if ctx, ok := c.Get(ContextKeyAuditContext).(services.AuditContext); ok {
		return ctx
	}
	return BuildAuditContext(c)
}
