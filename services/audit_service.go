package services

import (
	"encoding/json"

	"tabelionato_app_go/models"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AuditContext contains contextual information for audit logging
type AuditContext struct {
	UserID    string
	UserName  string
	UserRole  string
	IPAddress string
	UserAgent string
}

// LogAuditEvent creates a new audit log entry asynchronously
func LogAuditEvent(
	db *gorm.DB,
	ctx AuditContext,
	action models.AuditAction,
	resourceType string,
	resourceID string,
	resourceName string,
	description string,
	oldValues interface{},
	newValues interface{},
) {
	auditLog := buildAuditLog(ctx, action, resourceType, resourceID, resourceName, description, oldValues, newValues)

	// Run in goroutine to avoid blocking the request
	go func() {
		if err := db.Create(&auditLog).Error; err != nil {
			log.Error().Err(err).Str("resource", resourceType).Str("resource_id", resourceID).Msg("failed to create audit log")
		}
	}()
}

func buildAuditLog(
	ctx AuditContext,
	action models.AuditAction,
	resourceType, resourceID, resourceName, description string,
	oldValues, newValues interface{},
) models.AuditLog {
	return models.AuditLog{
		UserID:       ptrIfNotEmpty(ctx.UserID),
		UserName:     ctx.UserName,
		UserRole:     ctx.UserRole,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		ResourceName: resourceName,
		Action:       action,
		Description:  description,
		OldValues:    marshalAuditValues(oldValues),
		NewValues:    marshalAuditValues(newValues),
		IPAddress:    ctx.IPAddress,
		UserAgent:    ctx.UserAgent,
	}
}

func marshalAuditValues(v interface{}) string {
	if v == nil {
		return ""
	}
	bytes, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(bytes)
}

// GetResourceAuditHistory retrieves the audit history for a specific resource
func GetResourceAuditHistory(db *gorm.DB, resourceType, resourceID string) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := db.Where("resource_type = ? AND resource_id = ?", resourceType, resourceID).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, err
}

// LogSecurityAudit logs a security event and persists it to the audit trail
func LogSecurityAudit(db *gorm.DB, ctx AuditContext, eventType, details string) {
	LogSecurityEvent(eventType, ctx.UserID, details)
	LogAuditEvent(db, ctx, models.AuditActionSecurity, "SECURITY_EVENT", eventType, "", details, nil, nil)
}
