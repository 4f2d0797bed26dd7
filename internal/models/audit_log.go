package models

import (
	"time"
)

// AuditLog records one administrative action with free-form metadata
type AuditLog struct {
	ID        uint                   `gorm:"primaryKey" json:"id"`
	Email     string                 `gorm:"size:255" json:"email"`
	UserName  string                 `gorm:"size:255" json:"user_name"`
	Action    string                 `gorm:"not null;size:100;index" json:"action"`
	Meta      map[string]interface{} `gorm:"serializer:json" json:"meta,omitempty"`
	CreatedAt time.Time              `gorm:"autoCreateTime;index" json:"created_at"`
}

// TableName returns the table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}
