package models

import (
	"time"
)

// Mail record status values
const (
	MailStatusPending  = "pending"
	MailStatusNotified = "notified"
)

// MailRecord represents one dispatched batch of scanned mail for a client
type MailRecord struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ClientID   uint      `gorm:"not null;index" json:"client_id"`
	ImageURLs  []string  `gorm:"serializer:json" json:"image_urls"`
	Notes      string    `json:"notes,omitempty"`
	Status     string    `gorm:"size:50;default:pending" json:"status"`
	Urgency    int       `gorm:"default:1" json:"urgency"`
	ReceivedAt time.Time `gorm:"autoCreateTime" json:"received_at"`

	// Relationships
	Client Client `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for MailRecord
func (MailRecord) TableName() string {
	return "mails"
}
