package models

import (
	"time"
)

// Client represents a tenant of the virtual office receiving mail
type Client struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"not null;size:255;index" json:"name"`
	PrimaryEmail    string    `gorm:"not null;size:255" json:"primary_email"`
	SecondaryEmails []string  `gorm:"serializer:json" json:"secondary_emails"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Mails []MailRecord `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for Client
func (Client) TableName() string {
	return "clients"
}
