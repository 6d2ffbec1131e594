package types

import (
	"time"
)

// Application status names resolved lazily by name lookup.
const (
	StatusPending   = "Pending"
	StatusScheduled = "Scheduled"
	StatusCompleted = "Completed"
)

type ApplicationStatus struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"column:name;not null;uniqueIndex" json:"name"`
}

func (ApplicationStatus) TableName() string { return "application_status" }

type ApplicationType struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"column:name;not null" json:"name"`
}

func (ApplicationType) TableName() string { return "application_type" }

// Application is the top-level case. Claims and surveys hang off it as
// sub-cases with their own category assignments.
type Application struct {
	ID           uint               `gorm:"primaryKey" json:"id"`
	ClientID     uint               `gorm:"not null;index" json:"client_id"`
	Client       *Client            `gorm:"constraint:OnDelete:CASCADE;foreignKey:ClientID;references:ID" json:"client,omitempty"`
	UserID       uint               `gorm:"not null;index" json:"user_id"`
	User         *User              `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	AssessorID   *uint              `gorm:"index" json:"assessor_id,omitempty"`
	Assessor     *User              `gorm:"constraint:OnDelete:CASCADE;foreignKey:AssessorID;references:ID" json:"assessor,omitempty"`
	StatusID     uint               `gorm:"column:application_status_id;not null;index" json:"application_status_id"`
	Status       *ApplicationStatus `gorm:"constraint:OnDelete:CASCADE;foreignKey:StatusID;references:ID" json:"status,omitempty"`
	DateAssigned *time.Time         `gorm:"column:date_assigned" json:"date_assigned,omitempty"`
	CreatedAt    time.Time          `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time          `gorm:"not null" json:"updated_at"`
}

func (Application) TableName() string { return "application" }

type ApplicationLog struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	ApplicationID uint         `gorm:"not null;index" json:"application_id"`
	Application   *Application `gorm:"constraint:OnDelete:CASCADE;foreignKey:ApplicationID;references:ID" json:"application,omitempty"`
	UserID        uint         `gorm:"not null" json:"user_id"`
	User          *User        `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Log           string       `gorm:"column:log;not null" json:"log"`
	CreatedAt     time.Time    `gorm:"not null" json:"created_at"`
}

func (ApplicationLog) TableName() string { return "application_log" }
