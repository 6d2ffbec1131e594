package types

import (
	"time"
)

// Assessment is the scheduled video assessment, one per application. EventID
// refers to the calendar event backing the meeting; VideoLink is backfilled
// from the event's attachments after the meeting completes.
type Assessment struct {
	ID                uint         `gorm:"primaryKey" json:"id"`
	ApplicationID     uint         `gorm:"not null;uniqueIndex" json:"application_id"`
	Application       *Application `gorm:"constraint:OnDelete:CASCADE;foreignKey:ApplicationID;references:ID" json:"application,omitempty"`
	Message           string       `gorm:"column:message" json:"message"`
	Summary           string       `gorm:"column:summary" json:"summary"`
	ScheduledDateTime time.Time    `gorm:"column:scheduled_date_time" json:"scheduled_date_time"`
	EndDateTime       time.Time    `gorm:"column:end_date_time" json:"end_date_time"`
	EventID           string       `gorm:"column:event_id" json:"event_id"`
	VideoLink         string       `gorm:"column:video_link" json:"video_link"`
	ClientLocation    string       `gorm:"column:client_location" json:"client_location"`
	CreatedAt         time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time    `gorm:"not null" json:"updated_at"`
}

func (Assessment) TableName() string { return "assessment" }

// AssessmentNote is a file-backed note captured during an assessment,
// attached to a specific claim. File holds the storage object key.
type AssessmentNote struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	AssessmentID uint        `gorm:"not null;index" json:"assessment_id"`
	Assessment   *Assessment `gorm:"constraint:OnDelete:CASCADE;foreignKey:AssessmentID;references:ID" json:"assessment,omitempty"`
	ClaimID      uint        `gorm:"not null;index" json:"claim_id"`
	Claim        *Claim      `gorm:"constraint:OnDelete:CASCADE;foreignKey:ClaimID;references:ID" json:"claim,omitempty"`
	Note         string      `gorm:"column:note" json:"note"`
	File         string      `gorm:"column:file" json:"file"`
	CreatedAt    time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time   `gorm:"not null" json:"updated_at"`
}

func (AssessmentNote) TableName() string { return "assessment_note" }

type VideoRoom struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	AssessmentID uint        `gorm:"not null;uniqueIndex" json:"assessment_id"`
	Assessment   *Assessment `gorm:"constraint:OnDelete:CASCADE;foreignKey:AssessmentID;references:ID" json:"assessment,omitempty"`
	RoomName     string      `gorm:"column:room_name;not null" json:"room_name"`
	RoomSID      string      `gorm:"column:room_sid" json:"room_sid"`
	RoomStatus   string      `gorm:"column:room_status" json:"room_status"`
	CreatedAt    time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time   `gorm:"not null" json:"updated_at"`
}

func (VideoRoom) TableName() string { return "video_room" }

type VideoRecording struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	VideoRoomID  uint       `gorm:"not null;uniqueIndex" json:"video_room_id"`
	VideoRoom    *VideoRoom `gorm:"constraint:OnDelete:CASCADE;foreignKey:VideoRoomID;references:ID" json:"video_room,omitempty"`
	RecordingSID string     `gorm:"column:recording_sid" json:"recording_sid"`
	RecordingURL string     `gorm:"column:recording_url" json:"recording_url"`
	CreatedAt    time.Time  `gorm:"not null" json:"created_at"`
}

func (VideoRecording) TableName() string { return "video_recording" }
