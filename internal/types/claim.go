package types

import (
	"time"
)

// Claim is a sub-case of an application. An application may carry several
// claims, each independently assigned a cause/what/how category set.
type Claim struct {
	ID                uint             `gorm:"primaryKey" json:"id"`
	ApplicationID     uint             `gorm:"not null;index" json:"application_id"`
	Application       *Application     `gorm:"constraint:OnDelete:CASCADE;foreignKey:ApplicationID;references:ID" json:"application,omitempty"`
	ApplicationTypeID uint             `gorm:"not null;index" json:"application_type_id"`
	ApplicationType   *ApplicationType `gorm:"constraint:OnDelete:CASCADE;foreignKey:ApplicationTypeID;references:ID" json:"application_type,omitempty"`
	CreatedAt         time.Time        `gorm:"not null" json:"created_at"`
}

func (Claim) TableName() string { return "claim" }

// CauseCategory is the top of the claim category tree, scoped to an
// application type. What and how categories hang beneath a cause.
type CauseCategory struct {
	ID                uint             `gorm:"primaryKey" json:"id"`
	Name              string           `gorm:"column:name;not null" json:"name"`
	ApplicationTypeID uint             `gorm:"not null;index" json:"application_type_id"`
	ApplicationType   *ApplicationType `gorm:"constraint:OnDelete:CASCADE;foreignKey:ApplicationTypeID;references:ID" json:"application_type,omitempty"`
	CreatedAt         time.Time        `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time        `gorm:"not null" json:"updated_at"`
}

func (CauseCategory) TableName() string { return "cause_category" }

type WhatCategory struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"column:name;not null" json:"name"`
	CauseID   uint           `gorm:"not null;index" json:"cause_id"`
	Cause     *CauseCategory `gorm:"constraint:OnDelete:CASCADE;foreignKey:CauseID;references:ID" json:"cause,omitempty"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
}

func (WhatCategory) TableName() string { return "what_category" }

type HowCategory struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"column:name;not null" json:"name"`
	CauseID   uint           `gorm:"not null;index" json:"cause_id"`
	Cause     *CauseCategory `gorm:"constraint:OnDelete:CASCADE;foreignKey:CauseID;references:ID" json:"cause,omitempty"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
}

func (HowCategory) TableName() string { return "how_category" }

// ClaimWhat, ClaimHow and ClaimCause are one-per-claim assignment rows, not
// versioned history. Reassignment updates in place and purges stale answers.
type ClaimWhat struct {
	ID      uint          `gorm:"primaryKey" json:"id"`
	ClaimID uint          `gorm:"not null;uniqueIndex" json:"claim_id"`
	Claim   *Claim        `gorm:"constraint:OnDelete:CASCADE;foreignKey:ClaimID;references:ID" json:"claim,omitempty"`
	WhatID  uint          `gorm:"not null;index" json:"what_id"`
	What    *WhatCategory `gorm:"constraint:OnDelete:CASCADE;foreignKey:WhatID;references:ID" json:"what,omitempty"`
}

func (ClaimWhat) TableName() string { return "claim_what" }

type ClaimHow struct {
	ID      uint         `gorm:"primaryKey" json:"id"`
	ClaimID uint         `gorm:"not null;uniqueIndex" json:"claim_id"`
	Claim   *Claim       `gorm:"constraint:OnDelete:CASCADE;foreignKey:ClaimID;references:ID" json:"claim,omitempty"`
	HowID   uint         `gorm:"not null;index" json:"how_id"`
	How     *HowCategory `gorm:"constraint:OnDelete:CASCADE;foreignKey:HowID;references:ID" json:"how,omitempty"`
}

func (ClaimHow) TableName() string { return "claim_how" }

type ClaimCause struct {
	ID      uint           `gorm:"primaryKey" json:"id"`
	ClaimID uint           `gorm:"not null;uniqueIndex" json:"claim_id"`
	Claim   *Claim         `gorm:"constraint:OnDelete:CASCADE;foreignKey:ClaimID;references:ID" json:"claim,omitempty"`
	CauseID uint           `gorm:"not null;index" json:"cause_id"`
	Cause   *CauseCategory `gorm:"constraint:OnDelete:CASCADE;foreignKey:CauseID;references:ID" json:"cause,omitempty"`
}

func (ClaimCause) TableName() string { return "claim_cause" }
