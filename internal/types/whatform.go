package types

import (
	"time"
)

type WhatQuestionTitle struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	Title     string        `gorm:"column:title;not null" json:"title"`
	WhatID    uint          `gorm:"not null;index" json:"what_id"`
	What      *WhatCategory `gorm:"constraint:OnDelete:CASCADE;foreignKey:WhatID;references:ID" json:"what,omitempty"`
	CreatedAt time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time     `gorm:"not null" json:"updated_at"`
}

func (WhatQuestionTitle) TableName() string { return "what_question_title" }

type WhatQuestion struct {
	ID            uint               `gorm:"primaryKey" json:"id"`
	Question      string             `gorm:"column:question;not null" json:"question"`
	QuestionType  string             `gorm:"column:question_type;not null" json:"question_type"`
	IsMandatory   bool               `gorm:"column:is_mandatory;not null;default:false" json:"is_mandatory"`
	HasOtherField bool               `gorm:"column:has_other_field;not null;default:false" json:"has_other_field"`
	QuestionFlags `gorm:"embedded"`
	WhatTitleID   uint               `gorm:"not null;index" json:"what_title_id"`
	WhatTitle     *WhatQuestionTitle `gorm:"constraint:OnDelete:CASCADE;foreignKey:WhatTitleID;references:ID" json:"what_title,omitempty"`
	CreatedAt     time.Time          `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time          `gorm:"not null" json:"updated_at"`
}

func (WhatQuestion) TableName() string { return "what_question" }

type WhatQuestionOption struct {
	ID         uint          `gorm:"primaryKey" json:"id"`
	Option     string        `gorm:"column:option;not null" json:"option"`
	QuestionID uint          `gorm:"not null;index" json:"question_id"`
	Question   *WhatQuestion `gorm:"constraint:OnDelete:CASCADE;foreignKey:QuestionID;references:ID" json:"question,omitempty"`
	CreatedAt  time.Time     `gorm:"not null" json:"created_at"`
}

func (WhatQuestionOption) TableName() string { return "what_question_option" }

// WhatQuestionAnswer rows are insertion-ordered by id; the reconciler's
// first/last selection for other-enabled questions depends on that order.
type WhatQuestionAnswer struct {
	ID         uint          `gorm:"primaryKey" json:"id"`
	Answer     string        `gorm:"column:answer;not null" json:"answer"`
	QuestionID uint          `gorm:"not null;index" json:"question_id"`
	Question   *WhatQuestion `gorm:"constraint:OnDelete:CASCADE;foreignKey:QuestionID;references:ID" json:"question,omitempty"`
	ClaimID    uint          `gorm:"not null;index" json:"claim_id"`
	Claim      *Claim        `gorm:"constraint:OnDelete:CASCADE;foreignKey:ClaimID;references:ID" json:"claim,omitempty"`
	CreatedAt  time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time     `gorm:"not null" json:"updated_at"`
}

func (WhatQuestionAnswer) TableName() string { return "what_question_answer" }
