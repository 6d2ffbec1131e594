package types

import (
	"time"
)

type HowQuestionTitle struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	Title     string       `gorm:"column:title;not null" json:"title"`
	HowID     uint         `gorm:"not null;index" json:"how_id"`
	How       *HowCategory `gorm:"constraint:OnDelete:CASCADE;foreignKey:HowID;references:ID" json:"how,omitempty"`
	CreatedAt time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null" json:"updated_at"`
}

func (HowQuestionTitle) TableName() string { return "how_question_title" }

type HowQuestion struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	Question      string            `gorm:"column:question;not null" json:"question"`
	QuestionType  string            `gorm:"column:question_type;not null" json:"question_type"`
	IsMandatory   bool              `gorm:"column:is_mandatory;not null;default:false" json:"is_mandatory"`
	HasOtherField bool              `gorm:"column:has_other_field;not null;default:false" json:"has_other_field"`
	QuestionFlags `gorm:"embedded"`
	HowTitleID    uint              `gorm:"not null;index" json:"how_title_id"`
	HowTitle      *HowQuestionTitle `gorm:"constraint:OnDelete:CASCADE;foreignKey:HowTitleID;references:ID" json:"how_title,omitempty"`
	CreatedAt     time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"not null" json:"updated_at"`
}

func (HowQuestion) TableName() string { return "how_question" }

type HowQuestionOption struct {
	ID         uint         `gorm:"primaryKey" json:"id"`
	Option     string       `gorm:"column:option;not null" json:"option"`
	QuestionID uint         `gorm:"not null;index" json:"question_id"`
	Question   *HowQuestion `gorm:"constraint:OnDelete:CASCADE;foreignKey:QuestionID;references:ID" json:"question,omitempty"`
	CreatedAt  time.Time    `gorm:"not null" json:"created_at"`
}

func (HowQuestionOption) TableName() string { return "how_question_option" }

type HowQuestionAnswer struct {
	ID         uint         `gorm:"primaryKey" json:"id"`
	Answer     string       `gorm:"column:answer;not null" json:"answer"`
	QuestionID uint         `gorm:"not null;index" json:"question_id"`
	Question   *HowQuestion `gorm:"constraint:OnDelete:CASCADE;foreignKey:QuestionID;references:ID" json:"question,omitempty"`
	ClaimID    uint         `gorm:"not null;index" json:"claim_id"`
	Claim      *Claim       `gorm:"constraint:OnDelete:CASCADE;foreignKey:ClaimID;references:ID" json:"claim,omitempty"`
	CreatedAt  time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time    `gorm:"not null" json:"updated_at"`
}

func (HowQuestionAnswer) TableName() string { return "how_question_answer" }
