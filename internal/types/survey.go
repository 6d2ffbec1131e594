package types

import (
	"time"
)

// Survey is the survey-side sub-case, mirroring Claim.
type Survey struct {
	ID                uint             `gorm:"primaryKey" json:"id"`
	ApplicationID     uint             `gorm:"not null;index" json:"application_id"`
	Application       *Application     `gorm:"constraint:OnDelete:CASCADE;foreignKey:ApplicationID;references:ID" json:"application,omitempty"`
	ApplicationTypeID uint             `gorm:"not null;index" json:"application_type_id"`
	ApplicationType   *ApplicationType `gorm:"constraint:OnDelete:CASCADE;foreignKey:ApplicationTypeID;references:ID" json:"application_type,omitempty"`
	CreatedAt         time.Time        `gorm:"not null" json:"created_at"`
}

func (Survey) TableName() string { return "survey" }

// SurveyCategory groups survey content per application type, e.g. Risk or
// Inspection. Category types sit beneath it, titles beneath those.
type SurveyCategory struct {
	ID                uint             `gorm:"primaryKey" json:"id"`
	Name              string           `gorm:"column:name;not null" json:"name"`
	ApplicationTypeID uint             `gorm:"not null;index" json:"application_type_id"`
	ApplicationType   *ApplicationType `gorm:"constraint:OnDelete:CASCADE;foreignKey:ApplicationTypeID;references:ID" json:"application_type,omitempty"`
	CreatedAt         time.Time        `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time        `gorm:"not null" json:"updated_at"`
}

func (SurveyCategory) TableName() string { return "survey_category" }

type SurveyCategoryType struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	Name       string          `gorm:"column:name;not null" json:"name"`
	CategoryID uint            `gorm:"not null;index" json:"category_id"`
	Category   *SurveyCategory `gorm:"constraint:OnDelete:CASCADE;foreignKey:CategoryID;references:ID" json:"category,omitempty"`
	CreatedAt  time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"not null" json:"updated_at"`
}

func (SurveyCategoryType) TableName() string { return "survey_category_type" }

type SurveyTitle struct {
	ID             uint                `gorm:"primaryKey" json:"id"`
	Name           string              `gorm:"column:name;not null" json:"name"`
	CategoryTypeID uint                `gorm:"not null;index" json:"category_type_id"`
	CategoryType   *SurveyCategoryType `gorm:"constraint:OnDelete:CASCADE;foreignKey:CategoryTypeID;references:ID" json:"category_type,omitempty"`
	CreatedAt      time.Time           `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time           `gorm:"not null" json:"updated_at"`
}

func (SurveyTitle) TableName() string { return "survey_title" }

type SurveyQuestion struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	Question      string       `gorm:"column:question;not null" json:"question"`
	Number        int          `gorm:"column:number;not null;default:0" json:"number"`
	QuestionType  string       `gorm:"column:question_type;not null" json:"question_type"`
	IsMandatory   bool         `gorm:"column:is_mandatory;not null;default:false" json:"is_mandatory"`
	HasOtherField bool         `gorm:"column:has_other_field;not null;default:false" json:"has_other_field"`
	QuestionFlags `gorm:"embedded"`
	TitleID       uint         `gorm:"not null;index" json:"title_id"`
	Title         *SurveyTitle `gorm:"constraint:OnDelete:CASCADE;foreignKey:TitleID;references:ID" json:"title,omitempty"`
	CreatedAt     time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"not null" json:"updated_at"`
}

func (SurveyQuestion) TableName() string { return "survey_question" }

type SurveyQuestionOption struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	Option     string          `gorm:"column:option;not null" json:"option"`
	QuestionID uint            `gorm:"not null;index" json:"question_id"`
	Question   *SurveyQuestion `gorm:"constraint:OnDelete:CASCADE;foreignKey:QuestionID;references:ID" json:"question,omitempty"`
	CreatedAt  time.Time       `gorm:"not null" json:"created_at"`
}

func (SurveyQuestionOption) TableName() string { return "survey_question_option" }

// SurveyAnswer denormalizes the full category path alongside the question
// reference so report reads group by category without walking the tree.
type SurveyAnswer struct {
	ID             uint                `gorm:"primaryKey" json:"id"`
	Answer         string              `gorm:"column:answer;not null" json:"answer"`
	QuestionID     uint                `gorm:"not null;index" json:"question_id"`
	Question       *SurveyQuestion     `gorm:"constraint:OnDelete:CASCADE;foreignKey:QuestionID;references:ID" json:"question,omitempty"`
	SurveyID       uint                `gorm:"not null;index" json:"survey_id"`
	Survey         *Survey             `gorm:"constraint:OnDelete:CASCADE;foreignKey:SurveyID;references:ID" json:"survey,omitempty"`
	CategoryID     uint                `gorm:"not null;index" json:"category_id"`
	Category       *SurveyCategory     `gorm:"constraint:OnDelete:CASCADE;foreignKey:CategoryID;references:ID" json:"category,omitempty"`
	CategoryTypeID uint                `gorm:"not null;index" json:"category_type_id"`
	CategoryType   *SurveyCategoryType `gorm:"constraint:OnDelete:CASCADE;foreignKey:CategoryTypeID;references:ID" json:"category_type,omitempty"`
	TitleID        uint                `gorm:"not null;index" json:"title_id"`
	Title          *SurveyTitle        `gorm:"constraint:OnDelete:CASCADE;foreignKey:TitleID;references:ID" json:"title,omitempty"`
	CreatedAt      time.Time           `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time           `gorm:"not null" json:"updated_at"`
}

func (SurveyAnswer) TableName() string { return "survey_answer" }
