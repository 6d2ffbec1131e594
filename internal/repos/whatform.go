package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/bramwell/claimsdesk-backend/internal/logger"
	"github.com/bramwell/claimsdesk-backend/internal/types"
)

// WhatFormRepo manages the dynamic form under a what category: titles,
// questions, options and claim answers.
type WhatFormRepo interface {
	CreateTitle(ctx context.Context, tx *gorm.DB, title *types.WhatQuestionTitle) (*types.WhatQuestionTitle, error)
	RenameTitle(ctx context.Context, tx *gorm.DB, id uint, title string) error
	GetTitleByID(ctx context.Context, tx *gorm.DB, id uint) (*types.WhatQuestionTitle, error)
	ListTitlesByWhatIDs(ctx context.Context, tx *gorm.DB, whatIDs []uint) ([]*types.WhatQuestionTitle, error)
	DeleteTitleCascade(ctx context.Context, tx *gorm.DB, id uint) ([]TableCount, error)

	CreateQuestion(ctx context.Context, tx *gorm.DB, question *types.WhatQuestion) (*types.WhatQuestion, error)
	UpdateQuestion(ctx context.Context, tx *gorm.DB, question *types.WhatQuestion) error
	GetQuestionByID(ctx context.Context, tx *gorm.DB, id uint) (*types.WhatQuestion, error)
	ListQuestionsByTitleIDs(ctx context.Context, tx *gorm.DB, titleIDs []uint) ([]*types.WhatQuestion, error)
	DeleteQuestionCascade(ctx context.Context, tx *gorm.DB, id uint) ([]TableCount, error)

	ReplaceOptions(ctx context.Context, tx *gorm.DB, questionID uint, options []string) error
	ListOptionsByQuestionIDs(ctx context.Context, tx *gorm.DB, questionIDs []uint) ([]*types.WhatQuestionOption, error)

	CreateAnswer(ctx context.Context, tx *gorm.DB, answer *types.WhatQuestionAnswer) (*types.WhatQuestionAnswer, error)
	UpdateAnswerValue(ctx context.Context, tx *gorm.DB, id uint, answer string) error
	CountAnswers(ctx context.Context, tx *gorm.DB, questionID, claimID uint) (int64, error)
	FirstAnswer(ctx context.Context, tx *gorm.DB, questionID, claimID uint) (*types.WhatQuestionAnswer, error)
	LastAnswer(ctx context.Context, tx *gorm.DB, questionID, claimID uint) (*types.WhatQuestionAnswer, error)
	ListAnswersByQuestionIDs(ctx context.Context, tx *gorm.DB, questionIDs []uint, claimID uint) ([]*types.WhatQuestionAnswer, error)
	ListFileAnswersByClaimID(ctx context.Context, tx *gorm.DB, claimID uint) ([]*types.WhatQuestionAnswer, error)
	DeleteAnswersByClaimID(ctx context.Context, tx *gorm.DB, claimID uint) (int64, error)
}

type whatFormRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWhatFormRepo(db *gorm.DB, baseLog *logger.Logger) WhatFormRepo {
	return &whatFormRepo{db: db, log: baseLog.With("repo", "WhatFormRepo")}
}

func (r *whatFormRepo) CreateTitle(ctx context.Context, tx *gorm.DB, title *types.WhatQuestionTitle) (*types.WhatQuestionTitle, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(title).Error; err != nil {
		return nil, err
	}
	return title, nil
}

func (r *whatFormRepo) RenameTitle(ctx context.Context, tx *gorm.DB, id uint, title string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Model(&types.WhatQuestionTitle{}).Where("id = ?", id).Update("title", title).Error
}

func (r *whatFormRepo) GetTitleByID(ctx context.Context, tx *gorm.DB, id uint) (*types.WhatQuestionTitle, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var title types.WhatQuestionTitle
	if err := transaction.WithContext(ctx).First(&title, id).Error; err != nil {
		return nil, err
	}
	return &title, nil
}

func (r *whatFormRepo) ListTitlesByWhatIDs(ctx context.Context, tx *gorm.DB, whatIDs []uint) ([]*types.WhatQuestionTitle, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var titles []*types.WhatQuestionTitle
	if len(whatIDs) == 0 {
		return titles, nil
	}
	if err := transaction.WithContext(ctx).Where("what_id IN ?", whatIDs).Order("id").Find(&titles).Error; err != nil {
		return nil, err
	}
	return titles, nil
}

func (r *whatFormRepo) DeleteTitleCascade(ctx context.Context, tx *gorm.DB, id uint) ([]TableCount, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var counts []TableCount
	err := transaction.WithContext(ctx).Transaction(func(t *gorm.DB) error {
		var questionIDs []uint
		if err := t.Model(&types.WhatQuestion{}).Where("what_title_id = ?", id).Pluck("id", &questionIDs).Error; err != nil {
			return err
		}
		var err error
		counts, err = deleteWhatQuestions(t, questionIDs)
		if err != nil {
			return err
		}
		result := t.Delete(&types.WhatQuestionTitle{}, id)
		if result.Error != nil {
			return result.Error
		}
		counts = append(counts, TableCount{Table: types.WhatQuestionTitle{}.TableName(), Count: result.RowsAffected})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *whatFormRepo) CreateQuestion(ctx context.Context, tx *gorm.DB, question *types.WhatQuestion) (*types.WhatQuestion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(question).Error; err != nil {
		return nil, err
	}
	return question, nil
}

func (r *whatFormRepo) UpdateQuestion(ctx context.Context, tx *gorm.DB, question *types.WhatQuestion) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(question).Error
}

func (r *whatFormRepo) GetQuestionByID(ctx context.Context, tx *gorm.DB, id uint) (*types.WhatQuestion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var question types.WhatQuestion
	if err := transaction.WithContext(ctx).First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *whatFormRepo) ListQuestionsByTitleIDs(ctx context.Context, tx *gorm.DB, titleIDs []uint) ([]*types.WhatQuestion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var questions []*types.WhatQuestion
	if len(titleIDs) == 0 {
		return questions, nil
	}
	if err := transaction.WithContext(ctx).Where("what_title_id IN ?", titleIDs).Order("id").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *whatFormRepo) DeleteQuestionCascade(ctx context.Context, tx *gorm.DB, id uint) ([]TableCount, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var counts []TableCount
	err := transaction.WithContext(ctx).Transaction(func(t *gorm.DB) error {
		var err error
		counts, err = deleteWhatQuestions(t, []uint{id})
		return err
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// ReplaceOptions swaps the full option set for a question. Edits never patch
// individual options in place.
func (r *whatFormRepo) ReplaceOptions(ctx context.Context, tx *gorm.DB, questionID uint, options []string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Transaction(func(t *gorm.DB) error {
		if err := t.Where("question_id = ?", questionID).Delete(&types.WhatQuestionOption{}).Error; err != nil {
			return err
		}
		for _, option := range options {
			row := types.WhatQuestionOption{Option: option, QuestionID: questionID}
			if err := t.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *whatFormRepo) ListOptionsByQuestionIDs(ctx context.Context, tx *gorm.DB, questionIDs []uint) ([]*types.WhatQuestionOption, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var options []*types.WhatQuestionOption
	if len(questionIDs) == 0 {
		return options, nil
	}
	if err := transaction.WithContext(ctx).Where("question_id IN ?", questionIDs).Order("id").Find(&options).Error; err != nil {
		return nil, err
	}
	return options, nil
}

func (r *whatFormRepo) CreateAnswer(ctx context.Context, tx *gorm.DB, answer *types.WhatQuestionAnswer) (*types.WhatQuestionAnswer, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(answer).Error; err != nil {
		return nil, err
	}
	return answer, nil
}

func (r *whatFormRepo) UpdateAnswerValue(ctx context.Context, tx *gorm.DB, id uint, answer string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Model(&types.WhatQuestionAnswer{}).Where("id = ?", id).Update("answer", answer).Error
}

func (r *whatFormRepo) CountAnswers(ctx context.Context, tx *gorm.DB, questionID, claimID uint) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).Model(&types.WhatQuestionAnswer{}).
		Where("question_id = ? AND claim_id = ?", questionID, claimID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *whatFormRepo) FirstAnswer(ctx context.Context, tx *gorm.DB, questionID, claimID uint) (*types.WhatQuestionAnswer, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var answer types.WhatQuestionAnswer
	if err := transaction.WithContext(ctx).
		Where("question_id = ? AND claim_id = ?", questionID, claimID).
		Order("id ASC").
		First(&answer).Error; err != nil {
		return nil, err
	}
	return &answer, nil
}

func (r *whatFormRepo) LastAnswer(ctx context.Context, tx *gorm.DB, questionID, claimID uint) (*types.WhatQuestionAnswer, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var answer types.WhatQuestionAnswer
	if err := transaction.WithContext(ctx).
		Where("question_id = ? AND claim_id = ?", questionID, claimID).
		Order("id DESC").
		First(&answer).Error; err != nil {
		return nil, err
	}
	return &answer, nil
}

func (r *whatFormRepo) ListAnswersByQuestionIDs(ctx context.Context, tx *gorm.DB, questionIDs []uint, claimID uint) ([]*types.WhatQuestionAnswer, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var answers []*types.WhatQuestionAnswer
	if len(questionIDs) == 0 {
		return answers, nil
	}
	if err := transaction.WithContext(ctx).
		Where("question_id IN ? AND claim_id = ?", questionIDs, claimID).
		Order("id").
		Find(&answers).Error; err != nil {
		return nil, err
	}
	return answers, nil
}

// ListFileAnswersByClaimID returns answers whose question stores an uploaded
// file, so callers can remove the stored objects before purging rows.
func (r *whatFormRepo) ListFileAnswersByClaimID(ctx context.Context, tx *gorm.DB, claimID uint) ([]*types.WhatQuestionAnswer, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var answers []*types.WhatQuestionAnswer
	if err := transaction.WithContext(ctx).
		Joins("JOIN what_question ON what_question.id = what_question_answer.question_id").
		Where("what_question_answer.claim_id = ? AND what_question.has_file = ?", claimID, true).
		Find(&answers).Error; err != nil {
		return nil, err
	}
	return answers, nil
}

func (r *whatFormRepo) DeleteAnswersByClaimID(ctx context.Context, tx *gorm.DB, claimID uint) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	result := transaction.WithContext(ctx).Where("claim_id = ?", claimID).Delete(&types.WhatQuestionAnswer{})
	return result.RowsAffected, result.Error
}

func deleteWhatQuestions(t *gorm.DB, questionIDs []uint) ([]TableCount, error) {
	counts := []TableCount{}
	steps := []struct {
		table string
		run   func() *gorm.DB
	}{
		{types.WhatQuestionAnswer{}.TableName(), func() *gorm.DB {
			return deleteIn(t, &types.WhatQuestionAnswer{}, "question_id", questionIDs)
		}},
		{types.WhatQuestionOption{}.TableName(), func() *gorm.DB {
			return deleteIn(t, &types.WhatQuestionOption{}, "question_id", questionIDs)
		}},
		{types.WhatQuestion{}.TableName(), func() *gorm.DB {
			return deleteIn(t, &types.WhatQuestion{}, "id", questionIDs)
		}},
	}
	for _, step := range steps {
		result := step.run()
		if result != nil && result.Error != nil {
			return nil, result.Error
		}
		var n int64
		if result != nil {
			n = result.RowsAffected
		}
		counts = append(counts, TableCount{Table: step.table, Count: n})
	}
	return counts, nil
}
