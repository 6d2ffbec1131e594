package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/bramwell/claimsdesk-backend/internal/logger"
	"github.com/bramwell/claimsdesk-backend/internal/types"
)

// HowFormRepo manages the dynamic form under a how category: titles,
// questions, options and claim answers.
type HowFormRepo interface {
	CreateTitle(ctx context.Context, tx *gorm.DB, title *types.HowQuestionTitle) (*types.HowQuestionTitle, error)
	RenameTitle(ctx context.Context, tx *gorm.DB, id uint, title string) error
	GetTitleByID(ctx context.Context, tx *gorm.DB, id uint) (*types.HowQuestionTitle, error)
	ListTitlesByHowIDs(ctx context.Context, tx *gorm.DB, howIDs []uint) ([]*types.HowQuestionTitle, error)
	DeleteTitleCascade(ctx context.Context, tx *gorm.DB, id uint) ([]TableCount, error)

	CreateQuestion(ctx context.Context, tx *gorm.DB, question *types.HowQuestion) (*types.HowQuestion, error)
	UpdateQuestion(ctx context.Context, tx *gorm.DB, question *types.HowQuestion) error
	GetQuestionByID(ctx context.Context, tx *gorm.DB, id uint) (*types.HowQuestion, error)
	ListQuestionsByTitleIDs(ctx context.Context, tx *gorm.DB, titleIDs []uint) ([]*types.HowQuestion, error)
	DeleteQuestionCascade(ctx context.Context, tx *gorm.DB, id uint) ([]TableCount, error)

	ReplaceOptions(ctx context.Context, tx *gorm.DB, questionID uint, options []string) error
	ListOptionsByQuestionIDs(ctx context.Context, tx *gorm.DB, questionIDs []uint) ([]*types.HowQuestionOption, error)

	CreateAnswer(ctx context.Context, tx *gorm.DB, answer *types.HowQuestionAnswer) (*types.HowQuestionAnswer, error)
	UpdateAnswerValue(ctx context.Context, tx *gorm.DB, id uint, answer string) error
	CountAnswers(ctx context.Context, tx *gorm.DB, questionID, claimID uint) (int64, error)
	FirstAnswer(ctx context.Context, tx *gorm.DB, questionID, claimID uint) (*types.HowQuestionAnswer, error)
	LastAnswer(ctx context.Context, tx *gorm.DB, questionID, claimID uint) (*types.HowQuestionAnswer, error)
	ListAnswersByQuestionIDs(ctx context.Context, tx *gorm.DB, questionIDs []uint, claimID uint) ([]*types.HowQuestionAnswer, error)
	ListFileAnswersByClaimID(ctx context.Context, tx *gorm.DB, claimID uint) ([]*types.HowQuestionAnswer, error)
	DeleteAnswersByClaimID(ctx context.Context, tx *gorm.DB, claimID uint) (int64, error)
}

type howFormRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewHowFormRepo(db *gorm.DB, baseLog *logger.Logger) HowFormRepo {
	return &howFormRepo{db: db, log: baseLog.With("repo", "HowFormRepo")}
}

func (r *howFormRepo) CreateTitle(ctx context.Context, tx *gorm.DB, title *types.HowQuestionTitle) (*types.HowQuestionTitle, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(title).Error; err != nil {
		return nil, err
	}
	return title, nil
}

func (r *howFormRepo) RenameTitle(ctx context.Context, tx *gorm.DB, id uint, title string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Model(&types.HowQuestionTitle{}).Where("id = ?", id).Update("title", title).Error
}

func (r *howFormRepo) GetTitleByID(ctx context.Context, tx *gorm.DB, id uint) (*types.HowQuestionTitle, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var title types.HowQuestionTitle
	if err := transaction.WithContext(ctx).First(&title, id).Error; err != nil {
		return nil, err
	}
	return &title, nil
}

func (r *howFormRepo) ListTitlesByHowIDs(ctx context.Context, tx *gorm.DB, howIDs []uint) ([]*types.HowQuestionTitle, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var titles []*types.HowQuestionTitle
	if len(howIDs) == 0 {
		return titles, nil
	}
	if err := transaction.WithContext(ctx).Where("how_id IN ?", howIDs).Order("id").Find(&titles).Error; err != nil {
		return nil, err
	}
	return titles, nil
}

func (r *howFormRepo) DeleteTitleCascade(ctx context.Context, tx *gorm.DB, id uint) ([]TableCount, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var counts []TableCount
	err := transaction.WithContext(ctx).Transaction(func(t *gorm.DB) error {
		var questionIDs []uint
		if err := t.Model(&types.HowQuestion{}).Where("how_title_id = ?", id).Pluck("id", &questionIDs).Error; err != nil {
			return err
		}
		var err error
		counts, err = deleteHowQuestions(t, questionIDs)
		if err != nil {
			return err
		}
		result := t.Delete(&types.HowQuestionTitle{}, id)
		if result.Error != nil {
			return result.Error
		}
		counts = append(counts, TableCount{Table: types.HowQuestionTitle{}.TableName(), Count: result.RowsAffected})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *howFormRepo) CreateQuestion(ctx context.Context, tx *gorm.DB, question *types.HowQuestion) (*types.HowQuestion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(question).Error; err != nil {
		return nil, err
	}
	return question, nil
}

func (r *howFormRepo) UpdateQuestion(ctx context.Context, tx *gorm.DB, question *types.HowQuestion) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(question).Error
}

func (r *howFormRepo) GetQuestionByID(ctx context.Context, tx *gorm.DB, id uint) (*types.HowQuestion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var question types.HowQuestion
	if err := transaction.WithContext(ctx).First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *howFormRepo) ListQuestionsByTitleIDs(ctx context.Context, tx *gorm.DB, titleIDs []uint) ([]*types.HowQuestion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var questions []*types.HowQuestion
	if len(titleIDs) == 0 {
		return questions, nil
	}
	if err := transaction.WithContext(ctx).Where("how_title_id IN ?", titleIDs).Order("id").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *howFormRepo) DeleteQuestionCascade(ctx context.Context, tx *gorm.DB, id uint) ([]TableCount, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var counts []TableCount
	err := transaction.WithContext(ctx).Transaction(func(t *gorm.DB) error {
		var err error
		counts, err = deleteHowQuestions(t, []uint{id})
		return err
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// ReplaceOptions swaps the full option set for a question. Edits never patch
// individual options in place.
func (r *howFormRepo) ReplaceOptions(ctx context.Context, tx *gorm.DB, questionID uint, options []string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Transaction(func(t *gorm.DB) error {
		if err := t.Where("question_id = ?", questionID).Delete(&types.HowQuestionOption{}).Error; err != nil {
			return err
		}
		for _, option := range options {
			row := types.HowQuestionOption{Option: option, QuestionID: questionID}
			if err := t.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *howFormRepo) ListOptionsByQuestionIDs(ctx context.Context, tx *gorm.DB, questionIDs []uint) ([]*types.HowQuestionOption, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var options []*types.HowQuestionOption
	if len(questionIDs) == 0 {
		return options, nil
	}
	if err := transaction.WithContext(ctx).Where("question_id IN ?", questionIDs).Order("id").Find(&options).Error; err != nil {
		return nil, err
	}
	return options, nil
}

func (r *howFormRepo) CreateAnswer(ctx context.Context, tx *gorm.DB, answer *types.HowQuestionAnswer) (*types.HowQuestionAnswer, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(answer).Error; err != nil {
		return nil, err
	}
	return answer, nil
}

func (r *howFormRepo) UpdateAnswerValue(ctx context.Context, tx *gorm.DB, id uint, answer string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Model(&types.HowQuestionAnswer{}).Where("id = ?", id).Update("answer", answer).Error
}

func (r *howFormRepo) CountAnswers(ctx context.Context, tx *gorm.DB, questionID, claimID uint) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).Model(&types.HowQuestionAnswer{}).
		Where("question_id = ? AND claim_id = ?", questionID, claimID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *howFormRepo) FirstAnswer(ctx context.Context, tx *gorm.DB, questionID, claimID uint) (*types.HowQuestionAnswer, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var answer types.HowQuestionAnswer
	if err := transaction.WithContext(ctx).
		Where("question_id = ? AND claim_id = ?", questionID, claimID).
		Order("id ASC").
		First(&answer).Error; err != nil {
		return nil, err
	}
	return &answer, nil
}

func (r *howFormRepo) LastAnswer(ctx context.Context, tx *gorm.DB, questionID, claimID uint) (*types.HowQuestionAnswer, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var answer types.HowQuestionAnswer
	if err := transaction.WithContext(ctx).
		Where("question_id = ? AND claim_id = ?", questionID, claimID).
		Order("id DESC").
		First(&answer).Error; err != nil {
		return nil, err
	}
	return &answer, nil
}

func (r *howFormRepo) ListAnswersByQuestionIDs(ctx context.Context, tx *gorm.DB, questionIDs []uint, claimID uint) ([]*types.HowQuestionAnswer, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var answers []*types.HowQuestionAnswer
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
func (r *howFormRepo) ListFileAnswersByClaimID(ctx context.Context, tx *gorm.DB, claimID uint) ([]*types.HowQuestionAnswer, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var answers []*types.HowQuestionAnswer
	if err := transaction.WithContext(ctx).
		Joins("JOIN how_question ON how_question.id = how_question_answer.question_id").
		Where("how_question_answer.claim_id = ? AND how_question.has_file = ?", claimID, true).
		Find(&answers).Error; err != nil {
		return nil, err
	}
	return answers, nil
}

func (r *howFormRepo) DeleteAnswersByClaimID(ctx context.Context, tx *gorm.DB, claimID uint) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	result := transaction.WithContext(ctx).Where("claim_id = ?", claimID).Delete(&types.HowQuestionAnswer{})
	return result.RowsAffected, result.Error
}

func deleteHowQuestions(t *gorm.DB, questionIDs []uint) ([]TableCount, error) {
	counts := []TableCount{}
	steps := []struct {
		table string
		run   func() *gorm.DB
	}{
		{types.HowQuestionAnswer{}.TableName(), func() *gorm.DB {
			return deleteIn(t, &types.HowQuestionAnswer{}, "question_id", questionIDs)
		}},
		{types.HowQuestionOption{}.TableName(), func() *gorm.DB {
			return deleteIn(t, &types.HowQuestionOption{}, "question_id", questionIDs)
		}},
		{types.HowQuestion{}.TableName(), func() *gorm.DB {
			return deleteIn(t, &types.HowQuestion{}, "id", questionIDs)
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
