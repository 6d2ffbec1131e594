package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/bramwell/claimsdesk-backend/internal/logger"
	"github.com/bramwell/claimsdesk-backend/internal/types"
)

// SurveyFormRepo manages survey titles, questions, options and answers.
// Answers carry the denormalized category path set at write time.
type SurveyFormRepo interface {
	CreateTitle(ctx context.Context, tx *gorm.DB, title *types.SurveyTitle) (*types.SurveyTitle, error)
	RenameTitle(ctx context.Context, tx *gorm.DB, id uint, name string) error
	GetTitleByID(ctx context.Context, tx *gorm.DB, id uint) (*types.SurveyTitle, error)
	ListTitlesByCategoryTypeIDs(ctx context.Context, tx *gorm.DB, categoryTypeIDs []uint) ([]*types.SurveyTitle, error)
	DeleteTitleCascade(ctx context.Context, tx *gorm.DB, id uint) ([]TableCount, error)

	CreateQuestion(ctx context.Context, tx *gorm.DB, question *types.SurveyQuestion) (*types.SurveyQuestion, error)
	UpdateQuestion(ctx context.Context, tx *gorm.DB, question *types.SurveyQuestion) error
	GetQuestionByID(ctx context.Context, tx *gorm.DB, id uint) (*types.SurveyQuestion, error)
	ListQuestionsByTitleIDs(ctx context.Context, tx *gorm.DB, titleIDs []uint) ([]*types.SurveyQuestion, error)
	DeleteQuestionCascade(ctx context.Context, tx *gorm.DB, id uint) ([]TableCount, error)

	ReplaceOptions(ctx context.Context, tx *gorm.DB, questionID uint, options []string) error
	ListOptionsByQuestionIDs(ctx context.Context, tx *gorm.DB, questionIDs []uint) ([]*types.SurveyQuestionOption, error)

	CreateAnswer(ctx context.Context, tx *gorm.DB, answer *types.SurveyAnswer) (*types.SurveyAnswer, error)
	UpdateAnswerValue(ctx context.Context, tx *gorm.DB, id uint, answer string) error
	CountAnswers(ctx context.Context, tx *gorm.DB, questionID, surveyID uint) (int64, error)
	FirstAnswer(ctx context.Context, tx *gorm.DB, questionID, surveyID uint) (*types.SurveyAnswer, error)
	LastAnswer(ctx context.Context, tx *gorm.DB, questionID, surveyID uint) (*types.SurveyAnswer, error)
	ListAnswersByQuestionIDs(ctx context.Context, tx *gorm.DB, questionIDs []uint, surveyID uint) ([]*types.SurveyAnswer, error)
	ListAnswersBySurveyID(ctx context.Context, tx *gorm.DB, surveyID uint) ([]*types.SurveyAnswer, error)
	ListFileAnswersBySurveyID(ctx context.Context, tx *gorm.DB, surveyID uint) ([]*types.SurveyAnswer, error)
	DeleteAnswersBySurveyID(ctx context.Context, tx *gorm.DB, surveyID uint) (int64, error)
}

type surveyFormRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSurveyFormRepo(db *gorm.DB, baseLog *logger.Logger) SurveyFormRepo {
	return &surveyFormRepo{db: db, log: baseLog.With("repo", "SurveyFormRepo")}
}

func (r *surveyFormRepo) CreateTitle(ctx context.Context, tx *gorm.DB, title *types.SurveyTitle) (*types.SurveyTitle, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(title).Error; err != nil {
		return nil, err
	}
	return title, nil
}

func (r *surveyFormRepo) RenameTitle(ctx context.Context, tx *gorm.DB, id uint, name string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Model(&types.SurveyTitle{}).Where("id = ?", id).Update("name", name).Error
}

func (r *surveyFormRepo) GetTitleByID(ctx context.Context, tx *gorm.DB, id uint) (*types.SurveyTitle, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var title types.SurveyTitle
	if err := transaction.WithContext(ctx).First(&title, id).Error; err != nil {
		return nil, err
	}
	return &title, nil
}

func (r *surveyFormRepo) ListTitlesByCategoryTypeIDs(ctx context.Context, tx *gorm.DB, categoryTypeIDs []uint) ([]*types.SurveyTitle, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var titles []*types.SurveyTitle
	if len(categoryTypeIDs) == 0 {
		return titles, nil
	}
	if err := transaction.WithContext(ctx).Where("category_type_id IN ?", categoryTypeIDs).Order("id").Find(&titles).Error; err != nil {
		return nil, err
	}
	return titles, nil
}

func (r *surveyFormRepo) DeleteTitleCascade(ctx context.Context, tx *gorm.DB, id uint) ([]TableCount, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var counts []TableCount
	err := transaction.WithContext(ctx).Transaction(func(t *gorm.DB) error {
		var questionIDs []uint
		if err := t.Model(&types.SurveyQuestion{}).Where("title_id = ?", id).Pluck("id", &questionIDs).Error; err != nil {
			return err
		}
		var err error
		counts, err = deleteSurveyQuestions(t, questionIDs)
		if err != nil {
			return err
		}
		result := t.Delete(&types.SurveyTitle{}, id)
		if result.Error != nil {
			return result.Error
		}
		counts = append(counts, TableCount{Table: types.SurveyTitle{}.TableName(), Count: result.RowsAffected})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *surveyFormRepo) CreateQuestion(ctx context.Context, tx *gorm.DB, question *types.SurveyQuestion) (*types.SurveyQuestion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(question).Error; err != nil {
		return nil, err
	}
	return question, nil
}

func (r *surveyFormRepo) UpdateQuestion(ctx context.Context, tx *gorm.DB, question *types.SurveyQuestion) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(question).Error
}

func (r *surveyFormRepo) GetQuestionByID(ctx context.Context, tx *gorm.DB, id uint) (*types.SurveyQuestion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var question types.SurveyQuestion
	if err := transaction.WithContext(ctx).First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *surveyFormRepo) ListQuestionsByTitleIDs(ctx context.Context, tx *gorm.DB, titleIDs []uint) ([]*types.SurveyQuestion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var questions []*types.SurveyQuestion
	if len(titleIDs) == 0 {
		return questions, nil
	}
	if err := transaction.WithContext(ctx).
		Where("title_id IN ?", titleIDs).
		Order("number, id").
		Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *surveyFormRepo) DeleteQuestionCascade(ctx context.Context, tx *gorm.DB, id uint) ([]TableCount, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var counts []TableCount
	err := transaction.WithContext(ctx).Transaction(func(t *gorm.DB) error {
		var err error
		counts, err = deleteSurveyQuestions(t, []uint{id})
		return err
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *surveyFormRepo) ReplaceOptions(ctx context.Context, tx *gorm.DB, questionID uint, options []string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Transaction(func(t *gorm.DB) error {
		if err := t.Where("question_id = ?", questionID).Delete(&types.SurveyQuestionOption{}).Error; err != nil {
			return err
		}
		for _, option := range options {
			row := types.SurveyQuestionOption{Option: option, QuestionID: questionID}
			if err := t.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *surveyFormRepo) ListOptionsByQuestionIDs(ctx context.Context, tx *gorm.DB, questionIDs []uint) ([]*types.SurveyQuestionOption, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var options []*types.SurveyQuestionOption
	if len(questionIDs) == 0 {
		return options, nil
	}
	if err := transaction.WithContext(ctx).Where("question_id IN ?", questionIDs).Order("id").Find(&options).Error; err != nil {
		return nil, err
	}
	return options, nil
}

func (r *surveyFormRepo) CreateAnswer(ctx context.Context, tx *gorm.DB, answer *types.SurveyAnswer) (*types.SurveyAnswer, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(answer).Error; err != nil {
		return nil, err
	}
	return answer, nil
}

func (r *surveyFormRepo) UpdateAnswerValue(ctx context.Context, tx *gorm.DB, id uint, answer string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Model(&types.SurveyAnswer{}).Where("id = ?", id).Update("answer", answer).Error
}

func (r *surveyFormRepo) CountAnswers(ctx context.Context, tx *gorm.DB, questionID, surveyID uint) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).Model(&types.SurveyAnswer{}).
		Where("question_id = ? AND survey_id = ?", questionID, surveyID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *surveyFormRepo) FirstAnswer(ctx context.Context, tx *gorm.DB, questionID, surveyID uint) (*types.SurveyAnswer, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var answer types.SurveyAnswer
	if err := transaction.WithContext(ctx).
		Where("question_id = ? AND survey_id = ?", questionID, surveyID).
		Order("id ASC").
		First(&answer).Error; err != nil {
		return nil, err
	}
	return &answer, nil
}

func (r *surveyFormRepo) LastAnswer(ctx context.Context, tx *gorm.DB, questionID, surveyID uint) (*types.SurveyAnswer, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var answer types.SurveyAnswer
	if err := transaction.WithContext(ctx).
		Where("question_id = ? AND survey_id = ?", questionID, surveyID).
		Order("id DESC").
		First(&answer).Error; err != nil {
		return nil, err
	}
	return &answer, nil
}

func (r *surveyFormRepo) ListAnswersByQuestionIDs(ctx context.Context, tx *gorm.DB, questionIDs []uint, surveyID uint) ([]*types.SurveyAnswer, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var answers []*types.SurveyAnswer
	if len(questionIDs) == 0 {
		return answers, nil
	}
	if err := transaction.WithContext(ctx).
		Where("question_id IN ? AND survey_id = ?", questionIDs, surveyID).
		Order("id").
		Find(&answers).Error; err != nil {
		return nil, err
	}
	return answers, nil
}

func (r *surveyFormRepo) ListAnswersBySurveyID(ctx context.Context, tx *gorm.DB, surveyID uint) ([]*types.SurveyAnswer, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var answers []*types.SurveyAnswer
	if err := transaction.WithContext(ctx).
		Where("survey_id = ?", surveyID).
		Order("id").
		Find(&answers).Error; err != nil {
		return nil, err
	}
	return answers, nil
}

func (r *surveyFormRepo) ListFileAnswersBySurveyID(ctx context.Context, tx *gorm.DB, surveyID uint) ([]*types.SurveyAnswer, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var answers []*types.SurveyAnswer
	if err := transaction.WithContext(ctx).
		Joins("JOIN survey_question ON survey_question.id = survey_answer.question_id").
		Where("survey_answer.survey_id = ? AND survey_question.has_file = ?", surveyID, true).
		Find(&answers).Error; err != nil {
		return nil, err
	}
	return answers, nil
}

func (r *surveyFormRepo) DeleteAnswersBySurveyID(ctx context.Context, tx *gorm.DB, surveyID uint) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	result := transaction.WithContext(ctx).Where("survey_id = ?", surveyID).Delete(&types.SurveyAnswer{})
	return result.RowsAffected, result.Error
}

func deleteSurveyQuestions(t *gorm.DB, questionIDs []uint) ([]TableCount, error) {
	counts := []TableCount{}
	steps := []struct {
		table string
		run   func() *gorm.DB
	}{
		{types.SurveyAnswer{}.TableName(), func() *gorm.DB {
			return deleteIn(t, &types.SurveyAnswer{}, "question_id", questionIDs)
		}},
		{types.SurveyQuestionOption{}.TableName(), func() *gorm.DB {
			return deleteIn(t, &types.SurveyQuestionOption{}, "question_id", questionIDs)
		}},
		{types.SurveyQuestion{}.TableName(), func() *gorm.DB {
			return deleteIn(t, &types.SurveyQuestion{}, "id", questionIDs)
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
