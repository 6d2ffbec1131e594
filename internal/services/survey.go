package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/bramwell/claimsdesk-backend/internal/logger"
	"github.com/bramwell/claimsdesk-backend/internal/repos"
	"github.com/bramwell/claimsdesk-backend/internal/types"
)

type SurveyService interface {
	// CreateMany opens several surveys under one application at once, one
	// per requested application type.
	CreateMany(ctx context.Context, applicationID uint, applicationTypeIDs []uint) ([]*types.Survey, error)
	GetByID(ctx context.Context, id uint) (*types.Survey, error)
	ListByApplicationID(ctx context.Context, applicationID uint) ([]*types.Survey, error)
	SaveAnswers(ctx context.Context, surveyID uint, subs []AnswerSubmission) error
}

type surveyService struct {
	db              *gorm.DB
	log             *logger.Logger
	surveyRepo      repos.SurveyRepo
	applicationRepo repos.ApplicationRepo
	categoryRepo    repos.SurveyCategoryRepo
	formRepo        repos.SurveyFormRepo
}

func NewSurveyService(
	db *gorm.DB,
	log *logger.Logger,
	surveyRepo repos.SurveyRepo,
	applicationRepo repos.ApplicationRepo,
	categoryRepo repos.SurveyCategoryRepo,
	formRepo repos.SurveyFormRepo,
) SurveyService {
	return &surveyService{
		db:              db,
		log:             log.With("service", "SurveyService"),
		surveyRepo:      surveyRepo,
		applicationRepo: applicationRepo,
		categoryRepo:    categoryRepo,
		formRepo:        formRepo,
	}
}

func (ss *surveyService) CreateMany(ctx context.Context, applicationID uint, applicationTypeIDs []uint) ([]*types.Survey, error) {
	if len(applicationTypeIDs) == 0 {
		return nil, fmt.Errorf("at least one application type is required")
	}
	exists, err := ss.applicationRepo.Exists(ctx, nil, applicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to check application: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("application not found")
	}
	var surveys []*types.Survey
	err = ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, typeID := range applicationTypeIDs {
			survey, err := ss.surveyRepo.Create(ctx, tx, &types.Survey{
				ApplicationID:     applicationID,
				ApplicationTypeID: typeID,
			})
			if err != nil {
				return err
			}
			surveys = append(surveys, survey)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return surveys, nil
}

func (ss *surveyService) GetByID(ctx context.Context, id uint) (*types.Survey, error) {
	return ss.surveyRepo.GetByID(ctx, nil, id)
}

func (ss *surveyService) ListByApplicationID(ctx context.Context, applicationID uint) ([]*types.Survey, error) {
	return ss.surveyRepo.ListByApplicationIDs(ctx, nil, []uint{applicationID})
}

func (ss *surveyService) SaveAnswers(ctx context.Context, surveyID uint, subs []AnswerSubmission) error {
	exists, err := ss.surveyRepo.Exists(ctx, nil, surveyID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("survey not found")
	}
	return ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		store := &surveyAnswerStore{
			formRepo:     ss.formRepo,
			categoryRepo: ss.categoryRepo,
			surveyID:     surveyID,
		}
		for _, sub := range subs {
			question, err := ss.formRepo.GetQuestionByID(ctx, tx, sub.QuestionID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ss.log.Debug("Skipping answer for unknown question", "question_id", sub.QuestionID)
					continue
				}
				return err
			}
			sub.IsOther = sub.IsOther && question.HasOtherField
			if err := ReconcileAnswer(ctx, tx, store, sub); err != nil {
				return err
			}
		}
		return nil
	})
}

type surveyAnswerStore struct {
	formRepo     repos.SurveyFormRepo
	categoryRepo repos.SurveyCategoryRepo
	surveyID     uint
}

func (s *surveyAnswerStore) Count(ctx context.Context, tx *gorm.DB, questionID uint) (int64, error) {
	return s.formRepo.CountAnswers(ctx, tx, questionID, s.surveyID)
}

func (s *surveyAnswerStore) FirstID(ctx context.Context, tx *gorm.DB, questionID uint) (uint, error) {
	answer, err := s.formRepo.FirstAnswer(ctx, tx, questionID, s.surveyID)
	if err != nil {
		return 0, err
	}
	return answer.ID, nil
}

func (s *surveyAnswerStore) LastID(ctx context.Context, tx *gorm.DB, questionID uint) (uint, error) {
	answer, err := s.formRepo.LastAnswer(ctx, tx, questionID, s.surveyID)
	if err != nil {
		return 0, err
	}
	return answer.ID, nil
}

// Insert denormalizes the category path onto the answer row so report reads
// group by category without walking the tree.
func (s *surveyAnswerStore) Insert(ctx context.Context, tx *gorm.DB, questionID uint, value string) error {
	question, err := s.formRepo.GetQuestionByID(ctx, tx, questionID)
	if err != nil {
		return err
	}
	title, err := s.formRepo.GetTitleByID(ctx, tx, question.TitleID)
	if err != nil {
		return err
	}
	categoryType, err := s.categoryRepo.GetCategoryTypeByID(ctx, tx, title.CategoryTypeID)
	if err != nil {
		return err
	}
	_, err = s.formRepo.CreateAnswer(ctx, tx, &types.SurveyAnswer{
		Answer:         value,
		QuestionID:     questionID,
		SurveyID:       s.surveyID,
		CategoryID:     categoryType.CategoryID,
		CategoryTypeID: categoryType.ID,
		TitleID:        title.ID,
	})
	return err
}

func (s *surveyAnswerStore) Update(ctx context.Context, tx *gorm.DB, answerID uint, value string) error {
	return s.formRepo.UpdateAnswerValue(ctx, tx, answerID, value)
}
