package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/bramwell/claimsdesk-backend/internal/logger"
	"github.com/bramwell/claimsdesk-backend/internal/repos"
	"github.com/bramwell/claimsdesk-backend/internal/types"
)

// SurveyAdminService administers the survey-side tree: categories, category
// types, titles and numbered questions.
type SurveyAdminService interface {
	CreateCategory(ctx context.Context, applicationTypeID uint, name string) (*types.SurveyCategory, error)
	RenameCategory(ctx context.Context, id uint, name string) error
	ListCategories(ctx context.Context, applicationTypeID uint) ([]*types.SurveyCategory, error)
	DeleteCategory(ctx context.Context, id uint) ([]repos.TableCount, error)

	CreateCategoryType(ctx context.Context, categoryID uint, name string) (*types.SurveyCategoryType, error)
	RenameCategoryType(ctx context.Context, id uint, name string) error
	ListCategoryTypes(ctx context.Context, categoryID uint) ([]*types.SurveyCategoryType, error)
	DeleteCategoryType(ctx context.Context, id uint) ([]repos.TableCount, error)

	CreateTitle(ctx context.Context, categoryTypeID uint, name string) (*types.SurveyTitle, error)
	RenameTitle(ctx context.Context, id uint, name string) error
	DeleteTitle(ctx context.Context, id uint) ([]repos.TableCount, error)

	CreateQuestion(ctx context.Context, titleID uint, number int, input QuestionInput) (*types.SurveyQuestion, error)
	UpdateQuestion(ctx context.Context, id uint, number int, input QuestionInput) (*types.SurveyQuestion, error)
	DeleteQuestion(ctx context.Context, id uint) ([]repos.TableCount, error)
}

type surveyAdminService struct {
	db           *gorm.DB
	log          *logger.Logger
	categoryRepo repos.SurveyCategoryRepo
	formRepo     repos.SurveyFormRepo
}

func NewSurveyAdminService(
	db *gorm.DB,
	log *logger.Logger,
	categoryRepo repos.SurveyCategoryRepo,
	formRepo repos.SurveyFormRepo,
) SurveyAdminService {
	return &surveyAdminService{
		db:           db,
		log:          log.With("service", "SurveyAdminService"),
		categoryRepo: categoryRepo,
		formRepo:     formRepo,
	}
}

func (ss *surveyAdminService) CreateCategory(ctx context.Context, applicationTypeID uint, name string) (*types.SurveyCategory, error) {
	if name == "" {
		return nil, fmt.Errorf("category name is required")
	}
	return ss.categoryRepo.CreateCategory(ctx, nil, &types.SurveyCategory{Name: name, ApplicationTypeID: applicationTypeID})
}

func (ss *surveyAdminService) RenameCategory(ctx context.Context, id uint, name string) error {
	if name == "" {
		return fmt.Errorf("category name is required")
	}
	if _, err := ss.categoryRepo.GetCategoryByID(ctx, nil, id); err != nil {
		return err
	}
	return ss.categoryRepo.RenameCategory(ctx, nil, id, name)
}

func (ss *surveyAdminService) ListCategories(ctx context.Context, applicationTypeID uint) ([]*types.SurveyCategory, error) {
	return ss.categoryRepo.ListCategoriesByApplicationTypeID(ctx, nil, applicationTypeID)
}

func (ss *surveyAdminService) DeleteCategory(ctx context.Context, id uint) ([]repos.TableCount, error) {
	if _, err := ss.categoryRepo.GetCategoryByID(ctx, nil, id); err != nil {
		return nil, err
	}
	return ss.categoryRepo.DeleteCategoryCascade(ctx, nil, id)
}

func (ss *surveyAdminService) CreateCategoryType(ctx context.Context, categoryID uint, name string) (*types.SurveyCategoryType, error) {
	if name == "" {
		return nil, fmt.Errorf("category type name is required")
	}
	if _, err := ss.categoryRepo.GetCategoryByID(ctx, nil, categoryID); err != nil {
		return nil, fmt.Errorf("survey category not found: %w", err)
	}
	return ss.categoryRepo.CreateCategoryType(ctx, nil, &types.SurveyCategoryType{Name: name, CategoryID: categoryID})
}

func (ss *surveyAdminService) RenameCategoryType(ctx context.Context, id uint, name string) error {
	if name == "" {
		return fmt.Errorf("category type name is required")
	}
	if _, err := ss.categoryRepo.GetCategoryTypeByID(ctx, nil, id); err != nil {
		return err
	}
	return ss.categoryRepo.RenameCategoryType(ctx, nil, id, name)
}

func (ss *surveyAdminService) ListCategoryTypes(ctx context.Context, categoryID uint) ([]*types.SurveyCategoryType, error) {
	return ss.categoryRepo.ListCategoryTypesByCategoryIDs(ctx, nil, []uint{categoryID})
}

func (ss *surveyAdminService) DeleteCategoryType(ctx context.Context, id uint) ([]repos.TableCount, error) {
	if _, err := ss.categoryRepo.GetCategoryTypeByID(ctx, nil, id); err != nil {
		return nil, err
	}
	return ss.categoryRepo.DeleteCategoryTypeCascade(ctx, nil, id)
}

func (ss *surveyAdminService) CreateTitle(ctx context.Context, categoryTypeID uint, name string) (*types.SurveyTitle, error) {
	if name == "" {
		return nil, fmt.Errorf("title is required")
	}
	if _, err := ss.categoryRepo.GetCategoryTypeByID(ctx, nil, categoryTypeID); err != nil {
		return nil, fmt.Errorf("survey category type not found: %w", err)
	}
	return ss.formRepo.CreateTitle(ctx, nil, &types.SurveyTitle{Name: name, CategoryTypeID: categoryTypeID})
}

func (ss *surveyAdminService) RenameTitle(ctx context.Context, id uint, name string) error {
	if name == "" {
		return fmt.Errorf("title is required")
	}
	if _, err := ss.formRepo.GetTitleByID(ctx, nil, id); err != nil {
		return err
	}
	return ss.formRepo.RenameTitle(ctx, nil, id, name)
}

func (ss *surveyAdminService) DeleteTitle(ctx context.Context, id uint) ([]repos.TableCount, error) {
	if _, err := ss.formRepo.GetTitleByID(ctx, nil, id); err != nil {
		return nil, err
	}
	return ss.formRepo.DeleteTitleCascade(ctx, nil, id)
}

func (ss *surveyAdminService) CreateQuestion(ctx context.Context, titleID uint, number int, input QuestionInput) (*types.SurveyQuestion, error) {
	flags, options, err := resolveQuestionInput(input)
	if err != nil {
		return nil, err
	}
	if _, err := ss.formRepo.GetTitleByID(ctx, nil, titleID); err != nil {
		return nil, fmt.Errorf("survey title not found: %w", err)
	}
	question := &types.SurveyQuestion{
		Question:      input.Question,
		Number:        number,
		QuestionType:  input.QuestionType,
		IsMandatory:   input.IsMandatory,
		HasOtherField: input.HasOtherField,
		QuestionFlags: flags,
		TitleID:       titleID,
	}
	err = ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ss.formRepo.CreateQuestion(ctx, tx, question); err != nil {
			return err
		}
		if len(options) > 0 {
			return ss.formRepo.ReplaceOptions(ctx, tx, question.ID, options)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return question, nil
}

func (ss *surveyAdminService) UpdateQuestion(ctx context.Context, id uint, number int, input QuestionInput) (*types.SurveyQuestion, error) {
	flags, options, err := resolveQuestionInput(input)
	if err != nil {
		return nil, err
	}
	question, err := ss.formRepo.GetQuestionByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	question.Question = input.Question
	question.Number = number
	question.QuestionType = input.QuestionType
	question.IsMandatory = input.IsMandatory
	question.HasOtherField = input.HasOtherField
	question.QuestionFlags = flags
	err = ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ss.formRepo.UpdateQuestion(ctx, tx, question); err != nil {
			return err
		}
		return ss.formRepo.ReplaceOptions(ctx, tx, question.ID, options)
	})
	if err != nil {
		return nil, err
	}
	return question, nil
}

func (ss *surveyAdminService) DeleteQuestion(ctx context.Context, id uint) ([]repos.TableCount, error) {
	if _, err := ss.formRepo.GetQuestionByID(ctx, nil, id); err != nil {
		return nil, err
	}
	return ss.formRepo.DeleteQuestionCascade(ctx, nil, id)
}
