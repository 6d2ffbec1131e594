package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/bramwell/claimsdesk-backend/internal/logger"
	"github.com/bramwell/claimsdesk-backend/internal/repos"
	"github.com/bramwell/claimsdesk-backend/internal/types"
)

// QuestionInput is the common shape for creating or editing a form question.
// Options are only honored for checkbox/selection types and replace the
// stored set wholesale.
type QuestionInput struct {
	Question      string
	QuestionType  string
	IsMandatory   bool
	HasOtherField bool
	Options       []string
}

// CategoryService administers the claim-side tree: cause categories, the
// what/how categories beneath them, and their titles, questions and options.
type CategoryService interface {
	CreateCause(ctx context.Context, applicationTypeID uint, name string) (*types.CauseCategory, error)
	RenameCause(ctx context.Context, id uint, name string) error
	ListCauses(ctx context.Context, applicationTypeID uint) ([]*types.CauseCategory, error)
	DeleteCause(ctx context.Context, id uint) ([]repos.TableCount, error)

	CreateWhat(ctx context.Context, causeID uint, name string) (*types.WhatCategory, error)
	RenameWhat(ctx context.Context, id uint, name string) error
	ListWhats(ctx context.Context, causeID uint) ([]*types.WhatCategory, error)
	DeleteWhat(ctx context.Context, id uint) ([]repos.TableCount, error)

	CreateHow(ctx context.Context, causeID uint, name string) (*types.HowCategory, error)
	RenameHow(ctx context.Context, id uint, name string) error
	ListHows(ctx context.Context, causeID uint) ([]*types.HowCategory, error)
	DeleteHow(ctx context.Context, id uint) ([]repos.TableCount, error)

	CreateWhatTitle(ctx context.Context, whatID uint, title string) (*types.WhatQuestionTitle, error)
	RenameWhatTitle(ctx context.Context, id uint, title string) error
	DeleteWhatTitle(ctx context.Context, id uint) ([]repos.TableCount, error)
	CreateWhatQuestion(ctx context.Context, titleID uint, input QuestionInput) (*types.WhatQuestion, error)
	UpdateWhatQuestion(ctx context.Context, id uint, input QuestionInput) (*types.WhatQuestion, error)
	DeleteWhatQuestion(ctx context.Context, id uint) ([]repos.TableCount, error)

	CreateHowTitle(ctx context.Context, howID uint, title string) (*types.HowQuestionTitle, error)
	RenameHowTitle(ctx context.Context, id uint, title string) error
	DeleteHowTitle(ctx context.Context, id uint) ([]repos.TableCount, error)
	CreateHowQuestion(ctx context.Context, titleID uint, input QuestionInput) (*types.HowQuestion, error)
	UpdateHowQuestion(ctx context.Context, id uint, input QuestionInput) (*types.HowQuestion, error)
	DeleteHowQuestion(ctx context.Context, id uint) ([]repos.TableCount, error)
}

type categoryService struct {
	db           *gorm.DB
	log          *logger.Logger
	categoryRepo repos.CategoryRepo
	whatForm     repos.WhatFormRepo
	howForm      repos.HowFormRepo
}

func NewCategoryService(
	db *gorm.DB,
	log *logger.Logger,
	categoryRepo repos.CategoryRepo,
	whatForm repos.WhatFormRepo,
	howForm repos.HowFormRepo,
) CategoryService {
	return &categoryService{
		db:           db,
		log:          log.With("service", "CategoryService"),
		categoryRepo: categoryRepo,
		whatForm:     whatForm,
		howForm:      howForm,
	}
}

func (cs *categoryService) CreateCause(ctx context.Context, applicationTypeID uint, name string) (*types.CauseCategory, error) {
	if name == "" {
		return nil, fmt.Errorf("category name is required")
	}
	cause := &types.CauseCategory{Name: name, ApplicationTypeID: applicationTypeID}
	return cs.categoryRepo.CreateCause(ctx, nil, cause)
}

func (cs *categoryService) RenameCause(ctx context.Context, id uint, name string) error {
	if name == "" {
		return fmt.Errorf("category name is required")
	}
	if _, err := cs.categoryRepo.GetCauseByID(ctx, nil, id); err != nil {
		return err
	}
	return cs.categoryRepo.RenameCause(ctx, nil, id, name)
}

func (cs *categoryService) ListCauses(ctx context.Context, applicationTypeID uint) ([]*types.CauseCategory, error) {
	return cs.categoryRepo.ListCausesByApplicationTypeID(ctx, nil, applicationTypeID)
}

func (cs *categoryService) DeleteCause(ctx context.Context, id uint) ([]repos.TableCount, error) {
	if _, err := cs.categoryRepo.GetCauseByID(ctx, nil, id); err != nil {
		return nil, err
	}
	return cs.categoryRepo.DeleteCauseCascade(ctx, nil, id)
}

func (cs *categoryService) CreateWhat(ctx context.Context, causeID uint, name string) (*types.WhatCategory, error) {
	if name == "" {
		return nil, fmt.Errorf("category name is required")
	}
	if _, err := cs.categoryRepo.GetCauseByID(ctx, nil, causeID); err != nil {
		return nil, fmt.Errorf("cause category not found: %w", err)
	}
	what := &types.WhatCategory{Name: name, CauseID: causeID}
	return cs.categoryRepo.CreateWhat(ctx, nil, what)
}

func (cs *categoryService) RenameWhat(ctx context.Context, id uint, name string) error {
	if name == "" {
		return fmt.Errorf("category name is required")
	}
	if _, err := cs.categoryRepo.GetWhatByID(ctx, nil, id); err != nil {
		return err
	}
	return cs.categoryRepo.RenameWhat(ctx, nil, id, name)
}

func (cs *categoryService) ListWhats(ctx context.Context, causeID uint) ([]*types.WhatCategory, error) {
	return cs.categoryRepo.ListWhatsByCauseIDs(ctx, nil, []uint{causeID})
}

func (cs *categoryService) DeleteWhat(ctx context.Context, id uint) ([]repos.TableCount, error) {
	if _, err := cs.categoryRepo.GetWhatByID(ctx, nil, id); err != nil {
		return nil, err
	}
	return cs.categoryRepo.DeleteWhatCascade(ctx, nil, id)
}

func (cs *categoryService) CreateHow(ctx context.Context, causeID uint, name string) (*types.HowCategory, error) {
	if name == "" {
		return nil, fmt.Errorf("category name is required")
	}
	if _, err := cs.categoryRepo.GetCauseByID(ctx, nil, causeID); err != nil {
		return nil, fmt.Errorf("cause category not found: %w", err)
	}
	how := &types.HowCategory{Name: name, CauseID: causeID}
	return cs.categoryRepo.CreateHow(ctx, nil, how)
}

func (cs *categoryService) RenameHow(ctx context.Context, id uint, name string) error {
	if name == "" {
		return fmt.Errorf("category name is required")
	}
	if _, err := cs.categoryRepo.GetHowByID(ctx, nil, id); err != nil {
		return err
	}
	return cs.categoryRepo.RenameHow(ctx, nil, id, name)
}

func (cs *categoryService) ListHows(ctx context.Context, causeID uint) ([]*types.HowCategory, error) {
	return cs.categoryRepo.ListHowsByCauseIDs(ctx, nil, []uint{causeID})
}

func (cs *categoryService) DeleteHow(ctx context.Context, id uint) ([]repos.TableCount, error) {
	if _, err := cs.categoryRepo.GetHowByID(ctx, nil, id); err != nil {
		return nil, err
	}
	return cs.categoryRepo.DeleteHowCascade(ctx, nil, id)
}

func (cs *categoryService) CreateWhatTitle(ctx context.Context, whatID uint, title string) (*types.WhatQuestionTitle, error) {
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if _, err := cs.categoryRepo.GetWhatByID(ctx, nil, whatID); err != nil {
		return nil, fmt.Errorf("what category not found: %w", err)
	}
	return cs.whatForm.CreateTitle(ctx, nil, &types.WhatQuestionTitle{Title: title, WhatID: whatID})
}

func (cs *categoryService) RenameWhatTitle(ctx context.Context, id uint, title string) error {
	if title == "" {
		return fmt.Errorf("title is required")
	}
	if _, err := cs.whatForm.GetTitleByID(ctx, nil, id); err != nil {
		return err
	}
	return cs.whatForm.RenameTitle(ctx, nil, id, title)
}

func (cs *categoryService) DeleteWhatTitle(ctx context.Context, id uint) ([]repos.TableCount, error) {
	if _, err := cs.whatForm.GetTitleByID(ctx, nil, id); err != nil {
		return nil, err
	}
	return cs.whatForm.DeleteTitleCascade(ctx, nil, id)
}

func (cs *categoryService) CreateWhatQuestion(ctx context.Context, titleID uint, input QuestionInput) (*types.WhatQuestion, error) {
	flags, options, err := resolveQuestionInput(input)
	if err != nil {
		return nil, err
	}
	if _, err := cs.whatForm.GetTitleByID(ctx, nil, titleID); err != nil {
		return nil, fmt.Errorf("question title not found: %w", err)
	}
	question := &types.WhatQuestion{
		Question:      input.Question,
		QuestionType:  input.QuestionType,
		IsMandatory:   input.IsMandatory,
		HasOtherField: input.HasOtherField,
		QuestionFlags: flags,
		WhatTitleID:   titleID,
	}
	err = cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := cs.whatForm.CreateQuestion(ctx, tx, question); err != nil {
			return err
		}
		if len(options) > 0 {
			return cs.whatForm.ReplaceOptions(ctx, tx, question.ID, options)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return question, nil
}

func (cs *categoryService) UpdateWhatQuestion(ctx context.Context, id uint, input QuestionInput) (*types.WhatQuestion, error) {
	flags, options, err := resolveQuestionInput(input)
	if err != nil {
		return nil, err
	}
	question, err := cs.whatForm.GetQuestionByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	question.Question = input.Question
	question.QuestionType = input.QuestionType
	question.IsMandatory = input.IsMandatory
	question.HasOtherField = input.HasOtherField
	question.QuestionFlags = flags
	err = cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := cs.whatForm.UpdateQuestion(ctx, tx, question); err != nil {
			return err
		}
		return cs.whatForm.ReplaceOptions(ctx, tx, question.ID, options)
	})
	if err != nil {
		return nil, err
	}
	return question, nil
}

func (cs *categoryService) DeleteWhatQuestion(ctx context.Context, id uint) ([]repos.TableCount, error) {
	if _, err := cs.whatForm.GetQuestionByID(ctx, nil, id); err != nil {
		return nil, err
	}
	return cs.whatForm.DeleteQuestionCascade(ctx, nil, id)
}

func (cs *categoryService) CreateHowTitle(ctx context.Context, howID uint, title string) (*types.HowQuestionTitle, error) {
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if _, err := cs.categoryRepo.GetHowByID(ctx, nil, howID); err != nil {
		return nil, fmt.Errorf("how category not found: %w", err)
	}
	return cs.howForm.CreateTitle(ctx, nil, &types.HowQuestionTitle{Title: title, HowID: howID})
}

func (cs *categoryService) RenameHowTitle(ctx context.Context, id uint, title string) error {
	if title == "" {
		return fmt.Errorf("title is required")
	}
	if _, err := cs.howForm.GetTitleByID(ctx, nil, id); err != nil {
		return err
	}
	return cs.howForm.RenameTitle(ctx, nil, id, title)
}

func (cs *categoryService) DeleteHowTitle(ctx context.Context, id uint) ([]repos.TableCount, error) {
	if _, err := cs.howForm.GetTitleByID(ctx, nil, id); err != nil {
		return nil, err
	}
	return cs.howForm.DeleteTitleCascade(ctx, nil, id)
}

func (cs *categoryService) CreateHowQuestion(ctx context.Context, titleID uint, input QuestionInput) (*types.HowQuestion, error) {
	flags, options, err := resolveQuestionInput(input)
	if err != nil {
		return nil, err
	}
	if _, err := cs.howForm.GetTitleByID(ctx, nil, titleID); err != nil {
		return nil, fmt.Errorf("question title not found: %w", err)
	}
	question := &types.HowQuestion{
		Question:      input.Question,
		QuestionType:  input.QuestionType,
		IsMandatory:   input.IsMandatory,
		HasOtherField: input.HasOtherField,
		QuestionFlags: flags,
		HowTitleID:    titleID,
	}
	err = cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := cs.howForm.CreateQuestion(ctx, tx, question); err != nil {
			return err
		}
		if len(options) > 0 {
			return cs.howForm.ReplaceOptions(ctx, tx, question.ID, options)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return question, nil
}

func (cs *categoryService) UpdateHowQuestion(ctx context.Context, id uint, input QuestionInput) (*types.HowQuestion, error) {
	flags, options, err := resolveQuestionInput(input)
	if err != nil {
		return nil, err
	}
	question, err := cs.howForm.GetQuestionByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	question.Question = input.Question
	question.QuestionType = input.QuestionType
	question.IsMandatory = input.IsMandatory
	question.HasOtherField = input.HasOtherField
	question.QuestionFlags = flags
	err = cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := cs.howForm.UpdateQuestion(ctx, tx, question); err != nil {
			return err
		}
		return cs.howForm.ReplaceOptions(ctx, tx, question.ID, options)
	})
	if err != nil {
		return nil, err
	}
	return question, nil
}

func (cs *categoryService) DeleteHowQuestion(ctx context.Context, id uint) ([]repos.TableCount, error) {
	if _, err := cs.howForm.GetQuestionByID(ctx, nil, id); err != nil {
		return nil, err
	}
	return cs.howForm.DeleteQuestionCascade(ctx, nil, id)
}

// resolveQuestionInput derives the type flags and decides whether the option
// set applies. Non-option types always clear stored options.
func resolveQuestionInput(input QuestionInput) (types.QuestionFlags, []string, error) {
	if input.Question == "" {
		return types.QuestionFlags{}, nil, fmt.Errorf("question text is required")
	}
	flags, ok := types.FlagsForType(input.QuestionType)
	if !ok {
		return types.QuestionFlags{}, nil, fmt.Errorf("unknown question type %q", input.QuestionType)
	}
	if !flags.HasOptions() {
		return flags, nil, nil
	}
	return flags, input.Options, nil
}
