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

// ClaimAssignments is the claim's current position in the category tree.
// Nil fields mean not yet assigned.
type ClaimAssignments struct {
	Cause *types.ClaimCause `json:"cause"`
	What  *types.ClaimWhat  `json:"what"`
	How   *types.ClaimHow   `json:"how"`
}

type ClaimService interface {
	Create(ctx context.Context, applicationID, applicationTypeID uint) (*types.Claim, error)
	GetByID(ctx context.Context, id uint) (*types.Claim, error)
	ListByApplicationID(ctx context.Context, applicationID uint) ([]*types.Claim, error)
	GetAssignments(ctx context.Context, claimID uint) (*ClaimAssignments, error)
	SaveWhatAnswers(ctx context.Context, claimID uint, subs []AnswerSubmission) error
	SaveHowAnswers(ctx context.Context, claimID uint, subs []AnswerSubmission) error
}

type claimService struct {
	db              *gorm.DB
	log             *logger.Logger
	claimRepo       repos.ClaimRepo
	applicationRepo repos.ApplicationRepo
	whatForm        repos.WhatFormRepo
	howForm         repos.HowFormRepo
}

func NewClaimService(
	db *gorm.DB,
	log *logger.Logger,
	claimRepo repos.ClaimRepo,
	applicationRepo repos.ApplicationRepo,
	whatForm repos.WhatFormRepo,
	howForm repos.HowFormRepo,
) ClaimService {
	return &claimService{
		db:              db,
		log:             log.With("service", "ClaimService"),
		claimRepo:       claimRepo,
		applicationRepo: applicationRepo,
		whatForm:        whatForm,
		howForm:         howForm,
	}
}

func (cs *claimService) Create(ctx context.Context, applicationID, applicationTypeID uint) (*types.Claim, error) {
	exists, err := cs.applicationRepo.Exists(ctx, nil, applicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to check application: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("application not found")
	}
	claim := &types.Claim{ApplicationID: applicationID, ApplicationTypeID: applicationTypeID}
	return cs.claimRepo.Create(ctx, nil, claim)
}

func (cs *claimService) GetByID(ctx context.Context, id uint) (*types.Claim, error) {
	return cs.claimRepo.GetByID(ctx, nil, id)
}

func (cs *claimService) ListByApplicationID(ctx context.Context, applicationID uint) ([]*types.Claim, error) {
	return cs.claimRepo.ListByApplicationIDs(ctx, nil, []uint{applicationID})
}

func (cs *claimService) GetAssignments(ctx context.Context, claimID uint) (*ClaimAssignments, error) {
	if _, err := cs.claimRepo.GetByID(ctx, nil, claimID); err != nil {
		return nil, err
	}
	out := &ClaimAssignments{}
	cause, err := cs.claimRepo.GetCause(ctx, nil, claimID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	out.Cause = cause
	what, err := cs.claimRepo.GetWhat(ctx, nil, claimID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	out.What = what
	how, err := cs.claimRepo.GetHow(ctx, nil, claimID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	out.How = how
	return out, nil
}

// SaveWhatAnswers reconciles a batch of submissions against stored rows.
// Submissions for questions that no longer exist are skipped silently so a
// stale form post after a tree edit does not fail the whole batch.
func (cs *claimService) SaveWhatAnswers(ctx context.Context, claimID uint, subs []AnswerSubmission) error {
	exists, err := cs.claimRepo.Exists(ctx, nil, claimID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("claim not found")
	}
	return cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		store := &whatAnswerStore{form: cs.whatForm, claimID: claimID}
		for _, sub := range subs {
			question, err := cs.whatForm.GetQuestionByID(ctx, tx, sub.QuestionID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					cs.log.Debug("Skipping answer for unknown question", "question_id", sub.QuestionID)
					continue
				}
				return err
			}
			// Only other-enabled questions get a second row.
			sub.IsOther = sub.IsOther && question.HasOtherField
			if err := ReconcileAnswer(ctx, tx, store, sub); err != nil {
				return err
			}
		}
		return nil
	})
}

func (cs *claimService) SaveHowAnswers(ctx context.Context, claimID uint, subs []AnswerSubmission) error {
	exists, err := cs.claimRepo.Exists(ctx, nil, claimID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("claim not found")
	}
	return cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		store := &howAnswerStore{form: cs.howForm, claimID: claimID}
		for _, sub := range subs {
			question, err := cs.howForm.GetQuestionByID(ctx, tx, sub.QuestionID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					cs.log.Debug("Skipping answer for unknown question", "question_id", sub.QuestionID)
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

type whatAnswerStore struct {
	form    repos.WhatFormRepo
	claimID uint
}

func (s *whatAnswerStore) Count(ctx context.Context, tx *gorm.DB, questionID uint) (int64, error) {
	return s.form.CountAnswers(ctx, tx, questionID, s.claimID)
}

func (s *whatAnswerStore) FirstID(ctx context.Context, tx *gorm.DB, questionID uint) (uint, error) {
	answer, err := s.form.FirstAnswer(ctx, tx, questionID, s.claimID)
	if err != nil {
		return 0, err
	}
	return answer.ID, nil
}

func (s *whatAnswerStore) LastID(ctx context.Context, tx *gorm.DB, questionID uint) (uint, error) {
	answer, err := s.form.LastAnswer(ctx, tx, questionID, s.claimID)
	if err != nil {
		return 0, err
	}
	return answer.ID, nil
}

func (s *whatAnswerStore) Insert(ctx context.Context, tx *gorm.DB, questionID uint, value string) error {
	_, err := s.form.CreateAnswer(ctx, tx, &types.WhatQuestionAnswer{
		Answer:     value,
		QuestionID: questionID,
		ClaimID:    s.claimID,
	})
	return err
}

func (s *whatAnswerStore) Update(ctx context.Context, tx *gorm.DB, answerID uint, value string) error {
	return s.form.UpdateAnswerValue(ctx, tx, answerID, value)
}

type howAnswerStore struct {
	form    repos.HowFormRepo
	claimID uint
}

func (s *howAnswerStore) Count(ctx context.Context, tx *gorm.DB, questionID uint) (int64, error) {
	return s.form.CountAnswers(ctx, tx, questionID, s.claimID)
}

func (s *howAnswerStore) FirstID(ctx context.Context, tx *gorm.DB, questionID uint) (uint, error) {
	answer, err := s.form.FirstAnswer(ctx, tx, questionID, s.claimID)
	if err != nil {
		return 0, err
	}
	return answer.ID, nil
}

func (s *howAnswerStore) LastID(ctx context.Context, tx *gorm.DB, questionID uint) (uint, error) {
	answer, err := s.form.LastAnswer(ctx, tx, questionID, s.claimID)
	if err != nil {
		return 0, err
	}
	return answer.ID, nil
}

func (s *howAnswerStore) Insert(ctx context.Context, tx *gorm.DB, questionID uint, value string) error {
	_, err := s.form.CreateAnswer(ctx, tx, &types.HowQuestionAnswer{
		Answer:     value,
		QuestionID: questionID,
		ClaimID:    s.claimID,
	})
	return err
}

func (s *howAnswerStore) Update(ctx context.Context, tx *gorm.DB, answerID uint, value string) error {
	return s.form.UpdateAnswerValue(ctx, tx, answerID, value)
}
