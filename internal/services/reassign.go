package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/bramwell/claimsdesk-backend/internal/logger"
	"github.com/bramwell/claimsdesk-backend/internal/repos"
)

// ReassignService changes a claim's category assignments. Answers recorded
// under the previous assignment are stale, so each reassignment upserts the
// assignment row and purges the claim's answers in one transaction. Stored
// files are deleted after commit, best effort; Delete is idempotent so a
// retried cleanup cannot fail on work already done.
type ReassignService interface {
	AssignWhat(ctx context.Context, claimID, whatID uint) error
	AssignHow(ctx context.Context, claimID, howID uint) error
	AssignCause(ctx context.Context, claimID, causeID uint) error
	ChangeSurveyType(ctx context.Context, surveyID, applicationTypeID uint) error
}

type reassignService struct {
	db         *gorm.DB
	log        *logger.Logger
	claimRepo  repos.ClaimRepo
	surveyRepo repos.SurveyRepo
	whatForm   repos.WhatFormRepo
	howForm    repos.HowFormRepo
	surveyForm repos.SurveyFormRepo
	fileStore  FileStoreService
}

func NewReassignService(
	db *gorm.DB,
	log *logger.Logger,
	claimRepo repos.ClaimRepo,
	surveyRepo repos.SurveyRepo,
	whatForm repos.WhatFormRepo,
	howForm repos.HowFormRepo,
	surveyForm repos.SurveyFormRepo,
	fileStore FileStoreService,
) ReassignService {
	return &reassignService{
		db:         db,
		log:        log.With("service", "ReassignService"),
		claimRepo:  claimRepo,
		surveyRepo: surveyRepo,
		whatForm:   whatForm,
		howForm:    howForm,
		surveyForm: surveyForm,
		fileStore:  fileStore,
	}
}

func (rs *reassignService) AssignWhat(ctx context.Context, claimID, whatID uint) error {
	var fileKeys []string
	err := rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := rs.claimRepo.UpsertWhat(ctx, tx, claimID, whatID); err != nil {
			return err
		}
		keys, err := rs.collectWhatFileKeys(ctx, tx, claimID)
		if err != nil {
			return err
		}
		fileKeys = keys
		_, err = rs.whatForm.DeleteAnswersByClaimID(ctx, tx, claimID)
		return err
	})
	if err != nil {
		return err
	}
	rs.deleteFiles(ctx, fileKeys)
	return nil
}

func (rs *reassignService) AssignHow(ctx context.Context, claimID, howID uint) error {
	var fileKeys []string
	err := rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := rs.claimRepo.UpsertHow(ctx, tx, claimID, howID); err != nil {
			return err
		}
		keys, err := rs.collectHowFileKeys(ctx, tx, claimID)
		if err != nil {
			return err
		}
		fileKeys = keys
		_, err = rs.howForm.DeleteAnswersByClaimID(ctx, tx, claimID)
		return err
	})
	if err != nil {
		return err
	}
	rs.deleteFiles(ctx, fileKeys)
	return nil
}

// AssignCause invalidates the whole claim form state: the what and how
// assignments hang off the cause, so both are cleared along with every
// answer on either side.
func (rs *reassignService) AssignCause(ctx context.Context, claimID, causeID uint) error {
	var fileKeys []string
	err := rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := rs.claimRepo.UpsertCause(ctx, tx, claimID, causeID); err != nil {
			return err
		}
		if err := rs.claimRepo.DeleteWhat(ctx, tx, claimID); err != nil {
			return err
		}
		if err := rs.claimRepo.DeleteHow(ctx, tx, claimID); err != nil {
			return err
		}
		whatKeys, err := rs.collectWhatFileKeys(ctx, tx, claimID)
		if err != nil {
			return err
		}
		howKeys, err := rs.collectHowFileKeys(ctx, tx, claimID)
		if err != nil {
			return err
		}
		fileKeys = append(whatKeys, howKeys...)
		if _, err := rs.whatForm.DeleteAnswersByClaimID(ctx, tx, claimID); err != nil {
			return err
		}
		_, err = rs.howForm.DeleteAnswersByClaimID(ctx, tx, claimID)
		return err
	})
	if err != nil {
		return err
	}
	rs.deleteFiles(ctx, fileKeys)
	return nil
}

func (rs *reassignService) ChangeSurveyType(ctx context.Context, surveyID, applicationTypeID uint) error {
	var fileKeys []string
	err := rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := rs.surveyRepo.UpdateType(ctx, tx, surveyID, applicationTypeID); err != nil {
			return err
		}
		answers, err := rs.surveyForm.ListFileAnswersBySurveyID(ctx, tx, surveyID)
		if err != nil {
			return err
		}
		for _, answer := range answers {
			if answer.Answer != "" {
				fileKeys = append(fileKeys, answer.Answer)
			}
		}
		_, err = rs.surveyForm.DeleteAnswersBySurveyID(ctx, tx, surveyID)
		return err
	})
	if err != nil {
		return err
	}
	rs.deleteFiles(ctx, fileKeys)
	return nil
}

func (rs *reassignService) collectWhatFileKeys(ctx context.Context, tx *gorm.DB, claimID uint) ([]string, error) {
	answers, err := rs.whatForm.ListFileAnswersByClaimID(ctx, tx, claimID)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(answers))
	for _, answer := range answers {
		if answer.Answer != "" {
			keys = append(keys, answer.Answer)
		}
	}
	return keys, nil
}

func (rs *reassignService) collectHowFileKeys(ctx context.Context, tx *gorm.DB, claimID uint) ([]string, error) {
	answers, err := rs.howForm.ListFileAnswersByClaimID(ctx, tx, claimID)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(answers))
	for _, answer := range answers {
		if answer.Answer != "" {
			keys = append(keys, answer.Answer)
		}
	}
	return keys, nil
}

func (rs *reassignService) deleteFiles(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := rs.fileStore.Delete(ctx, key); err != nil {
			rs.log.Warn("Failed to delete stored answer file", "key", key, "error", err)
		}
	}
}
