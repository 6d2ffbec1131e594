package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/bramwell/claimsdesk-backend/internal/logger"
	"github.com/bramwell/claimsdesk-backend/internal/types"
)

type ClaimRepo interface {
	Create(ctx context.Context, tx *gorm.DB, claim *types.Claim) (*types.Claim, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*types.Claim, error)
	Exists(ctx context.Context, tx *gorm.DB, id uint) (bool, error)
	ListByApplicationIDs(ctx context.Context, tx *gorm.DB, applicationIDs []uint) ([]*types.Claim, error)
	UpdateType(ctx context.Context, tx *gorm.DB, id uint, applicationTypeID uint) error

	// Assignment rows are one-per-claim; Upsert* creates or repoints in place.
	GetWhat(ctx context.Context, tx *gorm.DB, claimID uint) (*types.ClaimWhat, error)
	UpsertWhat(ctx context.Context, tx *gorm.DB, claimID, whatID uint) error
	DeleteWhat(ctx context.Context, tx *gorm.DB, claimID uint) error
	GetHow(ctx context.Context, tx *gorm.DB, claimID uint) (*types.ClaimHow, error)
	UpsertHow(ctx context.Context, tx *gorm.DB, claimID, howID uint) error
	DeleteHow(ctx context.Context, tx *gorm.DB, claimID uint) error
	GetCause(ctx context.Context, tx *gorm.DB, claimID uint) (*types.ClaimCause, error)
	UpsertCause(ctx context.Context, tx *gorm.DB, claimID, causeID uint) error
	DeleteCause(ctx context.Context, tx *gorm.DB, claimID uint) error
}

type claimRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewClaimRepo(db *gorm.DB, baseLog *logger.Logger) ClaimRepo {
	return &claimRepo{db: db, log: baseLog.With("repo", "ClaimRepo")}
}

func (r *claimRepo) Create(ctx context.Context, tx *gorm.DB, claim *types.Claim) (*types.Claim, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(claim).Error; err != nil {
		return nil, err
	}
	return claim, nil
}

func (r *claimRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*types.Claim, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var claim types.Claim
	if err := transaction.WithContext(ctx).Preload("ApplicationType").First(&claim, id).Error; err != nil {
		return nil, err
	}
	return &claim, nil
}

func (r *claimRepo) Exists(ctx context.Context, tx *gorm.DB, id uint) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).Model(&types.Claim{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *claimRepo) ListByApplicationIDs(ctx context.Context, tx *gorm.DB, applicationIDs []uint) ([]*types.Claim, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var claims []*types.Claim
	if len(applicationIDs) == 0 {
		return claims, nil
	}
	if err := transaction.WithContext(ctx).
		Preload("ApplicationType").
		Where("application_id IN ?", applicationIDs).
		Order("id").
		Find(&claims).Error; err != nil {
		return nil, err
	}
	return claims, nil
}

func (r *claimRepo) UpdateType(ctx context.Context, tx *gorm.DB, id uint, applicationTypeID uint) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Claim{}).
		Where("id = ?", id).
		Update("application_type_id", applicationTypeID).Error
}

func (r *claimRepo) GetWhat(ctx context.Context, tx *gorm.DB, claimID uint) (*types.ClaimWhat, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var assignment types.ClaimWhat
	if err := transaction.WithContext(ctx).Preload("What").Where("claim_id = ?", claimID).First(&assignment).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *claimRepo) UpsertWhat(ctx context.Context, tx *gorm.DB, claimID, whatID uint) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var existing types.ClaimWhat
	err := transaction.WithContext(ctx).Where("claim_id = ?", claimID).First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return transaction.WithContext(ctx).Create(&types.ClaimWhat{ClaimID: claimID, WhatID: whatID}).Error
		}
		return err
	}
	return transaction.WithContext(ctx).
		Model(&types.ClaimWhat{}).
		Where("claim_id = ?", claimID).
		Update("what_id", whatID).Error
}

func (r *claimRepo) DeleteWhat(ctx context.Context, tx *gorm.DB, claimID uint) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Where("claim_id = ?", claimID).Delete(&types.ClaimWhat{}).Error
}

func (r *claimRepo) GetHow(ctx context.Context, tx *gorm.DB, claimID uint) (*types.ClaimHow, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var assignment types.ClaimHow
	if err := transaction.WithContext(ctx).Preload("How").Where("claim_id = ?", claimID).First(&assignment).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *claimRepo) UpsertHow(ctx context.Context, tx *gorm.DB, claimID, howID uint) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var existing types.ClaimHow
	err := transaction.WithContext(ctx).Where("claim_id = ?", claimID).First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return transaction.WithContext(ctx).Create(&types.ClaimHow{ClaimID: claimID, HowID: howID}).Error
		}
		return err
	}
	return transaction.WithContext(ctx).
		Model(&types.ClaimHow{}).
		Where("claim_id = ?", claimID).
		Update("how_id", howID).Error
}

func (r *claimRepo) DeleteHow(ctx context.Context, tx *gorm.DB, claimID uint) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Where("claim_id = ?", claimID).Delete(&types.ClaimHow{}).Error
}

func (r *claimRepo) GetCause(ctx context.Context, tx *gorm.DB, claimID uint) (*types.ClaimCause, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var assignment types.ClaimCause
	if err := transaction.WithContext(ctx).Preload("Cause").Where("claim_id = ?", claimID).First(&assignment).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *claimRepo) UpsertCause(ctx context.Context, tx *gorm.DB, claimID, causeID uint) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var existing types.ClaimCause
	err := transaction.WithContext(ctx).Where("claim_id = ?", claimID).First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return transaction.WithContext(ctx).Create(&types.ClaimCause{ClaimID: claimID, CauseID: causeID}).Error
		}
		return err
	}
	return transaction.WithContext(ctx).
		Model(&types.ClaimCause{}).
		Where("claim_id = ?", claimID).
		Update("cause_id", causeID).Error
}

func (r *claimRepo) DeleteCause(ctx context.Context, tx *gorm.DB, claimID uint) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Where("claim_id = ?", claimID).Delete(&types.ClaimCause{}).Error
}
