package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/bramwell/claimsdesk-backend/internal/logger"
	"github.com/bramwell/claimsdesk-backend/internal/types"
)

type InsuranceProviderRepo interface {
	Create(ctx context.Context, tx *gorm.DB, provider *types.InsuranceProvider) (*types.InsuranceProvider, error)
	Update(ctx context.Context, tx *gorm.DB, provider *types.InsuranceProvider) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*types.InsuranceProvider, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.InsuranceProvider, error)
}

type insuranceProviderRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInsuranceProviderRepo(db *gorm.DB, baseLog *logger.Logger) InsuranceProviderRepo {
	return &insuranceProviderRepo{db: db, log: baseLog.With("repo", "InsuranceProviderRepo")}
}

func (r *insuranceProviderRepo) Create(ctx context.Context, tx *gorm.DB, provider *types.InsuranceProvider) (*types.InsuranceProvider, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(provider).Error; err != nil {
		return nil, err
	}
	return provider, nil
}

func (r *insuranceProviderRepo) Update(ctx context.Context, tx *gorm.DB, provider *types.InsuranceProvider) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(provider).Error
}

func (r *insuranceProviderRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Delete(&types.InsuranceProvider{}, id).Error
}

func (r *insuranceProviderRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*types.InsuranceProvider, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var provider types.InsuranceProvider
	if err := transaction.WithContext(ctx).First(&provider, id).Error; err != nil {
		return nil, err
	}
	return &provider, nil
}

func (r *insuranceProviderRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.InsuranceProvider, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var providers []*types.InsuranceProvider
	if err := transaction.WithContext(ctx).Order("insurance_name").Find(&providers).Error; err != nil {
		return nil, err
	}
	return providers, nil
}
