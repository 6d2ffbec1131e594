package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/bramwell/claimsdesk-backend/internal/logger"
	"github.com/bramwell/claimsdesk-backend/internal/types"
)

type SurveyRepo interface {
	Create(ctx context.Context, tx *gorm.DB, survey *types.Survey) (*types.Survey, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*types.Survey, error)
	Exists(ctx context.Context, tx *gorm.DB, id uint) (bool, error)
	ListByApplicationIDs(ctx context.Context, tx *gorm.DB, applicationIDs []uint) ([]*types.Survey, error)
	UpdateType(ctx context.Context, tx *gorm.DB, id, applicationTypeID uint) error
}

type surveyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSurveyRepo(db *gorm.DB, baseLog *logger.Logger) SurveyRepo {
	return &surveyRepo{db: db, log: baseLog.With("repo", "SurveyRepo")}
}

func (r *surveyRepo) Create(ctx context.Context, tx *gorm.DB, survey *types.Survey) (*types.Survey, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(survey).Error; err != nil {
		return nil, err
	}
	return survey, nil
}

func (r *surveyRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*types.Survey, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var survey types.Survey
	if err := transaction.WithContext(ctx).Preload("ApplicationType").First(&survey, id).Error; err != nil {
		return nil, err
	}
	return &survey, nil
}

func (r *surveyRepo) Exists(ctx context.Context, tx *gorm.DB, id uint) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).Model(&types.Survey{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *surveyRepo) ListByApplicationIDs(ctx context.Context, tx *gorm.DB, applicationIDs []uint) ([]*types.Survey, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var surveys []*types.Survey
	if len(applicationIDs) == 0 {
		return surveys, nil
	}
	if err := transaction.WithContext(ctx).
		Where("application_id IN ?", applicationIDs).
		Order("id").
		Find(&surveys).Error; err != nil {
		return nil, err
	}
	return surveys, nil
}

func (r *surveyRepo) UpdateType(ctx context.Context, tx *gorm.DB, id, applicationTypeID uint) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Model(&types.Survey{}).
		Where("id = ?", id).
		Update("application_type_id", applicationTypeID).Error
}
