package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/bramwell/claimsdesk-backend/internal/logger"
	"github.com/bramwell/claimsdesk-backend/internal/types"
)

type AssessmentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, assessment *types.Assessment) (*types.Assessment, error)
	Update(ctx context.Context, tx *gorm.DB, assessment *types.Assessment) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*types.Assessment, error)
	GetByApplicationID(ctx context.Context, tx *gorm.DB, applicationID uint) (*types.Assessment, error)
	ListByApplicationIDs(ctx context.Context, tx *gorm.DB, applicationIDs []uint) ([]*types.Assessment, error)
	// ListAwaitingVideoLink finds assessments whose application sits in the
	// given status with a calendar event but no recorded video link yet.
	ListAwaitingVideoLink(ctx context.Context, tx *gorm.DB, statusID uint) ([]*types.Assessment, error)
	UpdateVideoLink(ctx context.Context, tx *gorm.DB, id uint, videoLink string) error
}

type assessmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssessmentRepo(db *gorm.DB, baseLog *logger.Logger) AssessmentRepo {
	return &assessmentRepo{db: db, log: baseLog.With("repo", "AssessmentRepo")}
}

func (r *assessmentRepo) Create(ctx context.Context, tx *gorm.DB, assessment *types.Assessment) (*types.Assessment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(assessment).Error; err != nil {
		return nil, err
	}
	return assessment, nil
}

func (r *assessmentRepo) Update(ctx context.Context, tx *gorm.DB, assessment *types.Assessment) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(assessment).Error
}

func (r *assessmentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*types.Assessment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var assessment types.Assessment
	if err := transaction.WithContext(ctx).First(&assessment, id).Error; err != nil {
		return nil, err
	}
	return &assessment, nil
}

func (r *assessmentRepo) GetByApplicationID(ctx context.Context, tx *gorm.DB, applicationID uint) (*types.Assessment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var assessment types.Assessment
	if err := transaction.WithContext(ctx).Where("application_id = ?", applicationID).First(&assessment).Error; err != nil {
		return nil, err
	}
	return &assessment, nil
}

func (r *assessmentRepo) ListByApplicationIDs(ctx context.Context, tx *gorm.DB, applicationIDs []uint) ([]*types.Assessment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var assessments []*types.Assessment
	if len(applicationIDs) == 0 {
		return assessments, nil
	}
	if err := transaction.WithContext(ctx).Where("application_id IN ?", applicationIDs).Find(&assessments).Error; err != nil {
		return nil, err
	}
	return assessments, nil
}

func (r *assessmentRepo) ListAwaitingVideoLink(ctx context.Context, tx *gorm.DB, statusID uint) ([]*types.Assessment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var assessments []*types.Assessment
	if err := transaction.WithContext(ctx).
		Joins("JOIN application ON application.id = assessment.application_id").
		Where("application.application_status_id = ?", statusID).
		Where("assessment.video_link = ''").
		Where("assessment.event_id <> ''").
		Find(&assessments).Error; err != nil {
		return nil, err
	}
	return assessments, nil
}

func (r *assessmentRepo) UpdateVideoLink(ctx context.Context, tx *gorm.DB, id uint, videoLink string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Assessment{}).
		Where("id = ?", id).
		Update("video_link", videoLink).Error
}

type AssessmentNoteRepo interface {
	Create(ctx context.Context, tx *gorm.DB, note *types.AssessmentNote) (*types.AssessmentNote, error)
	Update(ctx context.Context, tx *gorm.DB, note *types.AssessmentNote) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*types.AssessmentNote, error)
	ListByClaimIDs(ctx context.Context, tx *gorm.DB, claimIDs []uint) ([]*types.AssessmentNote, error)
}

type assessmentNoteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssessmentNoteRepo(db *gorm.DB, baseLog *logger.Logger) AssessmentNoteRepo {
	return &assessmentNoteRepo{db: db, log: baseLog.With("repo", "AssessmentNoteRepo")}
}

func (r *assessmentNoteRepo) Create(ctx context.Context, tx *gorm.DB, note *types.AssessmentNote) (*types.AssessmentNote, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(note).Error; err != nil {
		return nil, err
	}
	return note, nil
}

func (r *assessmentNoteRepo) Update(ctx context.Context, tx *gorm.DB, note *types.AssessmentNote) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(note).Error
}

func (r *assessmentNoteRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*types.AssessmentNote, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var note types.AssessmentNote
	if err := transaction.WithContext(ctx).First(&note, id).Error; err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *assessmentNoteRepo) ListByClaimIDs(ctx context.Context, tx *gorm.DB, claimIDs []uint) ([]*types.AssessmentNote, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var notes []*types.AssessmentNote
	if len(claimIDs) == 0 {
		return notes, nil
	}
	if err := transaction.WithContext(ctx).Where("claim_id IN ?", claimIDs).Order("id").Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}
