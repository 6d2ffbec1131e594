package repos

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/bramwell/claimsdesk-backend/internal/logger"
	"github.com/bramwell/claimsdesk-backend/internal/types"
)

type ApplicationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, application *types.Application) (*types.Application, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*types.Application, error)
	Exists(ctx context.Context, tx *gorm.DB, id uint) (bool, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Application, error)
	ListByAssessorID(ctx context.Context, tx *gorm.DB, assessorID uint) ([]*types.Application, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, statusID uint) error
	AssignAssessor(ctx context.Context, tx *gorm.DB, id uint, assessorID uint, assignedAt time.Time) error
	// ListIDsByStatus returns application ids currently in the given status.
	ListIDsByStatus(ctx context.Context, tx *gorm.DB, statusID uint) ([]uint, error)
}

type applicationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewApplicationRepo(db *gorm.DB, baseLog *logger.Logger) ApplicationRepo {
	return &applicationRepo{db: db, log: baseLog.With("repo", "ApplicationRepo")}
}

func (r *applicationRepo) Create(ctx context.Context, tx *gorm.DB, application *types.Application) (*types.Application, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(application).Error; err != nil {
		return nil, err
	}
	return application, nil
}

func (r *applicationRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*types.Application, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var application types.Application
	if err := transaction.WithContext(ctx).
		Preload("Client").
		Preload("Client.Insurer").
		Preload("Status").
		Preload("Assessor").
		First(&application, id).Error; err != nil {
		return nil, err
	}
	return &application, nil
}

func (r *applicationRepo) Exists(ctx context.Context, tx *gorm.DB, id uint) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).Model(&types.Application{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *applicationRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Application, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var applications []*types.Application
	if err := transaction.WithContext(ctx).
		Preload("Client").
		Preload("Status").
		Preload("Assessor").
		Order("id DESC").
		Find(&applications).Error; err != nil {
		return nil, err
	}
	return applications, nil
}

func (r *applicationRepo) ListByAssessorID(ctx context.Context, tx *gorm.DB, assessorID uint) ([]*types.Application, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var applications []*types.Application
	if err := transaction.WithContext(ctx).
		Preload("Client").
		Preload("Status").
		Where("assessor_id = ?", assessorID).
		Order("id DESC").
		Find(&applications).Error; err != nil {
		return nil, err
	}
	return applications, nil
}

func (r *applicationRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, statusID uint) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Application{}).
		Where("id = ?", id).
		Update("application_status_id", statusID).Error
}

func (r *applicationRepo) AssignAssessor(ctx context.Context, tx *gorm.DB, id uint, assessorID uint, assignedAt time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Application{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"assessor_id":   assessorID,
			"date_assigned": assignedAt,
		}).Error
}

func (r *applicationRepo) ListIDsByStatus(ctx context.Context, tx *gorm.DB, statusID uint) ([]uint, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var ids []uint
	if err := transaction.WithContext(ctx).
		Model(&types.Application{}).
		Where("application_status_id = ?", statusID).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

type ApplicationStatusRepo interface {
	// GetOrCreateByName resolves a status row lazily by name.
	GetOrCreateByName(ctx context.Context, tx *gorm.DB, name string) (*types.ApplicationStatus, error)
}

type applicationStatusRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewApplicationStatusRepo(db *gorm.DB, baseLog *logger.Logger) ApplicationStatusRepo {
	return &applicationStatusRepo{db: db, log: baseLog.With("repo", "ApplicationStatusRepo")}
}

func (r *applicationStatusRepo) GetOrCreateByName(ctx context.Context, tx *gorm.DB, name string) (*types.ApplicationStatus, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var status types.ApplicationStatus
	if err := transaction.WithContext(ctx).
		Where(types.ApplicationStatus{Name: name}).
		FirstOrCreate(&status).Error; err != nil {
		return nil, err
	}
	return &status, nil
}

type ApplicationTypeRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*types.ApplicationType, error)
	Exists(ctx context.Context, tx *gorm.DB, id uint) (bool, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.ApplicationType, error)
}

type applicationTypeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewApplicationTypeRepo(db *gorm.DB, baseLog *logger.Logger) ApplicationTypeRepo {
	return &applicationTypeRepo{db: db, log: baseLog.With("repo", "ApplicationTypeRepo")}
}

func (r *applicationTypeRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*types.ApplicationType, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var applicationType types.ApplicationType
	if err := transaction.WithContext(ctx).First(&applicationType, id).Error; err != nil {
		return nil, err
	}
	return &applicationType, nil
}

func (r *applicationTypeRepo) Exists(ctx context.Context, tx *gorm.DB, id uint) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).Model(&types.ApplicationType{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *applicationTypeRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.ApplicationType, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var applicationTypes []*types.ApplicationType
	if err := transaction.WithContext(ctx).Order("id").Find(&applicationTypes).Error; err != nil {
		return nil, err
	}
	return applicationTypes, nil
}

type ApplicationLogRepo interface {
	Append(ctx context.Context, tx *gorm.DB, entry *types.ApplicationLog) error
	ListByApplicationID(ctx context.Context, tx *gorm.DB, applicationID uint) ([]*types.ApplicationLog, error)
}

type applicationLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewApplicationLogRepo(db *gorm.DB, baseLog *logger.Logger) ApplicationLogRepo {
	return &applicationLogRepo{db: db, log: baseLog.With("repo", "ApplicationLogRepo")}
}

func (r *applicationLogRepo) Append(ctx context.Context, tx *gorm.DB, entry *types.ApplicationLog) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(entry).Error
}

func (r *applicationLogRepo) ListByApplicationID(ctx context.Context, tx *gorm.DB, applicationID uint) ([]*types.ApplicationLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var entries []*types.ApplicationLog
	if err := transaction.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("id").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
