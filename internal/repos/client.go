package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/bramwell/claimsdesk-backend/internal/logger"
	"github.com/bramwell/claimsdesk-backend/internal/types"
)

type ClientRepo interface {
	Create(ctx context.Context, tx *gorm.DB, client *types.Client) (*types.Client, error)
	Update(ctx context.Context, tx *gorm.DB, client *types.Client) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*types.Client, error)
	// DetachInsurer nulls out insurer_id on every client referencing the
	// provider; called before the provider row itself is deleted.
	DetachInsurer(ctx context.Context, tx *gorm.DB, providerID uint) (int64, error)
	UpsertIncident(ctx context.Context, tx *gorm.DB, incident *types.ClientIncident) error
	GetIncidentByClientID(ctx context.Context, tx *gorm.DB, clientID uint) (*types.ClientIncident, error)
	UpsertBusiness(ctx context.Context, tx *gorm.DB, business *types.Business) error
	GetBusinessByClientID(ctx context.Context, tx *gorm.DB, clientID uint) (*types.Business, error)
}

type clientRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewClientRepo(db *gorm.DB, baseLog *logger.Logger) ClientRepo {
	return &clientRepo{db: db, log: baseLog.With("repo", "ClientRepo")}
}

func (r *clientRepo) Create(ctx context.Context, tx *gorm.DB, client *types.Client) (*types.Client, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(client).Error; err != nil {
		return nil, err
	}
	return client, nil
}

func (r *clientRepo) Update(ctx context.Context, tx *gorm.DB, client *types.Client) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(client).Error
}

func (r *clientRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*types.Client, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var client types.Client
	if err := transaction.WithContext(ctx).Preload("Insurer").First(&client, id).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepo) DetachInsurer(ctx context.Context, tx *gorm.DB, providerID uint) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	result := transaction.WithContext(ctx).
		Model(&types.Client{}).
		Where("insurer_id = ?", providerID).
		Update("insurer_id", nil)
	return result.RowsAffected, result.Error
}

func (r *clientRepo) UpsertIncident(ctx context.Context, tx *gorm.DB, incident *types.ClientIncident) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var existing types.ClientIncident
	err := transaction.WithContext(ctx).Where("client_id = ?", incident.ClientID).First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return transaction.WithContext(ctx).Create(incident).Error
		}
		return err
	}
	incident.ID = existing.ID
	return transaction.WithContext(ctx).Save(incident).Error
}

func (r *clientRepo) GetIncidentByClientID(ctx context.Context, tx *gorm.DB, clientID uint) (*types.ClientIncident, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var incident types.ClientIncident
	if err := transaction.WithContext(ctx).Where("client_id = ?", clientID).First(&incident).Error; err != nil {
		return nil, err
	}
	return &incident, nil
}

func (r *clientRepo) UpsertBusiness(ctx context.Context, tx *gorm.DB, business *types.Business) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var existing types.Business
	err := transaction.WithContext(ctx).Where("client_id = ?", business.ClientID).First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return transaction.WithContext(ctx).Create(business).Error
		}
		return err
	}
	business.ID = existing.ID
	return transaction.WithContext(ctx).Save(business).Error
}

func (r *clientRepo) GetBusinessByClientID(ctx context.Context, tx *gorm.DB, clientID uint) (*types.Business, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var business types.Business
	if err := transaction.WithContext(ctx).Where("client_id = ?", clientID).First(&business).Error; err != nil {
		return nil, err
	}
	return &business, nil
}
