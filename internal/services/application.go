package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/bramwell/claimsdesk-backend/internal/logger"
	"github.com/bramwell/claimsdesk-backend/internal/repos"
	"github.com/bramwell/claimsdesk-backend/internal/requestdata"
	"github.com/bramwell/claimsdesk-backend/internal/types"
)

// CreateApplicationInput bundles the client record opened together with a
// new application.
type CreateApplicationInput struct {
	Client   types.Client
	Incident *types.ClientIncident
	Business *types.Business
}

type ApplicationService interface {
	Create(ctx context.Context, input CreateApplicationInput) (*types.Application, error)
	GetByID(ctx context.Context, id uint) (*types.Application, error)
	List(ctx context.Context) ([]*types.Application, error)
	ListForAssessor(ctx context.Context, assessorID uint) ([]*types.Application, error)
	ChangeStatus(ctx context.Context, id uint, statusName string) error
	AssignAssessor(ctx context.Context, id, assessorID uint) error
	ListTypes(ctx context.Context) ([]*types.ApplicationType, error)
	ListLogs(ctx context.Context, id uint) ([]*types.ApplicationLog, error)

	UpdateClient(ctx context.Context, client *types.Client) error
	UpsertIncident(ctx context.Context, incident *types.ClientIncident) error
	UpsertBusiness(ctx context.Context, business *types.Business) error

	CreateProvider(ctx context.Context, provider *types.InsuranceProvider) (*types.InsuranceProvider, error)
	UpdateProvider(ctx context.Context, provider *types.InsuranceProvider) error
	// DeleteProvider nulls out the insurer on referencing clients before
	// removing the provider, and reports how many were detached.
	DeleteProvider(ctx context.Context, id uint) (int64, error)
	ListProviders(ctx context.Context) ([]*types.InsuranceProvider, error)
}

type applicationService struct {
	db              *gorm.DB
	log             *logger.Logger
	applicationRepo repos.ApplicationRepo
	statusRepo      repos.ApplicationStatusRepo
	typeRepo        repos.ApplicationTypeRepo
	logRepo         repos.ApplicationLogRepo
	clientRepo      repos.ClientRepo
	providerRepo    repos.InsuranceProviderRepo
	userRepo        repos.UserRepo
	mail            MailService
}

func NewApplicationService(
	db *gorm.DB,
	log *logger.Logger,
	applicationRepo repos.ApplicationRepo,
	statusRepo repos.ApplicationStatusRepo,
	typeRepo repos.ApplicationTypeRepo,
	logRepo repos.ApplicationLogRepo,
	clientRepo repos.ClientRepo,
	providerRepo repos.InsuranceProviderRepo,
	userRepo repos.UserRepo,
	mail MailService,
) ApplicationService {
	return &applicationService{
		db:              db,
		log:             log.With("service", "ApplicationService"),
		applicationRepo: applicationRepo,
		statusRepo:      statusRepo,
		typeRepo:        typeRepo,
		logRepo:         logRepo,
		clientRepo:      clientRepo,
		providerRepo:    providerRepo,
		userRepo:        userRepo,
		mail:            mail,
	}
}

func (as *applicationService) Create(ctx context.Context, input CreateApplicationInput) (*types.Application, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == 0 {
		return nil, fmt.Errorf("not authenticated")
	}
	if input.Client.FirstName == "" || input.Client.Email == "" {
		return nil, fmt.Errorf("client first name and email are required")
	}
	var application *types.Application
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		client, err := as.clientRepo.Create(ctx, tx, &input.Client)
		if err != nil {
			return fmt.Errorf("failed to create client: %w", err)
		}
		if input.Incident != nil {
			input.Incident.ClientID = client.ID
			if err := as.clientRepo.UpsertIncident(ctx, tx, input.Incident); err != nil {
				return fmt.Errorf("failed to save incident: %w", err)
			}
		}
		if input.Business != nil {
			input.Business.ClientID = client.ID
			if err := as.clientRepo.UpsertBusiness(ctx, tx, input.Business); err != nil {
				return fmt.Errorf("failed to save business: %w", err)
			}
		}
		status, err := as.statusRepo.GetOrCreateByName(ctx, tx, types.StatusPending)
		if err != nil {
			return fmt.Errorf("failed to resolve status: %w", err)
		}
		application, err = as.applicationRepo.Create(ctx, tx, &types.Application{
			ClientID: client.ID,
			UserID:   rd.UserID,
			StatusID: status.ID,
		})
		if err != nil {
			return fmt.Errorf("failed to create application: %w", err)
		}
		return as.logRepo.Append(ctx, tx, &types.ApplicationLog{
			ApplicationID: application.ID,
			UserID:        rd.UserID,
			Log:           "Application created",
		})
	})
	if err != nil {
		return nil, err
	}
	return application, nil
}

func (as *applicationService) GetByID(ctx context.Context, id uint) (*types.Application, error) {
	return as.applicationRepo.GetByID(ctx, nil, id)
}

func (as *applicationService) List(ctx context.Context) ([]*types.Application, error) {
	return as.applicationRepo.List(ctx, nil)
}

func (as *applicationService) ListForAssessor(ctx context.Context, assessorID uint) ([]*types.Application, error) {
	return as.applicationRepo.ListByAssessorID(ctx, nil, assessorID)
}

func (as *applicationService) ChangeStatus(ctx context.Context, id uint, statusName string) error {
	if statusName != types.StatusPending && statusName != types.StatusScheduled && statusName != types.StatusCompleted {
		return fmt.Errorf("unknown status %q", statusName)
	}
	if _, err := as.applicationRepo.GetByID(ctx, nil, id); err != nil {
		return err
	}
	return as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		status, err := as.statusRepo.GetOrCreateByName(ctx, tx, statusName)
		if err != nil {
			return fmt.Errorf("failed to resolve status: %w", err)
		}
		if err := as.applicationRepo.UpdateStatus(ctx, tx, id, status.ID); err != nil {
			return err
		}
		rd := requestdata.GetRequestData(ctx)
		if rd == nil {
			return nil
		}
		return as.logRepo.Append(ctx, tx, &types.ApplicationLog{
			ApplicationID: id,
			UserID:        rd.UserID,
			Log:           fmt.Sprintf("Status changed to %s", statusName),
		})
	})
}

func (as *applicationService) AssignAssessor(ctx context.Context, id, assessorID uint) error {
	assessor, err := as.userRepo.GetByID(ctx, nil, assessorID)
	if err != nil {
		return fmt.Errorf("assessor not found: %w", err)
	}
	if assessor.Role != types.RoleAssessor {
		return fmt.Errorf("user %d is not an assessor", assessorID)
	}
	if _, err := as.applicationRepo.GetByID(ctx, nil, id); err != nil {
		return err
	}
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := as.applicationRepo.AssignAssessor(ctx, tx, id, assessorID, time.Now()); err != nil {
			return err
		}
		rd := requestdata.GetRequestData(ctx)
		if rd == nil {
			return nil
		}
		return as.logRepo.Append(ctx, tx, &types.ApplicationLog{
			ApplicationID: id,
			UserID:        rd.UserID,
			Log:           fmt.Sprintf("Assessor %s %s assigned", assessor.FirstName, assessor.LastName),
		})
	})
	if err != nil {
		return err
	}
	// Best effort, the assignment stands even if the notice fails.
	if as.mail != nil {
		body := fmt.Sprintf("<p>Hi %s,</p><p>You have been assigned application #%d.</p>", assessor.FirstName, id)
		if mErr := as.mail.Send(ctx, []string{assessor.Email}, "New application assigned", body); mErr != nil {
			as.log.Warn("Failed to send assignment mail", "application_id", id, "error", mErr)
		}
	}
	return nil
}

func (as *applicationService) ListTypes(ctx context.Context) ([]*types.ApplicationType, error) {
	return as.typeRepo.List(ctx, nil)
}

func (as *applicationService) ListLogs(ctx context.Context, id uint) ([]*types.ApplicationLog, error) {
	return as.logRepo.ListByApplicationID(ctx, nil, id)
}

func (as *applicationService) UpdateClient(ctx context.Context, client *types.Client) error {
	existing, err := as.clientRepo.GetByID(ctx, nil, client.ID)
	if err != nil {
		return err
	}
	client.CreatedAt = existing.CreatedAt
	return as.clientRepo.Update(ctx, nil, client)
}

func (as *applicationService) UpsertIncident(ctx context.Context, incident *types.ClientIncident) error {
	if _, err := as.clientRepo.GetByID(ctx, nil, incident.ClientID); err != nil {
		return fmt.Errorf("client not found: %w", err)
	}
	return as.clientRepo.UpsertIncident(ctx, nil, incident)
}

func (as *applicationService) UpsertBusiness(ctx context.Context, business *types.Business) error {
	if _, err := as.clientRepo.GetByID(ctx, nil, business.ClientID); err != nil {
		return fmt.Errorf("client not found: %w", err)
	}
	return as.clientRepo.UpsertBusiness(ctx, nil, business)
}

func (as *applicationService) CreateProvider(ctx context.Context, provider *types.InsuranceProvider) (*types.InsuranceProvider, error) {
	if provider.InsuranceName == "" {
		return nil, fmt.Errorf("insurance name is required")
	}
	return as.providerRepo.Create(ctx, nil, provider)
}

func (as *applicationService) UpdateProvider(ctx context.Context, provider *types.InsuranceProvider) error {
	if _, err := as.providerRepo.GetByID(ctx, nil, provider.ID); err != nil {
		return err
	}
	return as.providerRepo.Update(ctx, nil, provider)
}

func (as *applicationService) DeleteProvider(ctx context.Context, id uint) (int64, error) {
	if _, err := as.providerRepo.GetByID(ctx, nil, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("insurance provider not found")
		}
		return 0, err
	}
	var detached int64
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := as.clientRepo.DetachInsurer(ctx, tx, id)
		if err != nil {
			return err
		}
		detached = n
		return as.providerRepo.Delete(ctx, tx, id)
	})
	if err != nil {
		return 0, err
	}
	return detached, nil
}

func (as *applicationService) ListProviders(ctx context.Context) ([]*types.InsuranceProvider, error) {
	return as.providerRepo.List(ctx, nil)
}
