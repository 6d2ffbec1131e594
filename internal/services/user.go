package services

import (
	"context"

	"github.com/bramwell/claimsdesk-backend/internal/logger"
	"github.com/bramwell/claimsdesk-backend/internal/repos"
	"github.com/bramwell/claimsdesk-backend/internal/types"
)

type UserService interface {
	GetByID(ctx context.Context, id uint) (*types.User, error)
	ListAssessors(ctx context.Context) ([]*types.User, error)
}

type userService struct {
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(log *logger.Logger, userRepo repos.UserRepo) UserService {
	return &userService{
		log:      log.With("service", "UserService"),
		userRepo: userRepo,
	}
}

func (us *userService) GetByID(ctx context.Context, id uint) (*types.User, error) {
	return us.userRepo.GetByID(ctx, nil, id)
}

func (us *userService) ListAssessors(ctx context.Context) ([]*types.User, error) {
	return us.userRepo.ListByRole(ctx, nil, types.RoleAssessor)
}
