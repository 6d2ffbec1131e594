package app

import (
	"github.com/bramwell/claimsdesk-backend/internal/handlers"
	"github.com/bramwell/claimsdesk-backend/internal/logger"
)

type Handlers struct {
	Auth        *handlers.AuthHandler
	Application *handlers.ApplicationHandler
	Assessment  *handlers.AssessmentHandler
	Claim       *handlers.ClaimHandler
	Survey      *handlers.SurveyHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:        handlers.NewAuthHandler(services.Auth),
		Application: handlers.NewApplicationHandler(services.Application, services.User),
		Assessment:  handlers.NewAssessmentHandler(services.Assessment, services.FileStore),
		Claim: handlers.NewClaimHandler(
			services.Claim,
			services.Category,
			services.ClaimTree,
			services.Reassign,
			services.Assessment,
			services.Report,
			services.FileStore,
		),
		Survey: handlers.NewSurveyHandler(
			services.Survey,
			services.SurveyAdmin,
			services.SurveyTree,
			services.Reassign,
			services.Report,
		),
	}
}
