package app

import (
	"github.com/gin-gonic/gin"

	"github.com/bramwell/claimsdesk-backend/internal/server"
)

func wireRouter(handlers Handlers, middleware Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AuthHandler:        handlers.Auth,
		AuthMiddleware:     middleware.Auth,
		ApplicationHandler: handlers.Application,
		AssessmentHandler:  handlers.Assessment,
		ClaimHandler:       handlers.Claim,
		SurveyHandler:      handlers.Survey,
	})
}
