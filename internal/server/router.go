package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/bramwell/claimsdesk-backend/internal/handlers"
	"github.com/bramwell/claimsdesk-backend/internal/middleware"
	"github.com/bramwell/claimsdesk-backend/internal/types"
)

type RouterConfig struct {
	AuthHandler        *handlers.AuthHandler
	AuthMiddleware     *middleware.AuthMiddleware
	ApplicationHandler *handlers.ApplicationHandler
	AssessmentHandler  *handlers.AssessmentHandler
	ClaimHandler       *handlers.ClaimHandler
	SurveyHandler      *handlers.SurveyHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	api.POST("/register", cfg.AuthHandler.Register)
	api.POST("/login", cfg.AuthHandler.Login)
	api.POST("/refresh", cfg.AuthHandler.Refresh)

	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	protected.POST("/logout", cfg.AuthHandler.Logout)

	// Applications
	protected.POST("/applications", cfg.ApplicationHandler.Create)
	protected.GET("/applications", cfg.ApplicationHandler.List)
	protected.GET("/applications/:id", cfg.ApplicationHandler.Get)
	protected.PUT("/applications/:id/status", cfg.ApplicationHandler.ChangeStatus)
	protected.PUT("/applications/:id/complete", cfg.ApplicationHandler.Complete)
	protected.GET("/applications/:id/logs", cfg.ApplicationHandler.ListLogs)
	protected.PUT("/applications/:id/client", cfg.ApplicationHandler.UpdateClient)
	protected.PUT("/applications/:id/business", cfg.ApplicationHandler.UpsertBusiness)
	protected.PUT("/applications/:id/incident", cfg.ApplicationHandler.UpsertIncident)
	protected.GET("/application-types", cfg.ApplicationHandler.ListTypes)

	// Assessments
	protected.POST("/applications/:id/assessment", cfg.AssessmentHandler.Schedule)
	protected.GET("/applications/:id/assessment", cfg.AssessmentHandler.Get)
	protected.PUT("/assessments/:id/summary", cfg.AssessmentHandler.UpdateSummary)
	protected.POST("/assessments/notes", cfg.AssessmentHandler.CreateNote)
	protected.PUT("/assessments/notes/:id", cfg.AssessmentHandler.UpdateNote)
	protected.POST("/assessments/:id/video-room", cfg.AssessmentHandler.OpenVideoRoom)
	protected.DELETE("/assessments/:id/video-room", cfg.AssessmentHandler.CloseVideoRoom)
	protected.GET("/assessments/:id/video-token", cfg.AssessmentHandler.RoomToken)
	protected.GET("/assessments/:id/join-link", cfg.AssessmentHandler.JoinLink)

	// Claims
	protected.POST("/claims", cfg.ClaimHandler.Create)
	protected.GET("/applications/:id/claims", cfg.ClaimHandler.ListByApplication)
	protected.GET("/claims/:id", cfg.ClaimHandler.Info)
	protected.POST("/claims/:id/what-answers", cfg.ClaimHandler.SaveWhatAnswers)
	protected.POST("/claims/:id/how-answers", cfg.ClaimHandler.SaveHowAnswers)
	protected.POST("/claims/answer-files", cfg.ClaimHandler.UploadAnswerFile)
	protected.PUT("/claims/:id/what", cfg.ClaimHandler.AssignWhat)
	protected.PUT("/claims/:id/how", cfg.ClaimHandler.AssignHow)
	protected.PUT("/claims/:id/cause", cfg.ClaimHandler.AssignCause)
	protected.GET("/claims/:id/what/:whatId/questions", cfg.ClaimHandler.ClaimWhatQuestions)
	protected.GET("/claims/:id/how/:howId/questions", cfg.ClaimHandler.ClaimHowQuestions)
	protected.GET("/claims/:id/report", cfg.ClaimHandler.PreviewReport)
	protected.POST("/claims/:id/report", cfg.ClaimHandler.GenerateReport)

	// Claim category tree, read side
	protected.GET("/application-types/:id/causes", cfg.ClaimHandler.ListCauses)
	protected.GET("/causes/:id/whats", cfg.ClaimHandler.ListWhats)
	protected.GET("/causes/:id/hows", cfg.ClaimHandler.ListHows)
	protected.GET("/whats/:id/questions", cfg.ClaimHandler.WhatQuestions)
	protected.GET("/hows/:id/questions", cfg.ClaimHandler.HowQuestions)

	// Surveys
	protected.POST("/surveys", cfg.SurveyHandler.Create)
	protected.GET("/applications/:id/surveys", cfg.SurveyHandler.ListByApplication)
	protected.GET("/surveys/:id", cfg.SurveyHandler.Get)
	protected.PUT("/surveys/:id/type", cfg.SurveyHandler.ChangeType)
	protected.POST("/surveys/:id/answers", cfg.SurveyHandler.SaveAnswers)
	protected.GET("/surveys/:id/tree", cfg.SurveyHandler.Tree)
	protected.GET("/surveys/:id/category-types/:categoryTypeId/questions", cfg.SurveyHandler.SurveyTitleQuestions)
	protected.GET("/surveys/:id/report", cfg.SurveyHandler.PreviewReport)
	protected.POST("/surveys/:id/report", cfg.SurveyHandler.GenerateReport)

	// Survey category tree, read side
	protected.GET("/application-types/:id/survey-categories", cfg.SurveyHandler.ListCategories)
	protected.GET("/survey-categories/:id/types", cfg.SurveyHandler.ListCategoryTypes)
	protected.GET("/survey-category-types/:id/questions", cfg.SurveyHandler.TitleQuestions)

	// Administration
	admin := protected.Group("/")
	admin.Use(cfg.AuthMiddleware.RequireRole(types.RoleAdmin))

	admin.PUT("/applications/:id/assessor", cfg.ApplicationHandler.AssignAssessor)
	admin.GET("/assessors", cfg.ApplicationHandler.ListAssessors)
	admin.POST("/insurance-providers", cfg.ApplicationHandler.CreateProvider)
	admin.PUT("/insurance-providers/:id", cfg.ApplicationHandler.UpdateProvider)
	admin.DELETE("/insurance-providers/:id", cfg.ApplicationHandler.DeleteProvider)
	admin.GET("/insurance-providers", cfg.ApplicationHandler.ListProviders)

	admin.POST("/causes", cfg.ClaimHandler.CreateCause)
	admin.PUT("/causes/:id", cfg.ClaimHandler.RenameCause)
	admin.DELETE("/causes/:id", cfg.ClaimHandler.DeleteCause)
	admin.POST("/whats", cfg.ClaimHandler.CreateWhat)
	admin.PUT("/whats/:id", cfg.ClaimHandler.RenameWhat)
	admin.DELETE("/whats/:id", cfg.ClaimHandler.DeleteWhat)
	admin.POST("/hows", cfg.ClaimHandler.CreateHow)
	admin.PUT("/hows/:id", cfg.ClaimHandler.RenameHow)
	admin.DELETE("/hows/:id", cfg.ClaimHandler.DeleteHow)

	admin.POST("/whats/:id/titles", cfg.ClaimHandler.CreateWhatTitle)
	admin.PUT("/what-titles/:id", cfg.ClaimHandler.RenameWhatTitle)
	admin.DELETE("/what-titles/:id", cfg.ClaimHandler.DeleteWhatTitle)
	admin.POST("/what-titles/:id/questions", cfg.ClaimHandler.CreateWhatQuestion)
	admin.PUT("/what-questions/:id", cfg.ClaimHandler.UpdateWhatQuestion)
	admin.DELETE("/what-questions/:id", cfg.ClaimHandler.DeleteWhatQuestion)
	admin.POST("/hows/:id/titles", cfg.ClaimHandler.CreateHowTitle)
	admin.PUT("/how-titles/:id", cfg.ClaimHandler.RenameHowTitle)
	admin.DELETE("/how-titles/:id", cfg.ClaimHandler.DeleteHowTitle)
	admin.POST("/how-titles/:id/questions", cfg.ClaimHandler.CreateHowQuestion)
	admin.PUT("/how-questions/:id", cfg.ClaimHandler.UpdateHowQuestion)
	admin.DELETE("/how-questions/:id", cfg.ClaimHandler.DeleteHowQuestion)

	admin.POST("/survey-categories", cfg.SurveyHandler.CreateCategory)
	admin.PUT("/survey-categories/:id", cfg.SurveyHandler.RenameCategory)
	admin.DELETE("/survey-categories/:id", cfg.SurveyHandler.DeleteCategory)
	admin.POST("/survey-category-types", cfg.SurveyHandler.CreateCategoryType)
	admin.PUT("/survey-category-types/:id", cfg.SurveyHandler.RenameCategoryType)
	admin.DELETE("/survey-category-types/:id", cfg.SurveyHandler.DeleteCategoryType)
	admin.POST("/survey-category-types/:id/titles", cfg.SurveyHandler.CreateTitle)
	admin.PUT("/survey-titles/:id", cfg.SurveyHandler.RenameTitle)
	admin.DELETE("/survey-titles/:id", cfg.SurveyHandler.DeleteTitle)
	admin.POST("/survey-titles/:id/questions", cfg.SurveyHandler.CreateQuestion)
	admin.PUT("/survey-questions/:id", cfg.SurveyHandler.UpdateQuestion)
	admin.DELETE("/survey-questions/:id", cfg.SurveyHandler.DeleteQuestion)

	return router
}
