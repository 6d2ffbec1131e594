package app

import (
	"gorm.io/gorm"

	"github.com/bramwell/claimsdesk-backend/internal/jobs"
	"github.com/bramwell/claimsdesk-backend/internal/logger"
	"github.com/bramwell/claimsdesk-backend/internal/services"
)

type Services struct {
	Auth        services.AuthService
	User        services.UserService
	FileStore   services.FileStoreService
	Calendar    services.CalendarService
	Video       services.VideoService
	Mail        services.MailService
	Application services.ApplicationService
	Assessment  services.AssessmentService
	Claim       services.ClaimService
	Category    services.CategoryService
	ClaimTree   services.ClaimTreeService
	Reassign    services.ReassignService
	Survey      services.SurveyService
	SurveyAdmin services.SurveyAdminService
	SurveyTree  services.SurveyTreeService
	Report      services.ReportService

	VideoLinkWorker *jobs.VideoLinkWorker
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos) (Services, error) {
	log.Info("Wiring services...")

	fileStore, err := services.NewFileStoreService(log)
	if err != nil {
		return Services{}, err
	}
	calendar, err := services.NewCalendarService(log)
	if err != nil {
		return Services{}, err
	}
	video, err := services.NewVideoService(log)
	if err != nil {
		return Services{}, err
	}
	mail, err := services.NewMailService(log)
	if err != nil {
		return Services{}, err
	}

	auth := services.NewAuthService(db, log, r.User, r.UserToken, cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	user := services.NewUserService(log, r.User)
	application := services.NewApplicationService(db, log, r.Application, r.ApplicationStatus, r.ApplicationType, r.ApplicationLog, r.Client, r.InsuranceProvider, r.User, mail)
	assessment := services.NewAssessmentService(db, log, r.Assessment, r.AssessmentNote, r.VideoRoom, r.Application, r.ApplicationStatus, calendar, video, mail)
	claim := services.NewClaimService(db, log, r.Claim, r.Application, r.WhatForm, r.HowForm)
	category := services.NewCategoryService(db, log, r.Category, r.WhatForm, r.HowForm)
	claimTree := services.NewClaimTreeService(log, r.WhatForm, r.HowForm, fileStore)
	reassign := services.NewReassignService(db, log, r.Claim, r.Survey, r.WhatForm, r.HowForm, r.SurveyForm, fileStore)
	survey := services.NewSurveyService(db, log, r.Survey, r.Application, r.SurveyCategory, r.SurveyForm)
	surveyAdmin := services.NewSurveyAdminService(db, log, r.SurveyCategory, r.SurveyForm)
	surveyTree := services.NewSurveyTreeService(log, r.SurveyCategory, r.SurveyForm, fileStore)
	report := services.NewReportService(log, r.Claim, r.Survey, r.Application, r.Client, r.Assessment, r.AssessmentNote, r.Category, claimTree, surveyTree, fileStore)

	videoLinkWorker := jobs.NewVideoLinkWorker(db, log, r.Assessment, r.ApplicationStatus, calendar, cfg.VideoLinkInterval)

	return Services{
		Auth:        auth,
		User:        user,
		FileStore:   fileStore,
		Calendar:    calendar,
		Video:       video,
		Mail:        mail,
		Application: application,
		Assessment:  assessment,
		Claim:       claim,
		Category:    category,
		ClaimTree:   claimTree,
		Reassign:    reassign,
		Survey:      survey,
		SurveyAdmin: surveyAdmin,
		SurveyTree:  surveyTree,
		Report:      report,

		VideoLinkWorker: videoLinkWorker,
	}, nil
}
