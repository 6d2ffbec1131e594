package app

import (
	"gorm.io/gorm"

	"github.com/bramwell/claimsdesk-backend/internal/logger"
	"github.com/bramwell/claimsdesk-backend/internal/repos"
)

type Repos struct {
	User              repos.UserRepo
	UserToken         repos.UserTokenRepo
	Client            repos.ClientRepo
	InsuranceProvider repos.InsuranceProviderRepo
	Application       repos.ApplicationRepo
	ApplicationStatus repos.ApplicationStatusRepo
	ApplicationType   repos.ApplicationTypeRepo
	ApplicationLog    repos.ApplicationLogRepo
	Assessment        repos.AssessmentRepo
	AssessmentNote    repos.AssessmentNoteRepo
	VideoRoom         repos.VideoRoomRepo
	Claim             repos.ClaimRepo
	Category          repos.CategoryRepo
	WhatForm          repos.WhatFormRepo
	HowForm           repos.HowFormRepo
	Survey            repos.SurveyRepo
	SurveyCategory    repos.SurveyCategoryRepo
	SurveyForm        repos.SurveyFormRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:              repos.NewUserRepo(db, log),
		UserToken:         repos.NewUserTokenRepo(db, log),
		Client:            repos.NewClientRepo(db, log),
		InsuranceProvider: repos.NewInsuranceProviderRepo(db, log),
		Application:       repos.NewApplicationRepo(db, log),
		ApplicationStatus: repos.NewApplicationStatusRepo(db, log),
		ApplicationType:   repos.NewApplicationTypeRepo(db, log),
		ApplicationLog:    repos.NewApplicationLogRepo(db, log),
		Assessment:        repos.NewAssessmentRepo(db, log),
		AssessmentNote:    repos.NewAssessmentNoteRepo(db, log),
		VideoRoom:         repos.NewVideoRoomRepo(db, log),
		Claim:             repos.NewClaimRepo(db, log),
		Category:          repos.NewCategoryRepo(db, log),
		WhatForm:          repos.NewWhatFormRepo(db, log),
		HowForm:           repos.NewHowFormRepo(db, log),
		Survey:            repos.NewSurveyRepo(db, log),
		SurveyCategory:    repos.NewSurveyCategoryRepo(db, log),
		SurveyForm:        repos.NewSurveyFormRepo(db, log),
	}
}
