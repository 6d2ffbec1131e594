package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bramwell/claimsdesk-backend/internal/logger"
	"github.com/bramwell/claimsdesk-backend/internal/repos"
	"github.com/bramwell/claimsdesk-backend/internal/types"
)

// ClaimReport is the flat structure the PDF renderer consumes.
type ClaimReport struct {
	Application *types.Application     `json:"application"`
	Client      *types.Client          `json:"client"`
	Incident    *types.ClientIncident  `json:"incident"`
	Business    *types.Business        `json:"business"`
	Assessment  *types.Assessment      `json:"assessment"`
	Notes       []*types.AssessmentNote `json:"notes"`
	CauseName   string                 `json:"cause_name"`
	WhatName    string                 `json:"what_name"`
	HowName     string                 `json:"how_name"`
	WhatTree    []TreeTitle            `json:"what_tree"`
	HowTree     []TreeTitle            `json:"how_tree"`
}

type SurveyReport struct {
	Application *types.Application   `json:"application"`
	Client      *types.Client        `json:"client"`
	Survey      *types.Survey        `json:"survey"`
	Categories  []SurveyTreeCategory `json:"categories"`
}

// ReportService assembles claim and survey reports and renders them to PDF.
// Generate uploads the rendered document and returns a signed URL; Preview
// returns the assembled data without rendering.
type ReportService interface {
	PreviewClaimReport(ctx context.Context, claimID uint) (*ClaimReport, error)
	GenerateClaimReport(ctx context.Context, claimID uint) (string, error)
	PreviewSurveyReport(ctx context.Context, surveyID uint) (*SurveyReport, error)
	GenerateSurveyReport(ctx context.Context, surveyID uint) (string, error)
}

type reportService struct {
	log             *logger.Logger
	claimRepo       repos.ClaimRepo
	surveyRepo      repos.SurveyRepo
	applicationRepo repos.ApplicationRepo
	clientRepo      repos.ClientRepo
	assessmentRepo  repos.AssessmentRepo
	noteRepo        repos.AssessmentNoteRepo
	categoryRepo    repos.CategoryRepo
	claimTree       ClaimTreeService
	surveyTree      SurveyTreeService
	fileStore       FileStoreService
}

func NewReportService(
	log *logger.Logger,
	claimRepo repos.ClaimRepo,
	surveyRepo repos.SurveyRepo,
	applicationRepo repos.ApplicationRepo,
	clientRepo repos.ClientRepo,
	assessmentRepo repos.AssessmentRepo,
	noteRepo repos.AssessmentNoteRepo,
	categoryRepo repos.CategoryRepo,
	claimTree ClaimTreeService,
	surveyTree SurveyTreeService,
	fileStore FileStoreService,
) ReportService {
	return &reportService{
		log:             log.With("service", "ReportService"),
		claimRepo:       claimRepo,
		surveyRepo:      surveyRepo,
		applicationRepo: applicationRepo,
		clientRepo:      clientRepo,
		assessmentRepo:  assessmentRepo,
		noteRepo:        noteRepo,
		categoryRepo:    categoryRepo,
		claimTree:       claimTree,
		surveyTree:      surveyTree,
		fileStore:       fileStore,
	}
}

func (rs *reportService) PreviewClaimReport(ctx context.Context, claimID uint) (*ClaimReport, error) {
	claim, err := rs.claimRepo.GetByID(ctx, nil, claimID)
	if err != nil {
		return nil, err
	}
	application, err := rs.applicationRepo.GetByID(ctx, nil, claim.ApplicationID)
	if err != nil {
		return nil, err
	}
	report := &ClaimReport{Application: application, Client: application.Client}
	if application.Client != nil {
		incident, iErr := rs.clientRepo.GetIncidentByClientID(ctx, nil, application.Client.ID)
		if iErr != nil && !errors.Is(iErr, gorm.ErrRecordNotFound) {
			return nil, iErr
		}
		report.Incident = incident
		business, bErr := rs.clientRepo.GetBusinessByClientID(ctx, nil, application.Client.ID)
		if bErr != nil && !errors.Is(bErr, gorm.ErrRecordNotFound) {
			return nil, bErr
		}
		report.Business = business
	}
	assessment, aErr := rs.assessmentRepo.GetByApplicationID(ctx, nil, application.ID)
	if aErr != nil && !errors.Is(aErr, gorm.ErrRecordNotFound) {
		return nil, aErr
	}
	report.Assessment = assessment
	notes, err := rs.noteRepo.ListByClaimIDs(ctx, nil, []uint{claimID})
	if err != nil {
		return nil, err
	}
	report.Notes = notes

	cause, cErr := rs.claimRepo.GetCause(ctx, nil, claimID)
	if cErr != nil && !errors.Is(cErr, gorm.ErrRecordNotFound) {
		return nil, cErr
	}
	if cause != nil {
		category, err := rs.categoryRepo.GetCauseByID(ctx, nil, cause.CauseID)
		if err == nil {
			report.CauseName = category.Name
		}
	}
	what, wErr := rs.claimRepo.GetWhat(ctx, nil, claimID)
	if wErr != nil && !errors.Is(wErr, gorm.ErrRecordNotFound) {
		return nil, wErr
	}
	if what != nil {
		category, err := rs.categoryRepo.GetWhatByID(ctx, nil, what.WhatID)
		if err == nil {
			report.WhatName = category.Name
		}
		tree, err := rs.claimTree.WhatForClaim(ctx, what.WhatID, claimID)
		if err != nil {
			return nil, err
		}
		report.WhatTree = tree
	}
	how, hErr := rs.claimRepo.GetHow(ctx, nil, claimID)
	if hErr != nil && !errors.Is(hErr, gorm.ErrRecordNotFound) {
		return nil, hErr
	}
	if how != nil {
		category, err := rs.categoryRepo.GetHowByID(ctx, nil, how.HowID)
		if err == nil {
			report.HowName = category.Name
		}
		tree, err := rs.claimTree.HowForClaim(ctx, how.HowID, claimID)
		if err != nil {
			return nil, err
		}
		report.HowTree = tree
	}
	return report, nil
}

func (rs *reportService) GenerateClaimReport(ctx context.Context, claimID uint) (string, error) {
	report, err := rs.PreviewClaimReport(ctx, claimID)
	if err != nil {
		return "", err
	}
	pdfBytes, err := renderClaimReport(report)
	if err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	key := fmt.Sprintf("reports/claim-%d-%s.pdf", claimID, uuid.New().String()[:8])
	if err := rs.fileStore.Upload(ctx, key, bytes.NewReader(pdfBytes)); err != nil {
		return "", fmt.Errorf("failed to upload report: %w", err)
	}
	return rs.fileStore.SignedURL(key)
}

func (rs *reportService) PreviewSurveyReport(ctx context.Context, surveyID uint) (*SurveyReport, error) {
	survey, err := rs.surveyRepo.GetByID(ctx, nil, surveyID)
	if err != nil {
		return nil, err
	}
	application, err := rs.applicationRepo.GetByID(ctx, nil, survey.ApplicationID)
	if err != nil {
		return nil, err
	}
	categories, err := rs.surveyTree.CategoryTree(ctx, survey.ApplicationTypeID, surveyID)
	if err != nil {
		return nil, err
	}
	return &SurveyReport{
		Application: application,
		Client:      application.Client,
		Survey:      survey,
		Categories:  categories,
	}, nil
}

func (rs *reportService) GenerateSurveyReport(ctx context.Context, surveyID uint) (string, error) {
	report, err := rs.PreviewSurveyReport(ctx, surveyID)
	if err != nil {
		return "", err
	}
	pdfBytes, err := renderSurveyReport(report)
	if err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	key := fmt.Sprintf("reports/survey-%d-%s.pdf", surveyID, uuid.New().String()[:8])
	if err := rs.fileStore.Upload(ctx, key, bytes.NewReader(pdfBytes)); err != nil {
		return "", fmt.Errorf("failed to upload report: %w", err)
	}
	return rs.fileStore.SignedURL(key)
}

func renderClaimReport(report *ClaimReport) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Claim Assessment Report")
	pdf.Ln(12)

	if report.Client != nil {
		writeHeading(pdf, "Client")
		writeField(pdf, "Name", report.Client.FirstName+" "+report.Client.LastName)
		writeField(pdf, "Email", report.Client.Email)
		writeField(pdf, "ID Number", report.Client.IDNumber)
		writeField(pdf, "Policy No", report.Client.PolicyNo)
		if report.Client.Insurer != nil {
			writeField(pdf, "Insurer", report.Client.Insurer.InsuranceName)
		}
		pdf.Ln(4)
	}
	if report.Incident != nil {
		writeHeading(pdf, "Incident")
		writeField(pdf, "Date", report.Incident.DateOfIncident.Format("2006-01-02"))
		writeField(pdf, "Address", report.Incident.StreetAddress)
		writeField(pdf, "City", report.Incident.City)
		pdf.Ln(4)
	}
	if report.Business != nil {
		writeHeading(pdf, "Business")
		writeField(pdf, "Name", report.Business.BusinessName)
		writeField(pdf, "Reg Number", report.Business.RegNumber)
		pdf.Ln(4)
	}
	if report.Assessment != nil {
		writeHeading(pdf, "Assessment")
		writeField(pdf, "Scheduled", report.Assessment.ScheduledDateTime.Format("2006-01-02 15:04"))
		writeField(pdf, "Summary", report.Assessment.Summary)
		pdf.Ln(4)
	}

	writeHeading(pdf, "Classification")
	writeField(pdf, "Cause", report.CauseName)
	writeField(pdf, "What", report.WhatName)
	writeField(pdf, "How", report.HowName)
	pdf.Ln(4)

	writeTree(pdf, "What Details", report.WhatTree)
	writeTree(pdf, "How Details", report.HowTree)

	if len(report.Notes) > 0 {
		writeHeading(pdf, "Assessment Notes")
		for _, note := range report.Notes {
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, note.Note, "", "L", false)
			pdf.Ln(2)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderSurveyReport(report *SurveyReport) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Survey Report")
	pdf.Ln(12)

	if report.Client != nil {
		writeHeading(pdf, "Client")
		writeField(pdf, "Name", report.Client.FirstName+" "+report.Client.LastName)
		writeField(pdf, "Email", report.Client.Email)
		pdf.Ln(4)
	}
	for _, category := range report.Categories {
		writeHeading(pdf, category.Name)
		for _, categoryType := range category.Types {
			pdf.SetFont("Helvetica", "B", 11)
			pdf.Cell(0, 7, categoryType.Name)
			pdf.Ln(7)
			writeTree(pdf, "", categoryType.Titles)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeHeading(pdf *fpdf.Fpdf, text string) {
	if text == "" {
		return
	}
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, text)
	pdf.Ln(8)
}

func writeField(pdf *fpdf.Fpdf, label, value string) {
	if value == "" {
		return
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Cell(40, 6, label)
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 6, value, "", "L", false)
}

func writeTree(pdf *fpdf.Fpdf, heading string, titles []TreeTitle) {
	if len(titles) == 0 {
		return
	}
	writeHeading(pdf, heading)
	for _, title := range titles {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Cell(0, 7, title.Title)
		pdf.Ln(7)
		for _, question := range title.Questions {
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, question.Question, "", "L", false)
			for _, answer := range question.Answers {
				pdf.SetFont("Helvetica", "I", 10)
				pdf.MultiCell(0, 5, answer.Answer, "", "L", false)
			}
			pdf.Ln(1)
		}
	}
	pdf.Ln(4)
}
