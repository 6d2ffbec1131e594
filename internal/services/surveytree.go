package services

import (
	"context"
	"strings"

	"github.com/bramwell/claimsdesk-backend/internal/logger"
	"github.com/bramwell/claimsdesk-backend/internal/repos"
	"github.com/bramwell/claimsdesk-backend/internal/types"
)

type SurveyTreeCategoryType struct {
	ID     uint        `json:"id"`
	Name   string      `json:"name"`
	Titles []TreeTitle `json:"titles"`
}

type SurveyTreeCategory struct {
	ID    uint                     `json:"id"`
	Name  string                   `json:"name"`
	Types []SurveyTreeCategoryType `json:"types"`
}

// SurveyTreeService materializes survey form trees: title-level views for
// the form UI and the full category tree used by reports.
type SurveyTreeService interface {
	TitleDefinition(ctx context.Context, categoryTypeID uint) ([]TreeTitle, error)
	TitlesForSurvey(ctx context.Context, categoryTypeID, surveyID uint) ([]TreeTitle, error)
	CategoryTree(ctx context.Context, applicationTypeID, surveyID uint) ([]SurveyTreeCategory, error)
}

type surveyTreeService struct {
	log          *logger.Logger
	categoryRepo repos.SurveyCategoryRepo
	formRepo     repos.SurveyFormRepo
	fileStore    FileStoreService
}

func NewSurveyTreeService(
	log *logger.Logger,
	categoryRepo repos.SurveyCategoryRepo,
	formRepo repos.SurveyFormRepo,
	fileStore FileStoreService,
) SurveyTreeService {
	return &surveyTreeService{
		log:          log.With("service", "SurveyTreeService"),
		categoryRepo: categoryRepo,
		formRepo:     formRepo,
		fileStore:    fileStore,
	}
}

func (ts *surveyTreeService) TitleDefinition(ctx context.Context, categoryTypeID uint) ([]TreeTitle, error) {
	return ts.materializeTitles(ctx, []uint{categoryTypeID}, 0, false)
}

func (ts *surveyTreeService) TitlesForSurvey(ctx context.Context, categoryTypeID, surveyID uint) ([]TreeTitle, error) {
	return ts.materializeTitles(ctx, []uint{categoryTypeID}, surveyID, true)
}

// CategoryTree assembles the whole survey structure for one application type
// with answers scoped to one survey.
func (ts *surveyTreeService) CategoryTree(ctx context.Context, applicationTypeID, surveyID uint) ([]SurveyTreeCategory, error) {
	categories, err := ts.categoryRepo.ListCategoriesByApplicationTypeID(ctx, nil, applicationTypeID)
	if err != nil {
		return nil, err
	}
	out := make([]SurveyTreeCategory, 0, len(categories))
	for _, category := range categories {
		categoryTypes, err := ts.categoryRepo.ListCategoryTypesByCategoryIDs(ctx, nil, []uint{category.ID})
		if err != nil {
			return nil, err
		}
		node := SurveyTreeCategory{ID: category.ID, Name: category.Name}
		for _, categoryType := range categoryTypes {
			titles, err := ts.materializeTitles(ctx, []uint{categoryType.ID}, surveyID, true)
			if err != nil {
				return nil, err
			}
			node.Types = append(node.Types, SurveyTreeCategoryType{
				ID:     categoryType.ID,
				Name:   categoryType.Name,
				Titles: titles,
			})
		}
		out = append(out, node)
	}
	return out, nil
}

func (ts *surveyTreeService) materializeTitles(ctx context.Context, categoryTypeIDs []uint, surveyID uint, caseView bool) ([]TreeTitle, error) {
	titles, err := ts.formRepo.ListTitlesByCategoryTypeIDs(ctx, nil, categoryTypeIDs)
	if err != nil {
		return nil, err
	}
	titleIDs := make([]uint, 0, len(titles))
	for _, title := range titles {
		titleIDs = append(titleIDs, title.ID)
	}
	questions, err := ts.formRepo.ListQuestionsByTitleIDs(ctx, nil, titleIDs)
	if err != nil {
		return nil, err
	}
	questionIDs := make([]uint, 0, len(questions))
	for _, question := range questions {
		questionIDs = append(questionIDs, question.ID)
	}
	options, err := ts.formRepo.ListOptionsByQuestionIDs(ctx, nil, questionIDs)
	if err != nil {
		return nil, err
	}
	optionsByQuestion := make(map[uint][]TreeOption)
	for _, option := range options {
		optionsByQuestion[option.QuestionID] = append(optionsByQuestion[option.QuestionID], TreeOption{ID: option.ID, Option: option.Option})
	}

	answersByQuestion := make(map[uint][]TreeAnswer)
	if caseView {
		answers, err := ts.formRepo.ListAnswersByQuestionIDs(ctx, nil, questionIDs, surveyID)
		if err != nil {
			return nil, err
		}
		for _, answer := range answers {
			answersByQuestion[answer.QuestionID] = append(answersByQuestion[answer.QuestionID], TreeAnswer{ID: answer.ID, Answer: answer.Answer})
		}
	}

	questionsByTitle := make(map[uint][]TreeQuestion)
	for _, question := range questions {
		node := TreeQuestion{
			ID:            question.ID,
			Question:      question.Question,
			QuestionType:  question.QuestionType,
			IsMandatory:   question.IsMandatory,
			HasOtherField: question.HasOtherField,
			Options:       optionsByQuestion[question.ID],
			Answers:       answersByQuestion[question.ID],
		}
		if caseView {
			node.Answers = ts.displayAnswers(question.QuestionFlags, node.Answers)
		}
		questionsByTitle[question.TitleID] = append(questionsByTitle[question.TitleID], node)
	}

	out := make([]TreeTitle, 0, len(titles))
	for _, title := range titles {
		if caseView && len(questionsByTitle[title.ID]) == 0 {
			continue
		}
		out = append(out, TreeTitle{ID: title.ID, Title: title.Name, Questions: questionsByTitle[title.ID]})
	}
	return out, nil
}

func (ts *surveyTreeService) displayAnswers(flags types.QuestionFlags, answers []TreeAnswer) []TreeAnswer {
	if len(answers) == 0 {
		return answers
	}
	switch {
	case flags.HasFile:
		for i := range answers {
			if answers[i].Answer == "" {
				continue
			}
			url, err := ts.fileStore.SignedURL(answers[i].Answer)
			if err != nil {
				ts.log.Warn("Failed to sign file answer URL", "key", answers[i].Answer, "error", err)
				continue
			}
			answers[i].Answer = url
		}
	case flags.HasDate:
		for i := range answers {
			answers[i].Answer = strings.Replace(answers[i].Answer, "T", " ", 1)
		}
	}
	return answers
}
