package services

import (
	"context"
	"strings"

	"github.com/bramwell/claimsdesk-backend/internal/logger"
	"github.com/bramwell/claimsdesk-backend/internal/repos"
	"github.com/bramwell/claimsdesk-backend/internal/types"
)

// Materialized form tree, assembled breadth-first with one query per level.

type TreeOption struct {
	ID     uint   `json:"id"`
	Option string `json:"option"`
}

type TreeAnswer struct {
	ID     uint   `json:"id"`
	Answer string `json:"answer"`
}

type TreeQuestion struct {
	ID            uint         `json:"id"`
	Question      string       `json:"question"`
	QuestionType  string       `json:"question_type"`
	IsMandatory   bool         `json:"is_mandatory"`
	HasOtherField bool         `json:"has_other_field"`
	Options       []TreeOption `json:"options"`
	Answers       []TreeAnswer `json:"answers"`
}

type TreeTitle struct {
	ID        uint           `json:"id"`
	Title     string         `json:"title"`
	Questions []TreeQuestion `json:"questions"`
}

// ClaimTreeService materializes what/how form trees. The definition view
// returns the full structure without answers; the claim view scopes answers
// to one claim, drops titles with no questions, resolves file answers to signed
// URLs and rewrites date answers for display.
type ClaimTreeService interface {
	WhatDefinition(ctx context.Context, whatID uint) ([]TreeTitle, error)
	WhatForClaim(ctx context.Context, whatID, claimID uint) ([]TreeTitle, error)
	HowDefinition(ctx context.Context, howID uint) ([]TreeTitle, error)
	HowForClaim(ctx context.Context, howID, claimID uint) ([]TreeTitle, error)
}

type claimTreeService struct {
	log       *logger.Logger
	whatForm  repos.WhatFormRepo
	howForm   repos.HowFormRepo
	fileStore FileStoreService
}

func NewClaimTreeService(
	log *logger.Logger,
	whatForm repos.WhatFormRepo,
	howForm repos.HowFormRepo,
	fileStore FileStoreService,
) ClaimTreeService {
	return &claimTreeService{
		log:       log.With("service", "ClaimTreeService"),
		whatForm:  whatForm,
		howForm:   howForm,
		fileStore: fileStore,
	}
}

func (ts *claimTreeService) WhatDefinition(ctx context.Context, whatID uint) ([]TreeTitle, error) {
	return ts.materializeWhat(ctx, whatID, 0, false)
}

func (ts *claimTreeService) WhatForClaim(ctx context.Context, whatID, claimID uint) ([]TreeTitle, error) {
	return ts.materializeWhat(ctx, whatID, claimID, true)
}

func (ts *claimTreeService) HowDefinition(ctx context.Context, howID uint) ([]TreeTitle, error) {
	return ts.materializeHow(ctx, howID, 0, false)
}

func (ts *claimTreeService) HowForClaim(ctx context.Context, howID, claimID uint) ([]TreeTitle, error) {
	return ts.materializeHow(ctx, howID, claimID, true)
}

func (ts *claimTreeService) materializeWhat(ctx context.Context, whatID, claimID uint, caseView bool) ([]TreeTitle, error) {
	titles, err := ts.whatForm.ListTitlesByWhatIDs(ctx, nil, []uint{whatID})
	if err != nil {
		return nil, err
	}
	titleIDs := make([]uint, 0, len(titles))
	for _, title := range titles {
		titleIDs = append(titleIDs, title.ID)
	}
	questions, err := ts.whatForm.ListQuestionsByTitleIDs(ctx, nil, titleIDs)
	if err != nil {
		return nil, err
	}
	questionIDs := make([]uint, 0, len(questions))
	for _, question := range questions {
		questionIDs = append(questionIDs, question.ID)
	}
	options, err := ts.whatForm.ListOptionsByQuestionIDs(ctx, nil, questionIDs)
	if err != nil {
		return nil, err
	}
	optionsByQuestion := make(map[uint][]TreeOption)
	for _, option := range options {
		optionsByQuestion[option.QuestionID] = append(optionsByQuestion[option.QuestionID], TreeOption{ID: option.ID, Option: option.Option})
	}

	answersByQuestion := make(map[uint][]TreeAnswer)
	if caseView {
		answers, err := ts.whatForm.ListAnswersByQuestionIDs(ctx, nil, questionIDs, claimID)
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
		questionsByTitle[question.WhatTitleID] = append(questionsByTitle[question.WhatTitleID], node)
	}

	out := make([]TreeTitle, 0, len(titles))
	for _, title := range titles {
		if caseView && len(questionsByTitle[title.ID]) == 0 {
			continue
		}
		out = append(out, TreeTitle{ID: title.ID, Title: title.Title, Questions: questionsByTitle[title.ID]})
	}
	return out, nil
}

func (ts *claimTreeService) materializeHow(ctx context.Context, howID, claimID uint, caseView bool) ([]TreeTitle, error) {
	titles, err := ts.howForm.ListTitlesByHowIDs(ctx, nil, []uint{howID})
	if err != nil {
		return nil, err
	}
	titleIDs := make([]uint, 0, len(titles))
	for _, title := range titles {
		titleIDs = append(titleIDs, title.ID)
	}
	questions, err := ts.howForm.ListQuestionsByTitleIDs(ctx, nil, titleIDs)
	if err != nil {
		return nil, err
	}
	questionIDs := make([]uint, 0, len(questions))
	for _, question := range questions {
		questionIDs = append(questionIDs, question.ID)
	}
	options, err := ts.howForm.ListOptionsByQuestionIDs(ctx, nil, questionIDs)
	if err != nil {
		return nil, err
	}
	optionsByQuestion := make(map[uint][]TreeOption)
	for _, option := range options {
		optionsByQuestion[option.QuestionID] = append(optionsByQuestion[option.QuestionID], TreeOption{ID: option.ID, Option: option.Option})
	}

	answersByQuestion := make(map[uint][]TreeAnswer)
	if caseView {
		answers, err := ts.howForm.ListAnswersByQuestionIDs(ctx, nil, questionIDs, claimID)
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
		questionsByTitle[question.HowTitleID] = append(questionsByTitle[question.HowTitleID], node)
	}

	out := make([]TreeTitle, 0, len(titles))
	for _, title := range titles {
		if caseView && len(questionsByTitle[title.ID]) == 0 {
			continue
		}
		out = append(out, TreeTitle{ID: title.ID, Title: title.Title, Questions: questionsByTitle[title.ID]})
	}
	return out, nil
}

// displayAnswers applies read-time transforms only; stored rows are never
// modified. File answers become signed URLs, date answers lose the RFC3339
// 'T' separator.
func (ts *claimTreeService) displayAnswers(flags types.QuestionFlags, answers []TreeAnswer) []TreeAnswer {
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
