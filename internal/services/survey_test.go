package services

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/bramwell/claimsdesk-backend/internal/repos"
	"github.com/bramwell/claimsdesk-backend/internal/repos/testutil"
	"github.com/bramwell/claimsdesk-backend/internal/types"
)

func newSurveyFixture(t *testing.T) (*gorm.DB, SurveyService) {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	surveyRepo := repos.NewSurveyRepo(db, log)
	applicationRepo := repos.NewApplicationRepo(db, log)
	categoryRepo := repos.NewSurveyCategoryRepo(db, log)
	formRepo := repos.NewSurveyFormRepo(db, log)
	return db, NewSurveyService(db, log, surveyRepo, applicationRepo, categoryRepo, formRepo)
}

func seedSurveyTree(t *testing.T, db *gorm.DB) (questionID, categoryID, categoryTypeID, titleID uint) {
	t.Helper()
	category := types.SurveyCategory{Name: "Risk", ApplicationTypeID: 1}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	categoryType := types.SurveyCategoryType{Name: "Electrical", CategoryID: category.ID}
	if err := db.Create(&categoryType).Error; err != nil {
		t.Fatalf("seed category type: %v", err)
	}
	title := types.SurveyTitle{Name: "Wiring", CategoryTypeID: categoryType.ID}
	if err := db.Create(&title).Error; err != nil {
		t.Fatalf("seed title: %v", err)
	}
	question := types.SurveyQuestion{
		Question:      "Condition of the wiring",
		QuestionType:  types.QuestionTypeText,
		QuestionFlags: mustFlags(t, types.QuestionTypeText),
		TitleID:       title.ID,
	}
	if err := db.Create(&question).Error; err != nil {
		t.Fatalf("seed question: %v", err)
	}
	return question.ID, category.ID, categoryType.ID, title.ID
}

func TestSaveAnswersDenormalizesCategoryPath(t *testing.T) {
	db, svc := newSurveyFixture(t)
	ctx := context.Background()

	if err := db.Create(&types.Application{ClientID: 1, UserID: 1, StatusID: 1}).Error; err != nil {
		t.Fatalf("seed application: %v", err)
	}
	surveys, err := svc.CreateMany(ctx, 1, []uint{1})
	if err != nil {
		t.Fatalf("create survey: %v", err)
	}
	questionID, categoryID, categoryTypeID, titleID := seedSurveyTree(t, db)

	err = svc.SaveAnswers(ctx, surveys[0].ID, []AnswerSubmission{{QuestionID: questionID, Value: "aging but safe"}})
	if err != nil {
		t.Fatalf("save answers: %v", err)
	}

	var answer types.SurveyAnswer
	if err := db.Where("survey_id = ?", surveys[0].ID).First(&answer).Error; err != nil {
		t.Fatalf("load answer: %v", err)
	}
	if answer.Answer != "aging but safe" {
		t.Fatalf("unexpected answer %q", answer.Answer)
	}
	if answer.CategoryID != categoryID || answer.CategoryTypeID != categoryTypeID || answer.TitleID != titleID {
		t.Fatalf("category path not denormalized: %+v", answer)
	}
}

func TestSaveAnswersSkipsUnknownQuestions(t *testing.T) {
	db, svc := newSurveyFixture(t)
	ctx := context.Background()

	if err := db.Create(&types.Application{ClientID: 1, UserID: 1, StatusID: 1}).Error; err != nil {
		t.Fatalf("seed application: %v", err)
	}
	surveys, err := svc.CreateMany(ctx, 1, []uint{1})
	if err != nil {
		t.Fatalf("create survey: %v", err)
	}
	questionID, _, _, _ := seedSurveyTree(t, db)

	err = svc.SaveAnswers(ctx, surveys[0].ID, []AnswerSubmission{
		{QuestionID: 9999, Value: "nobody asked this"},
		{QuestionID: questionID, Value: "fine"},
	})
	if err != nil {
		t.Fatalf("save answers: %v", err)
	}

	var count int64
	if err := db.Model(&types.SurveyAnswer{}).Where("survey_id = ?", surveys[0].ID).Count(&count).Error; err != nil {
		t.Fatalf("count answers: %v", err)
	}
	if count != 1 {
		t.Fatalf("want unknown question skipped, got %d answers", count)
	}
}

func TestSaveAnswersIgnoresOtherFlagWhenQuestionHasNone(t *testing.T) {
	db, svc := newSurveyFixture(t)
	ctx := context.Background()

	if err := db.Create(&types.Application{ClientID: 1, UserID: 1, StatusID: 1}).Error; err != nil {
		t.Fatalf("seed application: %v", err)
	}
	surveys, err := svc.CreateMany(ctx, 1, []uint{1})
	if err != nil {
		t.Fatalf("create survey: %v", err)
	}
	questionID, _, _, _ := seedSurveyTree(t, db)

	if err := svc.SaveAnswers(ctx, surveys[0].ID, []AnswerSubmission{{QuestionID: questionID, Value: "worn"}}); err != nil {
		t.Fatalf("save answers: %v", err)
	}
	if err := svc.SaveAnswers(ctx, surveys[0].ID, []AnswerSubmission{{QuestionID: questionID, Value: "frayed", IsOther: true}}); err != nil {
		t.Fatalf("resave answers: %v", err)
	}

	var rows []types.SurveyAnswer
	if err := db.Where("survey_id = ?", surveys[0].ID).Find(&rows).Error; err != nil {
		t.Fatalf("load answers: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("want a single row for a plain question, got %d", len(rows))
	}
	if rows[0].Answer != "frayed" {
		t.Fatalf("want row updated in place, got %q", rows[0].Answer)
	}
}

func TestSaveAnswersRejectsMissingSurvey(t *testing.T) {
	_, svc := newSurveyFixture(t)
	if err := svc.SaveAnswers(context.Background(), 123, nil); err == nil {
		t.Fatalf("want missing survey rejected")
	}
}
