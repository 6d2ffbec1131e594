package services

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/bramwell/claimsdesk-backend/internal/repos"
	"github.com/bramwell/claimsdesk-backend/internal/repos/testutil"
	"github.com/bramwell/claimsdesk-backend/internal/types"
)

func newClaimFixture(t *testing.T) (*gorm.DB, ClaimService) {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	claimRepo := repos.NewClaimRepo(db, log)
	applicationRepo := repos.NewApplicationRepo(db, log)
	whatForm := repos.NewWhatFormRepo(db, log)
	howForm := repos.NewHowFormRepo(db, log)
	return db, NewClaimService(db, log, claimRepo, applicationRepo, whatForm, howForm)
}

func seedClaimWithQuestion(t *testing.T, db *gorm.DB, hasOtherField bool) (claimID, questionID uint) {
	t.Helper()
	claim := types.Claim{ApplicationID: 1, ApplicationTypeID: 1}
	if err := db.Create(&claim).Error; err != nil {
		t.Fatalf("seed claim: %v", err)
	}
	what := types.WhatCategory{Name: "Storm", CauseID: 1}
	if err := db.Create(&what).Error; err != nil {
		t.Fatalf("seed what: %v", err)
	}
	title := types.WhatQuestionTitle{Title: "Severity", WhatID: what.ID}
	if err := db.Create(&title).Error; err != nil {
		t.Fatalf("seed title: %v", err)
	}
	question := types.WhatQuestion{
		Question:      "Kind of damage",
		QuestionType:  types.QuestionTypeSelection,
		QuestionFlags: mustFlags(t, types.QuestionTypeSelection),
		HasOtherField: hasOtherField,
		WhatTitleID:   title.ID,
	}
	if err := db.Create(&question).Error; err != nil {
		t.Fatalf("seed question: %v", err)
	}
	return claim.ID, question.ID
}

func whatAnswers(t *testing.T, db *gorm.DB, claimID, questionID uint) []types.WhatQuestionAnswer {
	t.Helper()
	var rows []types.WhatQuestionAnswer
	if err := db.Where("claim_id = ? AND question_id = ?", claimID, questionID).
		Order("id").Find(&rows).Error; err != nil {
		t.Fatalf("load answers: %v", err)
	}
	return rows
}

func TestSaveWhatAnswersKeepsOneRowWhenOtherFieldDisabled(t *testing.T) {
	db, svc := newClaimFixture(t)
	ctx := context.Background()
	claimID, questionID := seedClaimWithQuestion(t, db, false)

	if err := svc.SaveWhatAnswers(ctx, claimID, []AnswerSubmission{{QuestionID: questionID, Value: "Roof"}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := svc.SaveWhatAnswers(ctx, claimID, []AnswerSubmission{{QuestionID: questionID, Value: "Gutters", IsOther: true}}); err != nil {
		t.Fatalf("save other: %v", err)
	}

	rows := whatAnswers(t, db, claimID, questionID)
	if len(rows) != 1 {
		t.Fatalf("want a single row for a plain question, got %d", len(rows))
	}
	if rows[0].Answer != "Gutters" {
		t.Fatalf("want row updated in place, got %q", rows[0].Answer)
	}
}

func TestSaveWhatAnswersOtherEnabledQuestionKeepsBaseAndOtherRows(t *testing.T) {
	db, svc := newClaimFixture(t)
	ctx := context.Background()
	claimID, questionID := seedClaimWithQuestion(t, db, true)

	if err := svc.SaveWhatAnswers(ctx, claimID, []AnswerSubmission{{QuestionID: questionID, Value: "Red"}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := svc.SaveWhatAnswers(ctx, claimID, []AnswerSubmission{{QuestionID: questionID, Value: "Teal", IsOther: true}}); err != nil {
		t.Fatalf("save other: %v", err)
	}
	if err := svc.SaveWhatAnswers(ctx, claimID, []AnswerSubmission{{QuestionID: questionID, Value: "Teal2", IsOther: true}}); err != nil {
		t.Fatalf("resave other: %v", err)
	}

	rows := whatAnswers(t, db, claimID, questionID)
	if len(rows) != 2 {
		t.Fatalf("want base plus other row, got %d", len(rows))
	}
	if rows[0].Answer != "Red" || rows[1].Answer != "Teal2" {
		t.Fatalf("unexpected rows [%q, %q]", rows[0].Answer, rows[1].Answer)
	}
}
