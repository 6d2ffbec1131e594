package services

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/bramwell/claimsdesk-backend/internal/repos"
	"github.com/bramwell/claimsdesk-backend/internal/repos/testutil"
	"github.com/bramwell/claimsdesk-backend/internal/types"
)

func newReassignFixture(t *testing.T) (*gorm.DB, ReassignService, *fakeFileStore, repos.ClaimRepo) {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	claimRepo := repos.NewClaimRepo(db, log)
	surveyRepo := repos.NewSurveyRepo(db, log)
	whatForm := repos.NewWhatFormRepo(db, log)
	howForm := repos.NewHowFormRepo(db, log)
	surveyForm := repos.NewSurveyFormRepo(db, log)
	store := &fakeFileStore{}
	svc := NewReassignService(db, log, claimRepo, surveyRepo, whatForm, howForm, surveyForm, store)
	return db, svc, store, claimRepo
}

// seedAnsweredClaim sets up a claim assigned to a what category with one
// text answer and one file answer.
func seedAnsweredClaim(t *testing.T, db *gorm.DB) (claimID uint, oldWhatID uint) {
	t.Helper()
	claim := types.Claim{ApplicationID: 1, ApplicationTypeID: 1}
	if err := db.Create(&claim).Error; err != nil {
		t.Fatalf("seed claim: %v", err)
	}
	what := types.WhatCategory{Name: "Fire", CauseID: 1}
	if err := db.Create(&what).Error; err != nil {
		t.Fatalf("seed what: %v", err)
	}
	if err := db.Create(&types.ClaimWhat{ClaimID: claim.ID, WhatID: what.ID}).Error; err != nil {
		t.Fatalf("seed assignment: %v", err)
	}
	title := types.WhatQuestionTitle{Title: "Details", WhatID: what.ID}
	if err := db.Create(&title).Error; err != nil {
		t.Fatalf("seed title: %v", err)
	}
	textQuestion := types.WhatQuestion{
		Question:      "What happened",
		QuestionType:  types.QuestionTypeText,
		QuestionFlags: mustFlags(t, types.QuestionTypeText),
		WhatTitleID:   title.ID,
	}
	fileQuestion := types.WhatQuestion{
		Question:      "Photo of the damage",
		QuestionType:  types.QuestionTypeFile,
		QuestionFlags: mustFlags(t, types.QuestionTypeFile),
		WhatTitleID:   title.ID,
	}
	if err := db.Create(&textQuestion).Error; err != nil {
		t.Fatalf("seed question: %v", err)
	}
	if err := db.Create(&fileQuestion).Error; err != nil {
		t.Fatalf("seed question: %v", err)
	}
	answers := []types.WhatQuestionAnswer{
		{QuestionID: textQuestion.ID, ClaimID: claim.ID, Answer: "kitchen fire"},
		{QuestionID: fileQuestion.ID, ClaimID: claim.ID, Answer: "answers/fire.jpg"},
	}
	for i := range answers {
		if err := db.Create(&answers[i]).Error; err != nil {
			t.Fatalf("seed answer: %v", err)
		}
	}
	return claim.ID, what.ID
}

func TestAssignWhatReplacesAssignmentAndPurgesAnswers(t *testing.T) {
	db, svc, store, claimRepo := newReassignFixture(t)
	claimID, oldWhatID := seedAnsweredClaim(t, db)

	newWhat := types.WhatCategory{Name: "Flood", CauseID: 1}
	if err := db.Create(&newWhat).Error; err != nil {
		t.Fatalf("seed new what: %v", err)
	}

	if err := svc.AssignWhat(context.Background(), claimID, newWhat.ID); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	assignment, err := claimRepo.GetWhat(context.Background(), nil, claimID)
	if err != nil {
		t.Fatalf("load assignment: %v", err)
	}
	if assignment.WhatID != newWhat.ID || assignment.WhatID == oldWhatID {
		t.Fatalf("assignment not replaced: %+v", assignment)
	}

	var remaining int64
	if err := db.Model(&types.WhatQuestionAnswer{}).Where("claim_id = ?", claimID).Count(&remaining).Error; err != nil {
		t.Fatalf("count answers: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("want answers purged, %d left", remaining)
	}

	if len(store.deleted) != 1 || store.deleted[0] != "answers/fire.jpg" {
		t.Fatalf("want stored file removed, got %v", store.deleted)
	}
}

func TestAssignCauseClearsWhatAndHow(t *testing.T) {
	db, svc, _, claimRepo := newReassignFixture(t)
	claimID, _ := seedAnsweredClaim(t, db)
	if err := db.Create(&types.ClaimHow{ClaimID: claimID, HowID: 5}).Error; err != nil {
		t.Fatalf("seed how assignment: %v", err)
	}

	if err := svc.AssignCause(context.Background(), claimID, 9); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	cause, err := claimRepo.GetCause(context.Background(), nil, claimID)
	if err != nil {
		t.Fatalf("load cause: %v", err)
	}
	if cause.CauseID != 9 {
		t.Fatalf("cause not assigned: %+v", cause)
	}
	if _, err := claimRepo.GetWhat(context.Background(), nil, claimID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("want what assignment cleared, got err %v", err)
	}
	if _, err := claimRepo.GetHow(context.Background(), nil, claimID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("want how assignment cleared, got err %v", err)
	}

	var remaining int64
	if err := db.Model(&types.WhatQuestionAnswer{}).Where("claim_id = ?", claimID).Count(&remaining).Error; err != nil {
		t.Fatalf("count answers: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("want answers purged, %d left", remaining)
	}
}
