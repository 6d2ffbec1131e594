package services

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/bramwell/claimsdesk-backend/internal/repos"
	"github.com/bramwell/claimsdesk-backend/internal/repos/testutil"
	"github.com/bramwell/claimsdesk-backend/internal/types"
)

func newCategoryFixture(t *testing.T) (*gorm.DB, CategoryService) {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	categoryRepo := repos.NewCategoryRepo(db, log)
	whatForm := repos.NewWhatFormRepo(db, log)
	howForm := repos.NewHowFormRepo(db, log)
	return db, NewCategoryService(db, log, categoryRepo, whatForm, howForm)
}

func TestCreateWhatQuestionDerivesFlagsAndStoresOptions(t *testing.T) {
	db, svc := newCategoryFixture(t)
	ctx := context.Background()

	cause, err := svc.CreateCause(ctx, 1, "Storm")
	if err != nil {
		t.Fatalf("create cause: %v", err)
	}
	what, err := svc.CreateWhat(ctx, cause.ID, "Roof")
	if err != nil {
		t.Fatalf("create what: %v", err)
	}
	title, err := svc.CreateWhatTitle(ctx, what.ID, "Damage")
	if err != nil {
		t.Fatalf("create title: %v", err)
	}

	question, err := svc.CreateWhatQuestion(ctx, title.ID, QuestionInput{
		Question:     "Affected areas",
		QuestionType: types.QuestionTypeCheckbox,
		Options:      []string{"roof", "walls", "windows"},
	})
	if err != nil {
		t.Fatalf("create question: %v", err)
	}
	if !question.HasCheckbox || question.HasText || question.HasFile {
		t.Fatalf("flags not derived from type: %+v", question.QuestionFlags)
	}

	var optionCount int64
	if err := db.Model(&types.WhatQuestionOption{}).Where("question_id = ?", question.ID).Count(&optionCount).Error; err != nil {
		t.Fatalf("count options: %v", err)
	}
	if optionCount != 3 {
		t.Fatalf("want 3 options, got %d", optionCount)
	}
}

func TestCreateWhatQuestionDiscardsOptionsForNonOptionTypes(t *testing.T) {
	db, svc := newCategoryFixture(t)
	ctx := context.Background()

	cause, _ := svc.CreateCause(ctx, 1, "Storm")
	what, _ := svc.CreateWhat(ctx, cause.ID, "Roof")
	title, _ := svc.CreateWhatTitle(ctx, what.ID, "Damage")

	question, err := svc.CreateWhatQuestion(ctx, title.ID, QuestionInput{
		Question:     "Describe the damage",
		QuestionType: types.QuestionTypeText,
		Options:      []string{"should", "be", "ignored"},
	})
	if err != nil {
		t.Fatalf("create question: %v", err)
	}

	var optionCount int64
	if err := db.Model(&types.WhatQuestionOption{}).Where("question_id = ?", question.ID).Count(&optionCount).Error; err != nil {
		t.Fatalf("count options: %v", err)
	}
	if optionCount != 0 {
		t.Fatalf("want options discarded for text question, got %d", optionCount)
	}
}

func TestCreateWhatQuestionRejectsUnknownType(t *testing.T) {
	_, svc := newCategoryFixture(t)
	ctx := context.Background()

	cause, _ := svc.CreateCause(ctx, 1, "Storm")
	what, _ := svc.CreateWhat(ctx, cause.ID, "Roof")
	title, _ := svc.CreateWhatTitle(ctx, what.ID, "Damage")

	if _, err := svc.CreateWhatQuestion(ctx, title.ID, QuestionInput{
		Question:     "Bad",
		QuestionType: "dropdown",
	}); err == nil {
		t.Fatalf("want unknown question type rejected")
	}
}

func TestDeleteCauseCascadesThroughWholeSubtree(t *testing.T) {
	db, svc := newCategoryFixture(t)
	ctx := context.Background()

	cause, _ := svc.CreateCause(ctx, 1, "Storm")
	what, _ := svc.CreateWhat(ctx, cause.ID, "Roof")
	how, _ := svc.CreateHow(ctx, cause.ID, "Wind")
	whatTitle, _ := svc.CreateWhatTitle(ctx, what.ID, "Damage")
	howTitle, _ := svc.CreateHowTitle(ctx, how.ID, "Conditions")

	whatQuestion, err := svc.CreateWhatQuestion(ctx, whatTitle.ID, QuestionInput{
		Question:     "Affected areas",
		QuestionType: types.QuestionTypeSelection,
		Options:      []string{"roof", "walls"},
	})
	if err != nil {
		t.Fatalf("create what question: %v", err)
	}
	howQuestion, err := svc.CreateHowQuestion(ctx, howTitle.ID, QuestionInput{
		Question:     "Wind speed",
		QuestionType: types.QuestionTypeText,
	})
	if err != nil {
		t.Fatalf("create how question: %v", err)
	}
	if err := db.Create(&types.WhatQuestionAnswer{QuestionID: whatQuestion.ID, ClaimID: 1, Answer: "roof"}).Error; err != nil {
		t.Fatalf("seed answer: %v", err)
	}
	if err := db.Create(&types.HowQuestionAnswer{QuestionID: howQuestion.ID, ClaimID: 1, Answer: "90 km/h"}).Error; err != nil {
		t.Fatalf("seed answer: %v", err)
	}

	counts, err := svc.DeleteCause(ctx, cause.ID)
	if err != nil {
		t.Fatalf("delete cause: %v", err)
	}

	total := int64(0)
	byTable := map[string]int64{}
	for _, count := range counts {
		byTable[count.Table] += count.Count
		total += count.Count
	}
	if total == 0 {
		t.Fatalf("want non-empty delete report, got %v", counts)
	}
	if byTable["cause_category"] != 1 {
		t.Fatalf("want 1 cause row reported, got %v", byTable)
	}

	for _, model := range []interface{}{
		&types.WhatCategory{},
		&types.HowCategory{},
		&types.WhatQuestionTitle{},
		&types.HowQuestionTitle{},
		&types.WhatQuestion{},
		&types.HowQuestion{},
		&types.WhatQuestionOption{},
		&types.WhatQuestionAnswer{},
		&types.HowQuestionAnswer{},
	} {
		var left int64
		if err := db.Model(model).Count(&left).Error; err != nil {
			t.Fatalf("count leftovers: %v", err)
		}
		if left != 0 {
			t.Fatalf("orphan rows left in %T: %d", model, left)
		}
	}
}
