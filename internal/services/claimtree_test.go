package services

import (
	"context"
	"fmt"
	"io"
	"testing"

	"gorm.io/gorm"

	"github.com/bramwell/claimsdesk-backend/internal/repos"
	"github.com/bramwell/claimsdesk-backend/internal/repos/testutil"
	"github.com/bramwell/claimsdesk-backend/internal/types"
)

type fakeFileStore struct {
	deleted []string
}

func (f *fakeFileStore) Upload(ctx context.Context, key string, file io.Reader) error {
	return nil
}

func (f *fakeFileStore) Delete(ctx context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeFileStore) SignedURL(key string) (string, error) {
	return "https://signed.example.com/" + key, nil
}

func mustFlags(tb testing.TB, questionType string) types.QuestionFlags {
	tb.Helper()
	flags, ok := types.FlagsForType(questionType)
	if !ok {
		tb.Fatalf("unknown question type %q", questionType)
	}
	return flags
}

func seedWhatForm(t *testing.T, db *gorm.DB) (whatID uint, questions map[string]*types.WhatQuestion) {
	t.Helper()
	what := types.WhatCategory{Name: "Water damage", CauseID: 1}
	if err := db.Create(&what).Error; err != nil {
		t.Fatalf("seed what: %v", err)
	}
	title := types.WhatQuestionTitle{Title: "Damage details", WhatID: what.ID}
	if err := db.Create(&title).Error; err != nil {
		t.Fatalf("seed title: %v", err)
	}
	emptyTitle := types.WhatQuestionTitle{Title: "", WhatID: what.ID}
	if err := db.Create(&emptyTitle).Error; err != nil {
		t.Fatalf("seed empty title: %v", err)
	}
	questions = map[string]*types.WhatQuestion{}
	for _, questionType := range []string{types.QuestionTypeText, types.QuestionTypeFile, types.QuestionTypeDate} {
		question := types.WhatQuestion{
			Question:      fmt.Sprintf("A %s question", questionType),
			QuestionType:  questionType,
			QuestionFlags: mustFlags(t, questionType),
			WhatTitleID:   title.ID,
		}
		if err := db.Create(&question).Error; err != nil {
			t.Fatalf("seed question: %v", err)
		}
		questions[questionType] = &question
	}
	return what.ID, questions
}

func TestWhatDefinitionKeepsEmptyTitlesAndHasNoAnswers(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	whatForm := repos.NewWhatFormRepo(db, log)
	howForm := repos.NewHowFormRepo(db, log)
	tree := NewClaimTreeService(log, whatForm, howForm, &fakeFileStore{})

	whatID, _ := seedWhatForm(t, db)

	titles, err := tree.WhatDefinition(context.Background(), whatID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(titles) != 2 {
		t.Fatalf("want 2 titles in definition view, got %d", len(titles))
	}
	for _, title := range titles {
		for _, question := range title.Questions {
			if len(question.Answers) != 0 {
				t.Fatalf("definition view must not carry answers")
			}
		}
	}
}

func TestWhatDefinitionWithoutTitlesIsEmptyNotAnError(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	whatForm := repos.NewWhatFormRepo(db, log)
	howForm := repos.NewHowFormRepo(db, log)
	tree := NewClaimTreeService(log, whatForm, howForm, &fakeFileStore{})

	what := types.WhatCategory{Name: "Bare category", CauseID: 1}
	if err := db.Create(&what).Error; err != nil {
		t.Fatalf("seed what: %v", err)
	}

	titles, err := tree.WhatDefinition(context.Background(), what.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(titles) != 0 {
		t.Fatalf("want empty tree, got %d titles", len(titles))
	}
}

func TestWhatForClaimDropsQuestionlessTitlesOnly(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	whatForm := repos.NewWhatFormRepo(db, log)
	howForm := repos.NewHowFormRepo(db, log)
	tree := NewClaimTreeService(log, whatForm, howForm, &fakeFileStore{})

	what := types.WhatCategory{Name: "Storm damage", CauseID: 1}
	if err := db.Create(&what).Error; err != nil {
		t.Fatalf("seed what: %v", err)
	}
	bareTitle := types.WhatQuestionTitle{Title: "Roof timbers", WhatID: what.ID}
	if err := db.Create(&bareTitle).Error; err != nil {
		t.Fatalf("seed bare title: %v", err)
	}
	untitled := types.WhatQuestionTitle{Title: "", WhatID: what.ID}
	if err := db.Create(&untitled).Error; err != nil {
		t.Fatalf("seed untitled: %v", err)
	}
	question := types.WhatQuestion{
		Question:      "Extent of the leak",
		QuestionType:  types.QuestionTypeText,
		QuestionFlags: mustFlags(t, types.QuestionTypeText),
		WhatTitleID:   untitled.ID,
	}
	if err := db.Create(&question).Error; err != nil {
		t.Fatalf("seed question: %v", err)
	}

	titles, err := tree.WhatForClaim(context.Background(), what.ID, 1)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(titles) != 1 {
		t.Fatalf("want only the title with questions kept, got %d titles", len(titles))
	}
	if titles[0].ID != untitled.ID || len(titles[0].Questions) != 1 {
		t.Fatalf("untitled group with questions should survive: %+v", titles[0])
	}

	definition, err := tree.WhatDefinition(context.Background(), what.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(definition) != 2 {
		t.Fatalf("definition view keeps questionless titles, got %d", len(definition))
	}
}

func TestWhatForClaimTransformsFileAndDateAnswers(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	whatForm := repos.NewWhatFormRepo(db, log)
	howForm := repos.NewHowFormRepo(db, log)
	tree := NewClaimTreeService(log, whatForm, howForm, &fakeFileStore{})

	whatID, questions := seedWhatForm(t, db)
	const claimID = 42

	seedAnswers := []types.WhatQuestionAnswer{
		{QuestionID: questions[types.QuestionTypeText].ID, ClaimID: claimID, Answer: "burst pipe"},
		{QuestionID: questions[types.QuestionTypeFile].ID, ClaimID: claimID, Answer: "answers/photo.jpg"},
		{QuestionID: questions[types.QuestionTypeDate].ID, ClaimID: claimID, Answer: "2026-08-14T10:30:00"},
		{QuestionID: questions[types.QuestionTypeText].ID, ClaimID: 99, Answer: "someone else's claim"},
	}
	for i := range seedAnswers {
		if err := db.Create(&seedAnswers[i]).Error; err != nil {
			t.Fatalf("seed answer: %v", err)
		}
	}

	titles, err := tree.WhatForClaim(context.Background(), whatID, claimID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	byType := map[string]TreeQuestion{}
	for _, title := range titles {
		for _, question := range title.Questions {
			byType[question.QuestionType] = question
		}
	}

	text := byType[types.QuestionTypeText]
	if len(text.Answers) != 1 || text.Answers[0].Answer != "burst pipe" {
		t.Fatalf("text answers scoped wrong: %+v", text.Answers)
	}
	file := byType[types.QuestionTypeFile]
	if len(file.Answers) != 1 || file.Answers[0].Answer != "https://signed.example.com/answers/photo.jpg" {
		t.Fatalf("file answer not signed: %+v", file.Answers)
	}
	date := byType[types.QuestionTypeDate]
	if len(date.Answers) != 1 || date.Answers[0].Answer != "2026-08-14 10:30:00" {
		t.Fatalf("date answer not rewritten: %+v", date.Answers)
	}
}
