package services

import (
	"context"
	"testing"

	"gorm.io/gorm"
)

type fakeAnswerRow struct {
	id    uint
	value string
}

type fakeAnswerStore struct {
	nextID uint
	rows   map[uint][]fakeAnswerRow
}

func newFakeAnswerStore() *fakeAnswerStore {
	return &fakeAnswerStore{rows: map[uint][]fakeAnswerRow{}}
}

func (s *fakeAnswerStore) Count(ctx context.Context, tx *gorm.DB, questionID uint) (int64, error) {
	return int64(len(s.rows[questionID])), nil
}

func (s *fakeAnswerStore) FirstID(ctx context.Context, tx *gorm.DB, questionID uint) (uint, error) {
	return s.rows[questionID][0].id, nil
}

func (s *fakeAnswerStore) LastID(ctx context.Context, tx *gorm.DB, questionID uint) (uint, error) {
	rows := s.rows[questionID]
	return rows[len(rows)-1].id, nil
}

func (s *fakeAnswerStore) Insert(ctx context.Context, tx *gorm.DB, questionID uint, value string) error {
	s.nextID++
	s.rows[questionID] = append(s.rows[questionID], fakeAnswerRow{id: s.nextID, value: value})
	return nil
}

func (s *fakeAnswerStore) Update(ctx context.Context, tx *gorm.DB, answerID uint, value string) error {
	for questionID, rows := range s.rows {
		for i := range rows {
			if rows[i].id == answerID {
				s.rows[questionID][i].value = value
				return nil
			}
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *fakeAnswerStore) values(questionID uint) []string {
	var out []string
	for _, row := range s.rows[questionID] {
		out = append(out, row.value)
	}
	return out
}

func TestReconcileAnswerFirstSubmissionInserts(t *testing.T) {
	store := newFakeAnswerStore()
	ctx := context.Background()

	if err := ReconcileAnswer(ctx, nil, store, AnswerSubmission{QuestionID: 7, Value: "blue"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	got := store.values(7)
	if len(got) != 1 || got[0] != "blue" {
		t.Fatalf("want [blue], got %v", got)
	}
}

func TestReconcileAnswerResubmissionUpdatesInPlace(t *testing.T) {
	store := newFakeAnswerStore()
	ctx := context.Background()

	for _, value := range []string{"blue", "green", "red"} {
		if err := ReconcileAnswer(ctx, nil, store, AnswerSubmission{QuestionID: 7, Value: value}); err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
	}
	got := store.values(7)
	if len(got) != 1 || got[0] != "red" {
		t.Fatalf("want single row [red], got %v", got)
	}
}

func TestReconcileAnswerOtherValueGetsOwnRow(t *testing.T) {
	store := newFakeAnswerStore()
	ctx := context.Background()

	if err := ReconcileAnswer(ctx, nil, store, AnswerSubmission{QuestionID: 3, Value: "other"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := ReconcileAnswer(ctx, nil, store, AnswerSubmission{QuestionID: 3, Value: "hail damage", IsOther: true}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	got := store.values(3)
	if len(got) != 2 || got[0] != "other" || got[1] != "hail damage" {
		t.Fatalf("want [other, hail damage], got %v", got)
	}
}

func TestReconcileAnswerBaseAndOtherUpdateTheirOwnRows(t *testing.T) {
	store := newFakeAnswerStore()
	ctx := context.Background()

	subs := []AnswerSubmission{
		{QuestionID: 3, Value: "other"},
		{QuestionID: 3, Value: "hail damage", IsOther: true},
		{QuestionID: 3, Value: "storm", IsOther: false},
		{QuestionID: 3, Value: "flooding", IsOther: true},
	}
	for _, sub := range subs {
		if err := ReconcileAnswer(ctx, nil, store, sub); err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
	}
	got := store.values(3)
	if len(got) != 2 || got[0] != "storm" || got[1] != "flooding" {
		t.Fatalf("want [storm, flooding], got %v", got)
	}
}
