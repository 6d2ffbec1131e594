package services

import (
	"context"

	"gorm.io/gorm"
)

// AnswerSubmission is one question/value pair from a form submission. IsOther
// marks the free-text companion of an other-enabled question; it is resolved
// at the handler boundary, never inferred from stored rows.
type AnswerSubmission struct {
	QuestionID uint
	Value      string
	IsOther    bool
}

// AnswerStore abstracts one answer table scoped to one owner (a claim for
// what/how forms, a survey otherwise). Row ids are insertion-ordered.
type AnswerStore interface {
	Count(ctx context.Context, tx *gorm.DB, questionID uint) (int64, error)
	FirstID(ctx context.Context, tx *gorm.DB, questionID uint) (uint, error)
	LastID(ctx context.Context, tx *gorm.DB, questionID uint) (uint, error)
	Insert(ctx context.Context, tx *gorm.DB, questionID uint, value string) error
	Update(ctx context.Context, tx *gorm.DB, answerID uint, value string) error
}

// ReconcileAnswer folds one submission into the existing rows for its
// question. An other-enabled question keeps at most two rows: the base value
// first, the other value second.
//
//	no rows:        insert
//	one row:        other submissions insert, base submissions update it
//	two or more:    other submissions update the last row, base the first
func ReconcileAnswer(ctx context.Context, tx *gorm.DB, store AnswerStore, sub AnswerSubmission) error {
	count, err := store.Count(ctx, tx, sub.QuestionID)
	if err != nil {
		return err
	}
	switch {
	case count == 0:
		return store.Insert(ctx, tx, sub.QuestionID, sub.Value)
	case count == 1:
		if sub.IsOther {
			return store.Insert(ctx, tx, sub.QuestionID, sub.Value)
		}
		id, err := store.FirstID(ctx, tx, sub.QuestionID)
		if err != nil {
			return err
		}
		return store.Update(ctx, tx, id, sub.Value)
	default:
		var id uint
		if sub.IsOther {
			id, err = store.LastID(ctx, tx, sub.QuestionID)
		} else {
			id, err = store.FirstID(ctx, tx, sub.QuestionID)
		}
		if err != nil {
			return err
		}
		return store.Update(ctx, tx, id, sub.Value)
	}
}
