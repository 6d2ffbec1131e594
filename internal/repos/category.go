package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/bramwell/claimsdesk-backend/internal/logger"
	"github.com/bramwell/claimsdesk-backend/internal/types"
)

// TableCount reports how many rows a cascade removed from one table.
type TableCount struct {
	Table string `json:"table"`
	Count int64  `json:"count"`
}

// CategoryRepo covers the claim-side category tree: cause categories and the
// what/how categories beneath them. Deletes are explicit cascades that
// enumerate children level by level and report per-table counts, rather than
// leaning on database-level ON DELETE.
type CategoryRepo interface {
	CreateCause(ctx context.Context, tx *gorm.DB, cause *types.CauseCategory) (*types.CauseCategory, error)
	RenameCause(ctx context.Context, tx *gorm.DB, id uint, name string) error
	GetCauseByID(ctx context.Context, tx *gorm.DB, id uint) (*types.CauseCategory, error)
	ListCausesByApplicationTypeID(ctx context.Context, tx *gorm.DB, applicationTypeID uint) ([]*types.CauseCategory, error)
	DeleteCauseCascade(ctx context.Context, tx *gorm.DB, id uint) ([]TableCount, error)

	CreateWhat(ctx context.Context, tx *gorm.DB, what *types.WhatCategory) (*types.WhatCategory, error)
	RenameWhat(ctx context.Context, tx *gorm.DB, id uint, name string) error
	GetWhatByID(ctx context.Context, tx *gorm.DB, id uint) (*types.WhatCategory, error)
	ListWhatsByCauseIDs(ctx context.Context, tx *gorm.DB, causeIDs []uint) ([]*types.WhatCategory, error)
	DeleteWhatCascade(ctx context.Context, tx *gorm.DB, id uint) ([]TableCount, error)

	CreateHow(ctx context.Context, tx *gorm.DB, how *types.HowCategory) (*types.HowCategory, error)
	RenameHow(ctx context.Context, tx *gorm.DB, id uint, name string) error
	GetHowByID(ctx context.Context, tx *gorm.DB, id uint) (*types.HowCategory, error)
	ListHowsByCauseIDs(ctx context.Context, tx *gorm.DB, causeIDs []uint) ([]*types.HowCategory, error)
	DeleteHowCascade(ctx context.Context, tx *gorm.DB, id uint) ([]TableCount, error)
}

type categoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCategoryRepo(db *gorm.DB, baseLog *logger.Logger) CategoryRepo {
	return &categoryRepo{db: db, log: baseLog.With("repo", "CategoryRepo")}
}

func (r *categoryRepo) CreateCause(ctx context.Context, tx *gorm.DB, cause *types.CauseCategory) (*types.CauseCategory, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(cause).Error; err != nil {
		return nil, err
	}
	return cause, nil
}

func (r *categoryRepo) RenameCause(ctx context.Context, tx *gorm.DB, id uint, name string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Model(&types.CauseCategory{}).Where("id = ?", id).Update("name", name).Error
}

func (r *categoryRepo) GetCauseByID(ctx context.Context, tx *gorm.DB, id uint) (*types.CauseCategory, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var cause types.CauseCategory
	if err := transaction.WithContext(ctx).First(&cause, id).Error; err != nil {
		return nil, err
	}
	return &cause, nil
}

func (r *categoryRepo) ListCausesByApplicationTypeID(ctx context.Context, tx *gorm.DB, applicationTypeID uint) ([]*types.CauseCategory, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var causes []*types.CauseCategory
	if err := transaction.WithContext(ctx).
		Where("application_type_id = ?", applicationTypeID).
		Order("name").
		Find(&causes).Error; err != nil {
		return nil, err
	}
	return causes, nil
}

// DeleteCauseCascade removes the cause category and everything beneath it:
// what/how categories, their titles, questions, options and answers.
func (r *categoryRepo) DeleteCauseCascade(ctx context.Context, tx *gorm.DB, id uint) ([]TableCount, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var counts []TableCount
	err := transaction.WithContext(ctx).Transaction(func(t *gorm.DB) error {
		var whatIDs, howIDs []uint
		if err := t.Model(&types.WhatCategory{}).Where("cause_id = ?", id).Pluck("id", &whatIDs).Error; err != nil {
			return err
		}
		if err := t.Model(&types.HowCategory{}).Where("cause_id = ?", id).Pluck("id", &howIDs).Error; err != nil {
			return err
		}

		whatCounts, err := deleteWhatSubtrees(t, whatIDs)
		if err != nil {
			return err
		}
		howCounts, err := deleteHowSubtrees(t, howIDs)
		if err != nil {
			return err
		}
		counts = append(counts, whatCounts...)
		counts = append(counts, howCounts...)

		assigned := t.Where("cause_id = ?", id).Delete(&types.ClaimCause{})
		if assigned.Error != nil {
			return assigned.Error
		}
		counts = append(counts, TableCount{Table: types.ClaimCause{}.TableName(), Count: assigned.RowsAffected})

		result := t.Delete(&types.CauseCategory{}, id)
		if result.Error != nil {
			return result.Error
		}
		counts = append(counts, TableCount{Table: types.CauseCategory{}.TableName(), Count: result.RowsAffected})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *categoryRepo) CreateWhat(ctx context.Context, tx *gorm.DB, what *types.WhatCategory) (*types.WhatCategory, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(what).Error; err != nil {
		return nil, err
	}
	return what, nil
}

func (r *categoryRepo) RenameWhat(ctx context.Context, tx *gorm.DB, id uint, name string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Model(&types.WhatCategory{}).Where("id = ?", id).Update("name", name).Error
}

func (r *categoryRepo) GetWhatByID(ctx context.Context, tx *gorm.DB, id uint) (*types.WhatCategory, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var what types.WhatCategory
	if err := transaction.WithContext(ctx).First(&what, id).Error; err != nil {
		return nil, err
	}
	return &what, nil
}

func (r *categoryRepo) ListWhatsByCauseIDs(ctx context.Context, tx *gorm.DB, causeIDs []uint) ([]*types.WhatCategory, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var whats []*types.WhatCategory
	if len(causeIDs) == 0 {
		return whats, nil
	}
	if err := transaction.WithContext(ctx).Where("cause_id IN ?", causeIDs).Order("name").Find(&whats).Error; err != nil {
		return nil, err
	}
	return whats, nil
}

func (r *categoryRepo) DeleteWhatCascade(ctx context.Context, tx *gorm.DB, id uint) ([]TableCount, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var counts []TableCount
	err := transaction.WithContext(ctx).Transaction(func(t *gorm.DB) error {
		subtreeCounts, err := deleteWhatSubtrees(t, []uint{id})
		if err != nil {
			return err
		}
		counts = subtreeCounts

		assigned := t.Where("what_id = ?", id).Delete(&types.ClaimWhat{})
		if assigned.Error != nil {
			return assigned.Error
		}
		counts = append(counts, TableCount{Table: types.ClaimWhat{}.TableName(), Count: assigned.RowsAffected})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *categoryRepo) CreateHow(ctx context.Context, tx *gorm.DB, how *types.HowCategory) (*types.HowCategory, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(how).Error; err != nil {
		return nil, err
	}
	return how, nil
}

func (r *categoryRepo) RenameHow(ctx context.Context, tx *gorm.DB, id uint, name string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Model(&types.HowCategory{}).Where("id = ?", id).Update("name", name).Error
}

func (r *categoryRepo) GetHowByID(ctx context.Context, tx *gorm.DB, id uint) (*types.HowCategory, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var how types.HowCategory
	if err := transaction.WithContext(ctx).First(&how, id).Error; err != nil {
		return nil, err
	}
	return &how, nil
}

func (r *categoryRepo) ListHowsByCauseIDs(ctx context.Context, tx *gorm.DB, causeIDs []uint) ([]*types.HowCategory, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var hows []*types.HowCategory
	if len(causeIDs) == 0 {
		return hows, nil
	}
	if err := transaction.WithContext(ctx).Where("cause_id IN ?", causeIDs).Order("name").Find(&hows).Error; err != nil {
		return nil, err
	}
	return hows, nil
}

func (r *categoryRepo) DeleteHowCascade(ctx context.Context, tx *gorm.DB, id uint) ([]TableCount, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var counts []TableCount
	err := transaction.WithContext(ctx).Transaction(func(t *gorm.DB) error {
		subtreeCounts, err := deleteHowSubtrees(t, []uint{id})
		if err != nil {
			return err
		}
		counts = subtreeCounts

		assigned := t.Where("how_id = ?", id).Delete(&types.ClaimHow{})
		if assigned.Error != nil {
			return assigned.Error
		}
		counts = append(counts, TableCount{Table: types.ClaimHow{}.TableName(), Count: assigned.RowsAffected})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func deleteWhatSubtrees(t *gorm.DB, whatIDs []uint) ([]TableCount, error) {
	counts := []TableCount{}
	var titleIDs, questionIDs []uint
	if len(whatIDs) > 0 {
		if err := t.Model(&types.WhatQuestionTitle{}).Where("what_id IN ?", whatIDs).Pluck("id", &titleIDs).Error; err != nil {
			return nil, err
		}
	}
	if len(titleIDs) > 0 {
		if err := t.Model(&types.WhatQuestion{}).Where("what_title_id IN ?", titleIDs).Pluck("id", &questionIDs).Error; err != nil {
			return nil, err
		}
	}

	// Leaf tables first so no level ever references a deleted parent.
	steps := []struct {
		table string
		run   func() *gorm.DB
	}{
		{types.WhatQuestionAnswer{}.TableName(), func() *gorm.DB {
			return deleteIn(t, &types.WhatQuestionAnswer{}, "question_id", questionIDs)
		}},
		{types.WhatQuestionOption{}.TableName(), func() *gorm.DB {
			return deleteIn(t, &types.WhatQuestionOption{}, "question_id", questionIDs)
		}},
		{types.WhatQuestion{}.TableName(), func() *gorm.DB {
			return deleteIn(t, &types.WhatQuestion{}, "id", questionIDs)
		}},
		{types.WhatQuestionTitle{}.TableName(), func() *gorm.DB {
			return deleteIn(t, &types.WhatQuestionTitle{}, "id", titleIDs)
		}},
		{types.WhatCategory{}.TableName(), func() *gorm.DB {
			return deleteIn(t, &types.WhatCategory{}, "id", whatIDs)
		}},
	}
	for _, step := range steps {
		result := step.run()
		if result != nil && result.Error != nil {
			return nil, result.Error
		}
		var n int64
		if result != nil {
			n = result.RowsAffected
		}
		counts = append(counts, TableCount{Table: step.table, Count: n})
	}
	return counts, nil
}

func deleteHowSubtrees(t *gorm.DB, howIDs []uint) ([]TableCount, error) {
	counts := []TableCount{}
	var titleIDs, questionIDs []uint
	if len(howIDs) > 0 {
		if err := t.Model(&types.HowQuestionTitle{}).Where("how_id IN ?", howIDs).Pluck("id", &titleIDs).Error; err != nil {
			return nil, err
		}
	}
	if len(titleIDs) > 0 {
		if err := t.Model(&types.HowQuestion{}).Where("how_title_id IN ?", titleIDs).Pluck("id", &questionIDs).Error; err != nil {
			return nil, err
		}
	}

	steps := []struct {
		table string
		run   func() *gorm.DB
	}{
		{types.HowQuestionAnswer{}.TableName(), func() *gorm.DB {
			return deleteIn(t, &types.HowQuestionAnswer{}, "question_id", questionIDs)
		}},
		{types.HowQuestionOption{}.TableName(), func() *gorm.DB {
			return deleteIn(t, &types.HowQuestionOption{}, "question_id", questionIDs)
		}},
		{types.HowQuestion{}.TableName(), func() *gorm.DB {
			return deleteIn(t, &types.HowQuestion{}, "id", questionIDs)
		}},
		{types.HowQuestionTitle{}.TableName(), func() *gorm.DB {
			return deleteIn(t, &types.HowQuestionTitle{}, "id", titleIDs)
		}},
		{types.HowCategory{}.TableName(), func() *gorm.DB {
			return deleteIn(t, &types.HowCategory{}, "id", howIDs)
		}},
	}
	for _, step := range steps {
		result := step.run()
		if result != nil && result.Error != nil {
			return nil, result.Error
		}
		var n int64
		if result != nil {
			n = result.RowsAffected
		}
		counts = append(counts, TableCount{Table: step.table, Count: n})
	}
	return counts, nil
}

func deleteIn(t *gorm.DB, model interface{}, column string, ids []uint) *gorm.DB {
	if len(ids) == 0 {
		return nil
	}
	return t.Where(column+" IN ?", ids).Delete(model)
}
