package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/bramwell/claimsdesk-backend/internal/logger"
	"github.com/bramwell/claimsdesk-backend/internal/types"
)

// SurveyCategoryRepo covers the survey-side tree above titles: categories and
// category types. Deletes cascade explicitly with per-table counts.
type SurveyCategoryRepo interface {
	CreateCategory(ctx context.Context, tx *gorm.DB, category *types.SurveyCategory) (*types.SurveyCategory, error)
	RenameCategory(ctx context.Context, tx *gorm.DB, id uint, name string) error
	GetCategoryByID(ctx context.Context, tx *gorm.DB, id uint) (*types.SurveyCategory, error)
	ListCategoriesByApplicationTypeID(ctx context.Context, tx *gorm.DB, applicationTypeID uint) ([]*types.SurveyCategory, error)
	DeleteCategoryCascade(ctx context.Context, tx *gorm.DB, id uint) ([]TableCount, error)

	CreateCategoryType(ctx context.Context, tx *gorm.DB, categoryType *types.SurveyCategoryType) (*types.SurveyCategoryType, error)
	RenameCategoryType(ctx context.Context, tx *gorm.DB, id uint, name string) error
	GetCategoryTypeByID(ctx context.Context, tx *gorm.DB, id uint) (*types.SurveyCategoryType, error)
	ListCategoryTypesByCategoryIDs(ctx context.Context, tx *gorm.DB, categoryIDs []uint) ([]*types.SurveyCategoryType, error)
	DeleteCategoryTypeCascade(ctx context.Context, tx *gorm.DB, id uint) ([]TableCount, error)
}

type surveyCategoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSurveyCategoryRepo(db *gorm.DB, baseLog *logger.Logger) SurveyCategoryRepo {
	return &surveyCategoryRepo{db: db, log: baseLog.With("repo", "SurveyCategoryRepo")}
}

func (r *surveyCategoryRepo) CreateCategory(ctx context.Context, tx *gorm.DB, category *types.SurveyCategory) (*types.SurveyCategory, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

func (r *surveyCategoryRepo) RenameCategory(ctx context.Context, tx *gorm.DB, id uint, name string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Model(&types.SurveyCategory{}).Where("id = ?", id).Update("name", name).Error
}

func (r *surveyCategoryRepo) GetCategoryByID(ctx context.Context, tx *gorm.DB, id uint) (*types.SurveyCategory, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var category types.SurveyCategory
	if err := transaction.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *surveyCategoryRepo) ListCategoriesByApplicationTypeID(ctx context.Context, tx *gorm.DB, applicationTypeID uint) ([]*types.SurveyCategory, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var categories []*types.SurveyCategory
	if err := transaction.WithContext(ctx).
		Where("application_type_id = ?", applicationTypeID).
		Order("name").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *surveyCategoryRepo) DeleteCategoryCascade(ctx context.Context, tx *gorm.DB, id uint) ([]TableCount, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var counts []TableCount
	err := transaction.WithContext(ctx).Transaction(func(t *gorm.DB) error {
		var typeIDs []uint
		if err := t.Model(&types.SurveyCategoryType{}).Where("category_id = ?", id).Pluck("id", &typeIDs).Error; err != nil {
			return err
		}
		var err error
		counts, err = deleteSurveyCategoryTypes(t, typeIDs)
		if err != nil {
			return err
		}
		result := t.Delete(&types.SurveyCategory{}, id)
		if result.Error != nil {
			return result.Error
		}
		counts = append(counts, TableCount{Table: types.SurveyCategory{}.TableName(), Count: result.RowsAffected})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *surveyCategoryRepo) CreateCategoryType(ctx context.Context, tx *gorm.DB, categoryType *types.SurveyCategoryType) (*types.SurveyCategoryType, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(categoryType).Error; err != nil {
		return nil, err
	}
	return categoryType, nil
}

func (r *surveyCategoryRepo) RenameCategoryType(ctx context.Context, tx *gorm.DB, id uint, name string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Model(&types.SurveyCategoryType{}).Where("id = ?", id).Update("name", name).Error
}

func (r *surveyCategoryRepo) GetCategoryTypeByID(ctx context.Context, tx *gorm.DB, id uint) (*types.SurveyCategoryType, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var categoryType types.SurveyCategoryType
	if err := transaction.WithContext(ctx).First(&categoryType, id).Error; err != nil {
		return nil, err
	}
	return &categoryType, nil
}

func (r *surveyCategoryRepo) ListCategoryTypesByCategoryIDs(ctx context.Context, tx *gorm.DB, categoryIDs []uint) ([]*types.SurveyCategoryType, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var categoryTypes []*types.SurveyCategoryType
	if len(categoryIDs) == 0 {
		return categoryTypes, nil
	}
	if err := transaction.WithContext(ctx).Where("category_id IN ?", categoryIDs).Order("name").Find(&categoryTypes).Error; err != nil {
		return nil, err
	}
	return categoryTypes, nil
}

func (r *surveyCategoryRepo) DeleteCategoryTypeCascade(ctx context.Context, tx *gorm.DB, id uint) ([]TableCount, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var counts []TableCount
	err := transaction.WithContext(ctx).Transaction(func(t *gorm.DB) error {
		var err error
		counts, err = deleteSurveyCategoryTypes(t, []uint{id})
		return err
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func deleteSurveyCategoryTypes(t *gorm.DB, typeIDs []uint) ([]TableCount, error) {
	counts := []TableCount{}
	var titleIDs, questionIDs []uint
	if len(typeIDs) > 0 {
		if err := t.Model(&types.SurveyTitle{}).Where("category_type_id IN ?", typeIDs).Pluck("id", &titleIDs).Error; err != nil {
			return nil, err
		}
	}
	if len(titleIDs) > 0 {
		if err := t.Model(&types.SurveyQuestion{}).Where("title_id IN ?", titleIDs).Pluck("id", &questionIDs).Error; err != nil {
			return nil, err
		}
	}

	steps := []struct {
		table string
		run   func() *gorm.DB
	}{
		{types.SurveyAnswer{}.TableName(), func() *gorm.DB {
			return deleteIn(t, &types.SurveyAnswer{}, "question_id", questionIDs)
		}},
		{types.SurveyQuestionOption{}.TableName(), func() *gorm.DB {
			return deleteIn(t, &types.SurveyQuestionOption{}, "question_id", questionIDs)
		}},
		{types.SurveyQuestion{}.TableName(), func() *gorm.DB {
			return deleteIn(t, &types.SurveyQuestion{}, "id", questionIDs)
		}},
		{types.SurveyTitle{}.TableName(), func() *gorm.DB {
			return deleteIn(t, &types.SurveyTitle{}, "id", titleIDs)
		}},
		{types.SurveyCategoryType{}.TableName(), func() *gorm.DB {
			return deleteIn(t, &types.SurveyCategoryType{}, "id", typeIDs)
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
