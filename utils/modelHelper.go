package utils

import (
	"context"

	"bitbucket.org/montealto-academy/academy_backend/config"
	"gorm.io/gorm"
)

/* DB fetching */

// fetch model from db (may return RecordNotFound)
func FetchModel[T any](ctx context.Context, id int, associations ...string) (*T, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx)
	// preloading
	for _, field := range associations {
		dbCtx = dbCtx.Preload(field)
	}
	var result T
	err := dbCtx.First(&result, id).Error
	if err != nil {
		return nil, ErrorRecordNotFound
	}
	return &result, nil
}

// fetch all models from db
func FetchAllModels[T any](ctx context.Context, associations ...string) ([]*T, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx)
	for _, field := range associations {
		dbCtx = dbCtx.Preload(field)
	}
	var results []*T
	err := dbCtx.Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// fetch all models matching WHERE $condition, ordered
func FetchModelsWhere[T any](ctx context.Context, order string, condition string, value ...interface{}) ([]*T, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Where(condition, value...)
	if order != "" {
		dbCtx = dbCtx.Order(order)
	}
	var results []*T
	err := dbCtx.Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// DeleteRestricted removes the record unless any of the given dependent
// predicates still matches. Financial cross-references restrict deletion;
// approval-author references are nullified by the caller beforehand.
type RestrictRule struct {
	Model     interface{}
	Condition string
}

func DeleteRestricted[T any](ctx context.Context, id int, rules []RestrictRule) error {
	db := config.GetDB()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model T
		if err := tx.First(&model, id).Error; err != nil {
			return ErrorRecordNotFound
		}
		for _, rule := range rules {
			var count int64
			if err := tx.Model(rule.Model).Where(rule.Condition, id).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return ErrReferenceProtected
			}
		}
		return tx.Delete(&model).Error
	})
}
