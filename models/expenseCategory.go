package models

import (
	"context"
	"fmt"
	"time"

	"bitbucket.org/montealto-academy/academy_backend/config"
	"bitbucket.org/montealto-academy/academy_backend/utils"
)

type ExpenseCategory struct {
	ID              int          `gorm:"primary_key" json:"id"`
	Name            string       `gorm:"size:100;not null;uniqueIndex" json:"name"`
	CategoryType    CategoryType `gorm:"size:20;not null" json:"category_type"`
	Description     string       `gorm:"type:text" json:"description"`
	IsTaxDeductible bool         `gorm:"default:true" json:"is_tax_deductible"`
	Active          bool         `gorm:"default:true" json:"active"`
	CreatedAt       time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewExpenseCategory struct {
	Name            string       `json:"name" binding:"required,max=100"`
	CategoryType    CategoryType `json:"category_type" binding:"required"`
	Description     string       `json:"description"`
	IsTaxDeductible *bool        `json:"is_tax_deductible"`
	Active          *bool        `json:"active"`
}

func (input *NewExpenseCategory) validate(ctx context.Context, exceptId int) error {
	if !input.CategoryType.Valid() {
		return fmt.Errorf("invalid category type %q", input.CategoryType)
	}
	if err := utils.ValidateUnique[ExpenseCategory](ctx, "name", input.Name, exceptId); err != nil {
		return err
	}
	return nil
}

func CreateExpenseCategory(ctx context.Context, input *NewExpenseCategory) (*ExpenseCategory, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}
	category := ExpenseCategory{
		Name:            input.Name,
		CategoryType:    input.CategoryType,
		Description:     input.Description,
		IsTaxDeductible: utils.DereferencePtr(input.IsTaxDeductible, true),
		Active:          utils.DereferencePtr(input.Active, true),
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, err
	}
	// lookup lists are cached; a write invalidates
	config.DeleteRedisKey(expenseCategoryCacheKey)
	return &category, nil
}

func UpdateExpenseCategory(ctx context.Context, id int, input *NewExpenseCategory) (*ExpenseCategory, error) {
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}
	category, err := utils.FetchModel[ExpenseCategory](ctx, id)
	if err != nil {
		return nil, err
	}
	category.Name = input.Name
	category.CategoryType = input.CategoryType
	category.Description = input.Description
	category.IsTaxDeductible = utils.DereferencePtr(input.IsTaxDeductible, category.IsTaxDeductible)
	category.Active = utils.DereferencePtr(input.Active, category.Active)

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(category).Error; err != nil {
		return nil, err
	}
	config.DeleteRedisKey(expenseCategoryCacheKey)
	return category, nil
}

// DeleteExpenseCategory refuses while expenses or templates still reference
// the category.
func DeleteExpenseCategory(ctx context.Context, id int) error {
	err := utils.DeleteRestricted[ExpenseCategory](ctx, id, []utils.RestrictRule{
		{Model: &Expense{}, Condition: "category_id = ?"},
		{Model: &RecurringExpenseTemplate{}, Condition: "category_id = ?"},
	})
	if err != nil {
		return err
	}
	config.DeleteRedisKey(expenseCategoryCacheKey)
	return nil
}

func GetExpenseCategory(ctx context.Context, id int) (*ExpenseCategory, error) {
	return utils.FetchModel[ExpenseCategory](ctx, id)
}

const expenseCategoryCacheKey = "expense_categories"

func FetchExpenseCategories(ctx context.Context) ([]*ExpenseCategory, error) {
	var cached []*ExpenseCategory
	if exists, err := config.GetRedisObject(expenseCategoryCacheKey, &cached); err == nil && exists {
		return cached, nil
	}
	results, err := utils.FetchModelsWhere[ExpenseCategory](ctx, "name", "1 = 1")
	if err != nil {
		return nil, err
	}
	config.SetRedisObject(expenseCategoryCacheKey, results, time.Hour)
	return results, nil
}
