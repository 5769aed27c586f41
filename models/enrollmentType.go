package models

import (
	"context"
	"fmt"
	"time"

	"bitbucket.org/montealto-academy/academy_backend/config"
	"bitbucket.org/montealto-academy/academy_backend/utils"
	"github.com/shopspring/decimal"
)

// EnrollmentType keeps tuition pricing in data instead of code: one row per
// offering, with a base price for each schedule.
type EnrollmentType struct {
	ID                 int                `gorm:"primary_key" json:"id"`
	Name               EnrollmentTypeName `gorm:"size:20;not null;uniqueIndex" json:"name"`
	DisplayName        string             `gorm:"size:50;not null" json:"display_name"`
	BaseAmountFullTime decimal.Decimal    `gorm:"type:decimal(8,2);not null" json:"base_amount_full_time"`
	BaseAmountPartTime decimal.Decimal    `gorm:"type:decimal(8,2);not null" json:"base_amount_part_time"`
	Description        string             `gorm:"type:text" json:"description"`
	Active             bool               `gorm:"default:true" json:"active"`
	CreatedAt          time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time          `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewEnrollmentType struct {
	Name               EnrollmentTypeName `json:"name" binding:"required"`
	DisplayName        string             `json:"display_name" binding:"required,max=50"`
	BaseAmountFullTime decimal.Decimal    `json:"base_amount_full_time"`
	BaseAmountPartTime decimal.Decimal    `json:"base_amount_part_time"`
	Description        string             `json:"description"`
	Active             *bool              `json:"active"`
}

// BaseAmountFor picks the schedule's base price.
func (t *EnrollmentType) BaseAmountFor(schedule ScheduleType) decimal.Decimal {
	if schedule == ScheduleTypePartTime {
		return t.BaseAmountPartTime
	}
	return t.BaseAmountFullTime
}

func (input *NewEnrollmentType) validate(ctx context.Context, exceptId int) error {
	if !input.Name.Valid() {
		return fmt.Errorf("invalid enrollment type name %q", input.Name)
	}
	if !input.BaseAmountFullTime.IsPositive() || !input.BaseAmountPartTime.IsPositive() {
		return utils.ErrInvalidAmount
	}
	return utils.ValidateUnique[EnrollmentType](ctx, "name", input.Name, exceptId)
}

func CreateEnrollmentType(ctx context.Context, input *NewEnrollmentType) (*EnrollmentType, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}
	enrollmentType := EnrollmentType{
		Name:               input.Name,
		DisplayName:        input.DisplayName,
		BaseAmountFullTime: input.BaseAmountFullTime,
		BaseAmountPartTime: input.BaseAmountPartTime,
		Description:        input.Description,
		Active:             utils.DereferencePtr(input.Active, true),
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&enrollmentType).Error; err != nil {
		return nil, err
	}
	config.DeleteRedisKey(enrollmentTypeCacheKey)
	return &enrollmentType, nil
}

func UpdateEnrollmentType(ctx context.Context, id int, input *NewEnrollmentType) (*EnrollmentType, error) {
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}
	enrollmentType, err := utils.FetchModel[EnrollmentType](ctx, id)
	if err != nil {
		return nil, err
	}
	enrollmentType.Name = input.Name
	enrollmentType.DisplayName = input.DisplayName
	enrollmentType.BaseAmountFullTime = input.BaseAmountFullTime
	enrollmentType.BaseAmountPartTime = input.BaseAmountPartTime
	enrollmentType.Description = input.Description
	enrollmentType.Active = utils.DereferencePtr(input.Active, enrollmentType.Active)

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(enrollmentType).Error; err != nil {
		return nil, err
	}
	config.DeleteRedisKey(enrollmentTypeCacheKey)
	return enrollmentType, nil
}

func DeleteEnrollmentType(ctx context.Context, id int) error {
	err := utils.DeleteRestricted[EnrollmentType](ctx, id, []utils.RestrictRule{
		{Model: &Enrollment{}, Condition: "enrollment_type_id = ?"},
	})
	if err != nil {
		return err
	}
	config.DeleteRedisKey(enrollmentTypeCacheKey)
	return nil
}

func GetEnrollmentType(ctx context.Context, id int) (*EnrollmentType, error) {
	return utils.FetchModel[EnrollmentType](ctx, id)
}

const enrollmentTypeCacheKey = "enrollment_types"

func FetchEnrollmentTypes(ctx context.Context) ([]*EnrollmentType, error) {
	var cached []*EnrollmentType
	if exists, err := config.GetRedisObject(enrollmentTypeCacheKey, &cached); err == nil && exists {
		return cached, nil
	}
	results, err := utils.FetchModelsWhere[EnrollmentType](ctx, "name", "1 = 1")
	if err != nil {
		return nil, err
	}
	config.SetRedisObject(enrollmentTypeCacheKey, results, time.Hour)
	return results, nil
}
