package models

import (
	"context"
	"fmt"
	"time"

	"bitbucket.org/montealto-academy/academy_backend/config"
	"bitbucket.org/montealto-academy/academy_backend/utils"
	"gorm.io/gorm"
)

// Parent is the billing contact for one or more students. The DNI is the
// Spanish national id and doubles as the dedupe key; the IBAN feeds direct
// debit collection.
type Parent struct {
	ID        int        `gorm:"primary_key" json:"id"`
	LastName  string     `gorm:"size:100;not null" json:"last_name"`
	FirstName string     `gorm:"size:100;not null" json:"first_name"`
	Dni       string     `gorm:"size:20;not null;uniqueIndex" json:"dni"`
	Email     string     `gorm:"size:255" json:"email"`
	Phone     string     `gorm:"size:20" json:"phone"`
	Address   string     `gorm:"size:255" json:"address"`
	Iban      string     `gorm:"size:34" json:"iban"`
	Students  []*Student `gorm:"many2many:student_parents;" json:"students,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewParent struct {
	LastName  string `json:"last_name" binding:"required,max=100"`
	FirstName string `json:"first_name" binding:"required,max=100"`
	Dni       string `json:"dni" binding:"required,max=20"`
	Email     string `json:"email" binding:"max=255"`
	Phone     string `json:"phone" binding:"max=20"`
	Address   string `json:"address" binding:"max=255"`
	Iban      string `json:"iban" binding:"max=34"`
}

func (p *Parent) FullName() string {
	return p.FirstName + " " + p.LastName
}

func (input *NewParent) validate(ctx context.Context, exceptId int) error {
	if input.Email != "" && !utils.IsValidEmail(input.Email) {
		return fmt.Errorf("invalid email address")
	}
	if input.Phone != "" {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
			return fmt.Errorf("invalid phone number")
		}
	}
	return utils.ValidateUnique[Parent](ctx, "dni", input.Dni, exceptId)
}

func CreateParent(ctx context.Context, input *NewParent) (*Parent, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}
	parent := Parent{
		LastName:  input.LastName,
		FirstName: input.FirstName,
		Dni:       input.Dni,
		Email:     input.Email,
		Phone:     input.Phone,
		Address:   input.Address,
		Iban:      input.Iban,
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&parent).Error; err != nil {
		return nil, err
	}
	return &parent, nil
}

func UpdateParent(ctx context.Context, id int, input *NewParent) (*Parent, error) {
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}
	parent, err := utils.FetchModel[Parent](ctx, id)
	if err != nil {
		return nil, err
	}
	parent.LastName = input.LastName
	parent.FirstName = input.FirstName
	parent.Dni = input.Dni
	parent.Email = input.Email
	parent.Phone = input.Phone
	parent.Address = input.Address
	parent.Iban = input.Iban
	db := config.GetDB()
	if err := db.WithContext(ctx).Save(parent).Error; err != nil {
		return nil, err
	}
	return parent, nil
}

func DeleteParent(ctx context.Context, id int) error {
	db := config.GetDB()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var parent Parent
		if err := tx.First(&parent, id).Error; err != nil {
			return utils.ErrorRecordNotFound
		}
		var count int64
		if err := tx.Model(&Payment{}).Where("parent_id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return utils.ErrReferenceProtected
		}
		if err := tx.Model(&parent).Association("Students").Clear(); err != nil {
			return err
		}
		return tx.Delete(&parent).Error
	})
}

func GetParent(ctx context.Context, id int) (*Parent, error) {
	return utils.FetchModel[Parent](ctx, id, "Students")
}

func FetchParents(ctx context.Context) ([]*Parent, error) {
	return utils.FetchModelsWhere[Parent](ctx, "last_name, first_name", "1 = 1")
}
