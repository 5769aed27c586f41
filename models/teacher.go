package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bitbucket.org/montealto-academy/academy_backend/config"
	"bitbucket.org/montealto-academy/academy_backend/utils"
	"gorm.io/gorm"
)

type Teacher struct {
	ID           int       `gorm:"primary_key" json:"id"`
	LastName     string    `gorm:"size:100;not null" json:"last_name"`
	FirstName    string    `gorm:"size:100;not null" json:"first_name"`
	Email        string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Phone        string    `gorm:"size:20" json:"phone"`
	Active       bool      `gorm:"default:true;index" json:"active"`
	Admin        bool      `gorm:"default:false" json:"admin"`
	PasswordHash string    `gorm:"size:100" json:"-"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewTeacher struct {
	LastName  string `json:"last_name" binding:"required,max=100"`
	FirstName string `json:"first_name" binding:"required,max=100"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone" binding:"max=20"`
	Active    *bool  `json:"active"`
	Admin     *bool  `json:"admin"`
	Password  string `json:"password"`
}

func (t *Teacher) FullName() string {
	return t.FirstName + " " + t.LastName
}

func (input *NewTeacher) validate(ctx context.Context, exceptId int) error {
	if !utils.IsValidEmail(input.Email) {
		return fmt.Errorf("invalid email address")
	}
	if input.Phone != "" {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
			return fmt.Errorf("invalid phone number")
		}
	}
	return utils.ValidateUnique[Teacher](ctx, "email", input.Email, exceptId)
}

func CreateTeacher(ctx context.Context, input *NewTeacher) (*Teacher, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}
	teacher := Teacher{
		LastName:  input.LastName,
		FirstName: input.FirstName,
		Email:     input.Email,
		Phone:     input.Phone,
		Active:    utils.DereferencePtr(input.Active, true),
		Admin:     utils.DereferencePtr(input.Admin, false),
	}
	// only admins log in; a password is required for them
	if teacher.Admin {
		if input.Password == "" {
			return nil, errors.New("password is required for admin teachers")
		}
		hashed, err := utils.HashPassword(input.Password)
		if err != nil {
			return nil, err
		}
		teacher.PasswordHash = string(hashed)
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&teacher).Error; err != nil {
		return nil, err
	}
	return &teacher, nil
}

func UpdateTeacher(ctx context.Context, id int, input *NewTeacher) (*Teacher, error) {
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}
	teacher, err := utils.FetchModel[Teacher](ctx, id)
	if err != nil {
		return nil, err
	}
	teacher.LastName = input.LastName
	teacher.FirstName = input.FirstName
	teacher.Email = input.Email
	teacher.Phone = input.Phone
	teacher.Active = utils.DereferencePtr(input.Active, teacher.Active)
	teacher.Admin = utils.DereferencePtr(input.Admin, teacher.Admin)
	if input.Password != "" {
		hashed, err := utils.HashPassword(input.Password)
		if err != nil {
			return nil, err
		}
		teacher.PasswordHash = string(hashed)
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Save(teacher).Error; err != nil {
		return nil, err
	}
	return teacher, nil
}

// DeleteTeacher blocks while groups or payrolls depend on the teacher, then
// nullifies the approval references on expenses (approvers may leave; the
// expense history stays).
func DeleteTeacher(ctx context.Context, id int) error {
	db := config.GetDB()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var teacher Teacher
		if err := tx.First(&teacher, id).Error; err != nil {
			return utils.ErrorRecordNotFound
		}
		for _, rule := range []utils.RestrictRule{
			{Model: &Group{}, Condition: "teacher_id = ?"},
			{Model: &Payroll{}, Condition: "teacher_id = ?"},
		} {
			var count int64
			if err := tx.Model(rule.Model).Where(rule.Condition, id).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return utils.ErrReferenceProtected
			}
		}
		if err := tx.Model(&Expense{}).Where("approved_by_id = ?", id).
			Update("approved_by_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&teacher).Error
	})
}

func GetTeacher(ctx context.Context, id int) (*Teacher, error) {
	return utils.FetchModel[Teacher](ctx, id)
}

func FetchTeachers(ctx context.Context) ([]*Teacher, error) {
	return utils.FetchModelsWhere[Teacher](ctx, "last_name, first_name", "1 = 1")
}

// LoginTeacher authenticates an active admin teacher and returns a signed
// token. Failures are deliberately indistinct.
func LoginTeacher(ctx context.Context, email, password string) (string, error) {
	db := config.GetDB()
	var teacher Teacher
	err := db.WithContext(ctx).Where("email = ? AND admin = ? AND active = ?", email, true, true).
		First(&teacher).Error
	if err != nil {
		return "", errors.New("invalid credentials")
	}
	if err := utils.ComparePassword(teacher.PasswordHash, password); err != nil {
		return "", errors.New("invalid credentials")
	}
	return utils.JwtGenerate(teacher.ID, teacher.FullName(), teacher.Admin)
}
