package models

import (
	"context"
	"time"

	"bitbucket.org/montealto-academy/academy_backend/config"
	"bitbucket.org/montealto-academy/academy_backend/utils"
	"gorm.io/gorm"
)

type Student struct {
	ID               int         `gorm:"primary_key" json:"id"`
	LastName         string      `gorm:"size:100;not null" json:"last_name"`
	FirstName        string      `gorm:"size:100;not null" json:"first_name"`
	BirthDate        *DateString `gorm:"type:date" json:"birth_date"`
	Email            string      `gorm:"size:100" json:"email"`
	School           string      `gorm:"size:200" json:"school"`
	Allergies        string      `gorm:"type:text" json:"allergies"`
	GdprSigned       bool        `gorm:"default:false" json:"gdpr_signed"`
	GroupId          *int        `gorm:"index" json:"group_id"`
	Group            *Group      `json:"group,omitempty"`
	EnrollmentDate   DateString  `gorm:"type:date;not null" json:"enrollment_date"`
	Active           bool        `gorm:"default:true;index" json:"active"`
	WithdrawalDate   *DateString `gorm:"type:date" json:"withdrawal_date"`
	WithdrawalReason string      `gorm:"size:255" json:"withdrawal_reason"`
	Notes            string      `gorm:"type:text" json:"notes"`
	Parents          []*Parent   `gorm:"many2many:student_parents;" json:"parents,omitempty"`
	CreatedAt        time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewStudent struct {
	LastName         string      `json:"last_name" binding:"required,max=100"`
	FirstName        string      `json:"first_name" binding:"required,max=100"`
	BirthDate        *DateString `json:"birth_date"`
	Email            string      `json:"email" binding:"omitempty,email"`
	School           string      `json:"school" binding:"max=200"`
	Allergies        string      `json:"allergies"`
	GdprSigned       *bool       `json:"gdpr_signed"`
	GroupId          *int        `json:"group_id"`
	EnrollmentDate   DateString  `json:"enrollment_date" binding:"required"`
	Active           *bool       `json:"active"`
	WithdrawalDate   *DateString `json:"withdrawal_date"`
	WithdrawalReason string      `json:"withdrawal_reason" binding:"max=255"`
	Notes            string      `json:"notes"`
	ParentIds        []int       `json:"parent_ids"`
}

func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// Age in whole years at the given day, or -1 when the birth date is unknown.
func (s *Student) Age(today time.Time) int {
	if s.BirthDate == nil || s.BirthDate.IsZero() {
		return -1
	}
	birth := s.BirthDate.Time()
	age := today.Year() - birth.Year()
	if today.Month() < birth.Month() ||
		(today.Month() == birth.Month() && today.Day() < birth.Day()) {
		age--
	}
	if age < 0 {
		age = 0
	}
	return age
}

// Withdraw marks the student inactive and records when and why. The roster
// row is kept so enrollments and payments stay attributable.
func (s *Student) Withdraw(date DateString, reason string) {
	s.Active = false
	s.WithdrawalDate = &date
	s.WithdrawalReason = reason
}

func (input *NewStudent) validate(ctx context.Context) error {
	if input.GroupId != nil {
		if err := utils.ValidateResourceId[Group](ctx, *input.GroupId); err != nil {
			return err
		}
	}
	for _, parentId := range input.ParentIds {
		if err := utils.ValidateResourceId[Parent](ctx, parentId); err != nil {
			return err
		}
	}
	return nil
}

func (input *NewStudent) apply(student *Student) {
	student.LastName = input.LastName
	student.FirstName = input.FirstName
	student.BirthDate = input.BirthDate
	student.Email = input.Email
	student.School = input.School
	student.Allergies = input.Allergies
	student.GdprSigned = utils.DereferencePtr(input.GdprSigned, student.GdprSigned)
	student.GroupId = input.GroupId
	student.EnrollmentDate = input.EnrollmentDate
	student.Active = utils.DereferencePtr(input.Active, student.Active)
	student.WithdrawalDate = input.WithdrawalDate
	student.WithdrawalReason = input.WithdrawalReason
	student.Notes = input.Notes
}

func (input *NewStudent) linkParents(tx *gorm.DB, student *Student) error {
	if input.ParentIds == nil {
		return nil
	}
	parents := make([]*Parent, 0, len(input.ParentIds))
	for _, parentId := range input.ParentIds {
		parents = append(parents, &Parent{ID: parentId})
	}
	return tx.Model(student).Association("Parents").Replace(parents)
}

func CreateStudent(ctx context.Context, input *NewStudent) (*Student, error) {
	if err := input.validate(ctx); err != nil {
		return nil, err
	}
	student := Student{Active: true}
	input.apply(&student)
	db := config.GetDB()
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&student).Error; err != nil {
			return err
		}
		return input.linkParents(tx, &student)
	})
	if err != nil {
		return nil, err
	}
	return GetStudent(ctx, student.ID)
}

func UpdateStudent(ctx context.Context, id int, input *NewStudent) (*Student, error) {
	if err := input.validate(ctx); err != nil {
		return nil, err
	}
	student, err := utils.FetchModel[Student](ctx, id)
	if err != nil {
		return nil, err
	}
	input.apply(student)
	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(student).Error; err != nil {
			return err
		}
		return input.linkParents(tx, student)
	})
	if err != nil {
		return nil, err
	}
	return GetStudent(ctx, id)
}

func DeleteStudent(ctx context.Context, id int) error {
	db := config.GetDB()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var student Student
		if err := tx.First(&student, id).Error; err != nil {
			return utils.ErrorRecordNotFound
		}
		for _, rule := range []utils.RestrictRule{
			{Model: &Enrollment{}, Condition: "student_id = ?"},
			{Model: &Payment{}, Condition: "student_id = ?"},
		} {
			var count int64
			if err := tx.Model(rule.Model).Where(rule.Condition, id).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return utils.ErrReferenceProtected
			}
		}
		if err := tx.Model(&student).Association("Parents").Clear(); err != nil {
			return err
		}
		return tx.Delete(&student).Error
	})
}

func GetStudent(ctx context.Context, id int) (*Student, error) {
	return utils.FetchModel[Student](ctx, id, "Group", "Group.Teacher", "Parents")
}

func FetchStudents(ctx context.Context) ([]*Student, error) {
	db := config.GetDB()
	var results []*Student
	err := db.WithContext(ctx).Preload("Group").Order("last_name, first_name").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
