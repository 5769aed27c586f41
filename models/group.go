package models

import (
	"context"
	"time"

	"bitbucket.org/montealto-academy/academy_backend/config"
	"bitbucket.org/montealto-academy/academy_backend/utils"
)

// Group is a class group led by a teacher. Students reference their group
// directly; dissolving a group requires moving or withdrawing them first.
type Group struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	TeacherId int       `gorm:"not null;index" json:"teacher_id"`
	Teacher   *Teacher  `json:"teacher,omitempty"`
	Schedule  string    `gorm:"size:255" json:"schedule"`
	Active    bool      `gorm:"default:true;index" json:"active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewGroup struct {
	Name      string `json:"name" binding:"required,max=100"`
	TeacherId int    `json:"teacher_id" binding:"required"`
	Schedule  string `json:"schedule" binding:"max=255"`
	Active    *bool  `json:"active"`
}

func (input *NewGroup) validate(ctx context.Context, exceptId int) error {
	if err := utils.ValidateResourceId[Teacher](ctx, input.TeacherId); err != nil {
		return err
	}
	return utils.ValidateUnique[Group](ctx, "name", input.Name, exceptId)
}

func CreateGroup(ctx context.Context, input *NewGroup) (*Group, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}
	group := Group{
		Name:      input.Name,
		TeacherId: input.TeacherId,
		Schedule:  input.Schedule,
		Active:    utils.DereferencePtr(input.Active, true),
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&group).Error; err != nil {
		return nil, err
	}
	return GetGroup(ctx, group.ID)
}

func UpdateGroup(ctx context.Context, id int, input *NewGroup) (*Group, error) {
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}
	group, err := utils.FetchModel[Group](ctx, id)
	if err != nil {
		return nil, err
	}
	group.Name = input.Name
	group.TeacherId = input.TeacherId
	group.Schedule = input.Schedule
	group.Active = utils.DereferencePtr(input.Active, group.Active)
	db := config.GetDB()
	if err := db.WithContext(ctx).Save(group).Error; err != nil {
		return nil, err
	}
	return GetGroup(ctx, id)
}

func DeleteGroup(ctx context.Context, id int) error {
	return utils.DeleteRestricted[Group](ctx, id, []utils.RestrictRule{
		{Model: &Student{}, Condition: "group_id = ?"},
	})
}

func GetGroup(ctx context.Context, id int) (*Group, error) {
	return utils.FetchModel[Group](ctx, id, "Teacher")
}

func FetchGroups(ctx context.Context) ([]*Group, error) {
	db := config.GetDB()
	var results []*Group
	err := db.WithContext(ctx).Preload("Teacher").Order("name").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
