package main

import (
	"context"
	"errors"
	"os"

	"bitbucket.org/montealto-academy/academy_backend/config"
	"bitbucket.org/montealto-academy/academy_backend/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Bootstraps the first admin teacher so someone can log in to a fresh
// deployment. Idempotent: an existing teacher with ADMIN_EMAIL is left alone.
func main() {
	logger := config.GetLogger()

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		logger.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD are required")
	}
	firstName := os.Getenv("ADMIN_FIRST_NAME")
	if firstName == "" {
		firstName = "Admin"
	}
	lastName := os.Getenv("ADMIN_LAST_NAME")
	if lastName == "" {
		lastName = "Montealto"
	}

	config.ConnectDatabaseWithRetry()
	models.MigrateTable()

	ctx := context.Background()
	db := config.GetDB()

	var existing models.Teacher
	err := db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		logger.WithFields(logrus.Fields{"email": email}).Info("admin teacher already exists; nothing to do")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Fatal("failed to check for existing admin: " + err.Error())
	}

	admin := true
	teacher, err := models.CreateTeacher(ctx, &models.NewTeacher{
		LastName:  lastName,
		FirstName: firstName,
		Email:     email,
		Admin:     &admin,
		Password:  password,
	})
	if err != nil {
		logger.Fatal("failed to create admin teacher: " + err.Error())
	}

	logger.WithFields(logrus.Fields{
		"id":    teacher.ID,
		"email": teacher.Email,
	}).Info("admin teacher created")
}
