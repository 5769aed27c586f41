package main

import (
	"context"
	"time"

	"bitbucket.org/montealto-academy/academy_backend/config"
	"bitbucket.org/montealto-academy/academy_backend/models"
	"bitbucket.org/montealto-academy/academy_backend/utils"
	"github.com/sirupsen/logrus"
)

const recurringProcessInterval = time.Hour

// RunRecurringExpenseProcessor materializes pending expenses from active
// auto-generate templates. Safe to run on several replicas: the
// (template, period) unique index makes each materialization idempotent.
func RunRecurringExpenseProcessor(ctx context.Context, logger *logrus.Logger) {
	processRecurringExpensesOnce(ctx, logger)
	ticker := time.NewTicker(recurringProcessInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			processRecurringExpensesOnce(ctx, logger)
		}
	}
}

func processRecurringExpensesOnce(ctx context.Context, logger *logrus.Logger) {
	db := config.GetDB()
	if db == nil {
		return
	}

	var templates []*models.RecurringExpenseTemplate
	err := db.WithContext(ctx).
		Where("active = ? AND auto_generate = ?", true, true).
		Find(&templates).Error
	if err != nil {
		config.LogError(logger, "recurring_expense_processor.go", "processRecurringExpensesOnce", "fetch templates", nil, err)
		return
	}

	today := utils.Today()
	created := 0
	for _, template := range templates {
		for _, period := range template.PeriodsDue(today) {
			expense, err := models.MaterializeRecurringExpense(ctx, template, period)
			if err != nil {
				config.LogError(logger, "recurring_expense_processor.go", "processRecurringExpensesOnce",
					"materialize", map[string]interface{}{"template_id": template.ID, "period": period}, err)
				continue
			}
			if expense != nil {
				created++
			}
		}
	}
	if created > 0 {
		logger.WithFields(logrus.Fields{
			"field":   "RecurringExpenseProcessor",
			"created": created,
		}).Info("materialized recurring expenses")
	}
}
