package main

import (
	"context"
	"time"

	"bitbucket.org/montealto-academy/academy_backend/config"
	"bitbucket.org/montealto-academy/academy_backend/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	ledgerDispatchBatchSize    = 50
	ledgerDispatchPollInterval = 2 * time.Second
	ledgerDispatchLockTimeout  = 30 * time.Second
)

// RunLedgerEventDispatcher publishes ledger event rows to Pub/Sub after their
// writing transaction committed. Claims use SKIP LOCKED so several replicas
// can run concurrently without double publishing.
func RunLedgerEventDispatcher(ctx context.Context, logger *logrus.Logger) {
	dispatcherID := uuid.NewString()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		dispatchLedgerEventsOnce(ctx, logger, dispatcherID)
		select {
		case <-ctx.Done():
			return
		case <-time.After(ledgerDispatchPollInterval):
		}
	}
}

func dispatchLedgerEventsOnce(ctx context.Context, logger *logrus.Logger, dispatcherID string) {
	db := config.GetDB()
	if db == nil {
		return
	}
	now := time.Now().UTC()
	staleBefore := now.Add(-ledgerDispatchLockTimeout)

	var claimed []models.LedgerEventRecord
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Eligible: never claimed, or claimed by a dispatcher that died
		// mid-batch (stale lock).
		q := tx.
			Where("is_processed = 0").
			Where("locked_at IS NULL OR locked_at <= ?", staleBefore).
			Order("id ASC").
			Limit(ledgerDispatchBatchSize).
			Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"})
		if err := q.Find(&claimed).Error; err != nil {
			return err
		}
		if len(claimed) == 0 {
			return nil
		}
		ids := make([]int, 0, len(claimed))
		for _, rec := range claimed {
			ids = append(ids, rec.ID)
		}
		return tx.Model(&models.LedgerEventRecord{}).Where("id IN ?", ids).
			Updates(map[string]interface{}{
				"locked_at": &now,
				"locked_by": dispatcherID,
			}).Error
	})
	if err != nil {
		config.LogError(logger, "ledger_event_dispatcher.go", "dispatchLedgerEventsOnce", "claim batch", nil, err)
		return
	}
	if len(claimed) == 0 {
		return
	}

	for _, rec := range claimed {
		msg := config.LedgerEventMessage{
			ID:            rec.ID,
			ReferenceType: string(rec.ReferenceType),
			ReferenceId:   rec.ReferenceId,
			Action:        string(rec.Action),
			Payload:       rec.Payload,
			CorrelationId: rec.CorrelationId,
			OccurredAt:    rec.CreatedAt,
		}
		if _, pubErr := config.PublishLedgerEvent(ctx, msg); pubErr != nil {
			markLedgerPublishFailed(ctx, db, rec.ID, pubErr)
			logger.WithFields(logrus.Fields{
				"field":     "LedgerEventDispatcher",
				"record_id": rec.ID,
			}).Error("ledger event publish failed: " + pubErr.Error())
			continue
		}
		markLedgerPublished(ctx, db, rec.ID)
	}
}

func markLedgerPublished(ctx context.Context, db *gorm.DB, recordID int) {
	now := time.Now().UTC()
	_ = db.WithContext(ctx).Model(&models.LedgerEventRecord{}).
		Where("id = ?", recordID).
		Updates(map[string]interface{}{
			"is_processed": true,
			"processed_at": &now,
			"locked_at":    nil,
			"locked_by":    nil,
			"last_error":   nil,
		}).Error
}

func markLedgerPublishFailed(ctx context.Context, db *gorm.DB, recordID int, err error) {
	msg := err.Error()
	// Releasing the lock makes the row eligible again after the poll interval.
	_ = db.WithContext(ctx).Model(&models.LedgerEventRecord{}).
		Where("id = ?", recordID).
		Updates(map[string]interface{}{
			"locked_at":  nil,
			"locked_by":  nil,
			"last_error": &msg,
		}).Error
}
