package models

import (
	"context"
	"encoding/json"
	"time"

	"bitbucket.org/montealto-academy/academy_backend/utils"
	"gorm.io/gorm"
)

// LedgerEventRecord is the transactional outbox row written beside every
// financial write. The dispatcher publishes unprocessed rows after commit;
// nothing in the request path talks to Pub/Sub directly.
type LedgerEventRecord struct {
	ID            int                 `gorm:"primary_key" json:"id"`
	ReferenceType LedgerReferenceType `gorm:"size:30;not null;index" json:"reference_type"`
	ReferenceId   int                 `gorm:"not null;index" json:"reference_id"`
	Action        LedgerEventAction   `gorm:"size:10;not null" json:"action"`
	Payload       []byte              `gorm:"type:json" json:"payload"`
	CorrelationId string              `gorm:"size:64" json:"correlation_id"`
	IsProcessed   bool                `gorm:"not null;default:false;index" json:"is_processed"`
	ProcessedAt   *time.Time          `json:"processed_at"`
	LockedAt      *time.Time          `json:"locked_at"`
	LockedBy      *string             `gorm:"size:64" json:"locked_by"`
	LastError     *string             `gorm:"type:text" json:"last_error"`
	CreatedAt     time.Time           `gorm:"autoCreateTime" json:"created_at"`
}

// RecordLedgerEvent writes the event inside the caller's transaction so the
// event exists exactly when the financial row does.
func RecordLedgerEvent(ctx context.Context, tx *gorm.DB, refType LedgerReferenceType, refId int, action LedgerEventAction, obj interface{}) error {
	payload, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	record := LedgerEventRecord{
		ReferenceType: refType,
		ReferenceId:   refId,
		Action:        action,
		Payload:       payload,
		CorrelationId: utils.CorrelationIdFromContextOrNew(ctx),
		IsProcessed:   false,
	}
	return tx.Create(&record).Error
}
