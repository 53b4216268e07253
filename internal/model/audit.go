package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionRebuildSnapshot  = "REBUILD_SNAPSHOT"
	ActionRecordItemChange = "RECORD_ITEM_CHANGE"
	ActionIngestAlerts     = "INGEST_ALERTS"
	ActionCreateUser       = "CREATE_USER"
)

// AuditLog tracks Who, What, and When for state-changing operations
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // NULL for batch/CLI runs
	User       *User      `gorm:"foreignKey:UserID" json:"user"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(64);index" json:"entity_id"`        // run id, item id, batch tag
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"` // human readable label
	Details    string     `gorm:"type:jsonb" json:"details"`                      // serialized parameters of the action
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
