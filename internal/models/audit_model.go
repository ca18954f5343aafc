package models

import "time"

type AuditAction string

const (
	ActionInsert AuditAction = "INSERT"
	ActionUpdate AuditAction = "UPDATE"
	ActionDelete AuditAction = "DELETE"
)

// AuditLog é um registro do log append-only. OldData/NewData são as imagens
// antes/depois em formato JSON (nil quando ausentes).
type AuditLog struct {
	ID        string         `bson:"_id,omitempty" json:"id"`
	TableName string         `bson:"table_name" json:"table_name"`
	RecordID  string         `bson:"record_id" json:"record_id"`
	Action    AuditAction    `bson:"action" json:"action"`
	OldData   map[string]any `bson:"old_data" json:"old_data"`
	NewData   map[string]any `bson:"new_data" json:"new_data"`
	UserID    string         `bson:"user_id,omitempty" json:"user_id"`
	CreatedAt time.Time      `bson:"created_at" json:"created_at"`
}
