package models

import "encoding/json"

// Nomes das tabelas no backend.
const (
	TableEvents    = "events"
	TableCompanies = "companies"
	TableContacts  = "contacts"
	TableRelations = "event_companies"
	TableAudit     = "audit_logs"
)

// Tables lista as quatro tabelas sincronizadas pelo store.
var Tables = []string{TableEvents, TableCompanies, TableRelations, TableContacts}

// ChangeEvent é a notificação do change feed. Em INSERT/UPDATE New carrega o
// registro completo; em DELETE apenas Old vem preenchido.
type ChangeEvent struct {
	Table     string          `json:"table"`
	EventType AuditAction     `json:"eventType"`
	New       json.RawMessage `json:"new,omitempty"`
	Old       json.RawMessage `json:"old,omitempty"`
}

// Fields são colunas -> valores de um update parcial ($set).
type Fields map[string]any

// Record é qualquer linha identificada por id (chave de identidade do feed).
type Record interface {
	RecordID() string
}
