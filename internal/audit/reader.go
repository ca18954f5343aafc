package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Werneck0live/crm-patrocinio/internal/models"
)

const DefaultLimit = 100

// ErrAuditUnavailable indica que a tabela de auditoria não existe no backend.
var ErrAuditUnavailable = errors.New("audit log is not available")

// Source é a leitura do log append-only, mais recentes primeiro.
type Source interface {
	Recent(ctx context.Context, limit int) ([]models.AuditLog, error)
}

type Kind string

const (
	KindEmpty     Kind = "empty"
	KindCreated   Kind = "created"
	KindDeleted   Kind = "deleted"
	KindChanged   Kind = "changed"
	KindNoChanges Kind = "no_changes"
)

type Field struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type Change struct {
	Key string `json:"key"`
	Old string `json:"old"`
	New string `json:"new"`
}

// Entry é um registro do log pronto para exibição.
type Entry struct {
	ID          string    `json:"id"`
	Action      string    `json:"action"`
	ActionLabel string    `json:"action_label"`
	Table       string    `json:"table"`
	TableLabel  string    `json:"table_label"`
	RecordID    string    `json:"record_id"`
	ShortID     string    `json:"short_id"`
	Actor       string    `json:"actor"`
	At          time.Time `json:"at"`
	When        string    `json:"when"`

	Kind    Kind     `json:"kind"`
	Fields  []Field  `json:"fields,omitempty"`
	Changes []Change `json:"changes,omitempty"`
	Summary string   `json:"summary,omitempty"`
}

type Reader struct {
	src   Source
	limit int
	f     *Formatter
}

func NewReader(src Source, limit int, f *Formatter) *Reader {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if f == nil {
		f = NewFormatter("pt-BR")
	}
	return &Reader{src: src, limit: limit, f: f}
}

// Recent busca os últimos registros. Uma busca por chamada, sem cache.
func (r *Reader) Recent(ctx context.Context) ([]Entry, error) {
	logs, err := r.src.Recent(ctx, r.limit)
	if err != nil {
		if missingTable(err) {
			return nil, fmt.Errorf("%w: %s", ErrAuditUnavailable, r.f.text(keyUnavailable))
		}
		return nil, fmt.Errorf("audit recent: %w", err)
	}
	out := make([]Entry, 0, len(logs))
	for _, l := range logs {
		out = append(out, r.Render(l))
	}
	return out, nil
}

// missingTable reconhece "tabela inexistente" do Postgres (42P01), do cache de
// schema e do Mongo (NamespaceNotFound).
func missingTable(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "42P01") ||
		strings.Contains(msg, "schema cache") ||
		strings.Contains(msg, "NamespaceNotFound") ||
		strings.Contains(msg, "ns not found")
}

func (r *Reader) Render(l models.AuditLog) Entry {
	e := Entry{
		ID:          l.ID,
		Action:      string(l.Action),
		ActionLabel: r.f.ActionLabel(l.Action),
		Table:       l.TableName,
		TableLabel:  r.f.TableLabel(l.TableName),
		RecordID:    l.RecordID,
		ShortID:     shortID(l.RecordID),
		Actor:       r.f.text(keySystem),
		At:          l.CreatedAt,
		When:        r.f.Timestamp(l.CreatedAt),
	}
	if l.UserID != "" {
		e.Actor = shortID(l.UserID)
	}

	d := Diff(l.OldData, l.NewData, r.f)
	e.Kind, e.Fields, e.Changes, e.Summary = d.Kind, d.Fields, d.Changes, d.Summary
	return e
}

func shortID(id string) string {
	head, _, _ := strings.Cut(id, "-")
	return head
}

type Detail struct {
	Kind    Kind
	Fields  []Field
	Changes []Change
	Summary string
}

var insertSkipped = map[string]bool{"id": true, "created_at": true, "updated_at": true, "user_id": true}

// Diff compara as imagens antes/depois. Sem before é INSERT, sem after é
// DELETE, com as duas é UPDATE. Chaves saem em ordem alfabética.
func Diff(before, after map[string]any, f *Formatter) Detail {
	switch {
	case before == nil && after == nil:
		return Detail{Kind: KindEmpty, Summary: f.text(keyNoDetails)}

	case before == nil:
		d := Detail{Kind: KindCreated}
		for _, k := range sortedKeys(after) {
			v := after[k]
			if insertSkipped[k] || strings.HasSuffix(k, "_id") || v == nil || v == "" {
				continue
			}
			d.Fields = append(d.Fields, Field{Key: k, Value: f.Value(k, v)})
		}
		return d

	case after == nil:
		label := ""
		for _, k := range []string{"name", "title"} {
			if s, ok := before[k].(string); ok && s != "" {
				label = s
				break
			}
		}
		if label == "" {
			label = f.text(keyRecordID, fmt.Sprint(before["id"]))
		}
		return Detail{Kind: KindDeleted, Summary: f.text(keyDeleted, label)}
	}

	keys := map[string]any{}
	for k := range before {
		keys[k] = nil
	}
	for k := range after {
		keys[k] = nil
	}
	d := Detail{Kind: KindChanged}
	for _, k := range sortedKeys(keys) {
		if k == "updated_at" {
			continue
		}
		was, now := before[k], after[k]
		if same(was, now) {
			continue
		}
		d.Changes = append(d.Changes, Change{Key: k, Old: f.Value(k, was), New: f.Value(k, now)})
	}
	if len(d.Changes) == 0 {
		return Detail{Kind: KindNoChanges, Summary: f.text(keyNoChanges)}
	}
	return d
}

// same compara pela serialização JSON (igualdade profunda).
func same(a, b any) bool {
	ra, errA := json.Marshal(a)
	rb, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return string(ra) == string(rb)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
