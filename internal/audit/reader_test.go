package audit

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Werneck0live/crm-patrocinio/internal/models"
)

type sourceMock struct {
	RecentFn func(ctx context.Context, limit int) ([]models.AuditLog, error)
}

func (m sourceMock) Recent(ctx context.Context, limit int) ([]models.AuditLog, error) {
	return m.RecentFn(ctx, limit)
}

func ptBR() *Formatter { return NewFormatter("pt-BR").WithLocation(time.UTC) }

func TestDiff_Insert(t *testing.T) {
	d := Diff(nil, map[string]any{
		"id":         "abc",
		"name":       "Acme",
		"segment":    "",
		"notes":      nil,
		"company_id": "c1",
		"created_at": "2024-01-01T00:00:00Z",
		"updated_at": "2024-01-01T00:00:00Z",
		"user_id":    "u1",
		"archived":   false,
	}, ptBR())

	if d.Kind != KindCreated {
		t.Fatalf("kind = %s", d.Kind)
	}
	want := []Field{{"archived", "Não"}, {"name", "Acme"}}
	if len(d.Fields) != len(want) {
		t.Fatalf("fields = %+v", d.Fields)
	}
	for i := range want {
		if d.Fields[i] != want[i] {
			t.Fatalf("field %d = %+v, want %+v", i, d.Fields[i], want[i])
		}
	}
}

func TestDiff_DeleteSummary(t *testing.T) {
	f := ptBR()
	cases := []struct {
		name string
		old  map[string]any
		want string
	}{
		{"name", map[string]any{"id": "x", "name": "Acme", "title": "T"}, "Acme excluído."},
		{"title", map[string]any{"id": "x", "title": "Contrato"}, "Contrato excluído."},
		{"id", map[string]any{"id": "x-1"}, "ID: x-1 excluído."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := Diff(tc.old, nil, f)
			if d.Kind != KindDeleted || d.Summary != tc.want {
				t.Fatalf("got %+v, want %q", d, tc.want)
			}
		})
	}
}

func TestDiff_Update(t *testing.T) {
	d := Diff(
		map[string]any{"status": "NEGOCIACAO", "value_closed": 0.0, "tags": []any{"a"}, "updated_at": "2024-01-01T00:00:00Z", "archived": false},
		map[string]any{"status": "FECHADO_PAGO", "value_closed": 1500.0, "tags": []any{"a"}, "updated_at": "2024-02-01T00:00:00Z", "archived": false, "notes": "ok"},
		ptBR(),
	)
	if d.Kind != KindChanged {
		t.Fatalf("kind = %s", d.Kind)
	}
	if len(d.Changes) != 3 {
		t.Fatalf("changes = %+v", d.Changes)
	}
	notes, status, value := d.Changes[0], d.Changes[1], d.Changes[2]
	if notes.Key != "notes" || notes.Old != "vazio" || notes.New != "ok" {
		t.Fatalf("notes = %+v", notes)
	}
	if status.Old != "NEGOCIACAO" || status.New != "FECHADO_PAGO" {
		t.Fatalf("status = %+v", status)
	}
	if value.Key != "value_closed" || !strings.HasPrefix(value.New, "R$ ") || !strings.Contains(value.New, "500") {
		t.Fatalf("value = %+v", value)
	}
}

func TestDiff_UpdateWithoutChanges(t *testing.T) {
	d := Diff(
		map[string]any{"name": "Acme", "updated_at": "2024-01-01T00:00:00Z"},
		map[string]any{"name": "Acme", "updated_at": "2024-03-01T00:00:00Z"},
		ptBR(),
	)
	if d.Kind != KindNoChanges || d.Summary == "" || len(d.Changes) != 0 {
		t.Fatalf("got %+v", d)
	}
}

func TestDiff_NoImages(t *testing.T) {
	if d := Diff(nil, nil, ptBR()); d.Kind != KindEmpty {
		t.Fatalf("got %+v", d)
	}
}

func TestFormatter_Value(t *testing.T) {
	f := ptBR()
	cases := []struct {
		key  string
		v    any
		want string
	}{
		{"archived", true, "Sim"},
		{"archived", false, "Não"},
		{"notes", nil, "vazio"},
		{"notes", "", "vazio"},
		{"next_action_date", "2024-03-15", "15/03/2024"},
		{"created_at", "2024-03-15T22:30:00Z", "15/03/2024"},
		{"name", "Acme", "Acme"},
		{"tags", []any{"tech", "saas"}, "[tech,saas]"},
	}
	for _, tc := range cases {
		if got := f.Value(tc.key, tc.v); got != tc.want {
			t.Fatalf("Value(%s, %v) = %q, want %q", tc.key, tc.v, got, tc.want)
		}
	}
}

func TestFormatter_English(t *testing.T) {
	f := NewFormatter("en").WithLocation(time.UTC)
	if got := f.Value("archived", true); got != "Yes" {
		t.Fatalf("got %q", got)
	}
	if got := f.Value("start_date", "2024-03-15"); got != "03/15/2024" {
		t.Fatalf("got %q", got)
	}
	if got := f.Money(10); !strings.HasPrefix(got, "$ ") {
		t.Fatalf("got %q", got)
	}
}

func TestReader_Recent(t *testing.T) {
	at := time.Date(2024, 3, 15, 14, 5, 0, 0, time.UTC)
	var gotLimit int
	src := sourceMock{RecentFn: func(_ context.Context, limit int) ([]models.AuditLog, error) {
		gotLimit = limit
		return []models.AuditLog{
			{ID: "l1", TableName: models.TableCompanies, RecordID: "0b9f-4c2a", Action: models.ActionDelete,
				OldData: map[string]any{"id": "0b9f-4c2a", "name": "Acme"}, UserID: "7d1e-aa", CreatedAt: at},
			{ID: "l2", TableName: models.TableRelations, RecordID: "r1", Action: models.ActionInsert,
				NewData: map[string]any{"status": "NEGOCIACAO"}, CreatedAt: at},
		}, nil
	}}

	entries, err := NewReader(src, 0, ptBR()).Recent(context.Background())
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if gotLimit != DefaultLimit {
		t.Fatalf("limit = %d", gotLimit)
	}
	first := entries[0]
	if first.ActionLabel != "EXCLUÍDO" || first.TableLabel != "Empresa" || first.ShortID != "0b9f" || first.Actor != "7d1e" {
		t.Fatalf("first = %+v", first)
	}
	if first.When != "15/03/2024 às 14:05" || first.Summary != "Acme excluído." {
		t.Fatalf("first = %+v", first)
	}
	if second := entries[1]; second.Actor != "Sistema" || second.TableLabel != "Negociação" || len(second.Fields) != 1 {
		t.Fatalf("second = %+v", second)
	}
}

func TestReader_Errors(t *testing.T) {
	missing := sourceMock{RecentFn: func(context.Context, int) ([]models.AuditLog, error) {
		return nil, errors.New(`relation "audit_logs" does not exist (SQLSTATE 42P01)`)
	}}
	if _, err := NewReader(missing, 10, ptBR()).Recent(context.Background()); !errors.Is(err, ErrAuditUnavailable) {
		t.Fatalf("want ErrAuditUnavailable, got %v", err)
	}

	boom := errors.New("timeout")
	other := sourceMock{RecentFn: func(context.Context, int) ([]models.AuditLog, error) { return nil, boom }}
	_, err := NewReader(other, 10, ptBR()).Recent(context.Background())
	if !errors.Is(err, boom) || errors.Is(err, ErrAuditUnavailable) {
		t.Fatalf("got %v", err)
	}
}
