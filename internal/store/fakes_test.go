package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/Werneck0live/crm-patrocinio/internal/models"
	"github.com/Werneck0live/crm-patrocinio/internal/repository"
)

// memTable é um gateway em memória; cada linha passa por JSON para imitar o
// round trip do backend.
type memTable[T models.Record] struct {
	mu     sync.Mutex
	prefix string
	seq    int
	rows   []T

	listDelay time.Duration
	listErr   error
	insertErr error
	writes    int
	inserted  int
}

func newMemTable[T models.Record](prefix string, seed ...T) *memTable[T] {
	return &memTable[T]{prefix: prefix, rows: seed}
}

func (m *memTable[T]) List(ctx context.Context) ([]T, error) {
	m.mu.Lock()
	delay := m.listDelay
	m.mu.Unlock()
	if delay > 0 {
		time.Sleep(delay)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]T{}, m.rows...), nil
}

func (m *memTable[T]) ListBy(ctx context.Context, field, value string) ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []T{}
	for _, r := range m.rows {
		if fmt.Sprint(toMap(r)[field]) == value {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memTable[T]) Get(ctx context.Context, id string) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.RecordID() == id {
			return r, nil
		}
	}
	var zero T
	return zero, repository.ErrNotFound
}

func (m *memTable[T]) Insert(ctx context.Context, rows ...T) ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return nil, m.insertErr
	}
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		doc := toMap(r)
		if doc["id"] == "" || doc["id"] == nil {
			m.seq++
			doc["id"] = fmt.Sprintf("%s-%d", m.prefix, m.seq)
		}
		if doc["created_at"] == "0001-01-01T00:00:00Z" {
			doc["created_at"] = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		}
		row := fromMap[T](doc)
		m.rows = append(m.rows, row)
		out = append(out, row)
	}
	m.writes++
	m.inserted += len(out)
	return out, nil
}

func (m *memTable[T]) Update(ctx context.Context, id string, fields models.Fields) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.rows {
		if r.RecordID() != id {
			continue
		}
		doc := toMap(r)
		for k, v := range fields {
			doc[k] = v
		}
		m.rows[i] = fromMap[T](doc)
		m.writes++
		return m.rows[i], nil
	}
	var zero T
	return zero, repository.ErrNotFound
}

func (m *memTable[T]) Delete(ctx context.Context, id string) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.rows {
		if r.RecordID() == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			m.writes++
			return r, nil
		}
	}
	var zero T
	return zero, repository.ErrNotFound
}

func (m *memTable[T]) setListDelay(d time.Duration) {
	m.mu.Lock()
	m.listDelay = d
	m.mu.Unlock()
}

func (m *memTable[T]) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

func (m *memTable[T]) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func toMap(v any) map[string]any {
	raw, _ := json.Marshal(v)
	m := map[string]any{}
	_ = json.Unmarshal(raw, &m)
	return m
}

func fromMap[T any](m map[string]any) T {
	var row T
	raw, _ := json.Marshal(m)
	_ = json.Unmarshal(raw, &row)
	return row
}

type fakeFeed struct {
	mu     sync.Mutex
	subs   map[string][]func(models.ChangeEvent)
	closed int
	err    error
}

func newFakeFeed() *fakeFeed {
	return &fakeFeed{subs: map[string][]func(models.ChangeEvent){}}
}

func (f *fakeFeed) Subscribe(ctx context.Context, table string, fn func(models.ChangeEvent)) (func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.subs[table] = append(f.subs[table], fn)
	return func() {
		f.mu.Lock()
		f.closed++
		f.mu.Unlock()
	}, nil
}

func (f *fakeFeed) emit(ev models.ChangeEvent) {
	f.mu.Lock()
	subs := append([]func(models.ChangeEvent){}, f.subs[ev.Table]...)
	f.mu.Unlock()
	for _, fn := range subs {
		fn(ev)
	}
}

func change(table string, action models.AuditAction, newRow, oldRow any) models.ChangeEvent {
	ev := models.ChangeEvent{Table: table, EventType: action}
	if newRow != nil {
		ev.New, _ = json.Marshal(newRow)
	}
	if oldRow != nil {
		ev.Old, _ = json.Marshal(oldRow)
	}
	return ev
}

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

type fixture struct {
	events    *memTable[models.Event]
	companies *memTable[models.Company]
	contacts  *memTable[models.Contact]
	relations *memTable[models.Relation]
	feed      *fakeFeed
	clock     *clock
	store     *Store
}

func newFixture(opts ...Option) *fixture {
	f := &fixture{
		events:    newMemTable[models.Event]("ev"),
		companies: newMemTable[models.Company]("co"),
		contacts:  newMemTable[models.Contact]("ct"),
		relations: newMemTable[models.Relation]("rel"),
		feed:      newFakeFeed(),
		clock:     &clock{t: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
	}
	base := []Option{
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithClock(f.clock.Now),
		WithLoadTimeout(time.Second),
	}
	f.store = New(Gateway{
		Events:    f.events,
		Companies: f.companies,
		Contacts:  f.contacts,
		Relations: f.relations,
		Feed:      f.feed,
	}, append(base, opts...)...)
	return f
}
