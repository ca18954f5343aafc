package store

import (
	"context"
	"fmt"

	"github.com/Werneck0live/crm-patrocinio/internal/models"
)

func (s *Store) AddEvent(ctx context.Context, in models.Event) (models.Event, error) {
	in.ID = ""
	if err := s.check(in); err != nil {
		return models.Event{}, err
	}
	ep := s.currentEpoch()
	rows, err := s.gw.Events.Insert(ctx, in)
	if err != nil {
		return models.Event{}, fmt.Errorf("add event: %w", err)
	}
	created := rows[0]
	s.commit(ep, func() { s.events = upsert(s.events, created) })
	return created, nil
}

func (s *Store) UpdateEvent(ctx context.Context, id string, p models.EventPatch) (models.Event, error) {
	if blank(p.Name) {
		return models.Event{}, invalid("name is required")
	}
	if err := s.checkDates(p.StartDate, p.EndDate); err != nil {
		return models.Event{}, err
	}
	ep := s.currentEpoch()
	row, err := s.gw.Events.Update(ctx, id, p.Fields())
	if err != nil {
		return models.Event{}, fmt.Errorf("update event %s: %w", id, err)
	}
	s.commit(ep, func() { s.events = upsert(s.events, row) })
	return row, nil
}

func (s *Store) ArchiveEvent(ctx context.Context, id string) (models.Event, error) {
	archived := true
	return s.UpdateEvent(ctx, id, models.EventPatch{Archived: &archived})
}

func (s *Store) UnarchiveEvent(ctx context.Context, id string) (models.Event, error) {
	archived := false
	return s.UpdateEvent(ctx, id, models.EventPatch{Archived: &archived})
}

// DeleteEvent apaga o evento e, em seguida, as negociações dele. A limpeza é
// best-effort: falhas ficam no log e não desfazem o delete principal.
func (s *Store) DeleteEvent(ctx context.Context, id string) error {
	ep := s.currentEpoch()
	if _, err := s.gw.Events.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete event %s: %w", id, err)
	}
	s.commit(ep, func() { s.events = remove(s.events, id) })
	s.cascadeRelations(ctx, ep, "event_id", id)
	return nil
}

func (s *Store) checkDates(dates ...*string) error {
	for _, d := range dates {
		if d == nil || *d == "" {
			continue
		}
		if err := s.validate.Var(*d, "datetime=2006-01-02"); err != nil {
			return invalid(fmt.Sprintf("%q must be a YYYY-MM-DD date", *d))
		}
	}
	return nil
}

// cascadeRelations remove do backend e do estado local as negociações ligadas
// a um evento ou empresa recém-apagados.
func (s *Store) cascadeRelations(ctx context.Context, ep uint64, field, id string) {
	rels, err := s.gw.Relations.ListBy(ctx, field, id)
	if err != nil {
		s.log.Warn("cascade_relations_list_failed", "field", field, "id", id, "err", err)
		return
	}
	for _, r := range rels {
		if _, err := s.gw.Relations.Delete(ctx, r.ID); err != nil {
			s.log.Warn("cascade_relation_delete_failed", "relation_id", r.ID, "err", err)
			continue
		}
		rid := r.ID
		s.commit(ep, func() { s.relations = remove(s.relations, rid) })
	}
}
