package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/Werneck0live/crm-patrocinio/internal/models"
	"github.com/Werneck0live/crm-patrocinio/internal/repository"
)

// AddRelation vincula uma empresa a um evento. O par (event_id, company_id) é
// único: conferido aqui contra o estado local e garantido pelo índice do backend.
func (s *Store) AddRelation(ctx context.Context, in models.Relation) (models.Relation, error) {
	in.ID = ""
	if in.Status == "" {
		in.Status = models.StatusContatoFeito
	}
	if err := s.check(in); err != nil {
		return models.Relation{}, err
	}
	if s.linked(in.EventID, in.CompanyID) {
		return models.Relation{}, ErrDuplicateRelation
	}

	now := s.now().UTC()
	in.CreatedAt = now
	in.UpdatedAt = now

	ep := s.currentEpoch()
	rows, err := s.gw.Relations.Insert(ctx, in)
	if errors.Is(err, repository.ErrDuplicate) {
		return models.Relation{}, fmt.Errorf("add relation: %w", ErrDuplicateRelation)
	}
	if err != nil {
		return models.Relation{}, fmt.Errorf("add relation (event %s, company %s): %w", in.EventID, in.CompanyID, err)
	}
	created := rows[0]
	s.commit(ep, func() { s.relations = upsert(s.relations, created) })
	return created, nil
}

func (s *Store) linked(eventID, companyID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.relations {
		if r.EventID == eventID && r.CompanyID == companyID {
			return true
		}
	}
	return false
}

// UpdateRelation sempre carimba updated_at, nunca antes do valor anterior
// conhecido (relógio local pode voltar).
func (s *Store) UpdateRelation(ctx context.Context, id string, p models.RelationPatch) (models.Relation, error) {
	if p.Status != nil && !p.Status.Valid() {
		return models.Relation{}, invalid(fmt.Sprintf("unknown status %q", *p.Status))
	}
	if (p.ValueExpected != nil && *p.ValueExpected < 0) || (p.ValueClosed != nil && *p.ValueClosed < 0) {
		return models.Relation{}, invalid("values must be >= 0")
	}
	if err := s.checkDates(p.NextActionDate); err != nil {
		return models.Relation{}, err
	}

	now := s.now().UTC()
	if prev, ok := s.Relation(id); ok && now.Before(prev.UpdatedAt) {
		now = prev.UpdatedAt
	}
	fields := p.Fields()
	fields["updated_at"] = now

	ep := s.currentEpoch()
	row, err := s.gw.Relations.Update(ctx, id, fields)
	if err != nil {
		return models.Relation{}, fmt.Errorf("update relation %s: %w", id, err)
	}
	s.commit(ep, func() { s.relations = upsert(s.relations, row) })
	return row, nil
}

func (s *Store) ArchiveRelation(ctx context.Context, id string) (models.Relation, error) {
	archived := true
	return s.UpdateRelation(ctx, id, models.RelationPatch{Archived: &archived})
}

func (s *Store) UnarchiveRelation(ctx context.Context, id string) (models.Relation, error) {
	archived := false
	return s.UpdateRelation(ctx, id, models.RelationPatch{Archived: &archived})
}

func (s *Store) DeleteRelation(ctx context.Context, id string) error {
	ep := s.currentEpoch()
	if _, err := s.gw.Relations.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete relation %s: %w", id, err)
	}
	s.commit(ep, func() { s.relations = remove(s.relations, id) })
	return nil
}
