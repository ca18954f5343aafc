package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/Werneck0live/crm-patrocinio/internal/models"
)

// AddCompany grava a empresa e depois, em lote, os contatos com nome. Falha
// nessa segunda etapa não desfaz a empresa: é logada e a empresa volta sem os
// contatos.
func (s *Store) AddCompany(ctx context.Context, in models.Company) (models.Company, error) {
	inline := in.Contacts
	in.ID = ""
	in.Contacts = nil
	if err := s.check(in); err != nil {
		return models.Company{}, err
	}

	ep := s.currentEpoch()
	rows, err := s.gw.Companies.Insert(ctx, in)
	if err != nil {
		return models.Company{}, fmt.Errorf("add company: %w", err)
	}
	created := rows[0]
	s.commit(ep, func() { s.companies = upsert(s.companies, created) })

	contacts := make([]models.Contact, 0, len(inline))
	for _, c := range inline {
		if strings.TrimSpace(c.Name) == "" {
			continue
		}
		c.ID = ""
		c.CompanyID = created.ID
		contacts = append(contacts, c)
	}

	created.Contacts = []models.Contact{}
	if len(contacts) == 0 {
		return created, nil
	}
	inserted, err := s.gw.Contacts.Insert(ctx, contacts...)
	if err != nil {
		s.log.Warn("company_contacts_insert_failed", "company_id", created.ID, "contacts", len(contacts), "err", err)
		return created, nil
	}
	s.commit(ep, func() {
		for _, c := range inserted {
			s.contacts = upsert(s.contacts, c)
		}
	})
	created.Contacts = inserted
	return created, nil
}

func (s *Store) UpdateCompany(ctx context.Context, id string, p models.CompanyPatch) (models.Company, error) {
	if blank(p.Name) {
		return models.Company{}, invalid("name is required")
	}
	ep := s.currentEpoch()
	row, err := s.gw.Companies.Update(ctx, id, p.Fields())
	if err != nil {
		return models.Company{}, fmt.Errorf("update company %s: %w", id, err)
	}
	s.commit(ep, func() { s.companies = upsert(s.companies, row) })
	if c, ok := s.Company(id); ok {
		return c, nil
	}
	row.Contacts = []models.Contact{}
	return row, nil
}

func (s *Store) ArchiveCompany(ctx context.Context, id string) (models.Company, error) {
	archived := true
	return s.UpdateCompany(ctx, id, models.CompanyPatch{Archived: &archived})
}

func (s *Store) UnarchiveCompany(ctx context.Context, id string) (models.Company, error) {
	archived := false
	return s.UpdateCompany(ctx, id, models.CompanyPatch{Archived: &archived})
}

// DeleteCompany é hard delete; negociações e contatos da empresa são removidos
// em seguida (best-effort).
func (s *Store) DeleteCompany(ctx context.Context, id string) error {
	ep := s.currentEpoch()
	if _, err := s.gw.Companies.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete company %s: %w", id, err)
	}
	s.commit(ep, func() { s.companies = remove(s.companies, id) })
	s.cascadeRelations(ctx, ep, "company_id", id)

	contacts, err := s.gw.Contacts.ListBy(ctx, "company_id", id)
	if err != nil {
		s.log.Warn("cascade_contacts_list_failed", "company_id", id, "err", err)
		return nil
	}
	for _, c := range contacts {
		if _, err := s.gw.Contacts.Delete(ctx, c.ID); err != nil {
			s.log.Warn("cascade_contact_delete_failed", "contact_id", c.ID, "err", err)
			continue
		}
		cid := c.ID
		s.commit(ep, func() { s.contacts = remove(s.contacts, cid) })
	}
	return nil
}

// LinkNewCompany cria uma empresa e já a vincula ao evento. Nome vazio é
// rejeitado antes de qualquer chamada ao backend.
func (s *Store) LinkNewCompany(ctx context.Context, eventID string, company models.Company, rel models.Relation) (models.Company, models.Relation, error) {
	if strings.TrimSpace(company.Name) == "" {
		return models.Company{}, models.Relation{}, invalid("company name is required")
	}
	if strings.TrimSpace(eventID) == "" {
		return models.Company{}, models.Relation{}, invalid("event_id is required")
	}
	created, err := s.AddCompany(ctx, company)
	if err != nil {
		return models.Company{}, models.Relation{}, err
	}
	rel.EventID = eventID
	rel.CompanyID = created.ID
	r, err := s.AddRelation(ctx, rel)
	if err != nil {
		return created, models.Relation{}, err
	}
	return created, r, nil
}
