package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Werneck0live/crm-patrocinio/internal/models"
)

func (s *Store) AddContact(ctx context.Context, in models.Contact) (models.Contact, error) {
	in.ID = ""
	in.Name = strings.TrimSpace(in.Name)
	if err := s.check(in); err != nil {
		return models.Contact{}, err
	}
	ep := s.currentEpoch()
	rows, err := s.gw.Contacts.Insert(ctx, in)
	if err != nil {
		return models.Contact{}, fmt.Errorf("add contact: %w", err)
	}
	created := rows[0]
	s.commit(ep, func() { s.contacts = upsert(s.contacts, created) })
	s.refreshQuietly(ctx, created.CompanyID)
	return created, nil
}

// UpdateContact confere a existência antes de escrever; id inexistente é
// ErrNotFound sem nenhuma escrita. companyID vazio pula o refresh.
func (s *Store) UpdateContact(ctx context.Context, id string, p models.ContactPatch, companyID string) (models.Contact, error) {
	if blank(p.Name) {
		return models.Contact{}, invalid("name is required")
	}
	if p.Email != nil && *p.Email != "" {
		if err := s.validate.Var(*p.Email, "email"); err != nil {
			return models.Contact{}, invalid("email must be a valid email address")
		}
	}
	if _, err := s.gw.Contacts.Get(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return models.Contact{}, fmt.Errorf("update contact %s: %w", id, ErrNotFound)
		}
		return models.Contact{}, fmt.Errorf("update contact %s: %w", id, err)
	}

	ep := s.currentEpoch()
	row, err := s.gw.Contacts.Update(ctx, id, p.Fields())
	if err != nil {
		return models.Contact{}, fmt.Errorf("update contact %s: %w", id, err)
	}
	s.commit(ep, func() { s.contacts = upsert(s.contacts, row) })
	if companyID != "" {
		s.refreshQuietly(ctx, companyID)
	}
	return row, nil
}

func (s *Store) DeleteContact(ctx context.Context, id, companyID string) error {
	ep := s.currentEpoch()
	if _, err := s.gw.Contacts.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete contact %s: %w", id, err)
	}
	s.commit(ep, func() { s.contacts = remove(s.contacts, id) })
	if companyID != "" {
		s.refreshQuietly(ctx, companyID)
	}
	return nil
}

// RefreshCompanyContacts relê os contatos da empresa e substitui os que o store
// conhece para ela. Em erro o estado fica como estava.
func (s *Store) RefreshCompanyContacts(ctx context.Context, companyID string) error {
	ep := s.currentEpoch()
	fresh, err := s.gw.Contacts.ListBy(ctx, "company_id", companyID)
	if err != nil {
		return fmt.Errorf("refresh contacts of %s: %w", companyID, err)
	}
	s.commit(ep, func() {
		s.contacts = slices.DeleteFunc(s.contacts, func(c models.Contact) bool {
			return c.CompanyID == companyID
		})
		for _, c := range fresh {
			if c.CompanyID == companyID {
				s.contacts = upsert(s.contacts, c)
			}
		}
	})
	return nil
}

func (s *Store) refreshQuietly(ctx context.Context, companyID string) {
	if err := s.RefreshCompanyContacts(ctx, companyID); err != nil {
		s.log.Warn("company_contacts_refresh_failed", "company_id", companyID, "err", err)
	}
}
