package handlers

import (
	"context"
	"errors"

	"github.com/Werneck0live/crm-patrocinio/internal/audit"
	"github.com/Werneck0live/crm-patrocinio/internal/models"
	"github.com/Werneck0live/crm-patrocinio/internal/session"
	"github.com/Werneck0live/crm-patrocinio/internal/store"
)

// storeMock: leituras devolvem Snap; escritas sem Fn configurada falham.
type storeMock struct {
	Snap    store.Snapshot
	LoadErr error

	ReloadFn                 func(ctx context.Context) error
	AddEventFn               func(ctx context.Context, in models.Event) (models.Event, error)
	UpdateEventFn            func(ctx context.Context, id string, p models.EventPatch) (models.Event, error)
	ArchiveEventFn           func(ctx context.Context, id string) (models.Event, error)
	UnarchiveEventFn         func(ctx context.Context, id string) (models.Event, error)
	DeleteEventFn            func(ctx context.Context, id string) error
	AddCompanyFn             func(ctx context.Context, in models.Company) (models.Company, error)
	UpdateCompanyFn          func(ctx context.Context, id string, p models.CompanyPatch) (models.Company, error)
	ArchiveCompanyFn         func(ctx context.Context, id string) (models.Company, error)
	UnarchiveCompanyFn       func(ctx context.Context, id string) (models.Company, error)
	DeleteCompanyFn          func(ctx context.Context, id string) error
	RefreshCompanyContactsFn func(ctx context.Context, companyID string) error
	LinkNewCompanyFn         func(ctx context.Context, eventID string, c models.Company, r models.Relation) (models.Company, models.Relation, error)
	AddContactFn             func(ctx context.Context, in models.Contact) (models.Contact, error)
	UpdateContactFn          func(ctx context.Context, id string, p models.ContactPatch, companyID string) (models.Contact, error)
	DeleteContactFn          func(ctx context.Context, id, companyID string) error
	AddRelationFn            func(ctx context.Context, in models.Relation) (models.Relation, error)
	UpdateRelationFn         func(ctx context.Context, id string, p models.RelationPatch) (models.Relation, error)
	ArchiveRelationFn        func(ctx context.Context, id string) (models.Relation, error)
	UnarchiveRelationFn      func(ctx context.Context, id string) (models.Relation, error)
	DeleteRelationFn         func(ctx context.Context, id string) error
}

func (m *storeMock) Snapshot() store.Snapshot { return m.Snap }

func (m *storeMock) Status() store.Status {
	return store.Status{Loading: m.Snap.Loading, Err: m.LoadErr}
}

func (m *storeMock) Event(id string) (models.Event, bool) {
	for _, e := range m.Snap.Events {
		if e.ID == id {
			return e, true
		}
	}
	return models.Event{}, false
}

func (m *storeMock) Company(id string) (models.Company, bool) {
	for _, c := range m.Snap.Companies {
		if c.ID == id {
			return c, true
		}
	}
	return models.Company{}, false
}

func (m *storeMock) Reload(ctx context.Context) error {
	if m.ReloadFn == nil {
		return errors.New("ReloadFn not set")
	}
	return m.ReloadFn(ctx)
}

func (m *storeMock) AddEvent(ctx context.Context, in models.Event) (models.Event, error) {
	if m.AddEventFn == nil {
		return models.Event{}, errors.New("AddEventFn not set")
	}
	return m.AddEventFn(ctx, in)
}

func (m *storeMock) UpdateEvent(ctx context.Context, id string, p models.EventPatch) (models.Event, error) {
	if m.UpdateEventFn == nil {
		return models.Event{}, errors.New("UpdateEventFn not set")
	}
	return m.UpdateEventFn(ctx, id, p)
}

func (m *storeMock) ArchiveEvent(ctx context.Context, id string) (models.Event, error) {
	if m.ArchiveEventFn == nil {
		return models.Event{}, errors.New("ArchiveEventFn not set")
	}
	return m.ArchiveEventFn(ctx, id)
}

func (m *storeMock) UnarchiveEvent(ctx context.Context, id string) (models.Event, error) {
	if m.UnarchiveEventFn == nil {
		return models.Event{}, errors.New("UnarchiveEventFn not set")
	}
	return m.UnarchiveEventFn(ctx, id)
}

func (m *storeMock) DeleteEvent(ctx context.Context, id string) error {
	if m.DeleteEventFn == nil {
		return errors.New("DeleteEventFn not set")
	}
	return m.DeleteEventFn(ctx, id)
}

func (m *storeMock) AddCompany(ctx context.Context, in models.Company) (models.Company, error) {
	if m.AddCompanyFn == nil {
		return models.Company{}, errors.New("AddCompanyFn not set")
	}
	return m.AddCompanyFn(ctx, in)
}

func (m *storeMock) UpdateCompany(ctx context.Context, id string, p models.CompanyPatch) (models.Company, error) {
	if m.UpdateCompanyFn == nil {
		return models.Company{}, errors.New("UpdateCompanyFn not set")
	}
	return m.UpdateCompanyFn(ctx, id, p)
}

func (m *storeMock) ArchiveCompany(ctx context.Context, id string) (models.Company, error) {
	if m.ArchiveCompanyFn == nil {
		return models.Company{}, errors.New("ArchiveCompanyFn not set")
	}
	return m.ArchiveCompanyFn(ctx, id)
}

func (m *storeMock) UnarchiveCompany(ctx context.Context, id string) (models.Company, error) {
	if m.UnarchiveCompanyFn == nil {
		return models.Company{}, errors.New("UnarchiveCompanyFn not set")
	}
	return m.UnarchiveCompanyFn(ctx, id)
}

func (m *storeMock) DeleteCompany(ctx context.Context, id string) error {
	if m.DeleteCompanyFn == nil {
		return errors.New("DeleteCompanyFn not set")
	}
	return m.DeleteCompanyFn(ctx, id)
}

func (m *storeMock) RefreshCompanyContacts(ctx context.Context, companyID string) error {
	if m.RefreshCompanyContactsFn == nil {
		return errors.New("RefreshCompanyContactsFn not set")
	}
	return m.RefreshCompanyContactsFn(ctx, companyID)
}

func (m *storeMock) LinkNewCompany(ctx context.Context, eventID string, c models.Company, r models.Relation) (models.Company, models.Relation, error) {
	if m.LinkNewCompanyFn == nil {
		return models.Company{}, models.Relation{}, errors.New("LinkNewCompanyFn not set")
	}
	return m.LinkNewCompanyFn(ctx, eventID, c, r)
}

func (m *storeMock) AddContact(ctx context.Context, in models.Contact) (models.Contact, error) {
	if m.AddContactFn == nil {
		return models.Contact{}, errors.New("AddContactFn not set")
	}
	return m.AddContactFn(ctx, in)
}

func (m *storeMock) UpdateContact(ctx context.Context, id string, p models.ContactPatch, companyID string) (models.Contact, error) {
	if m.UpdateContactFn == nil {
		return models.Contact{}, errors.New("UpdateContactFn not set")
	}
	return m.UpdateContactFn(ctx, id, p, companyID)
}

func (m *storeMock) DeleteContact(ctx context.Context, id, companyID string) error {
	if m.DeleteContactFn == nil {
		return errors.New("DeleteContactFn not set")
	}
	return m.DeleteContactFn(ctx, id, companyID)
}

func (m *storeMock) AddRelation(ctx context.Context, in models.Relation) (models.Relation, error) {
	if m.AddRelationFn == nil {
		return models.Relation{}, errors.New("AddRelationFn not set")
	}
	return m.AddRelationFn(ctx, in)
}

func (m *storeMock) UpdateRelation(ctx context.Context, id string, p models.RelationPatch) (models.Relation, error) {
	if m.UpdateRelationFn == nil {
		return models.Relation{}, errors.New("UpdateRelationFn not set")
	}
	return m.UpdateRelationFn(ctx, id, p)
}

func (m *storeMock) ArchiveRelation(ctx context.Context, id string) (models.Relation, error) {
	if m.ArchiveRelationFn == nil {
		return models.Relation{}, errors.New("ArchiveRelationFn not set")
	}
	return m.ArchiveRelationFn(ctx, id)
}

func (m *storeMock) UnarchiveRelation(ctx context.Context, id string) (models.Relation, error) {
	if m.UnarchiveRelationFn == nil {
		return models.Relation{}, errors.New("UnarchiveRelationFn not set")
	}
	return m.UnarchiveRelationFn(ctx, id)
}

func (m *storeMock) DeleteRelation(ctx context.Context, id string) error {
	if m.DeleteRelationFn == nil {
		return errors.New("DeleteRelationFn not set")
	}
	return m.DeleteRelationFn(ctx, id)
}

type guardMock struct {
	St        session.State
	RetryFn   func(ctx context.Context) session.State
	SignOutFn func(ctx context.Context) error
}

func (g *guardMock) State() session.State { return g.St }

func (g *guardMock) Retry(ctx context.Context) session.State {
	if g.RetryFn == nil {
		return g.St
	}
	return g.RetryFn(ctx)
}

func (g *guardMock) SignOut(ctx context.Context) error {
	if g.SignOutFn == nil {
		return errors.New("SignOutFn not set")
	}
	return g.SignOutFn(ctx)
}

type authMock struct {
	SignInFn func(ctx context.Context, token string) (*session.Session, error)
	ParseFn  func(token string) (*session.Session, error)
}

func (a *authMock) SignIn(ctx context.Context, token string) (*session.Session, error) {
	if a.SignInFn == nil {
		return nil, errors.New("SignInFn not set")
	}
	return a.SignInFn(ctx, token)
}

func (a *authMock) Parse(token string) (*session.Session, error) {
	if a.ParseFn == nil {
		return nil, errors.New("ParseFn not set")
	}
	return a.ParseFn(token)
}

type auditMock struct {
	RecentFn func(ctx context.Context) ([]audit.Entry, error)
}

func (a *auditMock) Recent(ctx context.Context) ([]audit.Entry, error) {
	if a.RecentFn == nil {
		return nil, errors.New("RecentFn not set")
	}
	return a.RecentFn(ctx)
}
