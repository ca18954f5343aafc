package handlers

import "github.com/Werneck0live/crm-patrocinio/internal/models"

// somente os campos do contrato; id, created_at e archived são do servidor

type EventCreateDTO struct {
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	City      string `json:"city"`
	Venue     string `json:"venue"`
	Notes     string `json:"notes"`
}

func (d EventCreateDTO) model() models.Event {
	return models.Event{
		Name:      d.Name,
		StartDate: d.StartDate,
		EndDate:   d.EndDate,
		City:      d.City,
		Venue:     d.Venue,
		Notes:     d.Notes,
	}
}

type ContactDTO struct {
	CompanyID string `json:"company_id,omitempty"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Whatsapp  string `json:"whatsapp"`
	Role      string `json:"role"`
}

func (d ContactDTO) model() models.Contact {
	return models.Contact{
		CompanyID: d.CompanyID,
		Name:      d.Name,
		Email:     d.Email,
		Whatsapp:  d.Whatsapp,
		Role:      d.Role,
	}
}

type CompanyCreateDTO struct {
	Name     string       `json:"name"`
	Segment  string       `json:"segment"`
	Notes    string       `json:"notes"`
	Tags     []string     `json:"tags"`
	Contacts []ContactDTO `json:"contacts"`
}

func (d CompanyCreateDTO) model() models.Company {
	c := models.Company{Name: d.Name, Segment: d.Segment, Notes: d.Notes, Tags: d.Tags}
	for _, ct := range d.Contacts {
		c.Contacts = append(c.Contacts, ct.model())
	}
	return c
}

type RelationCreateDTO struct {
	EventID        string        `json:"event_id"`
	CompanyID      string        `json:"company_id"`
	Status         models.Status `json:"status"`
	ValueExpected  float64       `json:"value_expected"`
	ValueClosed    float64       `json:"value_closed"`
	NextAction     string        `json:"next_action"`
	NextActionDate string        `json:"next_action_date"`
	Responsible    string        `json:"responsible"`
}

func (d RelationCreateDTO) model() models.Relation {
	return models.Relation{
		EventID:        d.EventID,
		CompanyID:      d.CompanyID,
		Status:         d.Status,
		ValueExpected:  d.ValueExpected,
		ValueClosed:    d.ValueClosed,
		NextAction:     d.NextAction,
		NextActionDate: d.NextActionDate,
		Responsible:    d.Responsible,
	}
}

// LinkDTO cria a empresa e a negociação com o evento da rota.
type LinkDTO struct {
	Company  CompanyCreateDTO  `json:"company"`
	Relation RelationCreateDTO `json:"relation"`
}

type SignInDTO struct {
	Token string `json:"token"`
}

type sessionView struct {
	State   string          `json:"state"`
	Session *sessionPayload `json:"session,omitempty"`
	Steps   []string        `json:"recovery,omitempty"`
}

type sessionPayload struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
}
