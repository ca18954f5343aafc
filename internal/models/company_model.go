package models

import "time"

type Company struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Name      string    `bson:"name" json:"name" validate:"required"`
	Segment   string    `bson:"segment,omitempty" json:"segment,omitempty"`
	Notes     string    `bson:"notes,omitempty" json:"notes,omitempty"`
	Tags      []string  `bson:"tags,omitempty" json:"tags,omitempty"`
	Archived  bool      `bson:"archived" json:"archived"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`

	// Projeção da coleção de contatos (company_id == ID). Nunca persistido.
	Contacts []Contact `bson:"-" json:"contacts"`
}

func (c Company) RecordID() string { return c.ID }

type Contact struct {
	ID        string `bson:"_id,omitempty" json:"id"`
	CompanyID string `bson:"company_id" json:"company_id" validate:"required"`
	Name      string `bson:"name" json:"name" validate:"required"`
	Email     string `bson:"email,omitempty" json:"email,omitempty" validate:"omitempty,email"`
	Whatsapp  string `bson:"whatsapp,omitempty" json:"whatsapp,omitempty"`
	Role      string `bson:"role,omitempty" json:"role,omitempty"`
}

func (c Contact) RecordID() string { return c.ID }
