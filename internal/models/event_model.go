package models

import "time"

// StartDate/EndDate são datas de calendário (YYYY-MM-DD); end >= start não é validado.
type Event struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Name      string    `bson:"name" json:"name" validate:"required"`
	StartDate string    `bson:"start_date,omitempty" json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string    `bson:"end_date,omitempty" json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	City      string    `bson:"city,omitempty" json:"city,omitempty"`
	Venue     string    `bson:"venue,omitempty" json:"venue,omitempty"`
	Notes     string    `bson:"notes,omitempty" json:"notes,omitempty"`
	Archived  bool      `bson:"archived" json:"archived"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

func (e Event) RecordID() string { return e.ID }
