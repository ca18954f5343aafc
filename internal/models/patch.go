package models

// Patches parciais: ponteiros distinguem "omitido" de "informado".

type EventPatch struct {
	Name      *string `json:"name,omitempty"`
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
	City      *string `json:"city,omitempty"`
	Venue     *string `json:"venue,omitempty"`
	Notes     *string `json:"notes,omitempty"`
	Archived  *bool   `json:"archived,omitempty"`
}

func (p EventPatch) Fields() Fields {
	f := Fields{}
	setStr(f, "name", p.Name)
	setStr(f, "start_date", p.StartDate)
	setStr(f, "end_date", p.EndDate)
	setStr(f, "city", p.City)
	setStr(f, "venue", p.Venue)
	setStr(f, "notes", p.Notes)
	if p.Archived != nil {
		f["archived"] = *p.Archived
	}
	return f
}

type CompanyPatch struct {
	Name     *string   `json:"name,omitempty"`
	Segment  *string   `json:"segment,omitempty"`
	Notes    *string   `json:"notes,omitempty"`
	Tags     *[]string `json:"tags,omitempty"`
	Archived *bool     `json:"archived,omitempty"`
}

func (p CompanyPatch) Fields() Fields {
	f := Fields{}
	setStr(f, "name", p.Name)
	setStr(f, "segment", p.Segment)
	setStr(f, "notes", p.Notes)
	if p.Tags != nil {
		f["tags"] = *p.Tags
	}
	if p.Archived != nil {
		f["archived"] = *p.Archived
	}
	return f
}

type ContactPatch struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Whatsapp *string `json:"whatsapp,omitempty"`
	Role     *string `json:"role,omitempty"`
}

func (p ContactPatch) Fields() Fields {
	f := Fields{}
	setStr(f, "name", p.Name)
	setStr(f, "email", p.Email)
	setStr(f, "whatsapp", p.Whatsapp)
	setStr(f, "role", p.Role)
	return f
}

type RelationPatch struct {
	Status         *Status  `json:"status,omitempty"`
	ValueExpected  *float64 `json:"value_expected,omitempty"`
	ValueClosed    *float64 `json:"value_closed,omitempty"`
	NextAction     *string  `json:"next_action,omitempty"`
	NextActionDate *string  `json:"next_action_date,omitempty"`
	Responsible    *string  `json:"responsible,omitempty"`
	Archived       *bool    `json:"archived,omitempty"`
}

func (p RelationPatch) Fields() Fields {
	f := Fields{}
	if p.Status != nil {
		f["status"] = *p.Status
	}
	if p.ValueExpected != nil {
		f["value_expected"] = *p.ValueExpected
	}
	if p.ValueClosed != nil {
		f["value_closed"] = *p.ValueClosed
	}
	setStr(f, "next_action", p.NextAction)
	setStr(f, "next_action_date", p.NextActionDate)
	setStr(f, "responsible", p.Responsible)
	if p.Archived != nil {
		f["archived"] = *p.Archived
	}
	return f
}

func setStr(f Fields, key string, v *string) {
	if v != nil {
		f[key] = *v
	}
}
