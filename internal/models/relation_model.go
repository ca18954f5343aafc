package models

import "time"

// Relation é a negociação de patrocínio entre uma empresa e um evento
// (tabela event_companies).
type Relation struct {
	ID             string    `bson:"_id,omitempty" json:"id"`
	EventID        string    `bson:"event_id" json:"event_id" validate:"required"`
	CompanyID      string    `bson:"company_id" json:"company_id" validate:"required"`
	Status         Status    `bson:"status" json:"status" validate:"required,status"`
	ValueExpected  float64   `bson:"value_expected" json:"value_expected" validate:"gte=0"`
	ValueClosed    float64   `bson:"value_closed" json:"value_closed" validate:"gte=0"`
	NextAction     string    `bson:"next_action,omitempty" json:"next_action,omitempty"`
	NextActionDate string    `bson:"next_action_date,omitempty" json:"next_action_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Responsible    string    `bson:"responsible,omitempty" json:"responsible,omitempty"`
	Archived       bool      `bson:"archived" json:"archived"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updated_at"`
}

func (r Relation) RecordID() string { return r.ID }

type Status string

const (
	StatusContatoFeito       Status = "CONTATO_FEITO"
	StatusNegociacao         Status = "NEGOCIACAO"
	StatusPendenciaAResolver Status = "PENDENCIA_A_RESOLVER"
	StatusContratoEnviado    Status = "CONTRATO_ENVIADO"
	StatusContratoAssinado   Status = "CONTRATO_ASSINADO"
	StatusFechadoPago        Status = "FECHADO_PAGO"
	StatusPerdido            Status = "PERDIDO"
)

// Statuses na ordem típica da negociação. A ordem não é uma máquina de estados:
// qualquer status pode ser gravado a partir de qualquer outro.
var Statuses = []Status{
	StatusContatoFeito,
	StatusNegociacao,
	StatusPendenciaAResolver,
	StatusContratoEnviado,
	StatusContratoAssinado,
	StatusFechadoPago,
	StatusPerdido,
}

var statusLabels = map[Status]string{
	StatusContatoFeito:       "Contato Feito",
	StatusNegociacao:         "Em Negociação",
	StatusPendenciaAResolver: "Pendência!",
	StatusContratoEnviado:    "Contrato Enviado",
	StatusContratoAssinado:   "Contrato Assinado",
	StatusFechadoPago:        "Fechado & Pago",
	StatusPerdido:            "Perdido",
}

func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// NeedsAttention marca as pendências do dashboard.
func (s Status) NeedsAttention() bool { return s == StatusPendenciaAResolver }

// Terminal: negociações encerradas não entram em "próximas ações".
func (s Status) Terminal() bool { return s == StatusPerdido || s == StatusFechadoPago }
