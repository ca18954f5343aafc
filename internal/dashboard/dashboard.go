// Package dashboard monta as visões de leitura (dashboard, arquivados,
// negociações de um evento, exportação CSV) a partir de um Snapshot do store.
package dashboard

import (
	"cmp"
	"slices"
	"strings"

	"github.com/Werneck0live/crm-patrocinio/internal/models"
	"github.com/Werneck0live/crm-patrocinio/internal/store"
)

// AllEvents seleciona todas as negociações ativas, sem filtro de evento.
const AllEvents = "all"

const nextActionsLimit = 5

type RelationRow struct {
	models.Relation
	CompanyName string `json:"company_name"`
	EventName   string `json:"event_name"`
	StatusLabel string `json:"status_label"`
}

type Summary struct {
	EventID       string                `json:"event_id"`
	Counts        map[models.Status]int `json:"counts"`
	TotalExpected float64               `json:"total_expected"`
	TotalClosed   float64               `json:"total_closed"`
	Pendencies    []RelationRow         `json:"pendencies"`
	NextActions   []RelationRow         `json:"next_actions"`
}

// ActiveEvents: não arquivados, por data de início; sem data vão para o fim.
func ActiveEvents(events []models.Event) []models.Event {
	out := make([]models.Event, 0, len(events))
	for _, e := range events {
		if !e.Archived {
			out = append(out, e)
		}
	}
	slices.SortStableFunc(out, func(a, b models.Event) int {
		switch {
		case a.StartDate == "" && b.StartDate == "":
			return 0
		case a.StartDate == "":
			return 1
		case b.StartDate == "":
			return -1
		}
		return cmp.Compare(a.StartDate, b.StartDate)
	})
	return out
}

// ActiveCompanies filtra por nome ou segmento (sem diferenciar maiúsculas).
func ActiveCompanies(companies []models.Company, search string) []models.Company {
	q := strings.ToLower(strings.TrimSpace(search))
	out := []models.Company{}
	for _, c := range companies {
		if c.Archived {
			continue
		}
		if q == "" || strings.Contains(strings.ToLower(c.Name), q) || strings.Contains(strings.ToLower(c.Segment), q) {
			out = append(out, c)
		}
	}
	return out
}

// Summarize calcula os números do dashboard para um evento (ou AllEvents).
func Summarize(snap store.Snapshot, eventID string) Summary {
	if eventID == "" {
		eventID = AllEvents
	}
	s := Summary{
		EventID:     eventID,
		Counts:      make(map[models.Status]int, len(models.Statuses)),
		Pendencies:  []RelationRow{},
		NextActions: []RelationRow{},
	}
	for _, st := range models.Statuses {
		s.Counts[st] = 0
	}

	rows := rowsOf(snap, func(r models.Relation) bool {
		return !r.Archived && (eventID == AllEvents || r.EventID == eventID)
	})
	for _, r := range rows {
		s.Counts[r.Status]++
		s.TotalExpected += r.ValueExpected
		s.TotalClosed += r.ValueClosed
		if r.Status.NeedsAttention() {
			s.Pendencies = append(s.Pendencies, r)
		}
		if r.NextAction != "" && !r.Status.Terminal() {
			s.NextActions = append(s.NextActions, r)
		}
	}
	// datas vazias primeiro, como na comparação de strings
	slices.SortStableFunc(s.NextActions, func(a, b RelationRow) int {
		return cmp.Compare(a.NextActionDate, b.NextActionDate)
	})
	if len(s.NextActions) > nextActionsLimit {
		s.NextActions = s.NextActions[:nextActionsLimit]
	}
	return s
}

type Filter struct {
	Search string
	Status models.Status // vazio ou "all" = todos
}

// EventRelations lista as negociações ativas do evento com busca por nome da
// empresa e filtro de status.
func EventRelations(snap store.Snapshot, eventID string, f Filter) []RelationRow {
	q := strings.ToLower(strings.TrimSpace(f.Search))
	return rowsOf(snap, func(r models.Relation) bool {
		return !r.Archived && r.EventID == eventID &&
			(f.Status == "" || f.Status == AllEvents || r.Status == f.Status)
	}, func(row RelationRow) bool {
		return q == "" || strings.Contains(strings.ToLower(row.CompanyName), q)
	})
}

type Archived struct {
	Events    []models.Event   `json:"events"`
	Companies []models.Company `json:"companies"`
	Relations []RelationRow    `json:"relations"`
}

func ArchivedView(snap store.Snapshot) Archived {
	a := Archived{Events: []models.Event{}, Companies: []models.Company{}}
	for _, e := range snap.Events {
		if e.Archived {
			a.Events = append(a.Events, e)
		}
	}
	for _, c := range snap.Companies {
		if c.Archived {
			a.Companies = append(a.Companies, c)
		}
	}
	a.Relations = rowsOf(snap, func(r models.Relation) bool { return r.Archived })
	return a
}

// rowsOf junta nomes de empresa e evento. Negociações cuja empresa ou evento
// já não existe (órfãs de um delete) ficam de fora.
func rowsOf(snap store.Snapshot, keep func(models.Relation) bool, post ...func(RelationRow) bool) []RelationRow {
	companies := make(map[string]string, len(snap.Companies))
	for _, c := range snap.Companies {
		companies[c.ID] = c.Name
	}
	events := make(map[string]string, len(snap.Events))
	for _, e := range snap.Events {
		events[e.ID] = e.Name
	}

	out := []RelationRow{}
next:
	for _, r := range snap.Relations {
		if !keep(r) {
			continue
		}
		company, okC := companies[r.CompanyID]
		event, okE := events[r.EventID]
		if !okC || !okE {
			continue
		}
		row := RelationRow{Relation: r, CompanyName: company, EventName: event, StatusLabel: r.Status.Label()}
		for _, p := range post {
			if !p(row) {
				continue next
			}
		}
		out = append(out, row)
	}
	return out
}
