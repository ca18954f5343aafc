package dashboard

import (
	"bytes"
	"slices"
	"strings"
	"testing"

	"github.com/Werneck0live/crm-patrocinio/internal/models"
	"github.com/Werneck0live/crm-patrocinio/internal/store"
)

func fixture() store.Snapshot {
	return store.Snapshot{
		Events: []models.Event{
			{ID: "e1", Name: "Web Summit 2024", StartDate: "2024-11-10"},
			{ID: "e2", Name: "Sem Data"},
			{ID: "e3", Name: "Expo Digital BR", StartDate: "2024-09-05"},
			{ID: "e4", Name: "Antigo", StartDate: "2023-01-01", Archived: true},
		},
		Companies: []models.Company{
			{ID: "c1", Name: "Tech Solutions", Segment: "Tecnologia"},
			{ID: "c2", Name: "Global Marketing", Segment: "Publicidade"},
			{ID: "c3", Name: "Arquivada SA", Archived: true},
		},
		Relations: []models.Relation{
			{ID: "r1", EventID: "e1", CompanyID: "c1", Status: models.StatusNegociacao, ValueExpected: 50000, NextAction: "Enviar proposta", NextActionDate: "2024-05-20"},
			{ID: "r2", EventID: "e1", CompanyID: "c2", Status: models.StatusPendenciaAResolver, ValueExpected: 20000, NextAction: "Ligar", NextActionDate: "2024-05-10"},
			{ID: "r3", EventID: "e3", CompanyID: "c1", Status: models.StatusFechadoPago, ValueExpected: 10000, ValueClosed: 10000, NextAction: "Agradecer"},
			{ID: "r4", EventID: "e1", CompanyID: "ghost", Status: models.StatusNegociacao, ValueExpected: 999},
			{ID: "r5", EventID: "e1", CompanyID: "c1", Status: models.StatusPerdido, Archived: true},
		},
	}
}

func TestActiveEvents_SortedByStartDate(t *testing.T) {
	got := ActiveEvents(fixture().Events)
	want := []string{"e3", "e1", "e2"}
	if len(got) != len(want) {
		t.Fatalf("got %+v", got)
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("pos %d = %s, want %s", i, got[i].ID, id)
		}
	}
}

func TestArchiveRoundTripMovesEvent(t *testing.T) {
	snap := fixture()
	snap.Events[0].Archived = true
	if slices.Contains(ids(ActiveEvents(snap.Events)), "e1") {
		t.Fatalf("archived event still active")
	}
	if !slices.Contains(ids(ArchivedView(snap).Events), "e1") {
		t.Fatalf("archived event missing from archive view")
	}

	snap.Events[0].Archived = false
	if !slices.Contains(ids(ActiveEvents(snap.Events)), "e1") || slices.Contains(ids(ArchivedView(snap).Events), "e1") {
		t.Fatalf("unarchive did not move the event back")
	}
}

func TestSummarize_Event(t *testing.T) {
	s := Summarize(fixture(), "e1")
	if s.Counts[models.StatusNegociacao] != 1 || s.Counts[models.StatusPendenciaAResolver] != 1 || s.Counts[models.StatusPerdido] != 0 {
		t.Fatalf("counts = %+v", s.Counts)
	}
	if len(s.Counts) != len(models.Statuses) {
		t.Fatalf("every status must be present: %+v", s.Counts)
	}
	if s.TotalExpected != 70000 || s.TotalClosed != 0 {
		t.Fatalf("totals = %v / %v", s.TotalExpected, s.TotalClosed)
	}
	if len(s.Pendencies) != 1 || s.Pendencies[0].ID != "r2" {
		t.Fatalf("pendencies = %+v", s.Pendencies)
	}
	if len(s.NextActions) != 2 || s.NextActions[0].ID != "r2" || s.NextActions[1].ID != "r1" {
		t.Fatalf("next actions = %+v", s.NextActions)
	}
}

func TestSummarize_AllSkipsTerminalNextActions(t *testing.T) {
	s := Summarize(fixture(), "")
	if s.EventID != AllEvents {
		t.Fatalf("event id = %q", s.EventID)
	}
	if s.TotalExpected != 80000 || s.TotalClosed != 10000 {
		t.Fatalf("totals = %v / %v", s.TotalExpected, s.TotalClosed)
	}
	for _, r := range s.NextActions {
		if r.Status.Terminal() {
			t.Fatalf("terminal relation in next actions: %+v", r)
		}
	}
}

func TestSummarize_NextActionsTopFive(t *testing.T) {
	snap := fixture()
	snap.Relations = nil
	for i, d := range []string{"2024-06-07", "2024-06-01", "2024-06-05", "2024-06-03", "2024-06-02", "2024-06-06", "2024-06-04"} {
		cid := "c" + string(rune('a'+i))
		snap.Companies = append(snap.Companies, models.Company{ID: cid, Name: cid})
		snap.Relations = append(snap.Relations, models.Relation{
			ID: "x" + cid, EventID: "e1", CompanyID: cid, Status: models.StatusNegociacao, NextAction: "Ligar", NextActionDate: d,
		})
	}
	s := Summarize(snap, "e1")
	if len(s.NextActions) != 5 {
		t.Fatalf("want 5, got %d", len(s.NextActions))
	}
	if s.NextActions[0].NextActionDate != "2024-06-01" || s.NextActions[4].NextActionDate != "2024-06-05" {
		t.Fatalf("order = %+v", s.NextActions)
	}
}

func TestEventRelations_Filters(t *testing.T) {
	snap := fixture()
	if got := EventRelations(snap, "e1", Filter{}); len(got) != 2 {
		t.Fatalf("all = %+v", got)
	}
	got := EventRelations(snap, "e1", Filter{Search: "GLOBAL"})
	if len(got) != 1 || got[0].CompanyName != "Global Marketing" {
		t.Fatalf("search = %+v", got)
	}
	got = EventRelations(snap, "e1", Filter{Status: models.StatusNegociacao})
	if len(got) != 1 || got[0].ID != "r1" || got[0].StatusLabel != "Em Negociação" {
		t.Fatalf("status = %+v", got)
	}
}

func TestActiveCompanies_Search(t *testing.T) {
	got := ActiveCompanies(fixture().Companies, "public")
	if len(got) != 1 || got[0].ID != "c2" {
		t.Fatalf("got %+v", got)
	}
	if got := ActiveCompanies(fixture().Companies, ""); len(got) != 2 {
		t.Fatalf("archived company listed: %+v", got)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	rows := EventRelations(fixture(), "e1", Filter{})
	if err := WriteCSV(&buf, rows); err != nil {
		t.Fatalf("csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "Empresa,Status,Valor Esperado,Valor Fechado,Próxima Ação,Data Ação" {
		t.Fatalf("header = %q", lines[0])
	}
	if lines[1] != "Tech Solutions,NEGOCIACAO,50000,0,Enviar proposta,2024-05-20" {
		t.Fatalf("row = %q", lines[1])
	}
	if len(lines) != 3 {
		t.Fatalf("lines = %d", len(lines))
	}
	if got := CSVFilename("Web Summit 2024"); got != "patrocinadores_Web_Summit_2024.csv" {
		t.Fatalf("filename = %q", got)
	}
}

func ids(events []models.Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.ID
	}
	return out
}
