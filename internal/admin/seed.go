package admin

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Werneck0live/crm-patrocinio/internal/models"
	"github.com/Werneck0live/crm-patrocinio/internal/store"
)

//go:embed seeds/demo.json
var demoJSON []byte

// Target é o subconjunto do store usado pelo seed.
type Target interface {
	Snapshot() store.Snapshot
	AddEvent(ctx context.Context, in models.Event) (models.Event, error)
	AddCompany(ctx context.Context, in models.Company) (models.Company, error)
	AddRelation(ctx context.Context, in models.Relation) (models.Relation, error)
}

type seedRelation struct {
	Event          string        `json:"event"`
	Company        string        `json:"company"`
	Status         models.Status `json:"status"`
	ValueExpected  float64       `json:"value_expected"`
	NextAction     string        `json:"next_action"`
	NextActionDate string        `json:"next_action_date"`
}

type seedData struct {
	Events    []models.Event   `json:"events"`
	Companies []models.Company `json:"companies"`
	Relations []seedRelation   `json:"relations"`
}

// SeedDemo é idempotente: eventos e empresas são casados pelo nome e
// negociações já existentes são ignoradas.
func SeedDemo(ctx context.Context, st Target, log *slog.Logger) error {
	var data seedData
	if err := json.Unmarshal(demoJSON, &data); err != nil {
		return err
	}

	snap := st.Snapshot()
	events := map[string]string{}
	for _, e := range snap.Events {
		events[e.Name] = e.ID
	}
	companies := map[string]string{}
	for _, c := range snap.Companies {
		companies[c.Name] = c.ID
	}

	for _, e := range data.Events {
		if _, ok := events[e.Name]; ok {
			log.Info("seed_event_exists", "name", e.Name)
			continue
		}
		// timeout curto por item pra não travar
		ictx, cancel := context.WithTimeout(ctx, 3*time.Second)
		created, err := st.AddEvent(ictx, e)
		cancel()
		if err != nil {
			return fmt.Errorf("seed event %q: %w", e.Name, err)
		}
		events[e.Name] = created.ID
		log.Info("seed_event_created", "id", created.ID)
	}

	for _, c := range data.Companies {
		if _, ok := companies[c.Name]; ok {
			log.Info("seed_company_exists", "name", c.Name)
			continue
		}
		ictx, cancel := context.WithTimeout(ctx, 3*time.Second)
		created, err := st.AddCompany(ictx, c)
		cancel()
		if err != nil {
			return fmt.Errorf("seed company %q: %w", c.Name, err)
		}
		companies[c.Name] = created.ID
		log.Info("seed_company_created", "id", created.ID, "contacts", len(created.Contacts))
	}

	for _, r := range data.Relations {
		rel := models.Relation{
			EventID:        events[r.Event],
			CompanyID:      companies[r.Company],
			Status:         r.Status,
			ValueExpected:  r.ValueExpected,
			NextAction:     r.NextAction,
			NextActionDate: r.NextActionDate,
		}
		ictx, cancel := context.WithTimeout(ctx, 3*time.Second)
		_, err := st.AddRelation(ictx, rel)
		cancel()
		if err != nil {
			if errors.Is(err, store.ErrDuplicateRelation) {
				log.Info("seed_relation_exists", "event", r.Event, "company", r.Company)
				continue
			}
			return fmt.Errorf("seed relation %s/%s: %w", r.Event, r.Company, err)
		}
	}

	log.Info("seed_demo_done", "events", len(data.Events), "companies", len(data.Companies), "relations", len(data.Relations))
	return nil
}
