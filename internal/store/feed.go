package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Werneck0live/crm-patrocinio/internal/models"
)

var errNoIdentity = errors.New("change event without record id")

// applyChange incorpora um evento do feed. Tudo é upsert/remove por id, então
// eco da própria escrita, redelivery e eventos fora de ordem de INSERT/UPDATE
// convergem para o mesmo estado.
func (s *Store) applyChange(ep uint64, ev models.ChangeEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.epoch != ep {
		return
	}

	var err error
	switch ev.Table {
	case models.TableEvents:
		s.events, err = applyTo(s.events, ev)
	case models.TableCompanies:
		s.companies, err = applyTo(s.companies, ev)
	case models.TableContacts:
		// a projeção em Company.Contacts é recalculada na leitura
		s.contacts, err = applyTo(s.contacts, ev)
	case models.TableRelations:
		s.relations, err = applyTo(s.relations, ev)
	default:
		return
	}
	if err != nil {
		s.log.Warn("store_change_ignored", "table", ev.Table, "type", ev.EventType, "err", err)
	}
}

func applyTo[T models.Record](rows []T, ev models.ChangeEvent) ([]T, error) {
	switch ev.EventType {
	case models.ActionInsert, models.ActionUpdate:
		row, err := decodeRecord[T](ev.New)
		if err != nil {
			return rows, err
		}
		return upsert(rows, row), nil
	case models.ActionDelete:
		raw := ev.Old
		if len(raw) == 0 {
			raw = ev.New
		}
		row, err := decodeRecord[T](raw)
		if err != nil {
			return rows, err
		}
		return remove(rows, row.RecordID()), nil
	default:
		return rows, fmt.Errorf("unknown event type %q", ev.EventType)
	}
}

func decodeRecord[T models.Record](raw json.RawMessage) (T, error) {
	var row T
	if len(raw) == 0 {
		return row, errNoIdentity
	}
	if err := json.Unmarshal(raw, &row); err != nil {
		return row, fmt.Errorf("decode record: %w", err)
	}
	if row.RecordID() == "" {
		return row, errNoIdentity
	}
	return row, nil
}
