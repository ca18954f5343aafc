package handlers

import (
	"errors"
	"strings"

	"github.com/Werneck0live/crm-patrocinio/internal/models"
)

func validateLinkDTO(d LinkDTO) error {
	if strings.TrimSpace(d.Company.Name) == "" {
		return errors.New("company.name is required")
	}
	if d.Relation.EventID != "" || d.Relation.CompanyID != "" {
		return errors.New("relation ids come from the route and the new company")
	}
	return nil
}

func validateRelationDTO(d RelationCreateDTO) error {
	if d.EventID == "" || d.CompanyID == "" {
		return errors.New("event_id and company_id are required")
	}
	if d.Status != "" && !d.Status.Valid() {
		return errors.New("unknown status " + string(d.Status))
	}
	if d.ValueExpected < 0 || d.ValueClosed < 0 {
		return errors.New("values must be >= 0")
	}
	return nil
}

// parseStatusFilter aceita vazio/"all" (sem filtro) ou um status conhecido.
func parseStatusFilter(s string) (models.Status, error) {
	if s == "" || s == "all" {
		return "", nil
	}
	st := models.Status(strings.ToUpper(s))
	if !st.Valid() {
		return "", errors.New("unknown status " + s)
	}
	return st, nil
}
