package utils

import (
	"regexp"
	"time"
)

var dateOnly = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// FormatDateDisplay devolve DD/MM/YYYY a partir de YYYY-MM-DD ou ISO, sempre em UTC
// para não "voltar um dia" por causa do fuso.
func FormatDateDisplay(s string) string {
	return FormatDateLayout(s, "02/01/2006")
}

// FormatDateLayout é o FormatDateDisplay com layout arbitrário. Entradas que não
// são data voltam sem alteração.
func FormatDateLayout(s, layout string) string {
	if s == "" {
		return ""
	}
	if dateOnly.MatchString(s) {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return s
		}
		return t.Format(layout)
	}
	t, ok := ParseTimestamp(s)
	if !ok {
		return s
	}
	return t.UTC().Format(layout)
}

// FormatDateForInput normaliza para YYYY-MM-DD (vazio se inválido).
func FormatDateForInput(s string) string {
	if s == "" || dateOnly.MatchString(s) {
		return s
	}
	t, ok := ParseTimestamp(s)
	if !ok {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}

func ParseTimestamp(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
