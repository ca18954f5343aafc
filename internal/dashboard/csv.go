package dashboard

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"unicode"
)

var csvHeader = []string{"Empresa", "Status", "Valor Esperado", "Valor Fechado", "Próxima Ação", "Data Ação"}

func WriteCSV(w io.Writer, rows []RelationRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.CompanyName,
			string(r.Status),
			strconv.FormatFloat(r.ValueExpected, 'f', -1, 64),
			strconv.FormatFloat(r.ValueClosed, 'f', -1, 64),
			r.NextAction,
			r.NextActionDate,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// CSVFilename: patrocinadores_<nome do evento com _ no lugar de espaços>.csv
func CSVFilename(eventName string) string {
	return "patrocinadores_" + strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '_'
		}
		return r
	}, eventName) + ".csv"
}
