package audit

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/Werneck0live/crm-patrocinio/internal/models"
	"github.com/Werneck0live/crm-patrocinio/internal/utils"
)

// Formatter transforma valores do log em texto no idioma configurado.
type Formatter struct {
	tag      language.Tag
	p        *message.Printer
	currency string
	date     string
	clock    string
	loc      *time.Location
}

// NewFormatter aceita uma tag BCP 47; qualquer variante de "pt" usa pt-BR e o
// resto cai em en-US.
func NewFormatter(locale string) *Formatter {
	pt := true
	if t, err := language.Parse(locale); err == nil {
		if base, _ := t.Base(); base.String() != "pt" {
			pt = false
		}
	}
	if pt {
		return newFormatter(language.MustParse("pt-BR"), "R$", "02/01/2006")
	}
	return newFormatter(language.MustParse("en-US"), "$", "01/02/2006")
}

func newFormatter(tag language.Tag, currency, date string) *Formatter {
	return &Formatter{
		tag:      tag,
		p:        message.NewPrinter(tag),
		currency: currency,
		date:     date,
		clock:    "15:04",
		loc:      time.Local,
	}
}

// WithLocation fixa o fuso usado nos carimbos de data/hora.
func (f *Formatter) WithLocation(loc *time.Location) *Formatter {
	if loc != nil {
		f.loc = loc
	}
	return f
}

func (f *Formatter) Locale() string { return f.tag.String() }

// Value formata pelo nome do campo: value_* é dinheiro, *_date/*_at é data.
func (f *Formatter) Value(key string, v any) string {
	switch x := v.(type) {
	case nil:
		return f.p.Sprintf(keyEmpty)
	case string:
		if x == "" {
			return f.p.Sprintf(keyEmpty)
		}
		if isDateKey(key) {
			return utils.FormatDateLayout(x, f.date)
		}
		return x
	case bool:
		if x {
			return f.p.Sprintf(keyYes)
		}
		return f.p.Sprintf(keyNo)
	case float64:
		if strings.HasPrefix(key, "value_") {
			return f.Money(x)
		}
	case int:
		if strings.HasPrefix(key, "value_") {
			return f.Money(float64(x))
		}
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return strings.ReplaceAll(string(raw), `"`, "")
}

func (f *Formatter) Money(v float64) string {
	return f.currency + " " + f.p.Sprintf("%v", number.Decimal(v, number.Scale(2)))
}

func (f *Formatter) Timestamp(t time.Time) string {
	t = t.In(f.loc)
	return f.p.Sprintf(keyTimestamp, t.Format(f.date), t.Format(f.clock))
}

func (f *Formatter) ActionLabel(a models.AuditAction) string {
	switch a {
	case models.ActionInsert:
		return f.p.Sprintf(keyInsert)
	case models.ActionUpdate:
		return f.p.Sprintf(keyUpdate)
	case models.ActionDelete:
		return f.p.Sprintf(keyDelete)
	}
	return string(a)
}

func (f *Formatter) TableLabel(table string) string {
	switch table {
	case models.TableEvents:
		return f.p.Sprintf(keyEvents)
	case models.TableCompanies:
		return f.p.Sprintf(keyCompanies)
	case models.TableRelations:
		return f.p.Sprintf(keyRelations)
	case models.TableContacts:
		return f.p.Sprintf(keyContacts)
	}
	return table
}

func (f *Formatter) text(key string, args ...any) string {
	return f.p.Sprintf(key, args...)
}

func isDateKey(key string) bool {
	return strings.HasSuffix(key, "_date") || strings.HasSuffix(key, "_at")
}
