package entity

import (
	"fmt"
	"time"

	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain"
)

// Month identifica un mes presupuestario (año + mes calendario). Es la mitad
// de la clave (categoría, mes) del libro disperso: comparable, sirve como
// clave de mapa y se ordena cronológicamente con Before/After/Compare.
type Month struct {
	Year  int
	Month time.Month
}

// NewMonth construye un mes normalizando valores fuera de rango
// (enero-1 retrocede a diciembre del año anterior, etc.).
func NewMonth(year int, month time.Month) Month {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Month{Year: t.Year(), Month: t.Month()}
}

// MonthOf devuelve el mes calendario al que pertenece un instante.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// CurrentMonth devuelve el mes calendario actual.
func CurrentMonth() Month {
	return MonthOf(time.Now())
}

// ParseMonth interpreta el formato "2006-01".
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("mes inválido %q: %w", s, domain.ErrInvalidInput)
	}
	return MonthOf(t), nil
}

func (m Month) Next() Month {
	return NewMonth(m.Year, m.Month+1)
}

func (m Month) Prev() Month {
	return NewMonth(m.Year, m.Month-1)
}

func (m Month) Before(o Month) bool {
	return m.Compare(o) < 0
}

func (m Month) After(o Month) bool {
	return m.Compare(o) > 0
}

// Compare devuelve -1, 0 o 1 según el orden cronológico.
func (m Month) Compare(o Month) int {
	a := m.Year*12 + int(m.Month)
	b := o.Year*12 + int(o.Month)
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (m Month) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}

// FirstDay devuelve el primer día del mes en UTC; es la representación
// con la que el mes viaja hacia y desde el almacenamiento.
func (m Month) FirstDay() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}
