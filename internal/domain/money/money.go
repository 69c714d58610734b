package money

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain"
)

// Milliunits representa un monto monetario en milésimas de la unidad de
// moneda, sobre un entero de 64 bits. Toda la aritmética del motor ocurre en
// esta escala: suma, resta y comparación son exactas; no hay flotantes ni
// decimales en el interior, solo en los bordes de entrada y salida.
type Milliunits int64

const (
	// MaxSafe es la magnitud máxima que aceptan los constructores (2^53).
	// Por encima de ese valor un float64 ya no representa enteros exactos,
	// así que un monto mayor no pudo haber llegado intacto desde afuera.
	MaxSafe Milliunits = 1 << 53

	// MaxAssignable es el tope de magnitud para asignaciones propuestas:
	// cien mil millones de unidades de moneda, en miliunidades.
	MaxAssignable Milliunits = 100_000_000_000_000
)

var milliunitsPerUnit = decimal.NewFromInt(1000)

// Zero devuelve el monto cero.
func Zero() Milliunits { return 0 }

// FromRaw acepta un valor ya expresado en miliunidades.
func FromRaw(v int64) (Milliunits, error) {
	if v > int64(MaxSafe) || v < -int64(MaxSafe) {
		return 0, domain.ErrInvalidScalar
	}
	return Milliunits(v), nil
}

// FromFloat acepta un monto en miliunidades representado como float64, el
// formato con el que llegan los valores de colaboradores externos. Rechaza
// NaN e infinitos y magnitudes fuera del rango seguro; redondea al entero
// más cercano.
func FromFloat(f float64) (Milliunits, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, domain.ErrInvalidScalar
	}
	if math.Abs(f) > float64(MaxSafe) {
		return 0, domain.ErrInvalidScalar
	}
	return Milliunits(math.Round(f)), nil
}

// FromDecimal convierte un monto en unidades de moneda a miliunidades,
// redondeando a la miliunidad más cercana. Es la conversión que se aplica a
// los agregados que entran desde el almacenamiento.
func FromDecimal(d decimal.Decimal) (Milliunits, error) {
	mu := d.Mul(milliunitsPerUnit).Round(0)
	if mu.Abs().GreaterThan(decimal.NewFromInt(int64(MaxSafe))) {
		return 0, domain.ErrInvalidScalar
	}
	return Milliunits(mu.IntPart()), nil
}

// Raw devuelve el valor en miliunidades como entero.
func (m Milliunits) Raw() int64 { return int64(m) }

// Decimal devuelve el monto en unidades de moneda, para presentación o
// almacenamiento decimal. La escala interna nunca pierde precisión al salir.
func (m Milliunits) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -3)
}

// Float devuelve el valor en miliunidades como float64, el formato de salida
// hacia colaboradores externos. Exacto mientras la magnitud no exceda MaxSafe.
func (m Milliunits) Float() float64 { return float64(m) }

func (m Milliunits) Add(o Milliunits) Milliunits { return m + o }

func (m Milliunits) Sub(o Milliunits) Milliunits { return m - o }

func (m Milliunits) Neg() Milliunits { return -m }

func (m Milliunits) Abs() Milliunits {
	if m < 0 {
		return -m
	}
	return m
}

func (m Milliunits) IsZero() bool { return m == 0 }

func (m Milliunits) IsPositive() bool { return m > 0 }

func (m Milliunits) IsNegative() bool { return m < 0 }

// Sign devuelve -1, 0 o 1.
func (m Milliunits) Sign() int {
	switch {
	case m < 0:
		return -1
	case m > 0:
		return 1
	default:
		return 0
	}
}

func Min(a, b Milliunits) Milliunits {
	if a < b {
		return a
	}
	return b
}

func Max(a, b Milliunits) Milliunits {
	if a > b {
		return a
	}
	return b
}

// Sum suma una serie de montos. La suma entera es exacta y asociativa, por lo
// que el orden de los sumandos no altera el resultado.
func Sum(vs ...Milliunits) Milliunits {
	var total Milliunits
	for _, v := range vs {
		total += v
	}
	return total
}

// MulScalar multiplica por un factor flotante con redondeo estándar (las
// mitades se alejan de cero). Rechaza factores no finitos y resultados fuera
// del rango seguro.
func (m Milliunits) MulScalar(factor float64) (Milliunits, error) {
	if math.IsNaN(factor) || math.IsInf(factor, 0) {
		return 0, domain.ErrInvalidScalar
	}
	p := math.Round(float64(m) * factor)
	if math.IsNaN(p) || math.Abs(p) > float64(MaxSafe) {
		return 0, domain.ErrInvalidScalar
	}
	return Milliunits(p), nil
}

// Div divide entre un entero con redondeo bancario: las mitades exactas van
// al vecino par, de modo que repartir un monto en partes no acumula sesgo
// hacia arriba ni hacia abajo.
func (m Milliunits) Div(divisor int64) (Milliunits, error) {
	if divisor == 0 {
		return 0, domain.ErrDivisionByZero
	}
	q := int64(m) / divisor
	r := int64(m) % divisor
	if r == 0 {
		return Milliunits(q), nil
	}
	away := int64(1)
	if (int64(m) < 0) != (divisor < 0) {
		away = -1
	}
	// |m| ≤ 2^53 garantiza que |r|*2 no desborda; el divisor se compara
	// en magnitud sin asumir que -divisor sea representable.
	r2 := r * 2
	if r2 < 0 {
		r2 = -r2
	}
	var du uint64
	if divisor < 0 {
		du = uint64(-(divisor + 1)) + 1
	} else {
		du = uint64(divisor)
	}
	switch {
	case uint64(r2) > du:
		q += away
	case uint64(r2) == du && q%2 != 0:
		q += away
	}
	return Milliunits(q), nil
}
