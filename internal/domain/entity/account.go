package entity

import "time"

// AccountType clasifica una cuenta registrada por el colaborador externo.
// Solo el tipo crédito cambia la semántica del motor (deuda que rueda,
// clasificación de sobregasto, financiamiento de pagos).
type AccountType string

const (
	AccountTypeChecking   AccountType = "checking"
	AccountTypeSavings    AccountType = "savings"
	AccountTypeCredit     AccountType = "credit"
	AccountTypeCash       AccountType = "cash"
	AccountTypeInvestment AccountType = "investment"
	AccountTypeTracking   AccountType = "tracking"
)

// Valid reporta si el tipo es uno de los soportados.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeChecking, AccountTypeSavings, AccountTypeCredit,
		AccountTypeCash, AccountTypeInvestment, AccountTypeTracking:
		return true
	}
	return false
}

// Account es dato de referencia: el motor la lee, nunca la modifica.
type Account struct {
	ID        string
	Name      string
	Type      AccountType
	CreatedAt time.Time
}

// IsCredit reporta si la cuenta es una tarjeta u otra línea de crédito.
func (a *Account) IsCredit() bool {
	return a.Type == AccountTypeCredit
}
