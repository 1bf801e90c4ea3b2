package models

// Summary aggregates ledger spending for one chat scope over a period.
type Summary struct {
	Period  string // "month" or "year"
	Total   float64
	ByPayee []PayeeAmount
}

// PayeeAmount is the spend attributed to one payee nickname.
type PayeeAmount struct {
	Payee  string
	Amount float64
}
