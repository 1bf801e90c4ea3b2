package slip

import (
	"strconv"
	"strings"
)

// NotAvailable marks a field the extractor could not determine. Callers only
// ever compare against this sentinel; fields are never left empty.
const NotAvailable = "N/A"

// Record is the structured result of extracting one payment slip.
type Record struct {
	Date      string // YYYY-MM-DD
	Amount    string // decimal with two fraction digits, no separators
	Account   string // sender/payer display name as read off the slip
	Recipient string // payee display name
	RefID     string // bank transaction reference code
}

// Field names a Record field that extraction rules may target.
type Field string

const (
	FieldDate      Field = "date"
	FieldAmount    Field = "amount"
	FieldAccount   Field = "account"
	FieldRecipient Field = "recipient"
	FieldRefID     Field = "ref_id"
)

// ParseField maps an external field name to a Field, tolerating common
// spreadsheet spellings.
func ParseField(name string) (Field, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "date":
		return FieldDate, true
	case "amount":
		return FieldAmount, true
	case "account", "from", "sender":
		return FieldAccount, true
	case "recipient", "to":
		return FieldRecipient, true
	case "ref_id", "refid", "ref":
		return FieldRefID, true
	}
	return "", false
}

func (r *Record) get(f Field) string {
	switch f {
	case FieldDate:
		return r.Date
	case FieldAmount:
		return r.Amount
	case FieldAccount:
		return r.Account
	case FieldRecipient:
		return r.Recipient
	case FieldRefID:
		return r.RefID
	}
	return ""
}

func (r *Record) set(f Field, v string) {
	switch f {
	case FieldDate:
		r.Date = v
	case FieldAmount:
		r.Amount = v
	case FieldAccount:
		r.Account = v
	case FieldRecipient:
		r.Recipient = v
	case FieldRefID:
		r.RefID = v
	}
}

// filled reports whether a field holds a real extracted value.
func (r *Record) filled(f Field) bool {
	v := r.get(f)
	return v != "" && v != NotAvailable
}

// Normalize rewrites blank fields to the NotAvailable sentinel and collapses
// whitespace artifacts left by OCR. Running it again on a normalized record
// changes nothing.
func (r *Record) Normalize() {
	r.Date = cleanField(r.Date)
	r.Amount = cleanField(r.Amount)
	r.Account = cleanField(r.Account)
	r.Recipient = cleanField(r.Recipient)
	r.RefID = cleanField(r.RefID)
}

// AmountValue returns the amount as a number when one was extracted.
func (r Record) AmountValue() (float64, bool) {
	if r.Amount == "" || r.Amount == NotAvailable {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(r.Amount, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func cleanField(s string) string {
	s = collapseSpaces(s)
	if s == "" {
		return NotAvailable
	}
	return s
}

// collapseSpaces squashes newlines and runs of whitespace into single spaces.
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
