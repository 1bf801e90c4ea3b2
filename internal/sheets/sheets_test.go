package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/Buay-SS/slipbot/internal/slip"
)

func TestEntriesFromRows(t *testing.T) {
	rows := [][]interface{}{
		{"RecordedAt", "TransactionDate", "FromAccount", "ToRecipient", "Amount", "ReferenceID", "SourceId", "SenderName", "SenderId", "SourceGroupName"},
		{"2025-06-05 14:30:00", "2025-06-05", "สมชาย", "ร้านกาแฟ", "1250.00", "015068142212345678", "U123", "Som", "U123", "N/A"},
		{"2025-06-06 09:00:00", "2025-06-06", "สมหญิง"},
	}

	entries := entriesFromRows(rows)
	require.Len(t, entries, 2)

	assert.Equal(t, "015068142212345678", entries[0].RefID)
	assert.Equal(t, "ร้านกาแฟ", entries[0].To)
	assert.Equal(t, "U123", entries[0].SourceID)

	// Short rows read as empty cells, not a panic.
	assert.Equal(t, "สมหญิง", entries[1].From)
	assert.Empty(t, entries[1].RefID)
}

func TestRulesFromRows(t *testing.T) {
	rows := [][]interface{}{
		{"Identifier", "Field", "Method", "Pattern", "Value"},
		{"ABC Pay", "recipient", "fixed", "", "ABC Pay Wallet"},
		{"", "account", "pattern", `บัญชี\s+(\S+)`, ""},
		{"X", "channel", "fixed", "", "Y"},
		{"Y", "recipient", "llm", "", ""},
	}

	rules := rulesFromRows(rows)
	require.Len(t, rules, 2, "unknown field and method rows are dropped")

	assert.Equal(t, slip.Rule{
		Identifier: "ABC Pay",
		Field:      slip.FieldRecipient,
		Method:     slip.MethodFixed,
		Value:      "ABC Pay Wallet",
	}, rules[0])
	assert.Equal(t, slip.FieldAccount, rules[1].Field)
	assert.Equal(t, slip.MethodPattern, rules[1].Method)
}

func TestPairsFromRows(t *testing.T) {
	rows := [][]interface{}{
		{"Key", "Value"},
		{"MSG_WAKE_UP", "ตื่นแล้วครับ"},
		{"", "orphan"},
		{"MSG_LOG_SUCCESS", "บันทึกเรียบร้อย"},
	}

	pairs := pairsFromRows(rows)
	assert.Len(t, pairs, 2)
	assert.Equal(t, "ตื่นแล้วครับ", pairs["MSG_WAKE_UP"])
}

// Reference ids look numeric but are identifiers: "015068142212345678" keeps
// its leading zero and all 18 digits only when appended as RAW text, and
// FindRef must see back exactly what AppendEntry wrote.
func TestAppendEntryRefIDRoundTrip(t *testing.T) {
	var gotInputOption string
	var stored [][]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && strings.Contains(r.URL.Path, ":append"):
			gotInputOption = r.URL.Query().Get("valueInputOption")
			var vr gsheets.ValueRange
			require.NoError(t, json.NewDecoder(r.Body).Decode(&vr))
			stored = append(stored, vr.Values...)
			w.Write([]byte("{}"))
		case r.Method == http.MethodGet:
			out := gsheets.ValueRange{Values: [][]interface{}{{"ReferenceID"}}}
			for _, row := range stored {
				out.Values = append(out.Values, []interface{}{row[refColumn]})
			}
			require.NoError(t, json.NewEncoder(w).Encode(&out))
		default:
			http.Error(w, "unexpected request", http.StatusBadRequest)
		}
	}))
	defer srv.Close()

	svc, err := gsheets.NewService(context.Background(),
		option.WithoutAuthentication(),
		option.WithEndpoint(srv.URL),
	)
	require.NoError(t, err)
	store := &Store{svc: svc, spreadsheetID: "sheet-1"}

	const ref = "015068142212345678"
	require.NoError(t, store.AppendEntry(context.Background(), Entry{RefID: ref}))
	assert.Equal(t, "RAW", gotInputOption)

	row, err := store.FindRef(context.Background(), ref)
	require.NoError(t, err)
	assert.Equal(t, 2, row, "appended ref id must be findable for dedupe")
}

func TestCellString(t *testing.T) {
	row := []interface{}{"text", 42, nil}
	assert.Equal(t, "text", cellString(row, 0))
	assert.Equal(t, "42", cellString(row, 1))
	assert.Empty(t, cellString(row, 2))
	assert.Empty(t, cellString(row, 5))
	assert.Empty(t, cellString(row, -1))
}
