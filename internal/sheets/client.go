// Package sheets persists the bot's tables in one Google spreadsheet:
// the transaction ledger, name aliases, reply-string config, extraction
// rules, and the approval registry. Access is plain append/find/update on
// worksheet ranges; the spreadsheet is the source of truth.
package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

// Worksheet names, one per table.
const (
	transactionsTab = "Transactions"
	aliasesTab      = "Aliases"
	configTab       = "Config"
	rulesTab        = "Rules"
	sourcesTab      = "Sources"
)

// Store wraps the spreadsheet backing the bot.
type Store struct {
	svc           *gsheets.Service
	spreadsheetID string
}

// New authenticates with a service-account credentials JSON blob and binds to
// one spreadsheet.
func New(ctx context.Context, credentialsJSON []byte, spreadsheetID string) (*Store, error) {
	svc, err := gsheets.NewService(ctx,
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(gsheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("init sheets service: %w", err)
	}
	return &Store{svc: svc, spreadsheetID: spreadsheetID}, nil
}

func (s *Store) readRange(ctx context.Context, a1Range string) ([][]interface{}, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, a1Range).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", a1Range, err)
	}
	return resp.Values, nil
}

// Writes use RAW: USER_ENTERED would coerce numeric-looking reference ids
// (leading zeros, 17+ digits) into doubles, and the reformatted value would
// never equal the extracted id again, defeating FindRef dedupe.
const valueInput = "RAW"

func (s *Store) appendRow(ctx context.Context, a1Range string, row []interface{}) error {
	vr := &gsheets.ValueRange{Values: [][]interface{}{row}}
	_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, a1Range, vr).
		ValueInputOption(valueInput).
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append %s: %w", a1Range, err)
	}
	return nil
}

func (s *Store) updateCell(ctx context.Context, a1Range string, value string) error {
	vr := &gsheets.ValueRange{Values: [][]interface{}{{value}}}
	_, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, a1Range, vr).
		ValueInputOption(valueInput).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", a1Range, err)
	}
	return nil
}

// cellString reads column i of a row, tolerating short rows and non-string
// cells.
func cellString(row []interface{}, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	switch v := row[i].(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
