package sheets

import (
	"context"
	"fmt"
)

// Entry is one row of the Transactions worksheet. RefID sits in column F;
// dedupe scans that column.
type Entry struct {
	RecordedAt string
	Date       string
	From       string
	To         string
	Amount     string
	RefID      string
	SourceID   string
	SenderName string
	SenderID   string
	GroupName  string
}

const refColumn = 5

// AppendEntry adds a transaction row to the ledger.
func (s *Store) AppendEntry(ctx context.Context, e Entry) error {
	return s.appendRow(ctx, transactionsTab+"!A:J", []interface{}{
		e.RecordedAt, e.Date, e.From, e.To, e.Amount,
		e.RefID, e.SourceID, e.SenderName, e.SenderID, e.GroupName,
	})
}

// FindRef returns the 1-based sheet row holding a reference id, or 0 when
// the id has not been recorded.
func (s *Store) FindRef(ctx context.Context, refID string) (int, error) {
	if refID == "" {
		return 0, fmt.Errorf("empty reference id")
	}
	rows, err := s.readRange(ctx, transactionsTab+"!F:F")
	if err != nil {
		return 0, err
	}
	for i, row := range rows {
		if cellString(row, 0) == refID {
			return i + 1, nil
		}
	}
	return 0, nil
}

// Entries returns every ledger row, header excluded.
func (s *Store) Entries(ctx context.Context) ([]Entry, error) {
	rows, err := s.readRange(ctx, transactionsTab+"!A:J")
	if err != nil {
		return nil, err
	}
	return entriesFromRows(rows), nil
}

func entriesFromRows(rows [][]interface{}) []Entry {
	var entries []Entry
	for i, row := range rows {
		if i == 0 {
			continue
		}
		entries = append(entries, Entry{
			RecordedAt: cellString(row, 0),
			Date:       cellString(row, 1),
			From:       cellString(row, 2),
			To:         cellString(row, 3),
			Amount:     cellString(row, 4),
			RefID:      cellString(row, refColumn),
			SourceID:   cellString(row, 6),
			SenderName: cellString(row, 7),
			SenderID:   cellString(row, 8),
			GroupName:  cellString(row, 9),
		})
	}
	return entries
}
