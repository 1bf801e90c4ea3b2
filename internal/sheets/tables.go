package sheets

import (
	"context"
	"fmt"
	"time"
)

// Source approval states in the Sources worksheet.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
)

// Aliases returns the OriginalName→Nickname map operators maintain for
// friendlier summaries.
func (s *Store) Aliases(ctx context.Context) (map[string]string, error) {
	rows, err := s.readRange(ctx, aliasesTab+"!A:B")
	if err != nil {
		return nil, err
	}
	return pairsFromRows(rows), nil
}

// UpsertAlias writes a nickname for an original name, updating the existing
// row when one exists. Reports whether an existing alias was updated.
func (s *Store) UpsertAlias(ctx context.Context, original, nickname string) (bool, error) {
	rows, err := s.readRange(ctx, aliasesTab+"!A:A")
	if err != nil {
		return false, err
	}
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if cellString(row, 0) == original {
			cell := fmt.Sprintf("%s!B%d", aliasesTab, i+1)
			return true, s.updateCell(ctx, cell, nickname)
		}
	}
	return false, s.appendRow(ctx, aliasesTab+"!A:B", []interface{}{original, nickname})
}

// Config returns the Key→Value reply-string templates.
func (s *Store) Config(ctx context.Context) (map[string]string, error) {
	rows, err := s.readRange(ctx, configTab+"!A:B")
	if err != nil {
		return nil, err
	}
	return pairsFromRows(rows), nil
}

// SourceStatus returns the approval status of a user or group, or empty when
// the source is unregistered.
func (s *Store) SourceStatus(ctx context.Context, sourceID string) (string, error) {
	rows, err := s.readRange(ctx, sourcesTab+"!A:D")
	if err != nil {
		return "", err
	}
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if cellString(row, 0) == sourceID {
			return cellString(row, 3), nil
		}
	}
	return "", nil
}

// RegisterSource adds a pending approval row for a new user or group.
// Reports whether a row was added (false when already registered).
func (s *Store) RegisterSource(ctx context.Context, sourceID, displayName, sourceType string) (bool, error) {
	status, err := s.SourceStatus(ctx, sourceID)
	if err != nil {
		return false, err
	}
	if status != "" {
		return false, nil
	}
	row := []interface{}{sourceID, displayName, sourceType, StatusPending, time.Now().UTC().Format(time.RFC3339)}
	return true, s.appendRow(ctx, sourcesTab+"!A:E", row)
}

// pairsFromRows maps two-column rows to a key→value map, skipping the header
// and blank keys.
func pairsFromRows(rows [][]interface{}) map[string]string {
	pairs := make(map[string]string)
	for i, row := range rows {
		if i == 0 {
			continue
		}
		key := cellString(row, 0)
		if key == "" {
			continue
		}
		pairs[key] = cellString(row, 1)
	}
	return pairs
}
