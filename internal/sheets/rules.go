package sheets

import (
	"context"

	"github.com/Buay-SS/slipbot/internal/slip"
)

// Rules loads the operator-maintained extraction rules in row order.
// Columns: Identifier, Field, Method, Pattern, Value. Rows with an unknown
// field or method are dropped; the slip engine itself guards against bad
// patterns.
func (s *Store) Rules(ctx context.Context) ([]slip.Rule, error) {
	rows, err := s.readRange(ctx, rulesTab+"!A:E")
	if err != nil {
		return nil, err
	}
	return rulesFromRows(rows), nil
}

func rulesFromRows(rows [][]interface{}) []slip.Rule {
	var rules []slip.Rule
	for i, row := range rows {
		if i == 0 {
			continue
		}
		field, ok := slip.ParseField(cellString(row, 1))
		if !ok {
			continue
		}
		method, ok := slip.ParseMethod(cellString(row, 2))
		if !ok {
			continue
		}
		rules = append(rules, slip.Rule{
			Identifier: cellString(row, 0),
			Field:      field,
			Method:     method,
			Pattern:    cellString(row, 3),
			Value:      cellString(row, 4),
		})
	}
	return rules
}
