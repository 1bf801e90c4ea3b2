package cache

import "database/sql"

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// SeenRef reports whether a reference id was already recorded and at which
// ledger sheet row.
func (r *Repository) SeenRef(refID string) (int, bool, error) {
	var row int
	err := r.db.QueryRow(`SELECT sheet_row FROM seen_refs WHERE ref_id = ?`, refID).Scan(&row)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return row, true, nil
}

// MarkRef records a reference id and the sheet row it landed on.
func (r *Repository) MarkRef(refID string, sheetRow int, sourceID string) error {
	_, err := r.db.Exec(
		`INSERT OR IGNORE INTO seen_refs (ref_id, sheet_row, source_id) VALUES (?, ?, ?)`,
		refID, sheetRow, sourceID,
	)
	return err
}

// CountRefs returns the number of cached reference ids.
func (r *Repository) CountRefs() (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM seen_refs`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
