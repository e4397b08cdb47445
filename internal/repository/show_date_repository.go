package repository

import (
	"context"
	"database/sql"
	"errors"
)

// ShowDate is a single scheduled performance of a show. Timestamps are
// stored as naive DATETIME strings ("2006-01-02 15:04:05") and interpreted
// in the fixed theatre timezone by the display layer.
type ShowDate struct {
	ID       uint64 `json:"id"`
	ShowID   uint64 `json:"show_id"`
	StartsAt string `json:"starts_at"`
	EndsAt   string `json:"ends_at"`
}

// ErrShowDateNotFound indicates that a performance date was not located.
var ErrShowDateNotFound = errors.New("show date not found")

// ShowDateRepo manages persistence for performance dates.
type ShowDateRepo struct {
	db *sql.DB
}

// NewShowDateRepo constructs a ShowDateRepo with the given DB handle.
func NewShowDateRepo(db *sql.DB) *ShowDateRepo {
	return &ShowDateRepo{db: db}
}

// Create inserts a performance date for a show. The owning show must exist;
// a missing show surfaces as ErrShowNotFound.
func (r *ShowDateRepo) Create(ctx context.Context, d *ShowDate) error {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM shows WHERE id = ?`, d.ShowID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrShowNotFound
	}
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO show_dates (show_id, starts_at, ends_at) VALUES (?, ?, ?)`,
		d.ShowID, d.StartsAt, d.EndsAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	d.ID = uint64(id)
	return nil
}

// GetByID retrieves a performance date by ID.
func (r *ShowDateRepo) GetByID(ctx context.Context, id uint64) (*ShowDate, error) {
	var d ShowDate
	err := r.db.QueryRowContext(ctx,
		`SELECT id, show_id, starts_at, ends_at FROM show_dates WHERE id = ?`, id).
		Scan(&d.ID, &d.ShowID, &d.StartsAt, &d.EndsAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowDateNotFound
		}
		return nil, err
	}
	return &d, nil
}

// ListByShow returns all dates for a show ordered by start time ascending.
func (r *ShowDateRepo) ListByShow(ctx context.Context, showID uint64) ([]ShowDate, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, show_id, starts_at, ends_at
		 FROM show_dates WHERE show_id = ?
		 ORDER BY starts_at ASC`, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]ShowDate, 0)
	for rows.Next() {
		var d ShowDate
		if err := rows.Scan(&d.ID, &d.ShowID, &d.StartsAt, &d.EndsAt); err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

// Update rewrites the start and end times of a date. It returns
// ErrShowDateNotFound when the row does not exist and ErrNoChange when the
// stored times already match.
func (r *ShowDateRepo) Update(ctx context.Context, id uint64, startsAt, endsAt string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE show_dates SET starts_at = ?, ends_at = ?
		 WHERE id = ? AND (starts_at <> ? OR ends_at <> ?)`,
		startsAt, endsAt, id, startsAt, endsAt)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	var one int
	err = r.db.QueryRowContext(ctx, `SELECT 1 FROM show_dates WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrShowDateNotFound
	}
	if err != nil {
		return err
	}
	return ErrNoChange
}

// Delete removes a performance date and its shifts in one transaction.
func (r *ShowDateRepo) Delete(ctx context.Context, id uint64) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	var one int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM show_dates WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		err = ErrShowDateNotFound
		return err
	}
	if err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM shifts WHERE show_date_id = ?`, id); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `DELETE FROM show_dates WHERE id = ?`, id)
	return err
}
