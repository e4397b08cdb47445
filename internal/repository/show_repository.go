// Package repository contains the data access layer. Each entity gets one
// repo issuing parameterized SQL; multi-statement mutations run inside a
// transaction on the repo's DB handle.
package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Show is a theatrical production containing zero or more performance dates.
type Show struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// ShowWithCounts carries a show plus aggregate numbers for admin listings.
type ShowWithCounts struct {
	Show
	DateCount  int `json:"date_count"`
	ShiftCount int `json:"shift_count"`
}

// ErrShowNotFound indicates that a show was not located in the DB.
var ErrShowNotFound = errors.New("show not found")

// ShowRepo manages persistence for shows.
type ShowRepo struct {
	db *sql.DB
}

// NewShowRepo constructs a ShowRepo with the given DB handle.
func NewShowRepo(db *sql.DB) *ShowRepo {
	return &ShowRepo{db: db}
}

// DB exposes the underlying sql.DB so callers can begin transactions
// spanning multiple repositories.
func (r *ShowRepo) DB() *sql.DB {
	return r.db
}

// Create inserts a new show and assigns the generated ID back to it.
func (r *ShowRepo) Create(ctx context.Context, s *Show) error {
	res, err := r.db.ExecContext(ctx, `INSERT INTO shows (name) VALUES (?)`, s.Name)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// GetByID retrieves a show by its ID. It returns ErrShowNotFound if there
// is no matching row.
func (r *ShowRepo) GetByID(ctx context.Context, id uint64) (*Show, error) {
	var s Show
	err := r.db.QueryRowContext(ctx, `SELECT id, name FROM shows WHERE id = ?`, id).
		Scan(&s.ID, &s.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	return &s, nil
}

// List returns all shows with their date and shift counts, ordered by name.
// When no shows exist it returns an empty slice and nil error.
func (r *ShowRepo) List(ctx context.Context) ([]ShowWithCounts, error) {
	const q = `SELECT s.id, s.name,
	                  COUNT(DISTINCT d.id), COUNT(sh.id)
	           FROM shows s
	           LEFT JOIN show_dates d ON d.show_id = s.id
	           LEFT JOIN shifts sh ON sh.show_date_id = d.id
	           GROUP BY s.id, s.name
	           ORDER BY s.name ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]ShowWithCounts, 0)
	for rows.Next() {
		var s ShowWithCounts
		if err := rows.Scan(&s.ID, &s.Name, &s.DateCount, &s.ShiftCount); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// Update renames a show. It returns ErrShowNotFound when the row does not
// exist and ErrNoChange when the name already matches.
func (r *ShowRepo) Update(ctx context.Context, id uint64, name string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE shows SET name = ? WHERE id = ? AND name <> ?`, name, id, name)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	var one int
	err = r.db.QueryRowContext(ctx, `SELECT 1 FROM shows WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrShowNotFound
	}
	if err != nil {
		return err
	}
	return ErrNoChange
}

// Delete removes a show together with its dates and shifts. The deletes run
// inside one transaction so no partial cleanup is ever visible; volunteers
// assigned to the removed shifts simply lose those assignments.
func (r *ShowRepo) Delete(ctx context.Context, id uint64) (err error) {
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
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM shows WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		err = ErrShowNotFound
		return err
	}
	if err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx,
		`DELETE sh FROM shifts sh
		 JOIN show_dates d ON d.id = sh.show_date_id
		 WHERE d.show_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM show_dates WHERE show_id = ?`, id); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `DELETE FROM shows WHERE id = ?`, id)
	return err
}
