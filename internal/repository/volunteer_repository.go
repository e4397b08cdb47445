package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// Volunteer mirrors the participants table. Approved gates whether a
// volunteer can be offered shifts and can see future shifts through a
// login link.
type Volunteer struct {
	ID       uint64  `json:"id"`
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Phone    *string `json:"phone,omitempty"`
	Approved bool    `json:"approved"`
}

// ErrVolunteerNotFound indicates that a volunteer was not located.
var ErrVolunteerNotFound = errors.New("volunteer not found")

// ErrEmailExists is returned when a create or update collides with the
// unique email constraint.
var ErrEmailExists = errors.New("email already exists")

// VolunteerRepo manages persistence for volunteers.
type VolunteerRepo struct {
	db *sql.DB
}

// NewVolunteerRepo constructs a VolunteerRepo with the given DB handle.
func NewVolunteerRepo(db *sql.DB) *VolunteerRepo {
	return &VolunteerRepo{db: db}
}

// Create inserts a volunteer and assigns the generated ID. Emails are
// normalized to lower case; duplicate emails map MySQL error 1062 onto
// ErrEmailExists.
func (r *VolunteerRepo) Create(ctx context.Context, v *Volunteer) error {
	v.Email = strings.ToLower(strings.TrimSpace(v.Email))
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO participants (name, email, phone, approved) VALUES (?, ?, ?, ?)`,
		v.Name, v.Email, v.Phone, v.Approved)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrEmailExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = uint64(id)
	return nil
}

// GetByID fetches a volunteer by id.
func (r *VolunteerRepo) GetByID(ctx context.Context, id uint64) (*Volunteer, error) {
	var v Volunteer
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, phone, approved FROM participants WHERE id = ?`, id).
		Scan(&v.ID, &v.Name, &v.Email, &v.Phone, &v.Approved)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVolunteerNotFound
		}
		return nil, err
	}
	return &v, nil
}

// GetByEmail fetches a volunteer by normalized email.
func (r *VolunteerRepo) GetByEmail(ctx context.Context, email string) (*Volunteer, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var v Volunteer
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, phone, approved FROM participants WHERE email = ?`, email).
		Scan(&v.ID, &v.Name, &v.Email, &v.Phone, &v.Approved)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVolunteerNotFound
		}
		return nil, err
	}
	return &v, nil
}

// List returns volunteers ordered by name. When approvedOnly is true only
// approved volunteers are returned.
func (r *VolunteerRepo) List(ctx context.Context, approvedOnly bool) ([]Volunteer, error) {
	q := `SELECT id, name, email, phone, approved FROM participants`
	if approvedOnly {
		q += ` WHERE approved = 1`
	}
	q += ` ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]Volunteer, 0)
	for rows.Next() {
		var v Volunteer
		if err := rows.Scan(&v.ID, &v.Name, &v.Email, &v.Phone, &v.Approved); err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	return result, rows.Err()
}

// Update rewrites name, email and phone. Duplicate emails surface as
// ErrEmailExists, a missing row as ErrVolunteerNotFound.
func (r *VolunteerRepo) Update(ctx context.Context, v *Volunteer) error {
	v.Email = strings.ToLower(strings.TrimSpace(v.Email))
	res, err := r.db.ExecContext(ctx,
		`UPDATE participants SET name = ?, email = ?, phone = ? WHERE id = ?`,
		v.Name, v.Email, v.Phone, v.ID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrEmailExists
		}
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	var one int
	err = r.db.QueryRowContext(ctx, `SELECT 1 FROM participants WHERE id = ?`, v.ID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrVolunteerNotFound
	}
	if err != nil {
		return err
	}
	return ErrNoChange
}

// SetApproved flips the approval flag.
func (r *VolunteerRepo) SetApproved(ctx context.Context, id uint64, approved bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE participants SET approved = ? WHERE id = ?`, approved, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		err = r.db.QueryRowContext(ctx, `SELECT 1 FROM participants WHERE id = ?`, id).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrVolunteerNotFound
		}
		return err
	}
	return nil
}

// Delete removes a volunteer. Their shift assignments are cleared first so
// no shift keeps pointing at a deleted participant, then the row goes; both
// statements run in one transaction.
func (r *VolunteerRepo) Delete(ctx context.Context, id uint64) (err error) {
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
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM participants WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		err = ErrVolunteerNotFound
		return err
	}
	if err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx,
		`UPDATE shifts SET participant_id = NULL WHERE participant_id = ?`, id); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `DELETE FROM participants WHERE id = ?`, id)
	return err
}
