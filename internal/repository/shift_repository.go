package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// Shift is a volunteer role on a performance date. ParticipantID is the
// assignment relation: nil means the shift is open, otherwise exactly one
// volunteer holds it. Arrive/depart times use the same naive DATETIME
// format as show dates.
type Shift struct {
	ID            uint64  `json:"id"`
	ShowDateID    uint64  `json:"show_date_id"`
	Role          string  `json:"role"`
	ArriveAt      string  `json:"arrive_at"`
	DepartAt      string  `json:"depart_at"`
	ParticipantID *uint64 `json:"participant_id,omitempty"`
}

// ShiftWithVolunteer decorates a shift with the assignee's name for admin
// listings.
type ShiftWithVolunteer struct {
	Shift
	VolunteerName *string `json:"volunteer_name,omitempty"`
}

// VolunteerShift is one row of a volunteer's schedule: their shift joined
// with the owning performance.
type VolunteerShift struct {
	ShiftID      uint64 `json:"shift_id"`
	Role         string `json:"role"`
	ArriveAt     string `json:"arrive_at"`
	DepartAt     string `json:"depart_at"`
	ShowName     string `json:"show_name"`
	DateStartsAt string `json:"date_starts_at"`
	DateEndsAt   string `json:"date_ends_at"`
}

// ErrShiftNotFound indicates that a shift was not located.
var ErrShiftNotFound = errors.New("shift not found")

// ShiftRepo manages persistence for shifts and owns the assignment
// workflow. Assignment state is mutated only through Assign, Unassign and
// Swap so the at-most-one-volunteer invariant holds at every observation
// point.
type ShiftRepo struct {
	db *sql.DB
}

// NewShiftRepo constructs a ShiftRepo with the given DB handle.
func NewShiftRepo(db *sql.DB) *ShiftRepo {
	return &ShiftRepo{db: db}
}

// Create inserts a shift on a performance date. A missing date surfaces as
// ErrShowDateNotFound.
func (r *ShiftRepo) Create(ctx context.Context, s *Shift) error {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM show_dates WHERE id = ?`, s.ShowDateID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrShowDateNotFound
	}
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO shifts (show_date_id, role, arrive_at, depart_at) VALUES (?, ?, ?, ?)`,
		s.ShowDateID, s.Role, s.ArriveAt, s.DepartAt)
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

// GetByID retrieves a shift by ID.
func (r *ShiftRepo) GetByID(ctx context.Context, id uint64) (*Shift, error) {
	var s Shift
	err := r.db.QueryRowContext(ctx,
		`SELECT id, show_date_id, role, arrive_at, depart_at, participant_id
		 FROM shifts WHERE id = ?`, id).
		Scan(&s.ID, &s.ShowDateID, &s.Role, &s.ArriveAt, &s.DepartAt, &s.ParticipantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShiftNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListByShowDate returns all shifts on a performance date, assignee names
// included, ordered by arrival time then role.
func (r *ShiftRepo) ListByShowDate(ctx context.Context, showDateID uint64) ([]ShiftWithVolunteer, error) {
	const q = `SELECT s.id, s.show_date_id, s.role, s.arrive_at, s.depart_at,
	                  s.participant_id, p.name
	           FROM shifts s
	           LEFT JOIN participants p ON p.id = s.participant_id
	           WHERE s.show_date_id = ?
	           ORDER BY s.arrive_at ASC, s.role ASC`
	rows, err := r.db.QueryContext(ctx, q, showDateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]ShiftWithVolunteer, 0)
	for rows.Next() {
		var s ShiftWithVolunteer
		if err := rows.Scan(&s.ID, &s.ShowDateID, &s.Role, &s.ArriveAt, &s.DepartAt,
			&s.ParticipantID, &s.VolunteerName); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// ListByVolunteer returns a volunteer's schedule ordered by arrival time.
// When after is non-empty (DB timestamp format) only shifts arriving at or
// after that instant are returned; callers compute the cutoff in the fixed
// theatre timezone because stored timestamps are naive.
func (r *ShiftRepo) ListByVolunteer(ctx context.Context, volunteerID uint64, after string) ([]VolunteerShift, error) {
	q := `SELECT s.id, s.role, s.arrive_at, s.depart_at,
	             sh.name, d.starts_at, d.ends_at
	      FROM shifts s
	      JOIN show_dates d ON d.id = s.show_date_id
	      JOIN shows sh ON sh.id = d.show_id
	      WHERE s.participant_id = ?`
	args := []interface{}{volunteerID}
	if after != "" {
		q += ` AND s.arrive_at >= ?`
		args = append(args, after)
	}
	q += ` ORDER BY s.arrive_at ASC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]VolunteerShift, 0)
	for rows.Next() {
		var vs VolunteerShift
		if err := rows.Scan(&vs.ShiftID, &vs.Role, &vs.ArriveAt, &vs.DepartAt,
			&vs.ShowName, &vs.DateStartsAt, &vs.DateEndsAt); err != nil {
			return nil, err
		}
		result = append(result, vs)
	}
	return result, rows.Err()
}

// Update rewrites role and times of a shift.
func (r *ShiftRepo) Update(ctx context.Context, id uint64, role, arriveAt, departAt string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE shifts SET role = ?, arrive_at = ?, depart_at = ?
		 WHERE id = ? AND (role <> ? OR arrive_at <> ? OR depart_at <> ?)`,
		role, arriveAt, departAt, id, role, arriveAt, departAt)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	var one int
	err = r.db.QueryRowContext(ctx, `SELECT 1 FROM shifts WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrShiftNotFound
	}
	if err != nil {
		return err
	}
	return ErrNoChange
}

// Delete removes a shift, assigned or not.
func (r *ShiftRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM shifts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrShiftNotFound
	}
	return nil
}

// Assign sets the shift's participant to the given volunteer. The guarded
// UPDATE only matches an unassigned row, so concurrent assigns serialize on
// the database and the loser observes zero rows affected. Re-running a
// successful assign is a conflict, not a no-op: callers that time out must
// re-query state before retrying.
func (r *ShiftRepo) Assign(ctx context.Context, volunteerID, shiftID uint64) error {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM participants WHERE id = ?`, volunteerID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrVolunteerNotFound
	}
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE shifts SET participant_id = ? WHERE id = ? AND participant_id IS NULL`,
		volunteerID, shiftID)
	if err != nil {
		// The volunteer can vanish between the pre-check and the update;
		// the FK then rejects the write with MySQL error 1452.
		if strings.Contains(err.Error(), "1452") {
			return ErrVolunteerNotFound
		}
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	// Zero rows: either the shift does not exist or someone holds it.
	var pid sql.NullInt64
	err = r.db.QueryRowContext(ctx, `SELECT participant_id FROM shifts WHERE id = ?`, shiftID).Scan(&pid)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrShiftNotFound
	}
	if err != nil {
		return err
	}
	return ErrShiftTaken
}

// Unassign clears the shift's participant, but only when the named
// volunteer actually holds it.
func (r *ShiftRepo) Unassign(ctx context.Context, volunteerID, shiftID uint64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE shifts SET participant_id = NULL WHERE id = ? AND participant_id = ?`,
		shiftID, volunteerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	var pid sql.NullInt64
	err = r.db.QueryRowContext(ctx, `SELECT participant_id FROM shifts WHERE id = ?`, shiftID).Scan(&pid)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrShiftNotFound
	}
	if err != nil {
		return err
	}
	return ErrNotAssigned
}

// Swap moves a volunteer from one shift to another in a single transaction.
// The unassign and the guarded assign either both commit or both roll back,
// so the intermediate "assigned to neither" state is never externally
// observable and a failed assign leaves the volunteer on their original
// shift. The error reports why the assign half failed; handlers surface the
// rolled-back case distinctly from a clean failure.
func (r *ShiftRepo) Swap(ctx context.Context, volunteerID, fromShiftID, toShiftID uint64) (err error) {
	if fromShiftID == toShiftID {
		return ErrConflict
	}
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

	res, err := tx.ExecContext(ctx,
		`UPDATE shifts SET participant_id = NULL WHERE id = ? AND participant_id = ?`,
		fromShiftID, volunteerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var pid sql.NullInt64
		err = tx.QueryRowContext(ctx, `SELECT participant_id FROM shifts WHERE id = ?`, fromShiftID).Scan(&pid)
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrShiftNotFound
			return err
		}
		if err != nil {
			return err
		}
		err = ErrNotAssigned
		return err
	}

	res, err = tx.ExecContext(ctx,
		`UPDATE shifts SET participant_id = ? WHERE id = ? AND participant_id IS NULL`,
		volunteerID, toShiftID)
	if err != nil {
		if strings.Contains(err.Error(), "1452") {
			err = ErrVolunteerNotFound
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var pid sql.NullInt64
		err = tx.QueryRowContext(ctx, `SELECT participant_id FROM shifts WHERE id = ?`, toShiftID).Scan(&pid)
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrShiftNotFound
			return err
		}
		if err != nil {
			return err
		}
		err = ErrShiftTaken
		return err
	}
	return nil
}

// AvailableVolunteers returns approved volunteers holding no shift on the
// same performance date as shiftID. This is the candidate filter that keeps
// double-bookings out of the assignment UI; the write path itself only
// guards the single-shift invariant.
func (r *ShiftRepo) AvailableVolunteers(ctx context.Context, shiftID uint64) ([]Volunteer, error) {
	var showDateID uint64
	err := r.db.QueryRowContext(ctx, `SELECT show_date_id FROM shifts WHERE id = ?`, shiftID).Scan(&showDateID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrShiftNotFound
	}
	if err != nil {
		return nil, err
	}
	const q = `SELECT p.id, p.name, p.email, p.phone, p.approved
	           FROM participants p
	           WHERE p.approved = 1
	             AND p.id NOT IN (
	                 SELECT participant_id FROM shifts
	                 WHERE show_date_id = ? AND participant_id IS NOT NULL)
	           ORDER BY p.name ASC`
	rows, err := r.db.QueryContext(ctx, q, showDateID)
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

// AvailableRoles returns the unassigned sibling shifts on the same
// performance date, excluding shiftID itself. These are the swap targets
// offered to a volunteer who wants a different role that night.
func (r *ShiftRepo) AvailableRoles(ctx context.Context, shiftID uint64) ([]Shift, error) {
	var showDateID uint64
	err := r.db.QueryRowContext(ctx, `SELECT show_date_id FROM shifts WHERE id = ?`, shiftID).Scan(&showDateID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrShiftNotFound
	}
	if err != nil {
		return nil, err
	}
	const q = `SELECT id, show_date_id, role, arrive_at, depart_at, participant_id
	           FROM shifts
	           WHERE show_date_id = ? AND id <> ? AND participant_id IS NULL
	           ORDER BY arrive_at ASC, role ASC`
	rows, err := r.db.QueryContext(ctx, q, showDateID, shiftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]Shift, 0)
	for rows.Next() {
		var s Shift
		if err := rows.Scan(&s.ID, &s.ShowDateID, &s.Role, &s.ArriveAt, &s.DepartAt, &s.ParticipantID); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}
