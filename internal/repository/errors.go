// Package repository defines error types that are reused across multiple
// repositories. These sentinel values let handlers distinguish failure
// scenarios and pick the right HTTP status without inspecting SQL errors.
package repository

import "errors"

// ErrConflict is returned when a mutation cannot proceed because of
// conflicting state, such as creating a volunteer with an email that is
// already registered. Handlers translate this into HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrShiftTaken is returned when an assignment targets a shift that already
// has a volunteer. Concurrent assigns serialize on the database row; the
// loser receives this error rather than silently overwriting the winner.
var ErrShiftTaken = errors.New("shift already assigned")

// ErrNotAssigned is returned when an unassign names a (volunteer, shift)
// pair that does not match the shift's current assignee.
var ErrNotAssigned = errors.New("volunteer not assigned to shift")

// ErrNoChange indicates an UPDATE matched a row but every field already
// held the requested value.
var ErrNoChange = errors.New("no change")
