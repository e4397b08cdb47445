package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Exact statements issued by the assignment workflow. The mock matches on
// equality so a drifting query breaks these tests loudly.
const (
	qVolunteerExists = `SELECT 1 FROM participants WHERE id = ?`
	qGuardedAssign   = `UPDATE shifts SET participant_id = ? WHERE id = ? AND participant_id IS NULL`
	qGuardedUnassign = `UPDATE shifts SET participant_id = NULL WHERE id = ? AND participant_id = ?`
	qShiftAssignee   = `SELECT participant_id FROM shifts WHERE id = ?`
)

func shiftRepoMock(t *testing.T) (*ShiftRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewShiftRepo(db), mock
}

func TestAssignOpenShift(t *testing.T) {
	repo, mock := shiftRepoMock(t)
	mock.ExpectQuery(qVolunteerExists).WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectExec(qGuardedAssign).WithArgs(3, 10).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Assign(context.Background(), 3, 10))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignTakenShift(t *testing.T) {
	repo, mock := shiftRepoMock(t)
	mock.ExpectQuery(qVolunteerExists).WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	// The guarded update matches no row, so the workflow re-reads the shift
	// to tell a taken shift from a missing one.
	mock.ExpectExec(qGuardedAssign).WithArgs(3, 10).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(qShiftAssignee).WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"participant_id"}).AddRow(9))

	err := repo.Assign(context.Background(), 3, 10)
	assert.ErrorIs(t, err, ErrShiftTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignMissingShift(t *testing.T) {
	repo, mock := shiftRepoMock(t)
	mock.ExpectQuery(qVolunteerExists).WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectExec(qGuardedAssign).WithArgs(3, 10).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(qShiftAssignee).WithArgs(10).
		WillReturnError(sql.ErrNoRows)

	err := repo.Assign(context.Background(), 3, 10)
	assert.ErrorIs(t, err, ErrShiftNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignMissingVolunteer(t *testing.T) {
	repo, mock := shiftRepoMock(t)
	mock.ExpectQuery(qVolunteerExists).WithArgs(3).
		WillReturnError(sql.ErrNoRows)

	err := repo.Assign(context.Background(), 3, 10)
	assert.ErrorIs(t, err, ErrVolunteerNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignVolunteerDeletedAfterPrecheck(t *testing.T) {
	repo, mock := shiftRepoMock(t)
	mock.ExpectQuery(qVolunteerExists).WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectExec(qGuardedAssign).WithArgs(3, 10).
		WillReturnError(errors.New("Error 1452: Cannot add or update a child row: a foreign key constraint fails"))

	err := repo.Assign(context.Background(), 3, 10)
	assert.ErrorIs(t, err, ErrVolunteerNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnassignHeldShift(t *testing.T) {
	repo, mock := shiftRepoMock(t)
	mock.ExpectExec(qGuardedUnassign).WithArgs(10, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Unassign(context.Background(), 3, 10))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnassignWrongHolder(t *testing.T) {
	repo, mock := shiftRepoMock(t)
	mock.ExpectExec(qGuardedUnassign).WithArgs(10, 3).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(qShiftAssignee).WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"participant_id"}).AddRow(5))

	err := repo.Unassign(context.Background(), 3, 10)
	assert.ErrorIs(t, err, ErrNotAssigned)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnassignMissingShift(t *testing.T) {
	repo, mock := shiftRepoMock(t)
	mock.ExpectExec(qGuardedUnassign).WithArgs(10, 3).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(qShiftAssignee).WithArgs(10).
		WillReturnError(sql.ErrNoRows)

	err := repo.Unassign(context.Background(), 3, 10)
	assert.ErrorIs(t, err, ErrShiftNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignThenUnassignRoundTrip(t *testing.T) {
	repo, mock := shiftRepoMock(t)
	mock.ExpectQuery(qVolunteerExists).WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectExec(qGuardedAssign).WithArgs(3, 10).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(qGuardedUnassign).WithArgs(10, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Assign(context.Background(), 3, 10))
	require.NoError(t, repo.Unassign(context.Background(), 3, 10))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSwapSameShift(t *testing.T) {
	repo := NewShiftRepo(nil)

	err := repo.Swap(context.Background(), 3, 7, 7)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestSwapCommits(t *testing.T) {
	repo, mock := shiftRepoMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(qGuardedUnassign).WithArgs(5, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(qGuardedAssign).WithArgs(3, 6).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Swap(context.Background(), 3, 5, 6))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSwapTakenTargetRollsBack(t *testing.T) {
	repo, mock := shiftRepoMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(qGuardedUnassign).WithArgs(5, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(qGuardedAssign).WithArgs(3, 6).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(qShiftAssignee).WithArgs(6).
		WillReturnRows(sqlmock.NewRows([]string{"participant_id"}).AddRow(9))
	// The rollback restores the original assignment; a commit here would
	// strand the volunteer on neither shift.
	mock.ExpectRollback()

	err := repo.Swap(context.Background(), 3, 5, 6)
	assert.ErrorIs(t, err, ErrShiftTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSwapFromShiftNotHeldRollsBack(t *testing.T) {
	repo, mock := shiftRepoMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(qGuardedUnassign).WithArgs(5, 3).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(qShiftAssignee).WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"participant_id"}).AddRow(nil))
	mock.ExpectRollback()

	err := repo.Swap(context.Background(), 3, 5, 6)
	assert.ErrorIs(t, err, ErrNotAssigned)
	assert.NoError(t, mock.ExpectationsWereMet())
}
