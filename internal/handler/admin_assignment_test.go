package handler

import (
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/theatre-volunteer-shifts/internal/config"
	"github.com/iliyamo/theatre-volunteer-shifts/internal/repository"
)

// TestSwapShiftTakenReportsRestored drives a swap whose target is already
// held: the transaction rolls back and the response must say so distinctly,
// because for the caller "your original shift is untouched" is a different
// outcome than a swap that never started.
func TestSwapShiftTakenReportsRestored(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE shifts SET participant_id = NULL WHERE id = ? AND participant_id = ?`).
		WithArgs(5, 3).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE shifts SET participant_id = ? WHERE id = ? AND participant_id IS NULL`).
		WithArgs(3, 6).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT participant_id FROM shifts WHERE id = ?`).
		WithArgs(6).WillReturnRows(sqlmock.NewRows([]string{"participant_id"}).AddRow(9))
	mock.ExpectRollback()

	h := NewAdminHandler(
		config.Config{},
		repository.NewShowRepo(nil),
		repository.NewShowDateRepo(nil),
		repository.NewShiftRepo(db),
		repository.NewVolunteerRepo(nil),
	)
	c, rec := jsonContext(http.MethodPost, "/admin/api/volunteer-shifts/swap",
		`{"volunteer_id":3,"from_shift_id":5,"to_shift_id":6}`)

	require.NoError(t, h.SwapShift(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t,
		`{"error":"target shift already assigned, original assignment restored","restored":true}`,
		rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}
