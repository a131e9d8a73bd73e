package booking_test

import (
	"database/sql"
	"regexp"
	"testing"
	"time"

	"parkshare/booking"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	start = time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)
	end   = time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
)

func newBooking(id string, status booking.Status) booking.Booking {
	return booking.Booking{
		ID:               id,
		ParkingSlotID:    "p1",
		ParkingSlotTitle: "Downtown Garage",
		UserID:           "u2",
		StartTime:        start,
		EndTime:          end,
		TotalPrice:       9.98,
		Status:           status,
		CreatedAt:        start.Add(-24 * time.Hour),
	}
}

func TestStatusMachine(t *testing.T) {
	all := []booking.Status{booking.StatusPending, booking.StatusConfirmed, booking.StatusCompleted, booking.StatusCancelled}
	allowed := map[[2]booking.Status]bool{
		{booking.StatusPending, booking.StatusConfirmed}:   true,
		{booking.StatusConfirmed, booking.StatusCompleted}: true,
		{booking.StatusPending, booking.StatusCancelled}:   true,
		{booking.StatusConfirmed, booking.StatusCancelled}: true,
	}

	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, allowed[[2]booking.Status{from, to}], booking.CanTransition(from, to), "%s -> %s", from, to)
		}
	}

	assert.True(t, booking.StatusCompleted.Terminal())
	assert.True(t, booking.StatusCancelled.Terminal())
	assert.False(t, booking.StatusPending.Terminal())

	assert.False(t, booking.Status("expired").Valid())
}

func TestTotalPrice(t *testing.T) {
	assert.InDelta(t, 9.98, booking.TotalPrice(4.99, start, end), 1e-9)
	assert.InDelta(t, 7.485, booking.TotalPrice(4.99, start, start.Add(90*time.Minute)), 1e-9)
	assert.InDelta(t, 0.5, booking.TotalPrice(2, start, start.Add(15*time.Minute)), 1e-9)
}

func TestOverlaps(t *testing.T) {
	b := newBooking("b1", booking.StatusPending)

	assert.True(t, b.Overlaps(start.Add(time.Hour), end.Add(time.Hour)))
	assert.True(t, b.Overlaps(start.Add(-time.Hour), start.Add(time.Minute)))
	assert.True(t, b.Overlaps(start.Add(30*time.Minute), start.Add(time.Hour)))
	assert.False(t, b.Overlaps(end, end.Add(time.Hour)), "touching end is free")
	assert.False(t, b.Overlaps(start.Add(-time.Hour), start), "touching start is free")
}

func TestValidate(t *testing.T) {
	b := newBooking("", booking.StatusPending)
	require.NoError(t, b.Validate())

	bad := b
	bad.EndTime = bad.StartTime
	require.ErrorIs(t, bad.Validate(), booking.ErrValidation)

	bad = b
	bad.UserID = ""
	require.ErrorIs(t, bad.Validate(), booking.ErrValidation)

	bad = b
	bad.Status = "expired"
	require.ErrorIs(t, bad.Validate(), booking.ErrValidation)
}

func TestSplit(t *testing.T) {
	in := []booking.Booking{
		newBooking("b1", booking.StatusCompleted),
		newBooking("b2", booking.StatusPending),
		newBooking("b3", booking.StatusCancelled),
		newBooking("b4", booking.StatusConfirmed),
	}
	upcoming, past := booking.Split(in)
	require.Len(t, upcoming, 2)
	require.Len(t, past, 2)
	assert.Equal(t, "b2", upcoming[0].ID)
	assert.Equal(t, "b4", upcoming[1].ID)
	assert.Equal(t, "b1", past[0].ID)
	assert.Equal(t, "b3", past[1].ID)
}

func TestMemoryLedger(t *testing.T) {
	l := booking.NewMemoryLedger(newBooking("b1", booking.StatusConfirmed))

	t.Run("insert assigns id", func(t *testing.T) {
		b := newBooking("", booking.StatusPending)
		b.UserID = "u3"
		created, err := l.Insert(t.Context(), b)
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)

		mine, err := l.ListByUser(t.Context(), "u3")
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Equal(t, created.ID, mine[0].ID)

		onSlot, err := l.ListBySlot(t.Context(), "p1")
		require.NoError(t, err)
		assert.Len(t, onSlot, 2)
	})

	t.Run("status transitions are guarded", func(t *testing.T) {
		b, err := l.UpdateStatus(t.Context(), "b1", booking.StatusCancelled)
		require.NoError(t, err)
		assert.Equal(t, booking.StatusCancelled, b.Status)

		_, err = l.UpdateStatus(t.Context(), "b1", booking.StatusCancelled)
		require.ErrorIs(t, err, booking.ErrInvalidStateTransition)

		_, err = l.UpdateStatus(t.Context(), "nope", booking.StatusCancelled)
		require.ErrorIs(t, err, booking.ErrNotFound)
	})

	t.Run("ended before", func(t *testing.T) {
		done := newBooking("b9", booking.StatusConfirmed)
		_, err := l.Insert(t.Context(), done)
		require.NoError(t, err)

		ended, err := l.ListEndedBefore(t.Context(), booking.StatusConfirmed, end)
		require.NoError(t, err)
		require.Len(t, ended, 1)
		assert.Equal(t, "b9", ended[0].ID)

		ended, err = l.ListEndedBefore(t.Context(), booking.StatusConfirmed, end.Add(-time.Minute))
		require.NoError(t, err)
		assert.Empty(t, ended)
	})
}

var bookingColumns = []string{"id", "parking_slot_id", "parking_slot_title", "user_id", "start_time", "end_time", "total_price", "status", "created_at"}

func TestAccessor(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	a := booking.NewAccessor(db)
	selectByID := regexp.QuoteMeta(`SELECT id, parking_slot_id, parking_slot_title, user_id, start_time, end_time, total_price, status, created_at FROM bookings WHERE id = $1`)
	updateQuery := regexp.QuoteMeta(`UPDATE bookings SET status = $1 WHERE id = $2 AND status = ANY($3)`)

	t.Run("insert booking", func(t *testing.T) {
		b := newBooking("", booking.StatusPending)
		insertQuery := `INSERT INTO bookings (id, parking_slot_id, parking_slot_title, user_id, start_time, end_time, total_price, status, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
		mock.ExpectExec(regexp.QuoteMeta(insertQuery)).
			WithArgs(sqlmock.AnyArg(), "p1", "Downtown Garage", "u2", start, end, 9.98, "pending", b.CreatedAt).
			WillReturnResult(sqlmock.NewResult(1, 1))

		created, err := a.Insert(t.Context(), b)
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("get booking - no rows", func(t *testing.T) {
		mock.ExpectQuery(selectByID).WithArgs("b404").WillReturnError(sql.ErrNoRows)

		_, err := a.GetByID(t.Context(), "b404")
		require.ErrorIs(t, err, booking.ErrNotFound)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("cancel pending booking", func(t *testing.T) {
		mock.ExpectExec(updateQuery).
			WithArgs("cancelled", "b1", `{"pending","confirmed"}`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(selectByID).WithArgs("b1").
			WillReturnRows(sqlmock.NewRows(bookingColumns).AddRow("b1", "p1", "Downtown Garage", "u2", start, end, 9.98, "cancelled", start))

		b, err := a.UpdateStatus(t.Context(), "b1", booking.StatusCancelled)
		require.NoError(t, err)
		assert.Equal(t, booking.StatusCancelled, b.Status)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("complete a pending booking is rejected", func(t *testing.T) {
		mock.ExpectExec(updateQuery).
			WithArgs("completed", "b1", `{"confirmed"}`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(selectByID).WithArgs("b1").
			WillReturnRows(sqlmock.NewRows(bookingColumns).AddRow("b1", "p1", "Downtown Garage", "u2", start, end, 9.98, "pending", start))

		_, err := a.UpdateStatus(t.Context(), "b1", booking.StatusCompleted)
		require.ErrorIs(t, err, booking.ErrInvalidStateTransition)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("update unknown booking", func(t *testing.T) {
		mock.ExpectExec(updateQuery).
			WithArgs("confirmed", "b404", `{"pending"}`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(selectByID).WithArgs("b404").WillReturnError(sql.ErrNoRows)

		_, err := a.UpdateStatus(t.Context(), "b404", booking.StatusConfirmed)
		require.ErrorIs(t, err, booking.ErrNotFound)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("list ended confirmed bookings", func(t *testing.T) {
		listQuery := regexp.QuoteMeta(`FROM bookings WHERE status = $1 AND end_time <= $2 ORDER BY created_seq`)
		mock.ExpectQuery(listQuery).
			WithArgs("confirmed", end).
			WillReturnRows(sqlmock.NewRows(bookingColumns).AddRow("b1", "p1", "Downtown Garage", "u2", start, end, 9.98, "confirmed", start))

		ended, err := a.ListEndedBefore(t.Context(), booking.StatusConfirmed, end)
		require.NoError(t, err)
		require.Len(t, ended, 1)
		assert.Equal(t, booking.StatusConfirmed, ended[0].Status)

		require.NoError(t, mock.ExpectationsWereMet())
	})
}
