package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookingIDs(t *testing.T, response any) []string {
	t.Helper()
	body, ok := response.(map[string]any)
	require.True(t, ok)
	list, ok := body["bookings"].([]any)
	require.True(t, ok)

	out := make([]string, 0, len(list))
	for _, item := range list {
		out = append(out, item.(map[string]any)["id"].(string))
	}
	return out
}

func TestBookingsAPI(t *testing.T) {
	t.Parallel()

	t.Run("book two hours", func(t *testing.T) {
		t.Parallel()
		a := setupAPI(t)
		signIn(t, a, "priya@example.com")

		rec, res := do(t, a, http.MethodPost, "/api/slots/p1/bookings", `{"startTime":"2024-06-10T10:00:00Z","hours":2}`)

		require.Equal(t, http.StatusCreated, rec.Code)
		created := object(t, res)
		assert.InDelta(t, 9.98, created["totalPrice"], 1e-9)
		assert.Equal(t, "pending", created["status"])
		assert.Equal(t, "2024-06-10T12:00:00Z", created["endTime"])
		assert.Equal(t, "Downtown Covered Parking", created["parkingSlotTitle"])
	})

	t.Run("book with an explicit end time", func(t *testing.T) {
		t.Parallel()
		a := setupAPI(t)
		signIn(t, a, "priya@example.com")

		rec, res := do(t, a, http.MethodPost, "/api/slots/p4/bookings",
			`{"startTime":"2024-06-10T10:00:00Z","endTime":"2024-06-10T10:30:00Z"}`)

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.InDelta(t, 0.875, object(t, res)["totalPrice"], 1e-9)
	})

	t.Run("booking failures", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name     string
			signedIn bool
			path     string
			body     string
			want     int
		}{
			{name: "signed out", path: "/api/slots/p1/bookings", body: `{"startTime":"2024-06-10T10:00:00Z","hours":2}`, want: http.StatusUnauthorized},
			{name: "unknown slot", signedIn: true, path: "/api/slots/p404/bookings", body: `{"startTime":"2024-06-10T10:00:00Z","hours":2}`, want: http.StatusNotFound},
			{name: "too many hours", signedIn: true, path: "/api/slots/p1/bookings", body: `{"startTime":"2024-06-10T10:00:00Z","hours":25}`, want: http.StatusBadRequest},
			{name: "no hours", signedIn: true, path: "/api/slots/p1/bookings", body: `{"startTime":"2024-06-10T10:00:00Z"}`, want: http.StatusBadRequest},
			{name: "end before start", signedIn: true, path: "/api/slots/p1/bookings", body: `{"startTime":"2024-06-10T10:00:00Z","endTime":"2024-06-10T09:00:00Z"}`, want: http.StatusBadRequest},
			{name: "past start", signedIn: true, path: "/api/slots/p1/bookings", body: `{"startTime":"2023-06-10T10:00:00Z","hours":2}`, want: http.StatusUnprocessableEntity},
			{name: "after the window", signedIn: true, path: "/api/slots/p1/bookings", body: `{"startTime":"2031-01-01T10:00:00Z","hours":2}`, want: http.StatusUnprocessableEntity},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()
				a := setupAPI(t)
				if tt.signedIn {
					signIn(t, a, "priya@example.com")
				}

				rec, _ := do(t, a, http.MethodPost, tt.path, tt.body)
				assert.Equal(t, tt.want, rec.Code)
			})
		}
	})

	t.Run("double booking conflicts", func(t *testing.T) {
		t.Parallel()
		a := setupAPI(t)
		signIn(t, a, "priya@example.com")

		rec, _ := do(t, a, http.MethodPost, "/api/slots/p1/bookings", `{"startTime":"2024-06-10T10:00:00Z","hours":2}`)
		require.Equal(t, http.StatusCreated, rec.Code)

		signIn(t, a, "arjun@example.com")
		rec, _ = do(t, a, http.MethodPost, "/api/slots/p1/bookings", `{"startTime":"2024-06-10T11:00:00Z","hours":1}`)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("tabs", func(t *testing.T) {
		t.Parallel()
		a := setupAPI(t)

		rec, _ := do(t, a, http.MethodGet, "/api/bookings", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		signIn(t, a, "priya@example.com")
		rec, res := do(t, a, http.MethodPost, "/api/slots/p2/bookings", `{"startTime":"2024-06-10T10:00:00Z","hours":1}`)
		require.Equal(t, http.StatusCreated, rec.Code)
		newID := object(t, res)["id"].(string)

		_, res = do(t, a, http.MethodGet, "/api/bookings", "")
		assert.Equal(t, []string{"b1", "b2", newID}, bookingIDs(t, res.Response))

		_, res = do(t, a, http.MethodGet, "/api/bookings?tab=upcoming", "")
		assert.Equal(t, []string{newID}, bookingIDs(t, res.Response))

		_, res = do(t, a, http.MethodGet, "/api/bookings?tab=past", "")
		assert.Equal(t, []string{"b1", "b2"}, bookingIDs(t, res.Response))

		rec, _ = do(t, a, http.MethodGet, "/api/bookings?tab=later", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("cancel twice", func(t *testing.T) {
		t.Parallel()
		a := setupAPI(t)
		signIn(t, a, "priya@example.com")
		_, res := do(t, a, http.MethodPost, "/api/slots/p1/bookings", `{"startTime":"2024-06-10T10:00:00Z","hours":2}`)
		id := object(t, res)["id"].(string)

		rec, res := do(t, a, http.MethodPost, "/api/bookings/"+id+"/cancel", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "cancelled", object(t, res)["status"])

		rec, _ = do(t, a, http.MethodPost, "/api/bookings/"+id+"/cancel", "")
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("completed bookings cannot be cancelled", func(t *testing.T) {
		t.Parallel()
		a := setupAPI(t)
		signIn(t, a, "priya@example.com")

		rec, _ := do(t, a, http.MethodPost, "/api/bookings/b1/cancel", "")

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("host confirms and completes", func(t *testing.T) {
		t.Parallel()
		a := setupAPI(t)
		signIn(t, a, "priya@example.com")
		_, res := do(t, a, http.MethodPost, "/api/slots/p1/bookings", `{"startTime":"2024-06-10T10:00:00Z","hours":2}`)
		id := object(t, res)["id"].(string)

		rec, _ := do(t, a, http.MethodPost, "/api/bookings/"+id+"/confirm", "")
		assert.Equal(t, http.StatusForbidden, rec.Code)

		signIn(t, a, "ram@example.com")
		rec, res = do(t, a, http.MethodPost, "/api/bookings/"+id+"/confirm", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "confirmed", object(t, res)["status"])

		rec, res = do(t, a, http.MethodPost, "/api/bookings/"+id+"/complete", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "completed", object(t, res)["status"])
	})

	t.Run("unknown booking", func(t *testing.T) {
		t.Parallel()
		a := setupAPI(t)
		signIn(t, a, "priya@example.com")

		rec, _ := do(t, a, http.MethodPost, "/api/bookings/b404/cancel", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
