package api

import (
	"context"
	"net/http"

	"parkshare/booking"

	"github.com/gorilla/mux"
)

type getBookingsResponse struct {
	Bookings []booking.Booking `json:"bookings"`
}

func (a *API) createBooking(w http.ResponseWriter, r *http.Request) {
	var form bookingForm
	if err := decode(r, &form); err != nil {
		a.Error(w, err)
		return
	}
	start, end, err := form.interval()
	if err != nil {
		a.Error(w, err)
		return
	}

	b, err := a.market.CreateBooking(r.Context(), mux.Vars(r)["id"], start, end)
	if err != nil {
		a.Error(w, err)
		return
	}
	a.Response(w, http.StatusCreated, b)
}

// getBookings lists the signed-in user's bookings, optionally narrowed to the
// upcoming or past tab.
func (a *API) getBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := a.market.MyBookings(r.Context())
	if err != nil {
		a.Error(w, err)
		return
	}

	upcoming, past := booking.Split(bookings)
	switch tab := r.URL.Query().Get("tab"); tab {
	case "":
	case "upcoming":
		bookings = upcoming
	case "past":
		bookings = past
	default:
		a.Error(w, invalid("unknown tab %q", tab))
		return
	}

	if bookings == nil {
		bookings = []booking.Booking{}
	}
	a.Response(w, http.StatusOK, getBookingsResponse{Bookings: bookings})
}

func (a *API) cancelBooking(w http.ResponseWriter, r *http.Request) {
	a.changeBooking(w, r, a.market.CancelBooking)
}

func (a *API) confirmBooking(w http.ResponseWriter, r *http.Request) {
	a.changeBooking(w, r, a.market.ConfirmBooking)
}

func (a *API) completeBooking(w http.ResponseWriter, r *http.Request) {
	a.changeBooking(w, r, a.market.CompleteBooking)
}

func (a *API) changeBooking(w http.ResponseWriter, r *http.Request, change func(context.Context, string) (booking.Booking, error)) {
	b, err := change(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		a.Error(w, err)
		return
	}
	a.Response(w, http.StatusOK, b)
}
