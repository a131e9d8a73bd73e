package api

import (
	"net/http"
	"strconv"

	"parkshare/slot"

	"github.com/gorilla/mux"
)

type getSlotsResponse struct {
	Slots []slot.Slot `json:"slots"`
}

func (a *API) getSlots(w http.ResponseWriter, r *http.Request) {
	sort, err := slot.ParseSort(r.URL.Query().Get("sort"))
	if err != nil {
		a.Error(w, err)
		return
	}

	slots, err := a.market.SearchSlots(r.Context(), slot.Query{
		Text: r.URL.Query().Get("q"),
		Sort: sort,
	})
	if err != nil {
		a.Error(w, err)
		return
	}
	a.Response(w, http.StatusOK, getSlotsResponse{Slots: slots})
}

func (a *API) getSlot(w http.ResponseWriter, r *http.Request) {
	s, err := a.market.GetSlotByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		a.Error(w, err)
		return
	}
	a.Response(w, http.StatusOK, s)
}

func (a *API) getQuote(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	start, err := parseDate("start", q.Get("start"))
	if err != nil {
		a.Error(w, err)
		return
	}
	hours, err := strconv.Atoi(q.Get("hours"))
	if err != nil {
		a.Error(w, invalid("hours must be a whole number"))
		return
	}
	form := bookingForm{StartTime: start, Hours: hours}
	start, end, err := form.interval()
	if err != nil {
		a.Error(w, err)
		return
	}

	quote, err := a.market.Quote(r.Context(), mux.Vars(r)["id"], start, end)
	if err != nil {
		a.Error(w, err)
		return
	}
	a.Response(w, http.StatusOK, quote)
}

func (a *API) createSlot(w http.ResponseWriter, r *http.Request) {
	var form hostForm
	if err := decode(r, &form); err != nil {
		a.Error(w, err)
		return
	}
	l, err := form.listing()
	if err != nil {
		a.Error(w, err)
		return
	}

	s, err := a.market.CreateParkingSlot(r.Context(), l)
	if err != nil {
		a.Error(w, err)
		return
	}
	a.Response(w, http.StatusCreated, s)
}

func (a *API) getHostedSlots(w http.ResponseWriter, r *http.Request) {
	slots, err := a.market.MyHostedSlots(r.Context())
	if err != nil {
		a.Error(w, err)
		return
	}
	if slots == nil {
		slots = []slot.Slot{}
	}
	a.Response(w, http.StatusOK, getSlotsResponse{Slots: slots})
}
