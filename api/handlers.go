package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"

	"parkshare/booking"
	"parkshare/marketplace"
	"parkshare/session"
	"parkshare/slot"
	"parkshare/user"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// Sessions is the identity store the screens sign in through.
type Sessions interface {
	Current() (user.User, bool)
	SignIn(ctx context.Context, email, password string) (user.User, error)
	Register(ctx context.Context, email, password, name string) (user.User, error)
	SignOut(ctx context.Context)
	UpdateProfile(ctx context.Context, p user.Profile) (user.User, error)
}

// API is the local adapter between the app screens and the two stores. It
// serves whoever holds the single active session.
type API struct {
	root     *mux.Router
	router   *mux.Router
	sessions Sessions
	market   *marketplace.Service
}

func NewAPI(sessions Sessions, market *marketplace.Service) *API {
	root := mux.NewRouter()
	return &API{
		root:     root,
		router:   root.PathPrefix("/api").Subrouter(),
		sessions: sessions,
		market:   market,
	}
}

func (a *API) Router() *mux.Router {
	return a.root
}

func (a *API) Handler() http.Handler {
	return handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(
		handlers.LoggingHandler(os.Stdout, a.root),
	)
}

type Response struct {
	Status   int `json:"status"`
	Response any `json:"response"`
}

func (a *API) Response(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(Response{
		Status:   status,
		Response: data,
	})
	if err != nil {
		log.Printf("encode response: %v", err)
	}
}

// Error writes err with the status its kind maps to.
func (a *API) Error(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("internal error: %v", err)
		a.Response(w, status, "internal error")
		return
	}
	a.Response(w, status, err.Error())
}

func statusFor(err error) int {
	var fe *formError
	switch {
	case errors.As(err, &fe),
		errors.Is(err, user.ErrValidation),
		errors.Is(err, slot.ErrValidation),
		errors.Is(err, booking.ErrValidation),
		errors.Is(err, session.ErrWeakPassword),
		errors.Is(err, marketplace.ErrInvalidDuration):
		return http.StatusBadRequest
	case errors.Is(err, marketplace.ErrUnauthenticated),
		errors.Is(err, session.ErrNoActiveSession),
		errors.Is(err, session.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, marketplace.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, marketplace.ErrSlotNotFound),
		errors.Is(err, marketplace.ErrBookingNotFound):
		return http.StatusNotFound
	case errors.Is(err, user.ErrDuplicateEmail),
		errors.Is(err, marketplace.ErrSlotAlreadyBooked),
		errors.Is(err, booking.ErrInvalidStateTransition):
		return http.StatusConflict
	case errors.Is(err, marketplace.ErrPastStartTime),
		errors.Is(err, marketplace.ErrOutsideAvailabilityWindow):
		return http.StatusUnprocessableEntity
	case errors.Is(err, session.ErrSessionUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (a *API) RegisterRoutes() {
	a.router.HandleFunc("/health", a.health).Methods(http.MethodGet)

	a.router.HandleFunc("/auth/login", a.login).Methods(http.MethodPost)
	a.router.HandleFunc("/auth/register", a.register).Methods(http.MethodPost)
	a.router.HandleFunc("/auth/logout", a.logout).Methods(http.MethodPost)
	a.router.HandleFunc("/auth/me", a.me).Methods(http.MethodGet)
	a.router.HandleFunc("/auth/profile", a.updateProfile).Methods(http.MethodPatch)

	a.router.HandleFunc("/slots", a.getSlots).Methods(http.MethodGet)
	a.router.HandleFunc("/slots", a.createSlot).Methods(http.MethodPost)
	a.router.HandleFunc("/slots/{id}", a.getSlot).Methods(http.MethodGet)
	a.router.HandleFunc("/slots/{id}/quote", a.getQuote).Methods(http.MethodGet)
	a.router.HandleFunc("/slots/{id}/bookings", a.createBooking).Methods(http.MethodPost)

	a.router.HandleFunc("/bookings", a.getBookings).Methods(http.MethodGet)
	a.router.HandleFunc("/bookings/{id}/cancel", a.cancelBooking).Methods(http.MethodPost)
	a.router.HandleFunc("/bookings/{id}/confirm", a.confirmBooking).Methods(http.MethodPost)
	a.router.HandleFunc("/bookings/{id}/complete", a.completeBooking).Methods(http.MethodPost)

	a.router.HandleFunc("/host/slots", a.getHostedSlots).Methods(http.MethodGet)
}
