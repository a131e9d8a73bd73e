package api

import (
	"errors"
	"net/http"
	"strings"

	"parkshare/session"
	"parkshare/user"
)

func (a *API) login(w http.ResponseWriter, r *http.Request) {
	var form loginForm
	if err := decode(r, &form); err != nil {
		a.Error(w, err)
		return
	}

	u, err := a.sessions.SignIn(r.Context(), strings.TrimSpace(form.Email), form.Password)
	if err != nil {
		a.authError(w, err, "login failed")
		return
	}
	a.Response(w, http.StatusOK, u)
}

func (a *API) register(w http.ResponseWriter, r *http.Request) {
	var form registerForm
	if err := decode(r, &form); err != nil {
		a.Error(w, err)
		return
	}

	u, err := a.sessions.Register(r.Context(), form.Email, form.Password, form.Name)
	if err != nil {
		a.authError(w, err, "registration failed")
		return
	}
	a.Response(w, http.StatusCreated, u)
}

func (a *API) logout(w http.ResponseWriter, r *http.Request) {
	a.sessions.SignOut(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) me(w http.ResponseWriter, _ *http.Request) {
	u, ok := a.sessions.Current()
	if !ok {
		a.Response(w, http.StatusUnauthorized, "not signed in")
		return
	}
	a.Response(w, http.StatusOK, u)
}

func (a *API) updateProfile(w http.ResponseWriter, r *http.Request) {
	var p user.Profile
	if err := decode(r, &p); err != nil {
		a.Error(w, err)
		return
	}

	u, err := a.sessions.UpdateProfile(r.Context(), p)
	if err != nil {
		a.Error(w, err)
		return
	}
	a.Response(w, http.StatusOK, u)
}

// authError reports a session that could not be saved as a plain failure. The
// store has already logged the cause and left the user signed out.
func (a *API) authError(w http.ResponseWriter, err error, msg string) {
	if errors.Is(err, session.ErrSessionUnavailable) {
		a.Response(w, http.StatusUnauthorized, msg)
		return
	}
	a.Error(w, err)
}
