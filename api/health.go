package api

import "net/http"

type healthResponse struct {
	Status   string `json:"status"`
	SignedIn bool   `json:"signedIn"`
}

func (a *API) health(w http.ResponseWriter, _ *http.Request) {
	_, signedIn := a.sessions.Current()
	a.Response(w, http.StatusOK, healthResponse{Status: "ok", SignedIn: signedIn})
}
