package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/finport-lab/riskcast/pkg/service/portfolio"
	"github.com/finport-lab/riskcast/pkg/usecase"
	"github.com/finport-lab/riskcast/pkg/utils/errutil"
	"github.com/finport-lab/riskcast/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
)

func respondJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(r.Context(), w, data)
}

func respondBadRequest(w http.ResponseWriter, r *http.Request, err error) {
	errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
}

func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	if usecase.IsNotFound(err) || errors.Is(err, portfolio.ErrNotFound) {
		status = http.StatusNotFound
	}
	errutil.HandleHTTP(r.Context(), w, err, status)
}
