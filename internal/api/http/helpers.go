package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/opencampus/examportal/internal/grading"
	"github.com/opencampus/examportal/internal/paper"
	"github.com/opencampus/examportal/internal/portal"
	"github.com/opencampus/examportal/internal/registry"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the domain taxonomy onto HTTP statuses. Anything
// unrecognized is an infrastructure failure.
func writeError(w http.ResponseWriter, err error) {
	var verr *paper.ValidationError
	switch {
	case errors.Is(err, registry.ErrNotFound),
		errors.Is(err, paper.ErrNotFound),
		errors.Is(err, registry.ErrNoResult):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.As(err, &verr):
		http.Error(w, verr.Error(), http.StatusBadRequest)
	case errors.Is(err, portal.ErrConflictingLifecycle),
		errors.Is(err, registry.ErrBadTransition),
		errors.Is(err, grading.ErrEmptyPaper):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error: "+err.Error(), http.StatusInternalServerError)
	}
}

func examIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "examID"), 10, 64)
	if err != nil {
		return 0, errors.New("examID must be numeric")
	}
	return id, nil
}
