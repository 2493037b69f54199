package http

import (
	"encoding/json"
	"net/http"

	"github.com/opencampus/examportal/internal/registry"
)

// PUT /students  { "id": "...", "name": "..." }
func UpsertStudentHandler(dir *registry.StudentDirectory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var s registry.Student
		if err := json.NewDecoder(r.Body).Decode(&s); err != nil || s.ID == "" {
			http.Error(w, "student id required", http.StatusBadRequest)
			return
		}
		if err := dir.Upsert(r.Context(), s); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s)
	}
}

// GET /students
func ListStudentsHandler(dir *registry.StudentDirectory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := dir.All(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, all)
	}
}
