package http

import (
	"encoding/json"
	"net/http"

	"github.com/opencampus/examportal/internal/portal"
	"github.com/opencampus/examportal/internal/registry"
)

// POST /exams
func CreateExamHandler(exams *registry.ExamStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var e registry.Exam
		if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		// total_marks is derived from the paper once one exists; never
		// trust it from admin input.
		e.TotalMarks = 0
		created, err := exams.Create(r.Context(), e)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

// GET /exams
func ListExamsHandler(exams *registry.ExamStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := exams.List(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// GET /exams/{examID}
func GetExamHandler(exams *registry.ExamStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		examID, err := examIDParam(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		e, err := exams.Get(r.Context(), examID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, e)
	}
}

// POST /exams/{examID}/rename  { "name": "..." }
// Goes through the service so the paper document moves with the name.
func RenameExamHandler(svc *portal.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		examID, err := examIDParam(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		var req struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
			http.Error(w, "name required", http.StatusBadRequest)
			return
		}
		if err := svc.RenameExam(r.Context(), examID, req.Name); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// POST /exams/{examID}/status  { "status": "active" }
func SetStatusHandler(svc *portal.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		examID, err := examIDParam(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		var req struct {
			Status registry.Status `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !req.Status.Valid() {
			http.Error(w, "status must be upcoming|active|completed", http.StatusBadRequest)
			return
		}
		if err := svc.SetExamStatus(r.Context(), examID, req.Status); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// DELETE /exams/{examID}
func DeleteExamHandler(svc *portal.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		examID, err := examIDParam(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := svc.DeleteExam(r.Context(), examID); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
