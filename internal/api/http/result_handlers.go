package http

import (
	"encoding/json"
	"net/http"

	authmw "github.com/opencampus/examportal/internal/auth/middleware"
	"github.com/opencampus/examportal/internal/portal"
)

// POST /exams/{examID}/submit  { "answers": { questionID: "..." } }
// The submitting student comes from the token subject.
func SubmitHandler(svc *portal.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		examID, err := examIDParam(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		studentID := authmw.SubjectFromContext(r.Context())
		if studentID == "" {
			http.Error(w, "no subject", http.StatusUnauthorized)
			return
		}
		var req struct {
			Answers map[string]string `json:"answers"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		res, err := svc.Submit(r.Context(), studentID, examID, req.Answers)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// GET /exams/{examID}/results — leaderboard in rank order.
func ExamResultsHandler(svc *portal.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		examID, err := examIDParam(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		out, err := svc.ExamLeaderboard(r.Context(), examID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// GET /dashboard — the authenticated student's results and standing.
func DashboardHandler(svc *portal.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		studentID := authmw.SubjectFromContext(r.Context())
		if studentID == "" {
			http.Error(w, "no subject", http.StatusUnauthorized)
			return
		}
		dash, err := svc.Dashboard(r.Context(), studentID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, dash)
	}
}

// GET /standings — whole-class overall ranking.
func StandingsHandler(svc *portal.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		standings, err := svc.OverallStandings(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, standings)
	}
}
