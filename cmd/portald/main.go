package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/opencampus/examportal/internal/api/http"
	authmw "github.com/opencampus/examportal/internal/auth/middleware"
	"github.com/opencampus/examportal/internal/config"
	"github.com/opencampus/examportal/internal/db"
	"github.com/opencampus/examportal/internal/paper"
	"github.com/opencampus/examportal/internal/portal"
	"github.com/opencampus/examportal/internal/rbac"
	"github.com/opencampus/examportal/internal/registry"
	"github.com/opencampus/examportal/internal/storage"
	syncx "github.com/opencampus/examportal/internal/sync"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	// --- Blob store for paper documents ---
	blobs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}

	// --- Stores and service wiring ---
	exams := registry.NewExamStore(dbh, cfg.DBDriver)
	results := registry.NewResultStore(dbh)
	students := registry.NewStudentDirectory(dbh)
	names := paper.NewNameCache(exams, cfg.NameCacheTTL)
	papers := paper.NewStore(blobs, names)
	events := syncx.NewEventRepo(dbh)
	svc := portal.NewService(papers, exams, results, students, names, events)

	authSvc := authmw.NewAuthService(cfg.AuthHMACSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", authmw.LoginHandler(authSvc, dbh, authmw.AdminCredentials{
		User: cfg.AdminUser, PassHash: cfg.AdminPassHash,
	}))

	// Protected API (JWT -> role in context -> RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(authmw.JWTMiddleware(authSvc))

		// Exam records
		pr.With(rbac.Require("exam:manage")).Post("/exams", api.CreateExamHandler(exams))
		pr.With(rbac.Require("exam:view")).Get("/exams", api.ListExamsHandler(exams))
		pr.With(rbac.Require("exam:view")).Get("/exams/{examID}", api.GetExamHandler(exams))
		pr.With(rbac.Require("exam:manage")).Post("/exams/{examID}/rename", api.RenameExamHandler(svc))
		pr.With(rbac.Require("exam:manage")).Post("/exams/{examID}/status", api.SetStatusHandler(svc))
		pr.With(rbac.Require("exam:manage")).Delete("/exams/{examID}", api.DeleteExamHandler(svc))

		// Paper authoring (admin) and the student view
		pr.With(rbac.Require("paper:edit")).Get("/exams/{examID}/paper", api.GetPaperHandler(svc))
		pr.With(rbac.Require("paper:edit")).Put("/exams/{examID}/paper", api.SavePaperHandler(svc))
		pr.With(rbac.Require("paper:edit")).Delete("/exams/{examID}/paper", api.DeletePaperHandler(svc))
		pr.With(rbac.Require("paper:view")).Get("/exams/{examID}/paper/student", api.StudentPaperHandler(svc))

		// Submission and ranking reads
		pr.With(rbac.Require("result:submit")).Post("/exams/{examID}/submit", api.SubmitHandler(svc))
		pr.With(rbac.Require("result:view-all")).Get("/exams/{examID}/results", api.ExamResultsHandler(svc))
		pr.With(rbac.RequireAny("dashboard:view-own", "result:view-all")).Get("/dashboard", api.DashboardHandler(svc))
		pr.With(rbac.Require("result:view-all")).Get("/standings", api.StandingsHandler(svc))

		// Roster
		pr.With(rbac.Require("students:manage")).Put("/students", api.UpsertStudentHandler(students))
		pr.With(rbac.Require("students:manage")).Get("/students", api.ListStudentsHandler(students))
	})

	log.Printf("examportal listening on %s (db=%s)", cfg.HTTPAddr, cfg.DBDriver)
	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		log.Fatal(err)
	}
}
