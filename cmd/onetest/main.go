package main

import (
	"context"
	"net/http"
	"time"

	api "github.com/tixomirkin/one-test/internal/api/http"
	"github.com/tixomirkin/one-test/internal/access"
	"github.com/tixomirkin/one-test/internal/attempt"
	auth "github.com/tixomirkin/one-test/internal/auth/middleware"
	"github.com/tixomirkin/one-test/internal/config"
	"github.com/tixomirkin/one-test/internal/db"
	"github.com/tixomirkin/one-test/internal/form"
	"github.com/tixomirkin/one-test/internal/grading"
	"github.com/tixomirkin/one-test/internal/logging"
	"github.com/tixomirkin/one-test/internal/metrics"
	syncx "github.com/tixomirkin/one-test/internal/sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	cfg := config.FromEnv()
	log := logging.New("onetest", cfg.LogLevel)

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	store := form.NewSQLStore(dbh, cfg.DBDriver)

	// --- Services ---
	authSvc := auth.NewAuthService(cfg.AuthHMACSecret, time.Duration(cfg.TokenTTLHours)*time.Hour)
	resolver := access.NewResolver(store)
	grader := grading.NewEngine()
	events := syncx.NewEventRepo(dbh)
	m := metrics.New("onetest")
	recorder := attempt.NewRecorder(store, resolver, grader, log).
		WithEvents(events, cfg.SiteID).
		WithMetrics(m)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(logging.RequestLogger(log))
	r.Use(m.Middleware)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/register", api.RegisterHandler(store, authSvc))
	r.Post("/auth/login", api.LoginHandler(store, authSvc))

	// Public surface: forms reachable by slug. A token is honored when
	// present so granted users pass the access gates, but never required.
	r.Group(func(pr chi.Router) {
		pr.Use(auth.OptionalJWT(authSvc))
		pr.Get("/f/{slug}", api.PublicFormHandler(store, resolver))
		pr.Post("/f/{slug}/attempts", api.SubmitAttemptHandler(recorder))
		// Results of a public form are readable without a token.
		pr.Get("/forms/{formID}/results", api.FormResultsHandler(store, resolver))
	})

	// Protected API
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.Get("/me", api.MeHandler(store))
		pr.Patch("/me", api.UpdateMeHandler(store))
		pr.Post("/me/password", api.ChangePasswordHandler(store))
		pr.Get("/users/search", api.SearchUsersHandler(store))

		pr.Post("/forms", api.CreateFormHandler(store, m, events, cfg.SiteID))
		pr.Get("/forms", api.ListFormsHandler(store))
		pr.Get("/forms/{formID}", api.GetFormHandler(store, resolver))
		pr.Patch("/forms/{formID}", api.UpdateFormHandler(store, resolver))

		pr.Post("/forms/{formID}/questions", api.AddQuestionHandler(store, resolver))
		pr.Patch("/forms/{formID}/questions/{questionID}", api.UpdateQuestionHandler(store, resolver))
		pr.Delete("/forms/{formID}/questions/{questionID}", api.DeleteQuestionHandler(store, resolver))
		pr.Post("/forms/{formID}/questions/{questionID}/move", api.MoveQuestionHandler(store, resolver))

		pr.Post("/questions/{questionID}/options", api.AddOptionHandler(store, resolver))
		pr.Patch("/options/{optionID}", api.UpdateOptionHandler(store, resolver))
		pr.Delete("/options/{optionID}", api.DeleteOptionHandler(store, resolver))

		pr.Get("/forms/{formID}/access", api.ListGrantsHandler(store, resolver))
		pr.Post("/forms/{formID}/access", api.AddGrantHandler(store, resolver))
		pr.Delete("/forms/{formID}/access/{userID}", api.RemoveGrantHandler(store, resolver))
		pr.Put("/forms/{formID}/visibility", api.SetVisibilityHandler(store, resolver))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	log.Infof("listening on %s (db=%s)", cfg.HTTPAddr, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
