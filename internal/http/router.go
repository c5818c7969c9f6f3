package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/MrJamesThe3rd/finboard/internal/auth"
	"github.com/MrJamesThe3rd/finboard/internal/http/account"
	"github.com/MrJamesThe3rd/finboard/internal/http/dashboard"
	"github.com/MrJamesThe3rd/finboard/internal/http/export"
	"github.com/MrJamesThe3rd/finboard/internal/http/importcsv"
	"github.com/MrJamesThe3rd/finboard/internal/http/matching"
	"github.com/MrJamesThe3rd/finboard/internal/http/report"
	"github.com/MrJamesThe3rd/finboard/internal/http/transaction"
)

type Handlers struct {
	Dashboard    *dashboard.Handler
	Accounts     *account.Handler
	Transactions *transaction.Handler
	Import       *importcsv.Handler
	Matching     *matching.Handler
	Export       *export.Handler
	Reports      *report.Handler
}

type Options struct {
	JWTSecret      string
	AllowedOrigins []string
	Logger         zerolog.Logger
}

func New(h Handlers, opts Options) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(RequestLogger(opts.Logger))
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware(opts.JWTSecret))

		r.Route("/dashboard", h.Dashboard.Routes)

		r.Route("/accounts", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Accounts.Routes(r)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Transactions.Routes(r)
		})

		r.Route("/import", h.Import.Routes)

		r.Route("/matching", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Matching.Routes(r)
		})

		r.Route("/export", h.Export.Routes)
		r.Route("/reports", h.Reports.Routes)
	})

	return router
}
