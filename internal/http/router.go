package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/tally/internal/http/export"
	"github.com/MrJamesThe3rd/tally/internal/http/importcsv"
	tallymw "github.com/MrJamesThe3rd/tally/internal/http/middleware"
	"github.com/MrJamesThe3rd/tally/internal/http/transaction"
	"github.com/MrJamesThe3rd/tally/internal/http/web"
)

type Options struct {
	AllowedOrigins []string
	JWTSecret      string
	// Limiter guards routes that call the classifier. Nil disables limiting.
	Limiter *tallymw.RateLimiter
}

func New(
	opts Options,
	pages *web.Handler,
	transactionsV1 *transaction.Handler,
	importV1 *importcsv.Handler,
	exportV1 *export.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	limitPosts := passthrough
	if opts.Limiter != nil {
		limitPosts = opts.Limiter.ForMethods(http.MethodPost)
	}

	pages.Routes(router)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(tallymw.BearerAuth(opts.JWTSecret))

		r.Route("/transactions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			r.Use(limitPosts)
			transactionsV1.Routes(r)
		})

		r.Route("/import", func(r chi.Router) {
			r.Use(limitPosts)
			importV1.Routes(r)
		})

		r.Route("/export", exportV1.Routes)

		r.Get("/categories", transaction.CategoriesHandler)
	})

	return router
}

func passthrough(next http.Handler) http.Handler {
	return next
}
