package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/controlfin/internal/http/export"
	"github.com/MrJamesThe3rd/controlfin/internal/http/importlegacy"
	"github.com/MrJamesThe3rd/controlfin/internal/http/ledger"
	"github.com/MrJamesThe3rd/controlfin/internal/logging"
)

func New(
	logger *slog.Logger,
	ledgerV1 *ledger.Handler,
	importV1 *importlegacy.Handler,
	exportV1 *export.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(requestLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			ledgerV1.Routes(r)
		})

		r.Route("/import", importV1.Routes)
		r.Route("/export", exportV1.Routes)
	})

	return router
}

// requestLogger stores a logger carrying the request id in the request
// context and logs each completed request.
func requestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := logging.ToContext(r.Context(), base)
			log, ctx := logging.With(ctx,
				slog.String("request_id", middleware.GetReqID(r.Context())),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			log.Info("request handled", slog.Int("status", ww.Status()), slog.Int("bytes", ww.BytesWritten()))
		})
	}
}
