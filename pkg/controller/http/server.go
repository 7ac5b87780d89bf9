package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/finport-lab/riskcast/pkg/service/broadcast"
	"github.com/finport-lab/riskcast/pkg/usecase"
	"github.com/finport-lab/riskcast/pkg/utils/logging"
	"github.com/finport-lab/riskcast/pkg/utils/safe"
)

type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases
	hub    *broadcast.Hub
}

// New builds the HTTP API: scenario CRUD, chat routing, portfolio
// views, and the progress event stream.
func New(uc *usecase.UseCases, hub *broadcast.Hub, portfolio PortfolioReader) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
		hub:    hub,
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Route("/scenarios", func(r chi.Router) {
			r.Post("/", createScenarioHandler(uc))
			r.Get("/", listScenariosHandler(uc))
			r.Get("/{scenarioID}", getScenarioHandler(uc))
			r.Delete("/{scenarioID}", deleteScenarioHandler(uc))
		})

		r.Route("/chat", func(r chi.Router) {
			r.Post("/", chatHandler(uc))
			r.Get("/{sessionID}", chatHistoryHandler(uc))
		})

		r.Route("/portfolio", func(r chi.Router) {
			r.Get("/", portfolioHandler(portfolio))
			r.Get("/entities/{entityID}", entityHandler(portfolio))
		})

		r.Get("/events", eventsHandler(hub))
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		safe.Write(r.Context(), w, []byte("OK"))
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
