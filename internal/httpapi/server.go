// Package httpapi is the loopback JSON bridge that extension surfaces use to
// read and save the document.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/julianstephens/unidash/internal/dashboard"
	"github.com/julianstephens/unidash/internal/logger"
	"github.com/julianstephens/unidash/internal/timer"
)

const shutdownTimeout = 5 * time.Second

type Options struct {
	// AllowedOrigins lists the origins allowed by CORS, e.g.
	// "chrome-extension://<id>". Empty allows none.
	AllowedOrigins []string
	Now            func() time.Time
}

type Server struct {
	svc    *dashboard.Service
	engine *timer.Engine
	now    func() time.Time
	router chi.Router
}

func New(svc *dashboard.Service, engine *timer.Engine, opts Options) *Server {
	s := &Server{
		svc:    svc,
		engine: engine,
		now:    opts.Now,
	}
	if s.now == nil {
		s.now = time.Now
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logging)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.health)
	r.Route("/api", func(r chi.Router) {
		r.Get("/document", s.getDocument)
		r.Patch("/document", s.patchDocument)

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", s.listTasks)
			r.Post("/", s.createTask)
			r.Post("/quick", s.quickAdd)
			r.Post("/{id}/toggle", s.toggleTask)
			r.Post("/{id}/snooze", s.snoozeTask)
			r.Delete("/{id}", s.deleteTask)
		})

		r.Put("/notes", s.saveNote)
		r.Post("/citations", s.addCitation)
		r.Put("/timetable", s.saveTimetable)
		r.Post("/reminders", s.addReminder)
		r.Post("/copied", s.stageCopied)
		r.Get("/copied", s.peekCopied)
		r.Get("/stats", s.stats)
		r.Get("/export", s.export)

		r.Get("/timer", s.timerStatus)
		r.Post("/timer/start", s.timerStart)
		r.Post("/timer/pomodoro", s.timerPomodoro)
		r.Post("/timer/stop", s.timerStop)
	})

	s.router = r
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP bridge listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info("Shutting down HTTP bridge")
	return srv.Shutdown(shutdownCtx)
}
