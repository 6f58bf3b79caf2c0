// Package api exposes the project, task, comment and user operations over
// HTTP with JSON bodies.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"productive-boards/internal/model"
	"productive-boards/internal/service"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
)

// Services groups the operation layer the handlers call into.
type Services struct {
	Auth     *service.AuthService
	Projects *service.ProjectService
	Tasks    *service.TaskService
	Comments *service.CommentService
	Users    *service.UserService
}

// Server routes requests to the operation layer.
type Server struct {
	services    Services
	log         *slog.Logger
	corsOrigins map[string]bool
	handler     http.Handler
}

func NewServer(services Services, corsOrigins []string, log *slog.Logger) *Server {
	s := &Server{
		services:    services,
		log:         log,
		corsOrigins: make(map[string]bool, len(corsOrigins)),
	}
	for _, origin := range corsOrigins {
		s.corsOrigins[origin] = true
	}
	s.handler = s.withRequestID(s.withLogging(s.withRecovery(s.withCORS(s.routes()))))
	return s
}

// ServeHTTP makes Server usable with httptest and any http.Server.
func (s *Server) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	s.handler.ServeHTTP(writer, request)
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("POST /auth/login", s.handleLogin)

	mux.Handle("POST /projects", s.authenticated(s.handleCreateProject))
	mux.Handle("GET /projects", s.authenticated(s.handleListProjects))
	mux.Handle("GET /projects/{id}", s.authenticated(s.handleGetProject))
	mux.Handle("PUT /projects/{id}", s.authenticated(s.handleUpdateProject))
	mux.Handle("PATCH /projects/{id}", s.authenticated(s.handleUpdateProject))
	mux.Handle("DELETE /projects/{id}", s.authenticated(s.handleDeleteProject))
	mux.Handle("GET /projects/{id}/members", s.authenticated(s.handleListMembers))
	mux.Handle("POST /projects/{id}/members/{user_id}", s.authenticated(s.handleAddMember))
	mux.Handle("POST /projects/{id}/add-member/{user_id}", s.authenticated(s.handleAddMember))
	mux.Handle("DELETE /projects/{id}/members/{user_id}", s.authenticated(s.handleRemoveMember))

	mux.Handle("POST /tasks/project/{project_id}", s.authenticated(s.handleCreateTask))
	mux.Handle("GET /tasks/project/{project_id}", s.authenticated(s.handleListTasks))
	mux.Handle("GET /tasks/{id}", s.authenticated(s.handleGetTask))
	mux.Handle("PUT /tasks/{id}", s.authenticated(s.handleUpdateTask))
	mux.Handle("PATCH /tasks/{id}", s.authenticated(s.handleUpdateTask))
	mux.Handle("DELETE /tasks/{id}", s.authenticated(s.handleDeleteTask))
	mux.Handle("PATCH /tasks/{id}/todo", s.authenticated(s.handleTransition(model.StatusTodo)))
	mux.Handle("PATCH /tasks/{id}/in-progress", s.authenticated(s.handleTransition(model.StatusInProgress)))
	mux.Handle("PATCH /tasks/{id}/done", s.authenticated(s.handleTransition(model.StatusDone)))

	mux.Handle("POST /comments/task/{task_id}", s.authenticated(s.handleCreateComment))
	mux.Handle("GET /comments/task/{task_id}", s.authenticated(s.handleListComments))

	mux.Handle("GET /users", s.authenticated(s.handleListUsers))

	return mux
}

// ListenAndServe serves on addr until ctx is cancelled, then drains
// in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errs := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "addr", addr)
		errs <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.log.Info("http server stopped")
	return nil
}

func (s *Server) handleRoot(writer http.ResponseWriter, request *http.Request) {
	writeJSON(writer, http.StatusOK, map[string]string{"message": "Welcome to ProductiveBoards API"})
}

func (s *Server) handleHealth(writer http.ResponseWriter, request *http.Request) {
	writeJSON(writer, http.StatusOK, map[string]string{"status": "ok"})
}
