// Package api is the thin HTTP layer over the services: routing, JSON
// serialization, token checks, and translation of domain errors into status
// codes. No task-tracking rules live here.
package api

import (
	"net/http"

	"taskboard/internal/logging"
	"taskboard/internal/service"
	"taskboard/pkg/auth"
)

type Server struct {
	auth     *service.AuthService
	users    *service.UserService
	statuses *service.StatusService
	labels   *service.LabelService
	tasks    *service.TaskService
	tokens   *auth.TokenManager
	log      logging.Logger
}

func NewServer(
	authService *service.AuthService,
	users *service.UserService,
	statuses *service.StatusService,
	labels *service.LabelService,
	tasks *service.TaskService,
	tokens *auth.TokenManager,
	log logging.Logger,
) *Server {
	return &Server{
		auth:     authService,
		users:    users,
		statuses: statuses,
		labels:   labels,
		tasks:    tasks,
		tokens:   tokens,
		log:      log,
	}
}

// Handler builds the route table. Login, registration and the health check
// are public; everything else requires a bearer token.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /api/login", s.handleLogin)

	mux.HandleFunc("POST /api/users", s.handleCreateUser)
	mux.HandleFunc("GET /api/users", s.requireAuth(s.handleListUsers))
	mux.HandleFunc("GET /api/users/{id}", s.requireAuth(s.handleGetUser))
	mux.HandleFunc("PUT /api/users/{id}", s.requireAuth(s.handleUpdateUser))
	mux.HandleFunc("DELETE /api/users/{id}", s.requireAuth(s.handleDeleteUser))

	mux.HandleFunc("GET /api/task_statuses", s.requireAuth(s.handleListStatuses))
	mux.HandleFunc("POST /api/task_statuses", s.requireAuth(s.handleCreateStatus))
	mux.HandleFunc("GET /api/task_statuses/{id}", s.requireAuth(s.handleGetStatus))
	mux.HandleFunc("PUT /api/task_statuses/{id}", s.requireAuth(s.handleUpdateStatus))
	mux.HandleFunc("DELETE /api/task_statuses/{id}", s.requireAuth(s.handleDeleteStatus))

	mux.HandleFunc("GET /api/labels", s.requireAuth(s.handleListLabels))
	mux.HandleFunc("POST /api/labels", s.requireAuth(s.handleCreateLabel))
	mux.HandleFunc("GET /api/labels/{id}", s.requireAuth(s.handleGetLabel))
	mux.HandleFunc("PUT /api/labels/{id}", s.requireAuth(s.handleUpdateLabel))
	mux.HandleFunc("DELETE /api/labels/{id}", s.requireAuth(s.handleDeleteLabel))

	mux.HandleFunc("GET /api/tasks", s.requireAuth(s.handleListTasks))
	mux.HandleFunc("POST /api/tasks", s.requireAuth(s.handleCreateTask))
	mux.HandleFunc("GET /api/tasks/{id}", s.requireAuth(s.handleGetTask))
	mux.HandleFunc("PUT /api/tasks/{id}", s.requireAuth(s.handleUpdateTask))
	mux.HandleFunc("DELETE /api/tasks/{id}", s.requireAuth(s.handleDeleteTask))

	return s.logRequests(mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
