package handlers

import (
	"net/http"

	"kanban-board/middleware"

	"github.com/gorilla/mux"
)

// NewRouter wires every route. Task routes sit behind the auth middleware;
// the auth routes and /health do not.
func NewRouter(auth *AuthHandler, tasks *TaskHandler, health *HealthHandler, tokens middleware.TokenValidator, corsOrigin string) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", health.Check).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/auth/register", auth.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", auth.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", auth.Logout).Methods(http.MethodPost)

	protected := api.PathPrefix("/tasks").Subrouter()
	protected.Use(middleware.JWTAuthMiddleware(tokens))
	protected.HandleFunc("", tasks.CreateTask).Methods(http.MethodPost)
	protected.HandleFunc("", tasks.GetTasks).Methods(http.MethodGet)
	protected.HandleFunc("/{id}", tasks.UpdateTask).Methods(http.MethodPut)
	protected.HandleFunc("/{id}", tasks.DeleteTask).Methods(http.MethodDelete)
	protected.HandleFunc("/{id}/status", tasks.ChangeTaskStatus).Methods(http.MethodPatch)

	return middleware.RequestLogger(middleware.CORS(corsOrigin)(r))
}
