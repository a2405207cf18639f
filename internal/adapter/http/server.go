// Package adapthttp is the driving HTTP adapter that routes requests to
// application services.
package adapthttp

import (
	"net/http"

	"habits/internal/app"
)

// Server routes requests to application services.
type Server struct {
	habits   *app.HabitService
	ledger   *app.LedgerService
	stats    *app.StatsService
	calendar *app.CalendarService
}

// New creates a Server wired to the given application services.
func New(hs *app.HabitService, ls *app.LedgerService, ss *app.StatsService, cs *app.CalendarService) *Server {
	return &Server{habits: hs, ledger: ls, stats: ss, calendar: cs}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	api.HandleFunc("GET /habits", s.handleListHabits)
	api.HandleFunc("POST /habits", s.handleCreateHabit)
	api.HandleFunc("GET /habits/categories", s.handleCategories)
	api.HandleFunc("GET /habits/{id}", s.handleGetHabit)
	api.HandleFunc("PUT /habits/{id}", s.handleUpdateHabit)
	api.HandleFunc("PATCH /habits/{id}/toggle", s.handleToggleHabit)
	api.HandleFunc("DELETE /habits/{id}", s.handleDeleteHabit)

	api.HandleFunc("GET /progress", s.handleListProgress)
	api.HandleFunc("GET /progress/stats", s.handleStats)
	api.HandleFunc("POST /progress/{habitId}", s.handleMarkCompleted)
	api.HandleFunc("DELETE /progress/{habitId}/{date}", s.handleRemoveCompletion)

	api.HandleFunc("GET /calendar", s.handleCalendar)

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", s.ownerMiddleware(api)))

	return s.loggingMiddleware(withNoCache(root))
}
