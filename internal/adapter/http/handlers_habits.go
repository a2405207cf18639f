package adapthttp

import (
	"net/http"

	"habits/internal/app"
	"habits/internal/domain"

	"github.com/google/uuid"
)

func (s *Server) handleListHabits(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.HabitFilter{Search: q.Get("search")}
	if c := q.Get("category"); c != "" && c != "all" {
		filter.Category = c
	}
	if st := q.Get("status"); st == "active" || st == "inactive" {
		active := st == "active"
		filter.Active = &active
	}

	items, err := s.habits.ListWithTodayStatus(r.Context(), ownerID(r), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"count": len(items), "data": items})
}

func (s *Server) handleCreateHabit(w http.ResponseWriter, r *http.Request) {
	var in app.HabitInput
	if err := parseJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	h, err := s.habits.Create(r.Context(), ownerID(r), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"data": h})
}

func (s *Server) handleGetHabit(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	h, recent, err := s.habits.Get(r.Context(), ownerID(r), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": h, "progress": recent})
}

func (s *Server) handleUpdateHabit(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var in app.HabitInput
	if err := parseJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	h, err := s.habits.Update(r.Context(), ownerID(r), id, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": h})
}

func (s *Server) handleToggleHabit(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	h, err := s.habits.Toggle(r.Context(), ownerID(r), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": h})
}

func (s *Server) handleDeleteHabit(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.ledger.DeleteHabit(r.Context(), ownerID(r), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "habit deleted"})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.habits.Categories(r.Context(), ownerID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": categories})
}
