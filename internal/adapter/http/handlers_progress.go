package adapthttp

import (
	"net/http"

	"habits/internal/domain"

	"github.com/google/uuid"
)

func (s *Server) handleListProgress(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.CompletionFilter{}

	if v := q.Get("habitId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		filter.HabitID = &id
	}
	if v := q.Get("startDate"); v != "" {
		day, err := domain.ParseDateKey(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		filter.Range.Start = day
	}
	if v := q.Get("endDate"); v != "" {
		day, err := domain.ParseDateKey(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		filter.Range.End = day
	}

	recs, err := s.ledger.ListCompletions(r.Context(), ownerID(r), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"count": len(recs), "data": recs})
}

func (s *Server) handleMarkCompleted(w http.ResponseWriter, r *http.Request) {
	habitID, err := uuid.Parse(r.PathValue("habitId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var body struct {
		Date  string  `json:"date"`
		Notes *string `json:"notes"`
		Mood  *string `json:"mood"`
	}
	if err := parseJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var day domain.DateKey
	if body.Date != "" {
		if day, err = domain.ParseDateKey(body.Date); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}
	var mood *domain.Mood
	if body.Mood != nil {
		m := domain.Mood(*body.Mood)
		mood = &m
	}

	rec, err := s.ledger.MarkCompleted(r.Context(), ownerID(r), habitID, day, body.Notes, mood)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": rec})
}

func (s *Server) handleRemoveCompletion(w http.ResponseWriter, r *http.Request) {
	habitID, err := uuid.Parse(r.PathValue("habitId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	day, err := domain.ParseDateKey(r.PathValue("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.ledger.RemoveCompletion(r.Context(), ownerID(r), habitID, day); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "progress removed"})
}
