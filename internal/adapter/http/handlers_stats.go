package adapthttp

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	period := intQuery(r, "period", 30)
	snap, err := s.stats.GetStats(r.Context(), ownerID(r), period)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": snap})
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	year := intQuery(r, "year", now.Year())
	month := time.Month(intQuery(r, "month", int(now.Month())))

	var habitID *uuid.UUID
	if v := r.URL.Query().Get("habitId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		habitID = &id
	}

	days, err := s.calendar.MonthGrid(r.Context(), ownerID(r), habitID, year, month)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": days})
}
