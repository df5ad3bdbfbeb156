package server

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	db "github.com/krishimitra/advisory/internal/db/gorm"
)

// handleLatestSoilReport serves a user's most recent soil report.
func (s *Service) handleLatestSoilReport(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	report, err := s.soil.LatestByUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "No soil report found.")
			return
		}
		log.Error().Err(err).Int64("userId", userID).Msg("Soil report lookup failed")
		writeError(w, http.StatusInternalServerError, "Could not load the soil report.")
		return
	}

	writeJSON(w, http.StatusOK, report)
}
