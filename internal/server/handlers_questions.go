package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	db "github.com/krishimitra/advisory/internal/db/gorm"
	"github.com/krishimitra/advisory/pkg/models"
)

// DefaultQuestionsLimit caps community board listings.
const DefaultQuestionsLimit = 100

// handleListQuestions serves the community board. Filters are optional
// query parameters; by default the newest questions come first.
func (s *Service) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	filter := models.QuestionFilter{
		District: r.URL.Query().Get("district"),
		Category: r.URL.Query().Get("category"),
		Limit:    DefaultQuestionsLimit,
	}

	if v := r.URL.Query().Get("status"); v != "" {
		status := models.QuestionStatus(v)
		if status != models.StatusPending && status != models.StatusResolved {
			writeError(w, http.StatusBadRequest, "status must be pending or resolved")
			return
		}
		filter.Status = status
	}
	if v := r.URL.Query().Get("userId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid userId")
			return
		}
		filter.UserID = id
	}
	if v := r.URL.Query().Get("officerId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid officerId")
			return
		}
		filter.OfficerID = id
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 || limit > DefaultQuestionsLimit {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = limit
	}

	questions, err := s.questions.List(r.Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("Question listing failed")
		writeError(w, http.StatusInternalServerError, "Could not list questions.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"questions": questions,
		"count":     len(questions),
	})
}

// handleGetQuestion serves one question by id.
func (s *Service) handleGetQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid question id")
		return
	}

	question, err := s.questions.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Question not found.")
			return
		}
		log.Error().Err(err).Int64("questionId", id).Msg("Question lookup failed")
		writeError(w, http.StatusInternalServerError, "Could not load the question.")
		return
	}

	writeJSON(w, http.StatusOK, question)
}
