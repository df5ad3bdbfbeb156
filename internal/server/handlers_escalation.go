package server

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"

	"github.com/rs/zerolog/log"

	db "github.com/krishimitra/advisory/internal/db/gorm"
	"github.com/krishimitra/advisory/internal/i18n"
	"github.com/krishimitra/advisory/pkg/models"
)

type escalateRequest struct {
	UserID   int64  `json:"userId"`
	Title    string `json:"title"`
	Details  string `json:"details"`
	Category string `json:"category"`
	District string `json:"district"`
}

type answerRequest struct {
	QuestionID int64  `json:"questionId"`
	Answer     string `json:"answer"`
}

// handleEscalate routes a farmer's question to a randomly chosen
// officer of their district. The question insert and the officer's
// notification commit in one transaction: without an officer, nothing
// is written.
func (s *Service) handleEscalate(w http.ResponseWriter, r *http.Request) {
	var req escalateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.UserID == 0 || req.Title == "" || req.Details == "" || req.District == "" {
		writeError(w, http.StatusBadRequest, "userId, title, details and district are required.")
		return
	}

	officers, err := s.users.ListOfficersByDistrict(r.Context(), req.District)
	if err != nil {
		log.Error().Err(err).Str("district", req.District).Msg("Officer lookup failed")
		writeError(w, http.StatusInternalServerError, "Could not escalate the question.")
		return
	}
	if len(officers) == 0 {
		writeError(w, http.StatusInternalServerError, i18n.T(i18n.English, i18n.KeyNoOfficerAvailable))
		return
	}

	officer := officers[rand.IntN(len(officers))]
	notifMessage := fmt.Sprintf("%s %q", i18n.T(i18n.Language(officer.Language), i18n.KeyNewEscalation), req.Title)

	question, notification, err := s.questions.Escalate(r.Context(), &models.EscalatedQuestion{
		UserID:    req.UserID,
		OfficerID: officer.ID,
		Title:     req.Title,
		Details:   req.Details,
		Category:  req.Category,
	}, notifMessage)
	if err != nil {
		log.Error().Err(err).Int64("userId", req.UserID).Msg("Escalation failed")
		writeError(w, http.StatusInternalServerError, "Could not escalate the question.")
		return
	}

	s.broadcaster.BroadcastToUser(officer.ID, notification)
	s.metrics.countEscalation(r.Context())

	log.Info().
		Int64("questionId", question.ID).
		Int64("officerId", officer.ID).
		Str("district", req.District).
		Msg("Question escalated")

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"message":    i18n.T(i18n.English, i18n.KeyQuestionEscalated),
		"questionId": question.ID,
	})
}

// handleAnswer records an officer's answer and notifies the asker. A
// question can only be resolved once; a repeat answer gets a 409 and
// changes nothing.
func (s *Service) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.QuestionID == 0 || req.Answer == "" {
		writeError(w, http.StatusBadRequest, "questionId and answer are required.")
		return
	}

	asker := i18n.English
	if question, err := s.questions.GetByID(r.Context(), req.QuestionID); err == nil {
		if user, err := s.users.GetByID(r.Context(), question.UserID); err == nil {
			asker = i18n.Language(user.Language)
		}
	}
	notifMessage := i18n.T(asker, i18n.KeyQuestionAnswered)

	question, notification, err := s.questions.Resolve(r.Context(), req.QuestionID, req.Answer, notifMessage)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrAlreadyResolved):
			writeError(w, http.StatusConflict, "This question has already been answered.")
		case errors.Is(err, db.ErrNotFound):
			writeError(w, http.StatusInternalServerError, "Could not find the original question.")
		default:
			log.Error().Err(err).Int64("questionId", req.QuestionID).Msg("Answer submission failed")
			writeError(w, http.StatusInternalServerError, "Could not submit the answer.")
		}
		return
	}

	s.broadcaster.BroadcastToUser(question.UserID, notification)
	s.metrics.countAnswer(r.Context())

	log.Info().Int64("questionId", question.ID).Msg("Question answered")

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": i18n.T(i18n.English, i18n.KeyAnswerSubmitted),
	})
}
