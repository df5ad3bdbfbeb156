package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/krishimitra/advisory/internal/assistant"
	db "github.com/krishimitra/advisory/internal/db/gorm"
	"github.com/krishimitra/advisory/internal/i18n"
	"github.com/krishimitra/advisory/pkg/models"
)

// chatTitleLimit caps the auto-generated session title.
const chatTitleLimit = 60

type chatRequest struct {
	UserID   int64  `json:"userId"`
	ChatID   string `json:"chatId"`
	Message  string `json:"message"`
	Language string `json:"language"`
}

// escalationDraft pre-fills the escalation form when the assistant
// flags a question as complex. Nothing is escalated until the user
// submits it.
type escalationDraft struct {
	Title   string `json:"title"`
	Details string `json:"details"`
}

type chatResponse struct {
	ChatID          string           `json:"chat_id"`
	Source          string           `json:"source"`
	ResponseText    string           `json:"response_text"`
	IsComplex       bool             `json:"is_complex"`
	EscalationDraft *escalationDraft `json:"escalation_draft,omitempty"`
}

// handleChat runs one advisory turn. Resolved escalations are checked
// first; only on a miss does the turn reach the model.
func (s *Service) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.UserID == 0 || req.Message == "" {
		writeError(w, http.StatusBadRequest, "userId and message are required.")
		return
	}

	lang := i18n.Language(req.Language)
	if !lang.Valid() {
		lang = s.userLanguage(r.Context(), req.UserID)
	}

	chat, err := s.loadOrCreateChat(r.Context(), req)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Chat not found.")
			return
		}
		log.Error().Err(err).Msg("Chat session load failed")
		writeError(w, http.StatusInternalServerError, "Could not load the chat.")
		return
	}
	history := chat.Messages

	if _, err := s.chats.AppendMessage(r.Context(), chat.ID, models.ChatRoleUser, req.Message); err != nil {
		log.Error().Err(err).Str("chatId", chat.ID).Msg("Failed to persist user message")
		writeError(w, http.StatusInternalServerError, "Could not save the message.")
		return
	}

	// Expert short-circuit: a resolved escalation matching the query
	// beats the model.
	if match, err := s.questions.SearchResolved(r.Context(), req.Message); err != nil {
		log.Error().Err(err).Msg("Expert answer lookup failed")
	} else if match != nil {
		text := i18n.T(lang, i18n.KeyExpertAnswered) + " " + strconv.Quote(match.Answer)
		s.appendBotMessage(r.Context(), chat.ID, text)
		s.metrics.countChatTurn(r.Context(), "expert")
		writeJSON(w, http.StatusOK, chatResponse{
			ChatID:       chat.ID,
			Source:       "expert",
			ResponseText: text,
		})
		return
	}

	var soilReport *models.SoilReport
	if report, err := s.soil.LatestByUser(r.Context(), req.UserID); err == nil {
		soilReport = report
	} else if !errors.Is(err, db.ErrNotFound) {
		log.Error().Err(err).Int64("userId", req.UserID).Msg("Soil report lookup failed")
	}

	reply, err := s.advisor.Ask(r.Context(), assistant.Request{
		Message:    req.Message,
		Language:   string(lang),
		History:    history,
		SoilReport: soilReport,
	})
	if err != nil {
		log.Error().Err(err).Str("chatId", chat.ID).Msg("Assistant call failed")
		writeError(w, http.StatusBadGateway, i18n.T(lang, i18n.KeyConnectionError))
		return
	}

	s.appendBotMessage(r.Context(), chat.ID, reply.ResponseText)
	s.metrics.countChatTurn(r.Context(), "assistant")

	resp := chatResponse{
		ChatID:       chat.ID,
		Source:       "assistant",
		ResponseText: reply.ResponseText,
		IsComplex:    reply.IsComplex,
	}
	if reply.IsComplex {
		resp.EscalationDraft = &escalationDraft{
			Title:   reply.QuestionSummary,
			Details: req.Message,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// loadOrCreateChat resolves the session for a turn. A missing chatId
// starts a fresh session titled after the first message.
func (s *Service) loadOrCreateChat(ctx context.Context, req chatRequest) (*models.ChatSession, error) {
	if req.ChatID == "" {
		return s.chats.CreateChat(ctx, req.UserID, chatTitle(req.Message))
	}

	chat, err := s.chats.GetChat(ctx, req.ChatID)
	if err != nil {
		return nil, err
	}
	if chat.UserID != req.UserID {
		return nil, db.ErrNotFound
	}
	return chat, nil
}

// appendBotMessage persists an assistant utterance. The reply has
// already been produced, so a persistence failure only logs.
func (s *Service) appendBotMessage(ctx context.Context, chatID, content string) {
	if _, err := s.chats.AppendMessage(ctx, chatID, models.ChatRoleBot, content); err != nil {
		log.Error().Err(err).Str("chatId", chatID).Msg("Failed to persist bot message")
	}
}

// userLanguage falls back to the account's preferred language.
func (s *Service) userLanguage(ctx context.Context, userID int64) i18n.Language {
	if user, err := s.users.GetByID(ctx, userID); err == nil {
		if lang := i18n.Language(user.Language); lang.Valid() {
			return lang
		}
	}
	return i18n.English
}

func chatTitle(message string) string {
	runes := []rune(message)
	if len(runes) <= chatTitleLimit {
		return message
	}
	return string(runes[:chatTitleLimit]) + "..."
}

// handleListChats lists a user's chat sessions, newest activity first.
func (s *Service) handleListChats(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	chats, err := s.chats.ListChats(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Int64("userId", userID).Msg("Chat listing failed")
		writeError(w, http.StatusInternalServerError, "Could not list chats.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"chats": chats,
		"count": len(chats),
	})
}

// handleGetChat serves one chat session with its full message history.
func (s *Service) handleGetChat(w http.ResponseWriter, r *http.Request) {
	chat, err := s.chats.GetChat(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Chat not found.")
			return
		}
		log.Error().Err(err).Msg("Chat lookup failed")
		writeError(w, http.StatusInternalServerError, "Could not load the chat.")
		return
	}

	writeJSON(w, http.StatusOK, chat)
}

// handleDeleteChat removes a chat session and its messages.
func (s *Service) handleDeleteChat(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.chats.DeleteChat(r.Context(), id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Chat not found.")
			return
		}
		log.Error().Err(err).Str("chatId", id).Msg("Chat deletion failed")
		writeError(w, http.StatusInternalServerError, "Could not delete the chat.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
