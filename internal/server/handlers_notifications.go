package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	db "github.com/krishimitra/advisory/internal/db/gorm"
	"github.com/krishimitra/advisory/internal/i18n"
)

// handleListNotifications serves a user's notifications, newest first.
func (s *Service) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	notifications, err := s.notifications.ListByUser(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Int64("userId", userID).Msg("Notification listing failed")
		writeError(w, http.StatusInternalServerError, "Could not list notifications.")
		return
	}

	unread, err := s.notifications.UnreadCount(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Int64("userId", userID).Msg("Unread count failed")
		writeError(w, http.StatusInternalServerError, "Could not list notifications.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": notifications,
		"unread":        unread,
	})
}

// handleMarkNotificationRead flags one notification as read.
func (s *Service) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid notification id")
		return
	}

	if err := s.notifications.MarkRead(r.Context(), id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Notification not found.")
			return
		}
		log.Error().Err(err).Int64("notificationId", id).Msg("Mark read failed")
		writeError(w, http.StatusInternalServerError, "Could not update the notification.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// handleMarkAllNotificationsRead flags every notification of a user as
// read. Marking zero rows is still a success.
func (s *Service) handleMarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	if err := s.notifications.MarkAllRead(r.Context(), userID); err != nil {
		log.Error().Err(err).Int64("userId", userID).Msg("Mark all read failed")
		writeError(w, http.StatusInternalServerError, "Could not update notifications.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": i18n.T(i18n.English, i18n.KeyNotificationReadAll),
	})
}

// handleEvents upgrades the request to a per-user SSE stream carrying
// notification events as they are created.
func (s *Service) handleEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}
	s.broadcaster.ServeHTTP(w, r, userID)
}
