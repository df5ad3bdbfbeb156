package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/krishimitra/advisory/internal/i18n"
)

// handleCatalog serves the message catalog for one language. Gaps are
// already filled with English, so clients never see an empty string.
func (s *Service) handleCatalog(w http.ResponseWriter, r *http.Request) {
	lang := i18n.Language(chi.URLParam(r, "lang"))
	if !lang.Valid() {
		writeError(w, http.StatusBadRequest, "unsupported language")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"language": lang,
		"messages": i18n.Catalog(lang),
	})
}
