package server

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	db "github.com/krishimitra/advisory/internal/db/gorm"
	"github.com/krishimitra/advisory/internal/i18n"
	"github.com/krishimitra/advisory/pkg/models"
)

// authRequest covers both signup and login. The client sends camelCase
// keys.
type authRequest struct {
	MobileNumber string `json:"mobileNumber"`
	IsSignUp     bool   `json:"isSignUp"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	State        string `json:"state"`
	District     string `json:"district"`
	Taluka       string `json:"taluka"`
	Village      string `json:"village"`
	Language     string `json:"language"`
	Role         string `json:"role"`
	OfficerCode  string `json:"officerCode"`
}

// handleAuth signs a user up or logs them in. The mobile number is the
// sole credential; officers additionally present their officer code.
func (s *Service) handleAuth(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.MobileNumber == "" {
		writeError(w, http.StatusBadRequest, "Mobile number is required.")
		return
	}

	if req.IsSignUp {
		s.signUp(w, r, req)
		return
	}
	s.logIn(w, r, req)
}

// signUp creates an account. All sign-ups are regular users: officer
// accounts are provisioned directly in the database, never through
// this route, so a client cannot mint its own officer credentials.
func (s *Service) signUp(w http.ResponseWriter, r *http.Request, req authRequest) {
	language := req.Language
	if language == "" || !i18n.Language(language).Valid() {
		language = string(i18n.English)
	}

	user, err := s.users.Create(r.Context(), &models.User{
		MobileNumber: req.MobileNumber,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		State:        req.State,
		District:     req.District,
		Taluka:       req.Taluka,
		Village:      req.Village,
		Language:     language,
		Role:         models.RoleUser,
	})
	if err != nil {
		if errors.Is(err, db.ErrDuplicateMobile) {
			writeError(w, http.StatusConflict, "Mobile number already registered. Please log in.")
			return
		}
		log.Error().Err(err).Msg("Signup failed")
		writeError(w, http.StatusInternalServerError, "Could not create the account.")
		return
	}

	log.Info().Int64("userId", user.ID).Str("role", string(user.Role)).Msg("User signed up")
	writeJSON(w, http.StatusOK, user)
}

func (s *Service) logIn(w http.ResponseWriter, r *http.Request, req authRequest) {
	user, err := s.users.GetByMobile(r.Context(), req.MobileNumber)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found. Please sign up.")
			return
		}
		log.Error().Err(err).Msg("Login lookup failed")
		writeError(w, http.StatusInternalServerError, "Could not log in.")
		return
	}

	// Officer logins must prove the role with the officer code.
	if models.Role(req.Role) == models.RoleAgriOfficer {
		if user.Role != models.RoleAgriOfficer || req.OfficerCode != user.OfficerCode {
			writeError(w, http.StatusUnauthorized, "Invalid credentials for Agri-Officer role.")
			return
		}
	}

	log.Info().Int64("userId", user.ID).Str("role", string(user.Role)).Msg("User logged in")
	writeJSON(w, http.StatusOK, user)
}
