package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/nameless-app/users-be/internal/models"
	"github.com/nameless-app/users-be/internal/services"
)

// UserHandler handles HTTP requests for user management.
type UserHandler struct {
	service  services.UserServiceProvider
	validate *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider) *UserHandler {
	return &UserHandler{
		service:  service,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Create handles new user creation.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload models.UserData
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		respondBadRequest(w, "validation failed: "+err.Error())
		return
	}

	user, err := h.service.CreateUser(r.Context(), payload)
	if err != nil {
		log.Error().Err(err).Str("username", payload.Username).Msg("Failed to create user")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

// Get handles retrieving a user by username.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	info, err := h.service.GetUser(r.Context(), username)
	if err != nil {
		log.Warn().Err(err).Str("username", username).Msg("Failed to get user")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, info)
}

// Update handles updating a user's profile information. The username in the
// payload identifies the record; it is never changed itself.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var payload models.UserInfo
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		respondBadRequest(w, "validation failed: "+err.Error())
		return
	}

	info, err := h.service.UpdateUser(r.Context(), payload)
	if err != nil {
		log.Error().Err(err).Str("username", payload.Username).Msg("Failed to update user")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, info)
}

// Delete handles the permanent deletion of a user account. The deleted
// record's public view is returned.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	info, err := h.service.DeleteUser(r.Context(), username)
	if err != nil {
		log.Error().Err(err).Str("username", username).Msg("Failed to delete user")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, info)
}
