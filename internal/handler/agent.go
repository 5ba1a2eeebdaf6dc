package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/yaduvivaah/agent-portal-api/internal/apperror"
	"github.com/yaduvivaah/agent-portal-api/internal/pincode"
	"github.com/yaduvivaah/agent-portal-api/internal/storage"
	"github.com/yaduvivaah/agent-portal-api/internal/usecase"
	"github.com/yaduvivaah/agent-portal-api/internal/validation"
)

// AgentHandler serves the profile editor and dashboard.
type AgentHandler struct {
	profiles  usecase.ProfileUsecase
	dashboard usecase.DashboardUsecase
	pincodes  pincode.Lookup
	validate  *validation.Validator
	logger    *zerolog.Logger
}

// NewAgentHandler creates the agent handler.
func NewAgentHandler(
	profiles usecase.ProfileUsecase,
	dashboard usecase.DashboardUsecase,
	pincodes pincode.Lookup,
	validate *validation.Validator,
	logger *zerolog.Logger,
) *AgentHandler {
	return &AgentHandler{
		profiles:  profiles,
		dashboard: dashboard,
		pincodes:  pincodes,
		validate:  validate,
		logger:    logger,
	}
}

// Me returns the authenticated agent's profile.
func (h *AgentHandler) Me(w http.ResponseWriter, r *http.Request) {
	s, _ := SessionFromContext(r.Context())

	profile, err := h.profiles.GetProfile(r.Context(), s.IdentityToken)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load profile")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// UpdateMe persists a full profile draft.
func (h *AgentHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	s, _ := SessionFromContext(r.Context())

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperror.New(apperror.KindValidation, "invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, err)
		return
	}

	profile, err := h.profiles.UpdateProfile(r.Context(), s.IdentityToken, req.toDraft())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to update profile")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// ReplacePhoto uploads a new display picture and persists its locator.
func (h *AgentHandler) ReplacePhoto(w http.ResponseWriter, r *http.Request) {
	s, _ := SessionFromContext(r.Context())

	if err := r.ParseMultipartForm(storage.MaxFileSize + 1<<20); err != nil {
		respondError(w, apperror.New(apperror.KindValidation, "invalid upload form"))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, err := fileFromForm(r, "photo")
	if err != nil {
		respondError(w, err)
		return
	}
	if file == nil {
		respondError(w, apperror.New(apperror.KindValidation, "please select a photo to upload"))
		return
	}

	profile, err := h.profiles.ReplacePhoto(r.Context(), s.IdentityToken, file)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to replace photo")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// Stats returns the dashboard metrics.
func (h *AgentHandler) Stats(w http.ResponseWriter, r *http.Request) {
	s, _ := SessionFromContext(r.Context())

	stats, err := h.dashboard.Stats(r.Context(), s.IdentityToken)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to compute stats")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

// LookupPincode resolves a postal code for the profile editor.
func (h *AgentHandler) LookupPincode(w http.ResponseWriter, r *http.Request) {
	addr, err := h.pincodes.Resolve(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, addr)
}
