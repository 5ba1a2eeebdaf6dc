package handler

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/yaduvivaah/agent-portal-api/internal/apperror"
	"github.com/yaduvivaah/agent-portal-api/internal/storage"
	"github.com/yaduvivaah/agent-portal-api/internal/usecase"
	"github.com/yaduvivaah/agent-portal-api/internal/validation"
)

// maxRegistrationForm bounds the multipart registration body: three images
// of at most 5 MiB plus form fields.
const maxRegistrationForm = 3*storage.MaxFileSize + 1<<20

// AuthHandler serves the registration and login wizards.
type AuthHandler struct {
	auth     usecase.AuthUsecase
	validate *validation.Validator
	logger   *zerolog.Logger
}

// NewAuthHandler creates the auth handler.
func NewAuthHandler(auth usecase.AuthUsecase, validate *validation.Validator, logger *zerolog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, validate: validate, logger: logger}
}

// Register handles step one of the registration wizard: a multipart form
// with the agent's details and three document images.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxRegistrationForm); err != nil {
		respondError(w, apperror.New(apperror.KindValidation, "invalid registration form"))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	fields, err := registrationFieldsFromForm(r)
	if err != nil {
		respondError(w, err)
		return
	}

	files, err := registrationFilesFromForm(r)
	if err != nil {
		respondError(w, err)
		return
	}

	enrollmentID, err := h.auth.BeginRegistration(r.Context(), fields, files)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to begin registration")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusAccepted, challengeResponse{EnrollmentID: enrollmentID})
}

// RegisterVerify handles step two: OTP confirmation, document upload and
// record creation.
func (h *AuthHandler) RegisterVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		respondError(w, err)
		return
	}

	result, err := h.auth.CompleteRegistration(r.Context(), req.EnrollmentID, req.Code)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to complete registration")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, authResponse{Token: result.Token, Agent: result.Agent})
}

// Login handles step one of the login wizard.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req beginLoginRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		respondError(w, err)
		return
	}

	enrollmentID, err := h.auth.BeginLogin(r.Context(), req.PhoneNumber)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to begin login")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusAccepted, challengeResponse{EnrollmentID: enrollmentID})
}

// LoginVerify handles step two of the login wizard.
func (h *AuthHandler) LoginVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		respondError(w, err)
		return
	}

	result, err := h.auth.CompleteLogin(r.Context(), req.EnrollmentID, req.Code)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to complete login")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, authResponse{Token: result.Token, Agent: result.Agent})
}

// Logout destroys the current session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	s, ok := SessionFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "not logged in"})
		return
	}

	h.auth.Logout(s.SessionID)
	respondJSON(w, http.StatusNoContent, nil)
}

func (h *AuthHandler) decodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperror.New(apperror.KindValidation, "invalid request body")
	}
	return h.validate.Struct(dst)
}

func registrationFieldsFromForm(r *http.Request) (usecase.RegistrationFields, error) {
	experience := 0
	if v := r.FormValue("experience"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return usecase.RegistrationFields{}, apperror.New(apperror.KindValidation, "experience must be a number")
		}
		experience = parsed
	}

	return usecase.RegistrationFields{
		Name:         r.FormValue("name"),
		PhoneNumber:  r.FormValue("phone_number"),
		Email:        r.FormValue("email"),
		DateOfBirth:  r.FormValue("dob"),
		Experience:   experience,
		Pincode:      r.FormValue("pincode"),
		Region:       r.FormValue("region"),
		District:     r.FormValue("district"),
		State:        r.FormValue("state"),
		AddressLine1: r.FormValue("address_line_1"),
		AddressLine2: r.FormValue("address_line_2"),
	}, nil
}

func registrationFilesFromForm(r *http.Request) (usecase.RegistrationFiles, error) {
	display, err := fileFromForm(r, "display_picture")
	if err != nil {
		return usecase.RegistrationFiles{}, err
	}

	front, err := fileFromForm(r, "aadhaar_front")
	if err != nil {
		return usecase.RegistrationFiles{}, err
	}

	back, err := fileFromForm(r, "aadhaar_back")
	if err != nil {
		return usecase.RegistrationFiles{}, err
	}

	return usecase.RegistrationFiles{
		DisplayPicture: display,
		AadhaarFront:   front,
		AadhaarBack:    back,
	}, nil
}

// fileFromForm reads one optional multipart file into memory. Reading stops
// one byte past the size limit so oversized files are rejected without
// buffering the full body.
func fileFromForm(r *http.Request, field string) (*storage.File, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.Newf(apperror.KindValidation, "failed to read the %s file", field)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, storage.MaxFileSize+1))
	if err != nil {
		return nil, apperror.Newf(apperror.KindUpload, "failed to read the %s file", field)
	}

	return &storage.File{
		Name:        header.Filename,
		ContentType: contentTypeOf(header, data),
		Data:        data,
	}, nil
}

func contentTypeOf(header *multipart.FileHeader, data []byte) string {
	if ct := header.Header.Get("Content-Type"); ct != "" && ct != "application/octet-stream" {
		return ct
	}
	return http.DetectContentType(data)
}
