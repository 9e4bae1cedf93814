package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/fintrack/fintrack/internal/auth"
	"github.com/fintrack/fintrack/internal/handler/dto"
	"github.com/fintrack/fintrack/internal/service"
)

// allowedImageTypes are the accepted MIME types for profile photo uploads.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// photoFieldNames are the multipart field names accepted for the photo file.
// Older clients send profilePic, newer ones profilePhoto.
var photoFieldNames = []string{"profilePic", "profilePhoto"}

// AuthHandler handles signup, login and profile endpoints.
type AuthHandler struct {
	svc           *service.UserService
	logger        *slog.Logger
	maxUploadSize int64
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.UserService, logger *slog.Logger, maxUploadSize int64) *AuthHandler {
	return &AuthHandler{
		svc:           svc,
		logger:        logger,
		maxUploadSize: maxUploadSize,
	}
}

// Signup handles POST /api/auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	result, err := h.svc.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("user_signed_up", "user_id", result.User.ID)

	writeJSON(w, http.StatusCreated, dto.AuthResponse{
		Token: result.Token,
		User:  dto.ToUserResponse(result.User),
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	result, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		// Login reports an unknown email as a 400, not a 404: the profile
		// routes use 404 for a vanished account, but a failed login is a
		// bad credential either way.
		if errors.Is(err, service.ErrUserNotFound) {
			h.writeError(w, http.StatusBadRequest, "USER_NOT_FOUND", "User not found")
			return
		}
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("user_logged_in", "user_id", result.User.ID)

	writeJSON(w, http.StatusOK, dto.AuthResponse{
		Token: result.Token,
		User:  dto.ToUserResponse(result.User),
	})
}

// GetProfile handles GET /api/auth/profile.
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	user, err := h.svc.GetProfile(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToUserResponse(user))
}

// UpdateProfile handles PUT /api/auth/profile.
// The request is multipart: name and email fields plus an optional image
// file under profilePic or profilePhoto.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_MULTIPART", "Invalid multipart body")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	input := service.UpdateProfileInput{
		Name:  r.FormValue("name"),
		Email: r.FormValue("email"),
	}

	for _, field := range photoFieldNames {
		file, header, err := r.FormFile(field)
		if err != nil {
			continue
		}
		defer file.Close()

		contentType, err := sniffImageType(file, header.Header.Get("Content-Type"))
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "UNSUPPORTED_IMAGE_TYPE", "Only image files are allowed")
			return
		}

		input.Photo = &service.PhotoUpload{
			Filename:    header.Filename,
			ContentType: contentType,
			Data:        file,
		}
		break
	}

	user, err := h.svc.UpdateProfile(r.Context(), userID, input)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("profile_updated",
		"user_id", user.ID,
		"photo_replaced", input.Photo != nil,
	)

	writeJSON(w, http.StatusOK, dto.ToUserResponse(user))
}

// sniffImageType determines the upload's MIME type from its leading bytes,
// falling back to the declared type for formats the sniffer cannot name.
// Returns an error for anything outside the accepted image set.
func sniffImageType(file multipart.File, declared string) (string, error) {
	head := make([]byte, 512)
	n, _ := file.Read(head)
	if _, err := file.Seek(0, 0); err != nil {
		return "", err
	}

	detected := http.DetectContentType(head[:n])
	if allowedImageTypes[detected] {
		return detected, nil
	}

	// DetectContentType does not know every container; trust the declared
	// type only when it is in the accepted set.
	declared = strings.ToLower(strings.TrimSpace(declared))
	if idx := strings.Index(declared, ";"); idx >= 0 {
		declared = declared[:idx]
	}
	if allowedImageTypes[declared] && strings.HasPrefix(detected, "application/octet-stream") {
		return declared, nil
	}

	return "", errors.New("unsupported image type")
}

// handleServiceError maps user service errors to HTTP responses.
func (h *AuthHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrMissingFields):
		h.writeError(w, http.StatusBadRequest, "MISSING_FIELDS", "All required fields must be filled")
	case errors.Is(err, service.ErrInvalidEmail):
		h.writeError(w, http.StatusBadRequest, "INVALID_EMAIL", "Invalid email address")
	case errors.Is(err, service.ErrEmailTaken):
		h.writeError(w, http.StatusBadRequest, "EMAIL_TAKEN", "User already exists")
	case errors.Is(err, service.ErrUserNotFound):
		h.writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	case errors.Is(err, service.ErrInvalidCredentials):
		h.writeError(w, http.StatusBadRequest, "INVALID_CREDENTIALS", "Invalid email or password")
	case errors.Is(err, service.ErrPhotoUpload):
		h.logger.Error("photo_upload_failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "UPLOAD_FAILED", "Could not store the profile photo")
	default:
		h.logger.Error("internal_error", "error", err)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// writeError writes an error response.
func (h *AuthHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
