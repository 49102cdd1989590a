package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ratemystore/ratemystore/internal/auth"
	"github.com/ratemystore/ratemystore/internal/domain"
	"github.com/ratemystore/ratemystore/internal/repository"
)

type registerRequest struct {
	Name     string `json:"name" validate:"required,min=20,max=60"`
	Email    string `json:"email" validate:"required,email"`
	Address  string `json:"address" validate:"max=400"`
	Password string `json:"password" validate:"required,userpassword"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,userpassword"`
}

type userResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Role    string `json:"role"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func toUserResponse(user domain.User) userResponse {
	return userResponse{
		ID:      user.ID,
		Name:    user.Name,
		Email:   user.Email,
		Address: user.Address,
		Role:    string(user.Role),
	}
}

// handleRegister signs up a normal user. Admins and store owners are
// only ever created through the admin endpoint.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Address = strings.TrimSpace(req.Address)
	if err := validate.Struct(req); err != nil {
		s.respondValidationError(w, validationDetails(err))
		return
	}

	hash, err := auth.HashPassword(req.Password, s.cfg.BcryptCost)
	if err != nil {
		s.logger.Printf("hash password failed: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to register user")
		return
	}

	user, err := s.repo.Users.Create(r.Context(), repository.UserCreateParams{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Address:      req.Address,
		Role:         domain.RoleNormalUser,
	})
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			s.respondError(w, http.StatusConflict, "CONFLICT", "Email address already registered")
			return
		}
		s.logger.Printf("register user failed: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to register user")
		return
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.logger.Printf("issue token failed: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to register user")
		return
	}

	s.respondJSON(w, http.StatusCreated, authResponse{Token: token, User: toUserResponse(user)})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := validate.Struct(req); err != nil {
		s.respondValidationError(w, validationDetails(err))
		return
	}

	// Unknown email and bad password produce the same answer.
	user, err := s.repo.Users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid credentials")
			return
		}
		s.logger.Printf("login lookup failed: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to log in")
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid credentials")
		return
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.logger.Printf("issue token failed: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to log in")
		return
	}

	s.respondJSON(w, http.StatusOK, authResponse{Token: token, User: toUserResponse(user)})
}

func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(r.Context())
	if !ok {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
		return
	}

	var req updatePasswordRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		s.respondValidationError(w, validationDetails(err))
		return
	}

	user, err := s.repo.Users.GetByID(r.Context(), principal.ID)
	if err != nil {
		s.logger.Printf("fetch user for password change failed: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update password")
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "Current password is incorrect")
		return
	}

	hash, err := auth.HashPassword(req.NewPassword, s.cfg.BcryptCost)
	if err != nil {
		s.logger.Printf("hash password failed: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update password")
		return
	}
	if err := s.repo.Users.UpdatePassword(r.Context(), user.ID, hash); err != nil {
		s.logger.Printf("update password failed: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update password")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}
