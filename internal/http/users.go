package httpserver

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ratemystore/ratemystore/internal/auth"
	"github.com/ratemystore/ratemystore/internal/domain"
	"github.com/ratemystore/ratemystore/internal/repository"
)

type userCreateRequest struct {
	Name     string `json:"name" validate:"required,min=20,max=60"`
	Email    string `json:"email" validate:"required,email"`
	Address  string `json:"address" validate:"max=400"`
	Password string `json:"password" validate:"required,userpassword"`
	Role     string `json:"role" validate:"required,oneof=system_admin normal_user store_owner"`
}

type userSummaryResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type userDetailResponse struct {
	userSummaryResponse
	StoreRating *float64 `json:"storeRating,omitempty"`
}

type userListResponse struct {
	Items []userSummaryResponse `json:"items"`
}

type dashboardStatsResponse struct {
	TotalUsers   int64 `json:"totalUsers"`
	TotalStores  int64 `json:"totalStores"`
	TotalRatings int64 `json:"totalRatings"`
}

func toUserSummaryResponse(user domain.UserSummary) userSummaryResponse {
	return userSummaryResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Address:   user.Address,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
	}
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	filters, err := buildUserFilters(r.URL.Query())
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	users, err := s.repo.Users.List(r.Context(), filters)
	if err != nil {
		s.logger.Printf("list users error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list users")
		return
	}

	items := make([]userSummaryResponse, 0, len(users))
	for _, user := range users {
		items = append(items, toUserSummaryResponse(user))
	}
	s.respondJSON(w, http.StatusOK, userListResponse{Items: items})
}

func buildUserFilters(query url.Values) (repository.UserListFilters, error) {
	var filters repository.UserListFilters

	if val := strings.TrimSpace(query.Get("name")); val != "" {
		filters.Name = &val
	}
	if val := strings.TrimSpace(query.Get("email")); val != "" {
		filters.Email = &val
	}
	if val := strings.TrimSpace(query.Get("address")); val != "" {
		filters.Address = &val
	}
	if val := strings.TrimSpace(query.Get("role")); val != "" {
		role := domain.Role(val)
		if !role.Valid() {
			return filters, errors.New("invalid role value")
		}
		filters.Role = &role
	}
	filters.SortBy = strings.TrimSpace(query.Get("sortBy"))
	filters.SortOrder = strings.TrimSpace(query.Get("sortOrder"))
	return filters, nil
}

// handleCreateUser is the admin path for creating users of any role.
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req userCreateRequest
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
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create user")
		return
	}

	user, err := s.repo.Users.Create(r.Context(), repository.UserCreateParams{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Address:      req.Address,
		Role:         domain.Role(req.Role),
	})
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			s.respondError(w, http.StatusConflict, "CONFLICT", "Email address already registered")
			return
		}
		s.logger.Printf("create user failed: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create user")
		return
	}

	s.respondJSON(w, http.StatusCreated, toUserResponse(user))
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil || userID < 1 {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid user id")
		return
	}

	detail, err := s.repo.Users.GetDetail(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
			return
		}
		s.logger.Printf("get user detail error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch user")
		return
	}

	s.respondJSON(w, http.StatusOK, userDetailResponse{
		userSummaryResponse: toUserSummaryResponse(detail.UserSummary),
		StoreRating:         detail.StoreRating,
	})
}

func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.repo.Stats.Totals(r.Context())
	if err != nil {
		s.logger.Printf("dashboard stats error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch dashboard stats")
		return
	}
	s.respondJSON(w, http.StatusOK, dashboardStatsResponse{
		TotalUsers:   stats.TotalUsers,
		TotalStores:  stats.TotalStores,
		TotalRatings: stats.TotalRatings,
	})
}
