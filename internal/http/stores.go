package httpserver

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ratemystore/ratemystore/internal/domain"
	"github.com/ratemystore/ratemystore/internal/repository"
)

type storeCreateRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=255"`
	Email   string `json:"email" validate:"required,email"`
	Address string `json:"address" validate:"max=400"`
	OwnerID int64  `json:"ownerId" validate:"required,gte=1"`
}

type storeViewResponse struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Address       string  `json:"address"`
	AverageRating float64 `json:"averageRating"`
	TotalRatings  int64   `json:"totalRatings"`
	UserRating    *int16  `json:"userRating"`
}

type storeViewListResponse struct {
	Items []storeViewResponse `json:"items"`
}

type storeSummaryResponse struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Address       string  `json:"address"`
	OwnerName     string  `json:"ownerName"`
	AverageRating float64 `json:"averageRating"`
	TotalRatings  int64   `json:"totalRatings"`
}

type storeSummaryListResponse struct {
	Items []storeSummaryResponse `json:"items"`
}

type storeResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
	OwnerID int64  `json:"ownerId"`
}

type storeRaterResponse struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Rating    int16     `json:"rating"`
	CreatedAt time.Time `json:"createdAt"`
}

type ownerDashboardResponse struct {
	Store         storeResponse        `json:"store"`
	AverageRating float64              `json:"averageRating"`
	TotalRatings  int64                `json:"totalRatings"`
	Ratings       []storeRaterResponse `json:"ratings"`
}

func toStoreResponse(store domain.Store) storeResponse {
	return storeResponse{
		ID:      store.ID,
		Name:    store.Name,
		Email:   store.Email,
		Address: store.Address,
		OwnerID: store.OwnerID,
	}
}

// handleListStores serves the store browser for any authenticated user,
// annotated with the caller's own rating per store.
func (s *Server) handleListStores(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(r.Context())
	if !ok {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
		return
	}

	filters := buildStoreFilters(r.URL.Query())
	views, err := s.repo.Stores.ListWithRatings(r.Context(), principal.ID, filters)
	if err != nil {
		s.logger.Printf("list stores error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list stores")
		return
	}

	items := make([]storeViewResponse, 0, len(views))
	for _, view := range views {
		items = append(items, storeViewResponse{
			ID:            view.ID,
			Name:          view.Name,
			Email:         view.Email,
			Address:       view.Address,
			AverageRating: view.AverageRating,
			TotalRatings:  view.TotalRatings,
			UserRating:    view.UserRating,
		})
	}
	s.respondJSON(w, http.StatusOK, storeViewListResponse{Items: items})
}

func buildStoreFilters(query url.Values) repository.StoreListFilters {
	var filters repository.StoreListFilters
	if val := strings.TrimSpace(query.Get("name")); val != "" {
		filters.Name = &val
	}
	if val := strings.TrimSpace(query.Get("address")); val != "" {
		filters.Address = &val
	}
	filters.SortBy = strings.TrimSpace(query.Get("sortBy"))
	filters.SortOrder = strings.TrimSpace(query.Get("sortOrder"))
	return filters
}

func (s *Server) handleListStoresAdmin(w http.ResponseWriter, r *http.Request) {
	filters := buildAdminStoreFilters(r.URL.Query())
	summaries, err := s.repo.Stores.ListAdmin(r.Context(), filters)
	if err != nil {
		s.logger.Printf("admin list stores error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list stores")
		return
	}

	items := make([]storeSummaryResponse, 0, len(summaries))
	for _, summary := range summaries {
		items = append(items, storeSummaryResponse{
			ID:            summary.ID,
			Name:          summary.Name,
			Email:         summary.Email,
			Address:       summary.Address,
			OwnerName:     summary.OwnerName,
			AverageRating: summary.AverageRating,
			TotalRatings:  summary.TotalRatings,
		})
	}
	s.respondJSON(w, http.StatusOK, storeSummaryListResponse{Items: items})
}

func buildAdminStoreFilters(query url.Values) repository.StoreAdminFilters {
	var filters repository.StoreAdminFilters
	if val := strings.TrimSpace(query.Get("name")); val != "" {
		filters.Name = &val
	}
	if val := strings.TrimSpace(query.Get("email")); val != "" {
		filters.Email = &val
	}
	if val := strings.TrimSpace(query.Get("address")); val != "" {
		filters.Address = &val
	}
	filters.SortBy = strings.TrimSpace(query.Get("sortBy"))
	filters.SortOrder = strings.TrimSpace(query.Get("sortOrder"))
	return filters
}

func (s *Server) handleCreateStore(w http.ResponseWriter, r *http.Request) {
	var req storeCreateRequest
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

	owner, err := s.repo.Users.GetByID(r.Context(), req.OwnerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondValidationError(w, map[string]string{"ownerId": "owner not found"})
			return
		}
		s.logger.Printf("resolve store owner failed: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create store")
		return
	}
	if owner.Role != domain.RoleStoreOwner {
		s.respondValidationError(w, map[string]string{"ownerId": "selected user is not a store owner"})
		return
	}

	store, err := s.repo.Stores.Create(r.Context(), repository.StoreCreateParams{
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
		OwnerID: owner.ID,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailTaken):
			s.respondError(w, http.StatusConflict, "CONFLICT", "Store email already registered")
		case errors.Is(err, repository.ErrOwnerHasStore):
			s.respondError(w, http.StatusConflict, "CONFLICT", "Owner already has a store")
		default:
			s.logger.Printf("create store failed: %v", err)
			s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create store")
		}
		return
	}

	s.respondJSON(w, http.StatusCreated, toStoreResponse(store))
}

// handleOwnerDashboard returns the owner's store, its aggregate rating,
// and the identities of everyone who rated it.
func (s *Server) handleOwnerDashboard(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(r.Context())
	if !ok {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
		return
	}

	store, err := s.repo.Stores.GetByOwner(r.Context(), principal.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "No store registered for this account")
			return
		}
		s.logger.Printf("owner dashboard store lookup failed: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load dashboard")
		return
	}

	agg, err := s.repo.Ratings.Aggregate(r.Context(), store.ID)
	if err != nil {
		s.logger.Printf("owner dashboard aggregate failed: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load dashboard")
		return
	}

	raters, err := s.repo.Ratings.ListForStore(r.Context(), store.ID)
	if err != nil {
		s.logger.Printf("owner dashboard raters failed: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load dashboard")
		return
	}

	ratings := make([]storeRaterResponse, 0, len(raters))
	for _, rater := range raters {
		ratings = append(ratings, storeRaterResponse{
			Name:      rater.Name,
			Email:     rater.Email,
			Rating:    rater.Rating,
			CreatedAt: rater.CreatedAt,
		})
	}

	s.respondJSON(w, http.StatusOK, ownerDashboardResponse{
		Store:         toStoreResponse(store),
		AverageRating: agg.Average,
		TotalRatings:  agg.Count,
		Ratings:       ratings,
	})
}
