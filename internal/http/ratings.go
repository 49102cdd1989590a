package httpserver

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ratemystore/ratemystore/internal/repository"
)

type ratingSubmitRequest struct {
	StoreID int64 `json:"storeId" validate:"required,gte=1"`
	Rating  int16 `json:"rating" validate:"required,gte=1,lte=5"`
}

type ratingResponse struct {
	StoreID   int64     `json:"storeId"`
	Rating    int16     `json:"rating"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ownRatingResponse struct {
	Rating *int16 `json:"rating"`
}

// handleSubmitRating creates or overwrites the caller's rating for a
// store. A first submission answers 201, an overwrite answers 200.
func (s *Server) handleSubmitRating(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(r.Context())
	if !ok {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
		return
	}

	var req ratingSubmitRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		s.respondValidationError(w, validationDetails(err))
		return
	}

	if _, err := s.repo.Stores.GetByID(r.Context(), req.StoreID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
			return
		}
		s.logger.Printf("fetch store for rating failed: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process rating")
		return
	}

	rating, inserted, err := s.repo.Ratings.Upsert(r.Context(), repository.RatingUpsertParams{
		UserID:  principal.ID,
		StoreID: req.StoreID,
		Value:   req.Rating,
	})
	if err != nil {
		s.logger.Printf("upsert rating error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process rating")
		return
	}

	status := http.StatusOK
	if inserted {
		status = http.StatusCreated
	}
	s.respondJSON(w, status, ratingResponse{
		StoreID:   rating.StoreID,
		Rating:    rating.Value,
		CreatedAt: rating.CreatedAt,
		UpdatedAt: rating.UpdatedAt,
	})
}

// handleGetOwnRating reports the caller's rating for a store; a null
// rating means the caller has not rated it yet.
func (s *Server) handleGetOwnRating(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(r.Context())
	if !ok {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
		return
	}

	storeID, err := strconv.ParseInt(chi.URLParam(r, "storeID"), 10, 64)
	if err != nil || storeID < 1 {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid store id")
		return
	}

	if _, err := s.repo.Stores.GetByID(r.Context(), storeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
			return
		}
		s.logger.Printf("fetch store for rating lookup failed: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch rating")
		return
	}

	rating, err := s.repo.Ratings.Get(r.Context(), principal.ID, storeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondJSON(w, http.StatusOK, ownRatingResponse{Rating: nil})
			return
		}
		s.logger.Printf("get rating error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch rating")
		return
	}

	s.respondJSON(w, http.StatusOK, ownRatingResponse{Rating: &rating.Value})
}
