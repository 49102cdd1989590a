package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/ratemystore/ratemystore/internal/domain"
	"github.com/ratemystore/ratemystore/internal/repository"
)

// Principal identifies the authenticated caller for a request.
type Principal struct {
	ID   int64
	Role domain.Role
}

type contextKey int

const principalKey contextKey = 0

func principalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}

// requireAuth resolves the bearer token to a user. The token only
// carries the user ID; the role is read fresh from the database so a
// role change takes effect on the next request.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		const prefix = "Bearer "
		if !strings.HasPrefix(header, prefix) {
			s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
			return
		}

		userID, err := s.tokens.Verify(strings.TrimSpace(strings.TrimPrefix(header, prefix)))
		if err != nil {
			s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
			return
		}

		user, err := s.repo.Users.GetByID(r.Context(), userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
				return
			}
			s.logger.Printf("resolve token subject failed: %v", err)
			s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to authenticate request")
			return
		}

		ctx := context.WithValue(r.Context(), principalKey, Principal{ID: user.ID, Role: user.Role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := principalFrom(r.Context())
			if !ok {
				s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
				return
			}
			for _, role := range roles {
				if principal.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			s.respondError(w, http.StatusForbidden, "FORBIDDEN", "Insufficient permissions for this operation")
		})
	}
}
