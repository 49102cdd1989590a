package httpserver

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ratemystore/ratemystore/internal/domain"
)

func BenchmarkHandleSubmitRating(b *testing.B) {
	srv := buildTestServer(b)

	_, token := seedUser(b, srv, "Benchmark Rater Goes Here Now", "bench@example.com", "Valid@Pass1", domain.RoleNormalUser)
	owner, _ := seedUser(b, srv, "Benchmark Store Owner Person", "bench-owner@example.com", "Valid@Pass1", domain.RoleStoreOwner)
	store := seedStore(b, srv, "Benchmark Shop", "bench-shop@example.com", owner.ID)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		payload := []byte(fmt.Sprintf(`{"storeId":%d,"rating":%d}`, store.ID, i%5+1))
		req := httptest.NewRequest(http.MethodPost, "/api/ratings/", bytes.NewReader(payload))
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		srv.router.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated && rec.Code != http.StatusOK {
			b.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
		}
	}
}
