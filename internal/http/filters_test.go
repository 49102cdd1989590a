package httpserver

import (
	"net/url"
	"testing"

	"github.com/ratemystore/ratemystore/internal/domain"
)

func TestBuildUserFilters(t *testing.T) {
	values, _ := url.ParseQuery("name= alice &email=alice@example.com&address= Main Street &role=store_owner&sortBy=email&sortOrder=desc")

	filters, err := buildUserFilters(values)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filters.Name == nil || *filters.Name != "alice" {
		t.Fatalf("name not trimmed: %+v", filters.Name)
	}
	if filters.Email == nil || *filters.Email != "alice@example.com" {
		t.Fatalf("email parse failed: %+v", filters.Email)
	}
	if filters.Address == nil || *filters.Address != "Main Street" {
		t.Fatalf("address not trimmed")
	}
	if filters.Role == nil || *filters.Role != domain.RoleStoreOwner {
		t.Fatalf("role parse failed: %+v", filters.Role)
	}
	if filters.SortBy != "email" || filters.SortOrder != "desc" {
		t.Fatalf("sort params = %q/%q", filters.SortBy, filters.SortOrder)
	}
}

func TestBuildUserFilters_InvalidRole(t *testing.T) {
	values, _ := url.ParseQuery("role=wizard")
	if _, err := buildUserFilters(values); err == nil {
		t.Fatalf("expected error for unknown role")
	}
}

func TestBuildStoreFilters(t *testing.T) {
	values, _ := url.ParseQuery("name= Corner &address=Market&sortBy=average_rating&sortOrder=desc")

	filters := buildStoreFilters(values)
	if filters.Name == nil || *filters.Name != "Corner" {
		t.Fatalf("name not trimmed: %+v", filters.Name)
	}
	if filters.Address == nil || *filters.Address != "Market" {
		t.Fatalf("address parse failed")
	}
	if filters.SortBy != "average_rating" || filters.SortOrder != "desc" {
		t.Fatalf("sort params = %q/%q", filters.SortBy, filters.SortOrder)
	}

	empty := buildStoreFilters(url.Values{})
	if empty.Name != nil || empty.Address != nil || empty.SortBy != "" {
		t.Fatalf("empty query produced filters: %+v", empty)
	}
}

func TestBuildAdminStoreFilters(t *testing.T) {
	values, _ := url.ParseQuery("name=Corner&email=shop@example.com&address=Market&sortBy=rating")

	filters := buildAdminStoreFilters(values)
	if filters.Name == nil || filters.Email == nil || filters.Address == nil {
		t.Fatalf("filters missing: %+v", filters)
	}
	if *filters.Email != "shop@example.com" {
		t.Fatalf("email parse failed: %q", *filters.Email)
	}
	if filters.SortBy != "rating" {
		t.Fatalf("sortBy = %q", filters.SortBy)
	}
}
