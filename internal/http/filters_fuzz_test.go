package httpserver

import (
	"net/url"
	"testing"
)

func FuzzBuildUserFilters(f *testing.F) {
	seeds := []string{
		"name=alice&role=normal_user&sortBy=email&sortOrder=desc",
		"role=wizard",
		"sortBy=password_hash",
		"",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, raw string) {
		values, err := url.ParseQuery(raw)
		if err != nil {
			return
		}
		_, _ = buildUserFilters(values)
		_ = buildStoreFilters(values)
		_ = buildAdminStoreFilters(values)
	})
}
