package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealthIsPublic(t *testing.T) {
	router := SetupRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("GET /health = %d, want %d", rec.Code, http.StatusOK)
	}
}

// Routes behind the token middleware must answer 401 to anonymous
// requests, not 404: a 404 means the route never reaches the middleware.
func TestProtectedRoutesRejectAnonymous(t *testing.T) {
	router := SetupRouter()

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/auth/me"},
		{http.MethodPost, "/api/v1/auth/logout"},
		{http.MethodGet, "/api/v1/browse"},
		{http.MethodGet, "/api/v1/search"},
		{http.MethodGet, "/api/v1/users"},
		{http.MethodGet, "/api/v1/files"},
		{http.MethodPost, "/api/v1/folders"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s = %d, want %d", tc.method, tc.path, rec.Code, http.StatusUnauthorized)
		}
	}
}
