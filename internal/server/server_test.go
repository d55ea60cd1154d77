package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/osse101/FlipResolver_Go/internal/catalog"
	"github.com/osse101/FlipResolver_Go/internal/domain"
	"github.com/osse101/FlipResolver_Go/mocks"
)

const testAPIKey = "secret-key"

func newTestRouter(t *testing.T) (http.Handler, *mocks.MockFlipService) {
	svc := mocks.NewMockFlipService(t)
	return NewRouter(Config{APIKey: testAPIKey, Version: "1.2.3"}, nil, svc), svc
}

func TestAuthMiddleware(t *testing.T) {
	middleware := AuthMiddleware(testAPIKey, NewClientGuard(GuardConfig{}))

	tests := []struct {
		name           string
		providedKey    string
		path           string
		expectedStatus int
	}{
		{"Valid API Key", testAPIKey, "/api/v1/offers", http.StatusOK},
		{"Invalid API Key", "wrong-key", "/api/v1/offers", http.StatusUnauthorized},
		{"Missing API Key", "", "/api/v1/offers", http.StatusUnauthorized},
		{"Public Path - Healthz", "", "/healthz", http.StatusOK},
		{"Public Path - Metrics", "", "/metrics", http.StatusOK},
		{"Public Path - Tax", "", "/api/v1/tax", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.providedKey != "" {
				req.Header.Set(HeaderAPIKey, tt.providedKey)
			}
			rec := httptest.NewRecorder()

			h := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestRouter_PublicRoutes(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []struct {
		path         string
		expectedBody string
	}{
		{"/healthz", "ok"},
		{"/readyz", "ok"},
		{"/version", "1.2.3"},
		{"/api/v1/tax?price=1000", `"tax":10`},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
		})
	}
}

func TestRouter_ProtectedRoutes(t *testing.T) {
	router, svc := newTestRouter(t)
	svc.On("CatalogStats").Return(catalog.Stats{Recipes: 7})
	svc.On("History", mock.Anything, 4151).Return([]domain.CompositeTransaction{}, nil)

	t.Run("rejected without key", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/catalog", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("catalog stats", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/catalog", nil)
		req.Header.Set(HeaderAPIKey, testAPIKey)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"recipes":7`)
	})

	t.Run("item route params", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/items/4151/composites", nil)
		req.Header.Set(HeaderAPIKey, testAPIKey)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
	})
}

func TestLoggingMiddleware_PropagatesRequestID(t *testing.T) {
	h := loggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/offers", nil)
	req.Header.Set(HeaderRequestID, "req-42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "req-42", rec.Header().Get(HeaderRequestID))
}
