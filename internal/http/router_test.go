package http

import (
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"quizbowl-match-service/internal/app/matches"
	"quizbowl-match-service/internal/http/handlers"
	"quizbowl-match-service/internal/store"
)

func TestRouterRoutes(t *testing.T) {
	svc := matches.NewService(store.NewMemoryStore(), nil)
	handler := handlers.NewHandler(svc, nil, nil)
	admin := handlers.NewAdminHandler(func(*nethttp.Request) error { return nil }, "secret", nil)
	router := NewRouter(handler, admin)

	cases := []struct {
		method string
		path   string
		want   int
	}{
		{nethttp.MethodGet, "/health", nethttp.StatusOK},
		{nethttp.MethodGet, "/ready", nethttp.StatusOK},
		{nethttp.MethodGet, "/matches", nethttp.StatusOK},
		{nethttp.MethodGet, "/matches/unknown", nethttp.StatusNotFound},
		{nethttp.MethodPost, "/admin/snapshots/refresh", nethttp.StatusUnauthorized},
		{nethttp.MethodGet, "/nope", nethttp.StatusNotFound},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, tc.want, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestRouterWithoutAdmin(t *testing.T) {
	svc := matches.NewService(store.NewMemoryStore(), nil)
	router := NewRouter(handlers.NewHandler(svc, nil, nil), nil)

	req := httptest.NewRequest(nethttp.MethodPost, "/admin/snapshots/refresh", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, nethttp.StatusNotFound, rec.Code)
}
