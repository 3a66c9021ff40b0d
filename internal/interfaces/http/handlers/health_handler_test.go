package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthHandler(t *testing.T) {
	up := PingFunc(func(context.Context) error { return nil })
	down := PingFunc(func(context.Context) error { return errors.New("connection refused") })

	r := newTestRouter()
	r.GET("/ok", NewHealthHandler(map[string]Pinger{"database": up}).Health)
	r.GET("/degraded", NewHealthHandler(map[string]Pinger{"database": up, "redis": down}).Health)

	w := doJSON(t, r, http.MethodGet, "/ok", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeBody(t, w)["status"])

	w = doJSON(t, r, http.MethodGet, "/degraded", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, map[string]any{"database": "up", "redis": "down"}, body["dependencies"])
}
