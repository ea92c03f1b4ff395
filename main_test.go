package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouteFallback(t *testing.T) {
	// The echoed path includes the query string, not just the path component.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/nope?sort=asc", nil)
	rec := httptest.NewRecorder()
	routeFallback(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	var body struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "fail", body.Status)
	assert.Equal(t, "Can't find /api/v1/nope?sort=asc on this server!", body.Message)
}
