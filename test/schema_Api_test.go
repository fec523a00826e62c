package test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

// === GET ===
func TestGetSchema_Success(t *testing.T) {
	router, _ := SetupTestServer(t)

	req := httptest.NewRequest("GET", "/schema", nil)
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	schemas := unmarshalOkResponse[map[string]any](t, resp.Body.Bytes())

	assert.Contains(t, schemas, "deploy")
	assert.Contains(t, schemas, "wait")
	assert.Contains(t, schemas, "monitor")
}
