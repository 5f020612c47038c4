package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct {
	err error
}

func (p stubPinger) PingContext(context.Context) error {
	return p.err
}

func setupRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.RegisterRoutes(r)
	return r
}

func serve(t *testing.T, r *gin.Engine, path string) (int, map[string]interface{}) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestLivenessCheck(t *testing.T) {
	code, body := serve(t, setupRouter(NewHandler(stubPinger{err: errors.New("down")})), "/health/live")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "UP", body["status"])
}

func TestReadinessCheck(t *testing.T) {
	tests := []struct {
		name     string
		dbErr    error
		redisErr error
		wantCode int
		wantDB   string
	}{
		{"all up", nil, nil, http.StatusOK, "UP"},
		{"database down", errors.New("connection refused"), nil, http.StatusServiceUnavailable, "DOWN: connection refused"},
		{"redis down", nil, errors.New("timeout"), http.StatusServiceUnavailable, "UP"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(stubPinger{err: tt.dbErr})
			redisErr := tt.redisErr
			h.AddCheck("redis", func(context.Context) error { return redisErr })

			code, body := serve(t, setupRouter(h), "/health/ready")
			assert.Equal(t, tt.wantCode, code)

			components := body["components"].(map[string]interface{})
			assert.Equal(t, tt.wantDB, components["database"])
		})
	}
}

func TestReadinessCheck_NoChecks(t *testing.T) {
	code, body := serve(t, setupRouter(NewHandler(nil)), "/health/ready")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "UP", body["status"])
}
