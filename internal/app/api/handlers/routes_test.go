package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subtrackhq/subtrack/pkg/response"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/api/v1")
	RegisterSubscriptionRoutes(g, nil)
	RegisterAnalyticsRoutes(g, &AnalyticsHandler{})
	RegisterRolloverRoutes(g, &RolloverHandler{})
	RegisterHealthRoutes(r)
	return r
}

func TestRegisteredEndpoints(t *testing.T) {
	r := newTestRouter()

	routes := r.Routes()
	contains := func(target string) bool {
		for _, rt := range routes {
			if rt.Method+" "+rt.Path == target {
				return true
			}
		}
		return false
	}

	require.True(t, contains("GET /healthz"))
	require.True(t, contains("POST /api/v1/subscriptions"))
	require.True(t, contains("PUT /api/v1/subscriptions/:id"))
	require.True(t, contains("POST /api/v1/subscriptions/:id/terminate"))
	require.True(t, contains("GET /api/v1/subscriptions"))
	require.True(t, contains("GET /api/v1/subscriptions/snapshots"))
	require.True(t, contains("GET /api/v1/analytics/monthly-totals"))
	require.True(t, contains("GET /api/v1/analytics/category-totals"))
	require.True(t, contains("GET /api/v1/analytics/annual-estimate"))
	require.True(t, contains("POST /api/v1/rollover/run"))
}

func TestHealthz(t *testing.T) {
	r := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp response.APIResponse[map[string]string]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, response.APIResponseCodeOK, resp.Code)
	assert.Equal(t, "ok", resp.Data["status"])
}

// Validation rejections happen before any service call, so a nil service is
// enough to exercise them.
func TestMissingUserIDRejected(t *testing.T) {
	r := newTestRouter()

	for _, path := range []string{
		"/api/v1/subscriptions",
		"/api/v1/subscriptions/snapshots",
		"/api/v1/analytics/monthly-totals",
		"/api/v1/analytics/category-totals",
		"/api/v1/analytics/annual-estimate",
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, path)
		var resp response.APIResponse[json.RawMessage]
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), path)
		assert.Equal(t, response.APIResponseCodeBadRequest, resp.Code, path)
	}
}

func TestSnapshotsMonthValidated(t *testing.T) {
	r := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/subscriptions/snapshots?user_id=u1&month=2024-13", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp response.APIResponse[json.RawMessage]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, response.APIResponseCodeBadRequest, resp.Code)
}
