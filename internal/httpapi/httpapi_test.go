package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/calclab/internal/config"
)

func newTestRouter(t *testing.T, mutate func(*config.Config)) *gin.Engine {
	t.Helper()
	cfg := config.DefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}
	return NewRouter(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func post(t *testing.T, r http.Handler, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return w.Code, out
}

func TestHealthCheck(t *testing.T) {
	r := newTestRouter(t, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestEvaluate(t *testing.T) {
	r := newTestRouter(t, nil)

	code, out := post(t, r, "/api/v1/evaluate", `{"expression":"x^2; DROP TABLE","x":[3,-2]}`)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "x^2  ", out["sanitized"])
	require.Equal(t, []any{9.0, 4.0}, out["values"])
	require.NotContains(t, out, "error")
}

func TestEvaluate_NaNIsNull(t *testing.T) {
	r := newTestRouter(t, nil)

	code, out := post(t, r, "/api/v1/evaluate", `{"expression":"sqrt(x)","x":[-1,4]}`)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, []any{nil, 2.0}, out["values"])
	require.Contains(t, out["error"], "numeric degeneracy")

	code, out = post(t, r, "/api/v1/evaluate", `{"expression":"","x":[1]}`)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, []any{nil}, out["values"])
	require.Contains(t, out["error"], "invalid expression")
}

func TestEvaluate_BadRequest(t *testing.T) {
	r := newTestRouter(t, nil)

	code, out := post(t, r, "/api/v1/evaluate", `{"expression":`)
	require.Equal(t, http.StatusBadRequest, code)
	require.Contains(t, out, "error")
}

func TestPoints(t *testing.T) {
	r := newTestRouter(t, nil)

	code, out := post(t, r, "/api/v1/points", `{"expression":"x^2","xMin":-2,"xMax":2,"n":5}`)
	require.Equal(t, http.StatusOK, code)
	require.EqualValues(t, 5, out["count"])

	pts := out["points"].([]any)
	require.Len(t, pts, 5)
	require.Equal(t, map[string]any{"x": -2.0, "y": 4.0}, pts[0])
}

func TestPoints_EmptyIsExplained(t *testing.T) {
	r := newTestRouter(t, nil)

	code, out := post(t, r, "/api/v1/points", `{"expression":"x","xMin":0,"xMax":1,"n":1}`)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, []any{}, out["points"])
	require.Contains(t, out["error"], "invalid parameters")
}

func TestPoints_SampleCap(t *testing.T) {
	r := newTestRouter(t, nil)

	code, _ := post(t, r, "/api/v1/points", `{"expression":"x","xMin":0,"xMax":1,"n":10001}`)
	require.Equal(t, http.StatusBadRequest, code)
}

func TestPoints_BudgetExceeded(t *testing.T) {
	r := newTestRouter(t, func(c *config.Config) { c.Budget = time.Nanosecond })

	code, out := post(t, r, "/api/v1/points", `{"expression":"sin(x)*cos(x)*exp(x/10)","xMin":-10,"xMax":10,"n":10000}`)
	require.Equal(t, http.StatusServiceUnavailable, code)
	require.Contains(t, out["error"], "budget exceeded")
}

func TestDerivative(t *testing.T) {
	r := newTestRouter(t, nil)

	code, out := post(t, r, "/api/v1/derivative", `{"expression":"x^2","x":3,"h":0.0001}`)
	require.Equal(t, http.StatusOK, code)
	require.InDelta(t, 6.0, out["value"], 1e-3)

	tangent := out["tangent"].(map[string]any)
	require.Equal(t, 9.0, tangent["y0"])

	code, out = post(t, r, "/api/v1/derivative", `{"expression":"x^2","x":3,"h":0}`)
	require.Equal(t, http.StatusOK, code)
	require.Nil(t, out["value"])
	require.NotContains(t, out, "tangent")
	require.Contains(t, out["error"], "numeric degeneracy")
}

func TestHigherDerivative(t *testing.T) {
	r := newTestRouter(t, nil)

	code, out := post(t, r, "/api/v1/higher-derivative",
		`{"expression":"x^3","xMin":-1,"xMax":1,"n":11,"order":2,"h":0.01,"at":1}`)
	require.Equal(t, http.StatusOK, code)
	require.EqualValues(t, 11, out["count"])
	require.InDelta(t, 6.0, out["value"], 1e-3)

	code, _ = post(t, r, "/api/v1/higher-derivative", `{"expression":"x^3","xMin":-1,"xMax":1,"order":9}`)
	require.Equal(t, http.StatusBadRequest, code)
}

func TestIntegral(t *testing.T) {
	r := newTestRouter(t, nil)

	code, out := post(t, r, "/api/v1/integral", `{"expression":"x","a":-1,"b":1,"n":1000}`)
	require.Equal(t, http.StatusOK, code)
	require.InDelta(t, 0.0, out["integral"], 1e-2)
	require.InDelta(t, 1.0, out["area"], 1e-2)

	code, out = post(t, r, "/api/v1/integral", `{"expression":"1/x","a":-1,"b":1,"n":2}`)
	require.Equal(t, http.StatusOK, code)
	require.Nil(t, out["integral"])
	require.Nil(t, out["area"])
	require.Contains(t, out["error"], "numeric degeneracy")
}

func TestIntegral_AreaOverflowIsExplained(t *testing.T) {
	r := newTestRouter(t, nil)

	// the signed terms cancel while their magnitudes overflow
	code, out := post(t, r, "/api/v1/integral", `{"expression":"10^308*cos(pi*x)","a":0,"b":2,"n":2}`)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, 0.0, out["integral"])
	require.Nil(t, out["area"])
	require.Contains(t, out["error"], "numeric degeneracy")
}

func TestIntegral_BudgetExceeded(t *testing.T) {
	r := newTestRouter(t, func(c *config.Config) { c.Budget = time.Nanosecond })

	code, out := post(t, r, "/api/v1/integral", `{"expression":"sin(x)*exp(x/10)","a":0,"b":10,"n":1000000}`)
	require.Equal(t, http.StatusServiceUnavailable, code)
	require.Contains(t, out["error"], "budget exceeded")
}

func TestEvaluate_BudgetExceeded(t *testing.T) {
	r := newTestRouter(t, func(c *config.Config) { c.Budget = time.Nanosecond })

	code, out := post(t, r, "/api/v1/evaluate", `{"expression":"x^2","x":[1,2,3]}`)
	require.Equal(t, http.StatusServiceUnavailable, code)
	require.Contains(t, out["error"], "budget exceeded")
}

func TestCORS(t *testing.T) {
	r := newTestRouter(t, func(c *config.Config) { c.Server.AllowOrigins = []string{"http://localhost:3000"} })

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/points", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
