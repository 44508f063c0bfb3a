package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/dugout/internal/commands"
	"github.com/fortuna/dugout/internal/fetch"
	"github.com/fortuna/dugout/internal/pipeline"
	"github.com/fortuna/dugout/internal/registry"
)

type downFetcher struct{}

func (downFetcher) Fetch(ctx context.Context, url string, headers map[string]string) (string, error) {
	return "", &fetch.Error{URL: url, StatusCode: http.StatusServiceUnavailable}
}

func newTestServer(t *testing.T, opts Options) *Server {
	t.Helper()
	reg, err := registry.LoadDefault()
	require.NoError(t, err)
	p := pipeline.New(reg, downFetcher{}, pipeline.Options{})
	return NewServer("0", reg, commands.NewDispatcher(p), opts)
}

func do(t *testing.T, s *Server, method, target, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var out map[string]interface{}
	if strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "{") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, Options{})
	rec, body := do(t, s, "GET", "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.EqualValues(t, 30, body["teams"])
}

func TestHealth_Degraded(t *testing.T) {
	s := newTestServer(t, Options{HealthChecks: map[string]HealthCheck{
		"redis": func(context.Context) error { return errors.New("connection refused") },
	}})
	rec, body := do(t, s, "GET", "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, "connection refused", body["dependencies"].(map[string]interface{})["redis"])
}

func TestGetTeams(t *testing.T) {
	s := newTestServer(t, Options{})
	rec, body := do(t, s, "GET", "/api/v1/teams", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["codes"], 30)
	assert.Len(t, body["teams"], 30)
}

func TestGetTeam(t *testing.T) {
	s := newTestServer(t, Options{})

	rec, body := do(t, s, "GET", "/api/v1/teams/Yankees", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "NYY", body["code"])
	assert.Equal(t, "New York Yankees", body["full_name"])

	rec, body = do(t, s, "GET", "/api/v1/teams/XYZ", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.True(t, strings.HasPrefix(body["error"].(string), "Team not found. Must be one of: ARI | "))
	assert.Len(t, body["valid_codes"], 30)
}

func TestGetProviderID(t *testing.T) {
	s := newTestServer(t, Options{})

	rec, body := do(t, s, "GET", "/api/v1/teams/nyy/providers/scoreboard-provider", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "NYY", body["code"])
	assert.Equal(t, "10", body["id"])

	rec, _ = do(t, s, "GET", "/api/v1/teams/nyy/providers/nope", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, s, "GET", "/api/v1/teams/nope/providers/scoreboard-provider", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListCommands(t *testing.T) {
	s := newTestServer(t, Options{})
	req := httptest.NewRequest("GET", "/api/v1/commands", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var cmds []commandInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cmds))
	var names []string
	for _, c := range cmds {
		names = append(names, c.Name)
	}
	assert.Contains(t, names, "mlbteam")
	assert.Contains(t, names, "mlbseries")
}

func TestRunCommand(t *testing.T) {
	s := newTestServer(t, Options{})

	tests := []struct {
		name     string
		method   string
		target   string
		body     string
		status   int
		contains string
	}{
		{"get with args", "GET", "/api/v1/commands/mlbteam?args=yankees", "", http.StatusOK, "NYY New York Yankees"},
		{"post with body", "POST", "/api/v1/commands/mlbteam", `{"args":"Red Sox"}`, http.StatusOK, "BOS Boston Red Sox"},
		{"no args", "GET", "/api/v1/commands/mlbteams", "", http.StatusOK, "Valid teams are: ARI | "},
		{"unknown command", "GET", "/api/v1/commands/nope", "", http.StatusNotFound, "Unknown command: nope. Try help."},
		{"usage", "GET", "/api/v1/commands/mlbteam", "", http.StatusBadRequest, "Usage: mlbteam <team>"},
		{"unknown team", "GET", "/api/v1/commands/mlbteam?args=XYZ", "", http.StatusNotFound, "Team not found."},
		{"upstream down", "GET", "/api/v1/commands/mlbroster?args=nyy", "", http.StatusBadGateway, "Failed to open: http://espn.go.com/mlb/team/roster/_/name/nyy/type/active/"},
		{"missing key", "GET", "/api/v1/commands/mlbteamnews?args=nyy", "", http.StatusServiceUnavailable, "API key not set for news-provider."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := do(t, s, tt.method, tt.target, tt.body)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			lines := body["lines"].([]interface{})
			require.NotEmpty(t, lines)
			assert.Contains(t, lines[0], tt.contains)
			assert.Equal(t, tt.status == http.StatusOK, body["ok"])
		})
	}
}

func TestRunCommand_BadBody(t *testing.T) {
	s := newTestServer(t, Options{})
	rec, _ := do(t, s, "POST", "/api/v1/commands/mlbteam", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRunCommand_RateLimited(t *testing.T) {
	s := newTestServer(t, Options{CommandRateLimit: 2})

	for i := 0; i < 2; i++ {
		rec, _ := do(t, s, "GET", "/api/v1/commands/baseball", "")
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec, _ := do(t, s, "GET", "/api/v1/commands/baseball", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))

	// team lookups are not limited
	rec, _ = do(t, s, "GET", "/api/v1/teams/nyy", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRunCommand_PublishesRestSource(t *testing.T) {
	reg, err := registry.LoadDefault()
	require.NoError(t, err)

	var got commands.Event
	obs := commands.ObserverFunc(func(ctx context.Context, ev commands.Event) { got = ev })
	d := commands.NewDispatcher(pipeline.New(reg, downFetcher{}, pipeline.Options{}), commands.WithObserver(obs))
	s := NewServer("0", reg, d, Options{})

	rec, _ := do(t, s, "GET", "/api/v1/commands/mlbteam?args=nyy", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "rest", got.Source)
	assert.Equal(t, "mlbteam", got.Command)
}

func TestCORS(t *testing.T) {
	s := newTestServer(t, Options{AllowedOrigins: []string{"https://example.test"}})
	req := httptest.NewRequest("GET", "/api/v1/teams", nil)
	req.Header.Set("Origin", "https://example.test")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "https://example.test", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestIPLimiter_EvictsIdleClients(t *testing.T) {
	now := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	l := newIPLimiter(2, time.Minute)
	l.now = func() time.Time { return now }
	l.lastSweep = now

	first := l.get("10.0.0.1")
	l.get("10.0.0.2")
	assert.Len(t, l.limiters, 2)
	assert.Same(t, first, l.get("10.0.0.1"))

	now = now.Add(30 * time.Second)
	l.get("10.0.0.1")
	assert.Len(t, l.limiters, 2, "no sweep before a full window")

	now = now.Add(45 * time.Second)
	l.get("10.0.0.3")
	assert.Len(t, l.limiters, 2)
	assert.Contains(t, l.limiters, "10.0.0.1")
	assert.NotContains(t, l.limiters, "10.0.0.2")
	assert.Contains(t, l.limiters, "10.0.0.3")
}
