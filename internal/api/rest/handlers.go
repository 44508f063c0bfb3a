package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/fortuna/dugout/internal/commands"
	"github.com/fortuna/dugout/internal/fetch"
	"github.com/fortuna/dugout/internal/pipeline"
	"github.com/fortuna/dugout/internal/registry"
)

const healthTimeout = 2 * time.Second

// Handler contains dependencies for HTTP handlers
type Handler struct {
	registry   *registry.Registry
	dispatcher *commands.Dispatcher
	checks     map[string]HealthCheck
}

// NewHandler creates a new handler
func NewHandler(reg *registry.Registry, dispatcher *commands.Dispatcher, checks map[string]HealthCheck) *Handler {
	return &Handler{
		registry:   reg,
		dispatcher: dispatcher,
		checks:     checks,
	}
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	status := http.StatusOK
	deps := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			deps[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		deps[name] = "ok"
	}

	state := "healthy"
	if status != http.StatusOK {
		state = "degraded"
	}
	respondJSON(w, status, map[string]interface{}{
		"status":       state,
		"service":      "dugout",
		"teams":        h.registry.Len(),
		"dependencies": deps,
	})
}

// GetTeams returns every team record
func (h *Handler) GetTeams(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"codes": h.registry.AllCodes(),
		"teams": h.registry.Records(),
	})
}

// GetTeam resolves a code or alias to its team record
func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	team, ok := h.resolve(w, mux.Vars(r)["team"])
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, team)
}

// GetProviderID returns one team's id in a provider's namespace
func (h *Handler) GetProviderID(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	team, ok := h.resolve(w, vars["team"])
	if !ok {
		return
	}

	provider := registry.Provider(vars["provider"])
	if !registry.IsKnownProvider(provider) {
		respondJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":     "Unknown provider",
			"status":    http.StatusBadRequest,
			"providers": registry.KnownProviders,
		})
		return
	}

	id, err := h.registry.ProviderID(team.Code, provider)
	if err != nil {
		mapping := &pipeline.MissingProviderMappingError{Code: team.Code, Provider: provider}
		respondError(w, http.StatusNotFound, mapping.Reply(), nil)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"code":     team.Code,
		"provider": string(provider),
		"id":       id,
	})
}

func (h *Handler) resolve(w http.ResponseWriter, input string) (registry.TeamRecord, bool) {
	team, err := h.registry.FindByAlias(input)
	if err != nil {
		unknown := &pipeline.UnknownTeamError{Input: input, ValidCodes: h.registry.AllCodes()}
		respondJSON(w, http.StatusNotFound, map[string]interface{}{
			"error":       unknown.Reply(),
			"status":      http.StatusNotFound,
			"valid_codes": unknown.ValidCodes,
		})
		return team, false
	}
	return team, true
}

type commandInfo struct {
	Name  string `json:"name"`
	Usage string `json:"usage"`
	Help  string `json:"help"`
}

// ListCommands returns the registered chat commands
func (h *Handler) ListCommands(w http.ResponseWriter, r *http.Request) {
	cmds := h.dispatcher.Commands()
	out := make([]commandInfo, len(cmds))
	for i, c := range cmds {
		out[i] = commandInfo{Name: c.Name, Usage: c.Usage, Help: c.Help}
	}
	respondJSON(w, http.StatusOK, out)
}

type commandRequest struct {
	Args string `json:"args"`
}

type commandResponse struct {
	Command    string   `json:"command"`
	Args       string   `json:"args"`
	Lines      []string `json:"lines"`
	OK         bool     `json:"ok"`
	Error      string   `json:"error,omitempty"`
	DurationMS int64    `json:"duration_ms"`
}

// RunCommand dispatches a chat command and returns its reply lines.
// GET takes ?args=, POST takes {"args": "..."}.
func (h *Handler) RunCommand(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	args := r.URL.Query().Get("args")

	if r.Method == http.MethodPost {
		var req commandRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<16)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			respondError(w, http.StatusBadRequest, "Invalid request body", err)
			return
		}
		if req.Args != "" {
			args = req.Args
		}
	}

	ctx := commands.WithSource(r.Context(), "rest")
	res := h.dispatcher.Dispatch(ctx, name, args)

	resp := commandResponse{
		Command:    res.Command,
		Args:       res.Args,
		Lines:      res.Plain(),
		OK:         res.Err == nil,
		DurationMS: res.Duration.Milliseconds(),
	}
	if res.Err != nil {
		resp.Error = res.Err.Error()
	}
	respondJSON(w, statusFor(res.Err), resp)
}

// statusFor maps a dispatch error to an HTTP status. The reply lines are
// always returned; the status only classifies them.
func statusFor(err error) int {
	var (
		usage   *commands.UsageError
		unknown *commands.UnknownCommandError
		team    *pipeline.UnknownTeamError
		mapping *pipeline.MissingProviderMappingError
		key     *pipeline.MissingAPIKeyError
		fetched *fetch.Error
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &usage):
		return http.StatusBadRequest
	case errors.As(err, &unknown), errors.As(err, &team), errors.As(err, &mapping):
		return http.StatusNotFound
	case errors.As(err, &key):
		return http.StatusServiceUnavailable
	case errors.As(err, &fetched):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string, err error) {
	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}
	if err != nil {
		response["details"] = err.Error()
	}
	respondJSON(w, status, response)
}
