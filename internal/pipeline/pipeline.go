// Package pipeline turns free-form team input into a provider request:
// resolve the team, translate it to the provider's id, build the URL and
// fetch it. It also owns the mapping from errors to reply text.
//
// A Pipeline holds only read-only collaborators and is safe for concurrent
// use.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fortuna/dugout/internal/fetch"
	"github.com/fortuna/dugout/internal/registry"
)

// Placeholder marks where the provider id goes in a URL template.
const Placeholder = "{id}"

// ResolvedRequest is built per invocation and never shared.
type ResolvedRequest struct {
	Team       registry.TeamRecord
	Provider   registry.Provider
	ProviderID string
	URL        string
}

// Options configures a Pipeline.
type Options struct {
	LogOutboundURLs bool
	APIKeys         map[registry.Provider]string
	Logger          *slog.Logger
}

type Pipeline struct {
	registry    *registry.Registry
	fetcher     fetch.Fetcher
	apiKeys     map[registry.Provider]string
	logOutbound bool
	logger      *slog.Logger
}

// New creates a pipeline over reg and fetcher.
func New(reg *registry.Registry, fetcher fetch.Fetcher, opts Options) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	keys := make(map[registry.Provider]string, len(opts.APIKeys))
	for p, k := range opts.APIKeys {
		keys[p] = k
	}
	return &Pipeline{
		registry:    reg,
		fetcher:     fetcher,
		apiKeys:     keys,
		logOutbound: opts.LogOutboundURLs,
		logger:      logger.With("component", "pipeline"),
	}
}

// Registry returns the team registry the pipeline resolves against.
func (p *Pipeline) Registry() *registry.Registry {
	return p.registry
}

// ResolveTeam trims surrounding whitespace from raw and looks it up.
func (p *Pipeline) ResolveTeam(raw string) (registry.TeamRecord, error) {
	input := strings.TrimSpace(raw)
	rec, err := p.registry.FindByAlias(input)
	if err != nil {
		return registry.TeamRecord{}, &UnknownTeamError{Input: input, ValidCodes: p.registry.AllCodes()}
	}
	return rec, nil
}

// BuildRequestURL replaces the single {id} in template with the provider's id
// for code. Nothing else in the template changes.
func (p *Pipeline) BuildRequestURL(template, code string, provider registry.Provider) (string, error) {
	if n := strings.Count(template, Placeholder); n != 1 {
		return "", fmt.Errorf("url template %q: want exactly one %s, found %d", template, Placeholder, n)
	}
	if _, err := p.registry.Get(code); err != nil {
		return "", &UnknownTeamError{Input: code, ValidCodes: p.registry.AllCodes()}
	}
	id, err := p.registry.ProviderID(code, provider)
	if err != nil {
		return "", &MissingProviderMappingError{Code: code, Provider: provider}
	}
	return strings.Replace(template, Placeholder, id, 1), nil
}

// Resolve runs ResolveTeam and BuildRequestURL in one step.
func (p *Pipeline) Resolve(raw string, provider registry.Provider, template string) (ResolvedRequest, error) {
	team, err := p.ResolveTeam(raw)
	if err != nil {
		return ResolvedRequest{}, err
	}
	url, err := p.BuildRequestURL(template, team.Code, provider)
	if err != nil {
		return ResolvedRequest{}, err
	}
	return ResolvedRequest{
		Team:       team,
		Provider:   provider,
		ProviderID: team.ProviderIDs[provider],
		URL:        url,
	}, nil
}

// Fetch performs one GET. Every failure is returned as *fetch.Error.
func (p *Pipeline) Fetch(ctx context.Context, url string, headers map[string]string) (string, error) {
	if p.logOutbound {
		p.logger.Info("fetching", "url", fetch.RedactURL(url))
	}

	body, err := p.fetcher.Fetch(ctx, url, headers)
	if err != nil {
		var fe *fetch.Error
		if !errors.As(err, &fe) {
			fe = &fetch.Error{URL: url, Err: err}
		}
		p.logger.Debug("fetch failed", "url", fetch.RedactURL(url), "error", fe)
		return "", fe
	}
	return body, nil
}

// APIKey returns the configured key for provider.
func (p *Pipeline) APIKey(provider registry.Provider) (string, error) {
	key, ok := p.apiKeys[provider]
	if !ok || key == "" {
		return "", &MissingAPIKeyError{Provider: provider}
	}
	return key, nil
}
