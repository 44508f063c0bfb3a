package pipeline

import (
	"fmt"
	"strings"

	"github.com/fortuna/dugout/internal/registry"
)

// UnknownTeamError means the input matched no code or alias.
type UnknownTeamError struct {
	Input      string
	ValidCodes []string
}

func (e *UnknownTeamError) Error() string {
	return fmt.Sprintf("unknown team %q", e.Input)
}

func (e *UnknownTeamError) Unwrap() error {
	return registry.ErrNotFound
}

// Reply lists every valid code.
func (e *UnknownTeamError) Reply() string {
	return "Team not found. Must be one of: " + strings.Join(e.ValidCodes, " | ")
}

// MissingProviderMappingError means the team is known but the provider has
// no identifier for it.
type MissingProviderMappingError struct {
	Code     string
	Provider registry.Provider
}

func (e *MissingProviderMappingError) Error() string {
	return fmt.Sprintf("no %s id for team %s", e.Provider, e.Code)
}

func (e *MissingProviderMappingError) Unwrap() error {
	return registry.ErrNotFound
}

func (e *MissingProviderMappingError) Reply() string {
	return fmt.Sprintf("Could not resolve %s for %s.", e.Code, e.Provider)
}

// MissingAPIKeyError means a keyed provider was called without a configured key.
type MissingAPIKeyError struct {
	Provider registry.Provider
}

func (e *MissingAPIKeyError) Error() string {
	return fmt.Sprintf("api key not set for %s", e.Provider)
}

func (e *MissingAPIKeyError) Reply() string {
	return fmt.Sprintf("API key not set for %s.", e.Provider)
}
