// Package registry holds the read-only MLB team identity table: canonical
// codes, the aliases users type, and each provider's own team id.
package registry

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// ErrNotFound is returned (wrapped) by every lookup that has no match.
var ErrNotFound = errors.New("registry: not found")

var codePattern = regexp.MustCompile(`^[A-Z]{3}$`)

// Registry indexes team records by code, alias and provider id.
// It is immutable after New and safe for concurrent readers.
type Registry struct {
	records map[string]TeamRecord
	codes   map[string]string // lowercased code -> code
	aliases map[string]string // lowercased alias -> code
	reverse map[Provider]map[string]string
	sorted  []string
}

// New validates records and builds a registry. All invariant violations are
// reported together.
func New(records []TeamRecord) (*Registry, error) {
	r := &Registry{
		records: make(map[string]TeamRecord, len(records)),
		codes:   make(map[string]string, len(records)),
		aliases: make(map[string]string),
		reverse: make(map[Provider]map[string]string),
	}

	var errs []error
	for _, rec := range records {
		if !codePattern.MatchString(rec.Code) {
			errs = append(errs, fmt.Errorf("team %q: code must be three uppercase letters", rec.Code))
			continue
		}
		if _, dup := r.records[rec.Code]; dup {
			errs = append(errs, fmt.Errorf("team %s: duplicate code", rec.Code))
			continue
		}
		if strings.TrimSpace(rec.FullName) == "" {
			errs = append(errs, fmt.Errorf("team %s: missing full name", rec.Code))
		}
		r.records[rec.Code] = rec.clone()
		r.codes[strings.ToLower(rec.Code)] = rec.Code
	}

	// Aliases are checked after every code is known so an alias can't
	// shadow another team's code regardless of record order.
	for _, code := range sortedKeys(r.records) {
		rec := r.records[code]
		for _, alias := range rec.Aliases {
			key := strings.ToLower(alias)
			if strings.TrimSpace(alias) == "" {
				errs = append(errs, fmt.Errorf("team %s: empty alias", code))
				continue
			}
			if owner, ok := r.codes[key]; ok && owner != code {
				errs = append(errs, fmt.Errorf("team %s: alias %q collides with code %s", code, alias, owner))
				continue
			}
			if owner, ok := r.aliases[key]; ok {
				if owner != code {
					errs = append(errs, fmt.Errorf("team %s: alias %q already belongs to %s", code, alias, owner))
				}
				continue
			}
			r.aliases[key] = code
		}

		for provider, id := range rec.ProviderIDs {
			if id == "" {
				errs = append(errs, fmt.Errorf("team %s: empty %s id", code, provider))
				continue
			}
			ids, ok := r.reverse[provider]
			if !ok {
				ids = make(map[string]string)
				r.reverse[provider] = ids
			}
			if owner, ok := ids[id]; ok {
				errs = append(errs, fmt.Errorf("team %s: %s id %q already belongs to %s", code, provider, id, owner))
				continue
			}
			ids[id] = code
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid team registry: %w", errors.Join(errs...))
	}

	r.sorted = sortedKeys(r.records)
	return r, nil
}

// AllCodes returns every canonical code, sorted.
func (r *Registry) AllCodes() []string {
	return slices.Clone(r.sorted)
}

// Len returns the number of teams.
func (r *Registry) Len() int {
	return len(r.records)
}

// Records returns a copy of every record ordered by code.
func (r *Registry) Records() []TeamRecord {
	out := make([]TeamRecord, 0, len(r.sorted))
	for _, code := range r.sorted {
		out = append(out, r.records[code].clone())
	}
	return out
}

// Get looks a team up by its exact canonical code.
func (r *Registry) Get(code string) (TeamRecord, error) {
	rec, ok := r.records[code]
	if !ok {
		return TeamRecord{}, fmt.Errorf("team %q: %w", code, ErrNotFound)
	}
	return rec.clone(), nil
}

// FindByAlias matches input case-insensitively against aliases, then against
// canonical codes. Input is used as given: no trimming, no partial matches.
func (r *Registry) FindByAlias(input string) (TeamRecord, error) {
	if input == "" {
		return TeamRecord{}, fmt.Errorf("empty team name: %w", ErrNotFound)
	}
	key := strings.ToLower(input)
	if code, ok := r.aliases[key]; ok {
		return r.records[code].clone(), nil
	}
	if code, ok := r.codes[key]; ok {
		return r.records[code].clone(), nil
	}
	return TeamRecord{}, fmt.Errorf("team %q: %w", input, ErrNotFound)
}

// ProviderID returns the provider's identifier for a canonical code exactly as
// stored in the dataset.
func (r *Registry) ProviderID(code string, provider Provider) (string, error) {
	rec, ok := r.records[code]
	if !ok {
		return "", fmt.Errorf("team %q: %w", code, ErrNotFound)
	}
	id, ok := rec.ProviderIDs[provider]
	if !ok {
		return "", fmt.Errorf("team %s has no %s id: %w", code, provider, ErrNotFound)
	}
	return id, nil
}

// FindByProviderID translates a provider's identifier back to its team.
// Used to re-key names scraped from provider pages.
func (r *Registry) FindByProviderID(provider Provider, id string) (TeamRecord, error) {
	code, ok := r.reverse[provider][id]
	if !ok {
		return TeamRecord{}, fmt.Errorf("%s id %q: %w", provider, id, ErrNotFound)
	}
	return r.records[code].clone(), nil
}

func sortedKeys(m map[string]TeamRecord) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
