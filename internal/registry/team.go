package registry

import (
	"maps"
	"slices"
)

// Provider names an external data source with its own team id scheme.
type Provider string

const (
	ProviderScoreboard Provider = "scoreboard-provider" // ESPN numeric team id
	ProviderRoster     Provider = "roster-provider"     // ESPN lowercase slug
	ProviderDisplay    Provider = "display-provider"    // ESPN short display name
	ProviderNews       Provider = "news-provider"       // full-name slug
	ProviderInjury     Provider = "injury-provider"     // injury report code
	ProviderSchedule   Provider = "schedule-provider"   // Yahoo team code
	ProviderSalary     Provider = "salary-provider"     // salary API nickname
	ProviderPayroll    Provider = "payroll-provider"    // payroll site slug
)

// KnownProviders lists every provider namespace the commands use.
var KnownProviders = []Provider{
	ProviderScoreboard,
	ProviderRoster,
	ProviderDisplay,
	ProviderNews,
	ProviderInjury,
	ProviderSchedule,
	ProviderSalary,
	ProviderPayroll,
}

// TeamRecord is one franchise's identity across every provider.
type TeamRecord struct {
	Code        string              `json:"code"`
	FullName    string              `json:"full_name"`
	Aliases     []string            `json:"aliases"`
	ProviderIDs map[Provider]string `json:"provider_ids"`
}

// clone returns a deep copy so callers can never mutate registry state.
func (t TeamRecord) clone() TeamRecord {
	t.Aliases = slices.Clone(t.Aliases)
	t.ProviderIDs = maps.Clone(t.ProviderIDs)
	return t
}

// IsKnownProvider reports whether p is one of KnownProviders.
func IsKnownProvider(p Provider) bool {
	return slices.Contains(KnownProviders, p)
}
