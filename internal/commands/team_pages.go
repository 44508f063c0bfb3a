package commands

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/fortuna/dugout/internal/ircfmt"
	"github.com/fortuna/dugout/internal/pipeline"
	"github.com/fortuna/dugout/internal/registry"
	"github.com/fortuna/dugout/internal/scrape"
)

// fetchTeamPage resolves the team, builds the provider URL and fetches it.
// The team is validated before any network access.
func (d *Dispatcher) fetchTeamPage(ctx context.Context, rawTeam string, provider registry.Provider, template string) (pipeline.ResolvedRequest, string, error) {
	req, err := d.pipeline.Resolve(rawTeam, provider, template)
	if err != nil {
		return req, "", err
	}
	body, err := d.pipeline.Fetch(ctx, req.URL, nil)
	if err != nil {
		return req, "", err
	}
	return req, body, nil
}

func (d *Dispatcher) roster(ctx context.Context, inv *Invocation) ([]string, error) {
	template := d.endpoints.RosterActive
	if inv.Flag("40man") && !inv.Flag("active") {
		template = d.endpoints.Roster40Man
	}

	req, body, err := d.fetchTeamPage(ctx, inv.Rest(), registry.ProviderRoster, template)
	if err != nil {
		return nil, err
	}
	groups, err := scrape.ParseRoster(body)
	if err != nil {
		return nil, err
	}

	lines := make([]string, 0, len(groups))
	for _, g := range groups {
		players := make([]string, len(g.Players))
		for i, p := range g.Players {
			players[i] = fmt.Sprintf("%s (%s)", p.Name, p.Position)
		}
		lines = append(lines, fmt.Sprintf("%s %s :: %s", ircfmt.Underline(req.Team.Code), ircfmt.Bold(g.Heading), ircfmt.Join(players)))
	}
	return lines, nil
}

func (d *Dispatcher) gamesByPosition(ctx context.Context, inv *Invocation) ([]string, error) {
	req, body, err := d.fetchTeamPage(ctx, inv.Rest(), registry.ProviderRoster, d.endpoints.GamesByPosition)
	if err != nil {
		return nil, err
	}
	rows, err := scrape.ParseGamesByPosition(body)
	if err != nil {
		return nil, err
	}

	parts := make([]string, len(rows))
	for i, r := range rows {
		parts[i] = ircfmt.Bold(r.Position) + " " + r.Players
	}
	return []string{fmt.Sprintf("%s :: %s", ircfmt.Underline(req.Team.Code), ircfmt.Join(parts))}, nil
}

func (d *Dispatcher) injuries(ctx context.Context, inv *Invocation) ([]string, error) {
	req, body, err := d.fetchTeamPage(ctx, inv.Rest(), registry.ProviderInjury, d.endpoints.Injuries)
	if err != nil {
		return nil, err
	}
	report, err := scrape.ParseInjuries(body)
	if err != nil {
		return nil, err
	}
	if len(report.Injuries) == 0 {
		return []string{"No injuries found for: " + req.Team.Code}, nil
	}

	team := report.Team
	if team == "" {
		team = req.Team.FullName
	}
	lines := []string{fmt.Sprintf("%s - %d total injuries", ircfmt.Underline(team), len(report.Injuries))}

	if inv.Flag("details") {
		lines = append(lines, fmt.Sprintf("%-25s %-3s %-6s %-7s %-15s %-10s", "Name", "POS", "Status", "Date", "Injury", "Returns"))
		for _, inj := range report.Injuries {
			// two extra columns make room for the bold codes
			lines = append(lines, fmt.Sprintf("%-27s %-3s %-6s %-7s %-15s %-10s",
				ircfmt.Bold(inj.Name), inj.Position, inj.Status, inj.Date, inj.Injury, inj.Returns))
		}
		return lines, nil
	}

	names := make([]string, len(report.Injuries))
	for i, inj := range report.Injuries {
		names[i] = fmt.Sprintf("%s (%s)", inj.Name, inj.Returns)
	}
	for _, batch := range ircfmt.Batch(names, injuriesPerLine) {
		lines = append(lines, ircfmt.Join(batch))
	}
	return lines, nil
}

func (d *Dispatcher) teamTransactions(ctx context.Context, inv *Invocation) ([]string, error) {
	req, body, err := d.fetchTeamPage(ctx, inv.Rest(), registry.ProviderScoreboard, d.endpoints.Transactions)
	if err != nil {
		return nil, err
	}
	trans, err := scrape.ParseTeamTransactions(body)
	if errors.Is(err, scrape.ErrNoData) {
		return []string{"No transactions found for " + req.Team.Code}, nil
	}
	if err != nil {
		return nil, err
	}

	lines := make([]string, len(trans))
	for i, t := range trans {
		lines[i] = fmt.Sprintf("%-8s %s", ircfmt.Bold(t.Date), t.Description)
	}
	return lines, nil
}

const (
	maxTeamLeaders  = 5
	injuriesPerLine = 8
)

// leaderCategories maps the short stat names users type to the stats page's
// category values.
var leaderCategories = map[string]string{
	"avg": "avg", "hr": "homeRuns", "rbi": "RBIs", "r": "runs", "ab": "atBats",
	"obp": "onBasePct", "slug": "slugAvg", "ops": "OPS", "sb": "stolenBases",
	"runscreated": "runsCreated", "w": "wins", "l": "losses", "win%": "winPct",
	"era": "ERA", "k": "strikeouts", "k/9ip": "strikeoutsPerNineInnings",
	"holds": "holds", "s": "saves", "gp": "gamesPlayed", "cg": "completeGames",
	"qs": "qualityStarts", "whip": "WHIP",
}

// teamLeaders takes the category as the last argument so team names may
// span several words.
func (d *Dispatcher) teamLeaders(ctx context.Context, inv *Invocation) ([]string, error) {
	last := len(inv.Args) - 1
	rawTeam := strings.Join(inv.Args[:last], " ")
	short := strings.ToLower(inv.Args[last])

	team, err := d.pipeline.ResolveTeam(rawTeam)
	if err != nil {
		return nil, err
	}
	category, ok := leaderCategories[short]
	if !ok {
		names := slices.Sorted(maps.Keys(leaderCategories))
		return nil, &UsageError{Command: "mlbteamleaders", Reason: "Category must be one of: " + strings.Join(names, ", ")}
	}

	req, body, err := d.fetchTeamPage(ctx, team.Code, registry.ProviderScoreboard, d.endpoints.TeamLeaders+category)
	if err != nil {
		return nil, err
	}
	leaders, err := scrape.ParseTeamLeaders(body)
	if errors.Is(err, scrape.ErrNoData) {
		return []string{fmt.Sprintf("No %s leaders found for %s", strings.ToUpper(short), req.Team.Code)}, nil
	}
	if err != nil {
		return nil, err
	}

	if len(leaders) > maxTeamLeaders {
		leaders = leaders[:maxTeamLeaders]
	}
	parts := make([]string, len(leaders))
	for i, l := range leaders {
		parts[i] = fmt.Sprintf("%s. %s %s", l.Rank, l.Player, l.Stat)
	}
	return []string{fmt.Sprintf("Leaders in %s for %s: %s",
		ircfmt.Bold(req.Team.Code), ircfmt.Bold(strings.ToUpper(short)), ircfmt.Join(parts))}, nil
}
