package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fortuna/dugout/internal/ircfmt"
	"github.com/fortuna/dugout/internal/registry"
	"github.com/fortuna/dugout/internal/scrape"
)

// League pages list every club at once under the site's own team names, so
// each row is mapped back through the registry before it is compared.

func (d *Dispatcher) manager(ctx context.Context, inv *Invocation) ([]string, error) {
	team, err := d.pipeline.ResolveTeam(inv.Rest())
	if err != nil {
		return nil, err
	}
	body, err := d.pipeline.Fetch(ctx, d.endpoints.Managers, nil)
	if err != nil {
		return nil, err
	}
	managers, err := scrape.ParseManagers(body)
	if err != nil {
		return nil, err
	}

	for _, m := range managers {
		if !d.sameTeam(team, m.Team) {
			continue
		}
		return []string{fmt.Sprintf("Manager of %s is %s(%s) with %s years experience.",
			ircfmt.Bold(team.Code), ircfmt.Bold(m.Name), m.Record, m.Experience)}, nil
	}
	return []string{"I could not find the manager for " + team.Code}, nil
}

func (d *Dispatcher) remaining(ctx context.Context, inv *Invocation) ([]string, error) {
	team, err := d.pipeline.ResolveTeam(inv.Rest())
	if err != nil {
		return nil, err
	}
	body, err := d.pipeline.Fetch(ctx, d.endpoints.PlayoffRace, nil)
	if err != nil {
		return nil, err
	}
	rows, err := scrape.ParseRemainingGames(body)
	if err != nil {
		return nil, err
	}

	var summaries []string
	for _, r := range rows {
		if d.sameTeam(team, r.Team) {
			summaries = append(summaries, r.Summary)
		}
	}
	if len(summaries) == 0 {
		return []string{team.Code + " not listed. Not considered a playoff contender."}, nil
	}
	return []string{ircfmt.Bold(team.Code) + " :: " + strings.Join(summaries, " ")}, nil
}

func (d *Dispatcher) lineup(ctx context.Context, inv *Invocation) ([]string, error) {
	team, err := d.pipeline.ResolveTeam(inv.Rest())
	if err != nil {
		return nil, err
	}
	body, err := d.pipeline.Fetch(ctx, d.endpoints.Lineups, nil)
	if err != nil {
		return nil, err
	}
	notPosted := []string{fmt.Sprintf("Could not find lineup for: %s. Check closer to game time.", team.Code)}

	lineups, err := scrape.ParseLineups(body)
	if errors.Is(err, scrape.ErrNoData) {
		return notPosted, nil
	}
	if err != nil {
		return nil, err
	}

	// The lineups page abbreviates with the schedule provider's codes.
	reg := d.pipeline.Registry()
	for _, l := range lineups {
		rec, err := reg.FindByProviderID(registry.ProviderSchedule, strings.ToLower(l.Team))
		if err != nil {
			d.logger.Debug("unmapped team on lineups page", "abbrev", l.Team)
			continue
		}
		if rec.Code == team.Code {
			return []string{fmt.Sprintf("%s - %s", ircfmt.Bold(team.Code), l.Batters)}, nil
		}
	}
	return notPosted, nil
}

// sameTeam reports whether a site's printed team name is team. Names the
// registry does not know are logged and never match.
func (d *Dispatcher) sameTeam(team registry.TeamRecord, printed string) bool {
	rec, err := d.pipeline.Registry().FindByAlias(printed)
	if err != nil {
		d.logger.Debug("unmapped team name", "name", printed)
		return false
	}
	return rec.Code == team.Code
}
