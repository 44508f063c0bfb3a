package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/fortuna/dugout/internal/ircfmt"
	"github.com/fortuna/dugout/internal/registry"
	"github.com/fortuna/dugout/internal/scrape"
)

const firstAllStarGame = 1933

func (d *Dispatcher) schedule(ctx context.Context, inv *Invocation) ([]string, error) {
	req, body, err := d.fetchTeamPage(ctx, inv.Rest(), registry.ProviderSchedule, d.endpoints.ScheduleFeed)
	if err != nil {
		return nil, err
	}
	games, err := scrape.ParseScheduleFeed(body)
	if errors.Is(err, scrape.ErrNoData) {
		return []string{"No scheduled games found for " + req.Team.Code}, nil
	}
	if err != nil {
		return nil, err
	}

	parts := make([]string, len(games))
	for i, g := range games {
		prefix := "vs. "
		if g.Away {
			prefix = "@ "
		}
		parts[i] = fmt.Sprintf("%s%s [%s]", prefix, g.Opponent, g.Date)
	}
	return []string{ircfmt.Bold(req.Team.Code) + " " + ircfmt.Join(parts)}, nil
}

func (d *Dispatcher) series(ctx context.Context, inv *Invocation) ([]string, error) {
	team, err := d.pipeline.ResolveTeam(inv.Args[0])
	if err != nil {
		return nil, err
	}
	opp, err := d.pipeline.ResolveTeam(inv.Args[1])
	if err != nil {
		return nil, err
	}

	now := d.now()
	season := now.Year()
	url, err := d.pipeline.BuildRequestURL(d.endpoints.PrintSchedule, team.Code, registry.ProviderRoster)
	if err != nil {
		return nil, err
	}
	url += strconv.Itoa(season)

	body, err := d.pipeline.Fetch(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	games, err := scrape.ParsePrintSchedule(body, season)
	if err != nil {
		return nil, err
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	reg := d.pipeline.Registry()

	var out []string
	for _, g := range games {
		if g.Date.Before(today) {
			continue
		}
		rec, err := reg.FindByProviderID(registry.ProviderDisplay, g.Opponent)
		if err != nil {
			d.logger.Debug("unmapped opponent on schedule", "team", team.Code, "opponent", g.Opponent)
			continue
		}
		if rec.Code != opp.Code {
			continue
		}
		code := rec.Code
		if g.Away {
			code = "@" + code
		}
		out = append(out, fmt.Sprintf("%s - %s %s", g.Date.Format("Jan 02"), ircfmt.Bold(code), g.Time))
	}

	if len(out) == 0 {
		return []string{fmt.Sprintf("I do not see any remaining games between: %s and %s in the %d schedule.",
			ircfmt.Bold(team.Code), ircfmt.Bold(opp.Code), season)}, nil
	}
	return []string{fmt.Sprintf("There are %s games between %s and %s :: %s",
		ircfmt.Color(strconv.Itoa(len(out)), "red"), ircfmt.Bold(team.Code), ircfmt.Bold(opp.Code), ircfmt.Join(out))}, nil
}

func (d *Dispatcher) allStarGame(ctx context.Context, inv *Invocation) ([]string, error) {
	raw := inv.Args[0]
	year, err := strconv.Atoi(raw)
	if err != nil || len(raw) != 4 || year < firstAllStarGame || year > d.now().Year() {
		return nil, &UsageError{Command: "mlballstargame", Reason: "Invalid year. Must be YYYY."}
	}

	body, err := d.pipeline.Fetch(ctx, d.endpoints.AllStarGames, nil)
	if err != nil {
		return nil, err
	}
	games, err := scrape.ParseAllStarGames(body)
	if err != nil {
		return nil, err
	}

	for _, g := range games {
		if g.Year != raw {
			continue
		}
		return []string{fmt.Sprintf("%s All-Star Game :: Score: %s  Location: %s  Attendance: %s  MVP: %s",
			ircfmt.Bold(raw), g.Score, g.Location, g.Attendance, g.MVP)}, nil
	}
	return []string{"I could not find MLB All-Star Game information for: " + raw}, nil
}
