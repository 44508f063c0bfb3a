package commands

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/fortuna/dugout/internal/ircfmt"
	"github.com/fortuna/dugout/internal/registry"
	"github.com/fortuna/dugout/internal/scrape"
)

const (
	maxNewsItems    = 6
	maxTopSalaries  = 5
	newsTitleLength = 40
)

// fetchKeyed is fetchTeamPage for providers that want an API key in the
// query string. extra is appended to the query before the key.
func (d *Dispatcher) fetchKeyed(ctx context.Context, rawTeam string, provider registry.Provider, template string, extra url.Values) (registry.TeamRecord, string, error) {
	team, err := d.pipeline.ResolveTeam(rawTeam)
	if err != nil {
		return team, "", err
	}
	key, err := d.pipeline.APIKey(provider)
	if err != nil {
		return team, "", err
	}
	target, err := d.pipeline.BuildRequestURL(template, team.Code, provider)
	if err != nil {
		return team, "", err
	}

	q := url.Values{}
	for k, v := range extra {
		q[k] = v
	}
	q.Set("api_key", key)
	sep := "?"
	if strings.Contains(target, "?") {
		sep = "&"
	}
	target += sep + q.Encode()

	body, err := d.pipeline.Fetch(ctx, target, nil)
	if err != nil {
		return team, "", err
	}
	return team, body, nil
}

func (d *Dispatcher) teamNews(ctx context.Context, inv *Invocation) ([]string, error) {
	team, body, err := d.fetchKeyed(ctx, inv.Rest(), registry.ProviderNews, d.endpoints.News, nil)
	if err != nil {
		return nil, err
	}
	items, err := scrape.ParseNews(body)
	if errors.Is(err, scrape.ErrNoData) {
		return []string{"No news found for " + team.Code}, nil
	}
	if err != nil {
		return nil, err
	}

	if len(items) > maxNewsItems {
		items = items[:maxNewsItems]
	}
	lines := make([]string, len(items))
	for i, it := range items {
		lines[i] = fmt.Sprintf("%s - %s %s", ircfmt.Underline(it.Source),
			ircfmt.SmartTruncate(it.Title, newsTitleLength, "..."), ircfmt.Color(it.URL, "blue"))
	}
	return lines, nil
}

func (d *Dispatcher) teamSalary(ctx context.Context, inv *Invocation) ([]string, error) {
	extra := url.Values{}
	extra.Set("seasons", fmt.Sprint(d.now().Year()))
	extra.Set("encoding", "json")

	team, body, err := d.fetchKeyed(ctx, inv.Rest(), registry.ProviderSalary, d.endpoints.Salaries, extra)
	if err != nil {
		return nil, err
	}
	ts, err := scrape.ParseTeamSalaries(body)
	if errors.Is(err, scrape.ErrNoData) {
		return []string{fmt.Sprintf("I did not find any team salary data in %d for %s", d.now().Year(), team.Code)}, nil
	}
	if err != nil {
		return nil, err
	}

	header := ircfmt.Bold(ircfmt.Underline(team.Code))
	summary := fmt.Sprintf("%s Average: %s Median: %s Total: %s", header,
		ircfmt.Millify(float64(ts.Average)), ircfmt.Millify(float64(ts.Median)), ircfmt.Millify(float64(ts.Total)))

	top := ts.Players
	if len(top) > maxTopSalaries {
		top = top[:maxTopSalaries]
	}
	parts := make([]string, len(top))
	for i, p := range top {
		parts[i] = fmt.Sprintf("%s %s (%s)", ircfmt.Millify(float64(p.Salary)), p.Name, p.Position)
	}
	return []string{summary, header + " (top 5 salary): " + strings.Join(parts, " ")}, nil
}
