package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/fortuna/dugout/internal/ircfmt"
)

func (d *Dispatcher) builtins() []*Command {
	return []*Command{
		{Name: "mlbteams", Help: "Display a list of valid teams for input.", MaxArgs: 0, Run: d.teams},
		{Name: "mlbteam", Usage: "<team>", Help: "Display a team's code, name and aliases. Ex: Yankees", MinArgs: 1, MaxArgs: -1, Run: d.team},
		{Name: "baseball", Help: "Display a silly baseball.", MaxArgs: 0, Run: d.baseball},
		{Name: "help", Usage: "[command]", Help: "List commands or show help for one.", MaxArgs: 1, Run: d.help},

		{Name: "mlbroster", Usage: "[--40man|--active] <team>", Help: "Display the active roster for team, or the 40-man roster with --40man. Ex: --40man NYY",
			Flags: []string{"40man", "active"}, MinArgs: 1, MaxArgs: -1, Run: d.roster},
		{Name: "mlbgamesbypos", Usage: "<team>", Help: "Display a team's games by position. Ex: NYY", MinArgs: 1, MaxArgs: -1, Run: d.gamesByPosition},
		{Name: "mlbinjury", Usage: "[--details] <team>", Help: "Show all injuries for team. Use --details for the full table. Ex: BOS",
			Flags: []string{"details"}, MinArgs: 1, MaxArgs: -1, Run: d.injuries},
		{Name: "mlbteamtrans", Usage: "<team>", Help: "Show recent transactions for team. Ex: NYY", MinArgs: 1, MaxArgs: -1, Run: d.teamTransactions},

		{Name: "mlbschedule", Usage: "<team>", Help: "Display the upcoming games for team.", MinArgs: 1, MaxArgs: -1, Run: d.schedule},
		{Name: "mlbseries", Usage: "<team> <opp>", Help: "Display the remaining games between team and opp this season. Ex: NYY TOR", MinArgs: 2, MaxArgs: 2, Run: d.series},
		{Name: "mlbteamleaders", Usage: "<team> <category>", Help: "Display a team's leaders in a stat category. Ex: NYY hr", MinArgs: 2, MaxArgs: -1, Run: d.teamLeaders},
		{Name: "mlbmanager", Usage: "<team>", Help: "Display the manager for team. Ex: NYY", MinArgs: 1, MaxArgs: -1, Run: d.manager},
		{Name: "mlbremaining", Usage: "<team>", Help: "Display remaining games for a playoff contender. Ex: NYY", MinArgs: 1, MaxArgs: -1, Run: d.remaining},
		{Name: "mlblineup", Usage: "<team>", Help: "Display the posted lineup for team. Ex: NYY", MinArgs: 1, MaxArgs: -1, Run: d.lineup},
		{Name: "mlballstargame", Usage: "<YYYY>", Help: "Display results for that year's All-Star Game. Earliest year is 1933. Ex: 1996", MinArgs: 1, MaxArgs: 1, Run: d.allStarGame},

		{Name: "mlbteamnews", Usage: "<team>", Help: "Display the most recent news about a team. Ex: NYY", MinArgs: 1, MaxArgs: -1, Run: d.teamNews},
		{Name: "mlbteamsalary", Usage: "<team>", Help: "Display payroll figures and the top salaries for a team. Ex: Yankees", MinArgs: 1, MaxArgs: -1, Run: d.teamSalary},
	}
}

func (d *Dispatcher) teams(ctx context.Context, inv *Invocation) ([]string, error) {
	codes := d.pipeline.Registry().AllCodes()
	return []string{"Valid teams are: " + ircfmt.Join(codes)}, nil
}

func (d *Dispatcher) team(ctx context.Context, inv *Invocation) ([]string, error) {
	rec, err := d.pipeline.ResolveTeam(inv.Rest())
	if err != nil {
		return nil, err
	}
	line := fmt.Sprintf("%s %s", ircfmt.Bold(rec.Code), rec.FullName)
	var aliases []string
	for _, a := range rec.Aliases {
		if a != rec.FullName {
			aliases = append(aliases, a)
		}
	}
	if len(aliases) > 0 {
		line += " :: " + strings.Join(aliases, ", ")
	}
	return []string{line}, nil
}

func (d *Dispatcher) baseball(ctx context.Context, inv *Invocation) ([]string, error) {
	return []string{
		"    ____     ",
		"  .'    '.   ",
		" /" + ircfmt.Color("'-....-'", "red") + `\  `,
		" |        |  ",
		` \` + ircfmt.Color(".-''''-.", "red") + "/  ",
		"  '.____.'   ",
	}, nil
}

func (d *Dispatcher) help(ctx context.Context, inv *Invocation) ([]string, error) {
	if len(inv.Args) == 0 {
		names := make([]string, 0, len(d.commands))
		for _, c := range d.Commands() {
			names = append(names, c.Name)
		}
		return []string{"Commands: " + strings.Join(names, ", ")}, nil
	}

	c, ok := d.Lookup(inv.Args[0])
	if !ok {
		return nil, &UnknownCommandError{Name: inv.Args[0]}
	}
	usage := strings.TrimSpace(c.Name + " " + c.Usage)
	return []string{fmt.Sprintf("%s :: %s", ircfmt.Bold(usage), c.Help)}, nil
}
