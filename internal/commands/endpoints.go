package commands

import (
	"net/url"
	"strings"
)

// Endpoints holds the URL template for every page the commands read. Team
// pages carry a single {id} placeholder for the provider's team id.
type Endpoints struct {
	RosterActive    string
	Roster40Man     string
	GamesByPosition string
	Injuries        string
	Transactions    string
	ScheduleFeed    string
	// PrintSchedule is followed by the season year.
	PrintSchedule string
	News          string
	Salaries      string
	AllStarGames  string
	// TeamLeaders is followed by the category query value.
	TeamLeaders string
	// League-wide pages; the team is picked out after parsing.
	Managers    string
	PlayoffRace string
	Lineups     string
}

// DefaultEndpoints points at the public pages the commands were written for.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		RosterActive:    "http://espn.go.com/mlb/team/roster/_/name/{id}/type/active/",
		Roster40Man:     "http://espn.go.com/mlb/team/roster/_/name/{id}/",
		GamesByPosition: "http://espn.go.com/mlb/team/lineup/_/name/{id}/",
		Injuries:        "http://rotoworld.com/teams/injuries/mlb/{id}/",
		Transactions:    "http://m.espn.go.com/mlb/teamtransactions?teamId={id}&wjb=",
		ScheduleFeed:    "http://sports.yahoo.com/mlb/teams/{id}/calendar/rss.xml",
		PrintSchedule:   "http://espn.go.com/mlb/teams/printSchedule/_/team/{id}/season/",
		News:            "http://ffapi.fanfeedr.com/basic/api/teams/{id}/content",
		Salaries:        "http://api.usatoday.com/open/salaries/mlb?teams={id}",
		AllStarGames:    "http://espn.go.com/mlb/allstargame/history",
		TeamLeaders:     "http://m.espn.go.com/mlb/teamstats?teamId={id}&lang=EN&y=1&wjb=&category=",
		Managers:        "http://espn.go.com/mlb/managers",
		PlayoffRace:     "http://espn.go.com/mlb/huntforoctober",
		Lineups:         "http://m.espn.go.com/mlb/lineups?wjb=",
	}
}

// WithBaseURL rewrites every endpoint onto base, keeping path and query.
// Used to point the commands at a mirror or a test server.
func (e Endpoints) WithBaseURL(base string) Endpoints {
	base = strings.TrimSuffix(base, "/")
	swap := func(s string) string {
		u, err := url.Parse(s)
		if err != nil || u.Host == "" {
			return s
		}
		return base + strings.TrimPrefix(s, u.Scheme+"://"+u.Host)
	}
	return Endpoints{
		RosterActive:    swap(e.RosterActive),
		Roster40Man:     swap(e.Roster40Man),
		GamesByPosition: swap(e.GamesByPosition),
		Injuries:        swap(e.Injuries),
		Transactions:    swap(e.Transactions),
		ScheduleFeed:    swap(e.ScheduleFeed),
		PrintSchedule:   swap(e.PrintSchedule),
		News:            swap(e.News),
		Salaries:        swap(e.Salaries),
		AllStarGames:    swap(e.AllStarGames),
		TeamLeaders:     swap(e.TeamLeaders),
		Managers:        swap(e.Managers),
		PlayoffRace:     swap(e.PlayoffRace),
		Lineups:         swap(e.Lineups),
	}
}
