package scrape

import (
	"github.com/PuerkitoBio/goquery"
)

type RosterPlayer struct {
	Name     string
	Position string
}

// RosterGroup is one section of the roster table, e.g. Pitchers.
type RosterGroup struct {
	Heading string
	Players []RosterPlayer
}

// ParseRoster reads the roster table. Player rows are grouped under the
// nearest preceding stathead row, in page order.
func ParseRoster(body string) ([]RosterGroup, error) {
	const op = "roster"
	doc, err := parseHTML(op, body)
	if err != nil {
		return nil, err
	}

	table := doc.Find("div.mod-content table.tablehead").First()
	if table.Length() == 0 {
		return nil, extractionError(op, "roster table not found")
	}

	var groups []RosterGroup
	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		if row.HasClass("stathead") {
			groups = append(groups, RosterGroup{Heading: text(row)})
			return
		}
		if !isDataRow(row) || !hasClassPrefix(row, "player") {
			return
		}

		cells := row.Find("td")
		name := text(cells.Eq(1).Find("a").First())
		if name == "" {
			name = text(cells.Eq(1))
		}
		if name == "" {
			return
		}
		if len(groups) == 0 {
			groups = append(groups, RosterGroup{Heading: "Roster"})
		}
		g := &groups[len(groups)-1]
		g.Players = append(g.Players, RosterPlayer{Name: name, Position: text(cells.Eq(2))})
	})

	out := groups[:0]
	for _, g := range groups {
		if len(g.Players) > 0 {
			out = append(out, g)
		}
	}
	if len(out) == 0 {
		return nil, extractionError(op, "no player rows")
	}
	return out, nil
}

// PositionGames is one row of the games-by-position table.
type PositionGames struct {
	Position string
	Players  string
}

// ParseGamesByPosition reads the GAMES BY POSITION table from a team lineup page.
func ParseGamesByPosition(body string) ([]PositionGames, error) {
	const op = "games by position"
	doc, err := parseHTML(op, body)
	if err != nil {
		return nil, err
	}

	var table *goquery.Selection
	doc.Find(`td[colspan="2"]`).EachWithBreak(func(i int, td *goquery.Selection) bool {
		if text(td) == "GAMES BY POSITION" {
			table = td.Closest("table")
			return false
		}
		return true
	})
	if table == nil || table.Length() == 0 {
		return nil, extractionError(op, "games by position table not found")
	}

	var out []PositionGames
	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		if !isDataRow(row) {
			return
		}
		pos := row.Find("td").First().Find("strong").First()
		if pos.Length() == 0 {
			return
		}
		out = append(out, PositionGames{
			Position: text(pos),
			Players:  text(row.Find("td").Eq(1)),
		})
	})
	if len(out) == 0 {
		return nil, extractionError(op, "no position rows")
	}
	return out, nil
}
