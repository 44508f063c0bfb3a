package scrape

import (
	"github.com/PuerkitoBio/goquery"
)

// RemainingGames is a playoff contender's remaining schedule summary.
type RemainingGames struct {
	Team    string
	Summary string
}

// ParseRemainingGames reads the playoff race page. Each contender has its own
// table headed by the team name; the first data row summarises what is left.
// A team may appear in more than one table.
func ParseRemainingGames(body string) ([]RemainingGames, error) {
	const op = "playoff race"
	doc, err := parseHTML(op, body)
	if err != nil {
		return nil, err
	}

	tables := doc.Find("table.tablehead")
	if tables.Length() == 0 {
		return nil, extractionError(op, "no contender tables")
	}

	var out []RemainingGames
	tables.Each(func(i int, table *goquery.Selection) {
		team := text(table.Find(`tr.colhead td[colspan="6"]`).First())
		summary := text(table.Find("tr.oddrow").First())
		if team == "" || summary == "" {
			return
		}
		out = append(out, RemainingGames{Team: team, Summary: summary})
	})
	return out, nil
}
