package scrape

import (
	"github.com/PuerkitoBio/goquery"
)

// Leader is one ranked row of a team's stat leaders.
type Leader struct {
	Rank   string
	Player string
	Stat   string
}

// ParseTeamLeaders reads the mobile team stats page for one category. Rows
// come back in page order; the header row is skipped. Returns ErrNoData when
// the table is empty.
func ParseTeamLeaders(body string) ([]Leader, error) {
	const op = "team leaders"
	doc, err := parseHTML(op, body)
	if err != nil {
		return nil, err
	}

	table := doc.Find("table.table").First()
	if table.Length() == 0 {
		return nil, extractionError(op, "stats table not found")
	}

	var out []Leader
	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 3 {
			return
		}
		player := text(cells.Eq(1).Find("a").First())
		if player == "" {
			return
		}
		out = append(out, Leader{
			Rank:   text(cells.Eq(0)),
			Player: player,
			Stat:   text(cells.Eq(2)),
		})
	})

	if len(out) == 0 {
		return nil, ErrNoData
	}
	return out, nil
}
