package scrape

import (
	"github.com/PuerkitoBio/goquery"
)

// Manager is one row of the league managers table. Team is the full team
// name as the page prints it.
type Manager struct {
	Name       string
	Experience string
	Record     string
	Team       string
}

// ParseManagers reads the managers table: name, years of experience, record
// and team, one data row per club.
func ParseManagers(body string) ([]Manager, error) {
	const op = "managers"
	doc, err := parseHTML(op, body)
	if err != nil {
		return nil, err
	}

	var out []Manager
	doc.Find("tr").Each(func(i int, row *goquery.Selection) {
		if !isDataRow(row) {
			return
		}
		cells := row.Find("td")
		if cells.Length() < 4 {
			return
		}
		name := text(cells.Eq(0).Find("a").First())
		team := text(cells.Eq(3).Find("a").First())
		if name == "" || team == "" {
			return
		}
		out = append(out, Manager{
			Name:       name,
			Experience: text(cells.Eq(1)),
			Record:     text(cells.Eq(2)),
			Team:       team,
		})
	})

	if len(out) == 0 {
		return nil, extractionError(op, "no manager rows")
	}
	return out, nil
}
