package scrape

import (
	"github.com/PuerkitoBio/goquery"
)

type Injury struct {
	Name     string
	Position string
	Status   string
	Date     string
	Injury   string
	Returns  string
}

// InjuryReport is the injury table for one team. An empty Injuries slice
// means the team has no listed injuries.
type InjuryReport struct {
	Team     string
	Injuries []Injury
}

// ParseInjuries reads a team injury page.
func ParseInjuries(body string) (InjuryReport, error) {
	const op = "injury"
	doc, err := parseHTML(op, body)
	if err != nil {
		return InjuryReport{}, err
	}

	// No player block means no injuries.
	player := doc.Find("div.player").First()
	if player.Length() == 0 {
		return InjuryReport{}, nil
	}
	report := InjuryReport{Team: text(player.Find("a").First())}

	table := doc.Find(`table[align="center"]`).First()
	if table.Length() == 0 {
		return InjuryReport{}, extractionError(op, "injury table not found")
	}

	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return // header
		}
		cells := row.Find("td")
		if cells.Length() < 7 {
			return
		}
		name := text(cells.Eq(0).Find("a").First())
		if name == "" {
			name = text(cells.Eq(0))
		}
		report.Injuries = append(report.Injuries, Injury{
			Name:     name,
			Position: text(cells.Eq(2)),
			Status:   text(cells.Eq(3)),
			Date:     text(cells.Eq(4)),
			Injury:   text(cells.Eq(5)),
			Returns:  text(cells.Eq(6)),
		})
	})
	return report, nil
}
