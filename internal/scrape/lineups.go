package scrape

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Lineup is one team's posted batting order. Team is the page's own
// abbreviation, e.g. TAM or NYY.
type Lineup struct {
	Team    string
	Batters string
}

var teamAbbrev = regexp.MustCompile(`^[A-Z]{2,3}$`)

// ParseLineups reads the mobile lineups page, where each lineup is a block
// led by the team abbreviation in bold. Returns ErrNoData when no lineups
// are posted yet.
func ParseLineups(body string) ([]Lineup, error) {
	const op = "lineups"
	doc, err := parseHTML(op, body)
	if err != nil {
		return nil, err
	}

	var out []Lineup
	doc.Find("div").Each(func(i int, s *goquery.Selection) {
		b := s.ChildrenFiltered("b").First()
		if b.Length() == 0 {
			return
		}
		abbr := text(b)
		if !teamAbbrev.MatchString(abbr) {
			return
		}
		batters := strings.TrimSpace(strings.TrimPrefix(text(s), abbr))
		if batters == "" {
			return
		}
		out = append(out, Lineup{Team: abbr, Batters: batters})
	})

	if len(out) == 0 {
		return nil, ErrNoData
	}
	return out, nil
}
