package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type Transaction struct {
	Date        string
	Description string
}

// ParseTeamTransactions reads the mobile team transactions page. Blocks that
// only link elsewhere are skipped. Returns ErrNoData when the page lists none.
func ParseTeamTransactions(body string) ([]Transaction, error) {
	const op = "transactions"
	doc, err := parseHTML(op, body)
	if err != nil {
		return nil, err
	}

	var out []Transaction
	doc.Find("div.ind").Each(func(i int, s *goquery.Selection) {
		if s.Find("a[href]").Length() > 0 {
			return
		}
		date := text(s.Find("b, strong").First())
		desc := text(s)
		if date != "" {
			desc = strings.TrimSpace(strings.TrimPrefix(desc, date))
		}
		if desc == "" {
			return
		}
		out = append(out, Transaction{Date: date, Description: desc})
	})

	if len(out) == 0 {
		return nil, ErrNoData
	}
	return out, nil
}
