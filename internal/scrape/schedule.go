package scrape

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// AllStarGame is one row of the All-Star Game history table.
type AllStarGame struct {
	Year       string
	Score      string
	Location   string
	MVP        string
	Attendance string
}

// ParseAllStarGames reads the All-Star Game history page.
func ParseAllStarGames(body string) ([]AllStarGame, error) {
	const op = "all-star game"
	doc, err := parseHTML(op, body)
	if err != nil {
		return nil, err
	}

	var out []AllStarGame
	doc.Find("tr").Each(func(i int, row *goquery.Selection) {
		if !isDataRow(row) {
			return
		}
		cells := row.Find("td")
		if cells.Length() < 5 {
			return
		}
		out = append(out, AllStarGame{
			Year:       text(cells.Eq(0)),
			Score:      text(cells.Eq(1)),
			Location:   text(cells.Eq(2)),
			MVP:        text(cells.Eq(3)),
			Attendance: text(cells.Eq(4)),
		})
	})
	if len(out) == 0 {
		return nil, extractionError(op, "no game rows")
	}
	return out, nil
}

// ScheduledGame is one line of a printable season schedule. Opponent is the
// provider's display name, not yet translated to a code.
type ScheduledGame struct {
	Date     time.Time
	Opponent string
	Away     bool
	Time     string
}

// ParsePrintSchedule reads the printable season schedule. The page omits the
// year, so season supplies it.
func ParsePrintSchedule(body string, season int) ([]ScheduledGame, error) {
	const op = "schedule"
	doc, err := parseHTML(op, body)
	if err != nil {
		return nil, err
	}

	var out []ScheduledGame
	doc.Find("tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 3 {
			return
		}
		rawDate := text(cells.Eq(0).Find("b").First())
		if rawDate == "" {
			return
		}
		date, err := parseShortDate(rawDate, season)
		if err != nil {
			return
		}

		opp := text(cells.Eq(1))
		away := false
		if after, ok := strings.CutPrefix(opp, "at "); ok {
			opp, away = strings.TrimSpace(after), true
		}
		if after, ok := strings.CutPrefix(opp, "vs "); ok {
			opp = strings.TrimSpace(after)
		}

		out = append(out, ScheduledGame{
			Date:     date,
			Opponent: opp,
			Away:     away,
			Time:     text(cells.Last()),
		})
	})
	if len(out) == 0 {
		return nil, extractionError(op, "no schedule rows")
	}
	return out, nil
}

// parseShortDate handles "Apr 5", "Sept. 12" and friends.
func parseShortDate(s string, year int) (time.Time, error) {
	s = strings.ReplaceAll(s, ".", "")
	s = strings.Replace(s, "Sept", "Sep", 1)
	return time.Parse("Jan 2 2006", fmt.Sprintf("%s %d", s, year))
}

// FeedGame is one item of a team schedule RSS feed.
type FeedGame struct {
	Day      string
	Date     string
	Opponent string
	Away     bool
}

type rssFeed struct {
	Channel struct {
		Title string `xml:"title"`
		Items []struct {
			Title       string `xml:"title"`
			Description string `xml:"description"`
		} `xml:"item"`
	} `xml:"channel"`
}

// ParseScheduleFeed reads a team calendar RSS feed.
func ParseScheduleFeed(body string) ([]FeedGame, error) {
	const op = "schedule feed"

	var feed rssFeed
	if err := xml.Unmarshal([]byte(body), &feed); err != nil {
		return nil, &ExtractionError{Operation: op, Cause: err}
	}
	if !strings.Contains(feed.Channel.Title, "Schedule for") {
		return nil, extractionError(op, "not a schedule feed: %q", feed.Channel.Title)
	}

	var out []FeedGame
	for _, item := range feed.Channel.Items {
		day, date, ok := strings.Cut(item.Title, ",")
		if !ok {
			continue
		}
		// Descriptions are HTML fragments inside CDATA.
		frag, err := goquery.NewDocumentFromReader(strings.NewReader(item.Description))
		if err != nil {
			continue
		}
		desc := clean(frag.Text())
		desc = strings.TrimSpace(strings.ReplaceAll(desc, " EDT", ""))

		g := FeedGame{Day: clean(day), Date: clean(date), Opponent: desc}
		if after, ok := strings.CutPrefix(desc, "@"); ok {
			g.Opponent, g.Away = strings.TrimSpace(after), true
		}
		out = append(out, g)
	}
	if len(out) == 0 {
		return nil, ErrNoData
	}
	return out, nil
}
