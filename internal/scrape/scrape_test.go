package scrape

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture(t *testing.T, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(b)
}

func TestParseRoster(t *testing.T) {
	groups, err := ParseRoster(fixture(t, "roster.html"))
	require.NoError(t, err)

	require.Len(t, groups, 2, "empty sections are dropped")
	assert.Equal(t, "Pitchers", groups[0].Heading)
	assert.Equal(t, []RosterPlayer{
		{Name: "Gerrit Cole", Position: "SP"},
		{Name: "Carlos Rodon", Position: "SP"},
	}, groups[0].Players)
	assert.Equal(t, "Catchers", groups[1].Heading)
	assert.Equal(t, []RosterPlayer{{Name: "Austin Wells", Position: "C"}}, groups[1].Players)
}

func TestParseGamesByPosition(t *testing.T) {
	rows, err := ParseGamesByPosition(fixture(t, "gamesbypos.html"))
	require.NoError(t, err)
	assert.Equal(t, []PositionGames{
		{Position: "C", Players: "Wells 98, Trevino 60"},
		{Position: "1B", Players: "Rizzo 90, Goldschmidt 40"},
	}, rows)
}

func TestParseInjuries(t *testing.T) {
	report, err := ParseInjuries(fixture(t, "injuries.html"))
	require.NoError(t, err)
	assert.Equal(t, "New York Yankees", report.Team)
	require.Len(t, report.Injuries, 2)
	assert.Equal(t, Injury{
		Name:     "Gerrit Cole",
		Position: "SP",
		Status:   "60-Day IL",
		Date:     "Mar 12",
		Injury:   "Elbow",
		Returns:  "June",
	}, report.Injuries[0])
}

func TestParseInjuries_None(t *testing.T) {
	report, err := ParseInjuries("<html><body><p>Nothing here</p></body></html>")
	require.NoError(t, err)
	assert.Empty(t, report.Injuries)
}

func TestParseTeamTransactions(t *testing.T) {
	trans, err := ParseTeamTransactions(fixture(t, "transactions.html"))
	require.NoError(t, err)
	assert.Equal(t, []Transaction{
		{Date: "Jun 3", Description: "Placed RHP Gerrit Cole on the 15-day IL."},
		{Date: "Jun 1", Description: "Recalled OF Jasson Dominguez from Scranton."},
	}, trans)

	_, err = ParseTeamTransactions("<html></html>")
	assert.ErrorIs(t, err, ErrNoData)
}

func TestParseAllStarGames(t *testing.T) {
	games, err := ParseAllStarGames(fixture(t, "allstar.html"))
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, AllStarGame{
		Year:       "1996",
		Score:      "NL 6, AL 0",
		Location:   "Veterans Stadium",
		MVP:        "Mike Piazza",
		Attendance: "62,670",
	}, games[0])
	assert.Equal(t, "1933", games[1].Year)
}

func TestParsePrintSchedule(t *testing.T) {
	games, err := ParsePrintSchedule(fixture(t, "printschedule.html"), 2025)
	require.NoError(t, err)
	require.Len(t, games, 3)

	assert.Equal(t, time.Date(2025, time.April, 5, 0, 0, 0, 0, time.UTC), games[0].Date)
	assert.Equal(t, "Toronto", games[0].Opponent)
	assert.True(t, games[0].Away)
	assert.Equal(t, "7:07 PM", games[0].Time)

	assert.Equal(t, time.Date(2025, time.September, 12, 0, 0, 0, 0, time.UTC), games[1].Date)
	assert.Equal(t, "Boston", games[1].Opponent)
	assert.False(t, games[1].Away)

	assert.Equal(t, "NY Mets", games[2].Opponent)
}

func TestParseScheduleFeed(t *testing.T) {
	games, err := ParseScheduleFeed(fixture(t, "schedule.rss"))
	require.NoError(t, err)
	assert.Equal(t, []FeedGame{
		{Day: "Sat", Date: "Apr 5", Opponent: "Toronto 7:07 PM", Away: true},
		{Day: "Sun", Date: "Apr 6", Opponent: "Boston 1:05 PM"},
	}, games)
}

func TestParseScheduleFeed_Errors(t *testing.T) {
	_, err := ParseScheduleFeed("not xml at all <")
	var ee *ExtractionError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "Sorry, I could not read the schedule feed page.", ee.Reply())

	_, err = ParseScheduleFeed(`<rss><channel><title>Other</title></channel></rss>`)
	assert.ErrorAs(t, err, &ee)
}

func TestParseNews(t *testing.T) {
	items, err := ParseNews(fixture(t, "news.json"))
	require.NoError(t, err)
	assert.Equal(t, []NewsItem{
		{Source: "AP", Title: "Yankees rally late to beat Red Sox", URL: "https://news.test/1"},
		{Source: "MLB.com", Title: "Cole throws bullpen session", URL: "https://news.test/2"},
	}, items)

	_, err = ParseNews("[]")
	assert.ErrorIs(t, err, ErrNoData)

	_, err = ParseNews("{oops")
	var ee *ExtractionError
	assert.ErrorAs(t, err, &ee)
}

func TestParseTeamSalaries(t *testing.T) {
	ts, err := ParseTeamSalaries(fixture(t, "salaries.json"))
	require.NoError(t, err)

	assert.Equal(t, Money(7512345), ts.Average)
	assert.Equal(t, Money(1200000), ts.Median)
	assert.Equal(t, Money(9800000), ts.StdDev)
	assert.Equal(t, Money(210345000), ts.Total)

	require.Len(t, ts.Players, 3)
	assert.Equal(t, "Aaron Judge", ts.Players[0].Name)
	assert.Equal(t, "Gerrit Cole", ts.Players[1].Name)
	assert.Equal(t, "Anthony Rizzo", ts.Players[2].Name)

	_, err = ParseTeamSalaries(`{"salaries": []}`)
	assert.ErrorIs(t, err, ErrNoData)

	_, err = ParseTeamSalaries(`{"salaries": [{"total": "lots"}]}`)
	var ee *ExtractionError
	assert.ErrorAs(t, err, &ee)
}

func TestParseManagers(t *testing.T) {
	managers, err := ParseManagers(fixture(t, "managers.html"))
	require.NoError(t, err)
	require.Len(t, managers, 3, "rows without a linked manager are skipped")
	assert.Equal(t, Manager{Name: "Aaron Boone", Experience: "8", Record: "693-501", Team: "New York Yankees"}, managers[0])
	assert.Equal(t, "Tampa Bay Rays", managers[1].Team)
}

func TestParseRemainingGames(t *testing.T) {
	rows, err := ParseRemainingGames(fixture(t, "remaining.html"))
	require.NoError(t, err)
	assert.Equal(t, []RemainingGames{
		{Team: "NEW YORK YANKEES", Summary: "12 games left: 6 home, 6 away. Opp. win pct .512"},
		{Team: "TAMPA BAY RAYS", Summary: "11 games left: 4 home, 7 away. Opp. win pct .498"},
		{Team: "NEW YORK YANKEES", Summary: "Magic number: 4"},
		{Team: "EXPANSION TEAM", Summary: "30 games left"},
	}, rows)
}

func TestParseLineups(t *testing.T) {
	lineups, err := ParseLineups(fixture(t, "lineups.html"))
	require.NoError(t, err)
	assert.Equal(t, []Lineup{
		{Team: "NYY", Batters: "1. Volpe SS, 2. Soto RF, 3. Judge CF, 4. Stanton DH"},
		{Team: "TAM", Batters: "1. Diaz 1B, 2. Arozarena LF, 3. Lowe 2B"},
	}, lineups)

	_, err = ParseLineups("<html><body><div><b>Final</b></div></body></html>")
	assert.ErrorIs(t, err, ErrNoData)
}

func TestParseTeamLeaders(t *testing.T) {
	leaders, err := ParseTeamLeaders(fixture(t, "teamleaders.html"))
	require.NoError(t, err)
	require.Len(t, leaders, 6)
	assert.Equal(t, Leader{Rank: "1", Player: "Aaron Judge", Stat: "58"}, leaders[0])
	assert.Equal(t, "Giancarlo Stanton", leaders[2].Player)

	_, err = ParseTeamLeaders(`<html><body><table class="table"><tr><th>RK</th></tr></table></body></html>`)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestExtractorsRejectUnrelatedPages(t *testing.T) {
	page := "<html><body><h1>Maintenance</h1></body></html>"

	var ee *ExtractionError
	_, err := ParseRoster(page)
	assert.ErrorAs(t, err, &ee)
	_, err = ParseGamesByPosition(page)
	assert.ErrorAs(t, err, &ee)
	_, err = ParseAllStarGames(page)
	assert.ErrorAs(t, err, &ee)
	_, err = ParsePrintSchedule(page, 2025)
	assert.ErrorAs(t, err, &ee)
	_, err = ParseManagers(page)
	assert.ErrorAs(t, err, &ee)
	_, err = ParseRemainingGames(page)
	assert.ErrorAs(t, err, &ee)
	_, err = ParseTeamLeaders(page)
	assert.ErrorAs(t, err, &ee)
}
