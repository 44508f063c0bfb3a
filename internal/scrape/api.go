package scrape

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

type NewsItem struct {
	Source string
	Title  string
	URL    string
}

type newsPayload struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Origin struct {
		Name string `json:"name"`
	} `json:"origin"`
}

// ParseNews reads the team content API response, newest first as served.
func ParseNews(body string) ([]NewsItem, error) {
	const op = "news"

	var payload []newsPayload
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return nil, &ExtractionError{Operation: op, Cause: err}
	}
	if len(payload) == 0 {
		return nil, ErrNoData
	}

	out := make([]NewsItem, 0, len(payload))
	for _, p := range payload {
		if p.Title == "" {
			continue
		}
		out = append(out, NewsItem{Source: p.Origin.Name, Title: clean(p.Title), URL: p.URL})
	}
	return out, nil
}

// Money is a dollar amount the salary API sends either as a number or as a
// string with thousands separators.
type Money int64

func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*m = 0
		return nil
	}

	s := string(data)
	if strings.HasPrefix(s, `"`) {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	}
	s = strings.NewReplacer(",", "", "$", "").Replace(strings.TrimSpace(s))
	if s == "" {
		*m = 0
		return nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("money %q: %w", s, err)
	}
	*m = Money(f)
	return nil
}

type PlayerSalary struct {
	Name     string `json:"player_full_name"`
	Position string `json:"position"`
	Salary   Money  `json:"salary"`
}

// TeamSalaries summarises one team's payroll. Players are sorted by salary,
// highest first.
type TeamSalaries struct {
	Average Money          `json:"average"`
	Median  Money          `json:"med"`
	StdDev  Money          `json:"stdev"`
	Total   Money          `json:"total"`
	Players []PlayerSalary `json:"salary"`
}

// ParseTeamSalaries reads the salary API response.
func ParseTeamSalaries(body string) (TeamSalaries, error) {
	const op = "salary"

	var payload struct {
		Salaries []TeamSalaries `json:"salaries"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return TeamSalaries{}, &ExtractionError{Operation: op, Cause: err}
	}
	if len(payload.Salaries) == 0 {
		return TeamSalaries{}, ErrNoData
	}

	ts := payload.Salaries[0]
	slices.SortStableFunc(ts.Players, func(a, b PlayerSalary) int {
		switch {
		case a.Salary > b.Salary:
			return -1
		case a.Salary < b.Salary:
			return 1
		}
		return 0
	})
	return ts, nil
}
