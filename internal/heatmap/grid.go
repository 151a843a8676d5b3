package heatmap

import (
	"math"
	"time"
)

// DateLayout is the local calendar date format used for progress record keys.
const DateLayout = "2006-01-02"

// Record is one day of logged reading for one member, as stored.
type Record struct {
	Date      string // local calendar date, DateLayout
	PagesRead int
	Level     int
}

// DayContribution is one cell of the rendered heatmap.
type DayContribution struct {
	Date      time.Time `json:"date"`
	Level     int       `json:"level"`
	PagesRead int       `json:"pages_read,omitempty"`
}

// MonthPosition marks the week column where a month label should be drawn.
type MonthPosition struct {
	Month    string `json:"month"`
	Position int    `json:"position"`
}

// Short month names as the UI displays them (pt-BR).
var monthNames = [12]string{
	"jan", "fev", "mar", "abr", "mai", "jun",
	"jul", "ago", "set", "out", "nov", "dez",
}

// DateKey formats t as its local calendar date, the key used for one
// progress record per member per day.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// WindowStart returns the first day of the trailing one-year heatmap window:
// 364 days before today, rolled back to the preceding Sunday so the grid
// always starts on a full week.
func WindowStart(today time.Time) time.Time {
	d := truncateToDay(today).AddDate(0, 0, -364)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// DaysBetween counts calendar days from start to end, inclusive.
func DaysBetween(start, end time.Time) int {
	start = truncateToDay(start)
	end = truncateToDay(end)
	// Rounding absorbs DST offsets, which make some local days 23h or 25h.
	return int(math.Round(end.Sub(start).Hours()/24)) + 1
}

// WeeksToShow is the number of week columns needed to render totalDays.
func WeeksToShow(totalDays int) int {
	return (totalDays + 6) / 7
}

// BuildGrid reshapes a member's flat record list into the fixed trailing
// window grid: exactly DaysBetween(WindowStart(today), today) entries in
// ascending date order, one per day, level 0 where nothing was logged.
//
// Records outside the window are skipped. If two records land on the same
// offset the later one in the input wins; callers feed records in ascending
// write-timestamp order, which makes collision handling last-write-wins.
func BuildGrid(records []Record, today time.Time) []DayContribution {
	start := WindowStart(today)
	totalDays := DaysBetween(start, today)

	grid := make([]DayContribution, totalDays)
	for i := range grid {
		grid[i] = DayContribution{Date: start.AddDate(0, 0, i)}
	}

	for _, rec := range records {
		d, err := time.ParseInLocation(DateLayout, rec.Date, today.Location())
		if err != nil {
			continue
		}
		idx := DaysBetween(start, d) - 1
		if idx < 0 || idx >= totalDays {
			continue
		}
		grid[idx].Level = rec.Level
		grid[idx].PagesRead = rec.PagesRead
	}

	return grid
}

// MonthPositions computes where month labels sit above the grid: for each
// week column, if the month at that week's start differs from the previous
// label, a new label is emitted at that column. Each month appears at most
// once per pass through the window.
func MonthPositions(start time.Time, weeksToShow int) []MonthPosition {
	var positions []MonthPosition
	lastMonth := time.Month(0)

	for week := 0; week < weeksToShow; week++ {
		weekDate := start.AddDate(0, 0, week*7)
		if m := weekDate.Month(); m != lastMonth {
			positions = append(positions, MonthPosition{
				Month:    monthNames[m-1],
				Position: week,
			})
			lastMonth = m
		}
	}

	return positions
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
