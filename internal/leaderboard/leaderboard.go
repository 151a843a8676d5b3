package leaderboard

import (
	"sort"
	"time"

	"github.com/ilucaslima/clubidulivro/internal/heatmap"
)

// Member is the slice of a user profile the rankings need.
type Member struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Book string `json:"book"`
}

// Entry is one ranked row.
type Entry struct {
	Member     Member `json:"member"`
	DaysActive int    `json:"days_active"`
	TotalPages int    `json:"total_pages"`
}

// AllTime ranks every member by how many days they logged any reading over
// the whole contribution window, pages read as the secondary figure.
//
// Ordering is deterministic: days active descending, then total pages
// descending, then name ascending. Members with no activity still appear.
func AllTime(members []Member, contributions map[string][]heatmap.DayContribution) []Entry {
	entries := make([]Entry, 0, len(members))
	for _, m := range members {
		var days, pages int
		for _, day := range contributions[m.ID] {
			if day.Level > 0 {
				days++
				pages += day.PagesRead
			}
		}
		entries = append(entries, Entry{Member: m, DaysActive: days, TotalPages: pages})
	}
	sortEntries(entries)
	return entries
}

// CurrentMonth ranks members by activity within the calendar month of now,
// evaluated in local time.
func CurrentMonth(members []Member, contributions map[string][]heatmap.DayContribution, now time.Time) []Entry {
	year, month := now.Year(), now.Month()

	entries := make([]Entry, 0, len(members))
	for _, m := range members {
		var days, pages int
		for _, day := range contributions[m.ID] {
			if day.Level == 0 {
				continue
			}
			if day.Date.Year() == year && day.Date.Month() == month {
				days++
				pages += day.PagesRead
			}
		}
		entries = append(entries, Entry{Member: m, DaysActive: days, TotalPages: pages})
	}
	sortEntries(entries)
	return entries
}

func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].DaysActive != entries[j].DaysActive {
			return entries[i].DaysActive > entries[j].DaysActive
		}
		if entries[i].TotalPages != entries[j].TotalPages {
			return entries[i].TotalPages > entries[j].TotalPages
		}
		return entries[i].Member.Name < entries[j].Member.Name
	})
}
