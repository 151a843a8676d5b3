package heatmap

// Classify maps the pages read on a single day against the member's daily
// goal to a heatmap level between 0 and 4.
//
// A day with no pages is always level 0. When no goal is set (between books,
// dailyGoal == 0) any positive amount counts as a full-strength day, so the
// ratio never divides by zero.
func Classify(pagesRead, dailyGoal int) int {
	if pagesRead <= 0 {
		return 0
	}
	if dailyGoal <= 0 {
		return 4
	}

	ratio := float64(pagesRead) / float64(dailyGoal)
	switch {
	case ratio >= 1.5:
		return 4
	case ratio >= 1.0:
		return 3
	case ratio >= 0.5:
		return 2
	default:
		return 1
	}
}
