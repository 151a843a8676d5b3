package heatmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		pagesRead int
		dailyGoal int
		want      int
	}{
		{name: "no pages", pagesRead: 0, dailyGoal: 10, want: 0},
		{name: "negative pages", pagesRead: -3, dailyGoal: 10, want: 0},
		{name: "below half goal", pagesRead: 3, dailyGoal: 10, want: 1},
		{name: "exactly half goal", pagesRead: 5, dailyGoal: 10, want: 2},
		{name: "just under goal", pagesRead: 9, dailyGoal: 10, want: 2},
		{name: "exactly goal", pagesRead: 10, dailyGoal: 10, want: 3},
		{name: "between goal and 1.5x", pagesRead: 14, dailyGoal: 10, want: 3},
		{name: "exactly 1.5x goal", pagesRead: 15, dailyGoal: 10, want: 4},
		{name: "well past goal", pagesRead: 40, dailyGoal: 10, want: 4},
		{name: "no goal set, any pages is max", pagesRead: 1, dailyGoal: 0, want: 4},
		{name: "no goal set, no pages", pagesRead: 0, dailyGoal: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.pagesRead, tt.dailyGoal))
		})
	}
}
