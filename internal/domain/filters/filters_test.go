package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name      string
		in        MovieFilters
		wantPage  int
		wantLimit int
	}{
		{"defaults", MovieFilters{}, 1, 10},
		{"limit below floor is clamped", MovieFilters{Page: 2, Limit: 3}, 2, 10},
		{"limit at floor kept", MovieFilters{Page: 1, Limit: 10}, 1, 10},
		{"limit above floor kept", MovieFilters{Page: 5, Limit: 25}, 5, 25},
		{"negative page reset", MovieFilters{Page: -1, Limit: 50}, 1, 50},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.in.Normalize()
			assert.Equal(t, tc.wantPage, tc.in.Page)
			assert.Equal(t, tc.wantLimit, tc.in.Limit)
		})
	}
}

func TestOffset(t *testing.T) {
	f := MovieFilters{Page: 3, Limit: 10}
	assert.Equal(t, 20, f.Offset())
}

func TestCalculateMetadata(t *testing.T) {
	cases := []struct {
		name      string
		total     int
		limit     int
		wantPages int
	}{
		{"empty", 0, 10, 0},
		{"one partial page", 1, 10, 1},
		{"exact pages", 20, 10, 2},
		{"remainder adds page", 21, 10, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := CalculateMetadata(tc.total, MovieFilters{Page: 1, Limit: tc.limit})
			assert.Equal(t, tc.wantPages, m.TotalPages)
			assert.Equal(t, tc.total, m.Total)
		})
	}
}
