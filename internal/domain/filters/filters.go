package filters

import "math"

const (
	DefaultPage  = 1
	DefaultLimit = 10
	// MinLimit is the floor the requested limit is clamped to.
	MinLimit = 10
)

type MovieFilters struct {
	Page   int    `schema:"page" validate:"omitempty,min=1" errorMsg:"Page must be greater than zero"`
	Limit  int    `schema:"limit" validate:"omitempty,min=1,max=100"`
	Search string `schema:"search" validate:"omitempty,max=200"`
}

// Normalize applies defaults and clamps the limit to MinLimit.
func (f *MovieFilters) Normalize() {
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.Limit < MinLimit {
		f.Limit = DefaultLimit
	}
}

func (f *MovieFilters) Offset() int {
	return (f.Page - 1) * f.Limit
}

type Metadata struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"total_pages"`
}

func CalculateMetadata(total int, f MovieFilters) Metadata {
	return Metadata{
		Total:      total,
		Page:       f.Page,
		Limit:      f.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(f.Limit))),
	}
}
