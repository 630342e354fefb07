package dto

import "cinescope/internal/core/services"

// ============================================================================
// Request DTOs
// ============================================================================

// YearRangeQuery is an inclusive release year filter. Zero bounds use the chart default.
type YearRangeQuery struct {
	From int `form:"from" binding:"omitempty,min=1900,max=2100"`
	To   int `form:"to" binding:"omitempty,min=1900,max=2100"`
}

func (q YearRangeQuery) Range() services.YearRange {
	return services.YearRange{From: q.From, To: q.To}
}

type MoviesPerYearQuery struct {
	YearRangeQuery
	Genre string `form:"genre"`
}

type GenreSetQuery struct {
	YearRangeQuery
	Genres []string `form:"genre"`
}

type CorrelationQuery struct {
	Columns []string `form:"column"`
}

type ScatterQuery struct {
	YearRangeQuery
	Limit int `form:"limit" binding:"omitempty,min=1,max=100000"`
}

type LimitQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100000"`
}

type TopMoviesQuery struct {
	LimitQuery
	Feature string `form:"feature" binding:"omitempty,oneof=revenue budget roi popularity"`
}

type TopCompaniesQuery struct {
	LimitQuery
	Genre string `form:"genre"`
}

// ============================================================================
// Response DTOs
// ============================================================================

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type GenreChoicesResponse struct {
	Genres    []string `json:"genres"`
	Available []string `json:"available"`
}

type CountryChoicesResponse struct {
	Countries []string `json:"countries"`
	Features  []Option `json:"features"`
	Available []string `json:"available"`
}

type CompanyChoicesResponse struct {
	Companies []string `json:"companies"`
	Genres    []string `json:"genres"`
}
