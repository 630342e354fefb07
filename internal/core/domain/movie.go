package domain

import (
	"math"
	"strings"
	"time"
)

const MinReleaseYear = 1900

// Movie is one row of the dataset with its derived columns.
// Nil pointers mean the value is missing in the source file.
type Movie struct {
	ID               int64      `json:"id,omitempty"`
	Title            string     `json:"title"`
	ReleaseDate      *time.Time `json:"release_date"`
	Runtime          *float64   `json:"runtime"`
	Budget           *float64   `json:"budget"`
	Revenue          *float64   `json:"revenue"`
	VoteAverage      *float64   `json:"vote_average"`
	VoteCount        *float64   `json:"vote_count"`
	Popularity       *float64   `json:"popularity"`
	Genres           []string   `json:"genres"`
	Countries        []string   `json:"production_countries"`
	Companies        []string   `json:"production_companies"`
	Overview         string     `json:"overview,omitempty"`
	OriginalLanguage string     `json:"original_language,omitempty"`
	Status           string     `json:"status,omitempty"`

	// Derived at load time
	Year       *int     `json:"year"`
	YearBucket *int     `json:"year_bucket"`
	Profit     *float64 `json:"profit"`
	ROI        *float64 `json:"roi"`
}

// Derive fills the derived columns from the raw ones.
func (m *Movie) Derive() {
	m.Year, m.YearBucket = nil, nil
	if m.ReleaseDate != nil {
		y := m.ReleaseDate.Year()
		b := YearBucket(y)
		m.Year, m.YearBucket = &y, &b
	}
	m.Profit = Profit(m.Budget, m.Revenue)
	m.ROI = ROI(m.Profit, m.Budget)
}

func (m *Movie) HasGenre(genre string) bool {
	return containsFold(m.Genres, genre)
}

func (m *Movie) HasCountry(country string) bool {
	return containsFold(m.Countries, country)
}

func (m *Movie) HasCompany(company string) bool {
	return containsFold(m.Companies, company)
}

// InYears reports whether the movie has a year within [from, to].
func (m *Movie) InYears(from, to int) bool {
	return m.Year != nil && *m.Year >= from && *m.Year <= to
}

// Profit is revenue minus budget, undefined when either is missing.
func Profit(budget, revenue *float64) *float64 {
	if budget == nil || revenue == nil {
		return nil
	}
	p := *revenue - *budget
	return &p
}

// ROI is profit over budget, undefined when profit is undefined or budget <= 0.
func ROI(profit, budget *float64) *float64 {
	if profit == nil || budget == nil || *budget <= 0 {
		return nil
	}
	r := *profit / *budget
	if math.IsInf(r, 0) || math.IsNaN(r) {
		return nil
	}
	return &r
}

// YearBucket returns the decade containing year.
func YearBucket(year int) int {
	return int(math.Floor(float64(year)/10)) * 10
}

// ValidReleaseYear reports whether year lies in [MinReleaseYear, currentYear].
func ValidReleaseYear(year, currentYear int) bool {
	return year >= MinReleaseYear && year <= currentYear
}

// SplitTags explodes a delimited list column into unique trimmed tags.
// Both ',' and ';' separate tags; empty, "nan" and "none" tokens are dropped.
func SplitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ';' })
	tags := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(strings.Trim(strings.TrimSpace(p), "[]'\""))
		switch strings.ToLower(p) {
		case "", "nan", "none":
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		tags = append(tags, p)
	}
	if len(tags) == 0 {
		return nil
	}
	return tags
}

func containsFold(values []string, want string) bool {
	for _, v := range values {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}
