package services

import (
	"fmt"
	"sort"

	"cinescope/internal/core/domain"
)

var catalogYears = YearRange{From: 1940, To: 2023}

const (
	defaultGenreBreakdownLimit = 15
	defaultTopCompaniesLimit   = 7
	defaultTopMoviesLimit      = 10
	flowMinYear                = 1980
	flowTopGenres              = 5
	donutHole                  = 0.5
)

// inCatalogScope is the base scope of the country and company tabs.
func inCatalogScope(m *domain.Movie) bool {
	if !m.InYears(catalogYears.From, catalogYears.To) || len(m.Countries) == 0 || len(m.Companies) == 0 {
		return false
	}
	_, excluded := ExcludedTitles[m.Title]
	return !excluded
}

func inCountryScope(m *domain.Movie) bool {
	return inCatalogScope(m) && m.ROI != nil
}

// CountryService renders the charts of the country tab
type CountryService struct {
	dataset *DatasetService
}

func NewCountryService(dataset *DatasetService) *CountryService {
	return &CountryService{dataset: dataset}
}

// Choropleth counts movies per production country with its ISO alpha-3 code.
func (s *CountryService) Choropleth() (*domain.Choropleth, error) {
	table, err := s.dataset.Dataset()
	if err != nil {
		return nil, err
	}

	counts := counter{}
	table.Each(func(m *domain.Movie) bool {
		if inCountryScope(m) {
			for _, c := range m.Countries {
				counts[c]++
			}
		}
		return true
	})

	chart := &domain.Choropleth{Title: "Number of movies per country", Regions: []domain.Region{}}
	for _, lc := range counts.top(0) {
		iso, ok := ISO3(lc.Label)
		if !ok {
			chart.Unmapped = append(chart.Unmapped, lc.Label)
			continue
		}
		chart.Regions = append(chart.Regions, domain.Region{
			Country:   lc.Label,
			ISO3:      iso,
			Movies:    lc.Count,
			LogMovies: log10p1(lc.Count),
		})
	}
	sort.Strings(chart.Unmapped)
	return chart, nil
}

// GenreBreakdown counts the genres of a country's movies.
func (s *CountryService) GenreBreakdown(country string, limit int) (*domain.BarChart, error) {
	movies, limit, err := s.countryMovies(country, limit, defaultGenreBreakdownLimit)
	if err != nil {
		return nil, err
	}
	counts := counter{}
	for _, m := range movies {
		for _, g := range m.Genres {
			counts[g]++
		}
	}
	return &domain.BarChart{
		Title:  fmt.Sprintf("Genres in %s", country),
		XLabel: "Genre",
		YLabel: "Number of movies",
		Bars:   toBars(counts.top(limit)),
	}, nil
}

// TopCompanies returns the companies producing most of a country's movies.
func (s *CountryService) TopCompanies(country string, limit int) (*domain.PieChart, error) {
	movies, limit, err := s.countryMovies(country, limit, defaultTopCompaniesLimit)
	if err != nil {
		return nil, err
	}
	counts := counter{}
	for _, m := range movies {
		for _, c := range m.Companies {
			counts[c]++
		}
	}
	return &domain.PieChart{
		Title:  fmt.Sprintf("Top %d production companies in %s", limit, country),
		Hole:   donutHole,
		Slices: toSlices(counts.top(limit)),
	}, nil
}

// GenreDecadeFlow links the top genres of a country to release decades since 1980.
func (s *CountryService) GenreDecadeFlow(country string) (*domain.Sankey, error) {
	movies, _, err := s.countryMovies(country, 0, 0)
	if err != nil {
		return nil, err
	}
	recent := movies[:0:0]
	for _, m := range movies {
		if *m.Year >= flowMinYear {
			recent = append(recent, m)
		}
	}
	return genreDecadeFlow(fmt.Sprintf("Genre flow by decade in %s", country), recent, flowTopGenres), nil
}

// TopMovies ranks a country's movies by feature.
func (s *CountryService) TopMovies(country, feature string, limit int) (*domain.BarChart, error) {
	if feature == "" {
		feature = "revenue"
	}
	label, ok := Features[feature]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidFeature, feature)
	}
	movies, limit, err := s.countryMovies(country, limit, defaultTopMoviesLimit)
	if err != nil {
		return nil, err
	}

	bars := make([]domain.Bar, 0, len(movies))
	for _, m := range movies {
		if v := featureValue(m, feature); v != nil {
			bars = append(bars, domain.Bar{Label: m.Title, Value: *v})
		}
	}
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Value > bars[j].Value })
	if len(bars) > limit {
		bars = bars[:limit]
	}
	return &domain.BarChart{
		Title:  fmt.Sprintf("Top %d movies in %s by %s", limit, country, label),
		XLabel: label,
		YLabel: "Movie",
		Bars:   bars,
	}, nil
}

func (s *CountryService) countryMovies(country string, limit, def int) ([]*domain.Movie, int, error) {
	table, err := s.dataset.Dataset()
	if err != nil {
		return nil, 0, err
	}
	if def > 0 {
		if limit, err = checkLimit(limit, def); err != nil {
			return nil, 0, err
		}
	}
	movies := table.Where(func(m *domain.Movie) bool {
		return inCountryScope(m) && m.HasCountry(country)
	})
	return movies, limit, nil
}

func featureValue(m *domain.Movie, feature string) *float64 {
	switch feature {
	case "revenue":
		return m.Revenue
	case "budget":
		return m.Budget
	case "roi":
		return m.ROI
	case "popularity":
		return m.Popularity
	}
	return nil
}
