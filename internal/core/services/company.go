package services

import (
	"fmt"
	"sort"

	"cinescope/internal/core/domain"
)

const (
	defaultCompaniesForGenreLimit = 7
	defaultTopROILimit            = 5
	defaultGenreDistributionLimit = 7
)

// CompanyService renders the charts of the company tab
type CompanyService struct {
	dataset *DatasetService
}

func NewCompanyService(dataset *DatasetService) *CompanyService {
	return &CompanyService{dataset: dataset}
}

// TopCompaniesForGenre returns the companies producing the most movies of genre.
func (s *CompanyService) TopCompaniesForGenre(genre string, limit int) (*domain.BarChart, error) {
	table, err := s.dataset.Dataset()
	if err != nil {
		return nil, err
	}
	if limit, err = checkLimit(limit, defaultCompaniesForGenreLimit); err != nil {
		return nil, err
	}

	counts := counter{}
	table.Each(func(m *domain.Movie) bool {
		if inCatalogScope(m) && (genre == "" || m.HasGenre(genre)) {
			for _, c := range m.Companies {
				counts[c]++
			}
		}
		return true
	})

	title := fmt.Sprintf("Top %d production companies", limit)
	if genre != "" {
		title = fmt.Sprintf("Top %d production companies for %s", limit, genre)
	}
	return &domain.BarChart{Title: title, XLabel: "Company", YLabel: "Number of movies", Bars: toBars(counts.top(limit))}, nil
}

// GenreDecadeFlow links the top genres of a company to release decades since 1980.
func (s *CompanyService) GenreDecadeFlow(company string) (*domain.Sankey, error) {
	table, err := s.dataset.Dataset()
	if err != nil {
		return nil, err
	}
	movies := table.Where(func(m *domain.Movie) bool {
		return inCatalogScope(m) && *m.Year >= flowMinYear && m.HasCompany(company)
	})
	return genreDecadeFlow(fmt.Sprintf("Genre flow by decade for %s", company), movies, flowTopGenres), nil
}

// TopByROI ranks a company's movies by return on investment.
func (s *CompanyService) TopByROI(company string, limit int) (*domain.BarChart, error) {
	table, err := s.dataset.Dataset()
	if err != nil {
		return nil, err
	}
	if limit, err = checkLimit(limit, defaultTopROILimit); err != nil {
		return nil, err
	}

	var bars []domain.Bar
	table.Each(func(m *domain.Movie) bool {
		if inCatalogScope(m) && m.ROI != nil && m.HasCompany(company) {
			bars = append(bars, domain.Bar{Label: m.Title, Value: *m.ROI})
		}
		return true
	})
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Value > bars[j].Value })
	if len(bars) > limit {
		bars = bars[:limit]
	}
	if bars == nil {
		bars = []domain.Bar{}
	}
	return &domain.BarChart{
		Title:  fmt.Sprintf("Top %d movies by ROI for %s", limit, company),
		XLabel: "ROI",
		YLabel: "Movie",
		Bars:   bars,
	}, nil
}

// GenreDistribution splits a company's movies by genre.
func (s *CompanyService) GenreDistribution(company string, limit int) (*domain.PieChart, error) {
	table, err := s.dataset.Dataset()
	if err != nil {
		return nil, err
	}
	if limit, err = checkLimit(limit, defaultGenreDistributionLimit); err != nil {
		return nil, err
	}

	counts := counter{}
	table.Each(func(m *domain.Movie) bool {
		if inCatalogScope(m) && m.HasCompany(company) {
			for _, g := range m.Genres {
				counts[g]++
			}
		}
		return true
	})
	return &domain.PieChart{
		Title:  fmt.Sprintf("Genre distribution for %s", company),
		Hole:   donutHole,
		Slices: toSlices(counts.top(limit)),
	}, nil
}
