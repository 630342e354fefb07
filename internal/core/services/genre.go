package services

import (
	"fmt"
	"strings"

	"cinescope/internal/core/domain"
)

// Heatmap columns: 1980-1984 through 2015-2019
var heatmapPeriods = fiveYearPeriods(1980, 2020)

// GenreService renders the charts of the genre tab
type GenreService struct {
	dataset  *DatasetService
	overview *OverviewService
}

func NewGenreService(dataset *DatasetService) *GenreService {
	return &GenreService{dataset: dataset, overview: NewOverviewService(dataset)}
}

// MoviesPerYear counts movies of genre per year over the default range.
func (s *GenreService) MoviesPerYear(genre string) (*domain.BarChart, error) {
	return s.overview.MoviesPerYear(defaultYearsPerYear, genre)
}

// CountryHeatmap counts genre movies per heatmap country and five-year period.
func (s *GenreService) CountryHeatmap(genre string) (*domain.Heatmap, error) {
	table, err := s.dataset.Dataset()
	if err != nil {
		return nil, err
	}

	rows := make(map[string]int, len(HeatmapCountries))
	for i, c := range HeatmapCountries {
		rows[c] = i
	}
	chart := newPeriodHeatmap(
		fmt.Sprintf("%s movies by country and period", genre), "Country", HeatmapCountries)

	table.Each(func(m *domain.Movie) bool {
		if m.Year == nil || !m.HasGenre(genre) {
			return true
		}
		col := periodIndex(heatmapPeriods, *m.Year)
		if col < 0 {
			return true
		}
		for _, c := range m.Countries {
			if r, ok := rows[c]; ok {
				chart.Counts[r][col]++
			}
		}
		return true
	})
	fillLogValues(chart)
	return chart, nil
}

// StudioHeatmap counts genre movies per major studio and five-year period.
// A movie counts once per studio even when several of its companies alias it.
func (s *GenreService) StudioHeatmap(genre string) (*domain.Heatmap, error) {
	table, err := s.dataset.Dataset()
	if err != nil {
		return nil, err
	}

	names := make([]string, len(Studios))
	rows := make(map[string]int, len(Studios))
	for i, st := range Studios {
		names[i] = st.Name
		rows[st.Name] = i
	}
	chart := newPeriodHeatmap(
		fmt.Sprintf("%s movies by studio and period", genre), "Studio", names)

	table.Each(func(m *domain.Movie) bool {
		if m.Year == nil || !m.HasGenre(genre) {
			return true
		}
		col := periodIndex(heatmapPeriods, *m.Year)
		if col < 0 {
			return true
		}
		seen := map[int]bool{}
		for _, c := range m.Companies {
			studio := StudioOf(c)
			if studio == "" {
				continue
			}
			r := rows[studio]
			if !seen[r] {
				seen[r] = true
				chart.Counts[r][col]++
			}
		}
		return true
	})
	fillLogValues(chart)
	return chart, nil
}

// CountryShare splits the movies of genre between the share countries. A movie
// produced by several of them counts once for each. An empty genre or "all"
// picks the alphabetically first genre with any share.
func (s *GenreService) CountryShare(genre string) (*domain.PieChart, error) {
	table, err := s.dataset.Dataset()
	if err != nil {
		return nil, err
	}

	if genre == "" || strings.EqualFold(genre, "all") {
		genre = ""
		table.Each(func(m *domain.Movie) bool {
			if !sharesCountry(m) {
				return true
			}
			for _, g := range m.Genres {
				if genre == "" || g < genre {
					genre = g
				}
			}
			return true
		})
	}

	counts := counter{}
	if genre != "" {
		table.Each(func(m *domain.Movie) bool {
			if !m.HasGenre(genre) {
				return true
			}
			for _, c := range ShareCountries {
				if m.HasCountry(c) {
					counts[c]++
				}
			}
			return true
		})
	}

	return &domain.PieChart{
		Title:  fmt.Sprintf("Top %d country contribution to '%s' genre", len(ShareCountries), genre),
		Slices: toSlices(counts.top(0)),
	}, nil
}

func sharesCountry(m *domain.Movie) bool {
	for _, c := range ShareCountries {
		if m.HasCountry(c) {
			return true
		}
	}
	return false
}

// BudgetTreemap averages the budget per genre over movies with a budget.
func (s *GenreService) BudgetTreemap() (*domain.Treemap, error) {
	table, err := s.dataset.Dataset()
	if err != nil {
		return nil, err
	}

	sums := map[string]float64{}
	counts := counter{}
	table.Each(func(m *domain.Movie) bool {
		if m.Budget == nil || *m.Budget <= 0 {
			return true
		}
		for _, g := range m.Genres {
			sums[g] += *m.Budget
			counts[g]++
		}
		return true
	})
	for g, sum := range sums {
		sums[g] = sum / float64(counts[g])
	}

	return &domain.Treemap{Title: "Average budget by genre", Metric: "average_budget", Tiles: sortedTiles(sums, counts)}, nil
}

func newPeriodHeatmap(title, yLabel string, rows []string) *domain.Heatmap {
	columns := make([]string, len(heatmapPeriods))
	for i, p := range heatmapPeriods {
		columns[i] = p.label()
	}
	counts := make([][]int, len(rows))
	for i := range counts {
		counts[i] = make([]int, len(columns))
	}
	return &domain.Heatmap{
		Title:   title,
		XLabel:  "Period",
		YLabel:  yLabel,
		Columns: columns,
		Rows:    append([]string(nil), rows...),
		Counts:  counts,
	}
}

func fillLogValues(h *domain.Heatmap) {
	h.LogValues = make([][]float64, len(h.Counts))
	for i, row := range h.Counts {
		h.LogValues[i] = make([]float64, len(row))
		for j, c := range row {
			h.LogValues[i][j] = log10p1(c)
		}
	}
}
