package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"cinescope/internal/core/domain"
)

var (
	defaultYearsPerYear  = YearRange{From: 1940, To: 2023}
	defaultYearsSunburst = YearRange{From: 2020, To: 2023}
	defaultYearsStream   = YearRange{From: 1940, To: 2025}
	defaultYearsScatter  = YearRange{From: 1990, To: 2025}
)

const defaultScatterLimit = 5000

// CorrelationColumns are the numeric columns the correlation matrix accepts
var CorrelationColumns = []string{
	ColVoteAverage, ColVoteCount, ColBudget, ColRevenue, ColPopularity, ColRuntime, "profit", "roi",
}

var defaultCorrelationColumns = []string{ColVoteAverage, ColVoteCount, ColBudget, ColRevenue, ColPopularity}

func numericValue(m *domain.Movie, column string) (*float64, bool) {
	switch column {
	case ColVoteAverage:
		return m.VoteAverage, true
	case ColVoteCount:
		return m.VoteCount, true
	case ColBudget:
		return m.Budget, true
	case ColRevenue:
		return m.Revenue, true
	case ColPopularity:
		return m.Popularity, true
	case ColRuntime:
		return m.Runtime, true
	case "profit":
		return m.Profit, true
	case "roi":
		return m.ROI, true
	}
	return nil, false
}

type budgetBand struct {
	Label  string
	Lo, Hi float64
}

// Bands are (Lo, Hi]; budgets above the last band are left out.
var budgetBands = []budgetBand{
	{"<1M", 0, 1e6},
	{"1M–10M", 1e6, 1e7},
	{"10M–50M", 1e7, 5e7},
	{"50M–100M", 5e7, 1e8},
	{"100M–200M", 1e8, 2e8},
	{"200M–500M", 2e8, 5e8},
	{">500M", 5e8, 1e9},
}

// OverviewService renders the charts of the overview tab
type OverviewService struct {
	dataset *DatasetService
}

func NewOverviewService(dataset *DatasetService) *OverviewService {
	return &OverviewService{dataset: dataset}
}

// MoviesPerYear counts movies per release year, optionally for one genre.
func (s *OverviewService) MoviesPerYear(years YearRange, genre string) (*domain.BarChart, error) {
	table, err := s.dataset.Dataset()
	if err != nil {
		return nil, err
	}
	years = years.orDefault(defaultYearsPerYear)
	if err := years.validate(); err != nil {
		return nil, err
	}

	perYear := map[int]int{}
	table.Each(func(m *domain.Movie) bool {
		if m.InYears(years.From, years.To) && (genre == "" || m.HasGenre(genre)) {
			perYear[*m.Year]++
		}
		return true
	})

	ordered := make([]int, 0, len(perYear))
	for y := range perYear {
		ordered = append(ordered, y)
	}
	sort.Ints(ordered)

	title := fmt.Sprintf("Number of movies released per year (%d-%d)", years.From, years.To)
	if genre != "" {
		title = fmt.Sprintf("Number of %s movies released per year (%d-%d)", genre, years.From, years.To)
	}
	chart := &domain.BarChart{Title: title, XLabel: "Year", YLabel: "Number of movies", Bars: make([]domain.Bar, 0, len(ordered))}
	for _, y := range ordered {
		chart.Bars = append(chart.Bars, domain.Bar{Label: strconv.Itoa(y), Value: float64(perYear[y]), Count: perYear[y]})
	}
	return chart, nil
}

// GenreSunburst breaks each year of the range down by the selected genres.
func (s *OverviewService) GenreSunburst(years YearRange, genres []string) (*domain.Sunburst, error) {
	table, err := s.dataset.Dataset()
	if err != nil {
		return nil, err
	}
	years = years.orDefault(defaultYearsSunburst)
	if err := years.validate(); err != nil {
		return nil, err
	}
	genres = uniqueFold(genres)
	if len(genres) == 0 {
		genres = DefaultGenres
	}

	counts := map[int][]int{}
	table.Each(func(m *domain.Movie) bool {
		if !m.InYears(years.From, years.To) {
			return true
		}
		for i, g := range genres {
			if m.HasGenre(g) {
				if counts[*m.Year] == nil {
					counts[*m.Year] = make([]int, len(genres))
				}
				counts[*m.Year][i]++
			}
		}
		return true
	})

	ordered := make([]int, 0, len(counts))
	for y := range counts {
		ordered = append(ordered, y)
	}
	sort.Ints(ordered)

	chart := &domain.Sunburst{
		Title: fmt.Sprintf("Genre distribution by year (%d-%d)", years.From, years.To),
		Nodes: []domain.SunburstNode{},
	}
	for _, y := range ordered {
		year := strconv.Itoa(y)
		total := 0
		for _, c := range counts[y] {
			total += c
		}
		chart.Nodes = append(chart.Nodes, domain.SunburstNode{ID: year, Label: year, Value: total})
		for i, g := range genres {
			if c := counts[y][i]; c > 0 {
				chart.Nodes = append(chart.Nodes, domain.SunburstNode{ID: year + "/" + g, Parent: year, Label: g, Value: c})
			}
		}
	}
	return chart, nil
}

// Correlation computes the Pearson matrix over rows where every column is present.
func (s *OverviewService) Correlation(columns []string) (*domain.CorrelationMatrix, error) {
	table, err := s.dataset.Dataset()
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		columns = defaultCorrelationColumns
	}
	for _, c := range columns {
		if _, ok := numericValue(&domain.Movie{}, c); !ok {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidColumn, c)
		}
	}

	series := make([][]float64, len(columns))
	row := make([]float64, len(columns))
	table.Each(func(m *domain.Movie) bool {
		for i, c := range columns {
			v, _ := numericValue(m, c)
			if v == nil {
				return true
			}
			row[i] = *v
		}
		for i := range columns {
			series[i] = append(series[i], row[i])
		}
		return true
	})

	values := make([][]float64, len(columns))
	for i := range columns {
		values[i] = make([]float64, len(columns))
		for j := range columns {
			if i == j {
				values[i][j] = 1
				continue
			}
			if j < i {
				values[i][j] = values[j][i]
				continue
			}
			values[i][j] = round2(pearson(series[i], series[j]))
		}
	}

	samples := 0
	if len(series) > 0 {
		samples = len(series[0])
	}
	return &domain.CorrelationMatrix{
		Title:   "Correlation matrix of movie metrics",
		Columns: columns,
		Values:  values,
		Samples: samples,
	}, nil
}

// GenreStreamgraph computes the yearly share of each genre among all genre
// tags of that year. Odd positions stack up, even positions stack down.
func (s *OverviewService) GenreStreamgraph(years YearRange, genres []string) (*domain.Streamgraph, error) {
	table, err := s.dataset.Dataset()
	if err != nil {
		return nil, err
	}
	years = years.orDefault(defaultYearsStream)
	if err := years.validate(); err != nil {
		return nil, err
	}
	genres = uniqueFold(genres)
	if len(genres) == 0 {
		genres = DefaultGenres
	}

	index := make(map[string]int, len(genres))
	for i, g := range genres {
		index[strings.ToLower(g)] = i
	}
	totals := map[int]int{}
	counts := map[int][]int{}
	table.Each(func(m *domain.Movie) bool {
		if !m.InYears(years.From, years.To) {
			return true
		}
		y := *m.Year
		for _, g := range m.Genres {
			totals[y]++
			if i, ok := index[strings.ToLower(g)]; ok {
				if counts[y] == nil {
					counts[y] = make([]int, len(genres))
				}
				counts[y][i]++
			}
		}
		return true
	})

	ordered := make([]int, 0, len(counts))
	for y := range counts {
		ordered = append(ordered, y)
	}
	sort.Ints(ordered)

	chart := &domain.Streamgraph{
		Title:  fmt.Sprintf("Genre share over time (%d-%d)", years.From, years.To),
		Years:  ordered,
		Series: []domain.StreamSeries{},
	}

	var up, down []int
	for i := range genres {
		if i%2 == 1 {
			up = append(up, i)
		} else {
			down = append(down, i)
		}
	}
	stack := func(idx []int, direction string, sign float64) {
		cumulative := make([]float64, len(ordered))
		for _, gi := range idx {
			series := domain.StreamSeries{
				Name:      genres[gi],
				Direction: direction,
				Share:     make([]float64, len(ordered)),
				Stacked:   make([]float64, len(ordered)),
			}
			for yi, y := range ordered {
				share := 100 * float64(counts[y][gi]) / float64(totals[y])
				cumulative[yi] += sign * share
				series.Share[yi] = round2(share)
				series.Stacked[yi] = round2(cumulative[yi])
			}
			chart.Series = append(chart.Series, series)
		}
	}
	stack(up, "up", 1)
	stack(down, "down", -1)
	return chart, nil
}

// RuntimeRating plots runtime against vote average, sampled down to limit points.
func (s *OverviewService) RuntimeRating(years YearRange, limit int) (*domain.ScatterPlot, error) {
	table, err := s.dataset.Dataset()
	if err != nil {
		return nil, err
	}
	years = years.orDefault(defaultYearsScatter)
	if err := years.validate(); err != nil {
		return nil, err
	}
	limit, err = checkLimit(limit, defaultScatterLimit)
	if err != nil {
		return nil, err
	}

	matches := table.Where(func(m *domain.Movie) bool {
		if !m.InYears(years.From, years.To) {
			return false
		}
		if m.Runtime == nil || m.VoteAverage == nil || m.Revenue == nil || m.Budget == nil || m.Popularity == nil {
			return false
		}
		return *m.Runtime > 50 && *m.Runtime < 200 &&
			*m.VoteAverage > 0 && *m.Revenue > 0 && *m.Budget > 0 && *m.Popularity > 0
	})

	picked := strideSample(matches, limit)

	chart := &domain.ScatterPlot{
		Title:  fmt.Sprintf("Runtime vs rating (%d-%d)", years.From, years.To),
		XLabel: "Runtime (minutes)",
		YLabel: "Average rating",
		Total:  len(matches),
		Points: make([]domain.ScatterPoint, 0, len(picked)),
	}
	for _, m := range picked {
		chart.Points = append(chart.Points, domain.ScatterPoint{X: *m.Runtime, Y: *m.VoteAverage, Label: m.Title})
	}
	return chart, nil
}

// BudgetRevenueScatter plots budget against revenue for movies with both
// above zero, sampled down to limit points. Both axes are meant for log scale.
func (s *OverviewService) BudgetRevenueScatter(limit int) (*domain.ScatterPlot, error) {
	table, err := s.dataset.Dataset()
	if err != nil {
		return nil, err
	}
	limit, err = checkLimit(limit, defaultScatterLimit)
	if err != nil {
		return nil, err
	}

	matches := table.Where(func(m *domain.Movie) bool {
		return m.Budget != nil && m.Revenue != nil && *m.Budget > 0 && *m.Revenue > 0
	})
	picked := strideSample(matches, limit)

	chart := &domain.ScatterPlot{
		Title:  "Budget vs Revenue",
		XLabel: "Budget (log scale)",
		YLabel: "Revenue (log scale)",
		XScale: domain.ScaleLog,
		YScale: domain.ScaleLog,
		Total:  len(matches),
		Points: make([]domain.ScatterPoint, 0, len(picked)),
	}
	for _, m := range picked {
		chart.Points = append(chart.Points, domain.ScatterPoint{X: *m.Budget, Y: *m.Revenue, Label: m.Title})
	}
	return chart, nil
}

// BudgetRevenue averages revenue per budget band for movies with budget and revenue above 100k.
func (s *OverviewService) BudgetRevenue() (*domain.BarChart, error) {
	table, err := s.dataset.Dataset()
	if err != nil {
		return nil, err
	}

	sums := make([]float64, len(budgetBands))
	counts := make([]int, len(budgetBands))
	table.Each(func(m *domain.Movie) bool {
		if m.Budget == nil || m.Revenue == nil || *m.Budget <= 1e5 || *m.Revenue <= 1e5 {
			return true
		}
		for i, b := range budgetBands {
			if *m.Budget > b.Lo && *m.Budget <= b.Hi {
				sums[i] += *m.Revenue
				counts[i]++
				break
			}
		}
		return true
	})

	chart := &domain.BarChart{
		Title:  "Average revenue by budget range",
		XLabel: "Budget range",
		YLabel: "Average revenue (USD)",
		Bars:   []domain.Bar{},
	}
	for i, b := range budgetBands {
		if counts[i] == 0 {
			continue
		}
		chart.Bars = append(chart.Bars, domain.Bar{Label: b.Label, Value: sums[i] / float64(counts[i]), Count: counts[i]})
	}
	return chart, nil
}

// GenreRevenue totals revenue per genre for movies with revenue.
func (s *OverviewService) GenreRevenue() (*domain.Treemap, error) {
	table, err := s.dataset.Dataset()
	if err != nil {
		return nil, err
	}

	sums := map[string]float64{}
	counts := counter{}
	table.Each(func(m *domain.Movie) bool {
		if m.Revenue == nil || *m.Revenue <= 0 {
			return true
		}
		for _, g := range m.Genres {
			sums[g] += *m.Revenue
			counts[g]++
		}
		return true
	})

	return &domain.Treemap{Title: "Total revenue by genre", Metric: "revenue", Tiles: sortedTiles(sums, counts)}, nil
}

func sortedTiles(values map[string]float64, counts counter) []domain.TreemapTile {
	tiles := make([]domain.TreemapTile, 0, len(values))
	for label, v := range values {
		tiles = append(tiles, domain.TreemapTile{Label: label, Value: v, Count: counts[label]})
	}
	sort.Slice(tiles, func(i, j int) bool {
		if tiles[i].Value != tiles[j].Value {
			return tiles[i].Value > tiles[j].Value
		}
		return tiles[i].Label < tiles[j].Label
	})
	return tiles
}
