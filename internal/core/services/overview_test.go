package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinescope/internal/core/domain"
	"cinescope/internal/testutil"
)

func sampleDataset(t *testing.T, extra ...testutil.MovieRow) *DatasetService {
	t.Helper()
	rows := append(testutil.SampleRows(), extra...)
	return NewDatasetService(nil, loadRows(t, rows...))
}

func barLabels(bars []domain.Bar) []string {
	labels := make([]string, len(bars))
	for i, b := range bars {
		labels[i] = b.Label
	}
	return labels
}

// ============================================================================
// Movies Per Year Tests
// ============================================================================

func TestMoviesPerYear_Default(t *testing.T) {
	svc := NewOverviewService(sampleDataset(t))

	chart, err := svc.MoviesPerYear(YearRange{}, "")

	require.NoError(t, err)
	assert.Equal(t, []string{"1985", "1995", "2019", "2021"}, barLabels(chart.Bars))
	assert.Equal(t, 2, chart.Bars[3].Count)
	assert.Contains(t, chart.Title, "1940-2023")
}

func TestMoviesPerYear_GenreFilterIsCaseInsensitive(t *testing.T) {
	svc := NewOverviewService(sampleDataset(t))

	chart, err := svc.MoviesPerYear(YearRange{From: 1990, To: 2023}, "comedy")

	require.NoError(t, err)
	assert.Equal(t, []string{"1995", "2021"}, barLabels(chart.Bars))
}

func TestMoviesPerYear_InvalidRange(t *testing.T) {
	svc := NewOverviewService(sampleDataset(t))

	_, err := svc.MoviesPerYear(YearRange{From: 2020, To: 2000}, "")

	assert.ErrorIs(t, err, domain.ErrInvalidRange)
}

func TestOverview_DatasetUnavailable(t *testing.T) {
	svc := NewOverviewService(NewDatasetService(nil, nil))

	_, err := svc.MoviesPerYear(YearRange{}, "")
	assert.ErrorIs(t, err, domain.ErrDatasetUnavailable)
	_, err = svc.GenreRevenue()
	assert.ErrorIs(t, err, domain.ErrDatasetUnavailable)
}

// ============================================================================
// Sunburst / Streamgraph Tests
// ============================================================================

func TestGenreSunburst_Default(t *testing.T) {
	svc := NewOverviewService(sampleDataset(t))

	chart, err := svc.GenreSunburst(YearRange{}, nil)

	require.NoError(t, err)
	require.Len(t, chart.Nodes, 5)
	assert.Equal(t, domain.SunburstNode{ID: "2021", Label: "2021", Value: 4}, chart.Nodes[0])
	assert.Equal(t, "2021/Comedy", chart.Nodes[1].ID)
	assert.Equal(t, "2021", chart.Nodes[1].Parent)

	childSum := 0
	for _, n := range chart.Nodes[1:] {
		childSum += n.Value
	}
	assert.Equal(t, chart.Nodes[0].Value, childSum)
}

func TestGenreStreamgraph(t *testing.T) {
	svc := NewOverviewService(sampleDataset(t))

	chart, err := svc.GenreStreamgraph(YearRange{From: 2019, To: 2021}, []string{"Comedy", "Drama"})

	require.NoError(t, err)
	assert.Equal(t, []int{2019, 2021}, chart.Years)
	require.Len(t, chart.Series, 2)

	drama := chart.Series[0]
	assert.Equal(t, "Drama", drama.Name)
	assert.Equal(t, "up", drama.Direction)
	assert.Equal(t, []float64{50, 0}, drama.Share)
	assert.Equal(t, []float64{50, 0}, drama.Stacked)

	comedy := chart.Series[1]
	assert.Equal(t, "Comedy", comedy.Name)
	assert.Equal(t, "down", comedy.Direction)
	assert.Equal(t, []float64{0, 25}, comedy.Share)
	assert.Equal(t, []float64{0, -25}, comedy.Stacked)
}

func TestGenreSunburst_RepeatedGenresCountOnce(t *testing.T) {
	svc := NewOverviewService(sampleDataset(t))

	chart, err := svc.GenreSunburst(YearRange{From: 2021, To: 2021}, []string{"Horror", "horror", "Thriller"})

	require.NoError(t, err)
	require.Len(t, chart.Nodes, 3)
	assert.Equal(t, 2, chart.Nodes[0].Value)
	assert.Equal(t, "2021/Horror", chart.Nodes[1].ID)
	assert.Equal(t, "2021/Thriller", chart.Nodes[2].ID)
}

func TestGenreStreamgraph_RepeatedGenresCountOnce(t *testing.T) {
	svc := NewOverviewService(sampleDataset(t))

	chart, err := svc.GenreStreamgraph(YearRange{From: 2019, To: 2021}, []string{"Drama", "DRAMA", "Comedy"})

	require.NoError(t, err)
	require.Len(t, chart.Series, 2)
	assert.Equal(t, "Comedy", chart.Series[0].Name)
	drama := chart.Series[1]
	assert.Equal(t, "Drama", drama.Name)
	assert.Equal(t, []float64{50, 0}, drama.Share)
}

// ============================================================================
// Correlation Tests
// ============================================================================

func TestCorrelation_Default(t *testing.T) {
	svc := NewOverviewService(sampleDataset(t))

	chart, err := svc.Correlation(nil)

	require.NoError(t, err)
	assert.Equal(t, defaultCorrelationColumns, chart.Columns)
	assert.Equal(t, 6, chart.Samples)
	for i := range chart.Values {
		assert.Equal(t, 1.0, chart.Values[i][i])
		for j := range chart.Values {
			assert.Equal(t, chart.Values[i][j], chart.Values[j][i])
			assert.LessOrEqual(t, chart.Values[i][j], 1.0)
			assert.GreaterOrEqual(t, chart.Values[i][j], -1.0)
		}
	}
}

func TestCorrelation_OnlyCompleteRows(t *testing.T) {
	svc := NewOverviewService(sampleDataset(t))

	chart, err := svc.Correlation([]string{"budget", "roi"})

	require.NoError(t, err)
	assert.Equal(t, 5, chart.Samples, "zero budget row has no ROI")
}

func TestCorrelation_InvalidColumn(t *testing.T) {
	svc := NewOverviewService(sampleDataset(t))

	_, err := svc.Correlation([]string{"budget", "title"})

	assert.ErrorIs(t, err, domain.ErrInvalidColumn)
}

// ============================================================================
// Scatter / Budget Tests
// ============================================================================

func TestRuntimeRating(t *testing.T) {
	svc := NewOverviewService(sampleDataset(t))

	chart, err := svc.RuntimeRating(YearRange{}, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, chart.Total)
	assert.Len(t, chart.Points, 4)

	sampled, err := svc.RuntimeRating(YearRange{}, 2)
	require.NoError(t, err)
	assert.Equal(t, 4, sampled.Total)
	require.Len(t, sampled.Points, 2)
	assert.Equal(t, "Big Comedy", sampled.Points[0].Label)
	assert.Equal(t, "Seoul Story", sampled.Points[1].Label)
}

func TestRuntimeRating_InvalidLimit(t *testing.T) {
	svc := NewOverviewService(sampleDataset(t))

	_, err := svc.RuntimeRating(YearRange{}, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidLimit)
	_, err = svc.RuntimeRating(YearRange{}, maxLimit+1)
	assert.ErrorIs(t, err, domain.ErrInvalidLimit)
}

func TestBudgetRevenueScatter(t *testing.T) {
	svc := NewOverviewService(sampleDataset(t))

	chart, err := svc.BudgetRevenueScatter(0)
	require.NoError(t, err)
	assert.Equal(t, 5, chart.Total, "zero budget row is left out")
	assert.Len(t, chart.Points, 5)
	assert.Equal(t, domain.ScaleLog, chart.XScale)
	assert.Equal(t, domain.ScaleLog, chart.YScale)
	assert.Equal(t, domain.ScatterPoint{X: 1e6, Y: 3e6, Label: "Big Comedy"}, chart.Points[0])

	sampled, err := svc.BudgetRevenueScatter(2)
	require.NoError(t, err)
	assert.Equal(t, 5, sampled.Total)
	require.Len(t, sampled.Points, 2)
	assert.Equal(t, "Big Comedy", sampled.Points[0].Label)
	assert.Equal(t, "Seoul Story", sampled.Points[1].Label)

	_, err = svc.BudgetRevenueScatter(-1)
	assert.ErrorIs(t, err, domain.ErrInvalidLimit)
}

func TestBudgetRevenue(t *testing.T) {
	svc := NewOverviewService(sampleDataset(t))

	chart, err := svc.BudgetRevenue()

	require.NoError(t, err)
	assert.Equal(t, []string{"<1M", "1M–10M", "10M–50M"}, barLabels(chart.Bars))
	assert.InDelta(t, 3e6, chart.Bars[0].Value, 1)
	assert.InDelta(t, 1.3e7, chart.Bars[1].Value, 1)
	assert.Equal(t, 2, chart.Bars[1].Count)
	assert.InDelta(t, 1.9e8, chart.Bars[2].Value, 1)
}

func TestGenreRevenue(t *testing.T) {
	svc := NewOverviewService(sampleDataset(t))

	chart, err := svc.GenreRevenue()

	require.NoError(t, err)
	require.Len(t, chart.Tiles, 6)
	assert.Equal(t, "Comedy", chart.Tiles[0].Label)
	assert.InDelta(t, 3.73e8, chart.Tiles[0].Value, 1)
	assert.Equal(t, 2, chart.Tiles[0].Count)
	assert.Equal(t, "Horror", chart.Tiles[4].Label)
	assert.Equal(t, "Thriller", chart.Tiles[5].Label)
}
