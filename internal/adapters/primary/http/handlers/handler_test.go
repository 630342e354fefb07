package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinescope/internal/core/domain"
	"cinescope/internal/core/services"
	"cinescope/internal/testutil"
)

const base = "/api/v1/cinescope"

func setupRouter(t *testing.T, dataset *services.DatasetService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := New(
		dataset,
		services.NewOverviewService(dataset),
		services.NewGenreService(dataset),
		services.NewCountryService(dataset),
		services.NewCompanyService(dataset),
	)
	r := gin.New()
	api := r.Group(base)
	h.RegisterRoutes(api)
	return r
}

func sampleRouter(t *testing.T) *gin.Engine {
	t.Helper()
	table, err := services.NewLoaderService(nil).Read(context.Background(),
		strings.NewReader(testutil.DatasetCSV(testutil.SampleRows()...)))
	require.NoError(t, err)
	file := &domain.DatasetFile{RemoteID: "file-123", Path: "movies.csv", State: domain.DatasetStatePresentValid, CacheHit: true}
	return setupRouter(t, services.NewDatasetService(file, table))
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", base+path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

// ============================================================================
// Dataset Tests
// ============================================================================

func TestGetDataset(t *testing.T) {
	r := sampleRouter(t)

	w := get(r, "/dataset")

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	decode(t, w, &resp)
	assert.Equal(t, float64(6), resp["rows"])
	file := resp["file"].(map[string]interface{})
	assert.Equal(t, true, file["cache_hit"])
}

func TestGetDataset_Unavailable(t *testing.T) {
	r := setupRouter(t, services.NewDatasetService(nil, nil))

	for _, path := range []string{"/dataset", "/overview/movies-per-year", "/genres", "/countries/choropleth"} {
		w := get(r, path)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, path)
	}
}

// ============================================================================
// Overview Tests
// ============================================================================

func TestMoviesPerYear(t *testing.T) {
	r := sampleRouter(t)

	w := get(r, "/overview/movies-per-year?from=2000&to=2023&genre=Romance")

	assert.Equal(t, http.StatusOK, w.Code)
	var chart domain.BarChart
	decode(t, w, &chart)
	require.Len(t, chart.Bars, 2)
	assert.Equal(t, "2019", chart.Bars[0].Label)
	assert.Equal(t, "2021", chart.Bars[1].Label)
}

func TestMoviesPerYear_InvertedRange(t *testing.T) {
	r := sampleRouter(t)

	w := get(r, "/overview/movies-per-year?from=2020&to=2000")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid year range")
}

func TestMoviesPerYear_BadQuery(t *testing.T) {
	r := sampleRouter(t)

	w := get(r, "/overview/movies-per-year?from=abc")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenreSunburst_RepeatedGenres(t *testing.T) {
	r := sampleRouter(t)

	w := get(r, "/overview/genre-sunburst?from=2021&to=2021&genre=Horror&genre=Thriller")

	assert.Equal(t, http.StatusOK, w.Code)
	var chart domain.Sunburst
	decode(t, w, &chart)
	require.Len(t, chart.Nodes, 3)
	assert.Equal(t, 2, chart.Nodes[0].Value)
}

func TestCorrelation_InvalidColumn(t *testing.T) {
	r := sampleRouter(t)

	w := get(r, "/overview/correlation?column=budget&column=title")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBudgetRevenueScatter_BadLimit(t *testing.T) {
	r := sampleRouter(t)

	w := get(r, "/overview/budget-revenue-scatter?limit=0")
	assert.Equal(t, http.StatusOK, w.Code)
	var chart domain.ScatterPlot
	decode(t, w, &chart)
	assert.Equal(t, 5, chart.Total)

	w = get(r, "/overview/budget-revenue-scatter?limit=-3")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRuntimeRating_Limit(t *testing.T) {
	r := sampleRouter(t)

	w := get(r, "/overview/runtime-rating?limit=1")
	assert.Equal(t, http.StatusOK, w.Code)
	var chart domain.ScatterPlot
	decode(t, w, &chart)
	assert.Len(t, chart.Points, 1)
	assert.Equal(t, 4, chart.Total)

	w = get(r, "/overview/runtime-rating?limit=0")
	assert.Equal(t, http.StatusOK, w.Code)

	w = get(r, "/overview/runtime-rating?limit=200000")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOverviewStaticCharts(t *testing.T) {
	r := sampleRouter(t)

	for _, path := range []string{
		"/overview/budget-revenue",
		"/overview/budget-revenue-scatter?limit=3",
		"/overview/genre-revenue",
		"/overview/genre-stream",
		"/overview/correlation",
	} {
		w := get(r, path)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

// ============================================================================
// Genre Tests
// ============================================================================

func TestListGenres(t *testing.T) {
	r := sampleRouter(t)

	w := get(r, "/genres")

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string][]string
	decode(t, w, &resp)
	assert.Equal(t, services.DefaultGenres, resp["genres"])
	assert.Contains(t, resp["available"], "Documentary")
}

func TestGenreRoutes(t *testing.T) {
	r := sampleRouter(t)

	w := get(r, "/genres/Drama/country-heatmap")
	assert.Equal(t, http.StatusOK, w.Code)
	var heatmap domain.Heatmap
	decode(t, w, &heatmap)
	assert.Len(t, heatmap.Rows, len(services.HeatmapCountries))

	for _, path := range []string{"/genres/Drama/movies-per-year", "/genres/Comedy/studio-heatmap", "/genres/budget-treemap"} {
		w := get(r, path)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	w = get(r, "/genres/Horror/country-share")
	assert.Equal(t, http.StatusOK, w.Code)
	var pie domain.PieChart
	decode(t, w, &pie)
	assert.Len(t, pie.Slices, 2)
}

// ============================================================================
// Country Tests
// ============================================================================

func TestChoropleth(t *testing.T) {
	r := sampleRouter(t)

	w := get(r, "/countries/choropleth")

	assert.Equal(t, http.StatusOK, w.Code)
	var chart domain.Choropleth
	decode(t, w, &chart)
	require.NotEmpty(t, chart.Regions)
	assert.Equal(t, "USA", chart.Regions[0].ISO3)
}

func TestCountryTopMovies(t *testing.T) {
	r := sampleRouter(t)

	w := get(r, "/countries/United%20States%20of%20America/top?feature=roi&limit=2")
	assert.Equal(t, http.StatusOK, w.Code)
	var chart domain.BarChart
	decode(t, w, &chart)
	require.Len(t, chart.Bars, 2)
	assert.Equal(t, "Old Toon", chart.Bars[0].Label)

	w = get(r, "/countries/France/top?feature=gross")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCountryRoutes(t *testing.T) {
	r := sampleRouter(t)

	for _, path := range []string{
		"/countries",
		"/countries/France/genres",
		"/countries/France/companies?limit=3",
		"/countries/France/genre-flow",
		"/countries/Narnia/genres",
	} {
		w := get(r, path)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

// ============================================================================
// Company Tests
// ============================================================================

func TestTopCompanies(t *testing.T) {
	r := sampleRouter(t)

	w := get(r, "/companies/top?genre=Comedy&limit=1")

	assert.Equal(t, http.StatusOK, w.Code)
	var chart domain.BarChart
	decode(t, w, &chart)
	assert.Len(t, chart.Bars, 1)
}

func TestCompanyRoutes(t *testing.T) {
	r := sampleRouter(t)

	for _, path := range []string{
		"/companies",
		"/companies/Pixar/genre-flow",
		"/companies/Pixar/top-roi",
		"/companies/Pixar/genres?limit=2",
	} {
		w := get(r, path)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	w := get(r, "/companies/Pixar/genres?limit=-1")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
