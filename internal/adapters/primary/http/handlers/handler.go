package handlers

import (
	"net/http"

	"cinescope/internal/core/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	datasetSvc  *services.DatasetService
	overviewSvc *services.OverviewService
	genreSvc    *services.GenreService
	countrySvc  *services.CountryService
	companySvc  *services.CompanyService
}

func New(
	datasetSvc *services.DatasetService,
	overviewSvc *services.OverviewService,
	genreSvc *services.GenreService,
	countrySvc *services.CountryService,
	companySvc *services.CompanyService,
) *Handler {
	return &Handler{
		datasetSvc:  datasetSvc,
		overviewSvc: overviewSvc,
		genreSvc:    genreSvc,
		countrySvc:  countrySvc,
		companySvc:  companySvc,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	// Dataset
	r.GET("/dataset", h.GetDataset)

	// Overview tab
	r.GET("/overview/movies-per-year", h.MoviesPerYear)
	r.GET("/overview/genre-sunburst", h.GenreSunburst)
	r.GET("/overview/correlation", h.Correlation)
	r.GET("/overview/genre-stream", h.GenreStreamgraph)
	r.GET("/overview/runtime-rating", h.RuntimeRating)
	r.GET("/overview/budget-revenue", h.BudgetRevenue)
	r.GET("/overview/budget-revenue-scatter", h.BudgetRevenueScatter)
	r.GET("/overview/genre-revenue", h.GenreRevenue)

	// Genre tab
	r.GET("/genres", h.ListGenres)
	r.GET("/genres/budget-treemap", h.BudgetTreemap)
	r.GET("/genres/:genre/movies-per-year", h.GenreMoviesPerYear)
	r.GET("/genres/:genre/country-heatmap", h.CountryHeatmap)
	r.GET("/genres/:genre/studio-heatmap", h.StudioHeatmap)
	r.GET("/genres/:genre/country-share", h.CountryShare)

	// Country tab
	r.GET("/countries", h.ListCountries)
	r.GET("/countries/choropleth", h.Choropleth)
	r.GET("/countries/:country/genres", h.CountryGenres)
	r.GET("/countries/:country/companies", h.CountryCompanies)
	r.GET("/countries/:country/genre-flow", h.CountryGenreFlow)
	r.GET("/countries/:country/top", h.CountryTopMovies)

	// Company tab
	r.GET("/companies", h.ListCompanies)
	r.GET("/companies/top", h.TopCompanies)
	r.GET("/companies/:company/genre-flow", h.CompanyGenreFlow)
	r.GET("/companies/:company/top-roi", h.CompanyTopROI)
	r.GET("/companies/:company/genres", h.CompanyGenres)
}

func respond(c *gin.Context, body any, err error) {
	if err != nil {
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, body)
}

func bindQuery(c *gin.Context, q any) bool {
	if err := c.ShouldBindQuery(q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}
