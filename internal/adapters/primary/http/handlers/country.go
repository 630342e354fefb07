package handlers

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"cinescope/internal/adapters/primary/http/dto"
	"cinescope/internal/core/services"
)

func (h *Handler) ListCountries(c *gin.Context) {
	table, err := h.datasetSvc.Dataset()
	if err != nil {
		mapDomainError(c, err)
		return
	}

	features := make([]dto.Option, 0, len(services.Features))
	for value, label := range services.Features {
		features = append(features, dto.Option{Value: value, Label: label})
	}
	sort.Slice(features, func(i, j int) bool { return features[i].Value < features[j].Value })

	c.JSON(http.StatusOK, dto.CountryChoicesResponse{
		Countries: services.CountryChoices,
		Features:  features,
		Available: table.Countries(),
	})
}

func (h *Handler) Choropleth(c *gin.Context) {
	chart, err := h.countrySvc.Choropleth()
	respond(c, chart, err)
}

func (h *Handler) CountryGenres(c *gin.Context) {
	var q dto.LimitQuery
	if !bindQuery(c, &q) {
		return
	}
	chart, err := h.countrySvc.GenreBreakdown(c.Param("country"), q.Limit)
	respond(c, chart, err)
}

func (h *Handler) CountryCompanies(c *gin.Context) {
	var q dto.LimitQuery
	if !bindQuery(c, &q) {
		return
	}
	chart, err := h.countrySvc.TopCompanies(c.Param("country"), q.Limit)
	respond(c, chart, err)
}

func (h *Handler) CountryGenreFlow(c *gin.Context) {
	chart, err := h.countrySvc.GenreDecadeFlow(c.Param("country"))
	respond(c, chart, err)
}

func (h *Handler) CountryTopMovies(c *gin.Context) {
	var q dto.TopMoviesQuery
	if !bindQuery(c, &q) {
		return
	}
	chart, err := h.countrySvc.TopMovies(c.Param("country"), q.Feature, q.Limit)
	respond(c, chart, err)
}
