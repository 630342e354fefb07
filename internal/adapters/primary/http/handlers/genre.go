package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cinescope/internal/adapters/primary/http/dto"
	"cinescope/internal/core/services"
)

func (h *Handler) ListGenres(c *gin.Context) {
	table, err := h.datasetSvc.Dataset()
	if err != nil {
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.GenreChoicesResponse{
		Genres:    services.DefaultGenres,
		Available: table.Genres(),
	})
}

func (h *Handler) GenreMoviesPerYear(c *gin.Context) {
	chart, err := h.genreSvc.MoviesPerYear(c.Param("genre"))
	respond(c, chart, err)
}

func (h *Handler) CountryHeatmap(c *gin.Context) {
	chart, err := h.genreSvc.CountryHeatmap(c.Param("genre"))
	respond(c, chart, err)
}

func (h *Handler) StudioHeatmap(c *gin.Context) {
	chart, err := h.genreSvc.StudioHeatmap(c.Param("genre"))
	respond(c, chart, err)
}

func (h *Handler) CountryShare(c *gin.Context) {
	chart, err := h.genreSvc.CountryShare(c.Param("genre"))
	respond(c, chart, err)
}

func (h *Handler) BudgetTreemap(c *gin.Context) {
	chart, err := h.genreSvc.BudgetTreemap()
	respond(c, chart, err)
}
