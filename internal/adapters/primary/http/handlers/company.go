package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cinescope/internal/adapters/primary/http/dto"
	"cinescope/internal/core/services"
)

func (h *Handler) ListCompanies(c *gin.Context) {
	c.JSON(http.StatusOK, dto.CompanyChoicesResponse{
		Companies: services.CompanyChoices,
		Genres:    services.DefaultGenres,
	})
}

func (h *Handler) TopCompanies(c *gin.Context) {
	var q dto.TopCompaniesQuery
	if !bindQuery(c, &q) {
		return
	}
	chart, err := h.companySvc.TopCompaniesForGenre(q.Genre, q.Limit)
	respond(c, chart, err)
}

func (h *Handler) CompanyGenreFlow(c *gin.Context) {
	chart, err := h.companySvc.GenreDecadeFlow(c.Param("company"))
	respond(c, chart, err)
}

func (h *Handler) CompanyTopROI(c *gin.Context) {
	var q dto.LimitQuery
	if !bindQuery(c, &q) {
		return
	}
	chart, err := h.companySvc.TopByROI(c.Param("company"), q.Limit)
	respond(c, chart, err)
}

func (h *Handler) CompanyGenres(c *gin.Context) {
	var q dto.LimitQuery
	if !bindQuery(c, &q) {
		return
	}
	chart, err := h.companySvc.GenreDistribution(c.Param("company"), q.Limit)
	respond(c, chart, err)
}
