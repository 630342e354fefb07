package handlers

import (
	"github.com/gin-gonic/gin"

	"cinescope/internal/adapters/primary/http/dto"
)

func (h *Handler) MoviesPerYear(c *gin.Context) {
	var q dto.MoviesPerYearQuery
	if !bindQuery(c, &q) {
		return
	}
	chart, err := h.overviewSvc.MoviesPerYear(q.Range(), q.Genre)
	respond(c, chart, err)
}

func (h *Handler) GenreSunburst(c *gin.Context) {
	var q dto.GenreSetQuery
	if !bindQuery(c, &q) {
		return
	}
	chart, err := h.overviewSvc.GenreSunburst(q.Range(), q.Genres)
	respond(c, chart, err)
}

func (h *Handler) Correlation(c *gin.Context) {
	var q dto.CorrelationQuery
	if !bindQuery(c, &q) {
		return
	}
	chart, err := h.overviewSvc.Correlation(q.Columns)
	respond(c, chart, err)
}

func (h *Handler) GenreStreamgraph(c *gin.Context) {
	var q dto.GenreSetQuery
	if !bindQuery(c, &q) {
		return
	}
	chart, err := h.overviewSvc.GenreStreamgraph(q.Range(), q.Genres)
	respond(c, chart, err)
}

func (h *Handler) RuntimeRating(c *gin.Context) {
	var q dto.ScatterQuery
	if !bindQuery(c, &q) {
		return
	}
	chart, err := h.overviewSvc.RuntimeRating(q.Range(), q.Limit)
	respond(c, chart, err)
}

func (h *Handler) BudgetRevenueScatter(c *gin.Context) {
	var q dto.LimitQuery
	if !bindQuery(c, &q) {
		return
	}
	chart, err := h.overviewSvc.BudgetRevenueScatter(q.Limit)
	respond(c, chart, err)
}

func (h *Handler) BudgetRevenue(c *gin.Context) {
	chart, err := h.overviewSvc.BudgetRevenue()
	respond(c, chart, err)
}

func (h *Handler) GenreRevenue(c *gin.Context) {
	chart, err := h.overviewSvc.GenreRevenue()
	respond(c, chart, err)
}
