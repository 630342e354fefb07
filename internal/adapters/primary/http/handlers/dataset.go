package handlers

import (
	"github.com/gin-gonic/gin"
)

func (h *Handler) GetDataset(c *gin.Context) {
	info, err := h.datasetSvc.Info()
	respond(c, info, err)
}
