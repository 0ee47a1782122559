package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/cardwatch/internal/services"
)

type IngestHandler struct {
	worker *services.IngestWorker
}

func NewIngestHandler(worker *services.IngestWorker) *IngestHandler {
	return &IngestHandler{worker: worker}
}

// TriggerIngest runs an ingest pass immediately instead of waiting for the
// daily schedule. The run is synchronous so the response reflects its result.
func (h *IngestHandler) TriggerIngest(c *gin.Context) {
	h.worker.RunNow(c.Request.Context())

	status := h.worker.Status()
	if status.LastError != "" {
		c.JSON(http.StatusBadGateway, status)
		return
	}
	c.JSON(http.StatusOK, status)
}

// GetStatus returns the worker's last-run state.
func (h *IngestHandler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.worker.Status())
}
