package handler

import (
	"net/http"
	"time"

	"signrecipes/internal/service"

	"github.com/gin-gonic/gin"
)

type CleanupHandler struct {
	svc       service.CleanupService
	retention time.Duration
}

func NewCleanupHandler(svc service.CleanupService, retention time.Duration) *CleanupHandler {
	return &CleanupHandler{svc: svc, retention: retention}
}

// Run triggers a retention sweep on demand, outside the periodic schedule.
func (h *CleanupHandler) Run(c *gin.Context) {
	resp, err := h.svc.Sweep(c.Request.Context(), h.retention)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
