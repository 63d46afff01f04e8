package handler

import (
	"net/http"

	"signrecipes/internal/service"

	"github.com/gin-gonic/gin"
)

type HierarchyHandler struct {
	svc service.HierarchyService
}

func NewHierarchyHandler(svc service.HierarchyService) *HierarchyHandler {
	return &HierarchyHandler{svc: svc}
}

// Resolve walks the process tree below the given code. An unknown code
// yields an empty hierarchy rather than an error.
func (h *HierarchyHandler) Resolve(c *gin.Context) {
	nodes, err := h.svc.Resolve(c.Request.Context(), c.Param("code"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"root": c.Param("code"), "hierarchy": nodes})
}
