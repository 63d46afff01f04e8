package handler

import (
	"net/http"

	"signrecipes/internal/apierror"
	"signrecipes/internal/dto"
	"signrecipes/internal/service"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct{ svc service.CatalogService }

func NewCatalogHandler(svc service.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

// Import ingests the three catalog batches. Each entity type is independent:
// a rejected batch reports its first bad row while the others still commit,
// so the response status is 422 whenever anything was rejected.
func (h *CatalogHandler) Import(c *gin.Context) {
	var req dto.ImportRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if len(req.Products)+len(req.Materials)+len(req.Processes) == 0 {
		c.JSON(http.StatusBadRequest, apierror.New("Empty import: no batches supplied"))
		return
	}
	resp, err := h.svc.Import(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	status := http.StatusOK
	for _, res := range []*dto.BatchResult{resp.Products, resp.Materials, resp.Processes} {
		if res != nil && res.Rejected != nil {
			status = http.StatusUnprocessableEntity
		}
	}
	c.JSON(status, resp)
}

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	var filter dto.ProductFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListProducts(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) GetProduct(c *gin.Context) {
	resp, err := h.svc.GetProduct(c.Request.Context(), c.Param("code"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) GetMaterial(c *gin.Context) {
	resp, err := h.svc.GetMaterial(c.Request.Context(), c.Param("code"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) GetProcess(c *gin.Context) {
	resp, err := h.svc.GetProcess(c.Request.Context(), c.Param("code"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
