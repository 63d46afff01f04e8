package handler

import (
	"net/http"

	"signrecipes/internal/dto"
	"signrecipes/internal/service"

	"github.com/gin-gonic/gin"
)

type RecipesHandler struct {
	svc            service.RecipeService
	pdfStoragePath string
	renderPDF      func(dto.ProductResponse, []dto.ExportRow, string) (string, error)
}

func NewRecipesHandler(svc service.RecipeService, pdfStoragePath string,
	renderPDF func(dto.ProductResponse, []dto.ExportRow, string) (string, error)) *RecipesHandler {
	return &RecipesHandler{svc: svc, pdfStoragePath: pdfStoragePath, renderPDF: renderPDF}
}

// Replace is the recipe proposal intake: an ordered list of candidate lines
// that atomically supersedes the product's current recipe when valid.
func (h *RecipesHandler) Replace(c *gin.Context) {
	var req dto.ReplaceRecipeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Replace(c.Request.Context(), c.Param("product_code"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *RecipesHandler) Append(c *gin.Context) {
	var req dto.AppendLinesRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Append(c.Request.Context(), c.Param("product_code"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *RecipesHandler) Get(c *gin.Context) {
	resp, err := h.svc.Get(c.Request.Context(), c.Param("product_code"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Export returns the recipe as ordered tabular rows for the downstream CSV
// collaborator.
func (h *RecipesHandler) Export(c *gin.Context) {
	rows, err := h.svc.ExportRows(c.Request.Context(), c.Param("product_code"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows})
}

// JobSheet renders the recipe as a printable PDF and streams it back.
func (h *RecipesHandler) JobSheet(c *gin.Context) {
	code := c.Param("product_code")
	recipe, err := h.svc.Get(c.Request.Context(), code)
	if err != nil {
		writeError(c, err)
		return
	}
	rows, err := h.svc.ExportRows(c.Request.Context(), code)
	if err != nil {
		writeError(c, err)
		return
	}
	path, err := h.renderPDF(recipe.Product, rows, h.pdfStoragePath)
	if err != nil {
		writeError(c, err)
		return
	}
	c.FileAttachment(path, "jobsheet_"+code+".pdf")
}

func (h *RecipesHandler) DeleteProduct(c *gin.Context) {
	if err := h.svc.DeleteProduct(c.Request.Context(), c.Param("code")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
