package delivery

import (
	"errors"
	"net/http"

	"dietlog-backend/internal/catalog/usecase"
	"dietlog-backend/pkg/apperr"
	"dietlog-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// CatalogHandler serves the public food search endpoints
type CatalogHandler struct {
	catalogUsecase usecase.CatalogUsecase
}

func NewCatalogHandler(catalogUsecase usecase.CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{catalogUsecase: catalogUsecase}
}

// Search lists foods matching a free-text query
// GET /search?query=100g apple
func (h *CatalogHandler) Search(c *gin.Context) {
	results, err := h.catalogUsecase.Search(c.Request.Context(), c.Query("query"))
	if err != nil {
		response.ErrorWithMessage(c, "Catalog", err, "Invalid API response")
		return
	}
	c.JSON(http.StatusOK, results)
}

// GetProduct returns the tracked macros of one food
// GET /product/:code
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	product, err := h.catalogUsecase.GetProduct(c.Request.Context(), c.Param("code"))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		response.Error(c, "Catalog", err)
		return
	}
	c.JSON(http.StatusOK, product)
}
