package handler

import (
	"net/http"
	"strings"
	"time"

	"carprice/internal/model"
	"carprice/internal/service"

	"github.com/gin-gonic/gin"
)

// APIHandler handles the JSON API
type APIHandler struct {
	predictionService *service.PredictionService
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(predictionService *service.PredictionService) *APIHandler {
	useFieldNames()
	return &APIHandler{predictionService: predictionService}
}

// Predict handles POST /api/v1/predict
func (h *APIHandler) Predict(c *gin.Context) {
	startTime := time.Now()

	var in model.RawInput
	if err := c.ShouldBindJSON(&in); err != nil {
		status, resp := describeError(err)
		if status == http.StatusInternalServerError {
			// not a validation failure, so the body itself was malformed
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
			return
		}
		c.JSON(status, resp)
		return
	}

	result, err := h.predictionService.Predict(c.Request.Context(), in)
	if err != nil {
		status, resp := describeError(err)
		c.JSON(status, resp)
		return
	}

	c.JSON(http.StatusOK, model.PredictResponse{
		Price:   result.Price,
		Display: result.Display,
		Raw:     result.Raw,
		Took:    time.Since(startTime).Milliseconds(),
	})
}

// Brands handles GET /api/v1/catalog/brands
func (h *APIHandler) Brands(c *gin.Context) {
	brands := h.predictionService.Brands()
	if brands == nil {
		brands = []string{}
	}
	c.JSON(http.StatusOK, model.BrandsResponse{Brands: brands})
}

// Models handles GET /api/v1/catalog/models?brand=X
func (h *APIHandler) Models(c *gin.Context) {
	brand := strings.TrimSpace(c.Query("brand"))
	if brand == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "brand is required"})
		return
	}

	models := h.predictionService.ModelsFor(brand)
	if models == nil {
		models = []string{}
	}
	c.JSON(http.StatusOK, model.ModelsResponse{Brand: brand, Models: models})
}

// Options handles GET /api/v1/options
func (h *APIHandler) Options(c *gin.Context) {
	c.JSON(http.StatusOK, h.predictionService.Options())
}
