package handler

import (
	"net/http"

	"carprice/internal/model"
	"carprice/internal/service"

	"github.com/gin-gonic/gin"
)

// PredictHandler serves the prediction form and result pages
type PredictHandler struct {
	predictionService *service.PredictionService
}

// NewPredictHandler creates a new predict handler
func NewPredictHandler(predictionService *service.PredictionService) *PredictHandler {
	useFieldNames()
	return &PredictHandler{predictionService: predictionService}
}

// Form handles GET /predict
func (h *PredictHandler) Form(c *gin.Context) {
	c.HTML(http.StatusOK, "predict.html", h.formData(c, model.RawInput{}, ""))
}

// Predict handles POST /predict
func (h *PredictHandler) Predict(c *gin.Context) {
	var in model.RawInput
	if err := c.ShouldBind(&in); err != nil {
		status, resp := describeError(err)
		c.HTML(status, "predict.html", h.formData(c, in, resp.Error))
		return
	}

	result, err := h.predictionService.Predict(c.Request.Context(), in)
	if err != nil {
		status, resp := describeError(err)
		c.HTML(status, "predict.html", h.formData(c, in, resp.Error))
		return
	}

	c.HTML(http.StatusOK, "result.html", gin.H{
		"Username": currentUser(c),
		"Price":    result.Display,
		"Input":    in,
	})
}

func (h *PredictHandler) formData(c *gin.Context, in model.RawInput, errMsg string) gin.H {
	return gin.H{
		"Username": currentUser(c),
		"Options":  h.predictionService.Options(),
		"Input":    in,
		"Error":    errMsg,
	}
}
