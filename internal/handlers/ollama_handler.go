package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"axiestudio/internal/services"
)

type OllamaHandler struct {
	ollama services.OllamaService
}

func NewOllamaHandler(ollama services.OllamaService) *OllamaHandler {
	return &OllamaHandler{ollama: ollama}
}

// @Summary      Ollama status
// @Tags         Local LLMs
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  services.OllamaHealth
// @Router       /local-llms/status [get]
func (h *OllamaHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.ollama.HealthCheck(c.Request.Context()))
}

// @Summary      List local models
// @Tags         Local LLMs
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   services.OllamaModel
// @Failure      502  {object}  map[string]string
// @Router       /local-llms/models [get]
func (h *OllamaHandler) Models(c *gin.Context) {
	models, err := h.ollama.GetModels(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Ollama is not reachable"})
		return
	}
	if models == nil {
		models = []services.OllamaModel{}
	}
	c.JSON(http.StatusOK, models)
}

// @Summary      Show model details
// @Tags         Local LLMs
// @Produce      json
// @Security     BearerAuth
// @Param        name  path      string  true  "Model name"
// @Success      200   {object}  map[string]interface{}
// @Failure      502   {object}  map[string]string
// @Router       /local-llms/models/{name} [get]
func (h *OllamaHandler) ShowModel(c *gin.Context) {
	raw, err := h.ollama.ShowModel(c.Request.Context(), c.Param("name"))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to load model info"})
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}

// @Summary      Pull model
// @Tags         Local LLMs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      object{model_name=string}  true  "Model"
// @Success      200      {object}  map[string]string
// @Failure      502      {object}  map[string]string
// @Router       /local-llms/models/pull [post]
func (h *OllamaHandler) PullModel(c *gin.Context) {
	var req struct {
		ModelName string `json:"model_name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.ollama.PullModel(c.Request.Context(), req.ModelName); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to pull model"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Successfully pulled model: " + req.ModelName})
}

// @Summary      Delete model
// @Tags         Local LLMs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      object{model_name=string}  true  "Model"
// @Success      200      {object}  map[string]string
// @Failure      502      {object}  map[string]string
// @Router       /local-llms/models [delete]
func (h *OllamaHandler) DeleteModel(c *gin.Context) {
	var req struct {
		ModelName string `json:"model_name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.ollama.DeleteModel(c.Request.Context(), req.ModelName); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to delete model"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Successfully deleted model: " + req.ModelName})
}
