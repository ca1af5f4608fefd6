package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/ladlehub/backend/internal/middleware"
	"github.com/pageza/ladlehub/backend/internal/service"
	"github.com/pageza/ladlehub/backend/internal/types"
)

type IngredientHandler struct {
	ingredientService *service.IngredientService
	authService       *service.AuthService
}

func NewIngredientHandler(ingredientService *service.IngredientService, authService *service.AuthService) *IngredientHandler {
	return &IngredientHandler{ingredientService: ingredientService, authService: authService}
}

func (h *IngredientHandler) RegisterRoutes(router *gin.RouterGroup) {
	ingredients := router.Group("/ingredients")
	{
		ingredients.GET("", h.ListIngredients)
		ingredients.POST("", middleware.Auth(h.authService), h.CreateIngredient)
		ingredients.POST("/import", middleware.Auth(h.authService), h.ImportIngredients)
	}
	router.GET("/units", h.ListUnits)
}

// ListIngredients supports a case-sensitive name prefix filter via ?name=.
func (h *IngredientHandler) ListIngredients(c *gin.Context) {
	ingredients, err := h.ingredientService.List(c.Request.Context(), c.Query("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ingredients": ingredients})
}

func (h *IngredientHandler) ListUnits(c *gin.Context) {
	units, err := h.ingredientService.ListUnits(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"units": units})
}

type createIngredientRequest struct {
	Name            string `json:"name" binding:"required"`
	MeasurementUnit string `json:"measurement_unit"`
}

func (h *IngredientHandler) CreateIngredient(c *gin.Context) {
	var req createIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ingredient, err := h.ingredientService.Create(c.Request.Context(), req.Name, req.MeasurementUnit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ingredient)
}

type importIngredientsRequest struct {
	Data []types.ImportRow `json:"data" binding:"required"`
}

func (h *IngredientHandler) ImportIngredients(c *gin.Context) {
	var req importIngredientsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.ingredientService.BulkImport(c.Request.Context(), req.Data)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}
