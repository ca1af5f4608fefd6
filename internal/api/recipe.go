package api

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/ladlehub/backend/internal/middleware"
	"github.com/pageza/ladlehub/backend/internal/models"
	"github.com/pageza/ladlehub/backend/internal/service"
	"github.com/pageza/ladlehub/backend/internal/types"
)

type RecipeHandler struct {
	recipeService  *service.RecipeService
	markingService *service.MarkingService
	imageService   *service.ImageService
	authService    *service.AuthService
}

func NewRecipeHandler(
	recipeService *service.RecipeService,
	markingService *service.MarkingService,
	imageService *service.ImageService,
	authService *service.AuthService,
) *RecipeHandler {
	return &RecipeHandler{
		recipeService:  recipeService,
		markingService: markingService,
		imageService:   imageService,
		authService:    authService,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", middleware.OptionalAuth(h.authService), h.ListRecipes)
		recipes.GET("/:id", middleware.OptionalAuth(h.authService), h.GetRecipe)
		recipes.POST("", middleware.Auth(h.authService), h.CreateRecipe)
		recipes.PUT("/:id", middleware.Auth(h.authService), h.UpdateRecipe)
		recipes.DELETE("/:id", middleware.Auth(h.authService), h.DeleteRecipe)
		recipes.POST("/:id/favorite", middleware.Auth(h.authService), h.markHandler(models.MarkingFavorite))
		recipes.DELETE("/:id/favorite", middleware.Auth(h.authService), h.unmarkHandler(models.MarkingFavorite))
		recipes.POST("/:id/cart", middleware.Auth(h.authService), h.markHandler(models.MarkingCart))
		recipes.DELETE("/:id/cart", middleware.Auth(h.authService), h.unmarkHandler(models.MarkingCart))
		recipes.POST("/:id/image", middleware.Auth(h.authService), h.UploadImage)
	}
}

// ListRecipes combines the author, tag and marking filters; all given
// predicates must hold. Anonymous callers silently skip the marking filters.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	caller := middleware.CurrentUser(c)

	var filter service.RecipeFilter
	if author := c.Query("author"); author != "" {
		authorID, err := uuid.Parse(author)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author id"})
			return
		}
		filter.Author = &authorID
	}
	if tags := c.QueryArray("tags"); len(tags) > 0 {
		filter.TagSlugs = tags
	} else if tags := c.Query("tags_csv"); tags != "" {
		filter.TagSlugs = strings.Split(tags, ",")
	}
	filter.IsFavorited = c.Query("is_favorited") == "1" || c.Query("is_favorited") == "true"
	filter.IsInShoppingCart = c.Query("is_in_shopping_cart") == "1" || c.Query("is_in_shopping_cart") == "true"

	page := 1
	if p := c.Query("page"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page"})
			return
		}
		page = n
	}

	recipes, total, err := h.recipeService.List(c.Request.Context(), caller, filter, page)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recipes": recipes,
		"count":   total,
		"page":    page,
	})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	recipeID, ok := pathID(c)
	if !ok {
		return
	}

	recipe, err := h.recipeService.Get(c.Request.Context(), middleware.CurrentUser(c), recipeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var input types.RecipeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	caller := middleware.CurrentUser(c)
	if caller == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	recipe, err := h.recipeService.Create(c.Request.Context(), *caller, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	recipeID, ok := pathID(c)
	if !ok {
		return
	}

	var input types.RecipeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	caller := middleware.CurrentUser(c)
	if caller == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	recipe, err := h.recipeService.Update(c.Request.Context(), *caller, recipeID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	recipeID, ok := pathID(c)
	if !ok {
		return
	}

	caller := middleware.CurrentUser(c)
	if caller == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	if err := h.recipeService.Delete(c.Request.Context(), *caller, recipeID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "recipe deleted"})
}

// markHandler returns the POST handler for one marking kind. Re-marking is
// reported with created=false, not an error.
func (h *RecipeHandler) markHandler(kind models.MarkingKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		recipeID, ok := pathID(c)
		if !ok {
			return
		}
		caller := middleware.CurrentUser(c)
		if caller == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			return
		}

		created, err := h.markingService.Mark(c.Request.Context(), *caller, recipeID, kind)
		if err != nil {
			respondError(c, err)
			return
		}

		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		c.JSON(status, gin.H{"created": created})
	}
}

func (h *RecipeHandler) unmarkHandler(kind models.MarkingKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		recipeID, ok := pathID(c)
		if !ok {
			return
		}
		caller := middleware.CurrentUser(c)
		if caller == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			return
		}

		if err := h.markingService.Unmark(c.Request.Context(), *caller, recipeID, kind); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "marking removed"})
	}
}

func (h *RecipeHandler) UploadImage(c *gin.Context) {
	recipeID, ok := pathID(c)
	if !ok {
		return
	}
	caller := middleware.CurrentUser(c)
	if caller == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, service.MaxImageSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image"})
		return
	}

	url, err := h.imageService.Upload(c.Request.Context(), data, header.Header.Get("Content-Type"))
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.recipeService.SetImageURL(c.Request.Context(), *caller, recipeID, url); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"image_url": url})
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return uuid.Nil, false
	}
	return id, true
}
