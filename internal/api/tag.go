package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/ladlehub/backend/internal/middleware"
	"github.com/pageza/ladlehub/backend/internal/service"
)

type TagHandler struct {
	tagService  *service.TagService
	authService *service.AuthService
}

func NewTagHandler(tagService *service.TagService, authService *service.AuthService) *TagHandler {
	return &TagHandler{tagService: tagService, authService: authService}
}

func (h *TagHandler) RegisterRoutes(router *gin.RouterGroup) {
	tags := router.Group("/tags")
	{
		tags.GET("", h.ListTags)
		tags.POST("", middleware.Auth(h.authService), h.CreateTag)
	}
}

func (h *TagHandler) ListTags(c *gin.Context) {
	tags, err := h.tagService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

type createTagRequest struct {
	Name  string `json:"name" binding:"required"`
	Slug  string `json:"slug" binding:"required"`
	Color string `json:"color" binding:"required"`
}

func (h *TagHandler) CreateTag(c *gin.Context) {
	var req createTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tag, err := h.tagService.Create(c.Request.Context(), req.Name, req.Slug, req.Color)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tag)
}
