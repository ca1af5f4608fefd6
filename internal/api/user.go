package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/ladlehub/backend/internal/middleware"
	"github.com/pageza/ladlehub/backend/internal/service"
)

type UserHandler struct {
	subscriptionService *service.SubscriptionService
	authService         *service.AuthService
}

func NewUserHandler(subscriptionService *service.SubscriptionService, authService *service.AuthService) *UserHandler {
	return &UserHandler{subscriptionService: subscriptionService, authService: authService}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users", middleware.Auth(h.authService))
	{
		users.POST("/:id/subscribe", h.Subscribe)
		users.DELETE("/:id/subscribe", h.Unsubscribe)
		users.GET("/subscriptions", h.ListSubscriptions)
	}
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	caller := middleware.CurrentUser(c)
	if caller == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	created, err := h.subscriptionService.Subscribe(c.Request.Context(), *caller, targetID)
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

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	caller := middleware.CurrentUser(c)
	if caller == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	if err := h.subscriptionService.Unsubscribe(c.Request.Context(), *caller, targetID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "unsubscribed"})
}

func (h *UserHandler) ListSubscriptions(c *gin.Context) {
	caller := middleware.CurrentUser(c)
	if caller == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	users, err := h.subscriptionService.Subscriptions(c.Request.Context(), *caller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscriptions": users})
}
