package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Bekzhanizb/HabitGridBackend/cache"
	"github.com/Bekzhanizb/HabitGridBackend/middleware"
	"github.com/Bekzhanizb/HabitGridBackend/services"
	"github.com/Bekzhanizb/HabitGridBackend/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	svc   *services.HabitService
	cache *cache.Cache
}

// New builds the API handlers. store may be nil when redis is not configured.
func New(svc *services.HabitService, store *cache.Cache) *Handler {
	return &Handler{svc: svc, cache: store}
}

type createHabitRequest struct {
	Name *string `json:"name" validate:"required"`
}

func (h *Handler) GetHabits(c *gin.Context) {
	habits, err := h.svc.ListHabits(c.Request.Context())
	if err != nil {
		h.fail(c, "get_habits", err)
		return
	}
	c.JSON(http.StatusOK, habits)
}

func (h *Handler) CreateHabit(c *gin.Context) {
	var req createHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	// null or absent name; an empty string is rejected by the service
	if err := middleware.ValidateStruct(req); err != nil {
		utils.ErrorCount.WithLabelValues("create_habit", "validation").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}

	habit, err := h.svc.CreateHabit(c.Request.Context(), *req.Name)
	if err != nil {
		h.fail(c, "create_habit", err)
		return
	}

	middleware.InvalidateResponses(c.Request.Context(), h.cache)
	c.JSON(http.StatusOK, habit)
}

func (h *Handler) DeleteHabit(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid habit id"})
		return
	}

	if err := h.svc.DeleteHabit(c.Request.Context(), uint(id)); err != nil {
		h.fail(c, "delete_habit", err)
		return
	}

	middleware.InvalidateResponses(c.Request.Context(), h.cache)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		h.fail(c, "get_stats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// fail maps service errors onto responses: validation is 400, anything else 500.
func (h *Handler) fail(c *gin.Context, handler string, err error) {
	if errors.Is(err, services.ErrValidation) {
		utils.ErrorCount.WithLabelValues(handler, "validation").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": services.ValidationMessage(err)})
		return
	}

	utils.ErrorCount.WithLabelValues(handler, "storage").Inc()
	utils.Logger.Error(handler+"_failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
