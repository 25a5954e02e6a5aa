package handlers

import (
	"errors"
	"net/http"

	"github.com/Bekzhanizb/HabitGridBackend/middleware"
	"github.com/Bekzhanizb/HabitGridBackend/services"
	"github.com/Bekzhanizb/HabitGridBackend/utils"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type toggleCheckRequest struct {
	HabitID *uint   `json:"habitId" validate:"required"`
	Date    *string `json:"date" validate:"required"`
}

var toggleFieldMessages = map[string]string{
	"HabitID": "habitId is required",
	"Date":    "date is required",
}

// GetChecks returns {"<habitId>-<date>": true} for every stored check.
func (h *Handler) GetChecks(c *gin.Context) {
	checks, err := h.svc.ListChecks(c.Request.Context())
	if err != nil {
		h.fail(c, "get_checks", err)
		return
	}
	c.JSON(http.StatusOK, services.CheckMap(checks))
}

func (h *Handler) ToggleCheck(c *gin.Context) {
	var req toggleCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := middleware.ValidateStruct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			utils.ErrorCount.WithLabelValues("toggle_check", "validation").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": toggleFieldMessages[fieldErrs[0].Field()]})
			return
		}
		h.fail(c, "toggle_check", err)
		return
	}

	checked, err := h.svc.ToggleCheck(c.Request.Context(), *req.HabitID, *req.Date)
	if err != nil {
		h.fail(c, "toggle_check", err)
		return
	}

	utils.ChecksToggled.WithLabelValues(boolLabel(checked)).Inc()
	utils.Logger.Info("check_toggled",
		zap.Uint("habit_id", *req.HabitID),
		zap.String("date", *req.Date),
		zap.Bool("checked", checked),
	)

	middleware.InvalidateResponses(c.Request.Context(), h.cache)
	c.JSON(http.StatusOK, gin.H{"checked": checked})
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
