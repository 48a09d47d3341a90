package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/garagedesk/shop-scheduler/internal/httperr"
	"github.com/garagedesk/shop-scheduler/internal/models"
)

type OperatingHoursHandler struct {
	db *gorm.DB
}

func NewOperatingHoursHandler(db *gorm.DB) *OperatingHoursHandler {
	return &OperatingHoursHandler{db: db}
}

type UpdateOperatingHoursRequest struct {
	IsOpen    *bool   `json:"is_open"`
	OpenTime  *string `json:"open_time"`
	CloseTime *string `json:"close_time"`
}

func (h *OperatingHoursHandler) List(c *gin.Context) {
	var hours []models.OperatingHours
	if err := h.db.Order("weekday ASC").Find(&hours).Error; err != nil {
		httperr.Internal(c, "failed_to_get_operating_hours", "Could not load operating hours.")
		return
	}

	c.JSON(http.StatusOK, hours)
}

func (h *OperatingHoursHandler) Update(c *gin.Context) {
	weekday, err := strconv.Atoi(c.Param("weekday"))
	if err != nil || weekday < 0 || weekday > 6 {
		httperr.BadRequest(c, "invalid_weekday", "Weekday must be 0 (Sunday) through 6.")
		return
	}

	var oh models.OperatingHours
	if err := h.db.Where("weekday = ?", weekday).First(&oh).Error; err != nil {
		httperr.NotFound(c, "operating_hours_not_found", "No hours configured for that weekday.")
		return
	}

	var req UpdateOperatingHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	if req.IsOpen != nil {
		oh.IsOpen = *req.IsOpen
	}
	if req.OpenTime != nil {
		if !isWallClock(*req.OpenTime) {
			httperr.BadRequest(c, "invalid_open_time", "Open time must be HH:MM.")
			return
		}
		oh.OpenTime = *req.OpenTime
	}
	if req.CloseTime != nil {
		if !isWallClock(*req.CloseTime) {
			httperr.BadRequest(c, "invalid_close_time", "Close time must be HH:MM.")
			return
		}
		oh.CloseTime = *req.CloseTime
	}

	if oh.IsOpen {
		open, err1 := time.Parse("15:04", oh.OpenTime)
		closeT, err2 := time.Parse("15:04", oh.CloseTime)
		if err1 != nil || err2 != nil || !open.Before(closeT) {
			httperr.BadRequest(c, "invalid_hours", "Open time must be before close time.")
			return
		}
	}

	if err := h.db.Save(&oh).Error; err != nil {
		httperr.Internal(c, "failed_to_update_operating_hours", "Could not save operating hours.")
		return
	}

	c.JSON(http.StatusOK, oh)
}

func isWallClock(hm string) bool {
	_, err := time.Parse("15:04", hm)
	return err == nil
}
