package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/garagedesk/shop-scheduler/internal/httperr"
	"github.com/garagedesk/shop-scheduler/internal/models"
)

type CapacitySettingsHandler struct {
	db *gorm.DB
}

func NewCapacitySettingsHandler(db *gorm.DB) *CapacitySettingsHandler {
	return &CapacitySettingsHandler{db: db}
}

type UpdateCapacitySettingsRequest struct {
	AppointmentsPerDay       *int `json:"appointments_per_day"`
	AppointmentsPerTimeBlock *int `json:"appointments_per_time_block"`
	TimeBlockIntervalMin     *int `json:"time_block_interval_min"`
	MinimumNoticeHours       *int `json:"minimum_notice_hours"`
	FutureCutoffYears        *int `json:"future_cutoff_years"`
}

func (h *CapacitySettingsHandler) Get(c *gin.Context) {
	var cs models.CapacitySettings
	if err := h.db.First(&cs).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.Internal(c, "configuration_error", "Capacity settings are not configured.")
			return
		}
		httperr.Internal(c, "failed_to_get_capacity_settings", "Could not load capacity settings.")
		return
	}

	c.JSON(http.StatusOK, cs)
}

func (h *CapacitySettingsHandler) Update(c *gin.Context) {
	var cs models.CapacitySettings
	if err := h.db.First(&cs).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.Internal(c, "configuration_error", "Capacity settings are not configured.")
			return
		}
		httperr.Internal(c, "failed_to_get_capacity_settings", "Could not load capacity settings.")
		return
	}

	var req UpdateCapacitySettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	if req.AppointmentsPerDay != nil {
		if *req.AppointmentsPerDay < 1 {
			httperr.BadRequest(c, "invalid_limit", "Daily limit must be at least 1.")
			return
		}
		cs.AppointmentsPerDay = *req.AppointmentsPerDay
	}
	if req.AppointmentsPerTimeBlock != nil {
		if *req.AppointmentsPerTimeBlock < 1 {
			httperr.BadRequest(c, "invalid_limit", "Per-block limit must be at least 1.")
			return
		}
		cs.AppointmentsPerTimeBlock = *req.AppointmentsPerTimeBlock
	}
	if req.TimeBlockIntervalMin != nil {
		if *req.TimeBlockIntervalMin < 5 || *req.TimeBlockIntervalMin > 240 {
			httperr.BadRequest(c, "invalid_interval", "Block interval must be between 5 and 240 minutes.")
			return
		}
		cs.TimeBlockIntervalMin = *req.TimeBlockIntervalMin
	}
	if req.MinimumNoticeHours != nil {
		if *req.MinimumNoticeHours < 0 {
			httperr.BadRequest(c, "invalid_notice", "Minimum notice must be zero or positive.")
			return
		}
		cs.MinimumNoticeHours = *req.MinimumNoticeHours
	}
	if req.FutureCutoffYears != nil {
		if *req.FutureCutoffYears < 1 {
			httperr.BadRequest(c, "invalid_cutoff", "Scheduling cutoff must be at least one year.")
			return
		}
		cs.FutureCutoffYears = *req.FutureCutoffYears
	}

	if err := h.db.Save(&cs).Error; err != nil {
		httperr.Internal(c, "failed_to_update_capacity_settings", "Could not save capacity settings.")
		return
	}

	c.JSON(http.StatusOK, cs)
}
