package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/garagedesk/shop-scheduler/internal/httperr"
	"github.com/garagedesk/shop-scheduler/internal/httpresp"
	"github.com/garagedesk/shop-scheduler/internal/middleware"
	"github.com/garagedesk/shop-scheduler/internal/models"
	ucScheduling "github.com/garagedesk/shop-scheduler/internal/usecase/scheduling"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	db *gorm.DB

	create      *ucScheduling.CreateAppointment
	update      *ucScheduling.UpdateAppointment
	deleteUC    *ucScheduling.DeleteAppointment
	assign      *ucScheduling.AssignAppointment
	listByDate  *ucScheduling.ListAppointmentsByDate
	listByMonth *ucScheduling.ListAppointmentsByMonth
}

func NewAppointmentHandler(
	db *gorm.DB,
	create *ucScheduling.CreateAppointment,
	update *ucScheduling.UpdateAppointment,
	deleteUC *ucScheduling.DeleteAppointment,
	assign *ucScheduling.AssignAppointment,
	listByDate *ucScheduling.ListAppointmentsByDate,
	listByMonth *ucScheduling.ListAppointmentsByMonth,
) *AppointmentHandler {
	return &AppointmentHandler{
		db:          db,
		create:      create,
		update:      update,
		deleteUC:    deleteUC,
		assign:      assign,
		listByDate:  listByDate,
		listByMonth: listByMonth,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type ServiceSelectionRequest struct {
	ServiceID uint     `json:"service_id" binding:"required"`
	Quantity  int      `json:"quantity"`
	Price     *float64 `json:"price"`
	Notes     string   `json:"notes"`
}

type CreateAppointmentRequest struct {
	CustomerID uint `json:"customer_id" binding:"required"`
	VehicleID  uint `json:"vehicle_id" binding:"required"`

	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`

	Services []ServiceSelectionRequest `json:"services" binding:"required"`

	Priority string `json:"priority"`
	Notes    string `json:"notes"`
}

type UpdateAppointmentRequest struct {
	Status    *string    `json:"status,omitempty"`
	Priority  *string    `json:"priority,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
}

type AssignAppointmentRequest struct {
	StaffID uint `json:"staff_id" binding:"required"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	staffID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	selections := make([]ucScheduling.ServiceSelection, 0, len(req.Services))
	for _, s := range req.Services {
		selections = append(selections, ucScheduling.ServiceSelection{
			ServiceID: s.ServiceID,
			Quantity:  s.Quantity,
			Price:     s.Price,
			Notes:     s.Notes,
		})
	}

	ap, err := h.create.Execute(c.Request.Context(), ucScheduling.CreateAppointmentInput{
		CustomerID: req.CustomerID,
		VehicleID:  req.VehicleID,
		Date:       req.Date,
		Time:       req.Time,
		Selections: selections,
		Priority:   req.Priority,
		Notes:      req.Notes,
		ActorType:  "staff",
		ActorID:    &staffID,
	})
	if err != nil {
		httperr.Domain(c, err)
		return
	}

	c.JSON(http.StatusCreated, ap)
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Query parameter date is required.")
		return
	}

	var shop models.Shop
	if err := h.db.First(&shop).Error; err != nil {
		httperr.Internal(c, "shop_not_found", "Could not load shop profile.")
		return
	}

	date, err := parseDateInShop(&shop, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Date must be YYYY-MM-DD.")
		return
	}

	out, err := h.listByDate.Execute(c.Request.Context(), date)
	if err != nil {
		httperr.Domain(c, err)
		return
	}

	httpresp.List(c, out)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 2000 || year > 2200 {
		httperr.BadRequest(c, "invalid_year", "Query parameter year is required.")
		return
	}

	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		httperr.BadRequest(c, "invalid_month", "Query parameter month must be 1-12.")
		return
	}

	out, err := h.listByMonth.Execute(c.Request.Context(), year, time.Month(month))
	if err != nil {
		httperr.Domain(c, err)
		return
	}

	httpresp.List(c, out)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var ap models.Appointment
	if err := h.db.
		Preload("Customer").
		Preload("Vehicle").
		Preload("AssignedTo").
		Preload("Services.Service").
		First(&ap, id).Error; err != nil {

		httperr.NotFound(c, "appointment_not_found", "Appointment not found.")
		return
	}

	c.JSON(http.StatusOK, ap)
}

// ======================================================
// UPDATE / DELETE / ASSIGN
// ======================================================

func (h *AppointmentHandler) Update(c *gin.Context) {
	staffID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := idParam(c)
	if !ok {
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	ap, err := h.update.Execute(c.Request.Context(), id, &staffID, ucScheduling.UpdateAppointmentInput{
		Status:    req.Status,
		Priority:  req.Priority,
		Notes:     req.Notes,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		httperr.Domain(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Delete(c *gin.Context) {
	staffID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.deleteUC.Execute(c.Request.Context(), id, &staffID); err != nil {
		httperr.Domain(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *AppointmentHandler) Assign(c *gin.Context) {
	staffID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := idParam(c)
	if !ok {
		return
	}

	var req AssignAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	ap, err := h.assign.Execute(c.Request.Context(), id, req.StaffID, &staffID)
	if err != nil {
		httperr.Domain(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

// ======================================================
// HELPERS
// ======================================================

func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Path id must be numeric.")
		return 0, false
	}
	return uint(id), true
}
