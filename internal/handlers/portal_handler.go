package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/garagedesk/shop-scheduler/internal/dto"
	"github.com/garagedesk/shop-scheduler/internal/httperr"
	"github.com/garagedesk/shop-scheduler/internal/httpresp"
	"github.com/garagedesk/shop-scheduler/internal/middleware"
	"github.com/garagedesk/shop-scheduler/internal/models"
	ucScheduling "github.com/garagedesk/shop-scheduler/internal/usecase/scheduling"
)

// ======================================================
// HANDLER
// ======================================================

// PortalHandler is the customer-facing booking surface. Every mutation is
// scoped to the authenticated customer.
type PortalHandler struct {
	db *gorm.DB

	create     *ucScheduling.CreateAppointment
	cancel     *ucScheduling.CustomerCancel
	reschedule *ucScheduling.CustomerReschedule
}

func NewPortalHandler(
	db *gorm.DB,
	create *ucScheduling.CreateAppointment,
	cancel *ucScheduling.CustomerCancel,
	reschedule *ucScheduling.CustomerReschedule,
) *PortalHandler {
	return &PortalHandler{
		db:         db,
		create:     create,
		cancel:     cancel,
		reschedule: reschedule,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type PortalBookRequest struct {
	VehicleID uint `json:"vehicle_id" binding:"required"`

	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`

	ServiceIDs []uint `json:"service_ids" binding:"required"`

	Notes string `json:"notes"`
}

type PortalRescheduleRequest struct {
	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`
}

// ======================================================
// BOOK
// ======================================================

func (h *PortalHandler) Book(c *gin.Context) {
	customerID := c.MustGet(middleware.ContextUserID).(uint)

	var req PortalBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	selections := make([]ucScheduling.ServiceSelection, 0, len(req.ServiceIDs))
	for _, id := range req.ServiceIDs {
		selections = append(selections, ucScheduling.ServiceSelection{ServiceID: id})
	}

	ap, err := h.create.Execute(c.Request.Context(), ucScheduling.CreateAppointmentInput{
		CustomerID: customerID,
		VehicleID:  req.VehicleID,
		Date:       req.Date,
		Time:       req.Time,
		Selections: selections,
		Notes:      req.Notes,
		ActorType:  "customer",
		ActorID:    &customerID,
	})
	if err != nil {
		httperr.Domain(c, err)
		return
	}

	c.JSON(http.StatusCreated, ap)
}

// ======================================================
// LIST OWN
// ======================================================

func (h *PortalHandler) ListOwn(c *gin.Context) {
	customerID := c.MustGet(middleware.ContextUserID).(uint)

	var appointments []models.Appointment
	if err := h.db.
		Preload("Customer").
		Preload("Vehicle").
		Preload("Services.Service").
		Where("customer_id = ?", customerID).
		Order("start_time ASC").
		Find(&appointments).Error; err != nil {

		httperr.Internal(c, "failed_to_list_appointments", "Could not load appointments.")
		return
	}

	httpresp.List(c, dto.AppointmentList(appointments))
}

// ======================================================
// RESCHEDULE / CANCEL
// ======================================================

func (h *PortalHandler) Reschedule(c *gin.Context) {
	customerID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := idParam(c)
	if !ok {
		return
	}

	var req PortalRescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	ap, err := h.reschedule.Execute(c.Request.Context(), ucScheduling.CustomerRescheduleInput{
		CustomerID:    customerID,
		AppointmentID: id,
		Date:          req.Date,
		Time:          req.Time,
	})
	if err != nil {
		httperr.Domain(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *PortalHandler) Cancel(c *gin.Context) {
	customerID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := idParam(c)
	if !ok {
		return
	}

	ap, err := h.cancel.Execute(c.Request.Context(), customerID, id)
	if err != nil {
		httperr.Domain(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}
