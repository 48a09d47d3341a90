package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/garagedesk/shop-scheduler/internal/httpresp"
	"github.com/garagedesk/shop-scheduler/internal/media"
	"github.com/garagedesk/shop-scheduler/internal/middleware"
	"github.com/garagedesk/shop-scheduler/internal/models"
)

type VehicleHandler struct {
	db       *gorm.DB
	uploader *media.Uploader
}

func NewVehicleHandler(db *gorm.DB, uploader *media.Uploader) *VehicleHandler {
	return &VehicleHandler{db: db, uploader: uploader}
}

type CreateVehicleRequest struct {
	CustomerID   uint   `json:"customer_id" binding:"required"`
	Make         string `json:"make" binding:"required"`
	Model        string `json:"model" binding:"required"`
	Year         int    `json:"year"`
	LicensePlate string `json:"license_plate"`
	VIN          string `json:"vin"`
}

type UpdateVehicleRequest struct {
	Make         *string `json:"make,omitempty"`
	Model        *string `json:"model,omitempty"`
	Year         *int    `json:"year,omitempty"`
	LicensePlate *string `json:"license_plate,omitempty"`
	VIN          *string `json:"vin,omitempty"`
}

func (h *VehicleHandler) List(c *gin.Context) {
	q := h.db.Model(&models.Vehicle{})

	if customerID := c.Query("customer_id"); customerID != "" {
		q = q.Where("customer_id = ?", customerID)
	}

	var vehicles []models.Vehicle
	if err := q.
		Order("id ASC").
		Find(&vehicles).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_vehicles"})
		return
	}

	httpresp.List(c, vehicles)
}

func (h *VehicleHandler) Create(c *gin.Context) {
	var req CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	var customer models.Customer
	if err := h.db.First(&customer, req.CustomerID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "customer_not_found"})
		return
	}

	vehicle := models.Vehicle{
		CustomerID:   req.CustomerID,
		Make:         req.Make,
		Model:        req.Model,
		Year:         req.Year,
		LicensePlate: req.LicensePlate,
		VIN:          req.VIN,
	}

	if err := h.db.Create(&vehicle).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_vehicle"})
		return
	}

	c.JSON(http.StatusCreated, vehicle)
}

func (h *VehicleHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var vehicle models.Vehicle
	if err := h.db.First(&vehicle, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "vehicle_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_vehicle"})
		return
	}

	var req UpdateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if req.Make != nil {
		vehicle.Make = *req.Make
	}
	if req.Model != nil {
		vehicle.Model = *req.Model
	}
	if req.Year != nil {
		vehicle.Year = *req.Year
	}
	if req.LicensePlate != nil {
		vehicle.LicensePlate = *req.LicensePlate
	}
	if req.VIN != nil {
		vehicle.VIN = *req.VIN
	}

	if err := h.db.Save(&vehicle).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_update_vehicle"})
		return
	}

	c.JSON(http.StatusOK, vehicle)
}

// UploadPhoto re-encodes the uploaded image to webp and stores it in S3.
func (h *VehicleHandler) UploadPhoto(c *gin.Context) {
	id := c.Param("id")

	var vehicle models.Vehicle
	if err := h.db.First(&vehicle, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "vehicle_not_found"})
		return
	}

	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_photo"})
		return
	}
	defer file.Close()

	url, err := h.uploader.UploadVehiclePhoto(c.Request.Context(), file, header)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "upload_failed",
			"details": err.Error(),
		})
		return
	}

	vehicle.PhotoURL = url
	if err := h.db.Save(&vehicle).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_update_vehicle"})
		return
	}

	c.JSON(http.StatusOK, vehicle)
}

// ListOwn is the customer-portal view of the caller's vehicles.
func (h *VehicleHandler) ListOwn(c *gin.Context) {
	customerID := c.MustGet(middleware.ContextUserID).(uint)

	var vehicles []models.Vehicle
	if err := h.db.
		Where("customer_id = ?", customerID).
		Order("id ASC").
		Find(&vehicles).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_vehicles"})
		return
	}

	httpresp.List(c, vehicles)
}
