package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/garagedesk/shop-scheduler/internal/middleware"
	"github.com/garagedesk/shop-scheduler/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

func (h *MeHandler) GetStaffMe(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user_not_found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"phone": user.Phone,
		"role":  user.Role,
	})
}

func (h *MeHandler) GetCustomerMe(c *gin.Context) {
	customerID := c.MustGet(middleware.ContextUserID).(uint)

	var customer models.Customer
	if err := h.db.First(&customer, customerID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "customer_not_found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":    customer.ID,
		"name":  customer.Name,
		"email": customer.Email,
		"phone": customer.Phone,
	})
}
