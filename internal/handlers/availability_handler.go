package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/garagedesk/shop-scheduler/internal/httperr"
	"github.com/garagedesk/shop-scheduler/internal/httpresp"
	"github.com/garagedesk/shop-scheduler/internal/models"
	ucScheduling "github.com/garagedesk/shop-scheduler/internal/usecase/scheduling"
)

// ======================================================
// HANDLER
// ======================================================

type AvailabilityHandler struct {
	db *gorm.DB

	listSlots  *ucScheduling.ListAvailableSlots
	checkBlock *ucScheduling.CheckTimeBlock
	checkDay   *ucScheduling.CheckDailyCapacity
}

func NewAvailabilityHandler(
	db *gorm.DB,
	listSlots *ucScheduling.ListAvailableSlots,
	checkBlock *ucScheduling.CheckTimeBlock,
	checkDay *ucScheduling.CheckDailyCapacity,
) *AvailabilityHandler {
	return &AvailabilityHandler{
		db:         db,
		listSlots:  listSlots,
		checkBlock: checkBlock,
		checkDay:   checkDay,
	}
}

// ======================================================
// SLOTS
// ======================================================

// GET /availability/slots?date=2026-09-14&service_ids=1,2
func (h *AvailabilityHandler) ListSlots(c *gin.Context) {
	date, ok := h.dateFromQuery(c)
	if !ok {
		return
	}

	serviceIDs, ok := parseServiceIDs(c.Query("service_ids"))
	if !ok {
		httperr.BadRequest(c, "invalid_service_ids", "service_ids must be a comma-separated list of ids.")
		return
	}

	slots, err := h.listSlots.Execute(c.Request.Context(), date, serviceIDs)
	if err != nil {
		httperr.Domain(c, err)
		return
	}

	httpresp.List(c, slots)
}

// ======================================================
// TIME BLOCK
// ======================================================

// GET /availability/time-block?date=2026-09-14&time=09:30
func (h *AvailabilityHandler) CheckTimeBlock(c *gin.Context) {
	date, ok := h.dateFromQuery(c)
	if !ok {
		return
	}

	hm := strings.TrimSpace(c.Query("time"))
	if hm == "" {
		httperr.BadRequest(c, "missing_time", "Query parameter time is required.")
		return
	}

	out, err := h.checkBlock.Execute(c.Request.Context(), date, hm)
	if err != nil {
		httperr.Domain(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}

// ======================================================
// DAY
// ======================================================

// GET /availability/day?date=2026-09-14
func (h *AvailabilityHandler) CheckDay(c *gin.Context) {
	date, ok := h.dateFromQuery(c)
	if !ok {
		return
	}

	out, err := h.checkDay.Execute(c.Request.Context(), date)
	if err != nil {
		httperr.Domain(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}

// ======================================================
// HELPERS
// ======================================================

// dateFromQuery parses the required date query parameter in the shop
// timezone.
func (h *AvailabilityHandler) dateFromQuery(c *gin.Context) (time.Time, bool) {
	dateStr := strings.TrimSpace(c.Query("date"))
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Query parameter date is required.")
		return time.Time{}, false
	}

	shop, ok := h.loadShop(c)
	if !ok {
		return time.Time{}, false
	}

	date, err := parseDateInShop(shop, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Date must be YYYY-MM-DD.")
		return time.Time{}, false
	}

	return date, true
}

func parseServiceIDs(raw string) ([]uint, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}

	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseUint(strings.TrimSpace(p), 10, 32)
		if err != nil {
			return nil, false
		}
		ids = append(ids, uint(id))
	}
	return ids, true
}

func (h *AvailabilityHandler) loadShop(c *gin.Context) (*models.Shop, bool) {
	var shop models.Shop
	if err := h.db.First(&shop).Error; err != nil {
		httperr.Internal(c, "shop_not_found", "Could not load shop profile.")
		return nil, false
	}
	return &shop, true
}
