package calendar

import (
	"net/http"
	"strconv"
	"time"

	"calligraphy-cms/internal/domain/calendar"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	now func() time.Time
}

func NewHandler() *Handler {
	return &Handler{now: time.Now}
}

// GET /calendar/traditional?date=YYYY-MM-DD
func (h *Handler) Traditional(c *gin.Context) {
	t, err := calendar.ParseDate(c.Query("date"), h.now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be formatted as YYYY-MM-DD"})
		return
	}
	c.JSON(http.StatusOK, calendar.Resolve(t))
}

// GET /calendar/month?year=&month=  (defaults to the current month)
func (h *Handler) Month(c *gin.Context) {
	now := h.now()
	year, month := now.Year(), int(now.Month())

	if v := c.Query("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
			return
		}
		year = n
	}
	if v := c.Query("month"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month"})
			return
		}
		month = n
	}

	days, err := calendar.Month(year, month)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"year": year, "month": month, "days": days})
}
