package httpx

import (
	"net/http"
	"strconv"
	"strings"

	"calligraphy-cms/internal/domain/listing"
	"calligraphy-cms/internal/infra/logger"
	"calligraphy-cms/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// MustUserID reads the user id set by the auth middleware, answering 401 when absent.
func MustUserID(c *gin.Context) (uint, bool) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return 0, false
	}
	return userID, true
}

func IsAdmin(c *gin.Context) bool {
	return c.GetString("role") == "admin"
}

// Lang picks ?lang=, then the first Accept-Language tag, then def.
func Lang(c *gin.Context, def string) string {
	if l := strings.TrimSpace(c.Query("lang")); l != "" {
		return l
	}
	if h := c.GetHeader("Accept-Language"); h != "" {
		tag := strings.TrimSpace(strings.SplitN(strings.SplitN(h, ",", 2)[0], ";", 2)[0])
		if len(tag) >= 2 {
			return strings.ToLower(tag[:2])
		}
	}
	return def
}

// ParseQuery reads page, page_size, search, category, year, status and sort.
// Malformed numbers fall back to their defaults.
func ParseQuery(c *gin.Context, defaultLang string) listing.Query {
	atoi := func(key string) int {
		n, _ := strconv.Atoi(c.Query(key))
		return n
	}
	return listing.Query{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Year:     atoi("year"),
		Status:   c.Query("status"),
		Sort:     c.Query("sort"),
		Lang:     Lang(c, defaultLang),
		Page:     atoi("page"),
		PageSize: atoi("page_size"),
	}.Normalize()
}

// ValidationFailed answers 422 with the human-readable messages.
func ValidationFailed(c *gin.Context, errs []string) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "errors": errs})
}

// IsNotFound reports whether err is the store's not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}

// Fail maps a store error: ErrNotFound becomes 404 "<what> not found",
// anything else a logged 500.
func Fail(c *gin.Context, err error, what string) {
	if IsNotFound(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": what + " not found"})
		return
	}
	logger.Error("%s %s: %v", c.Request.Method, c.FullPath(), err)
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process " + strings.ToLower(what), "details": err.Error()})
}

// BadRequest answers a binding failure.
func BadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
