package integrations

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"calligraphy-cms/internal/api/httpx"
	"calligraphy-cms/internal/domain/media"
	"calligraphy-cms/internal/infra/kakao"
	"calligraphy-cms/internal/infra/logger"
	"calligraphy-cms/internal/infra/unsplash"
	"calligraphy-cms/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

type Store interface {
	CreateImage(ctx context.Context, img *media.Image) error
	FindImageByUnsplashID(ctx context.Context, unsplashID string) (*media.Image, error)
	ListKakaoContacts(ctx context.Context, tierLevels []int) ([]store.KakaoContact, error)
}

type Photos interface {
	Configured() bool
	Search(ctx context.Context, query string, page int) (*unsplash.SearchResult, error)
	Get(ctx context.Context, id string) (*unsplash.Photo, error)
	TrackDownload(ctx context.Context, photo unsplash.Photo) error
}

type Geocoder interface {
	Configured() bool
	Geocode(ctx context.Context, address string) (*kakao.Coordinates, error)
}

type Broadcaster interface {
	Broadcast(ctx context.Context, to []kakao.Recipient, text, link string) (kakao.Result, error)
}

type Handler struct {
	store    Store
	photos   Photos
	geo      Geocoder
	notifier Broadcaster // nil when Kakao messaging is not configured
}

func NewHandler(store Store, photos Photos, geo Geocoder, notifier Broadcaster) *Handler {
	return &Handler{store: store, photos: photos, geo: geo, notifier: notifier}
}

func notConfigured(c *gin.Context, what string) {
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": what + " is not configured"})
}

// ------------------------------
// GET /admin/unsplash/search?query=&page=
// ------------------------------
func (h *Handler) UnsplashSearch(c *gin.Context) {
	if h.photos == nil || !h.photos.Configured() {
		notConfigured(c, "Unsplash")
		return
	}
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	res, err := h.photos.Search(c.Request.Context(), query, page)
	if err != nil {
		logger.Error("unsplash search %q: %v", query, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Unsplash search failed", "details": err.Error()})
		return
	}
	if res.Results == nil {
		res.Results = []unsplash.Photo{}
	}
	c.JSON(http.StatusOK, res)
}

// ------------------------------
// POST /admin/unsplash/select {photo_id, alt_text}
// ------------------------------
func (h *Handler) UnsplashSelect(c *gin.Context) {
	if h.photos == nil || !h.photos.Configured() {
		notConfigured(c, "Unsplash")
		return
	}
	var req struct {
		PhotoID string `json:"photo_id" binding:"required"`
		AltText string `json:"alt_text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	photo, err := h.photos.Get(ctx, req.PhotoID)
	if err != nil {
		logger.Error("unsplash photo %s: %v", req.PhotoID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Unsplash photo lookup failed", "details": err.Error()})
		return
	}

	// guideline: every use of a photo is reported
	if err := h.photos.TrackDownload(ctx, *photo); err != nil {
		logger.Warn("unsplash track download %s: %v", photo.ID, err)
	}

	existing, err := h.store.FindImageByUnsplashID(ctx, photo.ID)
	if err == nil {
		c.JSON(http.StatusOK, existing)
		return
	}
	if !httpx.IsNotFound(err) {
		httpx.Fail(c, err, "Image")
		return
	}

	alt := req.AltText
	if alt == "" {
		alt = photo.Description
	}
	id := photo.ID
	thumb := photo.Thumb
	img := media.Image{
		OriginalPath: photo.Regular,
		ThumbPath:    &thumb,
		AltText:      alt,
		Source:       media.SourceUnsplash,
		UnsplashID:   &id,
		Author:       photo.Author,
		AuthorURL:    photo.AuthorURL,
	}
	if err := h.store.CreateImage(ctx, &img); err != nil {
		httpx.Fail(c, err, "Image")
		return
	}
	c.JSON(http.StatusCreated, img)
}

// ------------------------------
// GET /admin/geocode?address=
// ------------------------------
func (h *Handler) Geocode(c *gin.Context) {
	if h.geo == nil || !h.geo.Configured() {
		notConfigured(c, "Kakao Local")
		return
	}
	address := strings.TrimSpace(c.Query("address"))
	if address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "address is required"})
		return
	}

	coords, err := h.geo.Geocode(c.Request.Context(), address)
	if err != nil {
		if errors.Is(err, kakao.ErrAddressNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Address not found"})
			return
		}
		logger.Error("geocode %q: %v", address, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Geocoding failed", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, coords)
}

type NotificationRequest struct {
	Message    string `json:"message" binding:"required"`
	Link       string `json:"link"`
	TierLevels []int  `json:"tier_levels"` // empty means every tier
}

// ------------------------------
// POST /admin/notifications
// ------------------------------
func (h *Handler) Notify(c *gin.Context) {
	if h.notifier == nil {
		notConfigured(c, "Kakao messaging")
		return
	}
	var req NotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, err)
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		httpx.ValidationFailed(c, []string{"Message is required"})
		return
	}
	if len([]rune(req.Message)) > 200 {
		httpx.ValidationFailed(c, []string{"Message must be 200 characters or fewer"})
		return
	}

	ctx := c.Request.Context()
	contacts, err := h.store.ListKakaoContacts(ctx, req.TierLevels)
	if err != nil {
		httpx.Fail(c, err, "Recipients")
		return
	}

	to := make([]kakao.Recipient, 0, len(contacts))
	for _, ct := range contacts {
		to = append(to, kakao.Recipient{MemberID: ct.MemberID, UserID: ct.UserID, Name: ct.Name, Token: ct.Token()})
	}

	res, err := h.notifier.Broadcast(ctx, to, req.Message, req.Link)
	if err != nil {
		logger.Error("broadcast: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send notifications", "details": err.Error()})
		return
	}
	logger.Info("notification sent=%d failed=%d tiers=%v", res.Sent, res.Failed, req.TierLevels)
	c.JSON(http.StatusOK, gin.H{"sent": res.Sent, "failed": res.Failed, "recipients": len(to)})
}
