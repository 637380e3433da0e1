package events

import (
	"context"
	"net/http"
	"strings"
	"time"

	"calligraphy-cms/internal/api/httpx"
	"calligraphy-cms/internal/domain/events"
	"calligraphy-cms/internal/domain/listing"
	"calligraphy-cms/internal/infra/kakao"
	"calligraphy-cms/internal/infra/logger"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

type Store interface {
	ListPublishedEvents(ctx context.Context) ([]events.Event, error)
	ListEvents(ctx context.Context, q listing.Query) (listing.Page[events.Event], error)
	GetEvent(ctx context.Context, id string) (*events.Event, error)
	CreateEvent(ctx context.Context, e *events.Event) error
	UpdateEvent(ctx context.Context, e *events.Event) error
	DeleteEvent(ctx context.Context, id string) error
	RegisterForEvent(ctx context.Context, eventID string, reg *events.EventRegistration, now time.Time) (*events.Event, error)
	ListRegistrations(ctx context.Context, eventID string) ([]events.EventRegistration, error)

	ListPublishedExhibitions(ctx context.Context) ([]events.Exhibition, error)
	ListExhibitions(ctx context.Context, q listing.Query) (listing.Page[events.Exhibition], error)
	GetExhibition(ctx context.Context, id string) (*events.Exhibition, error)
	CreateExhibition(ctx context.Context, x *events.Exhibition, artistIDs, artworkIDs []string) error
	UpdateExhibition(ctx context.Context, x *events.Exhibition, artistIDs, artworkIDs []string) error
	DeleteExhibition(ctx context.Context, id string) error
}

// Geocoder fills coordinates for saved addresses. An unconfigured geocoder is skipped.
type Geocoder interface {
	Configured() bool
	Geocode(ctx context.Context, address string) (*kakao.Coordinates, error)
}

type Handler struct {
	store       Store
	geo         Geocoder
	defaultLang string
	now         func() time.Time
}

func NewHandler(store Store, geo Geocoder, defaultLang string) *Handler {
	return &Handler{store: store, geo: geo, defaultLang: defaultLang, now: time.Now}
}

func eventAccessors(now time.Time) listing.Accessors[events.Event] {
	return listing.Accessors[events.Event]{
		Text:       events.Event.SearchText,
		Category:   func(e events.Event) string { return e.Category },
		Year:       func(e events.Event) int { return e.StartAt.Year() },
		Status:     func(e events.Event) string { return e.Status(now) },
		Date:       func(e events.Event) time.Time { return e.StartAt },
		Popularity: func(e events.Event) int { return e.RegisteredCount },
		Title:      func(e events.Event, _ string) string { return e.Title },
	}
}

// locate fills lat/lng from the address when they were not given.
func (h *Handler) locate(ctx context.Context, address string, lat, lng **float64) {
	if h.geo == nil || !h.geo.Configured() || strings.TrimSpace(address) == "" {
		return
	}
	if *lat != nil && *lng != nil {
		return
	}
	coords, err := h.geo.Geocode(ctx, address)
	if err != nil {
		if !errors.Is(err, kakao.ErrAddressNotFound) {
			logger.Warn("geocode %q: %v", address, err)
		}
		return
	}
	*lat = &coords.Latitude
	*lng = &coords.Longitude
}

// ------------------------------
// GET /events
// ------------------------------
func (h *Handler) ListEvents(c *gin.Context) {
	q := httpx.ParseQuery(c, h.defaultLang)
	now := h.now()

	all, err := h.store.ListPublishedEvents(c.Request.Context())
	if err != nil {
		httpx.Fail(c, err, "Events")
		return
	}

	page := listing.Apply(all, q, eventAccessors(now))
	out := listing.Page[EventDTO]{Data: make([]EventDTO, 0, len(page.Data)), Total: page.Total, TotalPages: page.TotalPages}
	for _, e := range page.Data {
		out.Data = append(out.Data, toEventDTO(e, now))
	}
	c.JSON(http.StatusOK, out)
}

// ------------------------------
// GET /events/:id
// ------------------------------
func (h *Handler) GetEvent(c *gin.Context) {
	e, err := h.store.GetEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.Fail(c, err, "Event")
		return
	}
	if !e.Published {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}
	c.JSON(http.StatusOK, toEventDTO(*e, h.now()))
}

// ------------------------------
// POST /events/:id/register
// ------------------------------
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, err)
		return
	}

	reg := events.EventRegistration{
		Name:  strings.TrimSpace(req.Name),
		Phone: strings.TrimSpace(req.Phone),
		Email: strings.TrimSpace(req.Email),
		Note:  req.Note,
	}
	if uid := c.GetUint("user_id"); uid != 0 {
		reg.UserID = &uid
	}
	if errs := events.ValidateRegistration(reg); len(errs) > 0 {
		httpx.ValidationFailed(c, errs)
		return
	}

	now := h.now()
	e, err := h.store.RegisterForEvent(c.Request.Context(), c.Param("id"), &reg, now)
	if err != nil {
		var rerr *events.RegistrationError
		if errors.As(err, &rerr) {
			c.JSON(http.StatusConflict, gin.H{"error": rerr.Error()})
			return
		}
		httpx.Fail(c, err, "Event")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"registration": reg,
		"event":        toEventDTO(*e, now),
	})
}

// ------------------------------
// GET /exhibitions
// ------------------------------
func (h *Handler) ListExhibitions(c *gin.Context) {
	q := httpx.ParseQuery(c, h.defaultLang)
	now := h.now()

	all, err := h.store.ListPublishedExhibitions(c.Request.Context())
	if err != nil {
		httpx.Fail(c, err, "Exhibitions")
		return
	}

	acc := listing.Accessors[events.Exhibition]{
		Text:   events.Exhibition.SearchText,
		Year:   func(x events.Exhibition) int { return x.StartAt.Year() },
		Status: func(x events.Exhibition) string { return x.Status(now) },
		Date:   func(x events.Exhibition) time.Time { return x.StartAt },
		Popularity: func(x events.Exhibition) int {
			if x.Featured {
				return 1
			}
			return 0
		},
		Title: func(x events.Exhibition, _ string) string { return x.Title },
	}
	page := listing.Apply(all, q, acc)

	out := listing.Page[ExhibitionDTO]{Data: make([]ExhibitionDTO, 0, len(page.Data)), Total: page.Total, TotalPages: page.TotalPages}
	for _, x := range page.Data {
		out.Data = append(out.Data, toExhibitionDTO(x, q.Lang, now))
	}
	c.JSON(http.StatusOK, out)
}

// ------------------------------
// GET /exhibitions/:id
// ------------------------------
func (h *Handler) GetExhibition(c *gin.Context) {
	x, err := h.store.GetExhibition(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.Fail(c, err, "Exhibition")
		return
	}
	if !x.Published {
		c.JSON(http.StatusNotFound, gin.H{"error": "Exhibition not found"})
		return
	}
	c.JSON(http.StatusOK, toExhibitionDTO(*x, httpx.Lang(c, h.defaultLang), h.now()))
}
