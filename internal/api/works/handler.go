package works

import (
	"context"
	"net/http"
	"time"

	"calligraphy-cms/internal/api/httpx"
	"calligraphy-cms/internal/domain/artists"
	"calligraphy-cms/internal/domain/listing"
	"calligraphy-cms/internal/domain/works"
	"calligraphy-cms/internal/infra/logger"

	"github.com/gin-gonic/gin"
)

type Store interface {
	ListPublishedArtworks(ctx context.Context) ([]works.Artwork, error)
	ListArtworks(ctx context.Context, q listing.Query) (listing.Page[works.Artwork], error)
	GetArtwork(ctx context.Context, id string) (*works.Artwork, error)
	IncrementArtworkViews(ctx context.Context, id string) error
	CreateArtwork(ctx context.Context, a *works.Artwork) error
	UpdateArtwork(ctx context.Context, a *works.Artwork) error
	SetArtworkPublished(ctx context.Context, id string, published bool, now time.Time) (*works.Artwork, error)
	DeleteArtwork(ctx context.Context, id string) error

	GetArtist(ctx context.Context, idOrSlug string) (*artists.Artist, error)
}

type Handler struct {
	store       Store
	defaultLang string
	now         func() time.Time
}

func NewHandler(store Store, defaultLang string) *Handler {
	return &Handler{store: store, defaultLang: defaultLang, now: time.Now}
}

func yearOf(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

var galleryAccessors = listing.Accessors[works.Artwork]{
	Text:       works.Artwork.SearchText,
	Category:   func(a works.Artwork) string { return a.Category },
	Year:       func(a works.Artwork) int { return yearOf(a.Year) },
	Status:     func(a works.Artwork) string { return a.Availability },
	Date:       works.Artwork.ListDate,
	Popularity: func(a works.Artwork) int { return a.Views + a.Likes*5 },
	Title:      works.Artwork.Title,
}

// Awards filter by the award year rather than the creation year.
var awardAccessors = func() listing.Accessors[works.Artwork] {
	acc := galleryAccessors
	acc.Year = func(a works.Artwork) int { return yearOf(a.AwardYear) }
	acc.Status = nil
	return acc
}()

func (h *Handler) respondPage(c *gin.Context, page listing.Page[works.Artwork], lang string) {
	out := listing.Page[ArtworkDTO]{Data: make([]ArtworkDTO, 0, len(page.Data)), Total: page.Total, TotalPages: page.TotalPages}
	for _, a := range page.Data {
		out.Data = append(out.Data, toArtworkDTO(a, lang))
	}
	c.JSON(http.StatusOK, out)
}

// ------------------------------
// GET /gallery
// ------------------------------
func (h *Handler) Gallery(c *gin.Context) {
	q := httpx.ParseQuery(c, h.defaultLang)

	all, err := h.store.ListPublishedArtworks(c.Request.Context())
	if err != nil {
		httpx.Fail(c, err, "Artworks")
		return
	}
	h.respondPage(c, listing.Apply(all, q, galleryAccessors), q.Lang)
}

// ------------------------------
// GET /awards
// ------------------------------
func (h *Handler) Awards(c *gin.Context) {
	q := httpx.ParseQuery(c, h.defaultLang)

	all, err := h.store.ListPublishedArtworks(c.Request.Context())
	if err != nil {
		httpx.Fail(c, err, "Awards")
		return
	}
	awarded := make([]works.Artwork, 0, len(all))
	for _, a := range all {
		if a.HasAward() {
			awarded = append(awarded, a)
		}
	}
	h.respondPage(c, listing.Apply(awarded, q, awardAccessors), q.Lang)
}

// ------------------------------
// GET /artworks/:id
// ------------------------------
func (h *Handler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	a, err := h.store.GetArtwork(ctx, c.Param("id"))
	if err != nil {
		httpx.Fail(c, err, "Artwork")
		return
	}
	if !a.Published {
		c.JSON(http.StatusNotFound, gin.H{"error": "Artwork not found"})
		return
	}

	if err := h.store.IncrementArtworkViews(ctx, a.ID); err != nil {
		logger.Warn("artwork %s: count view: %v", a.ID, err)
	} else {
		a.Views++
	}
	c.JSON(http.StatusOK, toArtworkDTO(*a, httpx.Lang(c, h.defaultLang)))
}
