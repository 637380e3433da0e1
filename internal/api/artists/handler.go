package artists

import (
	"context"
	"net/http"
	"time"

	"calligraphy-cms/internal/api/httpx"
	"calligraphy-cms/internal/domain/artists"
	"calligraphy-cms/internal/domain/listing"

	"github.com/gin-gonic/gin"
)

type Store interface {
	ListPublishedArtists(ctx context.Context) ([]artists.Artist, error)
	ListArtists(ctx context.Context, q listing.Query) (listing.Page[artists.Artist], error)
	GetArtist(ctx context.Context, idOrSlug string) (*artists.Artist, error)
	CreateArtist(ctx context.Context, a *artists.Artist) error
	UpdateArtist(ctx context.Context, a *artists.Artist) error
	DeleteArtist(ctx context.Context, id string) error
}

type Handler struct {
	store       Store
	defaultLang string
	now         func() time.Time
}

func NewHandler(store Store, defaultLang string) *Handler {
	return &Handler{store: store, defaultLang: defaultLang, now: time.Now}
}

var accessors = listing.Accessors[artists.Artist]{
	Text:     artists.Artist.SearchText,
	Category: func(a artists.Artist) string { return a.ArtistType },
	Status:   func(a artists.Artist) string { return a.MembershipType },
	Date:     func(a artists.Artist) time.Time { return a.CreatedAt },
	Popularity: func(a artists.Artist) int {
		score := len(a.Awards) + a.TierLevel
		if a.Featured {
			score += 100
		}
		return score
	},
	Title: func(a artists.Artist, lang string) string { return a.Name(lang) },
}

// ------------------------------
// GET /artists
// ------------------------------
func (h *Handler) List(c *gin.Context) {
	q := httpx.ParseQuery(c, h.defaultLang)
	if c.Query("sort") == "" {
		q.Sort = listing.SortTitle
	}

	all, err := h.store.ListPublishedArtists(c.Request.Context())
	if err != nil {
		httpx.Fail(c, err, "Artists")
		return
	}

	page := listing.Apply(all, q, accessors)
	out := listing.Page[ArtistDTO]{Data: make([]ArtistDTO, 0, len(page.Data)), Total: page.Total, TotalPages: page.TotalPages}
	for _, a := range page.Data {
		out.Data = append(out.Data, toArtistDTO(a, q.Lang))
	}
	c.JSON(http.StatusOK, out)
}

// ------------------------------
// GET /artists/:id  (uuid or slug)
// ------------------------------
func (h *Handler) Get(c *gin.Context) {
	a, err := h.store.GetArtist(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.Fail(c, err, "Artist")
		return
	}
	if !a.Published {
		c.JSON(http.StatusNotFound, gin.H{"error": "Artist not found"})
		return
	}
	c.JSON(http.StatusOK, toArtistDTO(*a, httpx.Lang(c, h.defaultLang)))
}
