package artists

import (
	"net/http"

	"calligraphy-cms/internal/api/httpx"
	"calligraphy-cms/internal/domain/artists"
	"calligraphy-cms/internal/domain/listing"

	"github.com/gin-gonic/gin"
)

// GET /admin/artists
func (h *Handler) AdminList(c *gin.Context) {
	q := httpx.ParseQuery(c, h.defaultLang)
	page, err := h.store.ListArtists(c.Request.Context(), q)
	if err != nil {
		httpx.Fail(c, err, "Artists")
		return
	}

	out := listing.Page[ArtistDTO]{Data: make([]ArtistDTO, 0, len(page.Data)), Total: page.Total, TotalPages: page.TotalPages}
	for _, a := range page.Data {
		out.Data = append(out.Data, toArtistDTO(a, q.Lang))
	}
	c.JSON(http.StatusOK, out)
}

// GET /admin/artists/:id
func (h *Handler) AdminGet(c *gin.Context) {
	a, err := h.store.GetArtist(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.Fail(c, err, "Artist")
		return
	}
	c.JSON(http.StatusOK, toArtistDTO(*a, httpx.Lang(c, h.defaultLang)))
}

// POST /admin/artists
func (h *Handler) Create(c *gin.Context) {
	var req ArtistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, err)
		return
	}

	a := artists.Artist{Published: true}
	req.apply(&a)
	if errs := artists.Validate(a, h.now()); len(errs) > 0 {
		httpx.ValidationFailed(c, errs)
		return
	}
	a.Slug = artists.NewSlug(a)

	if err := h.store.CreateArtist(c.Request.Context(), &a); err != nil {
		httpx.Fail(c, err, "Artist")
		return
	}
	c.JSON(http.StatusCreated, toArtistDTO(a, httpx.Lang(c, h.defaultLang)))
}

// PUT /admin/artists/:id
func (h *Handler) Update(c *gin.Context) {
	var req ArtistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	a, err := h.store.GetArtist(ctx, c.Param("id"))
	if err != nil {
		httpx.Fail(c, err, "Artist")
		return
	}

	req.apply(a)
	if errs := artists.Validate(*a, h.now()); len(errs) > 0 {
		httpx.ValidationFailed(c, errs)
		return
	}
	if err := h.store.UpdateArtist(ctx, a); err != nil {
		httpx.Fail(c, err, "Artist")
		return
	}
	c.JSON(http.StatusOK, toArtistDTO(*a, httpx.Lang(c, h.defaultLang)))
}

// DELETE /admin/artists/:id
func (h *Handler) Delete(c *gin.Context) {
	if err := h.store.DeleteArtist(c.Request.Context(), c.Param("id")); err != nil {
		httpx.Fail(c, err, "Artist")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
