package works

import (
	"net/http"

	"calligraphy-cms/internal/api/httpx"
	"calligraphy-cms/internal/domain/works"

	"github.com/gin-gonic/gin"
)

// GET /admin/artworks
func (h *Handler) AdminList(c *gin.Context) {
	q := httpx.ParseQuery(c, h.defaultLang)
	page, err := h.store.ListArtworks(c.Request.Context(), q)
	if err != nil {
		httpx.Fail(c, err, "Artworks")
		return
	}
	h.respondPage(c, page, q.Lang)
}

// GET /admin/artworks/:id
func (h *Handler) AdminGet(c *gin.Context) {
	a, err := h.store.GetArtwork(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.Fail(c, err, "Artwork")
		return
	}
	c.JSON(http.StatusOK, toArtworkDTO(*a, httpx.Lang(c, h.defaultLang)))
}

// POST /admin/artworks
func (h *Handler) Create(c *gin.Context) {
	var req ArtworkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, err)
		return
	}

	var a works.Artwork
	req.apply(&a)
	if !h.validate(c, a) {
		return
	}

	if err := h.store.CreateArtwork(c.Request.Context(), &a); err != nil {
		httpx.Fail(c, err, "Artwork")
		return
	}
	c.JSON(http.StatusCreated, toArtworkDTO(a, httpx.Lang(c, h.defaultLang)))
}

// PUT /admin/artworks/:id
func (h *Handler) Update(c *gin.Context) {
	var req ArtworkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	a, err := h.store.GetArtwork(ctx, c.Param("id"))
	if err != nil {
		httpx.Fail(c, err, "Artwork")
		return
	}

	req.apply(a)
	if !h.validate(c, *a) {
		return
	}
	if err := h.store.UpdateArtwork(ctx, a); err != nil {
		httpx.Fail(c, err, "Artwork")
		return
	}
	c.JSON(http.StatusOK, toArtworkDTO(*a, httpx.Lang(c, h.defaultLang)))
}

// validate answers 422 and returns false when a cannot be saved.
func (h *Handler) validate(c *gin.Context, a works.Artwork) bool {
	if errs := works.Validate(a, h.now()); len(errs) > 0 {
		httpx.ValidationFailed(c, errs)
		return false
	}
	if _, err := h.store.GetArtist(c.Request.Context(), a.ArtistID); err != nil {
		if httpx.IsNotFound(err) {
			httpx.ValidationFailed(c, []string{"Artist does not exist"})
			return false
		}
		httpx.Fail(c, err, "Artist")
		return false
	}
	return true
}

// POST /admin/artworks/:id/publish
func (h *Handler) Publish(c *gin.Context) { h.setPublished(c, true) }

// POST /admin/artworks/:id/unpublish
func (h *Handler) Unpublish(c *gin.Context) { h.setPublished(c, false) }

func (h *Handler) setPublished(c *gin.Context, published bool) {
	a, err := h.store.SetArtworkPublished(c.Request.Context(), c.Param("id"), published, h.now())
	if err != nil {
		httpx.Fail(c, err, "Artwork")
		return
	}
	c.JSON(http.StatusOK, toArtworkDTO(*a, httpx.Lang(c, h.defaultLang)))
}

// DELETE /admin/artworks/:id
func (h *Handler) Delete(c *gin.Context) {
	if err := h.store.DeleteArtwork(c.Request.Context(), c.Param("id")); err != nil {
		httpx.Fail(c, err, "Artwork")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
