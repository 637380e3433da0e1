package events

import (
	"net/http"

	"calligraphy-cms/internal/api/httpx"
	"calligraphy-cms/internal/domain/events"
	"calligraphy-cms/internal/domain/listing"

	"github.com/gin-gonic/gin"
)

// GET /admin/events
func (h *Handler) AdminListEvents(c *gin.Context) {
	q := httpx.ParseQuery(c, h.defaultLang)
	page, err := h.store.ListEvents(c.Request.Context(), q)
	if err != nil {
		httpx.Fail(c, err, "Events")
		return
	}

	now := h.now()
	out := listing.Page[EventDTO]{Data: make([]EventDTO, 0, len(page.Data)), Total: page.Total, TotalPages: page.TotalPages}
	for _, e := range page.Data {
		out.Data = append(out.Data, toEventDTO(e, now))
	}
	c.JSON(http.StatusOK, out)
}

// GET /admin/events/:id
func (h *Handler) AdminGetEvent(c *gin.Context) {
	e, err := h.store.GetEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.Fail(c, err, "Event")
		return
	}
	c.JSON(http.StatusOK, toEventDTO(*e, h.now()))
}

// POST /admin/events
func (h *Handler) CreateEvent(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, err)
		return
	}

	e := events.Event{RegistrationOpen: true}
	req.apply(&e)
	if errs := events.ValidateEvent(e); len(errs) > 0 {
		httpx.ValidationFailed(c, errs)
		return
	}

	ctx := c.Request.Context()
	h.locate(ctx, e.Address, &e.Latitude, &e.Longitude)
	if err := h.store.CreateEvent(ctx, &e); err != nil {
		httpx.Fail(c, err, "Event")
		return
	}
	c.JSON(http.StatusCreated, toEventDTO(e, h.now()))
}

// PUT /admin/events/:id
func (h *Handler) UpdateEvent(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	e, err := h.store.GetEvent(ctx, c.Param("id"))
	if err != nil {
		httpx.Fail(c, err, "Event")
		return
	}

	prevAddress := e.Address
	req.apply(e)
	if errs := events.ValidateEvent(*e); len(errs) > 0 {
		httpx.ValidationFailed(c, errs)
		return
	}
	if e.Address != prevAddress && req.Latitude == nil {
		e.Latitude, e.Longitude = nil, nil
	}
	h.locate(ctx, e.Address, &e.Latitude, &e.Longitude)

	if err := h.store.UpdateEvent(ctx, e); err != nil {
		httpx.Fail(c, err, "Event")
		return
	}
	c.JSON(http.StatusOK, toEventDTO(*e, h.now()))
}

// DELETE /admin/events/:id
func (h *Handler) DeleteEvent(c *gin.Context) {
	if err := h.store.DeleteEvent(c.Request.Context(), c.Param("id")); err != nil {
		httpx.Fail(c, err, "Event")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// GET /admin/events/:id/registrations
func (h *Handler) Registrations(c *gin.Context) {
	ctx := c.Request.Context()
	e, err := h.store.GetEvent(ctx, c.Param("id"))
	if err != nil {
		httpx.Fail(c, err, "Event")
		return
	}

	regs, err := h.store.ListRegistrations(ctx, e.ID)
	if err != nil {
		httpx.Fail(c, err, "Registrations")
		return
	}
	if regs == nil {
		regs = []events.EventRegistration{}
	}
	c.JSON(http.StatusOK, gin.H{"event": toEventDTO(*e, h.now()), "data": regs, "total": len(regs)})
}

// GET /admin/exhibitions
func (h *Handler) AdminListExhibitions(c *gin.Context) {
	q := httpx.ParseQuery(c, h.defaultLang)
	page, err := h.store.ListExhibitions(c.Request.Context(), q)
	if err != nil {
		httpx.Fail(c, err, "Exhibitions")
		return
	}

	now := h.now()
	out := listing.Page[ExhibitionDTO]{Data: make([]ExhibitionDTO, 0, len(page.Data)), Total: page.Total, TotalPages: page.TotalPages}
	for _, x := range page.Data {
		out.Data = append(out.Data, toExhibitionDTO(x, q.Lang, now))
	}
	c.JSON(http.StatusOK, out)
}

// GET /admin/exhibitions/:id
func (h *Handler) AdminGetExhibition(c *gin.Context) {
	x, err := h.store.GetExhibition(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.Fail(c, err, "Exhibition")
		return
	}
	c.JSON(http.StatusOK, toExhibitionDTO(*x, httpx.Lang(c, h.defaultLang), h.now()))
}

// POST /admin/exhibitions
func (h *Handler) CreateExhibition(c *gin.Context) {
	var req ExhibitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, err)
		return
	}

	var x events.Exhibition
	req.apply(&x)
	if errs := events.ValidateExhibition(x); len(errs) > 0 {
		httpx.ValidationFailed(c, errs)
		return
	}

	ctx := c.Request.Context()
	h.locate(ctx, x.Address, &x.Latitude, &x.Longitude)
	if err := h.store.CreateExhibition(ctx, &x, req.ArtistIDs, req.ArtworkIDs); err != nil {
		httpx.Fail(c, err, "Exhibition")
		return
	}
	c.JSON(http.StatusCreated, toExhibitionDTO(x, httpx.Lang(c, h.defaultLang), h.now()))
}

// PUT /admin/exhibitions/:id
func (h *Handler) UpdateExhibition(c *gin.Context) {
	var req ExhibitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	x, err := h.store.GetExhibition(ctx, c.Param("id"))
	if err != nil {
		httpx.Fail(c, err, "Exhibition")
		return
	}

	prevAddress := x.Address
	req.apply(x)
	if errs := events.ValidateExhibition(*x); len(errs) > 0 {
		httpx.ValidationFailed(c, errs)
		return
	}
	if x.Address != prevAddress && req.Latitude == nil {
		x.Latitude, x.Longitude = nil, nil
	}
	h.locate(ctx, x.Address, &x.Latitude, &x.Longitude)

	if err := h.store.UpdateExhibition(ctx, x, req.ArtistIDs, req.ArtworkIDs); err != nil {
		httpx.Fail(c, err, "Exhibition")
		return
	}
	c.JSON(http.StatusOK, toExhibitionDTO(*x, httpx.Lang(c, h.defaultLang), h.now()))
}

// DELETE /admin/exhibitions/:id
func (h *Handler) DeleteExhibition(c *gin.Context) {
	if err := h.store.DeleteExhibition(c.Request.Context(), c.Param("id")); err != nil {
		httpx.Fail(c, err, "Exhibition")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
