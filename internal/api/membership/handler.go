package membership

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"calligraphy-cms/internal/api/httpx"
	"calligraphy-cms/internal/domain/listing"
	"calligraphy-cms/internal/domain/membership"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

type Store interface {
	ListTiers(ctx context.Context) ([]membership.Tier, error)
	GetTier(ctx context.Context, level int) (*membership.Tier, error)
	UpsertTier(ctx context.Context, t *membership.Tier) error

	ListAllMembers(ctx context.Context) ([]membership.MemberProfile, error)
	ListMembers(ctx context.Context, q listing.Query) (listing.Page[membership.MemberProfile], error)
	GetMember(ctx context.Context, id string) (*membership.MemberProfile, error)
	CreateMember(ctx context.Context, m *membership.MemberProfile) error
	SaveMember(ctx context.Context, m *membership.MemberProfile) error
	DeleteMember(ctx context.Context, id string) error
}

type Handler struct {
	store Store
	now   func() time.Time
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store, now: time.Now}
}

type TierRequest struct {
	Name      string   `json:"name" binding:"required"`
	NameEn    string   `json:"name_en"`
	Color     string   `json:"color"`
	AnnualFee int64    `json:"annual_fee"`
	Benefits  []string `json:"benefits"`
}

type MemberRequest struct {
	UserID       *uint   `json:"user_id"`
	ArtistID     *string `json:"artist_id"`
	Name         string  `json:"name" binding:"required"`
	Email        string  `json:"email"`
	Phone        string  `json:"phone"`
	Address      string  `json:"address"`
	Introduction string  `json:"introduction"`

	TierLevel          int               `json:"tier_level"`
	Status             membership.Status `json:"status"`
	ParticipationScore int               `json:"participation_score"`
	ContributionScore  int               `json:"contribution_score"`
	ExpiresAt          *time.Time        `json:"expires_at"`
}

func (r MemberRequest) apply(m *membership.MemberProfile) {
	m.UserID = r.UserID
	m.ArtistID = r.ArtistID
	if m.ArtistID != nil && *m.ArtistID == "" {
		m.ArtistID = nil
	}
	m.Name = strings.TrimSpace(r.Name)
	m.Email = strings.TrimSpace(r.Email)
	m.Phone = r.Phone
	m.Address = r.Address
	m.Introduction = r.Introduction
	if r.TierLevel != 0 {
		m.TierLevel = r.TierLevel
	}
	if r.Status != "" {
		m.Status = r.Status
	}
	m.ParticipationScore = r.ParticipationScore
	m.ContributionScore = r.ContributionScore
	if r.ExpiresAt != nil {
		m.ExpiresAt = r.ExpiresAt
	}
}

// ------------------------------
// GET /tiers
// ------------------------------
func (h *Handler) Tiers(c *gin.Context) {
	tiers, err := h.store.ListTiers(c.Request.Context())
	if err != nil {
		httpx.Fail(c, err, "Tiers")
		return
	}
	if tiers == nil {
		tiers = []membership.Tier{}
	}
	c.JSON(http.StatusOK, gin.H{"data": tiers})
}

// PUT /admin/tiers/:level
func (h *Handler) UpdateTier(c *gin.Context) {
	level, err := strconv.Atoi(c.Param("level"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tier level"})
		return
	}

	var req TierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, err)
		return
	}

	t := membership.Tier{
		Level:     level,
		Name:      strings.TrimSpace(req.Name),
		NameEn:    req.NameEn,
		Color:     req.Color,
		AnnualFee: req.AnnualFee,
		Benefits:  req.Benefits,
	}
	if t.Color == "" {
		t.Color = "#999999"
	}
	if errs := membership.ValidateTier(t); len(errs) > 0 {
		httpx.ValidationFailed(c, errs)
		return
	}
	if err := h.store.UpsertTier(c.Request.Context(), &t); err != nil {
		httpx.Fail(c, err, "Tier")
		return
	}
	c.JSON(http.StatusOK, t)
}

// ------------------------------
// /admin/members
// ------------------------------

// GET /admin/members
func (h *Handler) List(c *gin.Context) {
	page, err := h.store.ListMembers(c.Request.Context(), httpx.ParseQuery(c, ""))
	if err != nil {
		httpx.Fail(c, err, "Members")
		return
	}
	c.JSON(http.StatusOK, page)
}

// GET /admin/members/stats
func (h *Handler) Stats(c *gin.Context) {
	stats, err := ComputeStats(c.Request.Context(), h.store)
	if err != nil {
		httpx.Fail(c, err, "Member statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ComputeStats loads tiers and members and derives the shares.
func ComputeStats(ctx context.Context, s interface {
	ListTiers(ctx context.Context) ([]membership.Tier, error)
	ListAllMembers(ctx context.Context) ([]membership.MemberProfile, error)
}) (membership.Stats, error) {
	tiers, err := s.ListTiers(ctx)
	if err != nil {
		return membership.Stats{}, err
	}
	members, err := s.ListAllMembers(ctx)
	if err != nil {
		return membership.Stats{}, err
	}
	return membership.ComputeStats(tiers, members), nil
}

// GET /admin/members/:id
func (h *Handler) Get(c *gin.Context) {
	m, err := h.store.GetMember(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.Fail(c, err, "Member")
		return
	}
	c.JSON(http.StatusOK, m)
}

// POST /admin/members
func (h *Handler) Create(c *gin.Context) {
	var req MemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, err)
		return
	}

	m := membership.MemberProfile{TierLevel: membership.MinTierLevel, Status: membership.StatusPendingApproval}
	req.apply(&m)
	if m.Status == membership.StatusActive && m.JoinedAt == nil {
		now := h.now()
		m.JoinedAt = &now
		if m.ExpiresAt == nil {
			exp := now.Add(membership.MembershipTerm)
			m.ExpiresAt = &exp
		}
	}
	if !h.validate(c, m) {
		return
	}

	if err := h.store.CreateMember(c.Request.Context(), &m); err != nil {
		httpx.Fail(c, err, "Member")
		return
	}
	c.JSON(http.StatusCreated, m)
}

// PUT /admin/members/:id
func (h *Handler) Update(c *gin.Context) {
	var req MemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	m, err := h.store.GetMember(ctx, c.Param("id"))
	if err != nil {
		httpx.Fail(c, err, "Member")
		return
	}

	req.apply(m)
	if !h.validate(c, *m) {
		return
	}
	if err := h.store.SaveMember(ctx, m); err != nil {
		httpx.Fail(c, err, "Member")
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *Handler) validate(c *gin.Context, m membership.MemberProfile) bool {
	if errs := membership.Validate(m); len(errs) > 0 {
		httpx.ValidationFailed(c, errs)
		return false
	}
	if _, err := h.store.GetTier(c.Request.Context(), m.TierLevel); err != nil {
		if httpx.IsNotFound(err) {
			httpx.ValidationFailed(c, []string{"Tier " + strconv.Itoa(m.TierLevel) + " is not defined"})
			return false
		}
		httpx.Fail(c, err, "Tier")
		return false
	}
	return true
}

// DELETE /admin/members/:id
func (h *Handler) Delete(c *gin.Context) {
	if err := h.store.DeleteMember(c.Request.Context(), c.Param("id")); err != nil {
		httpx.Fail(c, err, "Member")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// POST /admin/members/:id/{approve,suspend,reactivate,deactivate}
func (h *Handler) Action(action membership.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		m, err := h.store.GetMember(ctx, c.Param("id"))
		if err != nil {
			httpx.Fail(c, err, "Member")
			return
		}

		if err := m.Apply(action, h.now()); err != nil {
			if errors.Is(err, membership.ErrInvalidTransition) {
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}
			httpx.Fail(c, err, "Member")
			return
		}
		if err := h.store.SaveMember(ctx, m); err != nil {
			httpx.Fail(c, err, "Member")
			return
		}
		c.JSON(http.StatusOK, m)
	}
}
