package users

import (
	"context"
	"net/http"
	"strings"
	"time"

	"calligraphy-cms/internal/api/httpx"
	"calligraphy-cms/internal/domain/access"
	"calligraphy-cms/internal/domain/membership"
	"calligraphy-cms/internal/domain/users"
	"calligraphy-cms/internal/infra/logger"

	"github.com/gin-gonic/gin"
)

type Store interface {
	GetUser(ctx context.Context, id uint) (*users.User, error)
	GetMemberByUserID(ctx context.Context, userID uint) (*membership.MemberProfile, error)
	GetTier(ctx context.Context, level int) (*membership.Tier, error)
	SaveMember(ctx context.Context, m *membership.MemberProfile) error
}

type Handler struct {
	store Store
	now   func() time.Time
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store, now: time.Now}
}

// member returns the caller's profile, nil when the user has none.
func (h *Handler) member(ctx context.Context, userID uint) (*membership.MemberProfile, error) {
	m, err := h.store.GetMemberByUserID(ctx, userID)
	if httpx.IsNotFound(err) {
		return nil, nil
	}
	return m, err
}

// GET /me
func (h *Handler) Me(c *gin.Context) {
	userID, ok := httpx.MustUserID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	user, err := h.store.GetUser(ctx, userID)
	if err != nil {
		httpx.Fail(c, err, "User")
		return
	}
	m, err := h.member(ctx, userID)
	if err != nil {
		httpx.Fail(c, err, "Member")
		return
	}

	var tier *membership.Tier
	if m != nil {
		tier, err = h.store.GetTier(ctx, m.TierLevel)
		if err != nil && !httpx.IsNotFound(err) {
			logger.Warn("user %d: load tier %d: %v", userID, m.TierLevel, err)
		}
	}

	now := h.now()
	policy := access.ComputePolicy(now, *user, m)

	c.JSON(http.StatusOK, MeResponse{
		User:       BuildUserDTO(*user),
		Member:     BuildMemberDTO(m),
		Tier:       BuildTierDTO(tier),
		Membership: BuildMembershipDTO(now, m),
		Access:     BuildAccessDTO(policy),
	})
}

type ProfileRequest struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	Introduction string `json:"introduction"`
}

// PUT /me/profile lets a member edit their contact details. Tier, status
// and scores stay admin-only.
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, ok := httpx.MustUserID(c)
	if !ok {
		return
	}

	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	m, err := h.member(ctx, userID)
	if err != nil {
		httpx.Fail(c, err, "Member")
		return
	}
	if m == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No membership profile for this account"})
		return
	}
	user, err := h.store.GetUser(ctx, userID)
	if err != nil {
		httpx.Fail(c, err, "User")
		return
	}
	if !access.ComputePolicy(h.now(), *user, m).Can(access.CapEditProfile) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Profile editing is not available for this membership"})
		return
	}

	m.Name = strings.TrimSpace(req.Name)
	m.Email = strings.TrimSpace(req.Email)
	m.Phone = req.Phone
	m.Address = req.Address
	m.Introduction = req.Introduction
	if errs := membership.Validate(*m); len(errs) > 0 {
		httpx.ValidationFailed(c, errs)
		return
	}
	if err := h.store.SaveMember(ctx, m); err != nil {
		httpx.Fail(c, err, "Member")
		return
	}
	c.JSON(http.StatusOK, BuildMemberDTO(m))
}
