package admin

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"calligraphy-cms/internal/api/httpx"
	"calligraphy-cms/internal/api/membership"
	"calligraphy-cms/internal/domain/billing"
	"calligraphy-cms/internal/domain/listing"
	domainmembership "calligraphy-cms/internal/domain/membership"
	"calligraphy-cms/internal/domain/users"
	"calligraphy-cms/internal/store"

	"github.com/gin-gonic/gin"
)

type Store interface {
	ListTiers(ctx context.Context) ([]domainmembership.Tier, error)
	ListAllMembers(ctx context.Context) ([]domainmembership.MemberProfile, error)
	ListUsers(ctx context.Context, q listing.Query) (listing.Page[users.User], error)
	GetUser(ctx context.Context, id uint) (*users.User, error)
	GetMemberByUserID(ctx context.Context, userID uint) (*domainmembership.MemberProfile, error)
	ListMemberPayments(ctx context.Context, memberID string) ([]billing.Payment, error)
	SetUserRole(ctx context.Context, id uint, role string) error
}

type Counter interface {
	DashboardCounts(ctx context.Context, now time.Time) (store.DashboardCounts, error)
}

type Handler struct {
	store       Store
	counts      Counter
	defaultLang string
	now         func() time.Time
}

func NewHandler(store Store, counts Counter, defaultLang string) *Handler {
	return &Handler{store: store, counts: counts, defaultLang: defaultLang, now: time.Now}
}

type AdminUser struct {
	ID           uint       `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Role         string     `json:"role"`
	AuthProvider string     `json:"auth_provider"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    string     `json:"created_at"`
}

func toAdminUser(u users.User) AdminUser {
	return AdminUser{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		AuthProvider: u.AuthProvider,
		LastLoginAt:  u.LastLoginAt,
		CreatedAt:    u.CreatedAt.Format("2006-01-02 15:04"),
	}
}

// GET /admin/dashboard
func (h *Handler) AdminDashboard(c *gin.Context) {
	ctx := c.Request.Context()

	counts, err := h.counts.DashboardCounts(ctx, h.now())
	if err != nil {
		httpx.Fail(c, err, "Dashboard")
		return
	}
	stats, err := membership.ComputeStats(ctx, h.store)
	if err != nil {
		httpx.Fail(c, err, "Member statistics")
		return
	}

	c.JSON(http.StatusOK, gin.H{"counts": counts, "members": stats})
}

// GET /admin/users?search=&status=<role>&page=&page_size=
func (h *Handler) ListAllUsers(c *gin.Context) {
	q := httpx.ParseQuery(c, h.defaultLang)
	page, err := h.store.ListUsers(c.Request.Context(), q)
	if err != nil {
		httpx.Fail(c, err, "Users")
		return
	}

	out := listing.Page[AdminUser]{Data: make([]AdminUser, 0, len(page.Data)), Total: page.Total, TotalPages: page.TotalPages}
	for _, u := range page.Data {
		out.Data = append(out.Data, toAdminUser(u))
	}
	c.JSON(http.StatusOK, out)
}

// GET /admin/users/:id
func (h *Handler) GetUserDetails(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	user, err := h.store.GetUser(ctx, id)
	if err != nil {
		httpx.Fail(c, err, "User")
		return
	}

	resp := gin.H{"user": toAdminUser(*user), "member": nil, "payments": []billing.Payment{}}
	member, err := h.store.GetMemberByUserID(ctx, id)
	switch {
	case err == nil:
		resp["member"] = member
		payments, err := h.store.ListMemberPayments(ctx, member.ID)
		if err != nil {
			httpx.Fail(c, err, "Payments")
			return
		}
		resp["payments"] = payments
	case !httpx.IsNotFound(err):
		httpx.Fail(c, err, "Member profile")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// PUT /admin/users/:id/role {role}
func (h *Handler) SetRole(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}
	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, err)
		return
	}
	if req.Role != users.RoleAdmin && req.Role != users.RoleMember {
		httpx.ValidationFailed(c, []string{"Role must be admin or member"})
		return
	}
	if id == c.GetUint("user_id") && req.Role != users.RoleAdmin {
		c.JSON(http.StatusConflict, gin.H{"error": "You cannot remove your own admin role"})
		return
	}

	if err := h.store.SetUserRole(c.Request.Context(), id, req.Role); err != nil {
		httpx.Fail(c, err, "User")
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "role": req.Role})
}

func userIDParam(c *gin.Context) (uint, bool) {
	n, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || n == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return 0, false
	}
	return uint(n), true
}
