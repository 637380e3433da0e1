package billing

import (
	"errors"
	"net/http"

	"calligraphy-cms/internal/api/httpx"
	"calligraphy-cms/internal/domain/billing"
	"calligraphy-cms/internal/infra/logger"
	"calligraphy-cms/internal/infra/stripe"

	"github.com/gin-gonic/gin"
)

// ------------------------------
// POST /membership/dues/checkout
// ------------------------------
func (h *Handler) CreateDuesCheckout(c *gin.Context) {
	if h.checkout == nil || !h.checkout.Configured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Stripe key not configured"})
		return
	}

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
	member, err := h.store.GetMemberByUserID(ctx, userID)
	if err != nil {
		httpx.Fail(c, err, "Member profile")
		return
	}
	tier, err := h.store.GetTier(ctx, member.TierLevel)
	if err != nil {
		httpx.Fail(c, err, "Tier")
		return
	}

	amount, err := billing.DuesFor(*member, *tier)
	switch {
	case errors.Is(err, billing.ErrNoFee):
		c.JSON(http.StatusConflict, gin.H{"error": "Your tier has no annual fee"})
		return
	case errors.Is(err, billing.ErrMemberInactive):
		c.JSON(http.StatusForbidden, gin.H{"error": "Your membership must be approved before paying dues"})
		return
	case err != nil:
		httpx.Fail(c, err, "Dues")
		return
	}

	email := member.Email
	if email == "" {
		email = user.Email
	}
	s, err := h.checkout.CreateDuesSession(stripe.DuesCheckout{
		MemberID:  member.ID,
		UserID:    user.ID,
		Email:     email,
		TierLevel: tier.Level,
		TierName:  tier.Name,
		AmountKRW: amount,
	})
	if err != nil {
		logger.Error("dues checkout member=%s: %v", member.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create checkout session", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": s.URL, "amount_krw": amount})
}
