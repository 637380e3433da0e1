package stripewebhooks

import (
	"context"
	"strconv"

	"calligraphy-cms/internal/domain/billing"
	"calligraphy-cms/internal/infra/logger"
	"calligraphy-cms/internal/infra/stripe"
	"calligraphy-cms/internal/store"

	"github.com/pkg/errors"
)

// handleCheckoutSessionCompleted records a paid dues session. The returned
// status is echoed back to Stripe.
func (h *Handler) handleCheckoutSessionCompleted(ctx context.Context, event *stripe.Event) (string, error) {
	s := event.Session
	if s == nil || s.ID == "" {
		return "ignored", nil
	}
	if s.PaymentStatus != billing.StatusPaid {
		// async methods complete later with async_payment_succeeded
		return "pending", nil
	}

	memberID := s.Metadata["member_id"]
	if memberID == "" {
		logger.Warn("stripe session %s has no member_id", s.ID)
		return "ignored", nil
	}

	p := billing.Payment{
		MemberID:        memberID,
		UserID:          userIDFromSession(s),
		Purpose:         billing.PurposeAnnualDues,
		StripeSessionID: s.ID,
		AmountKRW:       s.AmountTotal,
		Status:          billing.StatusPaid,
	}
	if lvl, err := strconv.Atoi(s.Metadata["tier_level"]); err == nil {
		p.TierLevel = lvl
	}
	if s.PaymentIntentID != "" {
		pi := s.PaymentIntentID
		p.StripePaymentIntentID = &pi
	}

	created, err := h.store.RecordDuesPayment(ctx, &p, h.now())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// member deleted since checkout; retrying will not help
			logger.Warn("stripe session %s: member %s not found", s.ID, memberID)
			return "ignored", nil
		}
		return "", errors.Wrap(err, "record dues payment")
	}
	if !created {
		return "duplicate", nil
	}
	logger.Info("dues paid member=%s amount=%d session=%s", memberID, p.AmountKRW, s.ID)
	return "received", nil
}

// userIDFromSession prefers metadata.user_id, else the client reference.
func userIDFromSession(s *stripe.Session) *uint {
	raw := s.Metadata["user_id"]
	if raw == "" {
		raw = s.ClientRef
	}
	uid, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || uid == 0 {
		return nil
	}
	out := uint(uid)
	return &out
}
