package stripewebhooks

import (
	"context"
	"io"
	"net/http"
	"time"

	"calligraphy-cms/internal/domain/billing"
	"calligraphy-cms/internal/infra/logger"
	"calligraphy-cms/internal/infra/stripe"

	"github.com/gin-gonic/gin"
)

type Store interface {
	RecordDuesPayment(ctx context.Context, p *billing.Payment, now time.Time) (bool, error)
}

type EventParser interface {
	ParseEvent(payload []byte, signature string) (*stripe.Event, error)
}

type Handler struct {
	store  Store
	parser EventParser
	now    func() time.Time
}

func NewHandler(store Store, parser EventParser) *Handler {
	return &Handler{store: store, parser: parser, now: time.Now}
}

// POST /webhook/stripe
func (h *Handler) StripeWebhook(c *gin.Context) {
	payload, err := readStripeBody(c, 65536)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error reading request body"})
		return
	}

	event, err := h.parser.ParseEvent(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		logger.Warn("stripe webhook rejected: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Signature verification failed"})
		return
	}

	switch event.Type {
	case "checkout.session.completed", "checkout.session.async_payment_succeeded":
		status, err := h.handleCheckoutSessionCompleted(c.Request.Context(), event)
		if err != nil {
			// 500 makes Stripe retry
			logger.Error("stripe event %s: %v", event.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": status})

	default:
		// Acknowledge unknown events to avoid retries
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
	}
}

func readStripeBody(c *gin.Context, maxBytes int64) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	return io.ReadAll(c.Request.Body)
}
