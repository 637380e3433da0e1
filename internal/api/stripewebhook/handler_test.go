package stripewebhooks

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"calligraphy-cms/internal/domain/billing"
	"calligraphy-cms/internal/infra/stripe"
	"calligraphy-cms/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockStore struct {
	Recorded map[string]billing.Payment
	Err      error
}

func (m *MockStore) RecordDuesPayment(ctx context.Context, p *billing.Payment, now time.Time) (bool, error) {
	if m.Err != nil {
		return false, m.Err
	}
	if _, ok := m.Recorded[p.StripeSessionID]; ok {
		return false, nil
	}
	m.Recorded[p.StripeSessionID] = *p
	return true, nil
}

// fakeParser treats the payload as the already verified event.
type fakeParser struct{}

func (fakeParser) ParseEvent(payload []byte, signature string) (*stripe.Event, error) {
	if signature != "valid" {
		return nil, errors.New("bad signature")
	}
	var ev stripe.Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

func setupRouter(s *MockStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, fakeParser{})
	r := gin.New()
	r.POST("/webhook/stripe", h.StripeWebhook)
	return r
}

func post(r *gin.Engine, ev stripe.Event, sig string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(ev)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/webhook/stripe", bytes.NewReader(body))
	req.Header.Set("Stripe-Signature", sig)
	r.ServeHTTP(w, req)
	return w
}

func paidEvent() stripe.Event {
	return stripe.Event{
		ID:   "evt_1",
		Type: "checkout.session.completed",
		Session: &stripe.Session{
			ID:              "cs_1",
			PaymentStatus:   "paid",
			PaymentIntentID: "pi_1",
			AmountTotal:     100000,
			Metadata:        map[string]string{"member_id": "m1", "user_id": "7", "tier_level": "2"},
		},
	}
}

func status(t *testing.T, w *httptest.ResponseRecorder) string {
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["status"]
}

func TestWebhook_RecordsPaidSessionOnce(t *testing.T) {
	s := &MockStore{Recorded: map[string]billing.Payment{}}
	r := setupRouter(s)

	w := post(r, paidEvent(), "valid")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "received", status(t, w))

	p := s.Recorded["cs_1"]
	assert.Equal(t, "m1", p.MemberID)
	assert.Equal(t, int64(100000), p.AmountKRW)
	assert.Equal(t, 2, p.TierLevel)
	require.NotNil(t, p.UserID)
	assert.Equal(t, uint(7), *p.UserID)
	require.NotNil(t, p.StripePaymentIntentID)

	w = post(r, paidEvent(), "valid")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "duplicate", status(t, w))
}

func TestWebhook_UnpaidAndUnknownEvents(t *testing.T) {
	s := &MockStore{Recorded: map[string]billing.Payment{}}
	r := setupRouter(s)

	ev := paidEvent()
	ev.Session.PaymentStatus = "pending"
	assert.Equal(t, "pending", status(t, post(r, ev, "valid")))

	assert.Equal(t, "ignored", status(t, post(r, stripe.Event{ID: "evt_2", Type: "invoice.paid"}, "valid")))
	assert.Empty(t, s.Recorded)
}

func TestWebhook_BadSignature(t *testing.T) {
	r := setupRouter(&MockStore{Recorded: map[string]billing.Payment{}})
	assert.Equal(t, http.StatusBadRequest, post(r, paidEvent(), "forged").Code)
}

func TestWebhook_StoreErrors(t *testing.T) {
	r := setupRouter(&MockStore{Err: store.ErrNotFound})
	w := post(r, paidEvent(), "valid")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ignored", status(t, w))

	r = setupRouter(&MockStore{Err: errors.New("connection reset")})
	assert.Equal(t, http.StatusInternalServerError, post(r, paidEvent(), "valid").Code)
}
