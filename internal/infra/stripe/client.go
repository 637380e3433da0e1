package stripe

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	stripeapi "github.com/stripe/stripe-go/v75"
	checkoutsession "github.com/stripe/stripe-go/v75/checkout/session"
	"github.com/stripe/stripe-go/v75/webhook"
)

// DuesCheckout describes one annual dues payment.
type DuesCheckout struct {
	MemberID  string
	UserID    uint
	Email     string
	TierLevel int
	TierName  string
	AmountKRW int64
}

// Session is the part of a checkout session the app keeps.
type Session struct {
	ID              string
	URL             string
	PaymentStatus   string
	PaymentIntentID string
	AmountTotal     int64
	Metadata        map[string]string
	ClientRef       string
}

// Event is a verified webhook event.
type Event struct {
	ID      string
	Type    string
	Session *Session
}

type Client struct {
	secretKey     string
	webhookSecret string
	appURL        string
}

func NewClient(secretKey, webhookSecret, appURL string) *Client {
	return &Client{secretKey: secretKey, webhookSecret: webhookSecret, appURL: appURL}
}

func (c *Client) Configured() bool { return c.secretKey != "" }

// CreateDuesSession opens a one-off KRW checkout. KRW is zero-decimal, so the
// amount is passed as is.
func (c *Client) CreateDuesSession(in DuesCheckout) (*Session, error) {
	if c.secretKey == "" {
		return nil, errors.New("stripe key not configured")
	}
	stripeapi.Key = c.secretKey

	ref := strconv.FormatUint(uint64(in.UserID), 10)
	params := &stripeapi.CheckoutSessionParams{
		SuccessURL:    stripeapi.String(c.appURL + "/membership?paid=1"),
		CancelURL:     stripeapi.String(c.appURL + "/membership?canceled=1"),
		Mode:          stripeapi.String(string(stripeapi.CheckoutSessionModePayment)),
		CustomerEmail: stripeapi.String(in.Email),
		LineItems: []*stripeapi.CheckoutSessionLineItemParams{
			{
				Quantity: stripeapi.Int64(1),
				PriceData: &stripeapi.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripeapi.String("krw"),
					UnitAmount: stripeapi.Int64(in.AmountKRW),
					ProductData: &stripeapi.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripeapi.String(fmt.Sprintf("연회비 %s", in.TierName)),
					},
				},
			},
		},
		ClientReferenceID: stripeapi.String(ref),
	}
	params.AddMetadata("member_id", in.MemberID)
	params.AddMetadata("user_id", ref)
	params.AddMetadata("tier_level", strconv.Itoa(in.TierLevel))

	s, err := checkoutsession.New(params)
	if err != nil {
		return nil, errors.Wrap(err, "create checkout session")
	}
	return fromCheckout(s), nil
}

// ParseEvent verifies the signature and decodes checkout session payloads.
func (c *Client) ParseEvent(payload []byte, signature string) (*Event, error) {
	if c.webhookSecret == "" {
		return nil, errors.New("stripe webhook secret not configured")
	}
	ev, err := webhook.ConstructEventWithOptions(
		payload,
		signature,
		c.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		return nil, errors.Wrap(err, "verify signature")
	}

	out := &Event{ID: ev.ID, Type: string(ev.Type)}
	if ev.Type == "checkout.session.completed" {
		var s stripeapi.CheckoutSession
		if err := json.Unmarshal(ev.Data.Raw, &s); err != nil {
			return nil, errors.Wrap(err, "decode checkout session")
		}
		out.Session = fromCheckout(&s)
	}
	return out, nil
}

func fromCheckout(s *stripeapi.CheckoutSession) *Session {
	out := &Session{
		ID:            s.ID,
		URL:           s.URL,
		PaymentStatus: NormalizePaymentStatus(string(s.PaymentStatus)),
		AmountTotal:   s.AmountTotal,
		Metadata:      s.Metadata,
		ClientRef:     s.ClientReferenceID,
	}
	if s.PaymentIntent != nil {
		out.PaymentIntentID = s.PaymentIntent.ID
	}
	return out
}
