package billing

import (
	"context"

	"calligraphy-cms/internal/domain/billing"
	"calligraphy-cms/internal/domain/listing"
	"calligraphy-cms/internal/domain/membership"
	"calligraphy-cms/internal/domain/users"
	"calligraphy-cms/internal/infra/stripe"
)

type Store interface {
	GetUser(ctx context.Context, id uint) (*users.User, error)
	GetMemberByUserID(ctx context.Context, userID uint) (*membership.MemberProfile, error)
	GetTier(ctx context.Context, level int) (*membership.Tier, error)
	ListPayments(ctx context.Context, q listing.Query) (listing.Page[billing.Payment], error)
	ListMemberPayments(ctx context.Context, memberID string) ([]billing.Payment, error)
}

type Checkout interface {
	Configured() bool
	CreateDuesSession(in stripe.DuesCheckout) (*stripe.Session, error)
}

type Handler struct {
	store       Store
	checkout    Checkout
	defaultLang string
}

func NewHandler(store Store, checkout Checkout, defaultLang string) *Handler {
	return &Handler{store: store, checkout: checkout, defaultLang: defaultLang}
}
