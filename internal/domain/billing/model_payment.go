package billing

import (
	"time"

	"calligraphy-cms/internal/domain/membership"
)

const (
	StatusPending  = "pending"
	StatusPaid     = "paid"
	StatusFailed   = "failed"
	StatusRefunded = "refunded"

	PurposeAnnualDues = "annual_dues"
)

// Payment is one settled (or settling) dues checkout.
type Payment struct {
	ID       uint   `gorm:"primaryKey"`
	MemberID string `gorm:"type:uuid;not null;index"`
	Member   *membership.MemberProfile
	UserID   *uint `gorm:"index"`

	Purpose   string `gorm:"not null;default:'annual_dues'"`
	TierLevel int    `gorm:"not null"`

	StripeSessionID       string `gorm:"uniqueIndex"`
	StripePaymentIntentID *string
	AmountKRW             int64
	Status                string `gorm:"not null;default:'pending';index"`
	ReceiptURL            *string
	PaidAt                *time.Time
	CreatedAt             time.Time
}
