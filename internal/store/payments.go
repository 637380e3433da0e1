package store

import (
	"context"
	"time"

	"calligraphy-cms/internal/domain/billing"
	"calligraphy-cms/internal/domain/listing"
	"calligraphy-cms/internal/domain/membership"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecordDuesPayment stores p and extends the member's term. A session id that
// was already recorded is a no-op and reports created=false.
func (s *Store) RecordDuesPayment(ctx context.Context, p *billing.Payment, now time.Time) (created bool, err error) {
	err = s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&billing.Payment{}).Where("stripe_session_id = ?", p.StripeSessionID).Count(&existing).Error; err != nil {
			return errors.Wrap(err, "check payment")
		}
		if existing > 0 {
			return nil
		}

		var m membership.MemberProfile
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&m, "id = ?", p.MemberID).Error; err != nil {
			return translate(err, "load member")
		}

		if p.PaidAt == nil {
			p.PaidAt = &now
		}
		if err := tx.Omit(clause.Associations).Create(p).Error; err != nil {
			return errors.Wrap(err, "create payment")
		}

		m.ExtendTerm(now)
		if err := tx.Model(&membership.MemberProfile{}).Where("id = ?", m.ID).Updates(map[string]interface{}{
			"status":     m.Status,
			"joined_at":  m.JoinedAt,
			"expires_at": m.ExpiresAt,
		}).Error; err != nil {
			return errors.Wrap(err, "extend member term")
		}
		created = true
		return nil
	})
	return created, err
}

func (s *Store) ListPayments(ctx context.Context, q listing.Query) (listing.Page[billing.Payment], error) {
	db := s.conn(ctx).Model(&billing.Payment{})
	if !listing.IsAll(q.Status) {
		db = db.Where("status = ?", q.Status)
	}
	if q.Year != 0 {
		db = db.Where("EXTRACT(YEAR FROM created_at) = ?", q.Year)
	}
	return paginate[billing.Payment](db, q, "created_at DESC", "Member")
}

func (s *Store) ListMemberPayments(ctx context.Context, memberID string) ([]billing.Payment, error) {
	var out []billing.Payment
	err := s.conn(ctx).Where("member_id = ?", memberID).Order("created_at DESC").Find(&out).Error
	return out, translate(err, "list member payments")
}
