package store

import (
	"context"
	"time"

	"calligraphy-cms/internal/domain/events"
	"calligraphy-cms/internal/domain/listing"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var eventOrders = map[string]string{
	listing.SortNewest:  "events.start_at DESC",
	listing.SortOldest:  "events.start_at ASC",
	listing.SortPopular: "events.registered_count DESC, events.start_at DESC",
	listing.SortTitle:   "events.title ASC",
}

func (s *Store) ListPublishedEvents(ctx context.Context) ([]events.Event, error) {
	var out []events.Event
	err := s.conn(ctx).Preload("Image").Where("published = ?", true).Find(&out).Error
	return out, translate(err, "list published events")
}

func (s *Store) ListEvents(ctx context.Context, q listing.Query) (listing.Page[events.Event], error) {
	db := s.conn(ctx).Model(&events.Event{})
	if q.Search != "" {
		db = db.Where("title ILIKE ?", likePattern(q.Search))
	}
	if !listing.IsAll(q.Category) {
		db = db.Where("category = ?", q.Category)
	}
	if q.Year != 0 {
		db = db.Where("EXTRACT(YEAR FROM start_at) = ?", q.Year)
	}
	switch q.Status {
	case "published":
		db = db.Where("published = ?", true)
	case "draft":
		db = db.Where("published = ?", false)
	}
	return paginate[events.Event](db, q, orderFor(q.Sort, eventOrders), "Image")
}

func (s *Store) GetEvent(ctx context.Context, id string) (*events.Event, error) {
	var e events.Event
	if err := s.conn(ctx).Preload("Image").First(&e, "id = ?", id).Error; err != nil {
		return nil, translate(err, "get event")
	}
	return &e, nil
}

func (s *Store) CreateEvent(ctx context.Context, e *events.Event) error {
	return errors.Wrap(s.conn(ctx).Omit(clause.Associations).Create(e).Error, "create event")
}

// UpdateEvent writes every column except the registration counter, which only
// RegisterForEvent moves.
func (s *Store) UpdateEvent(ctx context.Context, e *events.Event) error {
	res := s.conn(ctx).Model(&events.Event{}).
		Where("id = ?", e.ID).
		Select("*").
		Omit("id", "created_at", "registered_count", "Image").
		Updates(e)
	return affected(res, "update event")
}

func (s *Store) DeleteEvent(ctx context.Context, id string) error {
	return affected(s.conn(ctx).Delete(&events.Event{}, "id = ?", id), "delete event")
}

// RegisterForEvent locks the event row, re-checks availability and records the
// registration with the counter bump in one transaction.
func (s *Store) RegisterForEvent(ctx context.Context, eventID string, reg *events.EventRegistration, now time.Time) (*events.Event, error) {
	var out events.Event
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&out, "id = ?", eventID).Error; err != nil {
			return translate(err, "load event")
		}
		if err := out.CanRegister(now); err != nil {
			return err
		}

		reg.EventID = eventID
		if err := tx.Create(reg).Error; err != nil {
			return errors.Wrap(err, "create registration")
		}
		if err := tx.Model(&events.Event{}).
			Where("id = ?", eventID).
			UpdateColumn("registered_count", gorm.Expr("registered_count + 1")).Error; err != nil {
			return errors.Wrap(err, "bump registered count")
		}
		out.RegisteredCount++
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Store) ListRegistrations(ctx context.Context, eventID string) ([]events.EventRegistration, error) {
	var out []events.EventRegistration
	err := s.conn(ctx).Where("event_id = ?", eventID).Order("created_at ASC").Find(&out).Error
	return out, translate(err, "list registrations")
}

// CloseExpiredRegistrations flips registration_open off for events past their
// deadline or their end.
func (s *Store) CloseExpiredRegistrations(ctx context.Context, now time.Time) (int64, error) {
	res := s.conn(ctx).Model(&events.Event{}).
		Where("registration_open = ?", true).
		Where("(registration_deadline IS NOT NULL AND registration_deadline < ?) OR (end_at IS NOT NULL AND end_at < ?)", now, now).
		Update("registration_open", false)
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "close registrations")
	}
	return res.RowsAffected, nil
}
