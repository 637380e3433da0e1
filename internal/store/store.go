package store

import (
	"context"
	"strings"

	"calligraphy-cms/internal/domain/listing"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ErrNotFound is returned for every missing row; handlers map it to 404.
var ErrNotFound = errors.New("record not found")

// Store is the GORM implementation behind every handler-side interface.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) DB() *gorm.DB { return s.db }

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// translate maps gorm.ErrRecordNotFound onto ErrNotFound and wraps the rest.
func translate(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return errors.Wrap(err, msg)
}

// affected turns a zero-row update or delete into ErrNotFound.
func affected(res *gorm.DB, msg string) error {
	if res.Error != nil {
		return errors.Wrap(res.Error, msg)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func likePattern(term string) string {
	term = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.TrimSpace(term))
	return "%" + term + "%"
}

// paginate counts the filtered query, then loads one page with the given
// associations preloaded.
func paginate[T any](q *gorm.DB, lq listing.Query, order string, preloads ...string) (listing.Page[T], error) {
	lq = lq.Normalize()

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return listing.Page[T]{}, errors.Wrap(err, "count")
	}

	for _, p := range preloads {
		q = q.Preload(p)
	}
	out := make([]T, 0, lq.PageSize)
	if err := q.Order(order).Offset(lq.Offset()).Limit(lq.PageSize).Find(&out).Error; err != nil {
		return listing.Page[T]{}, errors.Wrap(err, "list")
	}

	return listing.Page[T]{
		Data:       out,
		Total:      total,
		TotalPages: listing.TotalPages(total, lq.PageSize),
	}, nil
}

// titlePage loads every filtered row, orders it by the title in lq.Lang with
// the listing collation and slices one page. Ties keep the order given.
func titlePage[T any](q *gorm.DB, lq listing.Query, title func(T, string) string, order string, preloads ...string) (listing.Page[T], error) {
	for _, p := range preloads {
		q = q.Preload(p)
	}
	var all []T
	if err := q.Order(order).Find(&all).Error; err != nil {
		return listing.Page[T]{}, errors.Wrap(err, "list")
	}
	return sortByTitle(all, lq, title), nil
}

func sortByTitle[T any](items []T, lq listing.Query, title func(T, string) string) listing.Page[T] {
	lq = lq.Normalize()
	listing.Sort(items, listing.SortTitle, lq.Lang, listing.Accessors[T]{Title: title})
	return listing.Paginate(items, lq.Page, lq.PageSize)
}

// orderFor picks the ORDER BY clause for a sort key from the given table.
func orderFor(sort string, orders map[string]string) string {
	if o, ok := orders[sort]; ok {
		return o
	}
	return orders[listing.SortNewest]
}
