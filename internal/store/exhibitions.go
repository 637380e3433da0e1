package store

import (
	"context"

	"calligraphy-cms/internal/domain/events"
	"calligraphy-cms/internal/domain/listing"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var exhibitionOrders = map[string]string{
	listing.SortNewest:  "exhibitions.start_at DESC",
	listing.SortOldest:  "exhibitions.start_at ASC",
	listing.SortPopular: "exhibitions.featured DESC, exhibitions.start_at DESC",
	listing.SortTitle:   "exhibitions.title ASC",
}

var exhibitionPreloads = []string{"Image", "Artists.I18n", "Artworks.I18n"}

func exhibitionsQuery(db *gorm.DB) *gorm.DB {
	q := db.Model(&events.Exhibition{})
	for _, p := range exhibitionPreloads {
		q = q.Preload(p)
	}
	return q
}

func (s *Store) ListPublishedExhibitions(ctx context.Context) ([]events.Exhibition, error) {
	var out []events.Exhibition
	err := exhibitionsQuery(s.conn(ctx)).Where("published = ?", true).Find(&out).Error
	return out, translate(err, "list published exhibitions")
}

func (s *Store) ListExhibitions(ctx context.Context, q listing.Query) (listing.Page[events.Exhibition], error) {
	db := s.conn(ctx).Model(&events.Exhibition{})
	if q.Search != "" {
		db = db.Where("title ILIKE ?", likePattern(q.Search))
	}
	if q.Year != 0 {
		db = db.Where("EXTRACT(YEAR FROM start_at) = ?", q.Year)
	}
	return paginate[events.Exhibition](db, q, orderFor(q.Sort, exhibitionOrders), exhibitionPreloads...)
}

func (s *Store) GetExhibition(ctx context.Context, id string) (*events.Exhibition, error) {
	var x events.Exhibition
	if err := exhibitionsQuery(s.conn(ctx)).First(&x, "exhibitions.id = ?", id).Error; err != nil {
		return nil, translate(err, "get exhibition")
	}
	return &x, nil
}

// CreateExhibition stores x and links it to the given artists and artworks.
func (s *Store) CreateExhibition(ctx context.Context, x *events.Exhibition, artistIDs, artworkIDs []string) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(x).Error; err != nil {
			return errors.Wrap(err, "create exhibition")
		}
		return linkExhibition(tx, x.ID, artistIDs, artworkIDs)
	})
}

// UpdateExhibition replaces the links only when the id lists are non-nil.
func (s *Store) UpdateExhibition(ctx context.Context, x *events.Exhibition, artistIDs, artworkIDs []string) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&events.Exhibition{}).
			Where("id = ?", x.ID).
			Select("*").
			Omit("id", "created_at", "Image", "Artists", "Artworks").
			Updates(x)
		if err := affected(res, "update exhibition"); err != nil {
			return err
		}
		return linkExhibition(tx, x.ID, artistIDs, artworkIDs)
	})
}

func linkExhibition(tx *gorm.DB, id string, artistIDs, artworkIDs []string) error {
	if artistIDs != nil {
		if err := tx.Exec("DELETE FROM exhibition_artists WHERE exhibition_id = ?", id).Error; err != nil {
			return errors.Wrap(err, "clear exhibition artists")
		}
		for _, aid := range artistIDs {
			if err := tx.Exec("INSERT INTO exhibition_artists (exhibition_id, artist_id) VALUES (?, ?) ON CONFLICT DO NOTHING", id, aid).Error; err != nil {
				return errors.Wrap(err, "link exhibition artist")
			}
		}
	}
	if artworkIDs != nil {
		if err := tx.Exec("DELETE FROM exhibition_artworks WHERE exhibition_id = ?", id).Error; err != nil {
			return errors.Wrap(err, "clear exhibition artworks")
		}
		for _, wid := range artworkIDs {
			if err := tx.Exec("INSERT INTO exhibition_artworks (exhibition_id, artwork_id) VALUES (?, ?) ON CONFLICT DO NOTHING", id, wid).Error; err != nil {
				return errors.Wrap(err, "link exhibition artwork")
			}
		}
	}
	return nil
}

func (s *Store) DeleteExhibition(ctx context.Context, id string) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := linkExhibition(tx, id, []string{}, []string{}); err != nil {
			return err
		}
		return affected(tx.Delete(&events.Exhibition{}, "id = ?", id), "delete exhibition")
	})
}
