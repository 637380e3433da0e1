package store

import (
	"context"
	"time"

	"calligraphy-cms/internal/domain/listing"
	"calligraphy-cms/internal/domain/works"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var artworkOrders = map[string]string{
	listing.SortNewest:  "artworks.created_at DESC",
	listing.SortOldest:  "artworks.created_at ASC",
	listing.SortPopular: "artworks.views DESC, artworks.created_at DESC",
}

var artworkPreloads = []string{"I18n", "Images.Image", "Artist.I18n"}

func artworksQuery(db *gorm.DB) *gorm.DB {
	q := db.Model(&works.Artwork{})
	for _, p := range artworkPreloads {
		q = q.Preload(p)
	}
	return q
}

// ListPublishedArtworks loads the whole public gallery; filtering and sorting
// happen in the listing pipeline.
func (s *Store) ListPublishedArtworks(ctx context.Context) ([]works.Artwork, error) {
	var out []works.Artwork
	err := artworksQuery(s.conn(ctx)).Where("published = ?", true).Find(&out).Error
	return out, translate(err, "list published artworks")
}

func (s *Store) ListArtworks(ctx context.Context, q listing.Query) (listing.Page[works.Artwork], error) {
	db := s.conn(ctx).Model(&works.Artwork{})
	if q.Search != "" {
		db = db.Where("EXISTS (SELECT 1 FROM artwork_i18ns i WHERE i.artwork_id = artworks.id AND i.title ILIKE ?)", likePattern(q.Search))
	}
	if !listing.IsAll(q.Category) {
		db = db.Where("category = ?", q.Category)
	}
	if q.Year != 0 {
		db = db.Where("year = ?", q.Year)
	}
	switch q.Status {
	case "published":
		db = db.Where("published = ?", true)
	case "draft":
		db = db.Where("published = ?", false)
	}
	if q.Normalize().Sort == listing.SortTitle {
		return titlePage(db, q, works.Artwork.Title, artworkOrders[listing.SortNewest], artworkPreloads...)
	}
	return paginate[works.Artwork](db, q, orderFor(q.Sort, artworkOrders), artworkPreloads...)
}

func (s *Store) GetArtwork(ctx context.Context, id string) (*works.Artwork, error) {
	var a works.Artwork
	if err := artworksQuery(s.conn(ctx)).First(&a, "artworks.id = ?", id).Error; err != nil {
		return nil, translate(err, "get artwork")
	}
	return &a, nil
}

func (s *Store) IncrementArtworkViews(ctx context.Context, id string) error {
	res := s.conn(ctx).Model(&works.Artwork{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1"))
	return affected(res, "increment views")
}

func (s *Store) CreateArtwork(ctx context.Context, a *works.Artwork) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		rows, images := a.I18n, a.Images
		if err := tx.Omit(clause.Associations).Create(a).Error; err != nil {
			return errors.Wrap(err, "create artwork")
		}
		if err := replaceArtworkI18n(tx, a, rows); err != nil {
			return err
		}
		return replaceArtworkImages(tx, a, images)
	})
}

func (s *Store) UpdateArtwork(ctx context.Context, a *works.Artwork) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		rows, images := a.I18n, a.Images
		if err := affected(updateArtworkColumns(tx, a), "update artwork"); err != nil {
			return err
		}
		if err := replaceArtworkI18n(tx, a, rows); err != nil {
			return err
		}
		return replaceArtworkImages(tx, a, images)
	})
}

// updateArtworkColumns writes every column the admin form owns, cleared ones
// included. Counters and the publication state have their own operations.
func updateArtworkColumns(tx *gorm.DB, a *works.Artwork) *gorm.DB {
	return tx.Model(&works.Artwork{}).
		Where("id = ?", a.ID).
		Select("*").
		Omit("id", "created_at", "views", "likes", "published", "published_at", clause.Associations).
		Updates(a)
}

func replaceArtworkI18n(tx *gorm.DB, a *works.Artwork, rows []works.ArtworkI18n) error {
	langs := make([]string, 0, len(rows))
	for i := range rows {
		rows[i].ArtworkID = a.ID
		langs = append(langs, rows[i].Lang)
	}

	del := tx.Where("artwork_id = ?", a.ID)
	if len(langs) > 0 {
		del = del.Where("lang NOT IN ?", langs)
	}
	if err := del.Delete(&works.ArtworkI18n{}).Error; err != nil {
		return errors.Wrap(err, "prune artwork i18n")
	}
	if len(rows) == 0 {
		return nil
	}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "artwork_id"}, {Name: "lang"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "description", "updated_at"}),
	}).Create(&rows).Error
	a.I18n = rows
	return errors.Wrap(err, "upsert artwork i18n")
}

// replaceArtworkImages rewrites the image order; SortIndex follows slice order.
func replaceArtworkImages(tx *gorm.DB, a *works.Artwork, images []works.ArtworkImage) error {
	if err := tx.Where("artwork_id = ?", a.ID).Delete(&works.ArtworkImage{}).Error; err != nil {
		return errors.Wrap(err, "clear artwork images")
	}
	if len(images) == 0 {
		return nil
	}
	for i := range images {
		images[i].ArtworkID = a.ID
		images[i].SortIndex = i
		images[i].Image = nil
	}
	a.Images = images
	return errors.Wrap(tx.Create(&images).Error, "insert artwork images")
}

func (s *Store) SetArtworkPublished(ctx context.Context, id string, published bool, now time.Time) (*works.Artwork, error) {
	var out *works.Artwork
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var a works.Artwork
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&a, "id = ?", id).Error; err != nil {
			return translate(err, "load artwork")
		}
		if published {
			a.Publish(now)
		} else {
			a.Unpublish()
		}
		if err := tx.Model(&works.Artwork{}).Where("id = ?", id).Updates(map[string]interface{}{
			"published":    a.Published,
			"published_at": a.PublishedAt,
		}).Error; err != nil {
			return errors.Wrap(err, "set published")
		}
		out = &a
		return nil
	})
	return out, err
}

func (s *Store) DeleteArtwork(ctx context.Context, id string) error {
	return affected(s.conn(ctx).Delete(&works.Artwork{}, "id = ?", id), "delete artwork")
}
