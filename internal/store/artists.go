package store

import (
	"context"

	"calligraphy-cms/internal/domain/artists"
	"calligraphy-cms/internal/domain/listing"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var artistOrders = map[string]string{
	listing.SortNewest:  "artists.created_at DESC",
	listing.SortOldest:  "artists.created_at ASC",
	listing.SortPopular: "artists.featured DESC, artists.created_at DESC",
}

func artistsQuery(db *gorm.DB) *gorm.DB {
	return db.Model(&artists.Artist{}).Preload("I18n").Preload("Image")
}

func (s *Store) ListPublishedArtists(ctx context.Context) ([]artists.Artist, error) {
	var out []artists.Artist
	err := artistsQuery(s.conn(ctx)).Where("published = ?", true).Find(&out).Error
	return out, translate(err, "list published artists")
}

// ListArtists is the admin list: category filters artist_type, status filters
// membership_type.
func (s *Store) ListArtists(ctx context.Context, q listing.Query) (listing.Page[artists.Artist], error) {
	db := s.conn(ctx).Model(&artists.Artist{})
	if q.Search != "" {
		db = db.Where("EXISTS (SELECT 1 FROM artist_i18ns i WHERE i.artist_id = artists.id AND i.name ILIKE ?)", likePattern(q.Search))
	}
	if !listing.IsAll(q.Category) {
		db = db.Where("artist_type = ?", q.Category)
	}
	if !listing.IsAll(q.Status) {
		db = db.Where("membership_type = ?", q.Status)
	}
	if q.Normalize().Sort == listing.SortTitle {
		return titlePage(db, q, artists.Artist.Name, "artists.slug ASC", "I18n", "Image")
	}
	return paginate[artists.Artist](db, q, orderFor(q.Sort, artistOrders), "I18n", "Image")
}

// GetArtist accepts either the uuid or the slug.
func (s *Store) GetArtist(ctx context.Context, idOrSlug string) (*artists.Artist, error) {
	var a artists.Artist
	err := artistsQuery(s.conn(ctx)).
		Where("artists.id::text = ? OR artists.slug = ?", idOrSlug, idOrSlug).
		First(&a).Error
	if err != nil {
		return nil, translate(err, "get artist")
	}
	return &a, nil
}

func (s *Store) CreateArtist(ctx context.Context, a *artists.Artist) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		rows := a.I18n
		if err := tx.Omit(clause.Associations).Create(a).Error; err != nil {
			return errors.Wrap(err, "create artist")
		}
		return replaceArtistI18n(tx, a, rows)
	})
}

func (s *Store) UpdateArtist(ctx context.Context, a *artists.Artist) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		rows := a.I18n
		if err := affected(updateArtistColumns(tx, a), "update artist"); err != nil {
			return err
		}
		return replaceArtistI18n(tx, a, rows)
	})
}

// updateArtistColumns writes every column, so fields cleared in the admin form
// are cleared in the row too.
func updateArtistColumns(tx *gorm.DB, a *artists.Artist) *gorm.DB {
	return tx.Model(&artists.Artist{}).
		Where("id = ?", a.ID).
		Select("*").
		Omit("id", "created_at", clause.Associations).
		Updates(a)
}

func replaceArtistI18n(tx *gorm.DB, a *artists.Artist, rows []artists.ArtistI18n) error {
	langs := make([]string, 0, len(rows))
	for i := range rows {
		rows[i].ArtistID = a.ID
		langs = append(langs, rows[i].Lang)
	}

	del := tx.Where("artist_id = ?", a.ID)
	if len(langs) > 0 {
		del = del.Where("lang NOT IN ?", langs)
	}
	if err := del.Delete(&artists.ArtistI18n{}).Error; err != nil {
		return errors.Wrap(err, "prune artist i18n")
	}
	if len(rows) == 0 {
		return nil
	}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "artist_id"}, {Name: "lang"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "bio", "updated_at"}),
	}).Create(&rows).Error
	a.I18n = rows
	return errors.Wrap(err, "upsert artist i18n")
}

func (s *Store) DeleteArtist(ctx context.Context, id string) error {
	return affected(s.conn(ctx).Delete(&artists.Artist{}, "id = ?", id), "delete artist")
}
