package store

import (
	"context"

	"calligraphy-cms/internal/domain/files"
	"calligraphy-cms/internal/domain/listing"
	"calligraphy-cms/internal/domain/media"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var documentOrders = map[string]string{
	listing.SortNewest:  "created_at DESC",
	listing.SortOldest:  "created_at ASC",
	listing.SortPopular: "download_count DESC, created_at DESC",
	listing.SortTitle:   "title ASC",
}

// ListVisibleDocuments returns public documents, plus private ones for admins.
func (s *Store) ListVisibleDocuments(ctx context.Context, includePrivate bool) ([]files.Document, error) {
	db := s.conn(ctx)
	if !includePrivate {
		db = db.Where("is_public = ?", true)
	}
	var out []files.Document
	return out, translate(db.Find(&out).Error, "list documents")
}

func (s *Store) ListDocuments(ctx context.Context, q listing.Query) (listing.Page[files.Document], error) {
	db := s.conn(ctx).Model(&files.Document{})
	if q.Search != "" {
		p := likePattern(q.Search)
		db = db.Where("title ILIKE ? OR original_name ILIKE ?", p, p)
	}
	if !listing.IsAll(q.Category) {
		db = db.Where("category = ?", q.Category)
	}
	switch q.Status {
	case "public":
		db = db.Where("is_public = ?", true)
	case "private":
		db = db.Where("is_public = ?", false)
	}
	return paginate[files.Document](db, q, orderFor(q.Sort, documentOrders))
}

func (s *Store) GetDocument(ctx context.Context, id string) (*files.Document, error) {
	var d files.Document
	if err := s.conn(ctx).First(&d, "id = ?", id).Error; err != nil {
		return nil, translate(err, "get document")
	}
	return &d, nil
}

func (s *Store) CreateDocument(ctx context.Context, d *files.Document) error {
	return errors.Wrap(s.conn(ctx).Create(d).Error, "create document")
}

// UpdateDocumentMeta touches only the editable metadata.
func (s *Store) UpdateDocumentMeta(ctx context.Context, d *files.Document) error {
	res := s.conn(ctx).Model(&files.Document{}).Where("id = ?", d.ID).Updates(map[string]interface{}{
		"title":       d.Title,
		"description": d.Description,
		"category":    d.Category,
		"is_public":   d.IsPublic,
	})
	return affected(res, "update document")
}

func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	return affected(s.conn(ctx).Delete(&files.Document{}, "id = ?", id), "delete document")
}

func (s *Store) IncrementDownloads(ctx context.Context, id string) error {
	res := s.conn(ctx).Model(&files.Document{}).
		Where("id = ?", id).
		UpdateColumn("download_count", gorm.Expr("download_count + 1"))
	return affected(res, "increment downloads")
}

func (s *Store) CreateImage(ctx context.Context, img *media.Image) error {
	return errors.Wrap(s.conn(ctx).Create(img).Error, "create image")
}

func (s *Store) GetImage(ctx context.Context, id string) (*media.Image, error) {
	var img media.Image
	if err := s.conn(ctx).First(&img, "id = ?", id).Error; err != nil {
		return nil, translate(err, "get image")
	}
	return &img, nil
}

// FindImageByUnsplashID lets repeated picks of one photo share a record.
func (s *Store) FindImageByUnsplashID(ctx context.Context, unsplashID string) (*media.Image, error) {
	var img media.Image
	if err := s.conn(ctx).First(&img, "unsplash_id = ?", unsplashID).Error; err != nil {
		return nil, translate(err, "find unsplash image")
	}
	return &img, nil
}
