package files

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"calligraphy-cms/internal/api/httpx"
	"calligraphy-cms/internal/domain/files"
	"calligraphy-cms/internal/domain/listing"
	"calligraphy-cms/internal/domain/media"
	"calligraphy-cms/internal/infra/logger"

	"github.com/gin-gonic/gin"
)

type Store interface {
	ListVisibleDocuments(ctx context.Context, includePrivate bool) ([]files.Document, error)
	ListDocuments(ctx context.Context, q listing.Query) (listing.Page[files.Document], error)
	GetDocument(ctx context.Context, id string) (*files.Document, error)
	CreateDocument(ctx context.Context, d *files.Document) error
	UpdateDocumentMeta(ctx context.Context, d *files.Document) error
	DeleteDocument(ctx context.Context, id string) error
	IncrementDownloads(ctx context.Context, id string) error

	CreateImage(ctx context.Context, img *media.Image) error
}

// Blob is where uploaded bytes live.
type Blob interface {
	Save(key string, r io.Reader, maxBytes int64) (int64, error)
	Open(key string) (io.ReadCloser, error)
	Delete(key string) error
	URL(key string) string
}

type Handler struct {
	store       Store
	blob        Blob
	defaultLang string
}

func NewHandler(store Store, blob Blob, defaultLang string) *Handler {
	return &Handler{store: store, blob: blob, defaultLang: defaultLang}
}

var documentAccessors = listing.Accessors[files.Document]{
	Text:       files.Document.SearchText,
	Category:   func(d files.Document) string { return d.Category },
	Year:       func(d files.Document) int { return d.CreatedAt.Year() },
	Status:     func(d files.Document) string { return d.Format },
	Date:       func(d files.Document) time.Time { return d.CreatedAt },
	Popularity: func(d files.Document) int { return d.DownloadCount },
	Title:      func(d files.Document, _ string) string { return d.Title },
}

// ------------------------------
// GET /documents
// ------------------------------
func (h *Handler) List(c *gin.Context) {
	q := httpx.ParseQuery(c, h.defaultLang)

	all, err := h.store.ListVisibleDocuments(c.Request.Context(), httpx.IsAdmin(c))
	if err != nil {
		httpx.Fail(c, err, "Documents")
		return
	}
	c.JSON(http.StatusOK, listing.Apply(all, q, documentAccessors))
}

// ------------------------------
// GET /documents/:id/download
// ------------------------------
func (h *Handler) Download(c *gin.Context) {
	ctx := c.Request.Context()
	d, err := h.store.GetDocument(ctx, c.Param("id"))
	if err != nil {
		httpx.Fail(c, err, "Document")
		return
	}
	// private documents stay invisible to non-admins
	if !d.CanDownload(httpx.IsAdmin(c)) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}

	rc, err := h.blob.Open(d.StorageKey)
	if err != nil {
		logger.Error("open document %s (%s): %v", d.ID, d.StorageKey, err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Document file is missing"})
		return
	}
	defer rc.Close()

	if err := h.store.IncrementDownloads(ctx, d.ID); err != nil {
		logger.Warn("document %s: count download: %v", d.ID, err)
	}

	contentType := d.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, d.SizeBytes, contentType, rc, map[string]string{
		"Content-Disposition": contentDisposition(d.OriginalName),
	})
}

// contentDisposition keeps Hangul file names intact (RFC 6266 filename*).
func contentDisposition(name string) string {
	return fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, asciiFallback(name), url.PathEscape(name))
}

func asciiFallback(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		if r < 0x20 || r > 0x7e || r == '"' || r == '\\' {
			r = '_'
		}
		out = append(out, r)
	}
	return string(out)
}
