package files

import (
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"calligraphy-cms/internal/api/httpx"
	"calligraphy-cms/internal/domain/files"
	"calligraphy-cms/internal/domain/media"
	"calligraphy-cms/internal/infra/logger"
	"calligraphy-cms/internal/infra/storage"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

type DocumentMetaRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
	IsPublic    *bool  `json:"is_public"`
}

// GET /admin/documents
func (h *Handler) AdminList(c *gin.Context) {
	page, err := h.store.ListDocuments(c.Request.Context(), httpx.ParseQuery(c, h.defaultLang))
	if err != nil {
		httpx.Fail(c, err, "Documents")
		return
	}
	c.JSON(http.StatusOK, page)
}

// POST /admin/documents  (multipart: file, title, description, category, is_public)
func (h *Handler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if fh.Size > files.MaxDocumentBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File is larger than 50MB"})
		return
	}

	d := files.Document{
		Title:        strings.TrimSpace(c.PostForm("title")),
		Description:  c.PostForm("description"),
		Category:     c.DefaultPostForm("category", files.CategoryOther),
		Format:       files.FormatOf(fh.Filename),
		OriginalName: filepath.Base(fh.Filename),
		ContentType:  fh.Header.Get("Content-Type"),
		SizeBytes:    fh.Size,
		IsPublic:     true,
	}
	if d.Title == "" {
		d.Title = strings.TrimSuffix(d.OriginalName, filepath.Ext(d.OriginalName))
	}
	if v := c.PostForm("is_public"); v != "" {
		d.IsPublic, _ = strconv.ParseBool(v)
	}
	if errs := files.Validate(d); len(errs) > 0 {
		httpx.ValidationFailed(c, errs)
		return
	}

	src, err := fh.Open()
	if err != nil {
		httpx.BadRequest(c, err)
		return
	}
	defer src.Close()

	d.StorageKey = storage.NewKey("documents", filepath.Ext(fh.Filename))
	n, err := h.blob.Save(d.StorageKey, src, files.MaxDocumentBytes)
	if err != nil {
		h.saveFailed(c, err)
		return
	}
	d.SizeBytes = n

	if err := h.store.CreateDocument(c.Request.Context(), &d); err != nil {
		_ = h.blob.Delete(d.StorageKey)
		httpx.Fail(c, err, "Document")
		return
	}
	c.JSON(http.StatusCreated, d)
}

func (h *Handler) saveFailed(c *gin.Context, err error) {
	if errors.Is(err, storage.ErrTooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File is too large"})
		return
	}
	logger.Error("store upload: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file", "details": err.Error()})
}

// PUT /admin/documents/:id
func (h *Handler) UpdateMeta(c *gin.Context) {
	var req DocumentMetaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	d, err := h.store.GetDocument(ctx, c.Param("id"))
	if err != nil {
		httpx.Fail(c, err, "Document")
		return
	}

	d.Title = strings.TrimSpace(req.Title)
	d.Description = req.Description
	if req.Category != "" {
		d.Category = req.Category
	}
	if req.IsPublic != nil {
		d.IsPublic = *req.IsPublic
	}
	if errs := files.Validate(*d); len(errs) > 0 {
		httpx.ValidationFailed(c, errs)
		return
	}

	if err := h.store.UpdateDocumentMeta(ctx, d); err != nil {
		httpx.Fail(c, err, "Document")
		return
	}
	c.JSON(http.StatusOK, d)
}

// DELETE /admin/documents/:id
func (h *Handler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	d, err := h.store.GetDocument(ctx, c.Param("id"))
	if err != nil {
		httpx.Fail(c, err, "Document")
		return
	}
	if err := h.store.DeleteDocument(ctx, d.ID); err != nil {
		httpx.Fail(c, err, "Document")
		return
	}
	if err := h.blob.Delete(d.StorageKey); err != nil {
		logger.Warn("document %s: remove %s: %v", d.ID, d.StorageKey, err)
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// POST /admin/images  (multipart: file, alt_text)
func (h *Handler) UploadImage(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if fh.Size > media.MaxImageBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Image is larger than 10MB"})
		return
	}

	src, err := fh.Open()
	if err != nil {
		httpx.BadRequest(c, err)
		return
	}
	defer src.Close()

	contentType := fh.Header.Get("Content-Type")
	if _, ok := media.ImageExtension(contentType); !ok {
		head := make([]byte, 512)
		n, _ := src.Read(head)
		contentType = http.DetectContentType(head[:n])
		if _, err := src.Seek(0, io.SeekStart); err != nil {
			httpx.BadRequest(c, err)
			return
		}
	}
	ext, ok := media.ImageExtension(contentType)
	if !ok {
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "Only jpg, png, webp and gif images are accepted"})
		return
	}

	key := storage.NewKey("images", ext)
	n, err := h.blob.Save(key, src, media.MaxImageBytes)
	if err != nil {
		h.saveFailed(c, err)
		return
	}

	img := media.Image{
		OriginalPath: h.blob.URL(key),
		AltText:      c.PostForm("alt_text"),
		Source:       media.SourceUpload,
		ContentType:  contentType,
		SizeBytes:    n,
	}
	if err := h.store.CreateImage(c.Request.Context(), &img); err != nil {
		_ = h.blob.Delete(key)
		httpx.Fail(c, err, "Image")
		return
	}
	c.JSON(http.StatusCreated, img)
}
