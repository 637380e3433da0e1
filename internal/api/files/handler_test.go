package files

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"calligraphy-cms/internal/domain/files"
	"calligraphy-cms/internal/domain/listing"
	"calligraphy-cms/internal/domain/media"
	"calligraphy-cms/internal/infra/storage"
	"calligraphy-cms/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockStore struct {
	Docs      map[string]*files.Document
	Downloads map[string]int
	Images    []media.Image
}

func (m *MockStore) ListVisibleDocuments(ctx context.Context, includePrivate bool) ([]files.Document, error) {
	var out []files.Document
	for _, d := range m.Docs {
		if d.IsPublic || includePrivate {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (m *MockStore) ListDocuments(ctx context.Context, q listing.Query) (listing.Page[files.Document], error) {
	return listing.Page[files.Document]{}, nil
}

func (m *MockStore) GetDocument(ctx context.Context, id string) (*files.Document, error) {
	if d, ok := m.Docs[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, store.ErrNotFound
}

func (m *MockStore) CreateDocument(ctx context.Context, d *files.Document) error {
	d.ID = "d-new"
	m.Docs[d.ID] = d
	return nil
}

func (m *MockStore) UpdateDocumentMeta(ctx context.Context, d *files.Document) error {
	m.Docs[d.ID] = d
	return nil
}

func (m *MockStore) DeleteDocument(ctx context.Context, id string) error {
	delete(m.Docs, id)
	return nil
}

func (m *MockStore) IncrementDownloads(ctx context.Context, id string) error {
	m.Downloads[id]++
	return nil
}

func (m *MockStore) CreateImage(ctx context.Context, img *media.Image) error {
	img.ID = "img-new"
	m.Images = append(m.Images, *img)
	return nil
}

// memBlob keeps blobs in memory.
type memBlob struct{ data map[string][]byte }

func (b *memBlob) Save(key string, r io.Reader, maxBytes int64) (int64, error) {
	body, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return 0, err
	}
	if int64(len(body)) > maxBytes {
		return 0, storage.ErrTooLarge
	}
	b.data[key] = body
	return int64(len(body)), nil
}

func (b *memBlob) Open(key string) (io.ReadCloser, error) {
	body, ok := b.data[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(body)), nil
}

func (b *memBlob) Delete(key string) error { delete(b.data, key); return nil }
func (b *memBlob) URL(key string) string   { return "http://cdn.test/uploads/" + key }

func setup(admin bool) (*gin.Engine, *MockStore, *memBlob) {
	gin.SetMode(gin.TestMode)
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m := &MockStore{
		Docs: map[string]*files.Document{
			"pub":  {ID: "pub", Title: "회칙", Category: files.CategoryRegulation, Format: "pdf", StorageKey: "documents/pub.pdf", OriginalName: "회칙.pdf", SizeBytes: 3, IsPublic: true, CreatedAt: t0},
			"priv": {ID: "priv", Title: "이사회 회의록", Category: files.CategoryArchive, Format: "hwp", StorageKey: "documents/priv.hwp", OriginalName: "minutes.hwp", SizeBytes: 3, CreatedAt: t0},
		},
		Downloads: map[string]int{},
	}
	blob := &memBlob{data: map[string][]byte{"documents/pub.pdf": []byte("pdf"), "documents/priv.hwp": []byte("hwp")}}
	h := NewHandler(m, blob, "ko")

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if admin {
			c.Set("user_id", uint(1))
			c.Set("role", "admin")
		}
		c.Next()
	})
	r.GET("/documents", h.List)
	r.GET("/documents/:id/download", h.Download)
	r.POST("/admin/documents", h.Upload)
	r.PUT("/admin/documents/:id", h.UpdateMeta)
	r.DELETE("/admin/documents/:id", h.Delete)
	r.POST("/admin/images", h.UploadImage)
	return r, m, blob
}

func TestList_HidesPrivateFromVisitors(t *testing.T) {
	r, _, _ := setup(false)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/documents", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var page listing.Page[files.Document]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Data, 1)
	assert.Equal(t, "pub", page.Data[0].ID)

	r, _, _ = setup(true)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Len(t, page.Data, 2)
}

func TestDownload(t *testing.T) {
	r, m, _ := setup(false)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/documents/pub/download", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pdf", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), "filename*=UTF-8''%ED%9A%8C%EC%B9%99.pdf")
	assert.Equal(t, 1, m.Downloads["pub"])

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/documents/priv/download", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Zero(t, m.Downloads["priv"])

	r, m, _ = setup(true)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, m.Downloads["priv"])
}

func multipartBody(t *testing.T, fields map[string]string, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func TestUpload_Document(t *testing.T) {
	r, m, blob := setup(true)

	body, ct := multipartBody(t, map[string]string{"category": "form", "is_public": "false"}, "가입신청서.HWP", "application/x-hwp", []byte("hwp-bytes"))
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/admin/documents", body)
	req.Header.Set("Content-Type", ct)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	d := m.Docs["d-new"]
	require.NotNil(t, d)
	assert.Equal(t, "hwp", d.Format)
	assert.Equal(t, "가입신청서", d.Title)
	assert.False(t, d.IsPublic)
	assert.EqualValues(t, 9, d.SizeBytes)
	assert.True(t, strings.HasPrefix(d.StorageKey, "documents/"))
	assert.Equal(t, []byte("hwp-bytes"), blob.data[d.StorageKey])
}

func TestUpload_BadCategory(t *testing.T) {
	r, _, blob := setup(true)

	body, ct := multipartBody(t, map[string]string{"title": "x", "category": "memes"}, "a.pdf", "application/pdf", []byte("x"))
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/admin/documents", body)
	req.Header.Set("Content-Type", ct)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Len(t, blob.data, 2)
}

func TestUploadImage(t *testing.T) {
	r, m, _ := setup(true)

	png := []byte("\x89PNG\r\n\x1a\n0000")
	body, ct := multipartBody(t, map[string]string{"alt_text": "난초"}, "orchid", "application/octet-stream", png)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/admin/images", body)
	req.Header.Set("Content-Type", ct)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.Len(t, m.Images, 1)
	assert.Equal(t, "image/png", m.Images[0].ContentType)
	assert.True(t, strings.HasSuffix(m.Images[0].OriginalPath, ".png"))

	body, ct = multipartBody(t, nil, "notes.txt", "text/plain", []byte("hello"))
	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodPost, "/admin/images", body)
	req.Header.Set("Content-Type", ct)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestUpdateMetaAndDelete(t *testing.T) {
	r, m, blob := setup(true)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPut, "/admin/documents/priv", strings.NewReader(`{"title":"회의록","is_public":true}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, m.Docs["priv"].IsPublic)
	assert.Equal(t, files.CategoryArchive, m.Docs["priv"].Category)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodDelete, "/admin/documents/pub", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, m.Docs, "pub")
	assert.NotContains(t, blob.data, "documents/pub.pdf")
}
