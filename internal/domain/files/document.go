package files

import (
	"path/filepath"
	"strings"
	"time"
)

const (
	CategoryNotice     = "notice"
	CategoryForm       = "form"
	CategoryRegulation = "regulation"
	CategoryArchive    = "archive"
	CategoryNewsletter = "newsletter"
	CategoryOther      = "other"

	FormatOther = "other"

	// MaxDocumentBytes caps a single document upload.
	MaxDocumentBytes = 50 << 20
)

var Categories = []string{CategoryNotice, CategoryForm, CategoryRegulation, CategoryArchive, CategoryNewsletter, CategoryOther}

var knownFormats = map[string]bool{
	"pdf": true, "hwp": true, "doc": true, "docx": true,
	"xls": true, "xlsx": true, "ppt": true, "pptx": true,
	"jpg": true, "png": true, "zip": true,
}

type Document struct {
	ID          string `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description,omitempty"`
	Category    string `gorm:"type:varchar(20);not null;default:'other';index" json:"category"`
	Format      string `gorm:"type:varchar(10);not null;default:'other'" json:"format"`

	SizeBytes    int64  `gorm:"not null;default:0" json:"size_bytes"`
	StorageKey   string `gorm:"not null;uniqueIndex" json:"-"`
	OriginalName string `gorm:"not null" json:"original_name"`
	ContentType  string `json:"content_type,omitempty"`

	IsPublic      bool `gorm:"not null;default:true;index" json:"is_public"`
	DownloadCount int  `gorm:"not null;default:0" json:"download_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FormatOf derives the document format from the file name. "jpeg" counts as jpg.
func FormatOf(filename string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "jpeg" {
		ext = "jpg"
	}
	if knownFormats[ext] {
		return ext
	}
	return FormatOther
}

// CanDownload reports whether a caller may fetch d.
func (d Document) CanDownload(isAdmin bool) bool {
	return d.IsPublic || isAdmin
}

func (d Document) SearchText() []string {
	return []string{d.Title, d.Description, d.OriginalName}
}

func Validate(d Document) []string {
	var errs []string
	if strings.TrimSpace(d.Title) == "" {
		errs = append(errs, "Document title is required")
	}
	valid := false
	for _, c := range Categories {
		if c == d.Category {
			valid = true
			break
		}
	}
	if !valid {
		errs = append(errs, "Category must be one of "+strings.Join(Categories, ", "))
	}
	if d.SizeBytes > MaxDocumentBytes {
		errs = append(errs, "File is larger than 50MB")
	}
	return errs
}
