package media

import "time"

const (
	SourceUpload   = "upload"
	SourceUnsplash = "unsplash"
)

type Image struct {
	ID           string  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OriginalPath string  `gorm:"not null" json:"original_path"`
	ThumbPath    *string `json:"thumb_path,omitempty"`
	AltText      string  `json:"alt_text,omitempty"`

	Source      string  `gorm:"type:varchar(20);not null;default:'upload'" json:"source"`
	ContentType string  `json:"content_type,omitempty"`
	SizeBytes   int64   `json:"size_bytes,omitempty"`
	UnsplashID  *string `gorm:"index" json:"unsplash_id,omitempty"`
	Author      string  `json:"author,omitempty"`
	AuthorURL   string  `json:"author_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ImageRef is the compact form embedded in other responses.
type ImageRef struct {
	ID       string `json:"id"`
	Original string `json:"original"`
	Thumb    string `json:"thumb,omitempty"`
	Alt      string `json:"alt,omitempty"`
	Author   string `json:"author,omitempty"`
}

func (img *Image) Ref() *ImageRef {
	if img == nil {
		return nil
	}
	thumb := ""
	if img.ThumbPath != nil {
		thumb = *img.ThumbPath
	}
	return &ImageRef{
		ID:       img.ID,
		Original: img.OriginalPath,
		Thumb:    thumb,
		Alt:      img.AltText,
		Author:   img.Author,
	}
}

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// MaxImageBytes caps uploaded images.
const MaxImageBytes = 10 << 20

// ImageExtension returns the file extension for an accepted content type.
func ImageExtension(contentType string) (string, bool) {
	ext, ok := allowedImageTypes[contentType]
	return ext, ok
}
