package works

import (
	"time"

	"calligraphy-cms/internal/domain/artists"
	"calligraphy-cms/internal/domain/media"

	"github.com/lib/pq"
)

const (
	CategoryHangeul        = "hangeul"
	CategoryHanja          = "hanja"
	CategoryModern         = "modern"
	CategoryCalligraphyArt = "calligraphy_art"
	CategorySeal           = "seal"
	CategoryOther          = "other"

	AvailabilityAvailable  = "available"
	AvailabilitySold       = "sold"
	AvailabilityReserved   = "reserved"
	AvailabilityNotForSale = "not_for_sale"
)

var (
	Categories     = []string{CategoryHangeul, CategoryHanja, CategoryModern, CategoryCalligraphyArt, CategorySeal, CategoryOther}
	Availabilities = []string{AvailabilityAvailable, AvailabilitySold, AvailabilityReserved, AvailabilityNotForSale}
)

type Artwork struct {
	ID string `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`

	ArtistID string          `gorm:"type:uuid;not null;index" json:"artist_id"`
	Artist   *artists.Artist `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"artist,omitempty"`

	Category     string         `gorm:"type:varchar(32);not null;default:'other';index" json:"category"`
	Style        string         `json:"style,omitempty"`
	Year         *int           `gorm:"index" json:"year,omitempty"`
	Materials    string         `json:"materials,omitempty"`
	Dimensions   string         `json:"dimensions,omitempty"`
	Price        *int64         `json:"price,omitempty"`
	Currency     string         `gorm:"type:varchar(3);not null;default:'KRW'" json:"currency"`
	Availability string         `gorm:"type:varchar(20);not null;default:'available'" json:"availability"`
	Tags         pq.StringArray `gorm:"type:text[]" json:"tags"`

	Images []ArtworkImage `gorm:"constraint:OnDelete:CASCADE;" json:"images,omitempty"`

	Views    int  `gorm:"not null;default:0" json:"views"`
	Likes    int  `gorm:"not null;default:0" json:"likes"`
	Featured bool `gorm:"not null;default:false;index" json:"featured"`

	Published   bool       `gorm:"not null;default:false;index" json:"published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`

	AwardTitle *string `json:"award_title,omitempty"`
	AwardRank  *string `json:"award_rank,omitempty"`
	AwardYear  *int    `gorm:"index" json:"award_year,omitempty"`

	I18n []ArtworkI18n `gorm:"constraint:OnDelete:CASCADE;" json:"i18n,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ArtworkImage orders the images of an artwork; the first one is the cover.
type ArtworkImage struct {
	ArtworkID string       `gorm:"type:uuid;primaryKey" json:"-"`
	ImageID   string       `gorm:"type:uuid;primaryKey" json:"image_id"`
	Image     *media.Image `gorm:"constraint:OnDelete:CASCADE;" json:"image,omitempty"`
	SortIndex int          `gorm:"not null;default:0;index" json:"sort_index"`
}

func (a Artwork) HasAward() bool {
	return a.AwardTitle != nil && *a.AwardTitle != ""
}

// Cover returns the first image by sort index, nil when there is none.
func (a Artwork) Cover() *media.Image {
	var best *ArtworkImage
	for i := range a.Images {
		if best == nil || a.Images[i].SortIndex < best.SortIndex {
			best = &a.Images[i]
		}
	}
	if best == nil {
		return nil
	}
	return best.Image
}

// Publish flips the published flag, stamping the first publication time.
func (a *Artwork) Publish(now time.Time) {
	a.Published = true
	if a.PublishedAt == nil {
		a.PublishedAt = &now
	}
}

func (a *Artwork) Unpublish() {
	a.Published = false
}

// ListDate is the date gallery sorting uses.
func (a Artwork) ListDate() time.Time {
	if a.PublishedAt != nil {
		return *a.PublishedAt
	}
	return a.CreatedAt
}
