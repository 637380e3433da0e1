package events

import (
	"time"

	"calligraphy-cms/internal/domain/artists"
	"calligraphy-cms/internal/domain/media"
	"calligraphy-cms/internal/domain/works"
)

const (
	StatusUpcoming = "upcoming"
	StatusOngoing  = "ongoing"
	StatusEnded    = "ended"
)

type Exhibition struct {
	ID          string `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Subtitle    string `json:"subtitle,omitempty"`
	Description string `json:"description,omitempty"`

	StartAt time.Time  `gorm:"not null;index" json:"start_at"`
	EndAt   *time.Time `json:"end_at,omitempty"`

	Venue     string   `json:"venue,omitempty"`
	Address   string   `json:"address,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Curator   string   `json:"curator,omitempty"`
	Organizer string   `json:"organizer,omitempty"`

	AdmissionFee int64 `gorm:"not null;default:0" json:"admission_fee"`

	Published bool `gorm:"not null;default:false;index" json:"published"`
	Featured  bool `gorm:"not null;default:false" json:"featured"`

	ImageID *string      `gorm:"type:uuid" json:"image_id,omitempty"`
	Image   *media.Image `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"image,omitempty"`

	Artists  []artists.Artist `gorm:"many2many:exhibition_artists;" json:"artists,omitempty"`
	Artworks []works.Artwork  `gorm:"many2many:exhibition_artworks;" json:"artworks,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Status places the exhibition relative to now. An exhibition without an end
// date runs through the end of its start day.
func (x Exhibition) Status(now time.Time) string {
	if now.Before(x.StartAt) {
		return StatusUpcoming
	}
	end := x.StartAt.Truncate(24 * time.Hour).Add(24*time.Hour - time.Nanosecond)
	if x.EndAt != nil {
		end = *x.EndAt
	}
	if now.After(end) {
		return StatusEnded
	}
	return StatusOngoing
}

func (x Exhibition) SearchText() []string {
	return []string{x.Title, x.Subtitle, x.Description, x.Venue, x.Curator}
}
