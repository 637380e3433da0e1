package artists

import (
	"time"

	"calligraphy-cms/internal/domain/media"

	"github.com/lib/pq"
)

const (
	MembershipAssociate  = "associate"
	MembershipFullMember = "full_member"
	MembershipHonorary   = "honorary"

	TypeGeneral     = "general"
	TypeRecommended = "recommended"
	TypeInvited     = "invited"
	TypeJudge       = "judge"
)

type Artist struct {
	ID   string `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Slug string `gorm:"not null;uniqueIndex" json:"slug"`

	BirthYear   *int           `json:"birth_year,omitempty"`
	Nationality string         `json:"nationality,omitempty"`
	Specialties pq.StringArray `gorm:"type:text[]" json:"specialties"`
	Awards      pq.StringArray `gorm:"type:text[]" json:"awards"`
	Exhibitions pq.StringArray `gorm:"type:text[]" json:"exhibitions"`

	MembershipType string  `gorm:"type:varchar(20);not null;default:'associate'" json:"membership_type"`
	ArtistType     string  `gorm:"type:varchar(20);not null;default:'general';index" json:"artist_type"`
	TierLevel      int     `gorm:"not null;default:0" json:"tier_level"`
	Title          *string `json:"title,omitempty"`

	ImageID *string      `gorm:"type:uuid" json:"image_id,omitempty"`
	Image   *media.Image `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"image,omitempty"`

	Featured  bool `gorm:"not null;default:false;index" json:"featured"`
	Published bool `gorm:"not null;default:true;index" json:"published"`

	I18n []ArtistI18n `gorm:"constraint:OnDelete:CASCADE;" json:"i18n,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ArtistI18n struct {
	ArtistID string `gorm:"type:uuid;primaryKey" json:"-"`
	Lang     string `gorm:"primaryKey" json:"lang"`
	Name     string `gorm:"not null" json:"name"`
	Bio      string `json:"bio,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Translation returns the i18n row for lang, falling back to the first row.
func (a Artist) Translation(lang string) ArtistI18n {
	for _, t := range a.I18n {
		if t.Lang == lang {
			return t
		}
	}
	if len(a.I18n) > 0 {
		return a.I18n[0]
	}
	return ArtistI18n{}
}

func (a Artist) Name(lang string) string {
	return a.Translation(lang).Name
}

// SearchText is every translated name and bio, for free-text filtering.
func (a Artist) SearchText() []string {
	out := make([]string, 0, len(a.I18n)*2+len(a.Specialties))
	for _, t := range a.I18n {
		out = append(out, t.Name, t.Bio)
	}
	out = append(out, a.Specialties...)
	return out
}
