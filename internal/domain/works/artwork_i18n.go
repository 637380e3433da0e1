package works

import "time"

type ArtworkI18n struct {
	ArtworkID   string `gorm:"type:uuid;primaryKey" json:"-"`
	Lang        string `gorm:"primaryKey" json:"lang"`
	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a Artwork) Translation(lang string) ArtworkI18n {
	for _, t := range a.I18n {
		if t.Lang == lang {
			return t
		}
	}
	if len(a.I18n) > 0 {
		return a.I18n[0]
	}
	return ArtworkI18n{}
}

func (a Artwork) Title(lang string) string {
	return a.Translation(lang).Title
}

// SearchText feeds the gallery free-text search: titles, descriptions, tags
// and the artist names when the artist is loaded.
func (a Artwork) SearchText() []string {
	out := make([]string, 0, len(a.I18n)*2+len(a.Tags)+2)
	for _, t := range a.I18n {
		out = append(out, t.Title, t.Description)
	}
	out = append(out, a.Tags...)
	if a.Artist != nil {
		for _, t := range a.Artist.I18n {
			out = append(out, t.Name)
		}
	}
	return out
}
