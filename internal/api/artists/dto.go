package artists

import (
	"sort"
	"time"

	"calligraphy-cms/internal/domain/artists"
	"calligraphy-cms/internal/domain/media"
)

// ---------- requests

type ArtistI18nInput struct {
	Name string `json:"name"`
	Bio  string `json:"bio"`
}

type ArtistRequest struct {
	I18n map[string]ArtistI18nInput `json:"i18n" binding:"required"` // { "ko": {...}, "en": {...} }

	BirthYear   *int     `json:"birth_year"`
	Nationality string   `json:"nationality"`
	Specialties []string `json:"specialties"`
	Awards      []string `json:"awards"`
	Exhibitions []string `json:"exhibitions"`

	MembershipType string  `json:"membership_type"`
	ArtistType     string  `json:"artist_type"`
	TierLevel      int     `json:"tier_level"`
	Title          *string `json:"title"`

	ImageID   *string `json:"image_id"`
	Featured  bool    `json:"featured"`
	Published *bool   `json:"published"`
}

// apply copies the request onto a, keeping server-owned fields.
func (r ArtistRequest) apply(a *artists.Artist) {
	a.I18n = a.I18n[:0]
	for _, lang := range sortedKeys(r.I18n) {
		v := r.I18n[lang]
		a.I18n = append(a.I18n, artists.ArtistI18n{Lang: lang, Name: v.Name, Bio: v.Bio})
	}
	a.BirthYear = r.BirthYear
	a.Nationality = r.Nationality
	a.Specialties = r.Specialties
	a.Awards = r.Awards
	a.Exhibitions = r.Exhibitions

	a.MembershipType = r.MembershipType
	if a.MembershipType == "" {
		a.MembershipType = artists.MembershipAssociate
	}
	a.ArtistType = r.ArtistType
	if a.ArtistType == "" {
		a.ArtistType = artists.TypeGeneral
	}
	a.TierLevel = r.TierLevel
	a.Title = r.Title
	a.ImageID = r.ImageID
	a.Featured = r.Featured
	if r.Published != nil {
		a.Published = *r.Published
	}
}

// ---------- responses

type ArtistDTO struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
	Bio  string `json:"bio,omitempty"`

	I18n map[string]map[string]string `json:"i18n"`

	BirthYear   *int     `json:"birth_year,omitempty"`
	Nationality string   `json:"nationality,omitempty"`
	Specialties []string `json:"specialties"`
	Awards      []string `json:"awards"`
	Exhibitions []string `json:"exhibitions"`

	MembershipType string  `json:"membership_type"`
	ArtistType     string  `json:"artist_type"`
	TierLevel      int     `json:"tier_level"`
	Title          *string `json:"title,omitempty"`

	Image     *media.ImageRef `json:"image,omitempty"`
	Featured  bool            `json:"featured"`
	Published bool            `json:"published"`
	CreatedAt time.Time       `json:"created_at"`
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func toArtistDTO(a artists.Artist, lang string) ArtistDTO {
	i18n := map[string]map[string]string{}
	for _, t := range a.I18n {
		i18n[t.Lang] = map[string]string{"name": t.Name, "bio": t.Bio}
	}
	tr := a.Translation(lang)

	return ArtistDTO{
		ID:             a.ID,
		Slug:           a.Slug,
		Name:           tr.Name,
		Bio:            tr.Bio,
		I18n:           i18n,
		BirthYear:      a.BirthYear,
		Nationality:    a.Nationality,
		Specialties:    nonNil(a.Specialties),
		Awards:         nonNil(a.Awards),
		Exhibitions:    nonNil(a.Exhibitions),
		MembershipType: a.MembershipType,
		ArtistType:     a.ArtistType,
		TierLevel:      a.TierLevel,
		Title:          a.Title,
		Image:          a.Image.Ref(),
		Featured:       a.Featured,
		Published:      a.Published,
		CreatedAt:      a.CreatedAt,
	}
}
