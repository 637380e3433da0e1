package works

import (
	"sort"
	"time"

	"calligraphy-cms/internal/domain/media"
	"calligraphy-cms/internal/domain/works"
)

type ArtistRefDTO struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

type AwardDTO struct {
	Title string  `json:"title"`
	Rank  *string `json:"rank,omitempty"`
	Year  *int    `json:"year,omitempty"`
}

type ArtworkDTO struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	I18n map[string]map[string]string `json:"i18n"`

	Artist *ArtistRefDTO `json:"artist,omitempty"`

	Category     string   `json:"category"`
	Style        string   `json:"style,omitempty"`
	Year         *int     `json:"year,omitempty"`
	Materials    string   `json:"materials,omitempty"`
	Dimensions   string   `json:"dimensions,omitempty"`
	Price        *int64   `json:"price,omitempty"`
	Currency     string   `json:"currency"`
	Availability string   `json:"availability"`
	Tags         []string `json:"tags"`

	Cover  *media.ImageRef  `json:"cover,omitempty"`
	Images []media.ImageRef `json:"images"`

	Award *AwardDTO `json:"award,omitempty"`

	Views       int        `json:"views"`
	Likes       int        `json:"likes"`
	Featured    bool       `json:"featured"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toArtworkDTO(a works.Artwork, lang string) ArtworkDTO {
	i18n := map[string]map[string]string{}
	for _, t := range a.I18n {
		i18n[t.Lang] = map[string]string{"title": t.Title, "description": t.Description}
	}
	tr := a.Translation(lang)

	images := append([]works.ArtworkImage(nil), a.Images...)
	sort.SliceStable(images, func(i, j int) bool { return images[i].SortIndex < images[j].SortIndex })
	refs := make([]media.ImageRef, 0, len(images))
	for _, im := range images {
		if ref := im.Image.Ref(); ref != nil {
			refs = append(refs, *ref)
		}
	}

	tags := []string(a.Tags)
	if tags == nil {
		tags = []string{}
	}

	out := ArtworkDTO{
		ID:           a.ID,
		Title:        tr.Title,
		Description:  tr.Description,
		I18n:         i18n,
		Category:     a.Category,
		Style:        a.Style,
		Year:         a.Year,
		Materials:    a.Materials,
		Dimensions:   a.Dimensions,
		Price:        a.Price,
		Currency:     a.Currency,
		Availability: a.Availability,
		Tags:         tags,
		Cover:        a.Cover().Ref(),
		Images:       refs,
		Views:        a.Views,
		Likes:        a.Likes,
		Featured:     a.Featured,
		Published:    a.Published,
		PublishedAt:  a.PublishedAt,
		CreatedAt:    a.CreatedAt,
	}
	if a.Artist != nil {
		out.Artist = &ArtistRefDTO{ID: a.Artist.ID, Slug: a.Artist.Slug, Name: a.Artist.Name(lang)}
	}
	if a.HasAward() {
		out.Award = &AwardDTO{Title: *a.AwardTitle, Rank: a.AwardRank, Year: a.AwardYear}
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
