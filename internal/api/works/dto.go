package works

import (
	"calligraphy-cms/internal/domain/works"
)

// ---------- requests

type ArtworkI18nInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type ArtworkRequest struct {
	ArtistID string `json:"artist_id" binding:"required"`

	Category     string   `json:"category"`
	Style        string   `json:"style"`
	Year         *int     `json:"year"`
	Materials    string   `json:"materials"`
	Dimensions   string   `json:"dimensions"`
	Price        *int64   `json:"price"`
	Currency     string   `json:"currency"`
	Availability string   `json:"availability"`
	Tags         []string `json:"tags"`

	ImageIDs []string `json:"image_ids"` // ordered, first is the cover
	Featured bool     `json:"featured"`

	AwardTitle *string `json:"award_title"`
	AwardRank  *string `json:"award_rank"`
	AwardYear  *int    `json:"award_year"`

	I18n map[string]ArtworkI18nInput `json:"i18n" binding:"required"` // { "ko": {...}, "en": {...} }
}

// apply copies the request onto a. Views, likes and the publication state
// stay with the server.
func (r ArtworkRequest) apply(a *works.Artwork) {
	a.ArtistID = r.ArtistID
	a.Category = r.Category
	if a.Category == "" {
		a.Category = works.CategoryOther
	}
	a.Style = r.Style
	a.Year = r.Year
	a.Materials = r.Materials
	a.Dimensions = r.Dimensions
	a.Price = r.Price
	a.Currency = r.Currency
	if a.Currency == "" {
		a.Currency = "KRW"
	}
	a.Availability = r.Availability
	if a.Availability == "" {
		a.Availability = works.AvailabilityAvailable
	}
	a.Tags = r.Tags
	a.Featured = r.Featured
	a.AwardTitle = r.AwardTitle
	a.AwardRank = r.AwardRank
	a.AwardYear = r.AwardYear

	a.Images = make([]works.ArtworkImage, 0, len(r.ImageIDs))
	for i, id := range r.ImageIDs {
		a.Images = append(a.Images, works.ArtworkImage{ArtworkID: a.ID, ImageID: id, SortIndex: i})
	}

	a.I18n = a.I18n[:0]
	for _, lang := range sortedKeys(r.I18n) {
		v := r.I18n[lang]
		a.I18n = append(a.I18n, works.ArtworkI18n{ArtworkID: a.ID, Lang: lang, Title: v.Title, Description: v.Description})
	}
}
