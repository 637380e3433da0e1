package events

import (
	"time"

	"calligraphy-cms/internal/domain/events"
	"calligraphy-cms/internal/domain/media"
)

// ---------- requests

type EventRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	StartAt     time.Time  `json:"start_at" binding:"required"`
	EndAt       *time.Time `json:"end_at"`

	Location  string   `json:"location"`
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Organizer string   `json:"organizer"`

	RegistrationFee      int64      `json:"registration_fee"`
	Capacity             int        `json:"capacity"`
	RegistrationDeadline *time.Time `json:"registration_deadline"`
	RegistrationOpen     *bool      `json:"registration_open"`

	Published bool    `json:"published"`
	Featured  bool    `json:"featured"`
	ImageID   *string `json:"image_id"`
}

func (r EventRequest) apply(e *events.Event) {
	e.Title = r.Title
	e.Description = r.Description
	e.Category = r.Category
	if e.Category == "" {
		e.Category = events.CategoryOther
	}
	e.StartAt = r.StartAt
	e.EndAt = r.EndAt
	e.Location = r.Location
	e.Address = r.Address
	e.Latitude = r.Latitude
	e.Longitude = r.Longitude
	e.Organizer = r.Organizer
	e.RegistrationFee = r.RegistrationFee
	e.Capacity = r.Capacity
	e.RegistrationDeadline = r.RegistrationDeadline
	if r.RegistrationOpen != nil {
		e.RegistrationOpen = *r.RegistrationOpen
	}
	e.Published = r.Published
	e.Featured = r.Featured
	e.ImageID = r.ImageID
}

type ExhibitionRequest struct {
	Title       string     `json:"title" binding:"required"`
	Subtitle    string     `json:"subtitle"`
	Description string     `json:"description"`
	StartAt     time.Time  `json:"start_at" binding:"required"`
	EndAt       *time.Time `json:"end_at"`

	Venue     string   `json:"venue"`
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Curator   string   `json:"curator"`
	Organizer string   `json:"organizer"`

	AdmissionFee int64 `json:"admission_fee"`

	Published bool    `json:"published"`
	Featured  bool    `json:"featured"`
	ImageID   *string `json:"image_id"`

	// nil keeps the current links, [] clears them
	ArtistIDs  []string `json:"artist_ids"`
	ArtworkIDs []string `json:"artwork_ids"`
}

func (r ExhibitionRequest) apply(x *events.Exhibition) {
	x.Title = r.Title
	x.Subtitle = r.Subtitle
	x.Description = r.Description
	x.StartAt = r.StartAt
	x.EndAt = r.EndAt
	x.Venue = r.Venue
	x.Address = r.Address
	x.Latitude = r.Latitude
	x.Longitude = r.Longitude
	x.Curator = r.Curator
	x.Organizer = r.Organizer
	x.AdmissionFee = r.AdmissionFee
	x.Published = r.Published
	x.Featured = r.Featured
	x.ImageID = r.ImageID
}

type RegisterRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
	Email string `json:"email"`
	Note  string `json:"note"`
}

// ---------- responses

type EventDTO struct {
	events.Event
	Image     *media.ImageRef `json:"image,omitempty"`
	Status    string          `json:"status"`
	SpotsLeft int             `json:"spots_left"` // -1 when unlimited
	CanApply  bool            `json:"can_register"`
}

func toEventDTO(e events.Event, now time.Time) EventDTO {
	return EventDTO{
		Event:     e,
		Image:     e.Image.Ref(),
		Status:    e.Status(now),
		SpotsLeft: e.SpotsLeft(),
		CanApply:  e.CanRegister(now) == nil,
	}
}

type RefDTO struct {
	ID    string          `json:"id"`
	Slug  string          `json:"slug,omitempty"`
	Name  string          `json:"name"`
	Image *media.ImageRef `json:"image,omitempty"`
}

type ExhibitionDTO struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Subtitle    string     `json:"subtitle,omitempty"`
	Description string     `json:"description,omitempty"`
	StartAt     time.Time  `json:"start_at"`
	EndAt       *time.Time `json:"end_at,omitempty"`
	Status      string     `json:"status"`

	Venue     string   `json:"venue,omitempty"`
	Address   string   `json:"address,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Curator   string   `json:"curator,omitempty"`
	Organizer string   `json:"organizer,omitempty"`

	AdmissionFee int64           `json:"admission_fee"`
	Published    bool            `json:"published"`
	Featured     bool            `json:"featured"`
	Image        *media.ImageRef `json:"image,omitempty"`

	Artists  []RefDTO `json:"artists"`
	Artworks []RefDTO `json:"artworks"`

	CreatedAt time.Time `json:"created_at"`
}

func toExhibitionDTO(x events.Exhibition, lang string, now time.Time) ExhibitionDTO {
	out := ExhibitionDTO{
		ID:           x.ID,
		Title:        x.Title,
		Subtitle:     x.Subtitle,
		Description:  x.Description,
		StartAt:      x.StartAt,
		EndAt:        x.EndAt,
		Status:       x.Status(now),
		Venue:        x.Venue,
		Address:      x.Address,
		Latitude:     x.Latitude,
		Longitude:    x.Longitude,
		Curator:      x.Curator,
		Organizer:    x.Organizer,
		AdmissionFee: x.AdmissionFee,
		Published:    x.Published,
		Featured:     x.Featured,
		Image:        x.Image.Ref(),
		Artists:      make([]RefDTO, 0, len(x.Artists)),
		Artworks:     make([]RefDTO, 0, len(x.Artworks)),
		CreatedAt:    x.CreatedAt,
	}
	for _, a := range x.Artists {
		out.Artists = append(out.Artists, RefDTO{ID: a.ID, Slug: a.Slug, Name: a.Name(lang), Image: a.Image.Ref()})
	}
	for _, w := range x.Artworks {
		out.Artworks = append(out.Artworks, RefDTO{ID: w.ID, Name: w.Title(lang), Image: w.Cover().Ref()})
	}
	return out
}
