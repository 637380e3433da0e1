package events

import (
	"time"

	"calligraphy-cms/internal/domain/media"
)

const (
	CategoryWorkshop    = "workshop"
	CategoryLecture     = "lecture"
	CategoryCompetition = "competition"
	CategoryCeremony    = "ceremony"
	CategoryMeeting     = "meeting"
	CategoryOther       = "other"
)

var Categories = []string{CategoryWorkshop, CategoryLecture, CategoryCompetition, CategoryCeremony, CategoryMeeting, CategoryOther}

type Event struct {
	ID          string `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description,omitempty"`
	Category    string `gorm:"type:varchar(20);not null;default:'other';index" json:"category"`

	StartAt time.Time  `gorm:"not null;index" json:"start_at"`
	EndAt   *time.Time `json:"end_at,omitempty"`

	Location  string   `json:"location,omitempty"`
	Address   string   `json:"address,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Organizer string   `json:"organizer,omitempty"`

	RegistrationFee      int64      `gorm:"not null;default:0" json:"registration_fee"`
	Capacity             int        `gorm:"not null;default:0" json:"capacity"` // 0 = unlimited
	RegisteredCount      int        `gorm:"not null;default:0" json:"registered_count"`
	RegistrationDeadline *time.Time `json:"registration_deadline,omitempty"`
	RegistrationOpen     bool       `gorm:"not null;default:true" json:"registration_open"`

	Published bool `gorm:"not null;default:false;index" json:"published"`
	Featured  bool `gorm:"not null;default:false" json:"featured"`

	ImageID *string      `gorm:"type:uuid" json:"image_id,omitempty"`
	Image   *media.Image `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"image,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type EventRegistration struct {
	ID      string `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EventID string `gorm:"type:uuid;not null;index" json:"event_id"`
	UserID  *uint  `gorm:"index" json:"user_id,omitempty"`
	Name    string `gorm:"not null" json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Note    string `json:"note,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Registration outcomes, checked in this order.
var (
	ErrNotPublished       = newRegistrationError("Event is not open to the public")
	ErrRegistrationClosed = newRegistrationError("Registration is closed")
	ErrDeadlinePassed     = newRegistrationError("The registration deadline has passed")
	ErrEventFull          = newRegistrationError("The event is fully booked")
)

type RegistrationError struct{ msg string }

func newRegistrationError(msg string) *RegistrationError { return &RegistrationError{msg: msg} }

func (e *RegistrationError) Error() string { return e.msg }

// CanRegister reports why a new registration would be refused, nil when it
// would be accepted.
func (e Event) CanRegister(now time.Time) error {
	if !e.Published {
		return ErrNotPublished
	}
	if !e.RegistrationOpen {
		return ErrRegistrationClosed
	}
	if e.RegistrationDeadline != nil && now.After(*e.RegistrationDeadline) {
		return ErrDeadlinePassed
	}
	if e.EndAt != nil && now.After(*e.EndAt) {
		return ErrRegistrationClosed
	}
	if e.Capacity > 0 && e.RegisteredCount >= e.Capacity {
		return ErrEventFull
	}
	return nil
}

// ShouldClose is the sweep condition: still open but past its deadline or its end.
func (e Event) ShouldClose(now time.Time) bool {
	if !e.RegistrationOpen {
		return false
	}
	if e.RegistrationDeadline != nil && now.After(*e.RegistrationDeadline) {
		return true
	}
	return e.EndAt != nil && now.After(*e.EndAt)
}

// SpotsLeft is -1 for unlimited events.
func (e Event) SpotsLeft() int {
	if e.Capacity <= 0 {
		return -1
	}
	if left := e.Capacity - e.RegisteredCount; left > 0 {
		return left
	}
	return 0
}

// Status places the event relative to now, like Exhibition.Status.
func (e Event) Status(now time.Time) string {
	if now.Before(e.StartAt) {
		return StatusUpcoming
	}
	if e.EndAt != nil && now.After(*e.EndAt) {
		return StatusEnded
	}
	if e.EndAt == nil && now.Sub(e.StartAt) > 24*time.Hour {
		return StatusEnded
	}
	return StatusOngoing
}

func (e Event) SearchText() []string {
	return []string{e.Title, e.Description, e.Location, e.Organizer}
}
