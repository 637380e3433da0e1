package events

import (
	"strings"
)

func ValidateEvent(e Event) []string {
	var errs []string
	if strings.TrimSpace(e.Title) == "" {
		errs = append(errs, "Event title is required")
	}
	if e.StartAt.IsZero() {
		errs = append(errs, "Start date is required")
	}
	if e.EndAt != nil && !e.StartAt.IsZero() && e.EndAt.Before(e.StartAt) {
		errs = append(errs, "End date must be after the start date")
	}
	if e.Capacity < 0 {
		errs = append(errs, "Capacity cannot be negative")
	}
	if e.RegistrationFee < 0 {
		errs = append(errs, "Registration fee cannot be negative")
	}
	if e.RegistrationDeadline != nil && e.EndAt != nil && e.RegistrationDeadline.After(*e.EndAt) {
		errs = append(errs, "Registration deadline must be before the event ends")
	}
	if e.Category != "" && !contains(Categories, e.Category) {
		errs = append(errs, "Category must be one of "+strings.Join(Categories, ", "))
	}
	return errs
}

func ValidateExhibition(x Exhibition) []string {
	var errs []string
	if strings.TrimSpace(x.Title) == "" {
		errs = append(errs, "Exhibition title is required")
	}
	if x.StartAt.IsZero() {
		errs = append(errs, "Start date is required")
	}
	if x.EndAt != nil && !x.StartAt.IsZero() && x.EndAt.Before(x.StartAt) {
		errs = append(errs, "End date must be after the start date")
	}
	if x.AdmissionFee < 0 {
		errs = append(errs, "Admission fee cannot be negative")
	}
	return errs
}

// ValidateRegistration checks the visitor-supplied part of a registration.
func ValidateRegistration(r EventRegistration) []string {
	var errs []string
	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, "Name is required")
	}
	if strings.TrimSpace(r.Phone) == "" && strings.TrimSpace(r.Email) == "" {
		errs = append(errs, "A phone number or an email is required")
	}
	return errs
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
