package works

import (
	"fmt"
	"strings"
	"time"
)

// Validate returns user-facing messages for a, empty when a can be saved.
func Validate(a Artwork, now time.Time) []string {
	var errs []string

	hasTitle := false
	for _, t := range a.I18n {
		if strings.TrimSpace(t.Title) != "" {
			hasTitle = true
			break
		}
	}
	if !hasTitle {
		errs = append(errs, "Artwork title is required")
	}
	if strings.TrimSpace(a.ArtistID) == "" {
		errs = append(errs, "Artist is required")
	}
	if a.Year != nil && (*a.Year < 1900 || *a.Year > now.Year()+1) {
		errs = append(errs, fmt.Sprintf("Year must be between 1900 and %d", now.Year()+1))
	}
	if a.Price != nil && *a.Price < 0 {
		errs = append(errs, "Price cannot be negative")
	}
	if !contains(Categories, a.Category) {
		errs = append(errs, "Category must be one of "+strings.Join(Categories, ", "))
	}
	if !contains(Availabilities, a.Availability) {
		errs = append(errs, "Availability must be one of "+strings.Join(Availabilities, ", "))
	}
	if a.AwardYear != nil && !a.HasAward() {
		errs = append(errs, "Award year requires an award title")
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
