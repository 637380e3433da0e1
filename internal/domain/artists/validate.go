package artists

import (
	"fmt"
	"strings"
	"time"
)

var (
	membershipTypes = []string{MembershipAssociate, MembershipFullMember, MembershipHonorary}
	artistTypes     = []string{TypeGeneral, TypeRecommended, TypeInvited, TypeJudge}
)

// CanHoldTitle reports whether an artist may carry an honorific title: only
// full members who are recommended or invited artists.
func CanHoldTitle(membershipType, artistType string) bool {
	if membershipType != MembershipFullMember {
		return false
	}
	return artistType == TypeRecommended || artistType == TypeInvited
}

// Validate returns user-facing messages for a, empty when a can be saved.
func Validate(a Artist, now time.Time) []string {
	var errs []string

	hasName := false
	for _, t := range a.I18n {
		if strings.TrimSpace(t.Name) != "" {
			hasName = true
			break
		}
	}
	if !hasName {
		errs = append(errs, "Artist name is required in at least one language")
	}

	if a.BirthYear != nil && (*a.BirthYear < 1900 || *a.BirthYear > now.Year()) {
		errs = append(errs, fmt.Sprintf("Birth year must be between 1900 and %d", now.Year()))
	}
	if a.TierLevel < 0 || a.TierLevel > 6 {
		errs = append(errs, "Tier level must be between 0 and 6")
	}
	if !oneOf(a.MembershipType, membershipTypes) {
		errs = append(errs, "Membership type must be one of "+strings.Join(membershipTypes, ", "))
	}
	if !oneOf(a.ArtistType, artistTypes) {
		errs = append(errs, "Artist type must be one of "+strings.Join(artistTypes, ", "))
	}
	if a.Title != nil && strings.TrimSpace(*a.Title) != "" && !CanHoldTitle(a.MembershipType, a.ArtistType) {
		errs = append(errs, "A title can only be given to full members who are recommended or invited artists")
	}
	return errs
}

func oneOf(v string, set []string) bool {
	for _, s := range set {
		if v == s {
			return true
		}
	}
	return false
}
