package artists

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func named(name string) Artist {
	return Artist{
		MembershipType: MembershipAssociate,
		ArtistType:     TypeGeneral,
		I18n:           []ArtistI18n{{Lang: "ko", Name: name}},
	}
}

func TestValidate_TitleRule(t *testing.T) {
	title := "초대작가"

	cases := []struct {
		membership string
		artistType string
		ok         bool
	}{
		{MembershipFullMember, TypeRecommended, true},
		{MembershipFullMember, TypeInvited, true},
		{MembershipFullMember, TypeGeneral, false},
		{MembershipFullMember, TypeJudge, false},
		{MembershipAssociate, TypeInvited, false},
		{MembershipHonorary, TypeRecommended, false},
	}
	for _, c := range cases {
		a := named("김정희")
		a.MembershipType = c.membership
		a.ArtistType = c.artistType
		a.Title = &title

		errs := Validate(a, now)
		if c.ok {
			assert.Empty(t, errs, "%s/%s", c.membership, c.artistType)
		} else {
			assert.Len(t, errs, 1, "%s/%s", c.membership, c.artistType)
		}
	}
}

func TestValidate_EmptyTitleIgnored(t *testing.T) {
	blank := "  "
	a := named("김정희")
	a.Title = &blank
	assert.Empty(t, Validate(a, now))
}

func TestValidate_Fields(t *testing.T) {
	year := 1850
	a := Artist{BirthYear: &year, TierLevel: 7, MembershipType: "vip", ArtistType: "master"}
	errs := Validate(a, now)
	assert.Len(t, errs, 5)

	future := 2026
	a = named("x")
	a.BirthYear = &future
	assert.Len(t, Validate(a, now), 1)
}

func TestTranslationFallback(t *testing.T) {
	a := Artist{I18n: []ArtistI18n{{Lang: "ko", Name: "추사"}, {Lang: "en", Name: "Chusa"}}}
	assert.Equal(t, "Chusa", a.Name("en"))
	assert.Equal(t, "추사", a.Name("ja"))
	assert.Equal(t, "", Artist{}.Name("ko"))
}

func TestMakeSlug(t *testing.T) {
	assert.Equal(t, "kim-jeong-hui", MakeSlug("  Kim Jeong-hui! "))
	assert.Equal(t, "김-정희", MakeSlug("김 정희"))
	assert.Equal(t, "artist", MakeSlug("!!!"))

	a := Artist{I18n: []ArtistI18n{{Lang: "ko", Name: "추사"}, {Lang: "en", Name: "Chusa Kim"}}}
	s := NewSlug(a)
	assert.True(t, strings.HasPrefix(s, "chusa-kim-"), s)
	assert.Len(t, s, len("chusa-kim-")+6)
}
