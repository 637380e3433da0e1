package works

import (
	"testing"
	"time"

	"calligraphy-cms/internal/domain/media"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func valid() Artwork {
	return Artwork{
		ArtistID:     "a1",
		Category:     CategoryHangeul,
		Availability: AvailabilityAvailable,
		I18n:         []ArtworkI18n{{Lang: "ko", Title: "월인천강지곡"}},
	}
}

func TestValidate(t *testing.T) {
	assert.Empty(t, Validate(valid(), now))

	year := 2027
	price := int64(-1)
	a := Artwork{Year: &year, Price: &price, Category: "ink", Availability: "gone"}
	assert.Len(t, Validate(a, now), 6)

	nextYear := 2026
	a = valid()
	a.Year = &nextYear
	assert.Empty(t, Validate(a, now))
}

func TestValidate_AwardYearNeedsTitle(t *testing.T) {
	a := valid()
	y := 2024
	a.AwardYear = &y
	assert.Len(t, Validate(a, now), 1)

	title := "대상"
	a.AwardTitle = &title
	assert.Empty(t, Validate(a, now))
	assert.True(t, a.HasAward())
}

func TestPublishKeepsFirstTimestamp(t *testing.T) {
	a := valid()
	a.Publish(now)
	require.NotNil(t, a.PublishedAt)
	assert.True(t, a.Published)

	a.Unpublish()
	a.Publish(now.Add(time.Hour))
	assert.Equal(t, now, *a.PublishedAt)
	assert.Equal(t, now, a.ListDate())
}

func TestCover(t *testing.T) {
	a := valid()
	assert.Nil(t, a.Cover())

	a.Images = []ArtworkImage{
		{ImageID: "2", SortIndex: 1, Image: &media.Image{ID: "2"}},
		{ImageID: "1", SortIndex: 0, Image: &media.Image{ID: "1"}},
	}
	require.NotNil(t, a.Cover())
	assert.Equal(t, "1", a.Cover().ID)
}
