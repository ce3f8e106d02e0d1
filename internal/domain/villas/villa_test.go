package villas

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationLine(t *testing.T) {
	assert.Equal(t, "99/1 Moo 3", Location{Address: " 99/1 Moo 3 ", Province: "Phuket"}.Line())
	assert.Equal(t, "Kamala, Kathu, Phuket", Location{SubDistrict: "Kamala", District: "Kathu", Province: "Phuket"}.Line())
	assert.Equal(t, "Phuket", Location{District: " ", Province: "Phuket"}.Line())
	assert.Empty(t, Location{}.Line())
}

func TestTagIDsAndHasTag(t *testing.T) {
	v := &Villa{FacilityTags: []FacilityTag{{ID: "karaoke"}, {ID: ""}, {ID: "pool"}, {ID: "karaoke"}}}
	assert.Equal(t, []string{"karaoke", "pool"}, v.TagIDs())
	assert.True(t, v.HasTag("pool"))
	assert.False(t, v.HasTag("pet_friendly"))

	var missing *Villa
	assert.Nil(t, missing.TagIDs())
	assert.False(t, missing.HasTag("pool"))
}

func TestFacilitiesFlatten(t *testing.T) {
	f := Facilities{
		Popular:    []string{"Wifi"},
		Categories: []FacilityCategory{{Name: "Kitchen", Items: []string{"Oven", "Wifi"}}, {Name: "Bath"}},
	}
	assert.Equal(t, []string{"Wifi", "Oven", "Wifi"}, f.Flatten())
	assert.Equal(t, 2, f.CategoryItemCount())
}

func TestFacilitiesUnmarshalShapes(t *testing.T) {
	var flat Facilities
	require.NoError(t, json.Unmarshal([]byte(`["Free WiFi","คาราโอเกะ"]`), &flat))
	assert.Equal(t, Facilities{Popular: []string{"Free WiFi", "คาราโอเกะ"}}, flat)

	var nested Facilities
	require.NoError(t, json.Unmarshal([]byte(`{"popular":["Pool"],"categories":[{"name":"ห้องครัว","items":["ตู้เย็น"]}]}`), &nested))
	assert.Equal(t, []string{"Pool", "ตู้เย็น"}, nested.Flatten())

	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &flat))
}

func TestPrimaryImage(t *testing.T) {
	assert.Equal(t, "cover.jpg", (&Villa{CoverImage: "cover.jpg", Images: []string{"a.jpg"}}).PrimaryImage())
	assert.Equal(t, "a.jpg", (&Villa{Images: []string{"a.jpg"}}).PrimaryImage())
	assert.Empty(t, (&Villa{}).PrimaryImage())
}

func TestValidate(t *testing.T) {
	ok := &Villa{Slug: "v", Title: "V"}
	assert.NoError(t, ok.Validate())
	assert.ErrorIs(t, (&Villa{Title: "V"}).Validate(), ErrSlugRequired)
	assert.ErrorIs(t, (&Villa{Slug: "v"}).Validate(), ErrTitleRequired)
	assert.ErrorIs(t, (&Villa{Slug: "v", Title: "V", PriceDaily: -1}).Validate(), ErrNegativePrice)
	assert.ErrorIs(t, (&Villa{Slug: "v", Title: "V", Bedrooms: -2}).Validate(), ErrNegativeCount)
}

func TestSearchParamsMatchAndOrder(t *testing.T) {
	p := SearchParams{Province: "Phuket", PriceMax: 5000, GuestsMin: 6, Sort: SortByNewest, Descending: true}.Normalized()
	assert.Equal(t, 10, p.Limit)

	base := Villa{Active: true, Location: Location{Province: "Phuket"}, PriceDaily: 4000, MaxGuests: 8}
	assert.True(t, p.Matches(&base))
	pricey := base
	pricey.PriceDaily = 6000
	assert.False(t, p.Matches(&pricey))
	inactive := base
	inactive.Active = false
	assert.False(t, p.Matches(&inactive))

	older := base
	older.CreatedAt = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := base
	newer.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.True(t, p.Less(&newer, &older))
	assert.False(t, p.Less(&older, &newer))
	assert.False(t, p.Less(&older, &older))
}
