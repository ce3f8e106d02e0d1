package dto

import (
	"villafinder/internal/domain/display"
	"villafinder/internal/domain/villas"
)

// VillaLocation is the public location snapshot of a villa.
type VillaLocation struct {
	Province    string   `json:"province"`
	District    string   `json:"district"`
	SubDistrict string   `json:"sub_district,omitempty"`
	Address     string   `json:"address"`
	Lat         *float64 `json:"lat,omitempty"`
	Lon         *float64 `json:"lon,omitempty"`
}

// MapPin is the map embed target; it falls back to a default coordinate.
type MapPin struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Exact   bool    `json:"exact"`
	MapsURL string  `json:"maps_url"`
}

// VillaCard is the compact villa shape used in lists and sliders.
type VillaCard struct {
	ID             string               `json:"id"`
	Slug           string               `json:"slug"`
	Title          string               `json:"title"`
	Image          string               `json:"image,omitempty"`
	Province       string               `json:"province"`
	District       string               `json:"district"`
	PriceDaily     float64              `json:"price_daily"`
	PricePerPerson int64                `json:"price_per_person"`
	MaxGuests      int                  `json:"max_guests"`
	Bedrooms       int                  `json:"bedrooms"`
	ShowBedrooms   bool                 `json:"show_bedrooms"`
	Rating         float64              `json:"rating,omitempty"`
	ReviewCount    int                  `json:"review_count,omitempty"`
	Tags           []villas.FacilityTag `json:"tags"`
}

// RelatedVilla is a card with its similarity score.
type RelatedVilla struct {
	VillaCard
	Score int `json:"score"`
}

// RelatedSection is the "other villas" slider of a villa page.
type RelatedSection struct {
	Title  string         `json:"title"`
	Villas []RelatedVilla `json:"villas"`
}

// VillaPage is the full payload of a villa detail page.
type VillaPage struct {
	ID             string                  `json:"id"`
	Slug           string                  `json:"slug"`
	Title          string                  `json:"title"`
	Location       VillaLocation           `json:"location"`
	AddressLine    string                  `json:"address_line"`
	PriceDaily     float64                 `json:"price_daily"`
	PricePerPerson int64                   `json:"price_per_person"`
	MaxGuests      int                     `json:"max_guests"`
	Bedrooms       int                     `json:"bedrooms"`
	Bathrooms      int                     `json:"bathrooms"`
	ShowBedrooms   bool                    `json:"show_bedrooms"`
	Rating         float64                 `json:"rating,omitempty"`
	ReviewCount    int                     `json:"review_count,omitempty"`
	Tags           []villas.FacilityTag    `json:"tags"`
	Description    string                  `json:"description"`
	Images         []string                `json:"images"`
	CoverImage     string                  `json:"cover_image,omitempty"`
	BookingURL     string                  `json:"booking_url,omitempty"`
	Facilities     display.FacilitySummary `json:"facilities"`
	Nearby         display.NearbyGroups    `json:"nearby"`
	Map            MapPin                  `json:"map"`
	HouseRules     display.HouseRules      `json:"house_rules"`
	FAQ            []display.FAQ           `json:"faq"`
	Related        RelatedSection          `json:"related"`
	SEO            SEO                     `json:"seo"`
	JSONLD         map[string]any          `json:"json_ld"`
}

// MapVillaLocation copies the location fields.
func MapVillaLocation(loc villas.Location) VillaLocation {
	return VillaLocation{
		Province:    loc.Province,
		District:    loc.District,
		SubDistrict: loc.SubDistrict,
		Address:     loc.Address,
		Lat:         loc.Lat,
		Lon:         loc.Lon,
	}
}

// MapVillaCard builds a card; tags are passed already sorted and truncated.
func MapVillaCard(v *villas.Villa, image string, tags []villas.FacilityTag, showBedrooms bool) VillaCard {
	if v == nil {
		return VillaCard{}
	}
	if tags == nil {
		tags = []villas.FacilityTag{}
	}
	return VillaCard{
		ID:             string(v.ID),
		Slug:           v.Slug,
		Title:          v.Title,
		Image:          image,
		Province:       v.Location.Province,
		District:       v.Location.District,
		PriceDaily:     v.PriceDaily,
		PricePerPerson: display.PerPerson(v.PriceDaily, v.MaxGuests),
		MaxGuests:      v.MaxGuests,
		Bedrooms:       v.Bedrooms,
		ShowBedrooms:   showBedrooms,
		Rating:         v.Rating,
		ReviewCount:    v.ReviewCount,
		Tags:           tags,
	}
}
