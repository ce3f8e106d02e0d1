package enrich

import "villafinder/internal/domain/villas"

// Enricher normalizes freshly imported villas before they are stored.
type Enricher struct {
	tags *TagExtractor
}

func NewEnricher(tags *TagExtractor) *Enricher {
	if tags == nil {
		tags = NewTagExtractor(nil)
	}
	return &Enricher{tags: tags}
}

// Apply fills facility tags when missing, repairs the guest capacity and
// resolves the district and province in place.
func (e *Enricher) Apply(v *villas.Villa) {
	if v == nil {
		return
	}
	if len(v.FacilityTags) == 0 {
		v.FacilityTags = e.tags.Extract(v.Facilities)
	}
	v.MaxGuests = NormalizeGuests(v.MaxGuests, v.Bedrooms)
	if area, ok := CleanLocation(v.Location.Address, v.Location.District); ok {
		v.Location.District = area.District
		if area.Province != "" {
			v.Location.Province = area.Province
		}
	}
}
