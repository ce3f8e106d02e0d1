package display

import "villafinder/internal/domain/villas"

// FacilityItem is a free-text amenity with its icon key.
type FacilityItem struct {
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

// FacilitySummary is the facilities block of a villa page.
type FacilitySummary struct {
	Highlights []FacilityItem             `json:"highlights"`
	Total      int                        `json:"total"`
	ShowAll    bool                       `json:"showAll"`
	Categories []villas.FacilityCategory `json:"categories"`
}

// FacilitySummarizer picks highlight amenities and assigns icons.
type FacilitySummarizer struct {
	limit       int
	icons       []IconRule
	defaultIcon string
}

func NewFacilitySummarizer(cfg Config) *FacilitySummarizer {
	cfg = cfg.WithDefaults()
	return &FacilitySummarizer{
		limit:       cfg.FacilityHighlights,
		icons:       cfg.FacilityIcons,
		defaultIcon: cfg.DefaultFacilityIcon,
	}
}

// Icon returns the icon key for a free-text amenity.
func (s *FacilitySummarizer) Icon(item string) string {
	return iconFor(s.icons, item, s.defaultIcon)
}

// Summarize prefers the popular list and falls back to category items.
func (s *FacilitySummarizer) Summarize(f villas.Facilities) FacilitySummary {
	source := f.Popular
	if len(source) == 0 {
		source = f.Flatten()
	}
	if len(source) > s.limit {
		source = source[:s.limit]
	}
	highlights := make([]FacilityItem, 0, len(source))
	for _, item := range source {
		highlights = append(highlights, FacilityItem{Label: item, Icon: s.Icon(item)})
	}
	total := f.CategoryItemCount()
	categories := f.Categories
	if categories == nil {
		categories = []villas.FacilityCategory{}
	}
	return FacilitySummary{
		Highlights: highlights,
		Total:      total,
		ShowAll:    total > s.limit,
		Categories: categories,
	}
}
