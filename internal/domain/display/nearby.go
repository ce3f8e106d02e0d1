package display

import "villafinder/internal/domain/villas"

// Place is a nearby place prepared for display.
type Place struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Distance string `json:"distance"`
	Icon     string `json:"icon"`
}

// NearbyGroups splits nearby places into landmarks and the rest.
type NearbyGroups struct {
	Highlights []Place `json:"highlights"`
	Others     []Place `json:"others"`
}

// Empty reports whether there is nothing to show.
func (g NearbyGroups) Empty() bool {
	return len(g.Highlights) == 0 && len(g.Others) == 0
}

// NearbyClassifier groups places by category keywords.
type NearbyClassifier struct {
	highlight   []string
	othersLimit int
	sea         []string
	icons       []IconRule
	defaultIcon string
}

func NewNearbyClassifier(cfg Config) *NearbyClassifier {
	cfg = cfg.WithDefaults()
	return &NearbyClassifier{
		highlight:   cfg.HighlightPlaceKeywords,
		othersLimit: cfg.OtherPlacesLimit,
		sea:         cfg.SeaKeywords,
		icons:       cfg.PlaceIcons,
		defaultIcon: cfg.DefaultPlaceIcon,
	}
}

// Classify keeps every highlight and at most the configured number of others,
// both in input order.
func (c *NearbyClassifier) Classify(places []villas.NearbyPlace) NearbyGroups {
	groups := NearbyGroups{Highlights: []Place{}, Others: []Place{}}
	for _, p := range places {
		view := Place{Name: p.Name, Category: p.Category, Distance: p.Distance, Icon: c.Icon(p.Category)}
		if ContainsAny(p.Category, c.highlight) {
			groups.Highlights = append(groups.Highlights, view)
			continue
		}
		if len(groups.Others) < c.othersLimit {
			groups.Others = append(groups.Others, view)
		}
	}
	return groups
}

// Icon returns the icon key for a place category.
func (c *NearbyClassifier) Icon(category string) string {
	return iconFor(c.icons, category, c.defaultIcon)
}

// SeaDistance returns the distance of the first place whose name looks like
// a beach or the sea.
func (c *NearbyClassifier) SeaDistance(places []villas.NearbyPlace) (string, bool) {
	for _, p := range places {
		if ContainsAny(p.Name, c.sea) {
			return p.Distance, true
		}
	}
	return "", false
}
