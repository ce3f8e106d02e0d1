package display

// Config is the static display tuning. It is loaded once at start-up and
// never mutated afterwards.
type Config struct {
	// TagPriority orders facility tags for display; unknown ids sort last.
	TagPriority []string `yaml:"tag_priority"`
	TagLimit    int      `yaml:"tag_limit"`

	// HighlightPlaceKeywords select landmark places by category.
	HighlightPlaceKeywords []string   `yaml:"highlight_place_keywords"`
	OtherPlacesLimit       int        `yaml:"other_places_limit"`
	SeaKeywords            []string   `yaml:"sea_keywords"`
	PlaceIcons             []IconRule `yaml:"place_icons"`
	DefaultPlaceIcon       string     `yaml:"default_place_icon"`

	FacilityHighlights  int        `yaml:"facility_highlights"`
	FacilityIcons       []IconRule `yaml:"facility_icons"`
	DefaultFacilityIcon string     `yaml:"default_facility_icon"`

	// CrowdedGuestsPerBedroom hides the bedroom count above this ratio.
	CrowdedGuestsPerBedroom float64 `yaml:"crowded_guests_per_bedroom"`

	// FAQRules drive the amenity FAQ, in question order.
	FAQRules []FAQRule `yaml:"faq_rules"`
}

// DefaultConfig returns the production display tuning.
func DefaultConfig() Config {
	return Config{
		TagPriority: []string{
			"karaoke", "slider", "pool_table", "bbq",
			"beachfront", "smoking_area", "pet_friendly", "salt_water_pool",
			"kitchen", "kid_friendly", "accessibility", "wifi",
		},
		TagLimit:               10,
		HighlightPlaceKeywords: []string{"ชายหาด", "beach", "สนามบิน", "airport"},
		OtherPlacesLimit:       5,
		SeaKeywords:            []string{"ทะเล", "หาด", "beach"},
		PlaceIcons: []IconRule{
			{Keywords: []string{"ชายหาด", "beach"}, Icon: "Palmtree"},
			{Keywords: []string{"สนามบิน", "ท่าเรือ", "airport", "pier"}, Icon: "Plane"},
			{Keywords: []string{"ร้านอาหาร", "คาเฟ่", "restaurant", "cafe"}, Icon: "Utensils"},
		},
		DefaultPlaceIcon:   "MapPin",
		FacilityHighlights: 8,
		FacilityIcons: []IconRule{
			{Keywords: []string{"wifi", "เน็ต"}, Icon: "Wifi"},
			{Keywords: []string{"จอดรถ"}, Icon: "Car"},
			{Keywords: []string{"ครัว", "ตู้เย็น"}, Icon: "Utensils"},
			{Keywords: []string{"สระ", "pool"}, Icon: "Waves"},
			{Keywords: []string{"แอร์", "ปรับอากาศ"}, Icon: "Wind"},
			{Keywords: []string{"ทีวี"}, Icon: "Tv"},
			{Keywords: []string{"คาราโอเกะ"}, Icon: "Mic2"},
			{Keywords: []string{"ปิ้งย่าง"}, Icon: "Flame"},
		},
		DefaultFacilityIcon:     "CheckCircle2",
		CrowdedGuestsPerBedroom: 6,
		FAQRules:                DefaultFAQRules(),
	}
}

// WithDefaults fills unset fields from DefaultConfig.
func (c Config) WithDefaults() Config {
	def := DefaultConfig()
	if len(c.TagPriority) == 0 {
		c.TagPriority = def.TagPriority
	}
	if c.TagLimit <= 0 {
		c.TagLimit = def.TagLimit
	}
	if len(c.HighlightPlaceKeywords) == 0 {
		c.HighlightPlaceKeywords = def.HighlightPlaceKeywords
	}
	if c.OtherPlacesLimit <= 0 {
		c.OtherPlacesLimit = def.OtherPlacesLimit
	}
	if len(c.SeaKeywords) == 0 {
		c.SeaKeywords = def.SeaKeywords
	}
	if len(c.PlaceIcons) == 0 {
		c.PlaceIcons = def.PlaceIcons
	}
	if c.DefaultPlaceIcon == "" {
		c.DefaultPlaceIcon = def.DefaultPlaceIcon
	}
	if c.FacilityHighlights <= 0 {
		c.FacilityHighlights = def.FacilityHighlights
	}
	if len(c.FacilityIcons) == 0 {
		c.FacilityIcons = def.FacilityIcons
	}
	if c.DefaultFacilityIcon == "" {
		c.DefaultFacilityIcon = def.DefaultFacilityIcon
	}
	if c.CrowdedGuestsPerBedroom <= 0 {
		c.CrowdedGuestsPerBedroom = def.CrowdedGuestsPerBedroom
	}
	if len(c.FAQRules) == 0 {
		c.FAQRules = def.FAQRules
	}
	return c
}
