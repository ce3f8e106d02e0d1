package display

// Kit bundles the display transforms built from one Config.
type Kit struct {
	Config     Config
	Tags       *TagSorter
	Nearby     *NearbyClassifier
	FAQ        *FAQSynthesizer
	Facilities *FacilitySummarizer
}

func NewKit(cfg Config) *Kit {
	cfg = cfg.WithDefaults()
	return &Kit{
		Config:     cfg,
		Tags:       NewTagSorter(cfg.TagPriority, cfg.TagLimit),
		Nearby:     NewNearbyClassifier(cfg),
		FAQ:        NewFAQSynthesizer(cfg.FAQRules),
		Facilities: NewFacilitySummarizer(cfg),
	}
}

// BedroomsPlausible applies the configured guests-per-bedroom ceiling.
func (k *Kit) BedroomsPlausible(maxGuests, bedrooms int) bool {
	return BedroomsPlausible(maxGuests, bedrooms, k.Config.CrowdedGuestsPerBedroom)
}
