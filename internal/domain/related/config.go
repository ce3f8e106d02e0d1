package related

// Weights are the additive points awarded by the feature scorer.
// The values are product-tuned and subject to business review.
type Weights struct {
	Karaoke      int `yaml:"karaoke"`
	PrivatePool  int `yaml:"private_pool"`
	SameDistrict int `yaml:"same_district"`
	NearPrice    int `yaml:"near_price"`
}

// Config holds the filter bounds and scoring weights for related villas.
type Config struct {
	// GuestSpread is the +/- window around the subject's guest capacity.
	GuestSpread int `yaml:"guest_spread"`
	// MinGuestsFloor clamps the lower guest bound.
	MinGuestsFloor int `yaml:"min_guests_floor"`
	// PriceLowerRatio and PriceUpperRatio bound candidate prices relative to the subject.
	PriceLowerRatio float64 `yaml:"price_lower_ratio"`
	PriceUpperRatio float64 `yaml:"price_upper_ratio"`
	// NearPriceDelta is the exclusive absolute price difference that earns NearPrice.
	NearPriceDelta float64 `yaml:"near_price_delta"`
	// PetTag is a hard requirement on candidates when the subject has it.
	PetTag string `yaml:"pet_tag"`
	// PetTagAliases also mark the subject as pet-friendly.
	PetTagAliases  []string `yaml:"pet_tag_aliases"`
	KaraokeTag     string   `yaml:"karaoke_tag"`
	PrivatePoolTag string   `yaml:"private_pool_tag"`
	Weights        Weights  `yaml:"weights"`
	// Limit is the default number of related villas returned.
	Limit int `yaml:"limit"`
	// PoolSize caps the candidate pool fetched from the content store.
	PoolSize int `yaml:"pool_size"`
}

// DefaultConfig returns the production tuning.
func DefaultConfig() Config {
	return Config{
		GuestSpread:     4,
		MinGuestsFloor:  1,
		PriceLowerRatio: 0.6,
		PriceUpperRatio: 1.4,
		NearPriceDelta:  1000,
		PetTag:          "pet_friendly",
		PetTagAliases:   []string{"pets_allowed"},
		KaraokeTag:      "karaoke",
		PrivatePoolTag:  "private_pool",
		Weights: Weights{
			Karaoke:      5,
			PrivatePool:  3,
			SameDistrict: 10,
			NearPrice:    5,
		},
		Limit:    5,
		PoolSize: 20,
	}
}

// withDefaults fills zero-valued fields from DefaultConfig. Weights are taken
// as a whole so an explicit zero weight survives when any other weight is set.
// An empty but non-nil alias list disables the aliases.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.GuestSpread <= 0 {
		c.GuestSpread = def.GuestSpread
	}
	if c.MinGuestsFloor <= 0 {
		c.MinGuestsFloor = def.MinGuestsFloor
	}
	if c.PriceLowerRatio <= 0 {
		c.PriceLowerRatio = def.PriceLowerRatio
	}
	if c.PriceUpperRatio <= 0 {
		c.PriceUpperRatio = def.PriceUpperRatio
	}
	if c.NearPriceDelta <= 0 {
		c.NearPriceDelta = def.NearPriceDelta
	}
	if c.PetTag == "" {
		c.PetTag = def.PetTag
	}
	if c.PetTagAliases == nil {
		c.PetTagAliases = def.PetTagAliases
	}
	if c.KaraokeTag == "" {
		c.KaraokeTag = def.KaraokeTag
	}
	if c.PrivatePoolTag == "" {
		c.PrivatePoolTag = def.PrivatePoolTag
	}
	if c.Weights == (Weights{}) {
		c.Weights = def.Weights
	}
	if c.Limit <= 0 {
		c.Limit = def.Limit
	}
	if c.PoolSize <= 0 {
		c.PoolSize = def.PoolSize
	}
	return c
}
