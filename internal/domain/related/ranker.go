package related

import (
	"math"
	"sort"

	"villafinder/internal/domain/villas"
)

// Scored pairs a candidate with its similarity score.
type Scored struct {
	Villa *villas.Villa
	Score int
}

// Ranker finds villas similar to a subject villa. It holds only static
// configuration and is safe for concurrent use.
type Ranker struct {
	cfg Config
}

// NewRanker builds a ranker; zero-valued config fields take their defaults.
func NewRanker(cfg Config) *Ranker {
	return &Ranker{cfg: cfg.withDefaults()}
}

// Config returns the effective configuration.
func (r *Ranker) Config() Config {
	return r.cfg
}

// guestBounds returns the inclusive capacity window around the subject.
func (r *Ranker) guestBounds(subject *villas.Villa) (int, int) {
	lo := subject.MaxGuests - r.cfg.GuestSpread
	if lo < r.cfg.MinGuestsFloor {
		lo = r.cfg.MinGuestsFloor
	}
	return lo, subject.MaxGuests + r.cfg.GuestSpread
}

// priceBounds returns the inclusive price window around the subject.
func (r *Ranker) priceBounds(subject *villas.Villa) (float64, float64) {
	return subject.PriceDaily * r.cfg.PriceLowerRatio, subject.PriceDaily * r.cfg.PriceUpperRatio
}

// petFriendly reports whether the subject accepts pets under PetTag or one of
// its aliases. Candidates are always checked against PetTag itself.
func (r *Ranker) petFriendly(subject *villas.Villa) bool {
	if subject.HasTag(r.cfg.PetTag) {
		return true
	}
	for _, alias := range r.cfg.PetTagAliases {
		if subject.HasTag(alias) {
			return true
		}
	}
	return false
}

// CandidateQuery derives the coarse content store query for subject.
func (r *Ranker) CandidateQuery(subject *villas.Villa) villas.CandidateQuery {
	if subject == nil {
		return villas.CandidateQuery{Limit: r.cfg.PoolSize}
	}
	minGuests, maxGuests := r.guestBounds(subject)
	minPrice, maxPrice := r.priceBounds(subject)
	q := villas.CandidateQuery{
		ExcludeID:    subject.ID,
		Province:     subject.Location.Province,
		MinGuests:    minGuests,
		MaxGuests:    maxGuests,
		PriceBounded: true,
		MinPrice:     minPrice,
		MaxPrice:     maxPrice,
		Limit:        r.cfg.PoolSize,
	}
	if r.petFriendly(subject) {
		q.RequiredTag = r.cfg.PetTag
	}
	return q
}

// Filter keeps the candidates that are plausible alternatives to subject.
// The input order is preserved and the pool is not modified.
func (r *Ranker) Filter(subject *villas.Villa, pool []*villas.Villa) []*villas.Villa {
	if subject == nil || len(pool) == 0 {
		return nil
	}
	minGuests, maxGuests := r.guestBounds(subject)
	minPrice, maxPrice := r.priceBounds(subject)
	requirePet := r.petFriendly(subject)

	out := make([]*villas.Villa, 0, len(pool))
	for _, candidate := range pool {
		if candidate == nil || candidate.ID == subject.ID {
			continue
		}
		if candidate.Location.Province != subject.Location.Province {
			continue
		}
		if candidate.MaxGuests < minGuests || candidate.MaxGuests > maxGuests {
			continue
		}
		if candidate.PriceDaily < minPrice || candidate.PriceDaily > maxPrice {
			continue
		}
		if requirePet && !candidate.HasTag(r.cfg.PetTag) {
			continue
		}
		out = append(out, candidate)
	}
	return out
}

// Score sums the independent similarity clauses for candidate against subject.
func (r *Ranker) Score(subject, candidate *villas.Villa) int {
	if subject == nil || candidate == nil {
		return 0
	}
	w := r.cfg.Weights
	score := 0
	if subject.HasTag(r.cfg.KaraokeTag) && candidate.HasTag(r.cfg.KaraokeTag) {
		score += w.Karaoke
	}
	if subject.HasTag(r.cfg.PrivatePoolTag) && candidate.HasTag(r.cfg.PrivatePoolTag) {
		score += w.PrivatePool
	}
	if candidate.Location.District == subject.Location.District {
		score += w.SameDistrict
	}
	if math.Abs(candidate.PriceDaily-subject.PriceDaily) < r.cfg.NearPriceDelta {
		score += w.NearPrice
	}
	if score < 0 {
		return 0
	}
	return score
}

// RankScored filters, scores and orders the pool, returning at most k entries.
// Equal scores keep their pool order.
func (r *Ranker) RankScored(subject *villas.Villa, pool []*villas.Villa, k int) []Scored {
	if k <= 0 {
		return []Scored{}
	}
	survivors := r.Filter(subject, pool)
	scored := make([]Scored, 0, len(survivors))
	for _, candidate := range survivors {
		scored = append(scored, Scored{Villa: candidate, Score: r.Score(subject, candidate)})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored
}

// Rank returns up to k villas most similar to subject, best first.
func (r *Ranker) Rank(subject *villas.Villa, pool []*villas.Villa, k int) []*villas.Villa {
	scored := r.RankScored(subject, pool, k)
	out := make([]*villas.Villa, 0, len(scored))
	for _, s := range scored {
		out = append(out, s.Villa)
	}
	return out
}
