package related

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"villafinder/internal/domain/villas"
)

func villa(id, province, district string, guests int, price float64, tags ...string) *villas.Villa {
	v := &villas.Villa{
		ID:         villas.VillaID(id),
		Slug:       id,
		Title:      "Villa " + id,
		Location:   villas.Location{Province: province, District: district},
		MaxGuests:  guests,
		PriceDaily: price,
		Active:     true,
	}
	for _, tag := range tags {
		v.FacilityTags = append(v.FacilityTags, villas.FacilityTag{ID: tag})
	}
	return v
}

func ids(in []*villas.Villa) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		out = append(out, string(v.ID))
	}
	return out
}

func TestRankKathuSubject(t *testing.T) {
	r := NewRanker(DefaultConfig())
	subject := villa("1", "Phuket", "Kathu", 8, 5000, "karaoke", "private_pool")
	pool := []*villas.Villa{
		villa("2", "Phuket", "Kathu", 9, 5200, "karaoke"),
		villa("3", "Phuket", "Patong", 7, 4800, "private_pool"),
		villa("4", "Bangkok", "Kathu", 8, 5000, "karaoke", "private_pool"),
	}

	scored := r.RankScored(subject, pool, 5)
	require.Len(t, scored, 2)
	assert.Equal(t, villas.VillaID("2"), scored[0].Villa.ID)
	assert.Equal(t, 20, scored[0].Score)
	assert.Equal(t, villas.VillaID("3"), scored[1].Villa.ID)
	assert.Equal(t, 8, scored[1].Score)
}

func TestRankDropsOutOfBoundsCandidates(t *testing.T) {
	r := NewRanker(DefaultConfig())
	subject := villa("S", "Phuket", "Kathu", 10, 10000, "private_pool", "karaoke")
	pool := []*villas.Villa{
		villa("A", "Phuket", "Kathu", 12, 10500, "private_pool", "karaoke"),
		villa("B", "Phuket", "Thalang", 8, 9800, "private_pool"),
		villa("C", "Krabi", "Kathu", 10, 10000),
		villa("D", "Phuket", "Kathu", 20, 10000),
		villa("E", "Phuket", "Kathu", 10, 20000),
	}

	scored := r.RankScored(subject, pool, 5)
	require.Len(t, scored, 2)
	assert.Equal(t, villas.VillaID("A"), scored[0].Villa.ID)
	assert.Equal(t, 23, scored[0].Score)
	assert.Equal(t, villas.VillaID("B"), scored[1].Villa.ID)
	assert.Equal(t, 8, scored[1].Score)
	assert.Equal(t, []string{"A", "B"}, ids(r.Rank(subject, pool, 5)))
}

func TestFilterExcludesSubject(t *testing.T) {
	r := NewRanker(DefaultConfig())
	subject := villa("S", "Phuket", "Kathu", 10, 10000)
	twin := villa("S", "Phuket", "Kathu", 10, 10000)

	assert.Empty(t, r.Filter(subject, []*villas.Villa{subject, twin}))
}

func TestFilterBounds(t *testing.T) {
	r := NewRanker(DefaultConfig())
	subject := villa("S", "Phuket", "Kathu", 10, 10000)

	tests := []struct {
		name string
		cand *villas.Villa
		keep bool
	}{
		{"other province", villa("x", "Krabi", "Kathu", 10, 10000), false},
		{"guests at lower bound", villa("x", "Phuket", "Kathu", 6, 10000), true},
		{"guests below window", villa("x", "Phuket", "Kathu", 5, 10000), false},
		{"guests at upper bound", villa("x", "Phuket", "Kathu", 14, 10000), true},
		{"guests above window", villa("x", "Phuket", "Kathu", 15, 10000), false},
		{"price at lower bound", villa("x", "Phuket", "Kathu", 10, 6000), true},
		{"price below window", villa("x", "Phuket", "Kathu", 10, 5999), false},
		{"price at upper bound", villa("x", "Phuket", "Kathu", 10, 14000), true},
		{"price above window", villa("x", "Phuket", "Kathu", 10, 14001), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := r.Filter(subject, []*villas.Villa{tc.cand})
			if tc.keep {
				assert.Len(t, got, 1)
			} else {
				assert.Empty(t, got)
			}
		})
	}
}

func TestFilterGuestFloor(t *testing.T) {
	r := NewRanker(DefaultConfig())
	subject := villa("S", "Phuket", "Kathu", 2, 3000)
	pool := []*villas.Villa{
		villa("zero", "Phuket", "Kathu", 0, 3000),
		villa("one", "Phuket", "Kathu", 1, 3000),
		villa("six", "Phuket", "Kathu", 6, 3000),
		villa("seven", "Phuket", "Kathu", 7, 3000),
	}

	assert.Equal(t, []string{"one", "six"}, ids(r.Filter(subject, pool)))
}

func TestFilterPetRequirement(t *testing.T) {
	r := NewRanker(DefaultConfig())
	pool := []*villas.Villa{
		villa("pets", "Phuket", "Kathu", 10, 10000, "pet_friendly"),
		villa("nopets", "Phuket", "Kathu", 10, 10000),
	}

	withPets := villa("S", "Phuket", "Kathu", 10, 10000, "pet_friendly")
	assert.Equal(t, []string{"pets"}, ids(r.Filter(withPets, pool)))

	withoutPets := villa("S", "Phuket", "Kathu", 10, 10000)
	assert.Equal(t, []string{"pets", "nopets"}, ids(r.Filter(withoutPets, pool)))
}

func TestFilterPetAliasOnSubject(t *testing.T) {
	pool := []*villas.Villa{
		villa("pets", "Phuket", "Kathu", 10, 10000, "pet_friendly"),
		villa("alias", "Phuket", "Kathu", 10, 10000, "pets_allowed"),
		villa("nopets", "Phuket", "Kathu", 10, 10000),
	}
	subject := villa("S", "Phuket", "Kathu", 10, 10000, "pets_allowed")

	r := NewRanker(DefaultConfig())
	assert.Equal(t, []string{"pets"}, ids(r.Filter(subject, pool)))
	assert.Equal(t, "pet_friendly", r.CandidateQuery(subject).RequiredTag)

	cfg := DefaultConfig()
	cfg.PetTagAliases = []string{}
	noAliases := NewRanker(cfg)
	assert.Equal(t, []string{"pets", "alias", "nopets"}, ids(noAliases.Filter(subject, pool)))
	assert.Empty(t, noAliases.CandidateQuery(subject).RequiredTag)
}

func TestFilterZeroPriceSubject(t *testing.T) {
	r := NewRanker(DefaultConfig())
	subject := villa("S", "Phuket", "Kathu", 10, 0)
	pool := []*villas.Villa{
		villa("free", "Phuket", "Kathu", 10, 0),
		villa("paid", "Phuket", "Kathu", 10, 1),
	}

	assert.Equal(t, []string{"free"}, ids(r.Filter(subject, pool)))

	q := r.CandidateQuery(subject)
	assert.True(t, q.PriceBounded)
	assert.Zero(t, q.MaxPrice)
	assert.True(t, q.Matches(pool[0]))
	assert.False(t, q.Matches(pool[1]))
}

func TestScoreClauses(t *testing.T) {
	r := NewRanker(DefaultConfig())
	subject := villa("S", "Phuket", "Kathu", 10, 10000, "karaoke", "private_pool")

	assert.Equal(t, 23, r.Score(subject, villa("a", "Phuket", "Kathu", 10, 10999, "karaoke", "private_pool")))
	assert.Equal(t, 18, r.Score(subject, villa("b", "Phuket", "Kathu", 10, 11000, "karaoke", "private_pool")))
	assert.Equal(t, 0, r.Score(subject, villa("c", "Phuket", "Patong", 10, 12000)))
	assert.Equal(t, 5, r.Score(subject, villa("d", "Phuket", "Patong", 10, 12000, "karaoke")))

	plain := villa("S", "Phuket", "Kathu", 10, 10000)
	assert.Equal(t, 15, r.Score(plain, villa("e", "Phuket", "Kathu", 10, 10000, "karaoke", "private_pool")))
}

func TestScoreKaraokeMonotonic(t *testing.T) {
	r := NewRanker(DefaultConfig())
	subject := villa("S", "Phuket", "Kathu", 10, 10000, "karaoke")
	without := villa("c", "Phuket", "Patong", 10, 12000, "private_pool")
	with := villa("c", "Phuket", "Patong", 10, 12000, "private_pool", "karaoke")

	assert.Equal(t, r.Score(subject, without)+5, r.Score(subject, with))
}

func TestScoreBounded(t *testing.T) {
	r := NewRanker(DefaultConfig())
	w := r.Config().Weights
	max := w.Karaoke + w.PrivatePool + w.SameDistrict + w.NearPrice
	subject := villa("S", "Phuket", "Kathu", 10, 10000, "karaoke", "private_pool")

	for i, cand := range []*villas.Villa{
		villa("a", "Phuket", "Kathu", 10, 10000, "karaoke", "private_pool"),
		villa("b", "Phuket", "Other", 10, 30000),
	} {
		score := r.Score(subject, cand)
		assert.GreaterOrEqual(t, score, 0, "candidate %d", i)
		assert.LessOrEqual(t, score, max, "candidate %d", i)
	}
}

func TestRankStableOnTies(t *testing.T) {
	r := NewRanker(DefaultConfig())
	subject := villa("S", "Phuket", "Kathu", 10, 10000)
	pool := make([]*villas.Villa, 0, 6)
	for i := 0; i < 6; i++ {
		pool = append(pool, villa(fmt.Sprintf("v%d", i), "Phuket", "Patong", 10, 12000))
	}

	assert.Equal(t, []string{"v0", "v1", "v2", "v3"}, ids(r.Rank(subject, pool, 4)))
}

func TestRankOrderedAndTruncated(t *testing.T) {
	r := NewRanker(DefaultConfig())
	subject := villa("S", "Phuket", "Kathu", 10, 10000)
	pool := []*villas.Villa{
		villa("low", "Phuket", "Patong", 10, 12000),
		villa("mid", "Phuket", "Patong", 10, 10100),
		villa("top", "Phuket", "Kathu", 10, 10100),
	}

	scored := r.RankScored(subject, pool, 2)
	require.Len(t, scored, 2)
	assert.Equal(t, villas.VillaID("top"), scored[0].Villa.ID)
	assert.Equal(t, villas.VillaID("mid"), scored[1].Villa.ID)
	for i := 1; i < len(scored); i++ {
		assert.GreaterOrEqual(t, scored[i-1].Score, scored[i].Score)
	}
}

func TestRankEdgeCases(t *testing.T) {
	r := NewRanker(DefaultConfig())
	subject := villa("S", "Phuket", "Kathu", 10, 10000)
	pool := []*villas.Villa{villa("a", "Phuket", "Kathu", 10, 10000)}

	assert.Empty(t, r.Rank(subject, pool, 0))
	assert.Empty(t, r.Rank(subject, pool, -3))
	assert.Empty(t, r.Rank(subject, nil, 5))
	assert.Empty(t, r.Rank(nil, pool, 5))
	assert.Len(t, r.Rank(subject, pool, 10), 1)
}

func TestRankDoesNotMutatePool(t *testing.T) {
	r := NewRanker(DefaultConfig())
	subject := villa("S", "Phuket", "Kathu", 10, 10000)
	pool := []*villas.Villa{
		villa("a", "Phuket", "Patong", 10, 12000),
		villa("b", "Phuket", "Kathu", 10, 10000),
	}

	_ = r.Rank(subject, pool, 5)
	assert.Equal(t, []string{"a", "b"}, ids(pool))
}

func TestCandidateQueryMatchesFilter(t *testing.T) {
	r := NewRanker(DefaultConfig())
	subject := villa("S", "Phuket", "Kathu", 10, 10000, "pet_friendly")

	q := r.CandidateQuery(subject)
	assert.Equal(t, villas.VillaID("S"), q.ExcludeID)
	assert.Equal(t, "Phuket", q.Province)
	assert.Equal(t, 6, q.MinGuests)
	assert.Equal(t, 14, q.MaxGuests)
	assert.True(t, q.PriceBounded)
	assert.InDelta(t, 6000, q.MinPrice, 0.001)
	assert.InDelta(t, 14000, q.MaxPrice, 0.001)
	assert.Equal(t, "pet_friendly", q.RequiredTag)
	assert.Equal(t, 20, q.Limit)

	pool := []*villas.Villa{
		villa("a", "Phuket", "Kathu", 10, 10000, "pet_friendly"),
		villa("b", "Phuket", "Kathu", 10, 10000),
		villa("c", "Phuket", "Kathu", 3, 10000, "pet_friendly"),
	}
	for _, cand := range pool {
		inFilter := len(r.Filter(subject, []*villas.Villa{cand})) == 1
		assert.Equal(t, inFilter, q.Matches(cand), "candidate %s", cand.ID)
	}
}

func TestNewRankerFillsDefaults(t *testing.T) {
	r := NewRanker(Config{Limit: 3})
	cfg := r.Config()
	assert.Equal(t, 3, cfg.Limit)
	assert.Equal(t, DefaultConfig().Weights, cfg.Weights)
	assert.Equal(t, 20, cfg.PoolSize)
	assert.Equal(t, []string{"pets_allowed"}, cfg.PetTagAliases)
}
