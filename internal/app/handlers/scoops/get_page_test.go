package scoops

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"villafinder/internal/app/handlers/support"
	domainscoops "villafinder/internal/domain/scoops"
	domainvillas "villafinder/internal/domain/villas"
	"villafinder/internal/infra/storage/memory"
)

func villa(id, province string, price, rating float64, reviews int) *domainvillas.Villa {
	return &domainvillas.Villa{
		ID:          domainvillas.VillaID(id),
		Slug:        "villa-" + id,
		Title:       "Villa " + id,
		Location:    domainvillas.Location{Province: province},
		PriceDaily:  price,
		MaxGuests:   10,
		Bedrooms:    4,
		Rating:      rating,
		ReviewCount: reviews,
		Active:      true,
	}
}

func TestGetPageRunsRule(t *testing.T) {
	beach := villa("1", "Phuket", 6000, 9.0, 10)
	beach.NearbyPlaces = []domainvillas.NearbyPlace{{Name: "หาดกะตะ", Category: "ชายหาด", Distance: "400 m"}}
	beach.ContentListing = "ติดหาด"
	villas := memory.NewVillaRepository(
		beach,
		villa("2", "Phuket", 4000, 8.0, 5),
		villa("3", "Phuket", 9000, 0, 0),
		villa("4", "Krabi", 3000, 9.9, 50),
	)
	scoop := &domainscoops.Scoop{
		ID:          "s1",
		Slug:        "phuket-best",
		Title:       "Phuket best",
		MetaTitle:   "Best pool villas in Phuket",
		Rule:        domainscoops.Rule{Province: "Phuket", SortBy: "price", Order: "asc"},
		Status:      domainscoops.StatusPublished,
		PublishedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		FAQ:         []domainscoops.FAQItem{{Question: "Q?", Answer: "A."}},
	}
	h := &GetPageHandler{
		UoWFactory: memory.Factory{VillasRepo: villas, ScoopsRepo: memory.NewScoopRepository(scoop)},
		Site:       support.Site{BaseURL: "https://example.test"},
	}

	page, err := h.Handle(context.Background(), GetPageQuery{Slug: "phuket-best"})
	require.NoError(t, err)

	require.Len(t, page.Villas, 3)
	assert.Equal(t, []string{"2", "1", "3"}, []string{page.Villas[0].ID, page.Villas[1].ID, page.Villas[2].ID})
	assert.Equal(t, []int{1, 2, 3}, []int{page.Villas[0].Rank, page.Villas[1].Rank, page.Villas[2].Rank})
	assert.Equal(t, "400 m", page.Villas[1].SeaDistance)
	assert.Equal(t, "ติดหาด", page.Villas[1].ContentListing)
	assert.Equal(t, int64(600), page.Villas[1].PricePerPerson)

	assert.Equal(t, 3, page.Stats.VillaCount)
	assert.Equal(t, 4000.0, page.Stats.StartPrice)
	assert.Equal(t, "5.7", page.Stats.AverageRating)
	assert.Equal(t, 15, page.Stats.TotalReviews)

	assert.Equal(t, "Best pool villas in Phuket", page.SEO.Title)
	assert.Equal(t, "https://example.test/scoop/phuket-best", page.SEO.Canonical)
	assert.Equal(t, "FAQPage", page.JSONLD["@type"])
}

func TestGetPageHidesDrafts(t *testing.T) {
	draft := &domainscoops.Scoop{ID: "s2", Slug: "draft", Status: domainscoops.StatusDraft}
	h := &GetPageHandler{UoWFactory: memory.Factory{
		VillasRepo: memory.NewVillaRepository(),
		ScoopsRepo: memory.NewScoopRepository(draft),
	}}

	_, err := h.Handle(context.Background(), GetPageQuery{Slug: "draft"})
	assert.ErrorIs(t, err, domainscoops.ErrNotFound)
}

func TestGetPageEmptyScoop(t *testing.T) {
	s := &domainscoops.Scoop{ID: "s3", Slug: "nowhere", Rule: domainscoops.Rule{Province: "Atlantis"}}
	h := &GetPageHandler{UoWFactory: memory.Factory{
		VillasRepo: memory.NewVillaRepository(villa("1", "Phuket", 1000, 9, 1)),
		ScoopsRepo: memory.NewScoopRepository(s),
	}}

	page, err := h.Handle(context.Background(), GetPageQuery{Slug: "nowhere"})
	require.NoError(t, err)
	assert.Empty(t, page.Villas)
	assert.NotNil(t, page.FAQ)
	assert.Nil(t, page.JSONLD)
	assert.Equal(t, "-", page.Stats.AverageRating)
	assert.Zero(t, page.Stats.StartPrice)
}
