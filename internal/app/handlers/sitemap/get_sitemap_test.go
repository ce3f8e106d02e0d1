package sitemap

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

func TestGetSitemapListsPublicPages(t *testing.T) {
	now := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	updated := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	villas := memory.NewVillaRepository(
		&domainvillas.Villa{ID: "1", Slug: "b-villa", Title: "B", Active: true, UpdatedAt: updated},
		&domainvillas.Villa{ID: "2", Slug: "a-villa", Title: "A", Active: true, UpdatedAt: updated},
		&domainvillas.Villa{ID: "3", Slug: "gone", Title: "Gone", Active: false},
	)
	scoops := memory.NewScoopRepository(
		&domainscoops.Scoop{ID: "s1", Slug: "phuket", UpdatedAt: updated},
		&domainscoops.Scoop{ID: "s2", Slug: "draft", Status: domainscoops.StatusDraft},
	)
	h := &GetSitemapHandler{
		UoWFactory: memory.Factory{VillasRepo: villas, ScoopsRepo: scoops},
		Site:       support.Site{BaseURL: "https://example.test"},
		Now:        func() time.Time { return now },
	}

	sm, err := h.Handle(context.Background(), GetSitemapQuery{})
	require.NoError(t, err)

	urls := make([]string, 0, len(sm.Entries))
	for _, e := range sm.Entries {
		urls = append(urls, e.URL)
	}
	assert.Equal(t, []string{
		"https://example.test",
		"https://example.test/scoop/phuket",
		"https://example.test/villas/a-villa",
		"https://example.test/villas/b-villa",
	}, urls)

	assert.Equal(t, now, sm.Entries[0].LastModified)
	assert.Equal(t, "daily", sm.Entries[0].ChangeFrequency)
	assert.Equal(t, 1.0, sm.Entries[0].Priority)
	assert.Equal(t, 0.8, sm.Entries[1].Priority)
	assert.Equal(t, "weekly", sm.Entries[2].ChangeFrequency)
	assert.Equal(t, 0.6, sm.Entries[2].Priority)
	assert.Equal(t, updated, sm.Entries[2].LastModified)
}
