package home

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainscoops "villafinder/internal/domain/scoops"
	"villafinder/internal/infra/storage/memory"
)

func TestGetHomeGroupsLatestScoops(t *testing.T) {
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	var seed []*domainscoops.Scoop
	for i := 0; i < 12; i++ {
		seed = append(seed, &domainscoops.Scoop{
			ID:          domainscoops.ScoopID(fmt.Sprintf("p%02d", i)),
			Slug:        fmt.Sprintf("phuket-%02d", i),
			Group:       "ภูเก็ต",
			Featured:    i < 7,
			PublishedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}
	seed = append(seed,
		&domainscoops.Scoop{ID: "n1", Slug: "no-group", PublishedAt: base.Add(48 * time.Hour)},
		&domainscoops.Scoop{ID: "d1", Slug: "draft", Group: "ภูเก็ต", Status: domainscoops.StatusDraft, Featured: true},
	)
	h := &GetHomeHandler{UoWFactory: memory.Factory{
		VillasRepo: memory.NewVillaRepository(),
		ScoopsRepo: memory.NewScoopRepository(seed...),
	}}

	page, err := h.Handle(context.Background(), GetHomeQuery{})
	require.NoError(t, err)

	assert.Len(t, page.Featured, 5)
	assert.Equal(t, "phuket-06", page.Featured[0].Slug)

	require.Len(t, page.Groups, 2)
	assert.Equal(t, "แนะนำสำหรับคุณ", page.Groups[0].Title)
	assert.Equal(t, "no-group", page.Groups[0].Scoops[0].Slug)
	assert.Equal(t, "ภูเก็ต", page.Groups[1].Title)
	assert.Len(t, page.Groups[1].Scoops, 10)
	assert.Equal(t, "phuket-11", page.Groups[1].Scoops[0].Slug)
	assert.Equal(t, "https://poolvillafinder.com", page.SEO.Canonical)
}

func TestGetHomeEmpty(t *testing.T) {
	h := &GetHomeHandler{UoWFactory: memory.Factory{
		VillasRepo: memory.NewVillaRepository(),
		ScoopsRepo: memory.NewScoopRepository(),
	}}
	page, err := h.Handle(context.Background(), GetHomeQuery{})
	require.NoError(t, err)
	assert.NotNil(t, page.Featured)
	assert.NotNil(t, page.Groups)
	assert.Empty(t, page.SEO.OGImage)
}
