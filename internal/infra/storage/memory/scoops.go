package memory

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	domainscoops "villafinder/internal/domain/scoops"
)

// ScoopRepository is an in-memory scoop store.
type ScoopRepository struct {
	mu     sync.RWMutex
	items  map[domainscoops.ScoopID]*domainscoops.Scoop
	bySlug map[string]domainscoops.ScoopID
}

// NewScoopRepository builds a repository seeded with scoops. Invalid seeds
// are skipped with a warning on the default logger.
func NewScoopRepository(seed ...*domainscoops.Scoop) *ScoopRepository {
	r := &ScoopRepository{
		items:  make(map[domainscoops.ScoopID]*domainscoops.Scoop),
		bySlug: make(map[string]domainscoops.ScoopID),
	}
	for i, s := range seed {
		if err := r.Save(context.Background(), s); err != nil {
			slog.Default().Warn("memory: skipping invalid seed scoop", "index", i, "error", err)
		}
	}
	return r
}

func (r *ScoopRepository) BySlug(ctx context.Context, slug string) (*domainscoops.Scoop, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.bySlug[slug]
	if !ok {
		return nil, domainscoops.ErrNotFound
	}
	c := *r.items[id]
	return &c, nil
}

// List returns published scoops, newest first.
func (r *ScoopRepository) List(ctx context.Context, params domainscoops.ListParams) ([]*domainscoops.Scoop, error) {
	r.mu.RLock()
	out := make([]*domainscoops.Scoop, 0, len(r.items))
	for _, s := range r.items {
		if !s.Published() || (params.FeaturedOnly && !s.Featured) {
			continue
		}
		c := *s
		out = append(out, &c)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].PublishedAt.Equal(out[j].PublishedAt) {
			return out[i].PublishedAt.After(out[j].PublishedAt)
		}
		return out[i].Slug < out[j].Slug
	})
	if params.Limit > 0 && len(out) > params.Limit {
		out = out[:params.Limit]
	}
	return out, nil
}

func (r *ScoopRepository) Save(ctx context.Context, scoop *domainscoops.Scoop) error {
	if scoop == nil || scoop.Slug == "" {
		return domainscoops.ErrSlugRequired
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.items[scoop.ID]; ok {
		delete(r.bySlug, existing.Slug)
	}
	c := *scoop
	r.items[scoop.ID] = &c
	r.bySlug[scoop.Slug] = scoop.ID
	return nil
}

func (r *ScoopRepository) IncrementViews(ctx context.Context, id domainscoops.ScoopID, delta int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[id]
	if !ok {
		return domainscoops.ErrNotFound
	}
	s.ViewCount += delta
	return nil
}

var _ domainscoops.Repository = (*ScoopRepository)(nil)
