package memory

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	domainvillas "villafinder/internal/domain/villas"
)

// VillaRepository is an in-memory content store. Reads hand out copies so
// counters can be bumped without racing readers.
type VillaRepository struct {
	mu     sync.RWMutex
	items  map[domainvillas.VillaID]*domainvillas.Villa
	bySlug map[string]domainvillas.VillaID
	order  []domainvillas.VillaID
}

// NewVillaRepository builds a repository seeded with villas. Invalid seeds
// are skipped with a warning on the default logger.
func NewVillaRepository(seed ...*domainvillas.Villa) *VillaRepository {
	r := &VillaRepository{
		items:  make(map[domainvillas.VillaID]*domainvillas.Villa),
		bySlug: make(map[string]domainvillas.VillaID),
	}
	for i, v := range seed {
		if err := r.Save(context.Background(), v); err != nil {
			slog.Default().Warn("memory: skipping invalid seed villa", "index", i, "error", err)
		}
	}
	return r
}

func (r *VillaRepository) BySlug(ctx context.Context, slug string) (*domainvillas.Villa, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.bySlug[slug]
	if !ok {
		return nil, domainvillas.ErrNotFound
	}
	return cloneVilla(r.items[id]), nil
}

func (r *VillaRepository) ByID(ctx context.Context, id domainvillas.VillaID) (*domainvillas.Villa, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.items[id]
	if !ok {
		return nil, domainvillas.ErrNotFound
	}
	return cloneVilla(v), nil
}

// Candidates returns matching villas in insertion order.
func (r *VillaRepository) Candidates(ctx context.Context, q domainvillas.CandidateQuery) ([]*domainvillas.Villa, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainvillas.Villa, 0)
	for _, id := range r.order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v := r.items[id]
		if !q.Matches(v) {
			continue
		}
		out = append(out, cloneVilla(v))
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

func (r *VillaRepository) Search(ctx context.Context, params domainvillas.SearchParams) ([]*domainvillas.Villa, error) {
	opts := params.Normalized()
	r.mu.RLock()
	matches := make([]*domainvillas.Villa, 0)
	for _, id := range r.order {
		if v := r.items[id]; opts.Matches(v) {
			matches = append(matches, cloneVilla(v))
		}
	}
	r.mu.RUnlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return opts.Less(matches[i], matches[j])
	})
	if len(matches) > opts.Limit {
		matches = matches[:opts.Limit]
	}
	return matches, nil
}

// Slugs lists active villas ordered by slug.
func (r *VillaRepository) Slugs(ctx context.Context, limit int) ([]domainvillas.SlugEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domainvillas.SlugEntry, 0, len(r.items))
	for _, v := range r.items {
		if v.Active {
			out = append(out, domainvillas.SlugEntry{Slug: v.Slug, UpdatedAt: v.UpdatedAt})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Save inserts or replaces a villa. A slug change releases the old slug.
func (r *VillaRepository) Save(ctx context.Context, villa *domainvillas.Villa) error {
	if villa == nil {
		return domainvillas.ErrSlugRequired
	}
	if err := villa.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.items[villa.ID]; ok {
		delete(r.bySlug, existing.Slug)
	} else {
		r.order = append(r.order, villa.ID)
	}
	stored := cloneVilla(villa)
	if stored.UpdatedAt.IsZero() {
		stored.UpdatedAt = time.Now().UTC()
	}
	r.items[villa.ID] = stored
	r.bySlug[villa.Slug] = villa.ID
	return nil
}

func (r *VillaRepository) IncrementViews(ctx context.Context, id domainvillas.VillaID, delta int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.items[id]
	if !ok {
		return domainvillas.ErrNotFound
	}
	v.ViewCount += delta
	return nil
}

func cloneVilla(v *domainvillas.Villa) *domainvillas.Villa {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

var _ domainvillas.Repository = (*VillaRepository)(nil)
