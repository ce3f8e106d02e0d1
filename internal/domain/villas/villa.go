package villas

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound      = errors.New("villas: villa not found")
	ErrSlugRequired  = errors.New("villas: slug is required")
	ErrTitleRequired = errors.New("villas: title is required")
	ErrNegativePrice = errors.New("villas: daily price must be non-negative")
	ErrNegativeCount = errors.New("villas: guests and rooms must be non-negative")
)

type VillaID string

// Location places a villa inside the province/district hierarchy.
type Location struct {
	Province    string
	District    string
	SubDistrict string
	Address     string
	Lat         *float64
	Lon         *float64
}

// Line renders the address, falling back to the administrative hierarchy.
func (l Location) Line() string {
	if strings.TrimSpace(l.Address) != "" {
		return strings.TrimSpace(l.Address)
	}
	parts := make([]string, 0, 3)
	for _, p := range []string{l.SubDistrict, l.District, l.Province} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// FacilityTag is a normalized amenity identifier with its display attributes.
type FacilityTag struct {
	ID    string `json:"id" bson:"id" yaml:"id"`
	Label string `json:"label" bson:"label" yaml:"label"`
	Icon  string `json:"icon" bson:"icon" yaml:"icon"`
	Color string `json:"color,omitempty" bson:"color,omitempty" yaml:"color,omitempty"`
}

// FacilityCategory groups free-text facility items under a heading.
type FacilityCategory struct {
	Name  string   `json:"name" bson:"name"`
	Items []string `json:"items" bson:"items"`
}

// Facilities holds the scraped free-text amenity lists.
type Facilities struct {
	Popular    []string           `json:"popular" bson:"popular"`
	Categories []FacilityCategory `json:"categories" bson:"categories"`
}

// UnmarshalJSON also accepts a flat list of amenity names, kept as Popular.
func (f *Facilities) UnmarshalJSON(raw []byte) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		var items []string
		if err := json.Unmarshal(raw, &items); err != nil {
			return err
		}
		*f = Facilities{Popular: items}
		return nil
	}
	type plain Facilities
	var p plain
	if err := json.Unmarshal(raw, &p); err != nil {
		return err
	}
	*f = Facilities(p)
	return nil
}

// Flatten merges popular items and every category item into one list,
// preserving order. Duplicates are kept.
func (f Facilities) Flatten() []string {
	out := make([]string, 0, len(f.Popular)+f.CategoryItemCount())
	out = append(out, f.Popular...)
	for _, cat := range f.Categories {
		out = append(out, cat.Items...)
	}
	return out
}

// CategoryItemCount counts the items across all categories.
func (f Facilities) CategoryItemCount() int {
	total := 0
	for _, cat := range f.Categories {
		total += len(cat.Items)
	}
	return total
}

// NearbyPlace is a point of interest near the villa.
type NearbyPlace struct {
	Name     string `json:"name" bson:"name"`
	Category string `json:"category" bson:"category"`
	Distance string `json:"distance" bson:"distance"`
}

// Policy is a free-text house rule keyed by topic.
type Policy struct {
	Topic   string `json:"topic" bson:"topic"`
	Content string `json:"content" bson:"content"`
}

// Villa is one rentable property snapshot as handed out by the content store.
type Villa struct {
	ID             VillaID
	Slug           string
	Title          string
	Location       Location
	PriceDaily     float64
	MaxGuests      int
	Bedrooms       int
	Bathrooms      int
	FacilityTags   []FacilityTag
	Facilities     Facilities
	NearbyPlaces   []NearbyPlace
	Policies       []Policy
	Rating         float64
	ReviewCount    int
	Description    string
	ContentListing string
	ContentDetail  string
	CoverImage     string
	Images         []string
	SourceURL      string
	Active         bool
	ViewCount      int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HasTag reports whether the villa carries the facility tag id.
func (v *Villa) HasTag(id string) bool {
	if v == nil {
		return false
	}
	for _, tag := range v.FacilityTags {
		if tag.ID == id {
			return true
		}
	}
	return false
}

// TagIDs returns the unique tag ids in their stored order.
func (v *Villa) TagIDs() []string {
	if v == nil || len(v.FacilityTags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(v.FacilityTags))
	out := make([]string, 0, len(v.FacilityTags))
	for _, tag := range v.FacilityTags {
		if _, ok := seen[tag.ID]; ok || tag.ID == "" {
			continue
		}
		seen[tag.ID] = struct{}{}
		out = append(out, tag.ID)
	}
	return out
}

// PrimaryImage returns the cover image or the first gallery image.
func (v *Villa) PrimaryImage() string {
	if v == nil {
		return ""
	}
	if v.CoverImage != "" {
		return v.CoverImage
	}
	if len(v.Images) > 0 {
		return v.Images[0]
	}
	return ""
}

// Validate checks the invariants a stored villa must satisfy.
func (v *Villa) Validate() error {
	if strings.TrimSpace(v.Slug) == "" {
		return ErrSlugRequired
	}
	if strings.TrimSpace(v.Title) == "" {
		return ErrTitleRequired
	}
	if v.PriceDaily < 0 {
		return ErrNegativePrice
	}
	if v.MaxGuests < 0 || v.Bedrooms < 0 || v.Bathrooms < 0 {
		return ErrNegativeCount
	}
	return nil
}

// SlugEntry is the minimal projection used for sitemaps.
type SlugEntry struct {
	Slug      string
	UpdatedAt time.Time
}

// Repository is the content store port for villas.
type Repository interface {
	BySlug(ctx context.Context, slug string) (*Villa, error)
	ByID(ctx context.Context, id VillaID) (*Villa, error)
	Candidates(ctx context.Context, q CandidateQuery) ([]*Villa, error)
	Search(ctx context.Context, params SearchParams) ([]*Villa, error)
	Slugs(ctx context.Context, limit int) ([]SlugEntry, error)
	Save(ctx context.Context, villa *Villa) error
	IncrementViews(ctx context.Context, id VillaID, delta int64) error
}
