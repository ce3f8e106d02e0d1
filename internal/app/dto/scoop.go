package dto

import (
	"time"

	"villafinder/internal/domain/scoops"
)

// ScoopSummary is a scoop teaser used on the home page.
type ScoopSummary struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CoverImage  string    `json:"cover_image,omitempty"`
	Group       string    `json:"group,omitempty"`
	PublishedAt time.Time `json:"published_at,omitempty"`
}

// ScoopVillaCard is one ranked entry of a scoop listicle.
type ScoopVillaCard struct {
	VillaCard
	Rank           int    `json:"rank"`
	SeaDistance    string `json:"sea_distance,omitempty"`
	ContentListing string `json:"content_listing,omitempty"`
}

// ScoopStats summarizes the villas of a scoop. AverageRating is "-" when
// the scoop is empty.
type ScoopStats struct {
	VillaCount    int     `json:"villa_count"`
	StartPrice    float64 `json:"start_price"`
	AverageRating string  `json:"average_rating"`
	TotalReviews  int     `json:"total_reviews"`
}

// ScoopPage is the full payload of a scoop page.
type ScoopPage struct {
	ID          string           `json:"id"`
	Slug        string           `json:"slug"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	CoverImage  string           `json:"cover_image,omitempty"`
	AuthorName  string           `json:"author_name,omitempty"`
	PublishedAt time.Time        `json:"published_at,omitempty"`
	Villas      []ScoopVillaCard `json:"villas"`
	Stats       ScoopStats       `json:"stats"`
	FAQ         []scoops.FAQItem `json:"faq"`
	SEO         SEO              `json:"seo"`
	JSONLD      map[string]any   `json:"json_ld,omitempty"`
}

// MapScoopSummary builds a teaser with a resolved cover image.
func MapScoopSummary(s *scoops.Scoop, cover string) ScoopSummary {
	if s == nil {
		return ScoopSummary{}
	}
	return ScoopSummary{
		ID:          string(s.ID),
		Slug:        s.Slug,
		Title:       s.Title,
		Description: s.Description,
		CoverImage:  cover,
		Group:       s.Group,
		PublishedAt: s.PublishedAt,
	}
}
