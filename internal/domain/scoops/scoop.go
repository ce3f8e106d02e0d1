package scoops

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("scoops: scoop not found")
	ErrSlugRequired = errors.New("scoops: slug is required")
)

type ScoopID string

type Status string

const (
	StatusPublished Status = "published"
	StatusDraft     Status = "draft"
)

// FAQItem is an editor-authored question shown on the scoop page.
type FAQItem struct {
	Question string `json:"question" bson:"question"`
	Answer   string `json:"answer" bson:"answer"`
}

// Scoop is a curated listicle whose villas are selected by Rule.
type Scoop struct {
	ID              ScoopID
	Slug            string
	Title           string
	Description     string
	CoverImage      string
	Type            string
	Group           string
	Rule            Rule
	MetaTitle       string
	MetaDescription string
	Status          Status
	Featured        bool
	AuthorName      string
	ViewCount       int64
	FAQ             []FAQItem
	PublishedAt     time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Published reports whether the scoop may be served publicly.
func (s *Scoop) Published() bool {
	return s != nil && (s.Status == StatusPublished || s.Status == "")
}

// SEOTitle prefers the dedicated meta title.
func (s *Scoop) SEOTitle() string {
	if s.MetaTitle != "" {
		return s.MetaTitle
	}
	return s.Title
}

// SEODescription prefers the dedicated meta description.
func (s *Scoop) SEODescription() string {
	if s.MetaDescription != "" {
		return s.MetaDescription
	}
	return s.Description
}

// ListParams filter scoop listings for the home page and sitemap.
type ListParams struct {
	FeaturedOnly bool
	Limit        int
}

// Repository is the content store port for scoops.
type Repository interface {
	BySlug(ctx context.Context, slug string) (*Scoop, error)
	List(ctx context.Context, params ListParams) ([]*Scoop, error)
	Save(ctx context.Context, scoop *Scoop) error
	IncrementViews(ctx context.Context, id ScoopID, delta int64) error
}
