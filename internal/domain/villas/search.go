package villas

import (
	"strings"
)

// SortField defines a supported ordering for rule-driven searches.
type SortField string

const (
	SortByRating      SortField = "rating"
	SortByPrice       SortField = "price"
	SortByReviewCount SortField = "reviewCount"
	SortByNewest      SortField = "createdAt"

	defaultSearchLimit = 10
	maxSearchLimit     = 100
)

// CandidateQuery is the coarse, store-side pre-filter for related villas.
// A zero MaxGuests is treated as unset. The price window applies only when
// PriceBounded is set, so a zero-priced subject still gets [0, 0].
type CandidateQuery struct {
	ExcludeID    VillaID
	Province     string
	MinGuests    int
	MaxGuests    int
	PriceBounded bool
	MinPrice     float64
	MaxPrice     float64
	RequiredTag  string
	Limit        int
}

// Matches reports whether the villa satisfies the query bounds.
func (q CandidateQuery) Matches(v *Villa) bool {
	if v == nil || !v.Active {
		return false
	}
	if q.ExcludeID != "" && v.ID == q.ExcludeID {
		return false
	}
	if q.Province != "" && v.Location.Province != q.Province {
		return false
	}
	if v.MaxGuests < q.MinGuests {
		return false
	}
	if q.MaxGuests > 0 && v.MaxGuests > q.MaxGuests {
		return false
	}
	if q.PriceBounded && (v.PriceDaily < q.MinPrice || v.PriceDaily > q.MaxPrice) {
		return false
	}
	if q.RequiredTag != "" && !v.HasTag(q.RequiredTag) {
		return false
	}
	return true
}

// SearchParams describe a scoop rule translated into store filters.
type SearchParams struct {
	Province       string
	District       string
	MinReviewCount int
	PriceMax       float64
	GuestsMin      int
	Sort           SortField
	Descending     bool
	Limit          int
}

// Normalized returns a sanitized copy of params.
func (p SearchParams) Normalized() SearchParams {
	normalized := p
	normalized.Province = strings.TrimSpace(normalized.Province)
	normalized.District = strings.TrimSpace(normalized.District)
	if normalized.MinReviewCount < 0 {
		normalized.MinReviewCount = 0
	}
	if normalized.PriceMax < 0 {
		normalized.PriceMax = 0
	}
	if normalized.GuestsMin < 0 {
		normalized.GuestsMin = 0
	}
	if normalized.Limit <= 0 {
		normalized.Limit = defaultSearchLimit
	}
	if normalized.Limit > maxSearchLimit {
		normalized.Limit = maxSearchLimit
	}
	switch normalized.Sort {
	case SortByRating, SortByPrice, SortByReviewCount, SortByNewest:
	default:
		normalized.Sort = SortByRating
	}
	return normalized
}

// Matches reports whether an active villa satisfies the filters.
func (p SearchParams) Matches(v *Villa) bool {
	if v == nil || !v.Active {
		return false
	}
	if p.Province != "" && v.Location.Province != p.Province {
		return false
	}
	if p.District != "" && v.Location.District != p.District {
		return false
	}
	if p.MinReviewCount > 0 && v.ReviewCount < p.MinReviewCount {
		return false
	}
	if p.PriceMax > 0 && v.PriceDaily > p.PriceMax {
		return false
	}
	if p.GuestsMin > 0 && v.MaxGuests < p.GuestsMin {
		return false
	}
	return true
}

// Less orders a before b according to the sort field and direction.
func (p SearchParams) Less(a, b *Villa) bool {
	var less, equal bool
	switch p.Sort {
	case SortByPrice:
		less, equal = a.PriceDaily < b.PriceDaily, a.PriceDaily == b.PriceDaily
	case SortByReviewCount:
		less, equal = a.ReviewCount < b.ReviewCount, a.ReviewCount == b.ReviewCount
	case SortByNewest:
		less, equal = a.CreatedAt.Before(b.CreatedAt), a.CreatedAt.Equal(b.CreatedAt)
	default:
		less, equal = a.Rating < b.Rating, a.Rating == b.Rating
	}
	if equal {
		return false
	}
	if p.Descending {
		return !less
	}
	return less
}
