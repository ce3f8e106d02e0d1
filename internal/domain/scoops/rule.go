package scoops

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"villafinder/internal/domain/villas"
)

const defaultRuleLimit = 10

// Rule is the stored query that selects a scoop's villas.
type Rule struct {
	Province       string  `json:"province,omitempty" bson:"province,omitempty"`
	District       string  `json:"district,omitempty" bson:"district,omitempty"`
	MinReviewCount FlexInt `json:"minReviewCount,omitempty" bson:"min_review_count,omitempty"`
	PriceMax       FlexInt `json:"price_max,omitempty" bson:"price_max,omitempty"`
	GuestsMin      FlexInt `json:"guests_min,omitempty" bson:"guests_min,omitempty"`
	SortBy         string  `json:"sortBy,omitempty" bson:"sort_by,omitempty"`
	Order          string  `json:"order,omitempty" bson:"order,omitempty"`
	Limit          FlexInt `json:"limit,omitempty" bson:"limit,omitempty"`
}

// ParseRule decodes a stored rule. The document may be a JSON object or a
// JSON string containing the object; null and empty input yield the zero rule.
func ParseRule(raw []byte) (Rule, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return Rule{}, nil
	}
	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return Rule{}, fmt.Errorf("scoops: decode rule string: %w", err)
		}
		return ParseRule([]byte(inner))
	}
	var rule Rule
	if err := json.Unmarshal(raw, &rule); err != nil {
		return Rule{}, fmt.Errorf("scoops: decode rule: %w", err)
	}
	return rule, nil
}

// SearchParams translates the rule into content store filters.
func (r Rule) SearchParams() villas.SearchParams {
	params := villas.SearchParams{
		Province:       strings.TrimSpace(r.Province),
		District:       strings.TrimSpace(r.District),
		MinReviewCount: int(r.MinReviewCount),
		PriceMax:       float64(r.PriceMax),
		GuestsMin:      int(r.GuestsMin),
		Sort:           sortField(r.SortBy),
		Descending:     !strings.EqualFold(strings.TrimSpace(r.Order), "asc"),
		Limit:          int(r.Limit),
	}
	if params.Limit <= 0 {
		params.Limit = defaultRuleLimit
	}
	return params.Normalized()
}

func sortField(raw string) villas.SortField {
	switch strings.TrimSpace(raw) {
	case "price":
		return villas.SortByPrice
	case "reviewCount", "reviews":
		return villas.SortByReviewCount
	case "date", "newest", "createdAt":
		return villas.SortByNewest
	default:
		return villas.SortByRating
	}
}

// FlexInt accepts JSON numbers, numeric strings and null.
type FlexInt int

func (n *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*n = 0
			return nil
		}
		data = []byte(s)
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("scoops: invalid number %q", string(data))
	}
	*n = FlexInt(f)
	return nil
}
