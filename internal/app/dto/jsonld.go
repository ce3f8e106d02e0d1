package dto

import (
	"villafinder/internal/domain/scoops"
	"villafinder/internal/domain/villas"
)

const schemaContext = "https://schema.org"

// VacationRentalLD renders the schema.org VacationRental block of a villa.
func VacationRentalLD(v *villas.Villa, images []string) map[string]any {
	if v == nil {
		return nil
	}
	description := v.ContentDetail
	if description == "" {
		description = v.Description
	}
	ld := map[string]any{
		"@context":    schemaContext,
		"@type":       "VacationRental",
		"name":        v.Title,
		"description": description,
		"address": map[string]any{
			"@type":           "PostalAddress",
			"addressLocality": v.Location.District,
			"addressRegion":   v.Location.Province,
			"addressCountry":  "TH",
		},
		"numberOfRooms": v.Bedrooms,
		"occupancy": map[string]any{
			"@type":    "QuantitativeValue",
			"maxValue": v.MaxGuests,
			"unitCode": "C62",
		},
		"offers": map[string]any{
			"@type":         "Offer",
			"price":         v.PriceDaily,
			"priceCurrency": "THB",
			"availability":  "https://schema.org/InStock",
		},
	}
	if len(images) > 0 {
		ld["image"] = images
	}
	if v.Location.Lat != nil && v.Location.Lon != nil {
		ld["geo"] = map[string]any{
			"@type":     "GeoCoordinates",
			"latitude":  *v.Location.Lat,
			"longitude": *v.Location.Lon,
		}
	}
	if v.Rating > 0 && v.ReviewCount > 0 {
		ld["aggregateRating"] = map[string]any{
			"@type":       "AggregateRating",
			"ratingValue": v.Rating,
			"reviewCount": v.ReviewCount,
		}
	}
	if len(v.Facilities.Popular) > 0 {
		features := make([]map[string]any, 0, len(v.Facilities.Popular))
		for _, item := range v.Facilities.Popular {
			features = append(features, map[string]any{
				"@type": "LocationFeatureSpecification",
				"name":  item,
				"value": true,
			})
		}
		ld["amenityFeature"] = features
	}
	return ld
}

// FAQPageLD renders a schema.org FAQPage, or nil when there are no entries.
func FAQPageLD(items []scoops.FAQItem) map[string]any {
	if len(items) == 0 {
		return nil
	}
	entities := make([]map[string]any, 0, len(items))
	for _, item := range items {
		entities = append(entities, map[string]any{
			"@type": "Question",
			"name":  item.Question,
			"acceptedAnswer": map[string]any{
				"@type": "Answer",
				"text":  item.Answer,
			},
		})
	}
	return map[string]any{
		"@context":   schemaContext,
		"@type":      "FAQPage",
		"mainEntity": entities,
	}
}
