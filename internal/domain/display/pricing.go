package display

import "math"

// PerPerson splits the nightly price across the guest capacity. Zero or
// negative capacity counts as one guest.
func PerPerson(priceDaily float64, maxGuests int) int64 {
	if maxGuests < 1 {
		maxGuests = 1
	}
	return int64(math.Round(priceDaily / float64(maxGuests)))
}

// BedroomsPlausible reports whether the bedroom count should be shown.
// Listings that claim more than ratio guests per bedroom are treated as
// scraping noise. Missing values are considered plausible.
func BedroomsPlausible(maxGuests, bedrooms int, ratio float64) bool {
	if maxGuests <= 0 || bedrooms <= 0 {
		return true
	}
	return float64(maxGuests)/float64(bedrooms) <= ratio
}
