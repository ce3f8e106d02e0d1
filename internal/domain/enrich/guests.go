package enrich

// NormalizeGuests repairs scraped guest capacities. Missing or implausibly
// small values become two guests per bedroom; one-bedroom listings claiming
// more than six guests are capped at four.
func NormalizeGuests(rawGuests, bedrooms int) int {
	guests := rawGuests
	if guests < 0 {
		guests = 0
	}
	beds := bedrooms
	if beds <= 0 {
		beds = 1
	}
	if guests <= 0 || guests < beds {
		guests = beds * 2
	}
	if beds == 1 && guests > 6 {
		guests = 4
	}
	return guests
}
