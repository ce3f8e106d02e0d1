package dto

// ScoopGroup is a titled row of scoop teasers.
type ScoopGroup struct {
	Title  string         `json:"title"`
	Scoops []ScoopSummary `json:"scoops"`
}

// HomePage is the landing page payload.
type HomePage struct {
	Featured []ScoopSummary `json:"featured"`
	Groups   []ScoopGroup   `json:"groups"`
	SEO      SEO            `json:"seo"`
}
