package dto

// SEO is the metadata block rendered into page heads.
type SEO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Canonical   string `json:"canonical"`
	OGImage     string `json:"og_image,omitempty"`
}
