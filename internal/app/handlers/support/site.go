package support

import "strings"

const (
	DefaultBaseURL  = "https://poolvillafinder.com"
	DefaultSiteName = "PoolVillaFinder"
)

// Site carries the public identity used for canonical links and titles.
type Site struct {
	BaseURL string
	Name    string
}

func (s Site) base() string {
	if s.BaseURL == "" {
		return DefaultBaseURL
	}
	return strings.TrimRight(s.BaseURL, "/")
}

// SiteName returns the brand appended to page titles.
func (s Site) SiteName() string {
	if s.Name == "" {
		return DefaultSiteName
	}
	return s.Name
}

// URL joins path onto the base URL.
func (s Site) URL(path string) string {
	if path == "" || path == "/" {
		return s.base()
	}
	return s.base() + "/" + strings.TrimLeft(path, "/")
}

// Truncate cuts text to at most n runes.
func Truncate(text string, n int) string {
	text = strings.TrimSpace(text)
	if n <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}
