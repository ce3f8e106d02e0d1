package display

import "strings"

// ContainsAny reports whether text contains any keyword, ignoring case.
// Empty keywords never match.
func ContainsAny(text string, keywords []string) bool {
	if text == "" || len(keywords) == 0 {
		return false
	}
	lower := strings.ToLower(text)
	for _, k := range keywords {
		if k == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

// IconRule maps a keyword group to an icon key.
type IconRule struct {
	Keywords []string `yaml:"keywords"`
	Icon     string   `yaml:"icon"`
}

// iconFor returns the icon of the first rule matching text, or fallback.
func iconFor(rules []IconRule, text, fallback string) string {
	for _, rule := range rules {
		if ContainsAny(text, rule.Keywords) {
			return rule.Icon
		}
	}
	return fallback
}

func matching(items []string, keywords []string) []string {
	var out []string
	for _, item := range items {
		if ContainsAny(item, keywords) {
			out = append(out, item)
		}
	}
	return out
}

func unique(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
