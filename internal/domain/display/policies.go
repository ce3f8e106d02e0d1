package display

import (
	"regexp"
	"strings"

	"villafinder/internal/domain/villas"
)

const (
	defaultCheckIn  = "14:00"
	defaultCheckOut = "11:00"
	unknownTime     = "-"
)

var clockPattern = regexp.MustCompile(`([01]?[0-9]|2[0-3]):[0-5][0-9]`)

var (
	checkInTopics  = []string{"เช็คอิน", "check-in"}
	checkOutTopics = []string{"เช็คเอาท์", "check-out"}
	petTopics      = []string{"สัตว์เลี้ยง", "pets"}
	depositTopics  = []string{"เงินประกัน", "มัดจำ", "ความเสียหาย", "deposit"}
	partyTopics    = []string{"ปาร์ตี้", "เสียงดัง", "งานเลี้ยง", "party"}
	childTopics    = []string{"เด็ก", "เตียงเสริม", "children"}
	ageTopics      = []string{"ข้อจำกัดด้านอายุ", "อายุ", "age restriction"}

	petAllowed    = "อนุญาต"
	petDisallowed = "ไม่อนุญาต"
	ageNoLimit    = "ไม่จำกัด"
	childrenTitle = "เด็กและเตียงเสริม"
)

// RuleNote is one house rule shown with a title and icon.
type RuleNote struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Icon    string `json:"icon"`
	Allowed *bool  `json:"allowed,omitempty"`
}

// HouseRules is the structured view of a villa's free-text policies.
type HouseRules struct {
	CheckIn  string     `json:"checkIn"`
	CheckOut string     `json:"checkOut"`
	Notes    []RuleNote `json:"notes"`
}

// ExtractHouseRules finds the well-known policies by topic keyword.
func ExtractHouseRules(policies []villas.Policy) HouseRules {
	rules := HouseRules{CheckIn: defaultCheckIn, CheckOut: defaultCheckOut, Notes: []RuleNote{}}

	if p, ok := findPolicy(policies, checkInTopics); ok {
		rules.CheckIn = unknownTime
		if t := clockPattern.FindString(p.Content); t != "" {
			rules.CheckIn = t
		}
	}
	if p, ok := findPolicy(policies, checkOutTopics); ok {
		// ranges such as "07:00 - 11:00" end at the second time
		switch times := clockPattern.FindAllString(p.Content, -1); {
		case len(times) > 1:
			rules.CheckOut = times[1]
		case len(times) == 1:
			rules.CheckOut = times[0]
		}
	}

	if p, ok := findPolicy(policies, petTopics); ok {
		allowed := strings.Contains(p.Content, petAllowed) && !strings.Contains(p.Content, petDisallowed)
		rules.Notes = append(rules.Notes, RuleNote{Title: "สัตว์เลี้ยง", Content: p.Content, Icon: "PawPrint", Allowed: &allowed})
	}
	if p, ok := findPolicy(policies, depositTopics); ok {
		rules.Notes = append(rules.Notes, RuleNote{Title: p.Topic, Content: p.Content, Icon: "Coins"})
	}
	if p, ok := findPolicy(policies, partyTopics); ok {
		rules.Notes = append(rules.Notes, RuleNote{Title: p.Topic, Content: p.Content, Icon: "VolumeX"})
	}
	if p, ok := findPolicy(policies, childTopics); ok {
		rules.Notes = append(rules.Notes, RuleNote{Title: childrenTitle, Content: p.Content, Icon: "Baby"})
	}
	if p, ok := findPolicy(policies, ageTopics); ok && !strings.Contains(p.Content, ageNoLimit) {
		rules.Notes = append(rules.Notes, RuleNote{Title: p.Topic, Content: p.Content, Icon: "UserX"})
	}
	return rules
}

func findPolicy(policies []villas.Policy, topics []string) (villas.Policy, bool) {
	for _, p := range policies {
		if ContainsAny(p.Topic, topics) {
			return p, true
		}
	}
	return villas.Policy{}, false
}
