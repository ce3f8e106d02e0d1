package enrich

import (
	"strings"

	"villafinder/internal/domain/villas"
)

// TagRule maps free-text facility keywords to a normalized tag.
type TagRule struct {
	Tag      villas.FacilityTag
	Keywords []string
}

func rule(id, label, icon, color string, keywords ...string) TagRule {
	return TagRule{Tag: villas.FacilityTag{ID: id, Label: label, Icon: icon, Color: color}, Keywords: keywords}
}

// DefaultTagRules is the built-in facility vocabulary, in output order.
func DefaultTagRules() []TagRule {
	return []TagRule{
		rule("karaoke", "คาราโอเกะ", "Mic2", "purple", "คาราโอเกะ", "karaoke"),
		rule("pool_table", "โต๊ะพูล/สนุกเกอร์", "Target", "indigo", "โต๊ะพูล", "สนุ๊กเกอร์", "billiards", "pool table"),
		rule("slider", "สไลเดอร์น้ำ", "Waves", "cyan", "สไลเดอร์", "water slide"),
		rule("bbq", "เตาปิ้งย่าง BBQ", "Flame", "orange", "บาร์บีคิว", "bbq", "ปิ้งย่าง"),
		rule("private_pool", "สระว่ายน้ำส่วนตัว", "Waves", "cyan", "สระว่ายน้ำส่วนตัว", "สระส่วนตัว", "private pool"),
		rule("jacuzzi", "อ่างแช่ตัว/Jacuzzi", "Bath", "blue", "อ่างน้ำอุ่น", "jacuzzi", "จากุซซี่", "อ่างแช่ตัว"),
		rule("spa", "สปา/นวด", "Sparkles", "pink", "สปา", "spa", "นวด", "massage"),
		rule("fitness", "ฟิตเนส", "Dumbbell", "slate", "ศูนย์ออกกำลังกาย", "ฟิตเนส", "fitness", "gym"),
		rule("sauna", "ซาวน่า", "Thermometer", "red", "ซาวน่า", "sauna"),
		rule("beachfront", "ติดชายหาด", "Umbrella", "yellow", "ติดชายหาด", "ริมหาด", "beachfront"),
		rule("seaview", "วิวทะเล", "Palmtree", "blue", "วิวทะเล", "sea view"),
		rule("mountainview", "วิวภูเขา", "Mountain", "emerald", "วิวภูเขา", "mountain view"),
		rule("pet_friendly", "สัตว์เลี้ยงเข้าได้", "PawPrint", "green", "สัตว์เลี้ยง", "สุนัข", "แมว", "pets allowed", "pet friendly", "นำสัตว์เลี้ยงเข้าพักได้"),
		rule("breakfast", "มีอาหารเช้า", "Coffee", "amber", "อาหารเช้า", "breakfast"),
		rule("restaurant", "ร้านอาหารในที่พัก", "Utensils", "rose", "ห้องอาหาร", "ภัตตาคาร", "restaurant"),
		rule("bar", "มินิบาร์/บาร์", "Wine", "violet", "บาร์", "bar"),
		rule("kitchen", "อุปกรณ์ครัวครบ", "ChefHat", "orange", "ห้องครัว", "ห้องครัวส่วนตัว", "kitchen"),
		rule("wifi", "Free Wi-Fi", "Wifi", "sky", "wi-fi", "wifi", "อินเทอร์เน็ตไร้สาย"),
		rule("parking", "ที่จอดรถฟรี", "Car", "zinc", "ที่จอดรถ", "parking"),
		rule("airport_shuttle", "รถรับส่งสนามบิน", "Plane", "blue", "รถรับส่งสนามบิน", "airport shuttle"),
		rule("charging_station", "ที่ชาร์จรถ EV", "Zap", "green", "ชาร์จรถยนต์ไฟฟ้า", "ev charging"),
		rule("family_room", "เหมาะกับครอบครัว", "Users", "blue", "ห้องสำหรับครอบครัว", "family room"),
		rule("kid_friendly", "เหมาะสำหรับเด็ก", "Baby", "sky", "เด็ก", "สโมสรเด็ก", "สนามเด็กเล่น", "kids club", "playground", "สระว่ายน้ำเด็ก", "kids pool", "babysitting"),
		rule("accessibility", "รองรับรถเข็น/ผู้สูงอายุ", "Accessibility", "slate", "ผู้พิการ", "รถเข็น", "wheelchair", "accessible", "ทางลาด", "ห้องพักสำหรับผู้พิการ"),
		rule("elevator", "มีลิฟต์", "ArrowUpCircle", "gray", "ลิฟต์", "elevator", "lift"),
		rule("salt_water_pool", "สระน้ำเกลือ", "Sparkles", "blue", "สระน้ำเกลือ", "salt water pool"),
		rule("infinity_pool", "สระไร้ขอบ", "Waves", "cyan", "สระไร้ขอบ", "infinity pool"),
		rule("smoking_area", "มีพื้นที่สูบบุหรี่", "Wind", "zinc", "เขตสูบบุหรี่", "พื้นที่สูบบุหรี่", "smoking area"),
	}
}

// TagExtractor derives facility tags from scraped facility text.
type TagExtractor struct {
	rules []TagRule
}

// NewTagExtractor uses DefaultTagRules when rules is empty.
func NewTagExtractor(rules []TagRule) *TagExtractor {
	if len(rules) == 0 {
		rules = DefaultTagRules()
	}
	return &TagExtractor{rules: rules}
}

// Extract matches every popular item, category name and category item
// against the vocabulary. Each tag appears at most once, in rule order.
func (e *TagExtractor) Extract(f villas.Facilities) []villas.FacilityTag {
	parts := make([]string, 0, len(f.Popular)+len(f.Categories)+f.CategoryItemCount())
	parts = append(parts, f.Popular...)
	for _, cat := range f.Categories {
		parts = append(parts, cat.Name)
		parts = append(parts, cat.Items...)
	}
	text := strings.ToLower(strings.Join(parts, " "))
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var out []villas.FacilityTag
	for _, r := range e.rules {
		for _, k := range r.Keywords {
			if k != "" && strings.Contains(text, strings.ToLower(k)) {
				out = append(out, r.Tag)
				break
			}
		}
	}
	return out
}
