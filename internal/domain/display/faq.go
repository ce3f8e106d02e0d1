package display

import "strings"

// FAQ is one synthesized question and answer.
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// FAQRule turns a keyword group into a question. Answer may reference the
// matched amenities with {first} or {items}. A rule with a Fallback is
// always emitted; rules without one are emitted only on a match.
type FAQRule struct {
	Question string   `yaml:"question"`
	Keywords []string `yaml:"keywords"`
	Answer   string   `yaml:"answer"`
	Fallback string   `yaml:"fallback"`
	// MaxItems caps the unique amenity names written into {items}.
	MaxItems   int    `yaml:"max_items"`
	MoreSuffix string `yaml:"more_suffix"`
}

func (r FAQRule) render(amenities []string) (FAQ, bool) {
	matched := matching(amenities, r.Keywords)
	if len(matched) == 0 {
		if r.Fallback == "" {
			return FAQ{}, false
		}
		return FAQ{Question: r.Question, Answer: r.Fallback}, true
	}
	answer := strings.ReplaceAll(r.Answer, "{first}", matched[0])
	if strings.Contains(answer, "{items}") {
		items := unique(matched)
		suffix := ""
		if r.MaxItems > 0 && len(items) > r.MaxItems {
			items = items[:r.MaxItems]
			suffix = r.MoreSuffix
		}
		answer = strings.ReplaceAll(answer, "{items}", strings.Join(items, ", ")+suffix)
	}
	return FAQ{Question: r.Question, Answer: answer}, true
}

// DefaultFAQRules is the built-in question set. Breakfast is asked for every
// villa since most guests want to know; the others only when the amenity
// list backs the answer.
func DefaultFAQRules() []FAQRule {
	return []FAQRule{
		{
			Question: "มีอาหารเช้าไหม?",
			Keywords: []string{"อาหารเช้า", "Breakfast"},
			Answer:   "มีบริการอาหารเช้าฟรีสำหรับผู้เข้าพักครับ",
			Fallback: "ราคาที่พักไม่รวมอาหารเช้าครับ (เป็นบ้านพักส่วนตัว) แต่เรามีห้องครัว ตู้เย็น และอุปกรณ์ทำอาหารครบชุด ลูกค้าสามารถเตรียมวัตถุดิบมาทำเองได้สะดวกมากครับ",
		},
		{
			Question: "ปิ้งย่างได้ไหม?",
			Keywords: []string{"เตา", "ปิ้งย่าง", "BBQ", "Grill"},
			Answer:   "ปิ้งย่างได้ครับ! เรามีเตา BBQ และอุปกรณ์ปิ้งย่างเตรียมไว้ให้พร้อม ลูกค้าเตรียมแค่อาหารสด น้ำจิ้ม และถ่านมาก็ปาร์ตี้ได้เลยครับ",
		},
		{
			Question: "มีคาราโอเกะไหม?",
			Keywords: []string{"คาราโอเกะ", "Karaoke", "ร้องเพลง", "ลำโพง"},
			Answer:   "มีครับ! บ้านพักมีชุดคาราโอเกะพร้อมเครื่องเสียงคุณภาพดี ให้คุณร้องเพลงสังสรรค์ได้เต็มที่ (ภายในตัวบ้าน)",
		},
		{
			Question:   "ทำอาหารได้ไหม มีอุปกรณ์อะไรบ้าง?",
			Keywords:   []string{"ครัว", "ตู้เย็น", "ไมโครเวฟ", "กระทะ", "หม้อ", "จาน", "ชาม"},
			Answer:     "ทำอาหารได้ครับ ในบ้านมีอุปกรณ์เตรียมไว้ให้: {items} (ลูกค้าเตรียมแค่วัตถุดิบและเครื่องปรุงมาครับ)",
			MaxItems:   5,
			MoreSuffix: " และอื่นๆ",
		},
		{
			Question: "มีที่จอดรถไหม?",
			Keywords: []string{"จอดรถ"},
			Answer:   "มีครับ {first} (ปลอดภัยและสะดวกสบายครับ)",
		},
		{
			Question: "มี Wi-Fi ให้ใช้ไหม?",
			Keywords: []string{"wifi", "เน็ต"},
			Answer:   "มีบริการ Free Wi-Fi ความเร็วสูงทั่วบริเวณบ้านพักครับ",
		},
	}
}

// FAQSynthesizer derives FAQ entries from amenity text.
type FAQSynthesizer struct {
	rules []FAQRule
}

// NewFAQSynthesizer uses DefaultFAQRules when rules is empty.
func NewFAQSynthesizer(rules []FAQRule) *FAQSynthesizer {
	if len(rules) == 0 {
		rules = DefaultFAQRules()
	}
	return &FAQSynthesizer{rules: rules}
}

// Synthesize returns at most one entry per rule, in rule order.
func (s *FAQSynthesizer) Synthesize(amenities []string) []FAQ {
	out := make([]FAQ, 0, len(s.rules))
	for _, rule := range s.rules {
		if faq, ok := rule.render(amenities); ok {
			out = append(out, faq)
		}
	}
	return out
}
