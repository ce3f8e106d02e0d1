package enrich

import (
	"regexp"
	"strings"
)

// Area is a district and its province.
type Area struct {
	District string
	Province string
}

type keywordArea struct {
	keyword string
	area    Area
}

var (
	postcodePattern = regexp.MustCompile(`\b(\d{5})\b`)
	prefixPattern   = regexp.MustCompile(`(?i)^(Tambon|Amphoe|Sub-district|District|ต\.|อ\.|ตำบล|อำเภอ)\s*`)
)

var postcodeAreas = map[string]Area{
	"20150": {"Pattaya", "Chonburi"}, "20260": {"Pattaya", "Chonburi"},
	"20250": {"Sattahip", "Chonburi"}, "20000": {"Mueang Chonburi", "Chonburi"},
	"77110": {"Hua Hin", "Prachuap Khiri Khan"}, "77120": {"Pranburi", "Prachuap Khiri Khan"},
	"77220": {"Pranburi", "Prachuap Khiri Khan"}, "77210": {"Sam Roi Yot", "Prachuap Khiri Khan"},
	"50000": {"Mueang Chiang Mai", "Chiang Mai"}, "50100": {"Mueang Chiang Mai", "Chiang Mai"},
	"50230": {"Hang Dong", "Chiang Mai"}, "50180": {"Mae Rim", "Chiang Mai"},
	"50210": {"San Sai", "Chiang Mai"}, "50220": {"Doi Saket", "Chiang Mai"},
	"50150": {"Mae Taeng", "Chiang Mai"}, "50140": {"Mae Taeng", "Chiang Mai"},
	"50170": {"Chiang Dao", "Chiang Mai"},
	"83000": {"Mueang Phuket", "Phuket"}, "83100": {"Mueang Phuket", "Phuket"},
	"83130": {"Mueang Phuket", "Phuket"}, "83150": {"Kathu", "Phuket"},
	"83120": {"Kathu", "Phuket"}, "83110": {"Thalang", "Phuket"},
	"84320": {"Ko Samui", "Surat Thani"}, "84140": {"Ko Samui", "Surat Thani"},
	"84410": {"Ko Samui", "Surat Thani"}, "84280": {"Ko Pha-ngan", "Surat Thani"},
	"84360": {"Ko Pha-ngan", "Surat Thani"},
	"84230": {"Ban Ta Khun", "Surat Thani"},
	"81000": {"Mueang Krabi", "Krabi"}, "81180": {"Mueang Krabi", "Krabi"},
	"81150": {"Ko Lanta", "Krabi"}, "81130": {"Nuea Khlong", "Krabi"},
	"82160": {"Takua Thung", "Phang Nga"},
	"82110": {"Mueang Phang Nga", "Phang Nga"},
	"82190": {"Ko Yao", "Phang Nga"},
	"76120": {"Cha-am", "Phetchaburi"}, "76000": {"Mueang Phetchaburi", "Phetchaburi"},
	"76170": {"Kaeng Krachan", "Phetchaburi"},
	"30130": {"Pak Chong", "Nakhon Ratchasima"}, "30320": {"Pak Chong", "Nakhon Ratchasima"},
	"26000": {"Mueang Nakhon Nayok", "Nakhon Nayok"},
	"18220": {"Kaeng Khoi", "Saraburi"},
	"18180": {"Muak Lek", "Saraburi"},
	"23170": {"Ko Chang", "Trat"}, "23120": {"Ko Kut", "Trat"},
	"21130": {"Ban Chang", "Rayong"}, "21110": {"Klaeng", "Rayong"},
}

// keywordAreas is checked in order; earlier entries win.
var keywordAreas = []keywordArea{
	{"baanthi", Area{"Ban Thi", "Lamphun"}}, {"Lamphun", Area{"Mueang Lamphun", "Lamphun"}},
	{"ช่อแล", Area{"Mae Taeng", "Chiang Mai"}}, {"เมืองก๋าย", Area{"Mae Taeng", "Chiang Mai"}},
	{"แม่แตง", Area{"Mae Taeng", "Chiang Mai"}}, {"แม่แฝก", Area{"San Sai", "Chiang Mai"}},
	{"ท่าวังตาล", Area{"Saraphi", "Chiang Mai"}},
	{"เมืองงาย", Area{"Chiang Dao", "Chiang Mai"}},
	{"สันผีเสื้อ", Area{"Mueang Chiang Mai", "Chiang Mai"}}, {"สันปูเลย", Area{"Doi Saket", "Chiang Mai"}},

	{"Ban Huai Yai", Area{"Pattaya", "Chonburi"}}, {"Huay Yai", Area{"Pattaya", "Chonburi"}},
	{"Cholburi", Area{"Mueang Chonburi", "Chonburi"}},
	{"พลา", Area{"Ban Chang", "Rayong"}},
	{"พลูตาหลวง", Area{"Sattahip", "Chonburi"}},
	{"แกลง", Area{"Klaeng", "Rayong"}}, {"Ban Chang", Area{"Ban Chang", "Rayong"}},

	{"Khok Kloi", Area{"Takua Thung", "Phang Nga"}}, {"Natai Beach", Area{"Takua Thung", "Phang Nga"}},
	{"Tha Yu", Area{"Takua Thung", "Phang Nga"}},
	{"Koh Yao", Area{"Ko Yao", "Phang Nga"}}, {"Ko Yao Noi", Area{"Ko Yao", "Phang Nga"}},
	{"Phang Nga", Area{"Mueang Phang Nga", "Phang Nga"}}, {"Phangnga", Area{"Mueang Phang Nga", "Phang Nga"}},
	{"Phi Phi Island", Area{"Mueang Krabi", "Krabi"}}, {"เหนือคลอง", Area{"Nuea Khlong", "Krabi"}},

	{"Muak Lek", Area{"Muak Lek", "Saraburi"}}, {"Sara Buri", Area{"Mueang Saraburi", "Saraburi"}},
	{"สระบุรี", Area{"Mueang Saraburi", "Saraburi"}}, {"แสลงพัน", Area{"Wang Muang", "Saraburi"}},
	{"พญาเย็น", Area{"Pak Chong", "Nakhon Ratchasima"}},
	{"นครราชสีมา", Area{"Mueang Nakhon Ratchasima", "Nakhon Ratchasima"}},
	{"นคราชสีมา", Area{"Mueang Nakhon Ratchasima", "Nakhon Ratchasima"}},
	{"Si Khio", Area{"Sikhio", "Nakhon Ratchasima"}},
	{"Nakhon Nayok", Area{"Mueang Nakhon Nayok", "Nakhon Nayok"}},

	{"Petchburi", Area{"Mueang Phetchaburi", "Phetchaburi"}},
	{"แก่งกระจาน", Area{"Kaeng Krachan", "Phetchaburi"}},
	{"หาดเจ้าสำราญ", Area{"Mueang Phetchaburi", "Phetchaburi"}},

	{"Bo Nok", Area{"Mueang Prachuap Khiri Khan", "Prachuap Khiri Khan"}},
	{"Khlong Wan", Area{"Mueang Prachuap Khiri Khan", "Prachuap Khiri Khan"}},
	{"Prachuap Khiri Khan", Area{"Mueang Prachuap Khiri Khan", "Prachuap Khiri Khan"}},
	{"Kui Buri", Area{"Kui Buri", "Prachuap Khiri Khan"}}, {"กุยเหนือ", Area{"Kui Buri", "Prachuap Khiri Khan"}},
	{"ทับสะแก", Area{"Thap Sakae", "Prachuap Khiri Khan"}}, {"บางสะพาน", Area{"Bang Saphan", "Prachuap Khiri Khan"}},

	{"Bophut", Area{"Ko Samui", "Surat Thani"}},
	{"เกาะเต่า", Area{"Ko Pha-ngan", "Surat Thani"}}, {"Ko Tao", Area{"Ko Pha-ngan", "Surat Thani"}},
	{"เชี่ยวหลาน", Area{"Ban Ta Khun", "Surat Thani"}},

	{"Klong Son", Area{"Ko Chang", "Trat"}}, {"Koh Chang", Area{"Ko Chang", "Trat"}},
	{"Koh Chang Tai", Area{"Ko Chang", "Trat"}}, {"เกาะช้าง", Area{"Ko Chang", "Trat"}},
	{"เกาะกูด", Area{"Ko Kut", "Trat"}},

	{"เขารูปช้าง", Area{"Mueang Phuket", "Phuket"}},
}

// CleanLocation resolves the district and province of a scraped address.
// Postcodes win over keywords; failing both, the current district is kept
// with its administrative prefix removed. ok is false when nothing could be
// resolved; Province may be empty when only the district is known.
func CleanLocation(address, currentDistrict string) (Area, bool) {
	if m := postcodePattern.FindStringSubmatch(address); m != nil {
		if area, ok := postcodeAreas[m[1]]; ok {
			return area, true
		}
	}

	target := strings.ToLower(address + " " + currentDistrict)
	for _, ka := range keywordAreas {
		if strings.Contains(target, strings.ToLower(ka.keyword)) {
			return ka.area, true
		}
	}

	district := strings.TrimSpace(prefixPattern.ReplaceAllString(strings.TrimSpace(currentDistrict), ""))
	if district == "" {
		return Area{}, false
	}
	for _, ka := range keywordAreas {
		if strings.EqualFold(ka.keyword, district) {
			return ka.area, true
		}
	}
	return Area{District: district}, true
}
