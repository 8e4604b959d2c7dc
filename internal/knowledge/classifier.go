package knowledge

import (
	"strings"
)

// agricultureKeywords is the fixed vocabulary deciding whether a query is
// agricultural. Membership only selects which system context accompanies a
// generative request; it never affects local resolution.
var agricultureKeywords = []string{
	// Crops and farming
	"crop", "farm", "harvest", "plant", "seed", "soil", "fertilizer", "pesticide",
	"irrigation", "cultivation", "agriculture", "field", "yield", "organic", "sowing",

	// Specific crops
	"rice", "wheat", "maize", "corn", "cotton", "sugarcane", "potato", "tomato",
	"onion", "pulse", "lentil", "vegetable", "fruit", "millet", "sorghum", "barley",

	// Weather and seasons
	"monsoon", "rainfall", "drought", "climate", "season", "rabi", "kharif", "zaid",

	// Pests and diseases
	"pest", "disease", "fungus", "bacteria", "virus", "insect", "weed", "blight",
	"rot", "infestation",

	// Equipment and technology
	"tractor", "plow", "plough", "thresher", "harvester", "sprayer", "drip",

	// Market and economics
	"mandi", "market", "price", "msp", "subsidy", "loan", "kisan", "farmer",

	// Hindi/Marathi terms
	"खेती", "किसान", "फसल", "बीज", "मिट्टी", "खाद", "सिंचाई", "कृषि",
	"शेती", "शेतकरी", "पीक", "बियाणे", "माती", "खत", "सिंचन",
}

// IsAgriculture reports whether the query mentions any agriculture-domain
// keyword.
func IsAgriculture(query string) bool {
	lowered := strings.ToLower(query)
	for _, kw := range agricultureKeywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}
