package lang

// agriTerms maps a handful of core agricultural terms to their localized
// forms, used by the dashboard for labels and quick suggestions.
var agriTerms = map[string]map[string]string{
	"crop": {
		"en": "crop", "hi": "फसल", "mr": "पीक", "bn": "ফসল", "te": "పంట",
		"ta": "பயிர்", "kn": "ಬೆಳೆ", "gu": "પાક", "pa": "ਫਸਲ",
	},
	"soil": {
		"en": "soil", "hi": "मिट्टी", "mr": "माती", "bn": "মাটি", "te": "నేల",
		"ta": "மண்", "kn": "ಮಣ್ಣು", "gu": "માટી", "pa": "ਮਿੱਟੀ",
	},
	"water": {
		"en": "water", "hi": "पानी", "mr": "पाणी", "bn": "জল", "te": "నీరు",
		"ta": "நீர்", "kn": "ನೀರು", "gu": "પાણી", "pa": "ਪਾਣੀ",
	},
	"fertilizer": {
		"en": "fertilizer", "hi": "उर्वरक", "mr": "खत", "bn": "সার", "te": "ఎరువు",
		"ta": "உரம்", "kn": "ಗೊಬ್ಬರ", "gu": "ખાતર", "pa": "ਖਾਦ",
	},
	"weather": {
		"en": "weather", "hi": "मौसम", "mr": "हवामान", "bn": "আবহাওয়া", "te": "వాతావరణం",
		"ta": "வானிலை", "kn": "ಹವಾಮಾನ", "gu": "હવામાન", "pa": "ਮੌਸਮ",
	},
}

// AgriTerms returns core agricultural terms localized for the language,
// falling back to English per term.
func AgriTerms(code string) map[string]string {
	out := make(map[string]string, len(agriTerms))
	for term, translations := range agriTerms {
		if t, ok := translations[code]; ok {
			out[term] = t
		} else {
			out[term] = translations[Default]
		}
	}
	return out
}

var quickQuestions = map[string][]string{
	"en": {
		"How to improve soil health?",
		"Best practices for water conservation?",
		"How to deal with common crop diseases?",
		"Recommended fertilizers for my crops?",
		"Weather-resistant farming techniques?",
	},
	"hi": {
		"मिट्टी के स्वास्थ्य को कैसे सुधारें?",
		"पानी संरक्षण के लिए सर्वोत्तम प्रथाएं?",
		"सामान्य फसल रोगों से कैसे निपटें?",
		"मेरी फसलों के लिए अनुशंसित उर्वरक?",
		"मौसम प्रतिरोधी खेती तकनीक?",
	},
	"mr": {
		"मातीचे आरोग्य कसे सुधारावे?",
		"पाणी संवर्धनासाठी सर्वोत्तम पद्धती?",
		"सामान्य पीक रोगांशी कसे सामना करावे?",
		"माझ्या पिकांसाठी शिफारस केलेली खते?",
		"हवामान-प्रतिरोधक शेती तंत्रे?",
	},
}

// QuickQuestions returns suggested starter questions for the language,
// falling back to English.
func QuickQuestions(code string) []string {
	if qs, ok := quickQuestions[code]; ok {
		return qs
	}
	return quickQuestions[Default]
}
