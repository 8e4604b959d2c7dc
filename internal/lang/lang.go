// Package lang provides script-based language detection and the supported
// language table for the assistant.
package lang

import (
	"strings"
)

// Default is the base language used when detection finds nothing.
const Default = "en"

// Language pairs an ISO-639-ish code with its display name.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Supported lists the languages the assistant can reply in, in the order
// they are shown to the user.
var Supported = []Language{
	{Code: "en", Name: "English"},
	{Code: "hi", Name: "हिंदी (Hindi)"},
	{Code: "mr", Name: "मराठी (Marathi)"},
	{Code: "bn", Name: "বাংলা (Bengali)"},
	{Code: "te", Name: "తెలుగు (Telugu)"},
	{Code: "ta", Name: "தமிழ் (Tamil)"},
	{Code: "kn", Name: "ಕನ್ನಡ (Kannada)"},
	{Code: "gu", Name: "ગુજરાતી (Gujarati)"},
	{Code: "pa", Name: "ਪੰਜਾਬੀ (Punjabi)"},
}

// IsSupported reports whether code is in the supported set.
func IsSupported(code string) bool {
	for _, l := range Supported {
		if l.Code == code {
			return true
		}
	}
	return false
}

// Name returns the display name for a language code, defaulting to English
// for unknown codes.
func Name(code string) string {
	for _, l := range Supported {
		if l.Code == code {
			return l.Name
		}
	}
	return "English"
}

// scriptRange is one Unicode block tested during detection.
type scriptRange struct {
	code string
	lo   rune
	hi   rune
}

// Detection order is fixed: the first block that matches any character wins.
// Mixed-script input therefore resolves to the earliest block in this list,
// not to a majority vote.
var scripts = []scriptRange{
	{code: "hi", lo: 0x0900, hi: 0x097F}, // Devanagari, shared with Marathi
	{code: "bn", lo: 0x0980, hi: 0x09FF},
	{code: "te", lo: 0x0C00, hi: 0x0C7F},
	{code: "ta", lo: 0x0B80, hi: 0x0BFF},
	{code: "kn", lo: 0x0C80, hi: 0x0CFF},
	{code: "gu", lo: 0x0A80, hi: 0x0AFF},
	{code: "pa", lo: 0x0A00, hi: 0x0A7F}, // Gurmukhi
}

// Marathi shares the Devanagari block with Hindi. These marker words pick
// Marathi out of Devanagari text. Marathi text that uses none of them is
// reported as Hindi.
var marathiMarkers = []string{"आहे", "माझा", "तुमचा"}

// Detect returns the best-guess language code for the text. Empty or
// whitespace-only input, and text matching no script block, return Default.
func Detect(text string) string {
	if strings.TrimSpace(text) == "" {
		return Default
	}

	normalized := strings.ToLower(text)

	for _, s := range scripts {
		if !containsRange(normalized, s.lo, s.hi) {
			continue
		}
		if s.code == "hi" && containsAny(normalized, marathiMarkers) {
			return "mr"
		}
		return s.code
	}

	return Default
}

func containsRange(text string, lo, hi rune) bool {
	for _, r := range text {
		if r >= lo && r <= hi {
			return true
		}
	}
	return false
}

func containsAny(text string, substrings []string) bool {
	for _, s := range substrings {
		if strings.Contains(text, s) {
			return true
		}
	}
	return false
}
