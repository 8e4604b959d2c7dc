package knowledge

import (
	"strings"
	"testing"
)

func mustBase(t *testing.T) *Base {
	t.Helper()
	b, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	return b
}

func TestFind(t *testing.T) {
	b := mustBase(t)

	tests := []struct {
		name     string
		query    string
		language string
		contains string
	}{
		{name: "Soil keyword English", query: "how can I improve my soil?", language: "en", contains: "soil health"},
		{name: "Keyword inside sentence", query: "tell me about drip irrigation please", language: "en", contains: "water management"},
		{name: "Hindi keyword", query: "मिट्टी कैसे सुधारें", language: "hi", contains: "मिट्टी"},
		{name: "Marathi keyword", query: "माती सुधारणा", language: "mr", contains: "माती"},
		{name: "Case insensitive", query: "SOIL problems", language: "en", contains: "soil health"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := b.Find(tt.query, tt.language)
			if got == "" {
				t.Fatalf("Find(%q, %q) returned empty", tt.query, tt.language)
			}
			if !strings.Contains(strings.ToLower(got), strings.ToLower(tt.contains)) {
				t.Errorf("Find(%q, %q) = %q, want substring %q", tt.query, tt.language, got, tt.contains)
			}
		})
	}
}

func TestFindNoMatch(t *testing.T) {
	b := mustBase(t)
	if got := b.Find("what is the capital of france", "en"); got != "" {
		t.Errorf("Find(off-topic) = %q, want empty", got)
	}
}

func TestFindEnglishFallback(t *testing.T) {
	b := mustBase(t)
	// Bengali has no curated responses; the English text is served.
	en := b.Find("soil health", "en")
	bn := b.Find("soil health", "bn")
	if bn != en {
		t.Errorf("Find with bn = %q, want English fallback %q", bn, en)
	}
}

func TestFindFirstMatchWins(t *testing.T) {
	b := mustBase(t)
	// "soil" (first entry) and "water" (later entry) both appear; the
	// first listed entry answers.
	combined := b.Find("soil and water", "en")
	soilOnly := b.Find("soil", "en")
	if combined != soilOnly {
		t.Errorf("first-match rule violated: got %q, want %q", combined, soilOnly)
	}
}

func TestCropInfo(t *testing.T) {
	b := mustBase(t)
	got := b.CropInfo("how do I grow rice?", "en")
	if got == "" {
		t.Fatal("CropInfo(rice) returned empty")
	}
	if b.CropInfo("how do I grow mangoes?", "en") != "" {
		t.Error("CropInfo(unknown crop) should return empty")
	}
}

func TestIsAgriculture(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"when should I plant wheat", true},
		{"best fertilizer for tomatoes", true},
		{"मेरी फसल को पानी कब दें", true},
		{"when does the monsoon arrive", true},
		{"who won the cricket match", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsAgriculture(tt.query); got != tt.want {
			t.Errorf("IsAgriculture(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}
