package lang

import "testing"

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "English text", text: "How do I improve my soil?", want: "en"},
		{name: "Empty input", text: "", want: "en"},
		{name: "Whitespace only", text: "   \t\n", want: "en"},
		{name: "Digits and punctuation", text: "1234 !?", want: "en"},
		{name: "Hindi Devanagari", text: "मिट्टी का स्वास्थ्य कैसे सुधारें", want: "hi"},
		{name: "Marathi marker in Devanagari", text: "माझा प्रश्न मातीबद्दल आहे", want: "mr"},
		{name: "Devanagari without Marathi markers", text: "पानी कब देना चाहिए", want: "hi"},
		{name: "Bengali", text: "মাটির স্বাস্থ্য", want: "bn"},
		{name: "Telugu", text: "నేల ఆరోగ్యం", want: "te"},
		{name: "Tamil", text: "மண் ஆரோக்கியம்", want: "ta"},
		{name: "Kannada", text: "ಮಣ್ಣಿನ ಆರೋಗ್ಯ", want: "kn"},
		{name: "Gujarati", text: "માટીનું સ્વાસ્થ્ય", want: "gu"},
		{name: "Punjabi Gurmukhi", text: "ਮਿੱਟੀ ਦੀ ਸਿਹਤ", want: "pa"},
		{name: "Mixed English and Hindi resolves to Hindi", text: "soil मिट्टी", want: "hi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.text); got != tt.want {
				t.Errorf("Detect(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestIsSupported(t *testing.T) {
	for _, l := range Supported {
		if !IsSupported(l.Code) {
			t.Errorf("IsSupported(%q) = false, want true", l.Code)
		}
	}
	if IsSupported("fr") {
		t.Error("IsSupported(fr) = true, want false")
	}
	if IsSupported("") {
		t.Error("IsSupported(\"\") = true, want false")
	}
}

func TestName(t *testing.T) {
	if got := Name("mr"); got != "मराठी (Marathi)" {
		t.Errorf("Name(mr) = %q", got)
	}
	if got := Name("unknown"); got != "English" {
		t.Errorf("Name(unknown) = %q, want English fallback", got)
	}
}

func TestAgriTermsFallback(t *testing.T) {
	en := AgriTerms("en")
	if en["soil"] == "" {
		t.Fatal("English agri terms missing soil entry")
	}

	// Unknown codes fall back to English.
	if got := AgriTerms("fr"); got["soil"] != en["soil"] {
		t.Errorf("AgriTerms(fr) soil = %q, want English fallback %q", got["soil"], en["soil"])
	}

	hi := AgriTerms("hi")
	if hi["soil"] == en["soil"] {
		t.Error("Hindi agri terms should differ from English")
	}
}

func TestQuickQuestions(t *testing.T) {
	for _, code := range []string{"en", "hi", "mr"} {
		if qs := QuickQuestions(code); len(qs) == 0 {
			t.Errorf("QuickQuestions(%q) returned no questions", code)
		}
	}
	// Languages without curated questions fall back to English.
	en := QuickQuestions("en")
	te := QuickQuestions("te")
	if len(te) != len(en) {
		t.Errorf("QuickQuestions(te) len = %d, want English fallback len %d", len(te), len(en))
	}
}
