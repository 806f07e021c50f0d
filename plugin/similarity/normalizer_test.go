package similarity

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"whitespace only", "   \t\n  ", ""},
		{"already normalized", "campus faq chatbot", "campus faq chatbot"},
		{"uppercase", "Campus FAQ Chatbot", "campus faq chatbot"},
		{"surrounding whitespace", "  Campus FAQ chatbot  ", "campus faq chatbot"},
		{"internal runs", "campus \t faq \n\n chatbot", "campus faq chatbot"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
