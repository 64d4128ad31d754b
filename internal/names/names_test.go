package names

import "testing"

func TestRemoveDiacritics(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"czech", "Jiří Novák", "Jiri Novak"},
		{"french", "Renée", "Renee"},
		{"german", "MÜLLER", "MULLER"},
		{"plain ascii unchanged", "John Smith", "John Smith"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RemoveDiacritics(tt.input)
			if got != tt.expected {
				t.Errorf("RemoveDiacritics(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercases", "John", "john"},
		{"strips diacritics", "Jiří", "jiri"},
		{"dashes to spaces", "anna-marie", "anna marie"},
		{"underscores to spaces", "john_smith", "john smith"},
		{"trims whitespace", "  petra  ", "petra"},
		{"combined", "  Jiří-Novák ", "jiri novak"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected bool
	}{
		{"same person different diacritics", "Jiří", "jiri", true},
		{"dash versus space", "anna-marie", "Anna Marie", true},
		{"different people", "john", "jane", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Match(tt.a, tt.b); got != tt.expected {
				t.Errorf("Match(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}
