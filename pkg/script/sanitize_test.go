package script

import "testing"

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain name", "Tappu", "Tappu"},
		{"parenthetical suffix", "Tappu (smiling)", "Tappu"},
		{"multiple parentheticals", "Tappu (smiling) (to Bhide)", "Tappu"},
		{"dash description", "Jethalal - shop owner", "Jethalal"},
		{"em dash description", "Jethalal — shop owner", "Jethalal"},
		{"hyphenated name survives", "Anna-Marie", "Anna-Marie"},
		{"apostrophe survives", "D'Souza", "D'Souza"},
		{"emoji stripped", "Hero 🎭", "Hero"},
		{"punctuation stripped", "Hero!!", "Hero"},
		{"markdown stripped", "**Hero**", "Hero"},
		{"whitespace trimmed", "  Hero  ", "Hero"},
		{"digits kept", "Robot 3000", "Robot 3000"},
		{"empty input", "", ""},
		{"only noise", "(laughs)", ""},
		{"only symbols", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeName(tt.input); got != tt.want {
				t.Errorf("SanitizeName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtractParentheticals(t *testing.T) {
	if got := extractParentheticals("Tappu (smiling) (to Bhide)"); got != "smiling to Bhide" {
		t.Errorf("expected %q, got %q", "smiling to Bhide", got)
	}
	if got := extractParentheticals("Tappu"); got != "" {
		t.Errorf("expected empty metadata, got %q", got)
	}
}
