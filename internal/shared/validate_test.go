package shared

import "testing"

func TestValidEmail(t *testing.T) {
	tc := []struct {
		in   string
		want bool
	}{
		{"user@example.com", true},
		{"first.last@sub.domain.org", true},
		{"", false},
		{"user", false},
		{"user@domain", false},
		{"user @example.com", false},
		{"@example.com", false},
		{"a@b@c.com", false},
	}

	for _, tt := range tc {
		t.Run(tt.in, func(t *testing.T) {
			if got := ValidEmail(tt.in); got != tt.want {
				t.Errorf("ValidEmail(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestEmailLocalPart(t *testing.T) {
	if got := EmailLocalPart("jane.doe@example.com"); got != "jane.doe" {
		t.Errorf("EmailLocalPart() = %q, want jane.doe", got)
	}
	if got := EmailLocalPart("noat"); got != "noat" {
		t.Errorf("EmailLocalPart() = %q, want noat", got)
	}
}

func TestMeasurePassword(t *testing.T) {
	tc := []struct {
		name     string
		password string
		score    int
		level    StrengthLevel
		feedback int
	}{
		{"empty", "", 0, StrengthWeak, 4},
		{"short lower", "abc", 25, StrengthFair, 3},
		{"long lower", "abcdef", 50, StrengthGood, 2},
		{"mixed case", "Abcdef", 75, StrengthStrong, 1},
		{"all checks", "Abcdef1!", 100, StrengthStrong, 0},
		{"non-ascii letters", "ÄÖÜäöü", 25, StrengthFair, 3},
		{"unlisted symbol", "abcdef-", 50, StrengthGood, 2},
		{"listed symbol", "abcdef#", 75, StrengthStrong, 1},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := MeasurePassword(tt.password)
			if got.Score != tt.score {
				t.Errorf("score = %d, want %d", got.Score, tt.score)
			}
			if got.Level != tt.level {
				t.Errorf("level = %s, want %s", got.Level, tt.level)
			}
			if len(got.Feedback) != tt.feedback {
				t.Errorf("feedback = %v, want %d entries", got.Feedback, tt.feedback)
			}
		})
	}
}
