package shared

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// MinPasswordLength is the shortest password registration accepts.
const MinPasswordLength = 6

// ValidEmail reports whether s has the basic local@domain.tld shape.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// EmailLocalPart returns the substring of email before the first "@".
func EmailLocalPart(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}

// StrengthLevel names a password strength band.
type StrengthLevel string

const (
	StrengthWeak   StrengthLevel = "weak"
	StrengthFair   StrengthLevel = "fair"
	StrengthGood   StrengthLevel = "good"
	StrengthStrong StrengthLevel = "strong"
)

// PasswordStrength scores a password shown beside the registration form.
type PasswordStrength struct {
	Score    int           // 0-100 in steps of 25
	Level    StrengthLevel // band for Score
	Feedback []string      // missing requirements
}

// passwordSpecials are the only non-digit characters that count toward the fourth check.
const passwordSpecials = "!@#$%^&*"

// MeasurePassword awards 25 points each for length, an ASCII uppercase letter, an ASCII
// lowercase letter, and a digit or one of !@#$%^&*.
func MeasurePassword(p string) PasswordStrength {
	var upper, lower, other bool
	for _, r := range p {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9', strings.ContainsRune(passwordSpecials, r):
			other = true
		}
	}

	s := PasswordStrength{}
	check := func(ok bool, hint string) {
		if ok {
			s.Score += 25
		} else {
			s.Feedback = append(s.Feedback, hint)
		}
	}
	check(len([]rune(p)) >= MinPasswordLength, "At least 6 characters")
	check(upper, "One uppercase letter")
	check(lower, "One lowercase letter")
	check(other, "One number or special character")

	switch {
	case s.Score < 25:
		s.Level = StrengthWeak
	case s.Score < 50:
		s.Level = StrengthFair
	case s.Score < 75:
		s.Level = StrengthGood
	default:
		s.Level = StrengthStrong
	}
	return s
}
