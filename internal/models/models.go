package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Keys under which state is persisted.
const (
	KeyUser      = "moviebot_user"
	KeyRemember  = "moviebot_remember"
	KeyWatchlist = "moviebot_watchlist"
	KeyRatings   = "moviebot_ratings"
)

// MovieID is the canonical movie identifier.
//
// Stored data from older front ends mixes numeric and string ids, so decoding accepts both and
// always yields the string form.
type MovieID string

// integralID matches unsigned decimal integers, optionally followed by a zero fraction.
var integralID = regexp.MustCompile(`^(\d+)(?:\.0+)?$`)

// ParseMovieID normalizes a route parameter or stored value into a [MovieID].
//
// Surrounding whitespace is trimmed. Integral forms drop leading zeros and any ".0" fraction
// textually, so ids of any size keep every digit. Anything else ("1e3", "3.5", slugs) is kept as
// written.
func ParseMovieID(v any) (MovieID, error) {
	switch t := v.(type) {
	case MovieID:
		return ParseMovieID(string(t))
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return "", fmt.Errorf("empty movie id")
		}
		if m := integralID.FindStringSubmatch(s); m != nil {
			digits := strings.TrimLeft(m[1], "0")
			if digits == "" {
				digits = "0"
			}
			return MovieID(digits), nil
		}
		return MovieID(s), nil
	case int:
		return MovieID(strconv.Itoa(t)), nil
	case int64:
		return MovieID(strconv.FormatInt(t, 10)), nil
	case float64:
		return MovieID(strconv.FormatFloat(t, 'f', -1, 64)), nil
	case json.Number:
		return ParseMovieID(t.String())
	default:
		return "", fmt.Errorf("unsupported movie id type %T", v)
	}
}

// String implements [fmt.Stringer].
func (id MovieID) String() string { return string(id) }

// UnmarshalJSON accepts a JSON string or number.
func (id *MovieID) UnmarshalJSON(data []byte) error {
	s, err := flexibleString(data)
	if err != nil {
		return fmt.Errorf("movie id: %w", err)
	}
	parsed, err := ParseMovieID(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// flexibleString decodes a JSON string or number into its string form.
func flexibleString(data []byte) (string, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", err
		}
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

// Provider identifies how a [Session] was created.
type Provider string

const (
	ProviderLocal    Provider = "local"
	ProviderGoogle   Provider = "google"
	ProviderFacebook Provider = "facebook"
)

// ParseProvider matches name case-insensitively against the known providers.
func ParseProvider(name string) (Provider, bool) {
	switch p := Provider(strings.ToLower(strings.TrimSpace(name))); p {
	case ProviderLocal, ProviderGoogle, ProviderFacebook:
		return p, true
	default:
		return "", false
	}
}

// Display returns the capitalized provider name, e.g. "Google".
func (p Provider) Display() string {
	if p == "" {
		return ""
	}
	return strings.ToUpper(string(p[:1])) + string(p[1:])
}

// Preferences holds user-selected options captured at registration.
type Preferences struct {
	FavoriteGenres []string `json:"favoriteGenres"`
}

// Session is the persisted record of the logged in user. At most one exists at a time.
type Session struct {
	ID          string      `json:"id"`
	Email       string      `json:"email"`
	Name        string      `json:"name"`
	FirstName   string      `json:"firstName,omitempty"`
	LastName    string      `json:"lastName,omitempty"`
	Provider    Provider    `json:"provider"`
	CreatedAt   time.Time   `json:"createdAt"`
	Preferences Preferences `json:"preferences"`
}

// UnmarshalJSON decodes a session, accepting numeric ids and the legacy loginTime/joinDate timestamps.
func (s *Session) UnmarshalJSON(data []byte) error {
	type plain Session
	var raw struct {
		plain
		ID        json.RawMessage `json:"id"`
		Provider  Provider        `json:"provider"`
		CreatedAt *time.Time      `json:"createdAt"`
		LoginTime *time.Time      `json:"loginTime"`
		JoinDate  *time.Time      `json:"joinDate"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*s = Session(raw.plain)
	if len(raw.ID) > 0 && string(raw.ID) != "null" {
		id, err := flexibleString(raw.ID)
		if err != nil {
			return fmt.Errorf("session id: %w", err)
		}
		s.ID = id
	}

	s.Provider = raw.Provider
	if s.Provider == "" {
		s.Provider = ProviderLocal
	}

	for _, ts := range []*time.Time{raw.CreatedAt, raw.LoginTime, raw.JoinDate} {
		if ts != nil {
			s.CreatedAt = *ts
			break
		}
	}

	if s.Preferences.FavoriteGenres == nil {
		s.Preferences.FavoriteGenres = []string{}
	}
	return nil
}

// Validate reports whether the session can be treated as an active login.
func (s *Session) Validate() error {
	if s == nil {
		return fmt.Errorf("session is nil")
	}
	if s.ID == "" {
		return fmt.Errorf("session id is required")
	}
	if s.Email == "" {
		return fmt.Errorf("session email is required")
	}
	return nil
}

// MinRating and MaxRating bound [Rating.Value].
const (
	MinRating = 1
	MaxRating = 5
)

// Rating is a user's score for one movie. Re-rating overwrites.
type Rating struct {
	Value   int       `json:"rating"`
	RatedAt time.Time `json:"date"`
	UserID  string    `json:"userId"`
}

// UnmarshalJSON accepts legacy numeric user ids.
func (r *Rating) UnmarshalJSON(data []byte) error {
	var raw struct {
		Value   int             `json:"rating"`
		RatedAt time.Time       `json:"date"`
		UserID  json.RawMessage `json:"userId"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.Value, r.RatedAt, r.UserID = raw.Value, raw.RatedAt, ""
	if len(raw.UserID) > 0 && string(raw.UserID) != "null" {
		uid, err := flexibleString(raw.UserID)
		if err != nil {
			return fmt.Errorf("rating user id: %w", err)
		}
		r.UserID = uid
	}
	return nil
}

// ValidRating reports whether v is within [MinRating, MaxRating].
func ValidRating(v int) bool {
	return v >= MinRating && v <= MaxRating
}

// Stars renders the rating as filled and empty stars.
func (r Rating) Stars() string {
	v := min(max(r.Value, 0), MaxRating)
	return strings.Repeat("★", v) + strings.Repeat("☆", MaxRating-v)
}

// NoticeKind classifies a notification.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
	NoticeInfo    NoticeKind = "info"
	NoticeWarning NoticeKind = "warning"
)

// Notice is a fire-and-forget message for the person using the app.
type Notice struct {
	Message string
	Kind    NoticeKind
}

// Location is a navigation target the host should move to.
type Location string

const (
	LocationHome  Location = "home"
	LocationLogin Location = "login"
)
