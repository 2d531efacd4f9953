// package formatter renders the watchlist and ratings for export (CSV, Markdown, plain text, JSON)
// and formats movie fields for display
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/moviebot/internal/models"
	"github.com/desertthunder/moviebot/internal/shared"
	"github.com/desertthunder/moviebot/internal/tasks"
)

// Formats accepted by [Write].
const (
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatText     = "txt"
	FormatJSON     = "json"
)

// Item is one exported movie.
type Item struct {
	ID          models.MovieID `json:"id"`
	Title       string         `json:"title"`
	Year        string         `json:"year,omitempty"`
	Runtime     int            `json:"runtime,omitempty"`
	Genres      []string       `json:"genres,omitempty"`
	Directors   []string       `json:"directors,omitempty"`
	VoteAverage float64        `json:"voteAverage,omitempty"`
	PosterURL   string         `json:"posterUrl,omitempty"`
	Rating      *models.Rating `json:"rating,omitempty"`
	Error       string         `json:"error,omitempty"`
}

// Export is the document written by the exporters.
type Export struct {
	User        string    `json:"user,omitempty"`
	GeneratedAt time.Time `json:"generatedAt"`
	Watchlist   []Item    `json:"watchlist"`
	Ratings     []Item    `json:"ratings"`
}

// FromReport builds an export from a watchlist report and the full rating map.
//
// Ratings for movies outside the watchlist are listed by id, sorted.
func FromReport(report *tasks.WatchlistReport, ratings map[models.MovieID]models.Rating, user *models.Session, now time.Time) *Export {
	e := &Export{GeneratedAt: now.UTC(), Watchlist: []Item{}, Ratings: []Item{}}
	if user != nil {
		e.User = user.Email
	}

	titles := make(map[models.MovieID]Item)
	if report != nil {
		for _, entry := range report.Entries {
			item := itemFromEntry(entry)
			e.Watchlist = append(e.Watchlist, item)
			titles[entry.ID] = item
		}
	}

	ids := make([]models.MovieID, 0, len(ratings))
	for id := range ratings {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		r := ratings[id]
		item, ok := titles[id]
		if !ok {
			item = Item{ID: id, Title: string(id)}
		}
		item.Rating = &r
		e.Ratings = append(e.Ratings, item)
	}
	return e
}

func itemFromEntry(entry tasks.ReportEntry) Item {
	item := Item{ID: entry.ID, Title: entry.Title(), Rating: entry.Rating}
	if entry.Err != nil {
		item.Error = entry.Err.Error()
	}
	if d := entry.Detail; d != nil {
		s := d.Summary()
		item.Year = s.Year()
		item.Runtime = d.Runtime
		item.Genres = d.GenreNames()
		item.Directors = d.Directors()
		item.VoteAverage = d.VoteAverage
		item.PosterURL = s.PosterURL("")
	}
	return item
}

// ExportToCSV writes the watchlist with columns: ID, Title, Year, Runtime, Genres, Director, TMDB Rating, My Rating, Rated At
func ExportToCSV(export *Export) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Year", "Runtime", "Genres", "Director", "TMDB Rating", "My Rating", "Rated At"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, item := range export.Watchlist {
		var myRating, ratedAt string
		if item.Rating != nil {
			myRating = strconv.Itoa(item.Rating.Value)
			ratedAt = item.Rating.RatedAt.UTC().Format(time.RFC3339)
		}
		record := []string{
			item.ID.String(),
			item.Title,
			item.Year,
			strconv.Itoa(item.Runtime),
			strings.Join(item.Genres, "; "),
			strings.Join(item.Directors, "; "),
			strconv.FormatFloat(item.VoteAverage, 'f', 1, 64),
			myRating,
			ratedAt,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders the watchlist and ratings as a Markdown document.
func ExportToMarkdown(export *Export) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# My Watchlist\n\n")
	if export.User != "" {
		buf.WriteString(fmt.Sprintf("**User**: %s\n", export.User))
	}
	buf.WriteString(fmt.Sprintf("**Exported**: %s\n", FormatDate(export.GeneratedAt.Format("2006-01-02"))))
	buf.WriteString(fmt.Sprintf("**Movies**: %d\n\n", len(export.Watchlist)))

	buf.WriteString("## Watchlist\n\n")
	for i, item := range export.Watchlist {
		buf.WriteString(fmt.Sprintf("%d. %s", i+1, titleWithYear(item)))
		if item.Runtime > 0 {
			buf.WriteString(fmt.Sprintf(" [%s]", FormatRuntime(item.Runtime)))
		}
		if item.VoteAverage > 0 {
			buf.WriteString(" " + FormatRating(item.VoteAverage))
		}
		if item.Rating != nil {
			buf.WriteString(" " + item.Rating.Stars())
		}
		buf.WriteString("\n")
		if len(item.Directors) > 0 {
			buf.WriteString(fmt.Sprintf("   - Directed by %s\n", strings.Join(item.Directors, ", ")))
		}
	}

	if len(export.Ratings) > 0 {
		buf.WriteString("\n## Ratings\n\n")
		buf.WriteString("| Movie | Rating | Date |\n")
		buf.WriteString("|---|---|---|\n")
		for _, item := range export.Ratings {
			buf.WriteString(fmt.Sprintf("| %s | %s | %s |\n",
				titleWithYear(item),
				item.Rating.Stars(),
				FormatDate(item.Rating.RatedAt.Format("2006-01-02")),
			))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText renders the watchlist as plain numbered lines.
func ExportToText(export *Export) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("Watchlist")
	if export.User != "" {
		buf.WriteString(fmt.Sprintf(" for %s", export.User))
	}
	buf.WriteString(fmt.Sprintf("\nMovies: %d\n\n", len(export.Watchlist)))

	for i, item := range export.Watchlist {
		buf.WriteString(fmt.Sprintf("%d. %s", i+1, titleWithYear(item)))
		if item.Rating != nil {
			buf.WriteString(fmt.Sprintf(" (rated %d/%d)", item.Rating.Value, models.MaxRating))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ExportToJSON renders the export as indented JSON.
func ExportToJSON(export *Export) ([]byte, error) {
	return shared.MarshalJSON(export, true)
}

// Render dispatches on format. Unknown formats are an [shared.ErrInvalidFlag].
func Render(export *Export, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatCSV:
		return ExportToCSV(export)
	case FormatMarkdown, "md":
		return ExportToMarkdown(export)
	case FormatText, "text":
		return ExportToText(export)
	case FormatJSON, "":
		return ExportToJSON(export)
	default:
		return nil, fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidFlag, format)
	}
}

// Supported reports whether format names a known export format.
func Supported(format string) bool {
	switch strings.ToLower(format) {
	case FormatCSV, FormatMarkdown, "md", FormatText, "text", FormatJSON:
		return true
	}
	return false
}

// Extension returns the file extension for format.
func Extension(format string) string {
	switch strings.ToLower(format) {
	case FormatCSV:
		return ".csv"
	case FormatMarkdown, "md":
		return ".md"
	case FormatText, "text":
		return ".txt"
	default:
		return ".json"
	}
}

// Write renders export and writes it to path.
//
// Defaults to moviebot_watchlist{ext} in the working directory. Parent directories are created.
func Write(export *Export, format, path string) (string, error) {
	data, err := Render(export, format)
	if err != nil {
		return "", err
	}

	if path == "" {
		path = "moviebot_watchlist" + Extension(format)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}

func titleWithYear(item Item) string {
	if item.Year == "" {
		return item.Title
	}
	return fmt.Sprintf("%s (%s)", item.Title, item.Year)
}

// FormatRating renders a vote average as "⭐ 8.4".
func FormatRating(v float64) string {
	return fmt.Sprintf("⭐ %.1f", v)
}

// FormatRuntime renders minutes as "2h 16m", "45m" or "N/A".
func FormatRuntime(minutes int) string {
	if minutes <= 0 {
		return "N/A"
	}
	h, m := minutes/60, minutes%60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

// FormatDate renders a YYYY-MM-DD date as "March 30, 1999". Unparseable input is returned as is.
func FormatDate(s string) string {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return s
	}
	return t.Format("January 2, 2006")
}

// FormatMoney renders whole dollars as "$63,000,000", or "N/A" when zero.
func FormatMoney(v int64) string {
	if v <= 0 {
		return "N/A"
	}
	digits := strconv.FormatInt(v, 10)
	var b strings.Builder
	b.WriteByte('$')
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}
