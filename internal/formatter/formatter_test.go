package formatter

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/moviebot/internal/models"
	"github.com/desertthunder/moviebot/internal/shared"
	"github.com/desertthunder/moviebot/internal/tasks"
	th "github.com/desertthunder/moviebot/internal/testing"
)

var (
	exportedAt = time.Date(2025, 3, 30, 12, 0, 0, 0, time.UTC)
	ratedAt    = time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
)

func sampleExport() *Export {
	report := &tasks.WatchlistReport{
		Entries: []tasks.ReportEntry{
			{
				ID: "603",
				Detail: &models.MovieDetail{
					ID:          "603",
					Title:       "The Matrix",
					ReleaseDate: "1999-03-30",
					Runtime:     136,
					VoteAverage: 8.2,
					PosterPath:  "/matrix.jpg",
					Genres:      []models.Genre{{ID: 28, Name: "Action"}, {ID: 878, Name: "Science Fiction"}},
					Credits: models.Credits{Crew: []models.CrewMember{
						{Name: "Lana Wachowski", Job: "Director"},
						{Name: "Lilly Wachowski", Job: "Director"},
						{Name: "Bill Pope", Job: "Director of Photography"},
					}},
				},
				Rating: &models.Rating{Value: 5, RatedAt: ratedAt},
			},
			{ID: "999", Err: errors.New("movie not found")},
		},
		Succeeded: 1,
		Failed:    1,
	}
	ratings := map[models.MovieID]models.Rating{
		"603": {Value: 5, RatedAt: ratedAt},
		"550": {Value: 3, RatedAt: ratedAt},
	}
	user := &models.Session{ID: "u1", Email: "jane@example.com", Name: "jane"}
	return FromReport(report, ratings, user, exportedAt)
}

func TestFromReport(t *testing.T) {
	e := sampleExport()

	if e.User != "jane@example.com" || !e.GeneratedAt.Equal(exportedAt) {
		t.Errorf("unexpected header: %+v", e)
	}
	if len(e.Watchlist) != 2 {
		t.Fatalf("expected 2 watchlist items, got %d", len(e.Watchlist))
	}

	matrix := e.Watchlist[0]
	if matrix.Year != "1999" || matrix.Runtime != 136 || len(matrix.Directors) != 2 {
		t.Errorf("unexpected item: %+v", matrix)
	}
	if matrix.PosterURL != "https://image.tmdb.org/t/p/w342/matrix.jpg" {
		t.Errorf("unexpected poster url %q", matrix.PosterURL)
	}
	if missing := e.Watchlist[1]; missing.Title != "Unknown (999)" || missing.Error == "" {
		t.Errorf("expected failed entry to carry error, got %+v", missing)
	}

	if len(e.Ratings) != 2 || e.Ratings[0].ID != "550" || e.Ratings[1].Title != "The Matrix" {
		t.Errorf("expected ratings sorted by id with titles, got %+v", e.Ratings)
	}

	t.Run("Nil Report", func(t *testing.T) {
		e := FromReport(nil, nil, nil, exportedAt)
		if e.Watchlist == nil || e.Ratings == nil || e.User != "" {
			t.Errorf("expected empty non-nil lists, got %+v", e)
		}
	})
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(sampleExport())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
		if err != nil {
			t.Fatalf("failed to parse CSV: %v", err)
		}
		if len(records) != 3 {
			t.Fatalf("expected header + 2 rows, got %d", len(records))
		}
		if strings.Join(records[0], ",") != "ID,Title,Year,Runtime,Genres,Director,TMDB Rating,My Rating,Rated At" {
			t.Errorf("CSV missing headers, got: %v", records[0])
		}

		want := []string{"603", "The Matrix", "1999", "136", "Action; Science Fiction", "Lana Wachowski; Lilly Wachowski", "8.2", "5", "2025-03-01T08:00:00Z"}
		if strings.Join(records[1], "|") != strings.Join(want, "|") {
			t.Errorf("got %v, want %v", records[1], want)
		}
		if records[2][1] != "Unknown (999)" || records[2][7] != "" {
			t.Errorf("unexpected failed row: %v", records[2])
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(sampleExport())
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}
		output := string(data)

		for _, want := range []string{
			"# My Watchlist",
			"**User**: jane@example.com",
			"**Exported**: March 30, 2025",
			"**Movies**: 2",
			"1. The Matrix (1999) [2h 16m] ⭐ 8.2 ★★★★★",
			"   - Directed by Lana Wachowski, Lilly Wachowski",
			"2. Unknown (999)\n",
			"## Ratings",
			"| 550 | ★★★☆☆ | March 1, 2025 |",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(sampleExport())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}
		output := string(data)

		if !strings.HasPrefix(output, "Watchlist for jane@example.com\nMovies: 2\n\n") {
			t.Errorf("unexpected header: %s", output)
		}
		if !strings.Contains(output, "1. The Matrix (1999) (rated 5/5)\n") {
			t.Errorf("missing rated line: %s", output)
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(sampleExport())
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var decoded map[string]any
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded["user"] != "jane@example.com" {
			t.Errorf("unexpected user %v", decoded["user"])
		}
		if !strings.Contains(string(data), `"rating": 5`) {
			t.Errorf("expected browser rating field names, got %s", data)
		}
	})

	t.Run("Render Unknown Format", func(t *testing.T) {
		if _, err := Render(sampleExport(), "pdf"); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})
}

func TestWrite(t *testing.T) {
	tests := []struct {
		format   string
		filename string
		contains string
	}{
		{FormatCSV, "out/watchlist.csv", "ID,Title"},
		{FormatMarkdown, "out/watchlist.md", "# My Watchlist"},
		{"text", "out/watchlist.txt", "Watchlist for"},
		{FormatJSON, "nested/dir/watchlist.json", `"watchlist"`},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.filename)
			written, err := Write(sampleExport(), tt.format, path)
			if err != nil {
				t.Fatalf("Write failed: %v", err)
			}
			th.AssertFileExists(t, written)
			if content := th.MustReadFile(t, written); !strings.Contains(content, tt.contains) {
				t.Errorf("expected %q in %s", tt.contains, content)
			}
		})
	}

	t.Run("Extension", func(t *testing.T) {
		for format, want := range map[string]string{"csv": ".csv", "md": ".md", "markdown": ".md", "txt": ".txt", "json": ".json", "": ".json"} {
			if got := Extension(format); got != want {
				t.Errorf("Extension(%q) = %q, want %q", format, got, want)
			}
		}
	})

	t.Run("Supported", func(t *testing.T) {
		for format, want := range map[string]bool{"CSV": true, "md": true, "text": true, "json": true, "pdf": false, "": false} {
			if got := Supported(format); got != want {
				t.Errorf("Supported(%q) = %v, want %v", format, got, want)
			}
		}
	})
}

func TestFormatting(t *testing.T) {
	t.Run("FormatRating", func(t *testing.T) {
		for in, want := range map[float64]string{8.25: "⭐ 8.2", 0: "⭐ 0.0", 7: "⭐ 7.0"} {
			if got := FormatRating(in); got != want {
				t.Errorf("FormatRating(%v) = %q, want %q", in, got, want)
			}
		}
	})

	t.Run("FormatRuntime", func(t *testing.T) {
		for in, want := range map[int]string{0: "N/A", 45: "45m", 60: "1h 0m", 120: "2h 0m", 136: "2h 16m"} {
			if got := FormatRuntime(in); got != want {
				t.Errorf("FormatRuntime(%d) = %q, want %q", in, got, want)
			}
		}
	})

	t.Run("FormatDate", func(t *testing.T) {
		for in, want := range map[string]string{"1999-03-30": "March 30, 1999", "": "", "soon": "soon"} {
			if got := FormatDate(in); got != want {
				t.Errorf("FormatDate(%q) = %q, want %q", in, got, want)
			}
		}
	})

	t.Run("FormatMoney", func(t *testing.T) {
		for in, want := range map[int64]string{0: "N/A", 999: "$999", 1000: "$1,000", 63000000: "$63,000,000"} {
			if got := FormatMoney(in); got != want {
				t.Errorf("FormatMoney(%d) = %q, want %q", in, got, want)
			}
		}
	})
}
