package notify

import (
	"bytes"
	"strings"
	"testing"

	"github.com/desertthunder/moviebot/internal/models"
	"github.com/desertthunder/moviebot/internal/shared"
)

func TestWriterNotifier(t *testing.T) {
	t.Run("Notify", func(t *testing.T) {
		var buf bytes.Buffer
		n := NewWriterNotifier(&buf)

		n.Notify("Movie added to your watchlist!", models.NoticeSuccess)

		out := buf.String()
		if !strings.Contains(out, "Movie added to your watchlist!") || !strings.Contains(out, "✓") {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("Navigate prints hint", func(t *testing.T) {
		var buf bytes.Buffer
		n := NewWriterNotifier(&buf)

		n.Navigate(models.LocationLogin)
		if !strings.Contains(buf.String(), "moviebot auth login") {
			t.Errorf("expected login hint, got %q", buf.String())
		}
	})

	t.Run("Navigate unknown location is silent", func(t *testing.T) {
		var buf bytes.Buffer
		n := NewWriterNotifier(&buf)

		n.Navigate(models.Location("settings"))
		if buf.Len() != 0 {
			t.Errorf("expected no output, got %q", buf.String())
		}
	})
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	logger := shared.NewLogger(&buf)
	n := NewLogNotifier(logger)

	n.Notify("Please login to rate movies", models.NoticeWarning)
	n.Notify("boom", models.NoticeError)

	out := buf.String()
	if !strings.Contains(out, "Please login to rate movies") || !strings.Contains(out, "WARN") {
		t.Errorf("expected warning line, got %q", out)
	}
	if !strings.Contains(out, "ERRO") {
		t.Errorf("expected error line, got %q", out)
	}
}

func TestFeed(t *testing.T) {
	t.Run("delivers in order", func(t *testing.T) {
		f := NewFeed(4)
		f.Notify("You have been logged out", models.NoticeInfo)
		f.Navigate(models.LocationHome)

		first := <-f.Events()
		if first.Notice == nil || first.Notice.Kind != models.NoticeInfo {
			t.Errorf("unexpected first event %+v", first)
		}
		second := <-f.Events()
		if second.Location != models.LocationHome {
			t.Errorf("unexpected second event %+v", second)
		}
	})

	t.Run("drops when full", func(t *testing.T) {
		f := NewFeed(1)
		f.Notify("one", models.NoticeInfo)
		f.Notify("two", models.NoticeInfo)

		if got := len(f.Events()); got != 1 {
			t.Errorf("expected 1 buffered event, got %d", got)
		}
	})
}

func TestMulti(t *testing.T) {
	var got []string
	collect := NotifierFunc(func(m string, _ models.NoticeKind) { got = append(got, m) })

	Multi{collect, nil, Discard{}, collect}.Notify("hi", models.NoticeInfo)
	if len(got) != 2 {
		t.Errorf("expected 2 deliveries, got %d", len(got))
	}
}

func TestRender(t *testing.T) {
	for _, kind := range []models.NoticeKind{models.NoticeSuccess, models.NoticeError, models.NoticeInfo, models.NoticeWarning} {
		if out := Render("msg", kind); !strings.Contains(out, Icon(kind)+" msg") {
			t.Errorf("Render(%s) = %q", kind, out)
		}
	}
}
