package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/moviebot/internal/models"
)

// Notifier reports an outcome to the person using the app.
type Notifier interface {
	Notify(message string, kind models.NoticeKind)
}

// Navigator asks the host to move to a location.
type Navigator interface {
	Navigate(to models.Location)
}

// NotifierFunc adapts a function to [Notifier].
type NotifierFunc func(message string, kind models.NoticeKind)

func (f NotifierFunc) Notify(message string, kind models.NoticeKind) { f(message, kind) }

// NavigatorFunc adapts a function to [Navigator].
type NavigatorFunc func(to models.Location)

func (f NavigatorFunc) Navigate(to models.Location) { f(to) }

// Discard drops every notice and navigation.
type Discard struct{}

func (Discard) Notify(string, models.NoticeKind) {}
func (Discard) Navigate(models.Location)         {}

// Multi fans a notice out to every notifier in order.
type Multi []Notifier

func (m Multi) Notify(message string, kind models.NoticeKind) {
	for _, n := range m {
		if n != nil {
			n.Notify(message, kind)
		}
	}
}

// LogNotifier writes notices to a [log.Logger], mapping kinds to levels.
type LogNotifier struct {
	logger *log.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger *log.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("component", "notify")}
}

func (n *LogNotifier) Notify(message string, kind models.NoticeKind) {
	switch kind {
	case models.NoticeError:
		n.logger.Error(message, "kind", kind)
	case models.NoticeWarning:
		n.logger.Warn(message, "kind", kind)
	case models.NoticeSuccess:
		n.logger.Info(message, "kind", kind)
	default:
		n.logger.Debug(message, "kind", kind)
	}
}

func (n *LogNotifier) Navigate(to models.Location) {
	n.logger.Debug("navigation requested", "to", to)
}

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")).Italic(true)
)

// Icon returns the glyph shown beside a notice of kind.
func Icon(kind models.NoticeKind) string {
	switch kind {
	case models.NoticeSuccess:
		return "✓"
	case models.NoticeError:
		return "✗"
	case models.NoticeWarning:
		return "!"
	default:
		return "•"
	}
}

// Style returns the lipgloss style for kind.
func Style(kind models.NoticeKind) lipgloss.Style {
	switch kind {
	case models.NoticeSuccess:
		return successStyle
	case models.NoticeError:
		return errorStyle
	case models.NoticeWarning:
		return warningStyle
	default:
		return infoStyle
	}
}

// Render formats a notice as a single styled line.
func Render(message string, kind models.NoticeKind) string {
	return Style(kind).Render(Icon(kind) + " " + message)
}

// WriterNotifier prints styled notices and navigation hints to a terminal.
//
// Commands maps a location to the command a person should run next.
type WriterNotifier struct {
	mu       sync.Mutex
	w        io.Writer
	Commands map[models.Location]string
}

// NewWriterNotifier creates a WriterNotifier with the default command hints.
func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{
		w: w,
		Commands: map[models.Location]string{
			models.LocationHome:  "moviebot movies trending",
			models.LocationLogin: "moviebot auth login --email <email>",
		},
	}
}

func (n *WriterNotifier) Notify(message string, kind models.NoticeKind) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintln(n.w, Render(message, kind))
}

func (n *WriterNotifier) Navigate(to models.Location) {
	cmd, ok := n.Commands[to]
	if !ok {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintln(n.w, hintStyle.Render("→ next: "+cmd))
}
