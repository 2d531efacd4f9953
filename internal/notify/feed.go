package notify

import "github.com/desertthunder/moviebot/internal/models"

// Event is either a notice or a navigation request delivered through a [Feed].
type Event struct {
	Notice   *models.Notice
	Location models.Location
}

// Feed delivers notices and navigation as [Event] values on a buffered channel.
//
// Sends never block: when the buffer is full the event is dropped.
type Feed struct {
	events chan Event
}

// NewFeed creates a Feed with the given buffer size.
func NewFeed(size int) *Feed {
	if size <= 0 {
		size = 16
	}
	return &Feed{events: make(chan Event, size)}
}

// Events is the receive side of the feed.
func (f *Feed) Events() <-chan Event {
	return f.events
}

func (f *Feed) Notify(message string, kind models.NoticeKind) {
	f.send(Event{Notice: &models.Notice{Message: message, Kind: kind}})
}

func (f *Feed) Navigate(to models.Location) {
	f.send(Event{Location: to})
}

func (f *Feed) send(e Event) {
	select {
	case f.events <- e:
	default:
	}
}
