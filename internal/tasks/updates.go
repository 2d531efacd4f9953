package tasks

import (
	"fmt"

	"github.com/desertthunder/moviebot/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchWatchlist Phase = iota
	FetchDetails
	WriteReport
)

func (p Phase) String() string {
	switch p {
	case FetchWatchlist:
		return "fetch_watchlist"
	case FetchDetails:
		return "fetch_details"
	case WriteReport:
		return "write_report"
	default:
		return ""
	}
}

func fetchWatchlistUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchWatchlist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d movies in your watchlist", total),
	}
}

func detailCompletedUpdate(step, total int, d *models.MovieDetail) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchDetails,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, d.Title),
		Data:    d,
	}
}

func detailFailedUpdate(step, total int, id models.MovieID, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchDetails,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, id, err),
	}
}

func reportReadyUpdate(r *WatchlistReport) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteReport,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Loaded %d of %d movies", r.Succeeded, len(r.Entries)),
		Data:    r,
	}
}
