package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/moviebot/internal/formatter"
	"github.com/desertthunder/moviebot/internal/tasks"
)

var _ list.Item = movieItem{}

// movieItem wraps [tasks.BrowseItem] to implement [list.Item].
type movieItem struct {
	tasks.BrowseItem
}

func (i movieItem) FilterValue() string { return i.Movie.DisplayTitle() }

func (i movieItem) Title() string {
	if i.InWatchlist {
		return "+ " + i.Movie.DisplayTitle()
	}
	return i.Movie.DisplayTitle()
}

func (i movieItem) Description() string {
	parts := []string{}
	if y := i.Movie.Year(); y != "" {
		parts = append(parts, y)
	} else {
		parts = append(parts, "—")
	}
	parts = append(parts, formatter.FormatRating(i.Movie.VoteAverage))
	if i.Rating != nil {
		parts = append(parts, i.Rating.Stars())
	}
	if genres := i.Movie.GenreNames(); len(genres) > 0 {
		parts = append(parts, strings.Join(genres, ", "))
	}
	return strings.Join(parts, " • ")
}

func toListItems(items []tasks.BrowseItem) []list.Item {
	out := make([]list.Item, len(items))
	for i, it := range items {
		out[i] = movieItem{BrowseItem: it}
	}
	return out
}
