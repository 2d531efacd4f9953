package models

import (
	"fmt"
	"strings"
)

// ImageBaseURL is the TMDB image CDN root.
const ImageBaseURL = "https://image.tmdb.org/t/p"

// PosterPlaceholder is shown when a movie has no poster.
const PosterPlaceholder = "https://via.placeholder.com/300x450/1a1a2e/ff6b35?text=No+Image"

// DefaultPosterSize is the poster width used in listings.
const DefaultPosterSize = "w342"

// Genres maps TMDB movie genre ids to their names.
var Genres = map[int]string{
	28:    "Action",
	12:    "Adventure",
	16:    "Animation",
	35:    "Comedy",
	80:    "Crime",
	99:    "Documentary",
	18:    "Drama",
	10751: "Family",
	14:    "Fantasy",
	36:    "History",
	27:    "Horror",
	10402: "Music",
	9648:  "Mystery",
	10749: "Romance",
	878:   "Science Fiction",
	10770: "TV Movie",
	53:    "Thriller",
	10752: "War",
	37:    "Western",
}

// MovieSummary is one entry of a trending or search listing.
//
// TV results carry name/first_air_date instead of title/release_date; both are kept.
type MovieSummary struct {
	ID           MovieID `json:"id"`
	Title        string  `json:"title,omitempty"`
	Name         string  `json:"name,omitempty"`
	PosterPath   string  `json:"poster_path,omitempty"`
	ReleaseDate  string  `json:"release_date,omitempty"`
	FirstAirDate string  `json:"first_air_date,omitempty"`
	VoteAverage  float64 `json:"vote_average"`
	Overview     string  `json:"overview,omitempty"`
	GenreIDs     []int   `json:"genre_ids,omitempty"`
	MediaType    string  `json:"media_type,omitempty"`
}

// DisplayTitle returns title, then name, then "Untitled".
func (m MovieSummary) DisplayTitle() string {
	switch {
	case m.Title != "":
		return m.Title
	case m.Name != "":
		return m.Name
	default:
		return "Untitled"
	}
}

// Date returns release_date, falling back to first_air_date.
func (m MovieSummary) Date() string {
	if m.ReleaseDate != "" {
		return m.ReleaseDate
	}
	return m.FirstAirDate
}

// Year returns the four digit year of [MovieSummary.Date], or "" when unknown.
func (m MovieSummary) Year() string {
	if d := m.Date(); len(d) >= 4 {
		return d[:4]
	}
	return ""
}

// GenreNames resolves GenreIDs through [Genres], skipping unknown ids.
func (m MovieSummary) GenreNames() []string {
	names := make([]string, 0, len(m.GenreIDs))
	for _, id := range m.GenreIDs {
		if name, ok := Genres[id]; ok {
			names = append(names, name)
		}
	}
	return names
}

// HasGenre reports whether any genre name contains genre, case-insensitively.
func (m MovieSummary) HasGenre(genre string) bool {
	genre = strings.ToLower(strings.TrimSpace(genre))
	if genre == "" {
		return true
	}
	for _, name := range m.GenreNames() {
		if strings.Contains(strings.ToLower(name), genre) {
			return true
		}
	}
	return false
}

// PosterURL returns the CDN url for the poster at size, or [PosterPlaceholder].
func (m MovieSummary) PosterURL(size string) string {
	return PosterURL(m.PosterPath, size)
}

// PosterURL builds an image url for path, returning [PosterPlaceholder] when path is empty.
func PosterURL(path, size string) string {
	if path == "" {
		return PosterPlaceholder
	}
	if size == "" {
		size = DefaultPosterSize
	}
	return fmt.Sprintf("%s/%s%s", ImageBaseURL, size, path)
}

// Listing is the envelope returned by the trending and search endpoints.
type Listing struct {
	Page         int            `json:"page"`
	Results      []MovieSummary `json:"results"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int            `json:"total_results"`
}

// Genre is a named genre on a detail record.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CastMember is a billed actor.
type CastMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	Order       int    `json:"order"`
	ProfilePath string `json:"profile_path,omitempty"`
}

// CrewMember is a credited crew role.
type CrewMember struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Job        string `json:"job"`
	Department string `json:"department"`
}

// Credits groups cast and crew.
type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// Keyword is a TMDB keyword tag.
type Keyword struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Keywords wraps the keyword list.
type Keywords struct {
	Keywords []Keyword `json:"keywords"`
}

// Image is a poster or backdrop file.
type Image struct {
	FilePath string  `json:"file_path"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Language string  `json:"iso_639_1,omitempty"`
	Vote     float64 `json:"vote_average"`
}

// Images groups artwork files.
type Images struct {
	Posters   []Image `json:"posters"`
	Backdrops []Image `json:"backdrops"`
}

// MovieDetail is the detail record for a single movie.
type MovieDetail struct {
	ID           MovieID  `json:"id"`
	Title        string   `json:"title"`
	Tagline      string   `json:"tagline,omitempty"`
	Overview     string   `json:"overview"`
	Runtime      int      `json:"runtime"`
	ReleaseDate  string   `json:"release_date"`
	VoteAverage  float64  `json:"vote_average"`
	VoteCount    int      `json:"vote_count"`
	Genres       []Genre  `json:"genres"`
	Budget       int64    `json:"budget"`
	Revenue      int64    `json:"revenue"`
	PosterPath   string   `json:"poster_path,omitempty"`
	BackdropPath string   `json:"backdrop_path,omitempty"`
	Credits      Credits  `json:"credits"`
	Keywords     Keywords `json:"keywords"`
	Images       Images   `json:"images"`
}

// Summary projects the detail into a listing entry.
func (d MovieDetail) Summary() MovieSummary {
	ids := make([]int, 0, len(d.Genres))
	for _, g := range d.Genres {
		ids = append(ids, g.ID)
	}
	return MovieSummary{
		ID:          d.ID,
		Title:       d.Title,
		PosterPath:  d.PosterPath,
		ReleaseDate: d.ReleaseDate,
		VoteAverage: d.VoteAverage,
		Overview:    d.Overview,
		GenreIDs:    ids,
	}
}

// Directors returns the names of crew credited with the Director job.
func (d MovieDetail) Directors() []string {
	var names []string
	for _, c := range d.Credits.Crew {
		if c.Job == "Director" {
			names = append(names, c.Name)
		}
	}
	return names
}

// TopCast returns up to n cast members in billing order.
func (d MovieDetail) TopCast(n int) []CastMember {
	if n < 0 || n > len(d.Credits.Cast) {
		n = len(d.Credits.Cast)
	}
	return d.Credits.Cast[:n]
}

// GenreNames returns the genre names in order.
func (d MovieDetail) GenreNames() []string {
	names := make([]string, 0, len(d.Genres))
	for _, g := range d.Genres {
		names = append(names, g.Name)
	}
	return names
}
