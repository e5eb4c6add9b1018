package catalog

import (
	"strings"

	"github.com/rohmanhakim/top-movies/internal/extractor"
)

const listSeparator = ", "

// MovieRecord is one chart entry merged with its detail page.
type MovieRecord struct {
	Rank          int
	Name          string
	Link          string
	Directors     []string
	Cast          []string
	Genres        []string
	DatePublished string
	RatingValue   float64
	RatingCount   float64
	ContentRating string
}

func (m MovieRecord) Director() string {
	return strings.Join(m.Directors, listSeparator)
}

func (m MovieRecord) Stars() string {
	return strings.Join(m.Cast, listSeparator)
}

func (m MovieRecord) Genre() string {
	return strings.Join(m.Genres, listSeparator)
}

// Year is the first four characters of DatePublished, or all of it when shorter.
func (m MovieRecord) Year() string {
	if len(m.DatePublished) < 4 {
		return m.DatePublished
	}
	return m.DatePublished[:4]
}

func (m *MovieRecord) mergeDetail(d extractor.Detail) {
	m.Directors = d.Directors
	m.Cast = d.Cast
	m.Genres = d.Genres
	m.DatePublished = d.DatePublished
	m.RatingValue = d.RatingValue
	m.RatingCount = d.RatingCount
	m.ContentRating = d.ContentRating
}
