package report

import (
	"fmt"
	"strings"

	"github.com/rohmanhakim/top-movies/internal/storage"
)

// Kind names one of the fixed aggregate views.
type Kind string

const (
	KindRated    Kind = "rated"
	KindYear     Kind = "year"
	KindDirector Kind = "director"
	KindActor    Kind = "actor"
	KindGenre    Kind = "genre"
)

// Kinds lists every view in the order the help text presents them.
func Kinds() []Kind {
	return []Kind{KindDirector, KindGenre, KindActor, KindRated, KindYear}
}

// ParseKind matches s against the known views, ignoring case and
// surrounding spaces.
func ParseKind(s string) (Kind, bool) {
	candidate := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, k := range Kinds() {
		if k == candidate {
			return k, true
		}
	}
	return "", false
}

// Report is the outcome of one query, ready to be rendered.
type Report struct {
	Kind    Kind
	Title   string
	Label   string
	Buckets []storage.Bucket
}

func (r Report) Labels() []string {
	labels := make([]string, len(r.Buckets))
	for i, b := range r.Buckets {
		labels[i] = b.Label
	}
	return labels
}

func (r Report) Counts() []int {
	counts := make([]int, len(r.Buckets))
	for i, b := range r.Buckets {
		counts[i] = b.Count
	}
	return counts
}

func describe(kind Kind, threshold int) (title string, label string) {
	switch kind {
	case KindRated:
		return "Movies by content rating", "Rated"
	case KindYear:
		return "Movies by release year", "Year"
	case KindDirector:
		return fmt.Sprintf("Directors with more than %d movies", threshold), "Director"
	case KindActor:
		return fmt.Sprintf("Actors with more than %d movies", threshold), "Actor"
	case KindGenre:
		return "Movies by genre", "Genre"
	default:
		return string(kind), "Label"
	}
}
