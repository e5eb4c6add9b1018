package storage_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rohmanhakim/top-movies/internal/catalog"
	"github.com/rohmanhakim/top-movies/internal/metadata"
	"github.com/rohmanhakim/top-movies/internal/storage"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, sink metadata.MetadataSink) *storage.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "movie_imdb.db")
	s, err := storage.Open(context.Background(), path, sink)
	require.Nil(t, err)
	t.Cleanup(func() { s.Close() })
	require.Nil(t, s.InitSchema(context.Background()))
	return s
}

func movie(rank int, name, date, rated string, directors, cast, genres []string) catalog.MovieRecord {
	return catalog.MovieRecord{
		Rank:          rank,
		Name:          name,
		Link:          "https://www.imdb.com/title/tt" + name,
		Directors:     directors,
		Cast:          cast,
		Genres:        genres,
		DatePublished: date,
		RatingValue:   8.5,
		RatingCount:   1000,
		ContentRating: rated,
	}
}

// sampleCatalog has Nolan directing four movies, Kubrick three, Fincher
// exactly two and everybody else one; Caine appears in three casts.
func sampleCatalog() *catalog.Catalog {
	cat := catalog.NewCatalog()
	for _, m := range []catalog.MovieRecord{
		movie(1, "The Dark Knight", "2008-07-18", "PG-13", []string{"Christopher Nolan"}, []string{"Christian Bale", "Heath Ledger", "Michael Caine"}, []string{"Action", "Crime", "Drama"}),
		movie(2, "Inception", "2010-07-16", "PG-13", []string{"Christopher Nolan"}, []string{"Leonardo DiCaprio", "Michael Caine"}, []string{"Action", "Sci-Fi"}),
		movie(3, "Interstellar", "2014-11-07", "PG-13", []string{"Christopher Nolan"}, []string{"Matthew McConaughey", "Michael Caine"}, []string{"Adventure", "Drama", "Sci-Fi"}),
		movie(4, "Memento", "2000-05-25", "R", []string{"Christopher Nolan"}, []string{"Guy Pearce"}, []string{"Mystery"}),
		movie(5, "The Shining", "1980-05-23", "R", []string{"Stanley Kubrick"}, []string{"Jack Nicholson"}, []string{"Drama", "Horror"}),
		movie(6, "Paths of Glory", "1957-12-25", "NA", []string{"Stanley Kubrick"}, []string{"Kirk Douglas"}, []string{"Drama", "War"}),
		movie(7, "Dr. Strangelove", "1964-01-29", "PG", []string{"Stanley Kubrick"}, []string{"Peter Sellers"}, []string{"Comedy", "War"}),
		movie(8, "No Country for Old Men", "2007-11-21", "R", []string{"Ethan Coen", "Joel Coen"}, []string{"Tommy Lee Jones"}, []string{"Crime", "Drama"}),
		movie(9, "Fight Club", "1999-10-15", "R", []string{"David Fincher"}, []string{"Brad Pitt"}, []string{"Drama"}),
		movie(10, "Se7en", "1995-09-22", "R", []string{"David Fincher"}, []string{"Morgan Freeman"}, []string{"Crime", "Mystery"}),
	} {
		cat.Add(m)
	}
	return cat
}
