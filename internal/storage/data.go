package storage

// Bucket is one row of a grouped count.
type Bucket struct {
	Label string
	Count int
}

// TableCount is the number of rows held by one table.
type TableCount struct {
	Table string
	Rows  int
}

// tables lists every table the schema creates, parents first.
var tables = []string{
	"movies",
	"directors",
	"stars",
	"movie_directors",
	"movie_stars",
	"movie_genres",
}
