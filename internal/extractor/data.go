package extractor

// ListingEntry is one movie as it appears on the chart page.
// Href is exactly what the page links to and may be relative.
type ListingEntry struct {
	Rank int
	Href string
	Name string
}

// Detail holds the fields read from a movie page's linked-data block.
type Detail struct {
	Directors     []string
	Cast          []string
	Genres        []string
	DatePublished string
	RatingValue   float64
	RatingCount   float64
	// ContentRating is NotRated when the page does not state one.
	ContentRating string
}

// NotRated is the content rating used when a page has none.
const NotRated = "NA"
