package extractor

const (
	// chart page, one per ranked movie
	posterColumnSelector = ".posterColumn"
	// embedded schema.org metadata
	linkedDataSelector = `script[type="application/ld+json"]`
	// first span carries the rank in data-value
	rankAttr = "data-value"
)

// required keys of a movie page's linked-data block
const (
	keyDirector        = "director"
	keyActor           = "actor"
	keyGenre           = "genre"
	keyDatePublished   = "datePublished"
	keyAggregateRating = "aggregateRating"
	keyContentRating   = "contentRating"
	keyRatingValue     = "ratingValue"
	keyRatingCount     = "ratingCount"
)
