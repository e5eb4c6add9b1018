package extractor_test

import (
	"fmt"
	"strings"
)

// chartPage renders a minimal chart page with one poster column per movie.
func chartPage(movies ...[3]string) string {
	var b strings.Builder
	b.WriteString(`<html><body><table class="chart"><tbody>`)
	for _, m := range movies {
		fmt.Fprintf(&b, `<tr><td class="posterColumn"><span name="rk" data-value="%s"></span>`+
			`<a href="%s"><img src="x.jpg" alt="%s"/></a></td></tr>`, m[0], m[1], m[2])
	}
	b.WriteString(`</tbody></table></body></html>`)
	return b.String()
}

// detailPage wraps a linked-data JSON document in a movie page.
func detailPage(ldJSON string) string {
	return `<html><head><title>movie</title>` +
		`<script type="application/ld+json">` + ldJSON + `</script>` +
		`</head><body><h1>movie</h1></body></html>`
}

const shawshankLD = `{
  "@context": "https://schema.org",
  "@type": "Movie",
  "name": "The Shawshank Redemption",
  "genre": "Drama",
  "contentRating": "R",
  "datePublished": "1994-10-14",
  "director": {"@type": "Person", "url": "/name/nm0001104/", "name": "Frank Darabont"},
  "actor": [
    {"@type": "Person", "name": "Tim Robbins"},
    {"@type": "Person", "name": "Morgan Freeman"},
    {"@type": "Person", "name": "Bob Gunton"}
  ],
  "aggregateRating": {"@type": "AggregateRating", "ratingCount": 2345678, "ratingValue": 9.3}
}`
