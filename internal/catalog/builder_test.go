package catalog_test

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"testing"

	"github.com/rohmanhakim/top-movies/internal/catalog"
	"github.com/rohmanhakim/top-movies/internal/extractor"
	"github.com/rohmanhakim/top-movies/internal/metadata"
	"github.com/rohmanhakim/top-movies/internal/metadata/metadatatest"
	"github.com/rohmanhakim/top-movies/pkg/failure"
	"github.com/rohmanhakim/top-movies/pkg/urlutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	listURL = urlutil.MustParse("https://www.imdb.com/chart/top?ref_=nv_mv_250")
	baseURL = urlutil.MustParse("https://www.imdb.com")
)

// pageSourceStub serves bodies by URL and remembers the order of requests.
type pageSourceStub struct {
	pages     map[string]string
	failOn    string
	requested []string
}

func (s *pageSourceStub) GetOrFetch(_ context.Context, pageURL url.URL) (string, error) {
	key := pageURL.String()
	s.requested = append(s.requested, key)
	if key == s.failOn {
		return "", errors.New("connection reset by peer")
	}
	body, ok := s.pages[key]
	if !ok {
		return "", fmt.Errorf("no page for %s", key)
	}
	return body, nil
}

func chart(rows ...[3]string) string {
	var b strings.Builder
	b.WriteString("<html><body><table>")
	for _, r := range rows {
		fmt.Fprintf(&b, `<tr><td class="posterColumn"><span data-value="%s"></span><a href="%s"><img alt="%s"></a></td></tr>`, r[0], r[1], r[2])
	}
	b.WriteString("</table></body></html>")
	return b.String()
}

func moviePage(director, genre string) string {
	return `<html><head><script type="application/ld+json">{
		"director": {"name": "` + director + `"},
		"actor": [{"name": "Lead One"}, {"name": "Lead Two"}],
		"genre": ` + genre + `,
		"datePublished": "1972-03-24",
		"aggregateRating": {"ratingValue": 9.2, "ratingCount": 1900000}
	}</script></head></html>`
}

func newSource() *pageSourceStub {
	return &pageSourceStub{
		pages: map[string]string{
			listURL.String(): chart(
				[3]string{"1", "/title/tt0111161/?pf_rd_p=e31d89dd", "The Shawshank Redemption"},
				[3]string{"2", "/title/tt0068646/", "The Godfather"},
			),
			"https://www.imdb.com/title/tt0111161": moviePage("Frank Darabont", `"Drama"`),
			"https://www.imdb.com/title/tt0068646": moviePage("Francis Ford Coppola", `["Crime", "Drama"]`),
		},
	}
}

func TestBuild_MergesListingAndDetails(t *testing.T) {
	source := newSource()
	sink := &metadatatest.Sink{}
	b := catalog.NewBuilder(source, extractor.NewPageExtractor(sink), listURL, baseURL, sink)

	cat, err := b.Build(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, cat.Len())

	first := cat.Movies()[0]
	assert.Equal(t, 1, first.Rank)
	assert.Equal(t, "The Shawshank Redemption", first.Name)
	assert.Equal(t, "https://www.imdb.com/title/tt0111161", first.Link)
	assert.Equal(t, "Frank Darabont", first.Director())
	assert.Equal(t, "Lead One, Lead Two", first.Stars())
	assert.Equal(t, "Drama", first.Genre())
	assert.Equal(t, "1972", first.Year())
	assert.Equal(t, 9.2, first.RatingValue)
	assert.Equal(t, 1900000.0, first.RatingCount)
	assert.Equal(t, extractor.NotRated, first.ContentRating)

	second, ok := cat.Lookup("The Godfather")
	require.True(t, ok)
	assert.Equal(t, "Crime, Drama", second.Genre())

	assert.Empty(t, sink.Errors())
}

func TestBuild_VisitsPagesInListingOrder(t *testing.T) {
	source := newSource()
	b := catalog.NewBuilder(source, extractor.NewPageExtractor(&metadata.NoopSink{}), listURL, baseURL, &metadata.NoopSink{})

	_, err := b.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		listURL.String(),
		"https://www.imdb.com/title/tt0111161",
		"https://www.imdb.com/title/tt0068646",
	}, source.requested)
}

func TestBuild_DuplicateNameFetchedOnce(t *testing.T) {
	source := newSource()
	source.pages[listURL.String()] = chart(
		[3]string{"1", "/title/tt0111161/", "Same"},
		[3]string{"2", "/title/tt0068646/", "Same"},
	)
	b := catalog.NewBuilder(source, extractor.NewPageExtractor(&metadata.NoopSink{}), listURL, baseURL, &metadata.NoopSink{})

	cat, err := b.Build(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, cat.Len())

	only := cat.Movies()[0]
	assert.Equal(t, 2, only.Rank)
	assert.Equal(t, "Francis Ford Coppola", only.Director())
	assert.Len(t, source.requested, 2)
}

func TestBuild_ListingFetchFailure(t *testing.T) {
	source := newSource()
	source.failOn = listURL.String()
	b := catalog.NewBuilder(source, extractor.NewPageExtractor(&metadata.NoopSink{}), listURL, baseURL, &metadata.NoopSink{})

	cat, err := b.Build(context.Background())
	assert.Nil(t, cat)

	var catalogErr *catalog.CatalogError
	require.ErrorAs(t, err, &catalogErr)
	assert.Equal(t, catalog.ErrCauseListingFetch, catalogErr.Cause)
	assert.Contains(t, err.Error(), "connection reset by peer")
}

func TestBuild_DetailFetchFailureAborts(t *testing.T) {
	source := newSource()
	source.failOn = "https://www.imdb.com/title/tt0111161"
	b := catalog.NewBuilder(source, extractor.NewPageExtractor(&metadata.NoopSink{}), listURL, baseURL, &metadata.NoopSink{})

	cat, err := b.Build(context.Background())
	assert.Nil(t, cat)

	var catalogErr *catalog.CatalogError
	require.ErrorAs(t, err, &catalogErr)
	assert.Equal(t, catalog.ErrCauseDetailFetch, catalogErr.Cause)
	assert.Equal(t, "The Shawshank Redemption", catalogErr.Movie)
	assert.Equal(t, failure.SeverityFatal, catalogErr.Severity())
	// the second movie is never requested
	assert.Len(t, source.requested, 2)
}

func TestBuild_MissingRequiredFieldAborts(t *testing.T) {
	source := newSource()
	source.pages["https://www.imdb.com/title/tt0068646"] = `<html><head><script type="application/ld+json">{
		"director": {"name": "Francis Ford Coppola"},
		"genre": "Crime",
		"datePublished": "1972-03-24",
		"aggregateRating": {"ratingValue": 9.2, "ratingCount": 1900000}
	}</script></head></html>`
	sink := &metadatatest.Sink{}
	b := catalog.NewBuilder(source, extractor.NewPageExtractor(sink), listURL, baseURL, sink)

	_, err := b.Build(context.Background())

	var catalogErr *catalog.CatalogError
	require.ErrorAs(t, err, &catalogErr)
	assert.Equal(t, catalog.ErrCauseDetailExtract, catalogErr.Cause)

	var extractionErr *extractor.ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Equal(t, extractor.ErrCauseMissingField, extractionErr.Cause)
	assert.Equal(t, "actor", extractionErr.Field)

	require.Len(t, sink.Errors(), 1)
	assert.Equal(t, "extractor", sink.Errors()[0].PackageName)
}

func TestBuild_EmptyListing(t *testing.T) {
	source := newSource()
	source.pages[listURL.String()] = "<html><body></body></html>"
	b := catalog.NewBuilder(source, extractor.NewPageExtractor(&metadata.NoopSink{}), listURL, baseURL, &metadata.NoopSink{})

	_, err := b.Build(context.Background())

	var catalogErr *catalog.CatalogError
	require.ErrorAs(t, err, &catalogErr)
	assert.Equal(t, catalog.ErrCauseListingParse, catalogErr.Cause)
}

func TestBuild_CancelledContext(t *testing.T) {
	source := newSource()
	sink := &metadatatest.Sink{}
	b := catalog.NewBuilder(source, extractor.NewPageExtractor(sink), listURL, baseURL, sink)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := b.Build(ctx)

	var catalogErr *catalog.CatalogError
	require.ErrorAs(t, err, &catalogErr)
	assert.Equal(t, catalog.ErrCauseCancelled, catalogErr.Cause)
	assert.ErrorIs(t, err, context.Canceled)

	require.Len(t, sink.Errors(), 1)
	assert.Equal(t, "Builder.Build", sink.Errors()[0].Action)
	assert.Equal(t, metadata.CauseRetryFailure, sink.Errors()[0].Cause)
}
