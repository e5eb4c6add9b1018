package catalog

import (
	"context"
	"net/url"
	"time"

	"github.com/rohmanhakim/top-movies/internal/extractor"
	"github.com/rohmanhakim/top-movies/internal/metadata"
	"github.com/rohmanhakim/top-movies/pkg/failure"
	"github.com/rohmanhakim/top-movies/pkg/urlutil"
)

/*
Responsibilities
- Read the chart page and seed one record per entry
- Visit every seeded movie's page in listing order and merge its details

Pages are visited one at a time. There is no retry here: the page source
already retries transient network failures, so the first error returned
aborts the build and the partial catalog is discarded.
*/

// PageSource returns the body of a page, from cache or network.
type PageSource interface {
	GetOrFetch(ctx context.Context, pageURL url.URL) (string, error)
}

type PageExtractor interface {
	ExtractListing(pageURL url.URL, body string) ([]extractor.ListingEntry, failure.ClassifiedError)
	ExtractDetail(pageURL url.URL, body string) (extractor.Detail, failure.ClassifiedError)
}

type Builder struct {
	source       PageSource
	extractor    PageExtractor
	listURL      url.URL
	baseURL      url.URL
	metadataSink metadata.MetadataSink
}

func NewBuilder(
	source PageSource,
	extractor PageExtractor,
	listURL url.URL,
	baseURL url.URL,
	metadataSink metadata.MetadataSink,
) *Builder {
	return &Builder{
		source:       source,
		extractor:    extractor,
		listURL:      listURL,
		baseURL:      baseURL,
		metadataSink: metadataSink,
	}
}

func (b *Builder) Build(ctx context.Context) (*Catalog, error) {
	cat, err := b.seed(ctx)
	if err != nil {
		return nil, err
	}

	for i := range cat.records {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, b.fail(&CatalogError{
				Message: "build interrupted",
				Cause:   ErrCauseCancelled,
				Movie:   cat.records[i].Name,
				Err:     ctxErr,
			}, cat.records[i].Link)
		}
		if err := b.enrich(ctx, &cat.records[i]); err != nil {
			return nil, err
		}
	}

	return cat, nil
}

func (b *Builder) seed(ctx context.Context) (*Catalog, *CatalogError) {
	body, err := b.source.GetOrFetch(ctx, b.listURL)
	if err != nil {
		return nil, &CatalogError{
			Message: "could not load chart page",
			Cause:   ErrCauseListingFetch,
			Err:     err,
		}
	}

	entries, extractErr := b.extractor.ExtractListing(b.listURL, body)
	if extractErr != nil {
		return nil, &CatalogError{
			Message: "could not read chart page",
			Cause:   ErrCauseListingParse,
			Err:     extractErr,
		}
	}

	cat := NewCatalog()
	for _, entry := range entries {
		link, resolveErr := urlutil.Resolve(b.baseURL, entry.Href)
		if resolveErr != nil {
			return nil, b.fail(&CatalogError{
				Message: "could not resolve " + entry.Href,
				Cause:   ErrCauseInvalidLink,
				Movie:   entry.Name,
				Err:     resolveErr,
			}, entry.Href)
		}
		cat.Add(MovieRecord{
			Rank: entry.Rank,
			Name: entry.Name,
			Link: link.String(),
		})
	}
	return cat, nil
}

func (b *Builder) enrich(ctx context.Context, record *MovieRecord) *CatalogError {
	pageURL, parseErr := url.Parse(record.Link)
	if parseErr != nil {
		return b.fail(&CatalogError{
			Message: "stored link does not parse",
			Cause:   ErrCauseInvalidLink,
			Movie:   record.Name,
			Err:     parseErr,
		}, record.Link)
	}

	body, err := b.source.GetOrFetch(ctx, *pageURL)
	if err != nil {
		return &CatalogError{
			Message: "could not load movie page",
			Cause:   ErrCauseDetailFetch,
			Movie:   record.Name,
			Err:     err,
		}
	}

	detail, extractErr := b.extractor.ExtractDetail(*pageURL, body)
	if extractErr != nil {
		return &CatalogError{
			Message: "could not read movie page",
			Cause:   ErrCauseDetailExtract,
			Movie:   record.Name,
			Err:     extractErr,
		}
	}

	record.mergeDetail(detail)
	return nil
}

// fail records errors raised by the builder itself. Fetch and extraction
// failures are recorded where they happen.
func (b *Builder) fail(err *CatalogError, link string) *CatalogError {
	attrs := []metadata.Attribute{
		metadata.NewAttr(metadata.AttrURL, link),
	}
	if err.Movie != "" {
		attrs = append(attrs, metadata.NewAttr(metadata.AttrMovie, err.Movie))
	}
	b.metadataSink.RecordError(
		time.Now(),
		"catalog",
		"Builder.Build",
		mapCatalogErrorToMetadataCause(err),
		err.Error(),
		attrs,
	)
	return err
}
