package extractor

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rohmanhakim/top-movies/internal/metadata"
	"github.com/rohmanhakim/top-movies/pkg/failure"
)

/*
Responsibilities
- Read the ranked entries of the chart page
- Read a movie page's schema.org linked-data block

The chart page is read from its poster columns. When a page carries none,
the chart's own linked-data ItemList is used instead; that is the only
fallback. Detail fields are never guessed: a value of an unknown shape is
an error, not a default.
*/

type PageExtractor struct {
	metadataSink metadata.MetadataSink
}

func NewPageExtractor(metadataSink metadata.MetadataSink) *PageExtractor {
	return &PageExtractor{
		metadataSink: metadataSink,
	}
}

func (p *PageExtractor) ExtractListing(pageURL url.URL, body string) ([]ListingEntry, failure.ClassifiedError) {
	entries, err := extractListing(body)
	if err != nil {
		p.recordError("PageExtractor.ExtractListing", pageURL, err)
		return nil, err
	}
	return entries, nil
}

func (p *PageExtractor) ExtractDetail(pageURL url.URL, body string) (Detail, failure.ClassifiedError) {
	detail, err := extractDetail(body)
	if err != nil {
		p.recordError("PageExtractor.ExtractDetail", pageURL, err)
		return Detail{}, err
	}
	return detail, nil
}

func (p *PageExtractor) recordError(action string, pageURL url.URL, err *ExtractionError) {
	attrs := []metadata.Attribute{
		metadata.NewAttr(metadata.AttrURL, pageURL.String()),
	}
	if err.Field != "" {
		attrs = append(attrs, metadata.NewAttr(metadata.AttrField, err.Field))
	}
	p.metadataSink.RecordError(
		time.Now(),
		"extractor",
		action,
		mapExtractionErrorToMetadataCause(err),
		err.Error(),
		attrs,
	)
}

func parseDocument(body string) (*goquery.Document, *ExtractionError) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, &ExtractionError{
			Message: err.Error(),
			Cause:   ErrCauseNotHTML,
		}
	}
	return doc, nil
}

func extractListing(body string) ([]ListingEntry, *ExtractionError) {
	doc, err := parseDocument(body)
	if err != nil {
		return nil, err
	}

	columns := doc.Find(posterColumnSelector)
	if columns.Length() == 0 {
		return listingFromItemList(doc)
	}

	entries := make([]ListingEntry, 0, columns.Length())
	var firstErr *ExtractionError
	columns.EachWithBreak(func(i int, s *goquery.Selection) bool {
		entry, err := listingEntryFromColumn(s)
		if err != nil {
			firstErr = err
			return false
		}
		entries = append(entries, entry)
		return true
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return entries, nil
}

func listingEntryFromColumn(s *goquery.Selection) (ListingEntry, *ExtractionError) {
	href, ok := s.Find("a").First().Attr("href")
	if !ok {
		return ListingEntry{}, missingField("posterColumn a[href]")
	}
	// a missing alt yields an empty name
	name, _ := s.Find("img").First().Attr("alt")

	rawRank, ok := s.Find("span").First().Attr(rankAttr)
	if !ok {
		return ListingEntry{}, missingField("posterColumn span[" + rankAttr + "]")
	}
	rank, convErr := strconv.Atoi(strings.TrimSpace(rawRank))
	if convErr != nil {
		return ListingEntry{}, &ExtractionError{
			Message: "rank " + strconv.Quote(rawRank) + " is not an integer",
			Cause:   ErrCauseInvalidValue,
			Field:   rankAttr,
		}
	}

	return ListingEntry{
		Rank: rank,
		Href: strings.TrimSpace(href),
		Name: cleanText(name),
	}, nil
}

type ldItemList struct {
	Type     string `json:"@type"`
	Elements []struct {
		Position int `json:"position"`
		Item     struct {
			URL  string `json:"url"`
			Name string `json:"name"`
		} `json:"item"`
	} `json:"itemListElement"`
}

func listingFromItemList(doc *goquery.Document) ([]ListingEntry, *ExtractionError) {
	var entries []ListingEntry
	doc.Find(linkedDataSelector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var list ldItemList
		if err := json.Unmarshal([]byte(s.Text()), &list); err != nil || list.Type != "ItemList" {
			return true
		}
		for i, el := range list.Elements {
			rank := el.Position
			if rank == 0 {
				rank = i + 1
			}
			entries = append(entries, ListingEntry{
				Rank: rank,
				Href: strings.TrimSpace(el.Item.URL),
				Name: cleanText(el.Item.Name),
			})
		}
		return false
	})

	if len(entries) == 0 {
		return nil, &ExtractionError{
			Message: "page has neither poster columns nor an ItemList",
			Cause:   ErrCauseNoListing,
		}
	}
	return entries, nil
}

func extractDetail(body string) (Detail, *ExtractionError) {
	doc, err := parseDocument(body)
	if err != nil {
		return Detail{}, err
	}

	script := doc.Find(linkedDataSelector).First()
	if script.Length() == 0 {
		return Detail{}, &ExtractionError{
			Message: "page has no linked-data block",
			Cause:   ErrCauseNoStructuredData,
		}
	}

	var fields map[string]json.RawMessage
	if jsonErr := json.Unmarshal([]byte(script.Text()), &fields); jsonErr != nil {
		return Detail{}, decodeError("ld+json", jsonErr)
	}

	return detailFromFields(fields)
}

func detailFromFields(fields map[string]json.RawMessage) (Detail, *ExtractionError) {
	required := func(key string) (json.RawMessage, *ExtractionError) {
		raw, ok := fields[key]
		if !ok || isNull(raw) {
			return nil, missingField(key)
		}
		return raw, nil
	}

	var detail Detail

	raw, err := required(keyDirector)
	if err != nil {
		return Detail{}, err
	}
	if detail.Directors, err = decodeNamedThings(keyDirector, raw); err != nil {
		return Detail{}, err
	}

	if raw, err = required(keyActor); err != nil {
		return Detail{}, err
	}
	if detail.Cast, err = decodeNamedThings(keyActor, raw); err != nil {
		return Detail{}, err
	}

	if raw, err = required(keyGenre); err != nil {
		return Detail{}, err
	}
	if detail.Genres, err = decodeTexts(keyGenre, raw); err != nil {
		return Detail{}, err
	}

	if raw, err = required(keyDatePublished); err != nil {
		return Detail{}, err
	}
	if detail.DatePublished, err = decodeString(keyDatePublished, raw); err != nil {
		return Detail{}, err
	}

	if raw, err = required(keyAggregateRating); err != nil {
		return Detail{}, err
	}
	if detail.RatingValue, detail.RatingCount, err = decodeAggregateRating(raw); err != nil {
		return Detail{}, err
	}

	detail.ContentRating = NotRated
	if raw, ok := fields[keyContentRating]; ok && !isNull(raw) {
		if detail.ContentRating, err = decodeString(keyContentRating, raw); err != nil {
			return Detail{}, err
		}
	}

	return detail, nil
}

func decodeAggregateRating(raw json.RawMessage) (float64, float64, *ExtractionError) {
	if jsonKind(raw) != '{' {
		return 0, 0, unexpectedShape(keyAggregateRating, "object", raw)
	}
	var rating map[string]json.RawMessage
	if err := json.Unmarshal(raw, &rating); err != nil {
		return 0, 0, decodeError(keyAggregateRating, err)
	}

	valueField := keyAggregateRating + "." + keyRatingValue
	countField := keyAggregateRating + "." + keyRatingCount

	rawValue, ok := rating[keyRatingValue]
	if !ok || isNull(rawValue) {
		return 0, 0, missingField(valueField)
	}
	rawCount, ok := rating[keyRatingCount]
	if !ok || isNull(rawCount) {
		return 0, 0, missingField(countField)
	}

	value, err := decodeNumber(valueField, rawValue)
	if err != nil {
		return 0, 0, err
	}
	count, err := decodeNumber(countField, rawCount)
	if err != nil {
		return 0, 0, err
	}
	return value, count, nil
}
