package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rohmanhakim/top-movies/internal/metadata"
	"github.com/rohmanhakim/top-movies/pkg/failure"
	"github.com/rohmanhakim/top-movies/pkg/retry"
)

/*
Responsibilities

- Perform HTTP GET requests with browser-like headers
- Apply the per-request timeout
- Retry transient failures (transport errors, 5xx, 429)
- Classify responses

Only successful HTML responses are returned. The fetcher never parses
content; it returns bytes and response metadata.
*/

const maxRedirects = 10

type HtmlFetcher struct {
	metadataSink metadata.MetadataSink
	httpClient   *http.Client
}

// NewHtmlFetcher builds a fetcher around httpClient. A nil client gets a
// fresh one with the given timeout and a bounded redirect chain.
func NewHtmlFetcher(
	metadataSink metadata.MetadataSink,
	httpClient *http.Client,
	timeout time.Duration,
) *HtmlFetcher {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return http.ErrUseLastResponse
				}
				return nil
			},
		}
	}
	return &HtmlFetcher{
		metadataSink: metadataSink,
		httpClient:   httpClient,
	}
}

func (h *HtmlFetcher) Fetch(
	ctx context.Context,
	fetchParam FetchParam,
	retryParam retry.RetryParam,
) (FetchResult, failure.ClassifiedError) {
	callerMethod := "HtmlFetcher.Fetch"
	startTime := time.Now()

	result := retry.Retry(ctx, retryParam, func() (FetchResult, failure.ClassifiedError) {
		return h.performFetch(ctx, fetchParam.fetchUrl, fetchParam.userAgent)
	})

	duration := time.Since(startTime)

	var statusCode int
	var contentType string
	if result.IsSuccess() {
		value := result.Value()
		statusCode = value.Code()
		contentType = value.ContentType()
	} else {
		var fetchErr *FetchError
		if errors.As(result.Err(), &fetchErr) {
			statusCode = fetchErr.StatusCode
		}
	}

	h.metadataSink.RecordFetch(
		fetchParam.fetchUrl.String(),
		statusCode,
		duration,
		contentType,
		result.Attempts(),
	)

	if result.IsFailure() {
		h.recordError(callerMethod, fetchParam.fetchUrl, result.Err())
		return FetchResult{}, result.Err()
	}

	value := result.Value()
	value.attempts = result.Attempts()
	return value, nil
}

func (h *HtmlFetcher) recordError(callerMethod string, fetchUrl url.URL, err failure.ClassifiedError) {
	cause := metadata.CauseUnknown
	var retryErr *retry.RetryError
	var fetchErr *FetchError
	switch {
	case errors.As(err, &retryErr):
		cause = metadata.CauseRetryFailure
	case errors.As(err, &fetchErr):
		cause = mapFetchErrorToMetadataCause(fetchErr)
	}

	h.metadataSink.RecordError(
		time.Now(),
		"fetcher",
		callerMethod,
		cause,
		err.Error(),
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrURL, fetchUrl.String()),
		},
	)
}

func (h *HtmlFetcher) performFetch(ctx context.Context, fetchUrl url.URL, userAgent string) (FetchResult, failure.ClassifiedError) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchUrl.String(), nil)
	if err != nil {
		return FetchResult{}, &FetchError{
			Message: fmt.Sprintf("failed to create request: %v", err),
			Cause:   ErrCauseInvalidRequest,
		}
	}

	for key, value := range requestHeaders(userAgent) {
		req.Header.Set(key, value)
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		// a cancelled run must not be retried
		return FetchResult{}, &FetchError{
			Message:   fmt.Sprintf("request failed: %v", err),
			Retryable: ctx.Err() == nil,
			Cause:     ErrCauseNetworkFailure,
		}
	}
	defer resp.Body.Close()

	if fetchErr := classifyStatus(resp.StatusCode); fetchErr != nil {
		return FetchResult{}, fetchErr
	}

	contentType := resp.Header.Get("Content-Type")
	if !isHTMLContent(contentType) {
		return FetchResult{}, &FetchError{
			Message:    fmt.Sprintf("non-HTML content type: %s", contentType),
			Cause:      ErrCauseContentTypeInvalid,
			StatusCode: resp.StatusCode,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return FetchResult{}, &FetchError{
			Message:    fmt.Sprintf("failed to read response body: %v", err),
			Retryable:  true,
			Cause:      ErrCauseReadResponseBodyError,
			StatusCode: resp.StatusCode,
		}
	}

	return FetchResult{
		url:  fetchUrl,
		body: body,
		meta: ResponseMeta{
			statusCode:  resp.StatusCode,
			contentType: contentType,
		},
	}, nil
}

func classifyStatus(code int) *FetchError {
	switch {
	case code >= 500:
		return &FetchError{
			Message:    fmt.Sprintf("server error: %d", code),
			Retryable:  true,
			Cause:      ErrCauseRequest5xx,
			StatusCode: code,
		}
	case code == http.StatusTooManyRequests:
		return &FetchError{
			Message:    "rate limited (429)",
			Retryable:  true,
			Cause:      ErrCauseRequestTooMany,
			StatusCode: code,
		}
	case code == http.StatusForbidden || code == http.StatusUnauthorized:
		return &FetchError{
			Message:    fmt.Sprintf("access denied (%d)", code),
			Cause:      ErrCauseRequestPageForbidden,
			StatusCode: code,
		}
	case code >= 400:
		return &FetchError{
			Message:    fmt.Sprintf("client error: %d", code),
			Cause:      ErrCauseRequest4xx,
			StatusCode: code,
		}
	case code >= 300:
		// only reached once the redirect chain is exhausted
		return &FetchError{
			Message:    fmt.Sprintf("redirect error: %d", code),
			Cause:      ErrCauseRedirectLimitExceeded,
			StatusCode: code,
		}
	}
	return nil
}

func isHTMLContent(contentType string) bool {
	contentType = strings.ToLower(contentType)
	return strings.Contains(contentType, "text/html") ||
		strings.Contains(contentType, "application/xhtml")
}

func requestHeaders(userAgent string) map[string]string {
	return map[string]string{
		"User-Agent":      userAgent,
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language": "en-US,en;q=0.5",
	}
}
