package fetcher

import (
	"net/url"
)

// HTTP boundary

type FetchParam struct {
	fetchUrl  url.URL
	userAgent string
}

func NewFetchParam(fetchUrl url.URL, userAgent string) FetchParam {
	return FetchParam{
		fetchUrl:  fetchUrl,
		userAgent: userAgent,
	}
}

func (p FetchParam) URL() url.URL {
	return p.fetchUrl
}

func (p FetchParam) UserAgent() string {
	return p.userAgent
}

type FetchResult struct {
	url      url.URL
	body     []byte
	meta     ResponseMeta
	attempts int
}

func (f *FetchResult) URL() url.URL {
	return f.url
}

func (f *FetchResult) Body() []byte {
	return f.body
}

func (f *FetchResult) Code() int {
	return f.meta.statusCode
}

func (f *FetchResult) ContentType() string {
	return f.meta.contentType
}

// Attempts is how many requests were made before this result was obtained.
func (f *FetchResult) Attempts() int {
	return f.attempts
}

type ResponseMeta struct {
	statusCode  int
	contentType string
}

// NewFetchResultForTest lets other packages' tests build a FetchResult.
func NewFetchResultForTest(
	url url.URL,
	body []byte,
	statusCode int,
	contentType string,
) FetchResult {
	return FetchResult{
		url:  url,
		body: body,
		meta: ResponseMeta{
			statusCode:  statusCode,
			contentType: contentType,
		},
		attempts: 1,
	}
}
