package fetcher

import (
	"context"

	"github.com/rohmanhakim/top-movies/pkg/failure"
	"github.com/rohmanhakim/top-movies/pkg/retry"
)

type Fetcher interface {
	Fetch(
		ctx context.Context,
		fetchParam FetchParam,
		retryParam retry.RetryParam,
	) (FetchResult, failure.ClassifiedError)
}
