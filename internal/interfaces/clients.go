package interfaces

import "context"

// FeedClient fetches remote text documents such as the returns CSV.
type FeedClient interface {
	Fetch(ctx context.Context, url string) (string, error)
}
