package storage

import (
	"context"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
)

// BlobSource reads the series CSV from a blob store key.
type BlobSource struct {
	store interfaces.BlobStore
	key   string
}

// NewBlobSource creates a source reading key from store.
func NewBlobSource(store interfaces.BlobStore, key string) *BlobSource {
	return &BlobSource{store: store, key: key}
}

func (s *BlobSource) Name() string { return s.key }

// Fetch reads the blob once.
func (s *BlobSource) Fetch(ctx context.Context) (string, error) {
	data, err := s.store.Get(ctx, s.key)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FeedSource reads the series CSV from a URL.
type FeedSource struct {
	client interfaces.FeedClient
	url    string
}

// NewFeedSource creates a source fetching url with client.
func NewFeedSource(client interfaces.FeedClient, url string) *FeedSource {
	return &FeedSource{client: client, url: url}
}

func (s *FeedSource) Name() string { return s.url }

// Fetch performs a single GET.
func (s *FeedSource) Fetch(ctx context.Context) (string, error) {
	return s.client.Fetch(ctx, s.url)
}

// NewSeriesSource picks a feed source for http(s) URLs and a blob source otherwise.
func NewSeriesSource(cfg common.SeriesConfig, store interfaces.BlobStore, client interfaces.FeedClient) interfaces.SeriesSource {
	if cfg.IsRemote() {
		return NewFeedSource(client, cfg.Source)
	}
	return NewBlobSource(store, cfg.Source)
}
