package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/folio/internal/common"
)

func newTestStore(t *testing.T) (*FileBlobStore, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewFileBlobStore(common.NewSilentLogger(), &FileBlobConfig{BasePath: dir})
	require.NoError(t, err)
	return store, dir
}

func TestFileBlobStore_PutGet(t *testing.T) {
	store, dir := newTestStore(t)
	ctx := context.Background()
	data := []byte("Month,Cumulative,Period\nOct-24,0,0\n")

	require.NoError(t, store.Put(ctx, "series/returns.csv", data))

	got, err := store.Get(ctx, "series/returns.csv")
	require.NoError(t, err)
	assert.Equal(t, data, got)
	assert.FileExists(t, filepath.Join(dir, "series", "returns.csv"))
}

func TestFileBlobStore_GetNotFound(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Get(context.Background(), "missing.csv")
	assert.ErrorIs(t, err, ErrBlobNotFound)
}

func TestFileBlobStore_PutOverwrites(t *testing.T) {
	store, dir := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "chart.png", []byte("one")))
	require.NoError(t, store.Put(ctx, "chart.png", []byte("two")))

	got, err := store.Get(ctx, "chart.png")
	require.NoError(t, err)
	assert.Equal(t, "two", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestFileBlobStore_PathTraversal(t *testing.T) {
	store, dir := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "../../escape.csv", []byte("x")))

	assert.FileExists(t, filepath.Join(dir, "escape.csv"))
	_, err := os.Stat(filepath.Join(filepath.Dir(filepath.Dir(dir)), "escape.csv"))
	assert.True(t, os.IsNotExist(err))
}

func TestNewFileBlobStore_RequiresPath(t *testing.T) {
	_, err := NewFileBlobStore(nil, &FileBlobConfig{})
	assert.Error(t, err)
}

// stubFeed implements interfaces.FeedClient for testing.
type stubFeed struct {
	gotURL string
	text   string
	err    error
}

func (f *stubFeed) Fetch(ctx context.Context, url string) (string, error) {
	f.gotURL = url
	return f.text, f.err
}

func TestNewSeriesSource_File(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "portfolio-returns.csv", []byte("csv-text")))

	src := NewSeriesSource(common.SeriesConfig{Source: "portfolio-returns.csv"}, store, &stubFeed{})

	assert.Equal(t, "portfolio-returns.csv", src.Name())
	text, err := src.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, "csv-text", text)
}

func TestNewSeriesSource_Remote(t *testing.T) {
	feed := &stubFeed{err: errors.New("HTTP 500")}
	src := NewSeriesSource(common.SeriesConfig{Source: "https://example.com/r.csv"}, nil, feed)

	_, err := src.Fetch(context.Background())
	assert.Error(t, err)
	assert.Equal(t, "https://example.com/r.csv", feed.gotURL)
	assert.Equal(t, "https://example.com/r.csv", src.Name())
}
