package cache_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rohmanhakim/top-movies/internal/cache"
	"github.com/rohmanhakim/top-movies/internal/metadata"
	"github.com/rohmanhakim/top-movies/internal/metadata/metadatatest"
	"github.com/rohmanhakim/top-movies/pkg/hashutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileCache_MissingFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movies.json")

	c, loadErr := cache.LoadFileCache(path, &metadata.NoopSink{})
	require.Nil(t, loadErr)
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, path, c.Path())
}

func TestLoadFileCache_CorruptFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movies.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"https://x": `), 0o644))

	c, loadErr := cache.LoadFileCache(path, &metadata.NoopSink{})
	require.NotNil(t, loadErr)
	assert.Equal(t, cache.ErrCauseDecodeFailure, loadErr.Cause)
	assert.Equal(t, 0, c.Len())

	// still usable
	require.NoError(t, c.Put("https://x", "body"))
	got, ok := c.Get("https://x")
	assert.True(t, ok)
	assert.Equal(t, "body", got)
}

func TestLoadFileCache_ReadsExistingEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movies.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"https://www.imdb.com/chart/top":"<html>chart</html>"}`), 0o644))

	c, loadErr := cache.LoadFileCache(path, &metadata.NoopSink{})
	require.Nil(t, loadErr)

	got, ok := c.Get("https://www.imdb.com/chart/top")
	assert.True(t, ok)
	assert.Equal(t, "<html>chart</html>", got)
}

func TestLoadFileCache_NullObjectIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movies.json")
	require.NoError(t, os.WriteFile(path, []byte(`null`), 0o644))

	c, loadErr := cache.LoadFileCache(path, &metadata.NoopSink{})
	require.Nil(t, loadErr)
	require.NoError(t, c.Put("k", "v"))
	assert.Equal(t, 1, c.Len())
}

func TestFileCache_PutRewritesWholeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "movies.json")
	sink := &metadatatest.Sink{}

	c, loadErr := cache.LoadFileCache(path, sink)
	require.Nil(t, loadErr)

	require.NoError(t, c.Put("https://a", "<html>A</html>"))
	require.NoError(t, c.Put("https://b", "<html>B</html>"))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	var stored map[string]string
	require.NoError(t, json.Unmarshal(content, &stored))
	assert.Equal(t, map[string]string{
		"https://a": "<html>A</html>",
		"https://b": "<html>B</html>",
	}, stored)

	// a fresh load sees both entries
	reloaded, loadErr := cache.LoadFileCache(path, sink)
	require.Nil(t, loadErr)
	assert.Equal(t, 2, reloaded.Len())

	artifacts := sink.Artifacts()
	require.Len(t, artifacts, 2)
	last := artifacts[1]
	assert.Equal(t, metadata.ArtifactCacheFile, last.Kind)
	assert.Equal(t, path, last.Path)

	digest := metadatatest.AttrValue(last.Attrs, metadata.AttrDigest)
	assert.True(t, strings.HasPrefix(digest, "blake3:"))
	ok, err := hashutil.Verify(content, digest)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFileCache_PutWriteFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	sink := &metadatatest.Sink{}
	c, _ := cache.LoadFileCache(filepath.Join(blocker, "movies.json"), sink)

	err := c.Put("https://a", "body")
	require.Error(t, err)

	var cacheErr *cache.CacheError
	require.ErrorAs(t, err, &cacheErr)
	assert.Equal(t, cache.ErrCauseWriteFailure, cacheErr.Cause)

	// entry kept in memory
	got, ok := c.Get("https://a")
	assert.True(t, ok)
	assert.Equal(t, "body", got)

	errs := sink.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, metadata.CauseStorageFailure, errs[0].Cause)
	assert.Equal(t, "FileCache.Put", errs[0].Action)
}
