package cache

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/rohmanhakim/top-movies/internal/metadata"
	"github.com/rohmanhakim/top-movies/pkg/fileutil"
	"github.com/rohmanhakim/top-movies/pkg/hashutil"
)

/*
FileCache persists the whole mapping as one JSON object {url: body}.

  - Loading never fails the caller: a missing or unreadable file yields an
    empty cache.
  - Every Put rewrites the whole file through a temp file and a rename.
  - No expiry and no versioning. Deleting the file is the only invalidation.
*/
type FileCache struct {
	mu           sync.RWMutex
	path         string
	data         map[string]string
	metadataSink metadata.MetadataSink
}

// LoadFileCache opens the cache stored at path. The returned cache is always
// usable. The error only explains why it started empty and is nil when the
// file simply does not exist yet.
func LoadFileCache(path string, metadataSink metadata.MetadataSink) (*FileCache, *CacheError) {
	c := &FileCache{
		path:         path,
		data:         make(map[string]string),
		metadataSink: metadataSink,
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return c, nil
		}
		return c, &CacheError{
			Message: err.Error(),
			Cause:   ErrCauseReadFailure,
			Path:    path,
		}
	}

	var stored map[string]string
	if err := json.Unmarshal(content, &stored); err != nil {
		return c, &CacheError{
			Message: err.Error(),
			Cause:   ErrCauseDecodeFailure,
			Path:    path,
		}
	}
	if stored != nil {
		c.data = stored
	}
	return c, nil
}

func (c *FileCache) Path() string {
	return c.path
}

func (c *FileCache) Get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	value, ok := c.data[key]
	return value, ok
}

func (c *FileCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.data)
}

// Put stores the entry and rewrites the file. On a write failure the entry
// stays in memory so the run can continue.
func (c *FileCache) Put(key string, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[key] = value

	if err := c.save(); err != nil {
		c.metadataSink.RecordError(
			time.Now(),
			"cache",
			"FileCache.Put",
			mapCacheErrorToMetadataCause(err),
			err.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrPath, c.path),
				metadata.NewAttr(metadata.AttrURL, key),
			},
		)
		return err
	}
	return nil
}

// save must be called with c.mu held.
func (c *FileCache) save() *CacheError {
	content, err := json.Marshal(c.data)
	if err != nil {
		return &CacheError{Message: err.Error(), Cause: ErrCauseEncodeFailure, Path: c.path}
	}

	if writeErr := fileutil.WriteFileAtomic(c.path, content); writeErr != nil {
		return &CacheError{Message: writeErr.Error(), Cause: ErrCauseWriteFailure, Path: c.path}
	}

	digest, err := hashutil.Digest(content, hashutil.HashAlgoBLAKE3)
	if err != nil {
		return nil
	}
	c.metadataSink.RecordArtifact(metadata.ArtifactCacheFile, c.path, []metadata.Attribute{
		metadata.NewAttr(metadata.AttrDigest, digest),
	})
	return nil
}
