package service

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Abinayasri1011/noolsakaa/internal/catalog/model"
	"github.com/Abinayasri1011/noolsakaa/internal/metrics"
)

// stamp identifies one version of a source file.
type stamp struct {
	size    int64
	modTime time.Time
}

func (s stamp) same(o stamp) bool { return s.size == o.size && s.modTime.Equal(o.modTime) }

type cached struct {
	stamp   stamp
	catalog *model.Catalog
}

// Loader loads catalogs from disk and caches them by absolute path. A cached
// catalog is reused until the file's size or modification time changes.
// Returned catalogs are shared and must not be modified.
type Loader struct {
	headerRow int

	mu    sync.Mutex
	cache map[string]cached
	group singleflight.Group
}

func NewLoader(headerRow int) *Loader {
	if headerRow < 1 {
		headerRow = 1
	}
	return &Loader{headerRow: headerRow, cache: make(map[string]cached)}
}

// Load returns the catalog for path, reading it only when the cache is cold
// or the file changed on disk.
func (l *Loader) Load(path string) (*model.Catalog, error) {
	key, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	fi, err := os.Stat(key)
	if err != nil {
		metrics.RecordCatalogLoad("error", 0)
		return nil, fmt.Errorf("stat catalog: %w", err)
	}
	st := stamp{size: fi.Size(), modTime: fi.ModTime()}

	l.mu.Lock()
	c, ok := l.cache[key]
	l.mu.Unlock()
	if ok && c.stamp.same(st) {
		metrics.RecordCatalogLoad("hit", c.catalog.Len())
		return c.catalog, nil
	}

	v, err, _ := l.group.Do(key, func() (any, error) {
		cat, err := l.read(key)
		if err != nil {
			return nil, err
		}
		l.mu.Lock()
		l.cache[key] = cached{stamp: st, catalog: cat}
		l.mu.Unlock()
		return cat, nil
	})
	if err != nil {
		metrics.RecordCatalogLoad("error", 0)
		return nil, err
	}
	cat := v.(*model.Catalog)
	metrics.RecordCatalogLoad("miss", cat.Len())
	return cat, nil
}

// Invalidate drops the cached catalog for path.
func (l *Loader) Invalidate(path string) {
	key, err := filepath.Abs(path)
	if err != nil {
		return
	}
	l.mu.Lock()
	delete(l.cache, key)
	l.mu.Unlock()
}

func (l *Loader) read(path string) (*model.Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return LoadReader(f, filepath.Base(path), l.headerRow)
}
