package service

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cacheCSV = "Title,Author,Genre\nGitanjali,Rabindranath Tagore,Poetry\n"

func writeCatalog(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestLoaderCachesBySource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.csv")
	writeCatalog(t, path, cacheCSV)

	l := NewLoader(1)
	first, err := l.Load(path)
	require.NoError(t, err)
	require.Equal(t, 1, first.Len())

	again, err := l.Load(path)
	require.NoError(t, err)
	assert.Same(t, first, again)
}

func TestLoaderReloadsChangedSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.csv")
	writeCatalog(t, path, cacheCSV)

	l := NewLoader(1)
	first, err := l.Load(path)
	require.NoError(t, err)

	writeCatalog(t, path, cacheCSV+"The Guide,R. K. Narayan,Fiction\n")
	second, err := l.Load(path)
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, 2, second.Len())
}

func TestLoaderInvalidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.csv")
	writeCatalog(t, path, cacheCSV)

	l := NewLoader(0)
	first, err := l.Load(path)
	require.NoError(t, err)

	l.Invalidate(path)
	second, err := l.Load(path)
	require.NoError(t, err)
	assert.NotSame(t, first, second)
}

func TestLoaderErrors(t *testing.T) {
	dir := t.TempDir()
	l := NewLoader(1)

	_, err := l.Load(filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.csv")
	writeCatalog(t, bad, "Name,Writer\nx,y\n")
	_, err = l.Load(bad)
	assert.Error(t, err)
}

func TestLoaderConcurrentLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.csv")
	writeCatalog(t, path, cacheCSV)
	l := NewLoader(1)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cat, err := l.Load(path)
			assert.NoError(t, err)
			assert.Equal(t, 1, cat.Len())
		}()
	}
	wg.Wait()
}
