package io

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/OFFIS-RIT/umlreview/pkg/loader"
)

// IOFileLoader loads corpus files directly from a local directory with
// caching.
type IOFileLoader struct {
	root string

	cache   map[string][]byte
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewIOFileLoader creates a filesystem-based loader rooted at dir.
func NewIOFileLoader(dir string) *IOFileLoader {
	return &IOFileLoader{
		root:  dir,
		cache: make(map[string][]byte),
	}
}

// Root returns the directory the loader reads from.
func (l *IOFileLoader) Root() string {
	return l.root
}

// ListFiles walks the root recursively and returns every markdown file.
// Names are slash separated paths relative to the root.
func (l *IOFileLoader) ListFiles(ctx context.Context) ([]loader.CorpusFile, error) {
	info, err := os.Stat(l.root)
	if err != nil {
		return nil, fmt.Errorf("corpus directory %s: %w", l.root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("corpus directory %s: not a directory", l.root)
	}

	files := make([]loader.CorpusFile, 0)
	err = filepath.WalkDir(l.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !loader.IsMarkdown(d.Name()) {
			return nil
		}

		rel, err := filepath.Rel(l.root, p)
		if err != nil {
			return err
		}
		files = append(files, loader.CorpusFile{
			Name:   filepath.ToSlash(rel),
			Path:   p,
			Loader: l,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})
	return files, nil
}

// GetFileText reads the file content from the filesystem. Results are cached.
func (l *IOFileLoader) GetFileText(ctx context.Context, file loader.CorpusFile) ([]byte, error) {
	key := loader.CacheKey(file)

	l.cacheMu.RLock()
	if cached, ok := l.cache[key]; ok {
		l.cacheMu.RUnlock()
		return cached, nil
	}
	l.cacheMu.RUnlock()

	result, err, _ := l.group.Do(key, func() (any, error) {
		l.cacheMu.RLock()
		if cached, ok := l.cache[key]; ok {
			l.cacheMu.RUnlock()
			return cached, nil
		}
		l.cacheMu.RUnlock()

		result, err := os.ReadFile(file.Path)
		if err != nil {
			return nil, err
		}

		l.cacheMu.Lock()
		l.cache[key] = result
		l.cacheMu.Unlock()

		return result, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]byte), nil
}
