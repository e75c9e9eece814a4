package loader

import (
	"context"
	"path"
	"strings"
)

// CorpusFile is a reference document the corpus is built from. Name is the
// source relative path reported in retrieval results, Path is what the
// Loader needs to fetch the content.
//
// The actual file content is retrieved via the associated FileLoader.
type CorpusFile struct {
	Name   string
	Path   string
	Loader FileLoader
}

// GetText retrieves the raw content of the file using its Loader.
//
// Example:
//
//	text, err := file.GetText(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(string(text))
func (f *CorpusFile) GetText(ctx context.Context) ([]byte, error) {
	return f.Loader.GetFileText(ctx, *f)
}

// FileLoader defines the interface for loading the contents of a CorpusFile.
// Implementations may load files from disk, cloud storage, or other sources.
type FileLoader interface {
	GetFileText(ctx context.Context, file CorpusFile) ([]byte, error)
}

// Source enumerates the reference documents of a corpus. Implementations
// return only markdown files, sorted by Name.
type Source interface {
	ListFiles(ctx context.Context) ([]CorpusFile, error)
}

// CacheKey returns the key loaders cache file content under.
func CacheKey(file CorpusFile) string {
	return file.Name + ":" + file.Path
}

var markdownExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
}

// IsMarkdown reports whether a file name carries a markdown extension.
func IsMarkdown(name string) bool {
	return markdownExtensions[strings.ToLower(path.Ext(name))]
}
