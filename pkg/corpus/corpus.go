package corpus

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/OFFIS-RIT/umlreview/pkg/loader"
	"github.com/OFFIS-RIT/umlreview/pkg/logger"
)

const maxParallelReads = 8

// LoadDocuments reads every file of src and returns one Document per diagram
// block, ordered by file then by position in the file. Files are read
// concurrently.
func LoadDocuments(ctx context.Context, src loader.Source) ([]Document, error) {
	files, err := src.ListFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list corpus files: %w", err)
	}

	perFile := make([][]Document, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelReads)
	for i, file := range files {
		g.Go(func() error {
			content, err := file.GetText(gctx)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", file.Name, err)
			}
			blocks := ExtractFencedBlocks(content)
			docs := make([]Document, 0, len(blocks))
			for _, b := range blocks {
				docs = append(docs, Document{File: file.Name, Text: b})
			}
			perFile[i] = docs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(files))
	for _, d := range perFile {
		docs = append(docs, d...)
	}

	logger.Info("Loaded corpus", "files", len(files), "diagrams", len(docs))
	return docs, nil
}

// Build loads src and indexes it. It fails with ErrEmptyCorpus when src holds
// no diagram blocks.
func Build(ctx context.Context, src loader.Source) (*Index, error) {
	start := time.Now()

	docs, err := LoadDocuments(ctx, src)
	if err != nil {
		return nil, err
	}

	idx, err := NewIndex(docs)
	if err != nil {
		return nil, err
	}

	logger.Debug("Built retrieval index",
		"documents", idx.Len(),
		"terms", idx.VocabularySize(),
		"duration", time.Since(start),
	)
	return idx, nil
}
