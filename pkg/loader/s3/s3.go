package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/sync/singleflight"

	"github.com/OFFIS-RIT/umlreview/internal/util"
	"github.com/OFFIS-RIT/umlreview/pkg/loader"
)

const maxTries = 3

// ObjectAPI is the part of the S3 client the loader uses.
type ObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3FileLoader is a corpus Source and FileLoader backed by an S3 bucket.
// Every markdown object below prefix is a corpus file.
//
// This loader is useful when the reference documents are stored in S3
// instead of the local filesystem.
type S3FileLoader struct {
	bucket string
	prefix string
	client ObjectAPI

	cache   map[string][]byte
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewS3FileLoaderWithClient creates a new S3FileLoader using an existing
// client. This is useful if you want to reuse a preconfigured AWS client
// (e.g., with custom middleware or credentials).
func NewS3FileLoaderWithClient(bucket, prefix string, client ObjectAPI) *S3FileLoader {
	return &S3FileLoader{
		bucket: bucket,
		prefix: prefix,
		client: client,
		cache:  make(map[string][]byte),
	}
}

// ListFiles pages through the bucket listing and returns the markdown
// objects. Names are keys relative to the prefix.
func (l *S3FileLoader) ListFiles(ctx context.Context) ([]loader.CorpusFile, error) {
	files := make([]loader.CorpusFile, 0)

	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(l.bucket),
	}
	if l.prefix != "" {
		input.Prefix = aws.String(l.prefix)
	}

	for {
		out, err := util.RetryWithContext(ctx, maxTries, func(ctx context.Context) (*s3.ListObjectsV2Output, error) {
			return l.client.ListObjectsV2(ctx, input)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list objects with prefix %q: %w", l.prefix, err)
		}

		for _, obj := range out.Contents {
			if obj.Key == nil || !loader.IsMarkdown(*obj.Key) {
				continue
			}
			key := *obj.Key
			files = append(files, loader.CorpusFile{
				Name:   strings.TrimPrefix(strings.TrimPrefix(key, l.prefix), "/"),
				Path:   key,
				Loader: l,
			})
		}

		if out.IsTruncated != nil && *out.IsTruncated {
			input.ContinuationToken = out.NextContinuationToken
		} else {
			break
		}
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})
	return files, nil
}

// GetFileText retrieves the object behind file from the configured bucket.
// Results are cached.
func (l *S3FileLoader) GetFileText(ctx context.Context, file loader.CorpusFile) ([]byte, error) {
	cacheKey := loader.CacheKey(file)

	l.cacheMu.RLock()
	if cached, ok := l.cache[cacheKey]; ok {
		l.cacheMu.RUnlock()
		return cached, nil
	}
	l.cacheMu.RUnlock()

	result, err, _ := l.group.Do(cacheKey, func() (any, error) {
		l.cacheMu.RLock()
		if cached, ok := l.cache[cacheKey]; ok {
			l.cacheMu.RUnlock()
			return cached, nil
		}
		l.cacheMu.RUnlock()

		byts, err := util.RetryWithContext(ctx, maxTries, func(ctx context.Context) ([]byte, error) {
			return l.getObject(ctx, file.Path)
		})
		if err != nil {
			return nil, err
		}

		l.cacheMu.Lock()
		l.cache[cacheKey] = byts
		l.cacheMu.Unlock()

		return byts, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]byte), nil
}

func (l *S3FileLoader) getObject(ctx context.Context, key string) ([]byte, error) {
	out, err := l.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s from S3: %w", key, err)
	}
	defer out.Body.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, out.Body); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}

	return buf.Bytes(), nil
}
