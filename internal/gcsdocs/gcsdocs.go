// Package gcsdocs collects statement documents for a batch run, either from
// a local directory or from a Cloud Storage prefix.
package gcsdocs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"github.com/imodoiepale/kra-tools-sub000/internal/logger"
	"github.com/imodoiepale/kra-tools-sub000/internal/pipeline"
)

// FromDir loads every PDF in a local directory into source documents, in
// stable filename order. Document indices are assigned later by the
// pipeline.
func FromDir(dir string) ([]pipeline.SourceDocument, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("FromDir: reading %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !isPDF(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	docs := make([]pipeline.SourceDocument, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("FromDir: reading %s: %w", name, err)
		}
		docs = append(docs, pipeline.SourceDocument{Filename: name, Data: data})
	}
	return docs, nil
}

// FromGCS downloads every PDF object under gs://bucket/prefix. The object's
// base name becomes the document filename, so filename signal detection
// works the same as for local files.
func FromGCS(ctx context.Context, bucket, prefix string) ([]pipeline.SourceDocument, error) {
	log := logger.FromContext(ctx)

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("FromGCS: create storage client: %w", err)
	}
	defer client.Close()

	bkt := client.Bucket(bucket)
	it := bkt.Objects(ctx, &storage.Query{Prefix: prefix})

	var docs []pipeline.SourceDocument
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("FromGCS: listing gs://%s/%s: %w", bucket, prefix, err)
		}
		if !isPDF(attrs.Name) {
			continue
		}

		data, err := readObject(ctx, bkt, attrs.Name)
		if err != nil {
			return nil, fmt.Errorf("FromGCS: %w", err)
		}

		log.Debug().
			Str("object", attrs.Name).
			Int("bytes", len(data)).
			Msg("downloaded statement object")

		docs = append(docs, pipeline.SourceDocument{
			Filename: path.Base(attrs.Name),
			Data:     data,
		})
	}
	return docs, nil
}

func readObject(ctx context.Context, bkt *storage.BucketHandle, name string) ([]byte, error) {
	rc, err := bkt.Object(name).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("readObject: open %s: %w", name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("readObject: read %s: %w", name, err)
	}
	return data, nil
}

func isPDF(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}
