package traqcal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
	"google.golang.org/api/iterator"
)

// GSStore reads gs://bucket/path locations. The storage client is safe for
// concurrent use by multiple goroutines.
type GSStore struct {
	Client *storage.Client
}

// List returns the objects and pseudo-directories directly under dir. Google
// Storage has no real directories, so a prefix with no objects below it is
// reported as not existing.
func (s *GSStore) List(ctx context.Context, dir string) ([]Entry, error) {
	bucketName, key, err := splitBucketPath(dir, SchemeGS)
	if err != nil {
		return nil, err
	}
	prefix := dirPrefix(key)

	it := s.Client.Bucket(bucketName).Objects(ctx, &storage.Query{
		Prefix:    prefix,
		Delimiter: "/",
	})

	var out []Entry
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		} else if errors.Is(err, storage.ErrBucketNotExist) {
			return nil, fmt.Errorf("%s: %w", dir, fs.ErrNotExist)
		} else if err != nil {
			return nil, pfx.Err(fmt.Errorf("%s: %s", dir, err))
		}

		if attrs.Prefix != "" {
			out = append(out, Entry{
				Path:  SchemeGS + bucketName + "/" + attrs.Prefix,
				Name:  objectName(attrs.Prefix),
				IsDir: true,
			})
			continue
		}

		// Some tools write a zero-byte placeholder named after the folder
		if attrs.Name == prefix {
			continue
		}

		out = append(out, Entry{
			Path: SchemeGS + bucketName + "/" + attrs.Name,
			Name: objectName(attrs.Name),
		})
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, fs.ErrNotExist)
	}

	return out, nil
}

func (s *GSStore) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	bucketName, key, err := splitBucketPath(path, SchemeGS)
	if err != nil {
		return nil, err
	}
	if key == "" {
		return nil, fmt.Errorf("%s names a bucket, not an object", path)
	}

	r, err := s.Client.Bucket(bucketName).Object(key).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, fmt.Errorf("%s: %w", path, fs.ErrNotExist)
	} else if err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %s", path, err))
	}

	return r, nil
}
