// Package traqcal holds the I/O helpers shared by the calibration tools:
// stores that list and open instrument exports on the local disk, in Google
// Storage or in S3, and transparent decompression of those exports.
package traqcal

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
)

const (
	SchemeGS = "gs://"
	SchemeS3 = "s3://"
)

// Entry is one item found when listing a directory.
type Entry struct {
	// Path can be handed back to Open on the same store.
	Path  string
	Name  string
	IsDir bool
}

// Store lists directories and opens files. Listing a directory that does not
// exist, or a path that is not a directory, yields an error matching
// fs.ErrNotExist.
//
// Buckets have no real directories, so GSStore and S3Store report a prefix
// with nothing under it as not existing. LocalStore lists an existing empty
// directory as empty.
type Store interface {
	List(ctx context.Context, dir string) ([]Entry, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

// splitBucketPath splits "gs://bucket/some/key" into "bucket" and "some/key".
// The key may be empty when the path names the whole bucket.
func splitBucketPath(p, scheme string) (bucket, key string, err error) {
	if !strings.HasPrefix(p, scheme) {
		return "", "", fmt.Errorf("%s does not start with %s", p, scheme)
	}

	pathParts := strings.SplitN(strings.TrimPrefix(p, scheme), "/", 2)
	if pathParts[0] == "" {
		return "", "", fmt.Errorf("%s has no bucket name", p)
	}

	if len(pathParts) == 1 {
		return pathParts[0], "", nil
	}

	return pathParts[0], pathParts[1], nil
}

// dirPrefix turns a key into a listing prefix that only matches children.
func dirPrefix(key string) string {
	if key == "" || strings.HasSuffix(key, "/") {
		return key
	}
	return key + "/"
}

func objectName(key string) string {
	return path.Base(strings.TrimSuffix(key, "/"))
}
