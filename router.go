package traqcal

import (
	"context"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
)

// Router sends each path to the store that understands its scheme. Paths
// without a known scheme go to the local filesystem.
type Router struct {
	Local LocalStore
	GS    *GSStore
	S3    *S3Store
}

// NewRouterFor builds a Router, only constructing remote clients when at least
// one of paths points at them.
func NewRouterFor(ctx context.Context, paths ...string) (*Router, error) {
	r := &Router{}

	for _, p := range paths {
		switch {
		case strings.HasPrefix(p, SchemeGS) && r.GS == nil:
			client, err := storage.NewClient(ctx)
			if err != nil {
				return nil, err
			}
			r.GS = &GSStore{Client: client}
		case strings.HasPrefix(p, SchemeS3) && r.S3 == nil:
			cfg, err := S3ConfigFromEnv()
			if err != nil {
				return nil, err
			}
			s3Store, err := NewS3Store(ctx, cfg)
			if err != nil {
				return nil, err
			}
			r.S3 = s3Store
		}
	}

	return r, nil
}

func (r *Router) storeFor(p string) (Store, error) {
	switch {
	case strings.HasPrefix(p, SchemeGS):
		if r.GS == nil {
			return nil, fmt.Errorf("%s: no Google Storage client configured", p)
		}
		return r.GS, nil
	case strings.HasPrefix(p, SchemeS3):
		if r.S3 == nil {
			return nil, fmt.Errorf("%s: no S3 client configured", p)
		}
		return r.S3, nil
	}

	return r.Local, nil
}

func (r *Router) List(ctx context.Context, dir string) ([]Entry, error) {
	s, err := r.storeFor(dir)
	if err != nil {
		return nil, err
	}
	return s.List(ctx, dir)
}

func (r *Router) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	s, err := r.storeFor(path)
	if err != nil {
		return nil, err
	}
	return s.Open(ctx, path)
}

// Close releases any remote clients.
func (r *Router) Close() error {
	if r.GS != nil && r.GS.Client != nil {
		return r.GS.Client.Close()
	}
	return nil
}
