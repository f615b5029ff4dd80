package storage

import (
	"context"
	"io"
	"os"

	gcs "cloud.google.com/go/storage"
)

type GCSStore struct {
	client *gcs.Client
	bucket string
}

func NewGCSStore(ctx context.Context, bucket string) (*GCSStore, error) {
	c, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &GCSStore{client: c, bucket: bucket}, nil
}

func (s *GCSStore) Close() error { return s.client.Close() }

func (s *GCSStore) Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (string, error) {
	obj := s.client.Bucket(s.bucket).Object(objectName)

	w := obj.NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	return objectName, nil
}

// Fetch downloads the object to a temp file so the PDF reader can seek it.
func (s *GCSStore) Fetch(ctx context.Context, storedPath string) (string, func(), error) {
	rd, err := s.client.Bucket(s.bucket).Object(storedPath).NewReader(ctx)
	if err != nil {
		return "", func() {}, err
	}
	defer rd.Close()

	tmp, err := os.CreateTemp("", "resume-*.pdf")
	if err != nil {
		return "", func() {}, err
	}

	if _, err := io.Copy(tmp, rd); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", func() {}, err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", func() {}, err
	}

	name := tmp.Name()
	return name, func() { _ = os.Remove(name) }, nil
}

var _ Store = (*GCSStore)(nil)
