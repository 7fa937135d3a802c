package upload

import (
	"context"

	"cloud.google.com/go/storage"
	"github.com/go-faster/errors"
)

const contentType = "application/json"

func New(bucket *storage.BucketHandle) *Uploader {
	return &Uploader{bucket: bucket}
}

type Uploader struct {
	bucket *storage.BucketHandle
}

// Upload replaces the object with data in a single request.
func (u *Uploader) Upload(ctx context.Context, object string, data []byte) error {
	w := u.bucket.Object(object).NewWriter(ctx)
	w.ContentType = contentType
	w.ChunkSize = 0

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return errors.Wrapf(err, "write %s", object)
	}
	if err := w.Close(); err != nil {
		return errors.Wrapf(err, "upload %s", object)
	}
	return nil
}
