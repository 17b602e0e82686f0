package firebase

import (
	"context"
	"fmt"
	"io"
	"net/url"

	gcs "cloud.google.com/go/storage"
)

// Uploader stores an object and returns a URL clients can fetch it from.
type Uploader interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

// BucketUploader writes objects into a Cloud Storage bucket.
type BucketUploader struct {
	bucket     *gcs.BucketHandle
	bucketName string
}

// NewBucketUploader returns an uploader for the app's storage bucket, or nil
// when storage was not configured.
func NewBucketUploader(app *App) *BucketUploader {
	if app == nil || app.Bucket == nil {
		return nil
	}
	return &BucketUploader{bucket: app.Bucket, bucketName: app.BucketName}
}

func (u *BucketUploader) Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	w := u.bucket.Object(objectPath).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=31536000"

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("write object %s: %w", objectPath, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize object %s: %w", objectPath, err)
	}

	return PublicURL(u.bucketName, objectPath), nil
}

// PublicURL is the download URL Firebase serves for an object path.
func PublicURL(bucketName, objectPath string) string {
	return fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media",
		bucketName, url.PathEscape(objectPath))
}
