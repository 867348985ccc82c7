// internal/adapters/out/gcs/item_image_repository_gcs.go
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
)

// ItemImageRepositoryGCS uploads catalog item images to Google Cloud Storage
// and hands back the public URL stored as the item's image reference.
//
// Object layout: items/<unix-nano>-<basename>. The backend never reads these
// objects; only the URL travels through the catalog API.
type ItemImageRepositoryGCS struct {
	Client *storage.Client
	Bucket string
}

func NewItemImageRepositoryGCS(client *storage.Client, bucket string) *ItemImageRepositoryGCS {
	return &ItemImageRepositoryGCS{
		Client: client,
		Bucket: strings.TrimSpace(bucket),
	}
}

// PublishFile uploads the local image file and returns its public URL.
func (r *ItemImageRepositoryGCS) PublishFile(ctx context.Context, path string) (string, error) {
	if r == nil || r.Client == nil {
		return "", errors.New("item_image_repository_gcs: nil storage client")
	}

	bucket := strings.TrimSpace(r.Bucket)
	if bucket == "" {
		return "", errors.New("item_image_repository_gcs: bucket is empty")
	}

	p := strings.TrimSpace(path)
	if p == "" {
		return "", errors.New("item_image_repository_gcs: path is empty")
	}

	f, err := os.Open(p)
	if err != nil {
		return "", err
	}
	defer f.Close()

	objName := fmt.Sprintf("items/%d-%s", time.Now().UnixNano(), filepath.Base(p))

	w := r.Client.Bucket(bucket).Object(objName).NewWriter(ctx)
	w.ContentType = contentTypeForFile(p)

	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	return publicURL(bucket, objName), nil
}

// publicURL builds the public GCS URL for an object.
func publicURL(bucket, objectPath string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s",
		strings.TrimSpace(bucket),
		strings.TrimLeft(strings.TrimSpace(objectPath), "/"))
}

func contentTypeForFile(path string) string {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
