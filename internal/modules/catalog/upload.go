package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ObjectKey names an upload "<unix-millis>-<random>.<ext>".
func ObjectKey(now time.Time, name string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(strings.TrimSpace(name)), "."))
	if ext == "" {
		ext = "bin"
	}
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
	return strconv.FormatInt(now.UnixMilli(), 10) + "-" + random + "." + ext
}

// UploadFile stores f and returns its public URL. Nothing is written to the store.
func (c *Catalog) UploadFile(ctx context.Context, f *File) (string, error) {
	if !f.present() {
		return "", fmt.Errorf("%w: no file supplied", ErrUpload)
	}
	if c.objects == nil {
		c.metrics.ObserveUpload("disabled")
		return "", fmt.Errorf("%w: %v", ErrUpload, ErrUploadsDisabled)
	}
	ctx, span := c.tracer.Start(ctx, "catalog.Upload")
	defer span.End()

	key := ObjectKey(time.Now(), f.Name)
	url, err := c.objects.Upload(ctx, key, f.Reader, f.ContentType)
	if err != nil {
		span.RecordError(err)
		c.metrics.ObserveUpload("failed")
		c.log.Warn("upload failed", "key", key, "error", err)
		return "", fmt.Errorf("%w: storage rejected %s", ErrUpload, key)
	}
	c.metrics.ObserveUpload("ok")
	return url, nil
}
