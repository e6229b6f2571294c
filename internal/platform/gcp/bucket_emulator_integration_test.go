package gcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/yungbote/course-portal-backend/internal/platform/envutil"
	"github.com/yungbote/course-portal-backend/internal/platform/logger"
)

func TestBucketServiceEmulatorLifecycle(t *testing.T) {
	if !envutil.Bool("CP_RUN_GCS_EMULATOR_INTEGRATION", false) {
		t.Skip("set CP_RUN_GCS_EMULATOR_INTEGRATION=true to run emulator integration tests")
	}
	emulatorHost := strings.TrimRight(envutil.String("STORAGE_EMULATOR_HOST", "http://127.0.0.1:4443"), "/")
	if !isEmulatorReachable(emulatorHost) {
		t.Skipf("storage emulator not reachable at %s", emulatorHost)
	}

	bucketName := fmt.Sprintf("cp-it-materials-%d", time.Now().UnixNano())
	createBucketIfMissing(t, emulatorHost, bucketName)

	ctx := context.Background()
	bucket, err := NewBucketServiceWithConfig(ctx, logger.Nop(), ObjectStorageConfig{
		Mode:          ObjectStorageModeGCSEmulator,
		EmulatorHost:  emulatorHost,
		Bucket:        bucketName,
		PublicBaseURL: emulatorHost,
	})
	if err != nil {
		t.Fatalf("NewBucketServiceWithConfig: %v", err)
	}
	defer bucket.Close()

	keyA, keyB := "1700000000000-aaaaaaaaaa.pdf", "1700000000001-bbbbbbbbbb.png"
	urlA, err := bucket.Upload(ctx, keyA, strings.NewReader("alpha"), "application/pdf")
	if err != nil {
		t.Fatalf("Upload(%s): %v", keyA, err)
	}
	if !strings.HasPrefix(urlA, emulatorHost) || !strings.Contains(urlA, keyA) {
		t.Fatalf("unexpected url %q", urlA)
	}
	if _, err := bucket.Upload(ctx, keyB, strings.NewReader("beta"), ""); err != nil {
		t.Fatalf("Upload(%s): %v", keyB, err)
	}

	resp, err := http.Get(urlA)
	if err != nil {
		t.Fatalf("GET %s: %v", urlA, err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if string(body) != "alpha" {
		t.Fatalf("download body: want=%q got=%q", "alpha", string(body))
	}

	keys, err := bucket.ListKeys(ctx, "")
	if err != nil {
		t.Fatalf("ListKeys: %v", err)
	}
	if !slices.Contains(keys, keyA) || !slices.Contains(keys, keyB) {
		t.Fatalf("ListKeys missing uploaded keys: got=%v", keys)
	}

	if err := bucket.DeleteFile(ctx, keyA); err != nil {
		t.Fatalf("DeleteFile(%s): %v", keyA, err)
	}
	keys, err = bucket.ListKeys(ctx, "")
	if err != nil {
		t.Fatalf("ListKeys after delete: %v", err)
	}
	if slices.Contains(keys, keyA) || !slices.Contains(keys, keyB) {
		t.Fatalf("after delete: keys=%v", keys)
	}
}

func isEmulatorReachable(emulatorHost string) bool {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(emulatorHost + "/storage/v1/b?project=local-dev")
	if err != nil {
		return false
	}
	_ = resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 500
}

func createBucketIfMissing(t *testing.T, emulatorHost, bucket string) {
	t.Helper()
	payload, err := json.Marshal(map[string]string{"name": bucket})
	if err != nil {
		t.Fatalf("json.Marshal(bucket): %v", err)
	}
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Post(emulatorHost+"/storage/v1/b?project=local-dev", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("create bucket %q: %v", bucket, err)
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusConflict:
		return
	}
	b, _ := io.ReadAll(resp.Body)
	t.Fatalf("create bucket %q failed: status=%d body=%s", bucket, resp.StatusCode, strings.TrimSpace(string(b)))
}
