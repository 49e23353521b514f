//go:build integration

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"testing"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
)

// startMinio runs a throwaway MinIO container and returns its host:port.
func startMinio(t *testing.T) string {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("could not connect to docker: %v", err)
	}

	tag := os.Getenv("MINIO_TEST_TAG")
	if tag == "" {
		tag = "RELEASE.2024-01-31T20-20-33Z"
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "minio/minio",
		Tag:        tag,
		Cmd:        []string{"server", "/data"},
		Env: []string{
			"MINIO_ROOT_USER=minio",
			"MINIO_ROOT_PASSWORD=minio123",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
	})
	if err != nil {
		t.Fatalf("could not start minio: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	endpoint := "localhost:" + resource.GetPort("9000/tcp")

	if err := pool.Retry(func() error {
		resp, err := http.Get("http://" + endpoint + "/minio/health/live")
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("minio not ready: %d", resp.StatusCode)
		}
		return nil
	}); err != nil {
		t.Fatalf("minio not ready: %v", err)
	}

	return endpoint
}

func TestMinioStorage_UploadRoundTrip(t *testing.T) {
	endpoint := startMinio(t)
	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	s, err := NewMinioStorage(ctx, log, endpoint, "minio", "minio123", "photos", "http://"+endpoint+"/photos", false)
	if err != nil {
		t.Fatalf("NewMinioStorage: %v", err)
	}

	path := writeTempPhoto(t, "cat.jpg", "meow")
	opts := Options{Folder: "photos-app-levig", UseFilename: true, Overwrite: true}

	res, err := s.Upload(ctx, path, opts)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if res.PublicID != "photos-app-levig/cat.jpg" {
		t.Errorf("PublicID = %q", res.PublicID)
	}

	resp, err := http.Get(res.SecureURL)
	if err != nil {
		t.Fatalf("GET %s: %v", res.SecureURL, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "meow" {
		t.Errorf("public read = %d %q, want 200 \"meow\"", resp.StatusCode, body)
	}

	// Overwrite allowed: same key again succeeds.
	if _, err := s.Upload(ctx, path, opts); err != nil {
		t.Fatalf("overwrite upload: %v", err)
	}

	opts.Overwrite = false
	if _, err := s.Upload(ctx, path, opts); !errors.Is(err, ErrObjectExists) {
		t.Fatalf("expected ErrObjectExists, got %v", err)
	}
}
