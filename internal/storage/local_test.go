package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewLocalStorage(t *testing.T) {
	t.Run("creates directories if not exist", func(t *testing.T) {
		base := filepath.Join(os.TempDir(), "stitch_test_"+randomSuffix())
		defer func() { _ = os.RemoveAll(base) }()

		tempDir := filepath.Join(base, "tmp")
		outputDir := filepath.Join(base, "out")

		storage, err := NewLocalStorage(tempDir, outputDir)
		if err != nil {
			t.Fatalf("NewLocalStorage() error = %v", err)
		}

		if storage.TempDir() != tempDir {
			t.Errorf("TempDir() = %v, want %v", storage.TempDir(), tempDir)
		}
		if storage.OutputDir() != outputDir {
			t.Errorf("OutputDir() = %v, want %v", storage.OutputDir(), outputDir)
		}

		for _, dir := range []string{tempDir, outputDir} {
			info, err := os.Stat(dir)
			if err != nil {
				t.Fatalf("directory not created: %v", err)
			}
			if !info.IsDir() {
				t.Error("expected directory, got file")
			}
		}
	})

	t.Run("uses default directories when empty", func(t *testing.T) {
		storage, err := NewLocalStorage("", "")
		if err != nil {
			t.Fatalf("NewLocalStorage() error = %v", err)
		}

		if want := filepath.Join(os.TempDir(), "stitch"); storage.TempDir() != want {
			t.Errorf("TempDir() = %v, want %v", storage.TempDir(), want)
		}
		if want := filepath.Join(os.TempDir(), "stitch-output"); storage.OutputDir() != want {
			t.Errorf("OutputDir() = %v, want %v", storage.OutputDir(), want)
		}
	})
}

func TestLocalStorage_SaveTemp(t *testing.T) {
	storage := setupTestStorage(t)

	t.Run("saves data to temp file", func(t *testing.T) {
		ctx := context.Background()
		data := bytes.NewReader([]byte("test data"))

		path, err := storage.SaveTemp(ctx, "test", data)
		if err != nil {
			t.Fatalf("SaveTemp() error = %v", err)
		}
		defer func() { _ = os.Remove(path) }()

		if !strings.Contains(path, "test_") {
			t.Errorf("path %s should contain 'test_'", path)
		}

		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read saved file: %v", err)
		}
		if string(content) != "test data" {
			t.Errorf("got %q, want %q", string(content), "test data")
		}
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := storage.SaveTemp(ctx, "test", bytes.NewReader([]byte("data")))
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestLocalStorage_LoadTemp(t *testing.T) {
	storage := setupTestStorage(t)
	ctx := context.Background()

	t.Run("loads saved file", func(t *testing.T) {
		path, err := storage.SaveTemp(ctx, "load_test", bytes.NewReader([]byte("load data")))
		if err != nil {
			t.Fatalf("SaveTemp() error = %v", err)
		}
		defer func() { _ = os.Remove(path) }()

		reader, err := storage.LoadTemp(ctx, path)
		if err != nil {
			t.Fatalf("LoadTemp() error = %v", err)
		}
		defer func() { _ = reader.Close() }()

		content, err := io.ReadAll(reader)
		if err != nil {
			t.Fatalf("failed to read: %v", err)
		}
		if string(content) != "load data" {
			t.Errorf("got %q, want %q", string(content), "load data")
		}
	})

	t.Run("returns error for non-existent file", func(t *testing.T) {
		_, err := storage.LoadTemp(ctx, "/non/existent/file")
		if err == nil {
			t.Error("expected error for non-existent file")
		}
	})
}

func TestLocalStorage_CleanupTemp(t *testing.T) {
	storage := setupTestStorage(t)
	ctx := context.Background()

	t.Run("removes files", func(t *testing.T) {
		var paths []string
		for i := 0; i < 3; i++ {
			path, err := storage.SaveTemp(ctx, "cleanup", bytes.NewReader([]byte("data")))
			if err != nil {
				t.Fatalf("SaveTemp() error = %v", err)
			}
			paths = append(paths, path)
		}

		err := storage.CleanupTemp(ctx, paths)
		if err != nil {
			t.Fatalf("CleanupTemp() error = %v", err)
		}

		for _, p := range paths {
			if _, err := os.Stat(p); !os.IsNotExist(err) {
				t.Errorf("file %s still exists", p)
			}
		}
	})

	t.Run("ignores non-existent files", func(t *testing.T) {
		err := storage.CleanupTemp(ctx, []string{"/non/existent/file"})
		if err != nil {
			t.Errorf("CleanupTemp() should ignore non-existent files, got %v", err)
		}
	})
}

func TestLocalStorage_SaveNumbered(t *testing.T) {
	storage := setupTestStorage(t)
	ctx := context.Background()

	t.Run("first save gets 00001", func(t *testing.T) {
		path, err := storage.SaveNumbered(ctx, "frame", "", []byte("png"))
		if err != nil {
			t.Fatalf("SaveNumbered() error = %v", err)
		}
		if filepath.Base(path) != "frame_00001.png" {
			t.Errorf("got %s, want frame_00001.png", filepath.Base(path))
		}
	})

	t.Run("subsequent saves advance the sequence", func(t *testing.T) {
		path, err := storage.SaveNumbered(ctx, "frame", "", []byte("png"))
		if err != nil {
			t.Fatalf("SaveNumbered() error = %v", err)
		}
		if filepath.Base(path) != "frame_00002.png" {
			t.Errorf("got %s, want frame_00002.png", filepath.Base(path))
		}
	})

	t.Run("suffix appears after the sequence number", func(t *testing.T) {
		path, err := storage.SaveNumbered(ctx, "frame", "preview", []byte("png"))
		if err != nil {
			t.Fatalf("SaveNumbered() error = %v", err)
		}
		if filepath.Base(path) != "frame_00001_preview.png" {
			t.Errorf("got %s, want frame_00001_preview.png", filepath.Base(path))
		}
	})

	t.Run("prefix with subfolder", func(t *testing.T) {
		path, err := storage.SaveNumbered(ctx, "video/myvideo", "", []byte("png"))
		if err != nil {
			t.Fatalf("SaveNumbered() error = %v", err)
		}
		want := filepath.Join(storage.OutputDir(), "video", "myvideo_00001.png")
		if path != want {
			t.Errorf("got %s, want %s", path, want)
		}
		content, err := os.ReadFile(path)
		if err != nil || string(content) != "png" {
			t.Errorf("file content mismatch: %q, %v", content, err)
		}
	})

	t.Run("rejects empty prefix", func(t *testing.T) {
		if _, err := storage.SaveNumbered(ctx, "", "", []byte("png")); err == nil {
			t.Error("expected error for empty prefix")
		}
	})
}

func TestLocalStorage_UploadToS3(t *testing.T) {
	storage := setupTestStorage(t)
	ctx := context.Background()

	_, err := storage.UploadToS3(ctx, "key", bytes.NewReader([]byte("data")))
	if err != ErrS3NotConfigured {
		t.Errorf("expected ErrS3NotConfigured, got %v", err)
	}
}

func setupTestStorage(t *testing.T) *LocalStorage {
	t.Helper()
	base := filepath.Join(os.TempDir(), "stitch_test_"+randomSuffix())
	t.Cleanup(func() { _ = os.RemoveAll(base) })

	storage, err := NewLocalStorage(filepath.Join(base, "tmp"), filepath.Join(base, "out"))
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	return storage
}

func randomSuffix() string {
	return time.Now().Format("20060102150405.000000000")
}
