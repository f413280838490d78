package scan

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func TestFindNewFiles(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "20240115083000.mkv"), "video bytes")
	writeFile(t, filepath.Join(dir, "20240116090000.mkv"), "more video bytes")
	writeFile(t, filepath.Join(dir, "20240116090000.mkv.md5"), "d41d8cd98f00b204e9800998ecf8427e")
	writeFile(t, filepath.Join(dir, "20240117100000.mkv"), "") // empty, still being written
	writeFile(t, filepath.Join(dir, "notes.txt"), "not a recording")

	fresh, err := FindNewFiles(dir, "mkv")
	if err != nil {
		t.Fatalf("FindNewFiles failed: %v", err)
	}

	want := []string{filepath.Join(dir, "20240115083000.mkv")}
	if len(fresh) != 1 || fresh[0] != want[0] {
		t.Errorf("got %v, want %v", fresh, want)
	}
}

func TestFindNewFilesEmptyDir(t *testing.T) {
	fresh, err := FindNewFiles(t.TempDir(), "mkv")
	if err != nil {
		t.Fatalf("FindNewFiles failed: %v", err)
	}
	if len(fresh) != 0 {
		t.Errorf("expected no files, got %v", fresh)
	}
}

func TestChecksumMD5(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.mkv")
	writeFile(t, path, "hello world")

	sum, err := ChecksumMD5(path)
	if err != nil {
		t.Fatalf("ChecksumMD5 failed: %v", err)
	}
	if want := "5eb63bbbe01eeed093cb22bb8f5acdc3"; sum != want {
		t.Errorf("checksum = %s, want %s", sum, want)
	}
}

func TestWriteChecksumMarksProcessed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "20240115083000.mkv")
	writeFile(t, path, "video bytes")

	sum, err := ChecksumMD5(path)
	if err != nil {
		t.Fatalf("ChecksumMD5 failed: %v", err)
	}
	if err := WriteChecksum(path, sum); err != nil {
		t.Fatalf("WriteChecksum failed: %v", err)
	}

	got, err := os.ReadFile(path + ".md5")
	if err != nil {
		t.Fatalf("reading sidecar: %v", err)
	}
	if string(got) != sum {
		t.Errorf("sidecar holds %q, want %q", got, sum)
	}

	fresh, err := FindNewFiles(dir, "mkv")
	if err != nil {
		t.Fatalf("FindNewFiles failed: %v", err)
	}
	if len(fresh) != 0 {
		t.Errorf("file with sidecar still reported new: %v", fresh)
	}
}

func TestWatcherEmitsSettledFile(t *testing.T) {
	dir := t.TempDir()

	w, err := NewWatcher(dir, "mkv", 100*time.Millisecond)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	path := filepath.Join(dir, "20240115083000.mkv")
	writeFile(t, path, "video bytes")

	select {
	case got := <-w.Files():
		if got != path {
			t.Errorf("watcher emitted %q, want %q", got, path)
		}
	case <-ctx.Done():
		t.Fatal("watcher never emitted the new file")
	}

	cancel()
	if err := <-done; err != context.Canceled {
		t.Logf("watcher exited with: %v", err)
	}
}
