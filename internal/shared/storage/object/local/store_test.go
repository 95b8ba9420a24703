package local

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"coursefit-backend/internal/shared/storage/object"
)

func TestSaveAndOpen(t *testing.T) {
	ctx := context.Background()
	store := New(t.TempDir())

	key, size, err := store.Save(ctx, "Mr. Radia", "math-recommendations.csv", "text/csv", strings.NewReader("Name,Teacher\n"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if size != int64(len("Name,Teacher\n")) {
		t.Fatalf("unexpected size %d", size)
	}
	if !strings.HasSuffix(key, "/math-recommendations.csv") {
		t.Fatalf("unexpected key %q", key)
	}
	if strings.Contains(key, "Radia") {
		t.Fatalf("namespace label leaked into key %q", key)
	}

	rc, err := store.Open(ctx, key)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "Name,Teacher\n" {
		t.Fatalf("unexpected content %q", data)
	}
}

func TestOpenRejectsTraversal(t *testing.T) {
	store := New(t.TempDir())
	if _, err := store.Open(context.Background(), "../secret"); err == nil {
		t.Fatalf("expected traversal to be rejected")
	}
}

func TestSaveRejectsBadName(t *testing.T) {
	store := New(t.TempDir())
	if _, _, err := store.Save(context.Background(), "", "../x.csv", "text/csv", strings.NewReader("")); err == nil {
		t.Fatalf("expected invalid name error")
	}
}

func TestSaveHonorsCanceledContext(t *testing.T) {
	store := New(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := store.Save(ctx, "", "x.csv", "text/csv", strings.NewReader("")); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestOpenMissingIsNotFound(t *testing.T) {
	store := New(t.TempDir())
	_, err := store.Open(context.Background(), "abc/math-recommendations-latest.csv")
	if !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveOverwritesSameKey(t *testing.T) {
	ctx := context.Background()
	store := New(t.TempDir())
	first, _, err := store.Save(ctx, "Mr. Radia", "latest.csv", "text/csv", strings.NewReader("a very long first body\n"))
	if err != nil {
		t.Fatalf("Save first: %v", err)
	}
	second, _, err := store.Save(ctx, "Mr. Radia", "latest.csv", "text/csv", strings.NewReader("short\n"))
	if err != nil {
		t.Fatalf("Save second: %v", err)
	}
	if first != second {
		t.Fatalf("expected stable key, got %q and %q", first, second)
	}
	rc, err := store.Open(ctx, second)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "short\n" {
		t.Fatalf("expected overwritten body, got %q", data)
	}
}
