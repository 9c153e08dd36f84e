package clients_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dagbuild/dagbuild/clients"
)

func TestLocalFSWriteCreatesParentDirs(t *testing.T) {
	dir := t.TempDir()
	fs := clients.NewLocalFS()
	ctx := context.Background()
	path := filepath.Join(dir, "nested", "sub", "file.txt")

	if err := fs.Write(ctx, path, []byte("hello")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := fs.Read(ctx, path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "hello" {
		t.Fatalf("Read = %q, want %q", got, "hello")
	}
}

func TestLocalFSExistsAndDelete(t *testing.T) {
	dir := t.TempDir()
	fs := clients.NewLocalFS()
	ctx := context.Background()
	path := filepath.Join(dir, "file.txt")

	exists, err := fs.Exists(ctx, path)
	if err != nil || exists {
		t.Fatalf("Exists on missing file = %v, %v", exists, err)
	}

	if err := fs.Write(ctx, path, []byte("x")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	exists, err = fs.Exists(ctx, path)
	if err != nil || !exists {
		t.Fatalf("Exists after Write = %v, %v", exists, err)
	}

	if err := fs.Delete(ctx, path); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	exists, err = fs.Exists(ctx, path)
	if err != nil || exists {
		t.Fatalf("Exists after Delete = %v, %v", exists, err)
	}
}

func TestLocalFSDeleteMissingIsNotAnError(t *testing.T) {
	dir := t.TempDir()
	fs := clients.NewLocalFS()
	if err := fs.Delete(context.Background(), filepath.Join(dir, "nope.txt")); err != nil {
		t.Fatalf("Delete of a missing file should be a no-op, got: %v", err)
	}
}
