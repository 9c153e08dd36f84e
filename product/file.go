package product

import (
	"context"
	"encoding/json"
	"errors"
	"os"

	"github.com/dagbuild/dagbuild/client"
	"github.com/dagbuild/dagbuild/identifier"
)

// File is a filesystem-backed Product. Metadata lives in a sidecar file
// next to the product (spec section 6: "<product_path>.source"), grounded
// on the teacher's examples/cli-tasks/storage.FileStorage load/save
// pattern — read-modify-write over os.ReadFile/os.WriteFile — generalized
// from a list of tasks to a single product's metadata record.
type File struct {
	base
	ident *identifier.File
	fs    client.FS
}

// NewFile creates a File product backed by fs.
func NewFile(ident *identifier.File, fs client.FS) *File {
	return &File{ident: ident, fs: fs}
}

func (f *File) Identifier() identifier.Identifier { return f.ident }
func (f *File) Kind() Kind                        { return identifier.KindFile }

func (f *File) path() (string, error) {
	return f.ident.Rendered()
}

func (f *File) sidecarPath() (string, error) {
	p, err := f.path()
	if err != nil {
		return "", err
	}
	return p + ".source", nil
}

// Exists probes the backend directly; it must never consult cached
// metadata (spec section 4.4).
func (f *File) Exists(ctx context.Context) (bool, error) {
	p, err := f.path()
	if err != nil {
		return false, err
	}
	return f.fs.Exists(ctx, p)
}

// FetchMetadata reads the sidecar file. A missing or unparsable sidecar
// yields Empty, never an error, per spec section 6.
func (f *File) FetchMetadata(ctx context.Context) (Metadata, error) {
	return f.cachedFetch(ctx, f.fetch)
}

func (f *File) fetch(ctx context.Context) (Metadata, error) {
	exists, err := f.Exists(ctx)
	if err != nil {
		return Empty, err
	}
	if !exists {
		return Empty, nil
	}

	sidecar, err := f.sidecarPath()
	if err != nil {
		return Empty, err
	}

	data, err := f.fs.Read(ctx, sidecar)
	if err != nil {
		return Empty, nil
	}

	var m Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return Empty, nil
	}
	return m, nil
}

// SaveMetadata writes the sidecar file, overwriting any previous content.
func (f *File) SaveMetadata(ctx context.Context, m Metadata) error {
	sidecar, err := f.sidecarPath()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if err := f.fs.Write(ctx, sidecar, data); err != nil {
		return err
	}
	f.cache = &m
	f.fetchErr = nil
	return nil
}

// Delete removes the product file and its sidecar. A missing product is
// not an error (idempotent delete, spec section 4.4).
func (f *File) Delete(ctx context.Context, force bool) error {
	p, err := f.path()
	if err != nil {
		return err
	}
	if err := f.fs.Delete(ctx, p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	sidecar, err := f.sidecarPath()
	if err != nil {
		return err
	}
	if err := f.fs.Delete(ctx, sidecar); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	f.InvalidateCache()
	return nil
}
