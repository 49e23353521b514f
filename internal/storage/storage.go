// Package storage defines the remote object storage used to publish photos.
// Implementations are picked at startup: Cloudinary by default, or any
// S3-compatible provider through MinIO.
package storage

import (
	"context"
	"errors"
)

// ErrObjectExists is returned when Options.Overwrite is false and the
// target object is already present.
var ErrObjectExists = errors.New("object already exists")

// Options controls how a file is named and placed in the remote store.
type Options struct {
	// Folder is the logical folder (or key prefix) the object goes into.
	Folder string
	// UseFilename names the object after the local file's base name.
	UseFilename bool
	// UniqueFilename appends a random suffix to the name.
	UniqueFilename bool
	// Overwrite replaces an existing object with the same name.
	Overwrite bool
}

// Result describes an uploaded object.
type Result struct {
	// SecureURL is the public HTTPS URL of the object.
	SecureURL string
	// PublicID is the provider's identifier for the object.
	PublicID string
}

// Uploader sends a local file to remote storage.
type Uploader interface {
	Upload(ctx context.Context, localPath string, opts Options) (*Result, error)
}
