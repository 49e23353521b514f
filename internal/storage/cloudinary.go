package storage

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryStorage implements Uploader on top of the Cloudinary upload API.
type CloudinaryStorage struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryStorage creates a Cloudinary client for the given account.
func NewCloudinaryStorage(cloudName, apiKey, apiSecret string) (*CloudinaryStorage, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("create cloudinary client: %w", err)
	}

	return &CloudinaryStorage{cld: cld}, nil
}

// Upload sends the file at localPath to Cloudinary.
func (s *CloudinaryStorage) Upload(ctx context.Context, localPath string, opts Options) (*Result, error) {
	name := filepath.Base(localPath)

	resp, err := s.cld.Upload.Upload(ctx, localPath, uploader.UploadParams{
		Folder:         opts.Folder,
		UseFilename:    api.Bool(opts.UseFilename),
		UniqueFilename: api.Bool(opts.UniqueFilename),
		Overwrite:      api.Bool(opts.Overwrite),
	})
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload %q: %w", name, err)
	}
	// API-level rejections come back as a populated error field, not as err.
	if resp.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary upload %q: %s", name, resp.Error.Message)
	}
	if resp.SecureURL == "" {
		return nil, fmt.Errorf("cloudinary upload %q: empty secure_url in response", name)
	}

	return &Result{
		SecureURL: resp.SecureURL,
		PublicID:  resp.PublicID,
	}, nil
}
