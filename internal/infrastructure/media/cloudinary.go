package media

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Config captures the credentials for the Cloudinary account.
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// CloudinaryUploader stores profile photos on Cloudinary and returns the
// public HTTPS URL of the stored asset.
type CloudinaryUploader struct {
	client *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryUploader initialises the Cloudinary client from credentials.
func NewCloudinaryUploader(cfg Config) (*CloudinaryUploader, error) {
	client, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	return &CloudinaryUploader{client: client, folder: cfg.Folder}, nil
}

// Upload sends the file to Cloudinary. Uploaded files are not cleaned up
// when the enclosing operation fails afterwards; orphaned assets are
// accepted.
func (u *CloudinaryUploader) Upload(ctx context.Context, file io.Reader, filename string) (string, error) {
	res, err := u.client.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       u.folder,
		ResourceType: "auto",
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload %q: %w", filename, err)
	}
	if res.SecureURL == "" {
		return "", fmt.Errorf("cloudinary upload %q: empty result", filename)
	}
	return res.SecureURL, nil
}
